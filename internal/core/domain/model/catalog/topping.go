package catalog

import (
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Topping is an add-on priced per ordered pack.
type Topping struct {
	id    kernel.UUID
	name  string
	price decimal.Decimal
}

func NewTopping(id kernel.UUID, name string, price decimal.Decimal) (Topping, error) {
	if err := id.Validate(); err != nil {
		return Topping{}, err
	}
	if price.IsNegative() {
		return Topping{}, errs.NewValueIsInvalidErrorWithCause("topping_price", fmt.Errorf("%s is negative", price))
	}
	return Topping{id: id, name: name, price: price}, nil
}

func (t Topping) ID() kernel.UUID { return t.id }
func (t Topping) Name() string { return t.name }
func (t Topping) Price() decimal.Decimal { return t.price }
