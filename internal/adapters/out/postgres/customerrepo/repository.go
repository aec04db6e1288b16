package customerrepo

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/customer"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormCustomerRepository implements CustomerRepository and StaffDirectory.
// Balance changes are conditional single-statement updates.
type GormCustomerRepository struct {
	db *gorm.DB
}

func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

func (r *GormCustomerRepository) Get(ctx context.Context, id kernel.UUID) (*customer.Customer, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto UserDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("user", id.String())
		}
		return nil, err
	}
	return userToDomain(dto)
}

func (r *GormCustomerRepository) DebitBonus(ctx context.Context, id kernel.UUID, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return errs.NewValueIsOutOfRangeError("bonus_amount", amount, 0, "+inf")
	}

	db := r.db.WithContext(ctx)
	result := db.Model(&UserDTO{}).
		Where("id = ? AND bonus >= ?", id.Bytes(), amount).
		Update("bonus", gorm.Expr("bonus - ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var dto UserDTO
	if err := db.Select("bonus").First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NewObjectNotFoundError("user", id.String())
		}
		return err
	}
	return errs.NewInsufficientBonusError(id.String(), amount, dto.Bonus)
}

func (r *GormCustomerRepository) CreditBonus(ctx context.Context, id kernel.UUID, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return errs.NewValueIsOutOfRangeError("bonus_amount", amount, 0, "+inf")
	}
	return r.updateOne(ctx, id, "bonus", gorm.Expr("bonus + ?", amount))
}

func (r *GormCustomerRepository) TouchLastOrder(ctx context.Context, id kernel.UUID, at time.Time) error {
	return r.updateOne(ctx, id, "last_order_at", at)
}

// PushTokensByRole lists the non-empty push tokens of every user with role.
func (r *GormCustomerRepository) PushTokensByRole(ctx context.Context, role customer.Role) ([]string, error) {
	var tokens []string
	err := r.db.WithContext(ctx).Model(&UserDTO{}).
		Where("role = ? AND push_token <> ''", string(role)).
		Order("id").
		Pluck("push_token", &tokens).Error
	return tokens, err
}

// PushToken returns "" for users without a registered device.
func (r *GormCustomerRepository) PushToken(ctx context.Context, userID kernel.UUID) (string, error) {
	c, err := r.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	return c.PushToken(), nil
}

func (r *GormCustomerRepository) updateOne(ctx context.Context, id kernel.UUID, column string, value any) error {
	result := r.db.WithContext(ctx).Model(&UserDTO{}).Where("id = ?", id.Bytes()).Update(column, value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("user", id.String())
	}
	return nil
}

// GormAddressDirectory resolves delivery addresses from the address book.
type GormAddressDirectory struct {
	db *gorm.DB
}

func NewGormAddressDirectory(db *gorm.DB) *GormAddressDirectory {
	return &GormAddressDirectory{db: db}
}

func (d *GormAddressDirectory) GetAddress(ctx context.Context, id kernel.UUID) (customer.Address, error) {
	if err := id.Validate(); err != nil {
		return customer.Address{}, err
	}

	var dto AddressDTO
	if err := d.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return customer.Address{}, errs.NewObjectNotFoundError("address", id.String())
		}
		return customer.Address{}, err
	}
	return addressToDomain(dto)
}
