package catalogrepo

import (
	"context"

	"fulfillment/internal/adapters/out/postgres/pgerr"
	"fulfillment/internal/core/domain/model/catalog"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormCatalogRepository implements CatalogRepository using GORM. Stock changes
// are single conditional UPDATE statements, so concurrent deductions of the
// last units cannot both succeed.
type GormCatalogRepository struct {
	db *gorm.DB
}

func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

func (r *GormCatalogRepository) GetSizes(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]*catalog.ProductSize, error) {
	var dtos []ProductSizeDTO
	if err := r.db.WithContext(ctx).Where("id IN ?", rawIDs(ids)).Find(&dtos).Error; err != nil {
		return nil, err
	}

	sizes := make(map[kernel.UUID]*catalog.ProductSize, len(dtos))
	for _, dto := range dtos {
		size, err := sizeToDomain(dto)
		if err != nil {
			return nil, err
		}
		sizes[size.ID()] = size
	}

	if missing, ok := firstMissing(ids, sizes); ok {
		return nil, errs.NewObjectNotFoundError("product_size", missing.String())
	}
	return sizes, nil
}

func (r *GormCatalogRepository) GetToppings(ctx context.Context, ids []kernel.UUID) (map[kernel.UUID]catalog.Topping, error) {
	var dtos []ToppingDTO
	if err := r.db.WithContext(ctx).Where("id IN ?", rawIDs(ids)).Find(&dtos).Error; err != nil {
		return nil, err
	}

	toppings := make(map[kernel.UUID]catalog.Topping, len(dtos))
	for _, dto := range dtos {
		t, err := toppingToDomain(dto)
		if err != nil {
			return nil, err
		}
		toppings[t.ID()] = t
	}

	if missing, ok := firstMissing(ids, toppings); ok {
		return nil, errs.NewObjectNotFoundError("topping", missing.String())
	}
	return toppings, nil
}

// DeductStock runs UPDATE ... WHERE quantity >= amount. No affected row means
// either an unknown product or not enough stock.
func (r *GormCatalogRepository) DeductStock(ctx context.Context, productID kernel.UUID, amount decimal.Decimal) error {
	if err := validateAmount(amount); err != nil {
		return err
	}

	db := r.db.WithContext(ctx)
	result := db.Model(&ProductDTO{}).
		Where("id = ? AND quantity >= ?", productID.Bytes(), amount).
		Update("quantity", gorm.Expr("quantity - ?", amount))
	if pgerr.IsCheckViolation(result.Error) {
		return errs.NewInsufficientStockError(productID.String(), amount)
	}
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	if err := r.ensureExists(db, productID); err != nil {
		return err
	}
	return errs.NewInsufficientStockError(productID.String(), amount)
}

func (r *GormCatalogRepository) RestoreStock(ctx context.Context, productID kernel.UUID, amount decimal.Decimal) error {
	if err := validateAmount(amount); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&ProductDTO{}).
		Where("id = ?", productID.Bytes()).
		Update("quantity", gorm.Expr("quantity + ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("product", productID.String())
	}
	return nil
}

// Stock reads the current quantity of a product.
func (r *GormCatalogRepository) Stock(ctx context.Context, productID kernel.UUID) (decimal.Decimal, error) {
	var dto ProductDTO
	if err := r.db.WithContext(ctx).Select("quantity").First(&dto, "id = ?", productID.Bytes()).Error; err != nil {
		return decimal.Zero, err
	}
	return dto.Quantity, nil
}

func (r *GormCatalogRepository) ensureExists(db *gorm.DB, productID kernel.UUID) error {
	var count int64
	if err := db.Model(&ProductDTO{}).Where("id = ?", productID.Bytes()).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("product", productID.String())
	}
	return nil
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return errs.NewValueIsOutOfRangeError("stock_amount", amount, 0, "+inf")
	}
	return nil
}

func rawIDs(ids []kernel.UUID) []uuid.UUID {
	return lo.Map(ids, func(id kernel.UUID, _ int) uuid.UUID { return id.Bytes() })
}

func firstMissing[V any](ids []kernel.UUID, found map[kernel.UUID]V) (kernel.UUID, bool) {
	return lo.Find(ids, func(id kernel.UUID) bool {
		_, ok := found[id]
		return !ok
	})
}
