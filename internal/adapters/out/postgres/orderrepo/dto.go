// Package orderrepo maps the order aggregate onto the orders, deliveries,
// order_items and order_item_toppings tables.
package orderrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// OrderDTO is the orders row. Status, payment and assignment columns are the
// only ones rewritten after placement.
type OrderDTO struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID             uuid.UUID       `gorm:"type:uuid;index;not null"`
	DeliveryID         uuid.UUID       `gorm:"type:uuid;not null"`
	Delivery           DeliveryDTO     `gorm:"foreignKey:DeliveryID"`
	CreatedAt          time.Time       `gorm:"not null"`
	TotalAmount        decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	TotalBonusAmount   decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	PartialBonusAmount decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	PromoCode          *string
	PromoDiscount      decimal.Decimal `gorm:"type:numeric(5,2);not null"`
	PaymentMethod      string          `gorm:"type:varchar(16);not null"`
	PaymentStatus      string          `gorm:"type:varchar(16);index;not null"`
	PaymentAttempts    int             `gorm:"not null"`
	PaymentURL         string
	Status             string     `gorm:"type:varchar(16);index;not null"`
	Source             string     `gorm:"type:varchar(16);not null"`
	IsPickup           bool       `gorm:"not null"`
	CourierID          *uuid.UUID `gorm:"type:uuid;index"`
	CollectorID        *uuid.UUID `gorm:"type:uuid"`
	Comment            string
	Change             int
	ProofPhoto         *string
	ProofComment       *string

	Items []ItemDTO `gorm:"foreignKey:OrderID"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// DeliveryDTO is the delivery leg. AddressID is NULL for pickup orders.
type DeliveryDTO struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	RestaurantID uuid.UUID       `gorm:"type:uuid;index;not null"`
	AddressID    *uuid.UUID      `gorm:"type:uuid"`
	DeliveryFee  decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	DistanceKM   decimal.Decimal `gorm:"column:distance_km;type:numeric(10,3);not null"`
	DeliveredAt  *time.Time
}

func (DeliveryDTO) TableName() string {
	return "deliveries"
}

type ItemDTO struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID       uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductSizeID uuid.UUID       `gorm:"type:uuid;not null"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null"`
	Position      int             `gorm:"not null"`
	Quantity      int             `gorm:"not null"`
	UnitPrice     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	IsBonus       bool            `gorm:"not null"`
	StockAmount   decimal.Decimal `gorm:"type:numeric(18,6);not null"`
	Total         decimal.Decimal `gorm:"type:numeric(12,2);not null"`

	Toppings []ItemToppingDTO `gorm:"foreignKey:OrderItemID"`
}

func (ItemDTO) TableName() string {
	return "order_items"
}

type ItemToppingDTO struct {
	ID          uint            `gorm:"primaryKey"`
	OrderItemID uuid.UUID       `gorm:"type:uuid;index;not null"`
	ToppingID   uuid.UUID       `gorm:"type:uuid;not null"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null"`
}

func (ItemToppingDTO) TableName() string {
	return "order_item_toppings"
}

func uuidPtr(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func kernelPtr(id *uuid.UUID) (*kernel.UUID, error) {
	if id == nil {
		return nil, nil //nolint:nilnil // NULL column
	}
	k, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return nil, err
	}
	return &k, nil
}

// fromDomain maps the whole aggregate, items included.
func fromDomain(o *order.Order) OrderDTO {
	d := o.Delivery()

	dto := OrderDTO{
		ID:         o.ID().Bytes(),
		UserID:     o.CustomerID().Bytes(),
		DeliveryID: d.ID().Bytes(),
		Delivery: DeliveryDTO{
			ID:           d.ID().Bytes(),
			RestaurantID: d.RestaurantID().Bytes(),
			AddressID:    uuidPtr(d.AddressID()),
			DeliveryFee:  d.Fee(),
			DistanceKM:   d.DistanceKM(),
			DeliveredAt:  d.DeliveredAt(),
		},
		CreatedAt: o.CreatedAt(),
		Items: lo.Map(o.Items(), func(item *order.Item, i int) ItemDTO {
			return ItemDTO{
				ID:            item.ID().Bytes(),
				OrderID:       o.ID().Bytes(),
				ProductSizeID: item.ProductSizeID().Bytes(),
				ProductID:     item.ProductID().Bytes(),
				Position:      i,
				Quantity:      item.Quantity(),
				UnitPrice:     item.UnitPrice(),
				IsBonus:       item.IsBonus(),
				StockAmount:   item.StockAmount(),
				Total:         item.Total(),
				Toppings: lo.Map(item.Toppings(), func(t order.ToppingLine, _ int) ItemToppingDTO {
					return ItemToppingDTO{OrderItemID: item.ID().Bytes(), ToppingID: t.ToppingID.Bytes(), Price: t.Price}
				}),
			}
		}),
	}
	applyMutable(&dto, o)
	return dto
}

// applyMutable copies the columns Update is allowed to rewrite.
func applyMutable(dto *OrderDTO, o *order.Order) {
	dto.TotalAmount = o.TotalAmount()
	dto.TotalBonusAmount = o.TotalBonusAmount()
	dto.PartialBonusAmount = o.PartialBonusAmount()
	dto.PromoCode = o.PromoCode()
	dto.PromoDiscount = o.PromoDiscount()
	dto.PaymentMethod = string(o.PaymentMethod())
	dto.PaymentStatus = string(o.PaymentStatus())
	dto.PaymentAttempts = o.PaymentAttempts()
	dto.PaymentURL = o.PaymentURL()
	dto.Status = o.Status().String()
	dto.Source = string(o.Source())
	dto.IsPickup = o.IsPickup()
	dto.CourierID = uuidPtr(o.CourierID())
	dto.CollectorID = uuidPtr(o.CollectorID())
	dto.Comment = o.Comment()
	dto.Change = o.Change()
	dto.ProofPhoto, dto.ProofComment = nil, nil
	if p := o.Proof(); p != nil {
		dto.ProofPhoto, dto.ProofComment = lo.ToPtr(p.Photo), lo.ToPtr(p.Comment)
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return nil, err
	}
	courierID, err := kernelPtr(dto.CourierID)
	if err != nil {
		return nil, err
	}
	collectorID, err := kernelPtr(dto.CollectorID)
	if err != nil {
		return nil, err
	}
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	delivery, err := deliveryToDomain(dto.Delivery)
	if err != nil {
		return nil, err
	}

	items := make([]*order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := itemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	var proof *order.Proof
	if dto.ProofPhoto != nil || dto.ProofComment != nil {
		proof = &order.Proof{Photo: lo.FromPtr(dto.ProofPhoto), Comment: lo.FromPtr(dto.ProofComment)}
	}

	return order.RestoreOrder(order.Snapshot{
		ID:                 id,
		CustomerID:         userID,
		Delivery:           delivery,
		Items:              items,
		CreatedAt:          dto.CreatedAt,
		TotalAmount:        dto.TotalAmount,
		TotalBonusAmount:   dto.TotalBonusAmount,
		PartialBonusAmount: dto.PartialBonusAmount,
		PromoCode:          dto.PromoCode,
		PromoDiscount:      dto.PromoDiscount,
		PaymentMethod:      order.PaymentMethod(dto.PaymentMethod),
		PaymentStatus:      order.PaymentStatus(dto.PaymentStatus),
		PaymentAttempts:    dto.PaymentAttempts,
		PaymentURL:         dto.PaymentURL,
		Status:             status,
		Source:             order.ParseSource(dto.Source),
		IsPickup:           dto.IsPickup,
		CourierID:          courierID,
		CollectorID:        collectorID,
		Comment:            dto.Comment,
		Change:             dto.Change,
		Proof:              proof,
	})
}

func deliveryToDomain(dto DeliveryDTO) (order.Delivery, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return order.Delivery{}, err
	}
	restaurantID, err := kernel.UUIDFromBytes(dto.RestaurantID[:])
	if err != nil {
		return order.Delivery{}, err
	}
	addressID, err := kernelPtr(dto.AddressID)
	if err != nil {
		return order.Delivery{}, err
	}
	return order.RestoreDelivery(id, restaurantID, addressID, dto.DeliveryFee, dto.DistanceKM, dto.DeliveredAt)
}

func itemToDomain(dto ItemDTO) (*order.Item, error) {
	ids := make([]kernel.UUID, 0, 3)
	for _, raw := range []uuid.UUID{dto.ID, dto.ProductSizeID, dto.ProductID} {
		k, err := kernel.UUIDFromBytes(raw[:])
		if err != nil {
			return nil, err
		}
		ids = append(ids, k)
	}

	toppings := make([]order.ToppingLine, 0, len(dto.Toppings))
	for _, t := range dto.Toppings {
		toppingID, err := kernel.UUIDFromBytes(t.ToppingID[:])
		if err != nil {
			return nil, err
		}
		toppings = append(toppings, order.ToppingLine{ToppingID: toppingID, Price: t.Price})
	}

	return order.RestoreItem(order.ItemSnapshot{
		ID:            ids[0],
		ProductSizeID: ids[1],
		ProductID:     ids[2],
		Quantity:      dto.Quantity,
		UnitPrice:     dto.UnitPrice,
		Toppings:      toppings,
		IsBonus:       dto.IsBonus,
		StockAmount:   dto.StockAmount,
		Total:         dto.Total,
	})
}
