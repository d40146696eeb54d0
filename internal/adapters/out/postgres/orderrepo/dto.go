// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. The order aggregate spans three tables: orders,
// shop_orders, and order_items; the DTOs mirror that shape and GORM
// associations load and store the children with the root.
package orderrepo

import (
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO represents the database row for the order aggregate root.
type OrderDTO struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID       `gorm:"type:uuid;index"`
	PaymentMethod int             `gorm:"type:smallint"`
	PaymentStatus int             `gorm:"type:smallint"`
	Payment       PaymentDTO      `gorm:"embedded;embeddedPrefix:payment_"`
	Address       AddressDTO      `gorm:"embedded;embeddedPrefix:address_"`
	TotalAmount   decimal.Decimal `gorm:"type:numeric(12,2)"`
	CreatedAt     time.Time
	ShopOrders    []ShopOrderDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// PaymentDTO holds the payment provider references embedded in the order row.
// All columns are empty for cash-on-delivery orders.
type PaymentDTO struct {
	Provider  string
	OrderRef  string
	PaymentID string
	Signature string
	Currency  string
	Amount    decimal.Decimal `gorm:"type:numeric(12,2)"`
	Receipt   string
}

// AddressDTO holds the delivery destination embedded in the order row.
type AddressDTO struct {
	Text string
	Lat  float64
	Lon  float64
}

// ShopOrderDTO represents the per-shop portion of an order.
// AssignmentID and CourierID are null until a delivery broadcast is linked
// and claimed.
type ShopOrderDTO struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID      uuid.UUID       `gorm:"type:uuid;index"`
	ShopID       uuid.UUID       `gorm:"type:uuid;index"`
	OwnerID      uuid.UUID       `gorm:"type:uuid;index"`
	Subtotal     decimal.Decimal `gorm:"type:numeric(12,2)"`
	Status       int             `gorm:"type:smallint;index"`
	AssignmentID *uuid.UUID      `gorm:"type:uuid"`
	CourierID    *uuid.UUID      `gorm:"type:uuid;index"`
	Items        []OrderItemDTO  `gorm:"foreignKey:ShopOrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for shop order entities.
func (ShopOrderDTO) TableName() string {
	return "shop_orders"
}

// OrderItemDTO represents one catalog item line within a shop order.
// The primary key is composite: an item appears at most once per shop order.
type OrderItemDTO struct {
	ShopOrderID uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ItemID      uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name        string
	Quantity    int
	Price       decimal.Decimal `gorm:"type:numeric(12,2)"`
	Image       string
	FoodType    string
	Rating      *int            `gorm:"type:smallint"`
	RatedAt     *time.Time
}

// TableName specifies the database table name for order item entities.
func (OrderItemDTO) TableName() string {
	return "order_items"
}

// fromDomain converts an order aggregate to its database representation,
// including the nested shop orders and items.
func fromDomain(o *order.Order) OrderDTO {
	dto := OrderDTO{
		ID:            o.ID().Bytes(),
		UserID:        o.UserID().Bytes(),
		PaymentMethod: int(o.PaymentMethod()),
		PaymentStatus: int(o.PaymentStatus()),
		Address: AddressDTO{
			Text: o.DeliveryAddress().Text(),
			Lat:  o.DeliveryAddress().Location().Latitude(),
			Lon:  o.DeliveryAddress().Location().Longitude(),
		},
		TotalAmount: o.TotalAmount(),
		CreatedAt:   o.CreatedAt(),
	}

	if p := o.Payment(); p != nil {
		dto.Payment = PaymentDTO{
			Provider:  p.Provider,
			OrderRef:  p.OrderRef,
			PaymentID: p.PaymentID,
			Signature: p.Signature,
			Currency:  p.Currency,
			Amount:    p.Amount,
			Receipt:   p.Receipt,
		}
	}

	dto.ShopOrders = make([]ShopOrderDTO, 0, len(o.ShopOrders()))
	for _, so := range o.ShopOrders() {
		dto.ShopOrders = append(dto.ShopOrders, shopOrderFromDomain(o.ID(), so))
	}

	return dto
}

func shopOrderFromDomain(orderID kernel.UUID, so *order.ShopOrder) ShopOrderDTO {
	dto := ShopOrderDTO{
		ID:           so.ID().Bytes(),
		OrderID:      orderID.Bytes(),
		ShopID:       so.ShopID().Bytes(),
		OwnerID:      so.OwnerID().Bytes(),
		Subtotal:     so.Subtotal(),
		Status:       int(so.Status()),
		AssignmentID: optionalUUID(so.AssignmentID()),
		CourierID:    optionalUUID(so.CourierID()),
	}

	dto.Items = make([]OrderItemDTO, 0, len(so.Items()))
	for _, item := range so.Items() {
		dto.Items = append(dto.Items, OrderItemDTO{
			ShopOrderID: so.ID().Bytes(),
			ItemID:      item.ItemID().Bytes(),
			Name:        item.Name(),
			Quantity:    item.Quantity(),
			Price:       item.Price(),
			Image:       item.Image(),
			FoodType:    item.FoodType(),
			Rating:      item.Rating(),
			RatedAt:     item.RatedAt(),
		})
	}

	return dto
}

// toDomain converts a database DTO tree back to an order aggregate using the
// Restore factories, trusting the persisted totals and timestamps.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return nil, err
	}

	location, err := kernel.NewGeoPoint(dto.Address.Lat, dto.Address.Lon)
	if err != nil {
		return nil, err
	}
	address, err := kernel.NewAddress(dto.Address.Text, location)
	if err != nil {
		return nil, err
	}

	var payment *order.PaymentDetails
	if dto.Payment.OrderRef != "" {
		payment = &order.PaymentDetails{
			Provider:  dto.Payment.Provider,
			OrderRef:  dto.Payment.OrderRef,
			PaymentID: dto.Payment.PaymentID,
			Signature: dto.Payment.Signature,
			Currency:  dto.Payment.Currency,
			Amount:    dto.Payment.Amount,
			Receipt:   dto.Payment.Receipt,
		}
	}

	shopOrders := make([]*order.ShopOrder, 0, len(dto.ShopOrders))
	for _, soDTO := range dto.ShopOrders {
		so, soErr := shopOrderToDomain(soDTO)
		if soErr != nil {
			return nil, soErr
		}
		shopOrders = append(shopOrders, so)
	}

	return order.RestoreOrder(
		id, userID,
		order.PaymentMethod(dto.PaymentMethod), order.PaymentStatus(dto.PaymentStatus), payment,
		address,
		dto.TotalAmount,
		shopOrders,
		dto.CreatedAt,
	)
}

func shopOrderToDomain(dto ShopOrderDTO) (*order.ShopOrder, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	shopID, err := kernel.UUIDFromBytes(dto.ShopID[:])
	if err != nil {
		return nil, err
	}
	ownerID, err := kernel.UUIDFromBytes(dto.OwnerID[:])
	if err != nil {
		return nil, err
	}

	assignmentID, err := optionalKernelUUID(dto.AssignmentID)
	if err != nil {
		return nil, err
	}
	courierID, err := optionalKernelUUID(dto.CourierID)
	if err != nil {
		return nil, err
	}

	items := make([]*order.OrderItem, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		itemID, itemErr := kernel.UUIDFromBytes(itemDTO.ItemID[:])
		if itemErr != nil {
			return nil, itemErr
		}

		item, itemErr := order.RestoreOrderItem(
			itemID, itemDTO.Name, itemDTO.Quantity, itemDTO.Price,
			itemDTO.Image, itemDTO.FoodType,
			itemDTO.Rating, itemDTO.RatedAt,
		)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreShopOrder(
		id, shopID, ownerID, dto.Subtotal, items,
		order.Status(dto.Status), assignmentID, courierID,
	)
}

func optionalUUID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func optionalKernelUUID(id *uuid.UUID) (*kernel.UUID, error) {
	if id == nil {
		return nil, nil
	}
	parsed, err := kernel.UUIDFromBytes((*id)[:])
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
