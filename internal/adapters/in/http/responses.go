package http

import (
	"time"

	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type locationResponse struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func fromGeoPoint(point kernel.GeoPoint) locationResponse {
	return locationResponse{Lat: point.Latitude(), Lon: point.Longitude()}
}

type orderItemResponse struct {
	ItemID   string          `json:"itemId"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	FoodType string          `json:"foodType"`
	Rating   *int            `json:"rating,omitempty"`
}

type shopOrderResponse struct {
	ID           string              `json:"id"`
	ShopID       string              `json:"shopId"`
	OwnerID      string              `json:"ownerId"`
	Subtotal     decimal.Decimal     `json:"subtotal"`
	Status       string              `json:"status"`
	AssignmentID *string             `json:"assignmentId,omitempty"`
	CourierID    *string             `json:"courierId,omitempty"`
	Items        []orderItemResponse `json:"items"`
}

type orderResponse struct {
	ID            string              `json:"id"`
	UserID        string              `json:"userId"`
	PaymentMethod string              `json:"paymentMethod"`
	PaymentStatus string              `json:"paymentStatus"`
	Address       string              `json:"address"`
	TotalAmount   decimal.Decimal     `json:"totalAmount"`
	CreatedAt     time.Time           `json:"createdAt"`
	ShopOrders    []shopOrderResponse `json:"shopOrders"`
}

type ownerOrderResponse struct {
	OrderID        string              `json:"orderId"`
	UserID         string              `json:"userId"`
	Address        string              `json:"address"`
	CreatedAt      time.Time           `json:"createdAt"`
	ShopOrders     []shopOrderResponse `json:"shopOrders"`
	DisplayedTotal decimal.Decimal     `json:"displayedTotal"`
}

type assignmentOfferResponse struct {
	AssignmentID string           `json:"assignmentId"`
	OrderID      string           `json:"orderId"`
	ShopID       string           `json:"shopId"`
	ShopOrderID  string           `json:"shopOrderId"`
	Address      string           `json:"address"`
	Location     locationResponse `json:"location"`
	CreatedAt    time.Time        `json:"createdAt"`
}

type currentAssignmentResponse struct {
	AssignmentID     string            `json:"assignmentId"`
	OrderID          string            `json:"orderId"`
	ShopID           string            `json:"shopId"`
	Status           string            `json:"status"`
	AcceptedAt       *time.Time        `json:"acceptedAt,omitempty"`
	UserID           string            `json:"userId"`
	Address          string            `json:"address"`
	DeliveryLocation locationResponse  `json:"deliveryLocation"`
	CustomerLocation locationResponse  `json:"customerLocation"`
	ShopOrder        shopOrderResponse `json:"shopOrder"`
}

func fromOrderView(view queries.OrderView) orderResponse {
	shopOrders := make([]shopOrderResponse, 0, len(view.ShopOrders))
	for _, shopOrder := range view.ShopOrders {
		shopOrders = append(shopOrders, fromShopOrderView(shopOrder))
	}

	return orderResponse{
		ID:            view.ID.String(),
		UserID:        view.UserID.String(),
		PaymentMethod: view.PaymentMethod,
		PaymentStatus: view.PaymentStatus,
		Address:       view.AddressText,
		TotalAmount:   view.TotalAmount,
		CreatedAt:     view.CreatedAt,
		ShopOrders:    shopOrders,
	}
}

func fromShopOrderView(view queries.ShopOrderView) shopOrderResponse {
	items := make([]orderItemResponse, 0, len(view.Items))
	for _, item := range view.Items {
		items = append(items, orderItemResponse{
			ItemID:   item.ItemID.String(),
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.Price,
			Image:    item.Image,
			FoodType: item.FoodType,
			Rating:   item.Rating,
		})
	}

	response := shopOrderResponse{
		ID:       view.ID.String(),
		ShopID:   view.ShopID.String(),
		OwnerID:  view.OwnerID.String(),
		Subtotal: view.Subtotal,
		Status:   view.Status,
		Items:    items,
	}
	if view.AssignmentID != nil {
		ref := view.AssignmentID.String()
		response.AssignmentID = &ref
	}
	if view.CourierID != nil {
		ref := view.CourierID.String()
		response.CourierID = &ref
	}

	return response
}

func fromOwnerOrderView(view queries.OwnerOrderView) ownerOrderResponse {
	shopOrders := make([]shopOrderResponse, 0, len(view.ShopOrders))
	for _, shopOrder := range view.ShopOrders {
		shopOrders = append(shopOrders, fromShopOrderView(shopOrder))
	}

	return ownerOrderResponse{
		OrderID:        view.OrderID.String(),
		UserID:         view.UserID.String(),
		Address:        view.AddressText,
		CreatedAt:      view.CreatedAt,
		ShopOrders:     shopOrders,
		DisplayedTotal: view.DisplayedTotal,
	}
}

func fromCourierAssignmentView(view queries.CourierAssignmentView) assignmentOfferResponse {
	return assignmentOfferResponse{
		AssignmentID: view.AssignmentID.String(),
		OrderID:      view.OrderID.String(),
		ShopID:       view.ShopID.String(),
		ShopOrderID:  view.ShopOrderID.String(),
		Address:      view.AddressText,
		Location:     fromGeoPoint(view.DeliveryLocation),
		CreatedAt:    view.CreatedAt,
	}
}

func fromCurrentAssignmentView(view queries.CurrentAssignmentView) currentAssignmentResponse {
	return currentAssignmentResponse{
		AssignmentID:     view.AssignmentID.String(),
		OrderID:          view.OrderID.String(),
		ShopID:           view.ShopID.String(),
		Status:           view.Status,
		AcceptedAt:       view.AcceptedAt,
		UserID:           view.UserID.String(),
		Address:          view.AddressText,
		DeliveryLocation: fromGeoPoint(view.DeliveryLocation),
		CustomerLocation: fromGeoPoint(view.CustomerLocation),
		ShopOrder:        fromShopOrderView(view.ShopOrder),
	}
}
