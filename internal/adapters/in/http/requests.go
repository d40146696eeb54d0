package http

import (
	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

type addressRequest struct {
	Text string  `json:"text"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

type orderItemRequest struct {
	ItemID   string          `json:"itemId"`
	ShopID   string          `json:"shopId"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	FoodType string          `json:"foodType"`
}

type paymentDetailsRequest struct {
	Provider  string          `json:"provider"`
	OrderRef  string          `json:"orderRef"`
	PaymentID string          `json:"paymentId"`
	Signature string          `json:"signature"`
	Currency  string          `json:"currency"`
	Amount    decimal.Decimal `json:"amount"`
	Receipt   string          `json:"receipt"`
}

type placeOrderRequest struct {
	UserID        string                 `json:"userId"`
	Items         []orderItemRequest     `json:"items"`
	Address       addressRequest         `json:"address"`
	PaymentMethod string                 `json:"paymentMethod"`
	Payment       *paymentDetailsRequest `json:"payment"`
}

// toCommand builds the checkout command, minting a fresh order id. Every
// parse failure surfaces as a validation error so the handler can answer 400.
func (r placeOrderRequest) toCommand() (commands.PlaceOrderCommand, error) {
	userID, err := kernel.UUIDFromString(r.UserID)
	if err != nil {
		return commands.PlaceOrderCommand{}, errs.NewValueIsInvalidErrorWithCause("userId", err)
	}

	items := make([]commands.PlaceOrderItem, 0, len(r.Items))
	for _, line := range r.Items {
		itemID, lineErr := kernel.UUIDFromString(line.ItemID)
		if lineErr != nil {
			return commands.PlaceOrderCommand{}, errs.NewValueIsInvalidErrorWithCause("itemId", lineErr)
		}
		shopID, lineErr := kernel.UUIDFromString(line.ShopID)
		if lineErr != nil {
			return commands.PlaceOrderCommand{}, errs.NewValueIsInvalidErrorWithCause("shopId", lineErr)
		}

		items = append(items, commands.PlaceOrderItem{
			ItemID:   itemID,
			ShopID:   shopID,
			Name:     line.Name,
			Quantity: line.Quantity,
			Price:    line.Price,
			Image:    line.Image,
			FoodType: line.FoodType,
		})
	}

	location, err := kernel.NewGeoPoint(r.Address.Lat, r.Address.Lon)
	if err != nil {
		return commands.PlaceOrderCommand{}, err
	}
	address, err := kernel.NewAddress(r.Address.Text, location)
	if err != nil {
		return commands.PlaceOrderCommand{}, err
	}

	method, err := order.PaymentMethodFromString(r.PaymentMethod)
	if err != nil {
		return commands.PlaceOrderCommand{}, err
	}

	var payment *order.PaymentDetails
	if r.Payment != nil {
		payment = &order.PaymentDetails{
			Provider:  r.Payment.Provider,
			OrderRef:  r.Payment.OrderRef,
			PaymentID: r.Payment.PaymentID,
			Signature: r.Payment.Signature,
			Currency:  r.Payment.Currency,
			Amount:    r.Payment.Amount,
			Receipt:   r.Payment.Receipt,
		}
	}

	return commands.NewPlaceOrderCommand(kernel.NewUUID(), userID, items, address, method, payment)
}

type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

type acceptAssignmentRequest struct {
	CourierID string `json:"courierId"`
}

type confirmDeliveryRequest struct {
	Code string `json:"code"`
}

type rateOrderRequest struct {
	UserID string `json:"userId"`
	Rating int    `json:"rating"`
}
