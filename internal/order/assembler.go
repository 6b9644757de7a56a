// Package order computes checkout totals and assembles order records.
package order

import (
	"errors"
	"fmt"
	"time"

	"kavara-store/internal/models"
)

// Delivery methods.
const (
	DeliveryCourier = "courier"
	DeliveryCDEK    = "cdek"
	DeliveryPickup  = "pickup"
)

// Payment methods.
const (
	PaymentCard = "card"
	PaymentSBP  = "sbp"
	PaymentCash = "cash"
)

var deliverySurcharges = map[string]int{
	DeliveryCourier: 300,
	DeliveryCDEK:    250,
	DeliveryPickup:  0,
}

var paymentSurcharges = map[string]int{
	PaymentCard: 0,
	PaymentSBP:  0,
	PaymentCash: 200,
}

var (
	ErrUnknownDeliveryMethod = errors.New("unknown delivery method")
	ErrUnknownPaymentMethod  = errors.New("unknown payment method")
	ErrBoxUnavailable        = errors.New("box is not available for purchase")
	ErrMissingName           = errors.New("customer name is required")
	ErrMissingPhone          = errors.New("customer phone is required")
	ErrMissingDelivery       = errors.New("delivery method is required")
	ErrMissingPayment        = errors.New("payment method is required")
)

// Form carries the checkout fields the customer fills in. Email is
// optional.
type Form struct {
	CustomerName   string
	CustomerPhone  string
	CustomerEmail  string
	DeliveryMethod string
	PaymentMethod  string
}

// Validate checks required fields before anything touches storage.
func (f Form) Validate() error {
	if f.CustomerName == "" {
		return ErrMissingName
	}
	if f.CustomerPhone == "" {
		return ErrMissingPhone
	}
	if f.DeliveryMethod == "" {
		return ErrMissingDelivery
	}
	if f.PaymentMethod == "" {
		return ErrMissingPayment
	}
	return nil
}

// DeliverySurcharge returns the fixed surcharge for a delivery method.
func DeliverySurcharge(method string) (int, error) {
	surcharge, ok := deliverySurcharges[method]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownDeliveryMethod, method)
	}
	return surcharge, nil
}

// PaymentSurcharge returns the fixed surcharge for a payment method.
func PaymentSurcharge(method string) (int, error) {
	surcharge, ok := paymentSurcharges[method]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownPaymentMethod, method)
	}
	return surcharge, nil
}

// TotalPrice is the box price plus the delivery and payment surcharges.
func TotalPrice(box models.Box, deliveryMethod, paymentMethod string) (int, error) {
	delivery, err := DeliverySurcharge(deliveryMethod)
	if err != nil {
		return 0, err
	}
	payment, err := PaymentSurcharge(paymentMethod)
	if err != nil {
		return 0, err
	}
	return box.Price + delivery + payment, nil
}

// NewOrderNumber derives a short, human-shareable order number from the
// current time. Uniqueness is best-effort: collisions are possible but
// unlikely at human submission rates.
func NewOrderNumber(now time.Time) string {
	return fmt.Sprintf("KB%06d", now.UnixMilli()%1_000_000)
}

// Assemble validates the form against the selected box and builds the
// order record to persist. Unavailable boxes are never purchasable,
// only notifiable.
func Assemble(box models.Box, userID string, form Form) (models.Order, error) {
	if err := form.Validate(); err != nil {
		return models.Order{}, err
	}
	if !box.IsAvailable {
		return models.Order{}, ErrBoxUnavailable
	}

	total, err := TotalPrice(box, form.DeliveryMethod, form.PaymentMethod)
	if err != nil {
		return models.Order{}, err
	}

	return models.Order{
		OrderNumber:    NewOrderNumber(time.Now()),
		UserID:         userID,
		BoxID:          box.ID,
		CustomerName:   form.CustomerName,
		CustomerPhone:  form.CustomerPhone,
		CustomerEmail:  form.CustomerEmail,
		DeliveryMethod: form.DeliveryMethod,
		PaymentMethod:  form.PaymentMethod,
		TotalPrice:     total,
		Status:         models.OrderStatusPending,
	}, nil
}
