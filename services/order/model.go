package order

import (
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusShipping  Status = "shipping"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusShipping, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// allowedTransitions describes the fulfillment lifecycle. Cancellation is only
// possible before the order ships.
var allowedTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusShipping, StatusCancelled},
	StatusShipping:  {StatusCompleted},
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PaymentStatus tracks the money side of an order, independent of fulfillment.
type PaymentStatus string

const (
	PaymentStatusNotYet    PaymentStatus = "not_yet"
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusSuccess   PaymentStatus = "success"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusNotYet, PaymentStatusPending, PaymentStatusSuccess, PaymentStatusFailed, PaymentStatusCancelled:
		return true
	}
	return false
}

const (
	PaymentMethodQR  = "qr"
	PaymentMethodCOD = "cod"
)

// OrderLine is a snapshot of a cart item at submit time. Later catalog changes
// do not affect existing orders.
type OrderLine struct {
	ProductUID        string
	ProductName       string
	VariantUID        string
	VariantAttributes []string
	UnitPrice         int64
	Currency          string
	Quantity          int
}

func (l OrderLine) TotalPrice() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

// DeliveryAddress is a snapshot of the shopper's address at submit time.
type DeliveryAddress struct {
	Name        string
	PhoneNumber string
	Detail      string
}

type Order struct {
	UID              string
	ShopperUID       string
	Lines            []OrderLine `datastore:",noindex"`
	DeliveryAddress  DeliveryAddress
	PaymentMethod    string
	VoucherUID       string
	Subtotal         int64
	Discount         int64
	TotalAmount      int64
	Currency         string
	Remark           string
	Status           Status
	PaymentStatus    PaymentStatus
	ActivePaymentUID string
	CreatedAt        time.Time
	LastModified     *time.Time
}
