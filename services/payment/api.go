package payment

import (
	"context"

	"github.com/lapstore/checkout/services/order"
)

//go:generate mockgen -source=api.go -package payment -destination order_reader_mock.go OrderReader

// OrderReader provides the order that a payment session is started for.
type OrderReader interface {
	GetOrder(c context.Context, orderUID string) (order.Order, bool, error)
}
