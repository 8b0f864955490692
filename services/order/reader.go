package order

import (
	"context"

	"github.com/lapstore/checkout/lib/myerrors"
	"github.com/lapstore/checkout/lib/mystore"
)

// Reader gives other services read access to orders without going through the
// shopper-facing API.
type Reader struct {
	orderStore mystore.Store[Order]
}

func NewReader(orderStore mystore.Store[Order]) *Reader {
	return &Reader{
		orderStore: orderStore,
	}
}

func (r *Reader) GetOrder(c context.Context, orderUID string) (Order, bool, error) {
	order, found, err := r.orderStore.Get(c, orderUID)
	if err != nil {
		return Order{}, false, myerrors.NewInternalError(err)
	}

	return order, found, nil
}
