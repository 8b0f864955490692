package order

import (
	"context"
	"time"

	"github.com/lapstore/checkout/services/address"
	"github.com/lapstore/checkout/services/cart"
	"github.com/lapstore/checkout/services/voucher"
)

//go:generate mockgen -source=api.go -package order -destination mock_boundaries.go CartResolver,AddressGetter,VoucherChecker

// CartResolver materializes and consumes the shopper's frozen cart selection.
type CartResolver interface {
	Resolve(c context.Context, shopperUID string, cartItemUIDs []string) ([]cart.CheckoutLine, int64, error)
	ConsumeSelection(c context.Context, shopperUID string) error
}

// AddressGetter provides the delivery address to snapshot into the order.
type AddressGetter interface {
	GetAddress(c context.Context, shopperUID string, addressUID string) (address.Address, bool, error)
}

// VoucherChecker re-validates and redeems a voucher at submit time.
type VoucherChecker interface {
	CheckVoucher(c context.Context, voucherUID string, subtotal int64, now time.Time) (voucher.Evaluation, error)
	RedeemVoucher(c context.Context, voucherUID string) error
}
