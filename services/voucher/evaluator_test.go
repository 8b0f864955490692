package voucher

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/lapstore/checkout/lib/mytime"
)

func TestEvaluate(t *testing.T) {
	now := mytime.ExampleTime
	notExpired := now.Add(24 * time.Hour)

	tests := []struct {
		name     string
		voucher  Voucher
		subtotal int64
		expect   Evaluation
	}{
		{
			name:     "percent voucher below cap",
			voucher:  Voucher{Type: VoucherTypePercent, DiscountValue: 10, MaxDiscountValue: 2000, ExpiresAt: notExpired},
			subtotal: 10000,
			expect:   Evaluation{Usable: true, Discount: 1000},
		},
		{
			name:     "percent voucher capped",
			voucher:  Voucher{Type: VoucherTypePercent, DiscountValue: 30, MaxDiscountValue: 2000, ExpiresAt: notExpired},
			subtotal: 10000,
			expect:   Evaluation{Usable: true, Discount: 2000},
		},
		{
			name:     "percent voucher without cap",
			voucher:  Voucher{Type: VoucherTypePercent, DiscountValue: 30, ExpiresAt: notExpired},
			subtotal: 10000,
			expect:   Evaluation{Usable: true, Discount: 3000},
		},
		{
			name:     "fixed voucher",
			voucher:  Voucher{Type: VoucherTypeFixed, DiscountValue: 500, ExpiresAt: notExpired},
			subtotal: 10000,
			expect:   Evaluation{Usable: true, Discount: 500},
		},
		{
			name:     "fixed voucher exceeding subtotal",
			voucher:  Voucher{Type: VoucherTypeFixed, DiscountValue: 15000, ExpiresAt: notExpired},
			subtotal: 10000,
			expect:   Evaluation{Usable: true, Discount: 15000},
		},
		{
			name:     "minimum order value not met",
			voucher:  Voucher{Type: VoucherTypeFixed, DiscountValue: 500, MinOrderValue: 20000, ExpiresAt: notExpired},
			subtotal: 10000,
			expect:   Evaluation{Usable: false, Reason: ReasonMinimumOrder},
		},
		{
			name:     "subtotal exactly at minimum order value",
			voucher:  Voucher{Type: VoucherTypeFixed, DiscountValue: 500, MinOrderValue: 10000, ExpiresAt: notExpired},
			subtotal: 10000,
			expect:   Evaluation{Usable: true, Discount: 500},
		},
		{
			name:     "expired voucher",
			voucher:  Voucher{Type: VoucherTypePercent, DiscountValue: 10, ExpiresAt: now.Add(-time.Hour)},
			subtotal: 10000,
			expect:   Evaluation{Usable: false, Reason: ReasonExpired},
		},
		{
			name:     "voucher expiring right now",
			voucher:  Voucher{Type: VoucherTypePercent, DiscountValue: 10, ExpiresAt: now},
			subtotal: 10000,
			expect:   Evaluation{Usable: false, Reason: ReasonExpired},
		},
		{
			name:     "out of stock",
			voucher:  Voucher{Type: VoucherTypeFixed, DiscountValue: 500, Stock: 3, UsedCount: 3, ExpiresAt: notExpired},
			subtotal: 10000,
			expect:   Evaluation{Usable: false, Reason: ReasonOutOfStock},
		},
		{
			name:     "unknown type",
			voucher:  Voucher{Type: "points", DiscountValue: 500, ExpiresAt: notExpired},
			subtotal: 10000,
			expect:   Evaluation{Usable: false, Reason: ReasonUnknownType},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Evaluate(tc.voucher, tc.subtotal, now)
			assert.Equal(t, tc.expect, got)
		})
	}
}

func TestEvaluateIsPure(t *testing.T) {
	now := mytime.ExampleTime
	v := Voucher{Type: VoucherTypePercent, DiscountValue: 10, MaxDiscountValue: 2000, ExpiresAt: now.Add(time.Hour)}

	first := Evaluate(v, 10000, now)
	second := Evaluate(v, 10000, now)

	assert.Equal(t, first, second)
}
