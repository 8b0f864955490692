package voucher

import "time"

// Evaluate decides whether a voucher is usable for the given subtotal and what
// discount it would yield. It is a pure function: the authoritative discount is
// recomputed at order-submit time with the then-current subtotal, so the result
// of an earlier call is a preview only.
func Evaluate(v Voucher, subtotal int64, now time.Time) Evaluation {
	if v.Stock > 0 && v.UsedCount >= v.Stock {
		return Evaluation{Usable: false, Reason: ReasonOutOfStock}
	}
	if subtotal < v.MinOrderValue {
		return Evaluation{Usable: false, Reason: ReasonMinimumOrder}
	}
	if !now.Before(v.ExpiresAt) {
		return Evaluation{Usable: false, Reason: ReasonExpired}
	}

	switch v.Type {
	case VoucherTypePercent:
		discount := subtotal * v.DiscountValue / 100
		// a zero cap means uncapped, not zero discount
		if v.MaxDiscountValue > 0 && discount > v.MaxDiscountValue {
			discount = v.MaxDiscountValue
		}
		return Evaluation{Usable: true, Discount: discount}
	case VoucherTypeFixed:
		// A fixed discount may exceed the subtotal; the order total is
		// clamped at zero by the order service.
		return Evaluation{Usable: true, Discount: v.DiscountValue}
	default:
		return Evaluation{Usable: false, Reason: ReasonUnknownType}
	}
}
