package voucher

import "time"

type VoucherType string

const (
	VoucherTypePercent VoucherType = "percent"
	VoucherTypeFixed   VoucherType = "fixed"
)

type Voucher struct {
	UID        string
	ShopperUID string
	Code       string
	Type       VoucherType
	// DiscountValue is a percentage for percent vouchers and an amount in
	// minor units for fixed vouchers.
	DiscountValue int64
	// MaxDiscountValue caps the computed discount of a percent voucher.
	// Zero means uncapped.
	MaxDiscountValue int64
	MinOrderValue    int64
	ExpiresAt        time.Time
	Stock            int
	UsedCount        int
	CreatedAt        time.Time
}

type EvaluationReason string

const (
	ReasonNone         EvaluationReason = ""
	ReasonMinimumOrder EvaluationReason = "minimum order value not met"
	ReasonExpired      EvaluationReason = "voucher has expired"
	ReasonUnknownType  EvaluationReason = "unknown voucher type"
	ReasonOutOfStock   EvaluationReason = "voucher is no longer available"
)

type Evaluation struct {
	Usable   bool
	Reason   EvaluationReason
	Discount int64
}
