package voucher

import (
	"context"
	"fmt"
	"time"

	"github.com/lapstore/checkout/lib/myerrors"
	"github.com/lapstore/checkout/lib/mylog"
	"github.com/lapstore/checkout/lib/mystore"
)

type Service struct {
	voucherStore mystore.Store[Voucher]
	logger       mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewService(voucherStore mystore.Store[Voucher], logger mylog.Logger) *Service {
	return &Service{
		voucherStore: voucherStore,
		logger:       logger,
	}
}

func (s *Service) ListPersonalVouchers(c context.Context, shopperUID string, page, pageSize int) ([]Voucher, error) {
	s.logger.Log(c, shopperUID, mylog.SeverityInfo, "Fetch vouchers of shopper %s (page %d)", shopperUID, page)

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	vouchers, err := s.voucherStore.Query(c, []mystore.Filter{
		{Field: "ShopperUID", Compare: "=", Value: shopperUID},
	}, "-CreatedAt")
	if err != nil {
		return nil, myerrors.NewInternalError(err)
	}

	start := (page - 1) * pageSize
	if start >= len(vouchers) {
		return []Voucher{}, nil
	}
	end := start + pageSize
	if end > len(vouchers) {
		end = len(vouchers)
	}

	return vouchers[start:end], nil
}

// RedeemVoucher consumes one use of the voucher. Called by the order service
// when an order with this voucher is created.
func (s *Service) RedeemVoucher(c context.Context, voucherUID string) error {
	s.logger.Log(c, voucherUID, mylog.SeverityInfo, "Redeeming voucher %s", voucherUID)

	return s.voucherStore.RunInTransaction(c, func(c context.Context) error {
		v, found, err := s.voucherStore.Get(c, voucherUID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		if !found {
			return myerrors.NewNotFoundError(fmt.Errorf("voucher with uid %s not found", voucherUID))
		}
		if v.Stock > 0 && v.UsedCount >= v.Stock {
			return myerrors.NewConflictError(fmt.Errorf("voucher with uid %s is out of stock", voucherUID))
		}

		v.UsedCount++

		err = s.voucherStore.Put(c, voucherUID, v)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return nil
	})
}

// CheckVoucher fetches the voucher and evaluates it against the given subtotal.
// Used by the order service to re-validate a voucher at submit time.
func (s *Service) CheckVoucher(c context.Context, voucherUID string, subtotal int64, now time.Time) (Evaluation, error) {
	v, found, err := s.voucherStore.Get(c, voucherUID)
	if err != nil {
		return Evaluation{}, myerrors.NewInternalError(err)
	}
	if !found {
		return Evaluation{}, myerrors.NewNotFoundError(fmt.Errorf("voucher with uid %s not found", voucherUID))
	}

	return Evaluate(v, subtotal, now), nil
}
