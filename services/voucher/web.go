package voucher

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/lapstore/checkout/lib/mycontext"
	"github.com/lapstore/checkout/lib/myerrors"
	"github.com/lapstore/checkout/lib/myhttp"
	"github.com/lapstore/checkout/lib/mylog"
	"github.com/lapstore/checkout/lib/mytime"
)

type webService struct {
	service *Service
	nower   mytime.Nower
	logger  mylog.Logger
}

func NewWebService(service *Service, nower mytime.Nower) *webService {
	return &webService{
		service: service,
		nower:   nower,
		logger:  mylog.New("voucher"),
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc("/api/voucher", s.listVouchersPage()).Methods("GET")
	router.HandleFunc("/api/voucher/{voucherUID}/evaluate", s.evaluateVoucherPage()).Methods("GET")

	return nil
}

func (s *webService) listVouchersPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

		vouchers, err := s.service.ListPersonalVouchers(c, myhttp.ShopperUID(r), page, pageSize)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, vouchers)
	}
}

// evaluateVoucherPage lets the checkout screen preview a discount before the
// shopper commits. The order service recomputes the discount at submit time.
func (s *webService) evaluateVoucherPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		voucherUID := mux.Vars(r)["voucherUID"]
		subtotal, err := strconv.ParseInt(r.URL.Query().Get("subtotal"), 10, 64)
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInvalidInputErrorf("invalid subtotal: %s", err))
			return
		}

		evaluation, err := s.service.CheckVoucher(c, voucherUID, subtotal, s.nower.Now())
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, evaluation)
	}
}
