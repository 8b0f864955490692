package order

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/lapstore/checkout/lib/mycontext"
	"github.com/lapstore/checkout/lib/myhttp"
	"github.com/lapstore/checkout/lib/mylog"
	"github.com/lapstore/checkout/lib/mypublisher"
	"github.com/lapstore/checkout/lib/mypubsub"
	"github.com/lapstore/checkout/lib/mystore"
	"github.com/lapstore/checkout/lib/mytime"
	"github.com/lapstore/checkout/lib/myuuid"
	"github.com/lapstore/checkout/services/orderapi"
	"github.com/lapstore/checkout/services/paymentevents"
)

type webService struct {
	service *service
	logger  mylog.Logger
}

func NewWebService(orderStore mystore.Store[Order], cartResolver CartResolver, addressGetter AddressGetter, voucherChecker VoucherChecker, pub mypublisher.Publisher, pubsub mypubsub.PubSub, nower mytime.Nower, uuider myuuid.UUIDer) *webService {
	logger := mylog.New("order")
	return &webService{
		service: newService(orderStore, cartResolver, addressGetter, voucherChecker, pub, pubsub, nower, uuider, logger),
		logger:  logger,
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc("/api/checkout", s.submitCheckoutPage()).Methods("POST")

	router.HandleFunc("/api/order", s.listOrdersPage()).Methods("GET")
	router.HandleFunc("/api/order/{orderUID}", s.getOrderPage()).Methods("GET")
	router.HandleFunc("/api/order/{orderUID}/cancel", s.cancelOrderPage()).Methods("PUT")

	// back office
	router.HandleFunc("/api/order/{orderUID}/status/{status}", s.updateStatusPage()).Methods("PUT")
	router.HandleFunc("/api/order/{orderUID}/payment-status/{paymentStatus}", s.updatePaymentStatusPage()).Methods("PUT")

	// pubsub push subscription
	router.HandleFunc("/api/order/event", s.handleEventEnvelope()).Methods("POST")

	return nil
}

func (s *webService) Subscribe(c context.Context) error {
	return s.service.Subscribe(c)
}

func (s *webService) submitCheckoutPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		checkout, err := orderapi.NewFromRequest(r)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		order, err := s.service.submitCheckout(c, myhttp.ShopperUID(r), checkout)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, order)
	}
}

func (s *webService) listOrdersPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		status := Status(r.URL.Query().Get("status"))

		orders, err := s.service.listOrders(c, myhttp.ShopperUID(r), status)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, orders)
	}
}

func (s *webService) getOrderPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		orderUID := mux.Vars(r)["orderUID"]

		order, err := s.service.getOrder(c, myhttp.ShopperUID(r), orderUID)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, order)
	}
}

func (s *webService) cancelOrderPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		orderUID := mux.Vars(r)["orderUID"]

		order, err := s.service.cancelOrder(c, myhttp.ShopperUID(r), orderUID)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, order)
	}
}

func (s *webService) updateStatusPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		orderUID := mux.Vars(r)["orderUID"]
		status := Status(mux.Vars(r)["status"])

		order, err := s.service.updateStatus(c, orderUID, status)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, order)
	}
}

func (s *webService) updatePaymentStatusPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		orderUID := mux.Vars(r)["orderUID"]
		paymentStatus := PaymentStatus(mux.Vars(r)["paymentStatus"])

		order, err := s.service.updatePaymentStatus(c, orderUID, paymentStatus)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, order)
	}
}

func (s *webService) handleEventEnvelope() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		err := paymentevents.DispatchEvent(c, r.Body, s.service)
		if err != nil {
			errorWriter.WriteError(c, w, 4, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{
			Message: "Successfully processed event",
		})
	}
}
