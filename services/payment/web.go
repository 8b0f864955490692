package payment

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/lapstore/checkout/lib/mycontext"
	"github.com/lapstore/checkout/lib/myerrors"
	"github.com/lapstore/checkout/lib/myhttp"
	"github.com/lapstore/checkout/lib/mylog"
	"github.com/lapstore/checkout/lib/mypublisher"
	"github.com/lapstore/checkout/lib/mypubsub"
	"github.com/lapstore/checkout/lib/myqueue"
	"github.com/lapstore/checkout/lib/mystore"
	"github.com/lapstore/checkout/lib/mytime"
	"github.com/lapstore/checkout/lib/myuuid"
	"github.com/lapstore/checkout/services/orderevents"
)

type webService struct {
	service *service
	logger  mylog.Logger
}

func NewWebService(apiKey string, payer Payer, sessionStore mystore.Store[PaymentSession], refStore mystore.Store[SessionRef], orderReader OrderReader, queuer myqueue.TaskQueuer, pub mypublisher.Publisher, pubsub mypubsub.PubSub, nower mytime.Nower, uuider myuuid.UUIDer) *webService {
	logger := mylog.New("payment")
	return &webService{
		service: newService(apiKey, payer, sessionStore, refStore, orderReader, queuer, pub, pubsub, nower, uuider, logger),
		logger:  logger,
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc("/api/payment/order/{orderUID}", s.createSessionPage()).Methods("POST")
	router.HandleFunc("/api/payment/{sessionUID}", s.getSessionPage()).Methods("GET")
	router.HandleFunc("/api/payment/{sessionUID}/qr.png", s.qrImagePage()).Methods("GET")
	router.HandleFunc("/api/payment/{sessionUID}/check", s.checkStatusPage()).Methods("PUT")
	router.HandleFunc("/api/payment/{sessionUID}/cancel", s.cancelSessionPage()).Methods("PUT")

	// delayed expiry task
	router.HandleFunc("/api/payment/{sessionUID}/expired", s.expiredPage()).Methods("PUT")

	// asynchronous status updates from the provider
	router.HandleFunc("/api/payment/{sessionUID}/provider/event", s.providerWebhookPage()).Methods("POST")

	// pubsub push subscription
	router.HandleFunc("/api/payment/event", s.handleEventEnvelope()).Methods("POST")

	return nil
}

func (s *webService) Subscribe(c context.Context) error {
	return s.service.Subscribe(c)
}

func (s *webService) createSessionPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		orderUID := mux.Vars(r)["orderUID"]

		session, err := s.service.createSession(c, myhttp.ShopperUID(r), orderUID, myhttp.HostnameWithScheme(r))
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, session)
	}
}

func (s *webService) getSessionPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		sessionUID := mux.Vars(r)["sessionUID"]

		session, err := s.service.getSession(c, myhttp.ShopperUID(r), sessionUID)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, session)
	}
}

func (s *webService) qrImagePage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		sessionUID := mux.Vars(r)["sessionUID"]

		session, err := s.service.getSession(c, myhttp.ShopperUID(r), sessionUID)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}
		if session.State.IsFinal() {
			errorWriter.WriteError(c, w, 2, myerrors.NewConflictError(fmt.Errorf("payment session %s is no longer live", sessionUID)))
			return
		}

		png, err := qrImage(session.QRPayload)
		if err != nil {
			errorWriter.WriteError(c, w, 3, err)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(png)
	}
}

func (s *webService) checkStatusPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		sessionUID := mux.Vars(r)["sessionUID"]

		session, err := s.service.checkStatus(c, myhttp.ShopperUID(r), sessionUID)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, session)
	}
}

func (s *webService) cancelSessionPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		sessionUID := mux.Vars(r)["sessionUID"]

		session, err := s.service.cancelSession(c, myhttp.ShopperUID(r), sessionUID)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, session)
	}
}

func (s *webService) expiredPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		sessionUID := mux.Vars(r)["sessionUID"]

		session, err := s.service.markExpired(c, sessionUID)
		if err != nil {
			errorWriter.WriteError(c, w, 1, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, session)
	}
}

func (s *webService) providerWebhookPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		sessionUID := mux.Vars(r)["sessionUID"]

		err := r.ParseForm()
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(err))
			return
		}

		id := r.FormValue("id")
		if id == "" {
			errorWriter.WriteError(c, w, 2, myerrors.NewInvalidInputErrorf("missing id"))
			return
		}

		err = s.service.webhookNotification(c, sessionUID, id)
		if err != nil {
			errorWriter.WriteError(c, w, 3, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{})
	}
}

func (s *webService) handleEventEnvelope() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		err := orderevents.DispatchEvent(c, r.Body, s.service)
		if err != nil {
			errorWriter.WriteError(c, w, 4, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{
			Message: "Successfully processed event",
		})
	}
}
