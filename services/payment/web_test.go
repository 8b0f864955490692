package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/VictorAvelar/mollie-api-go/v3/mollie"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/lapstore/checkout/lib/mypublisher"
	"github.com/lapstore/checkout/lib/mypubsub"
	"github.com/lapstore/checkout/lib/myqueue"
	"github.com/lapstore/checkout/lib/mystore"
	"github.com/lapstore/checkout/lib/mytime"
	"github.com/lapstore/checkout/lib/myuuid"
	"github.com/lapstore/checkout/services/order"
	"github.com/lapstore/checkout/services/orderevents"
	"github.com/lapstore/checkout/services/paymentevents"
)

const testAPIKey = "test_api_key"

var (
	qrOrder = order.Order{
		UID:           "order_1",
		ShopperUID:    "shopper_eva",
		PaymentMethod: order.PaymentMethodQR,
		TotalAmount:   5900,
		Currency:      "EUR",
		Status:        order.StatusPending,
		PaymentStatus: order.PaymentStatusPending,
	}

	liveSession = PaymentSession{
		UID:               "session_1",
		OrderUID:          "order_1",
		ShopperUID:        "shopper_eva",
		ProviderPaymentID: "tr_123",
		Amount:            5900,
		Currency:          "EUR",
		QRPayload:         "https://pay.example/tr_123",
		State:             StateAwaitingScan,
		ExpiresAt:         mytime.ExampleTime.Add(qrExpiry),
		CreatedAt:         mytime.ExampleTime,
	}
)

func TestPaymentService(t *testing.T) {

	t.Run("Create payment session", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, stores, mocks := setup(t, ctrl)

		// given
		mocks.orderReader.EXPECT().GetOrder(gomock.Any(), "order_1").Return(qrOrder, true, nil)
		mocks.nower.EXPECT().Now().Return(mytime.ExampleTime).AnyTimes()
		mocks.uuider.EXPECT().Create().Return("session_1")
		mocks.payer.EXPECT().UseAPIKey(testAPIKey)
		mocks.payer.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).Return(mollie.Payment{
			ID: "tr_123",
			Links: mollie.PaymentLinks{
				Checkout: &mollie.URL{Href: "https://pay.example/tr_123"},
			},
		}, nil)
		mocks.publisher.EXPECT().Publish(gomock.Any(), paymentevents.TopicName, paymentevents.PaymentSessionStarted{
			SessionUID: "session_1",
			OrderUID:   "order_1",
			Amount:     5900,
			Currency:   "EUR",
			QRPayload:  "https://pay.example/tr_123",
		}).Return(nil)
		mocks.queuer.EXPECT().Enqueue(gomock.Any(), myqueue.Task{
			UID:            "expire_session_1",
			WebhookURLPath: "/api/payment/session_1/expired",
			Delay:          qrExpiry,
		}).Return(nil)

		// when
		request, err := http.NewRequest(http.MethodPost, "/api/payment/order/order_1", nil)
		assert.NoError(t, err)
		request.Host = "localhost:8888"
		request.Header.Set("X-Shopper-Uid", "shopper_eva")
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		session, exists, _ := stores.sessions.Get(ctx, "session_1")
		assert.True(t, exists)
		assert.Equal(t, StateAwaitingScan, session.State)
		assert.Equal(t, "tr_123", session.ProviderPaymentID)
		ref, exists, _ := stores.refs.Get(ctx, "order_1")
		assert.True(t, exists)
		assert.Equal(t, "session_1", ref.SessionUID)
	})

	t.Run("Create session resumes live session", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, stores, mocks := setup(t, ctrl)

		// given: a session is already waiting to be scanned
		stores.sessions.Put(ctx, liveSession.UID, liveSession)
		stores.refs.Put(ctx, "order_1", SessionRef{OrderUID: "order_1", SessionUID: "session_1"})
		mocks.orderReader.EXPECT().GetOrder(gomock.Any(), "order_1").Return(qrOrder, true, nil)
		mocks.nower.EXPECT().Now().Return(mytime.ExampleTime).AnyTimes()

		// when
		request, err := http.NewRequest(http.MethodPost, "/api/payment/order/order_1", nil)
		assert.NoError(t, err)
		request.Host = "localhost:8888"
		request.Header.Set("X-Shopper-Uid", "shopper_eva")
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then: same session, no new provider payment
		assert.Equal(t, 200, response.Code)
		var got PaymentSession
		err = json.Unmarshal(response.Body.Bytes(), &got)
		assert.NoError(t, err)
		assert.Equal(t, "session_1", got.UID)
	})

	t.Run("Create session for cod order is rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		_, router, _, mocks := setup(t, ctrl)

		// given
		codOrder := qrOrder
		codOrder.PaymentMethod = order.PaymentMethodCOD
		mocks.orderReader.EXPECT().GetOrder(gomock.Any(), "order_1").Return(codOrder, true, nil)

		// when
		request, err := http.NewRequest(http.MethodPost, "/api/payment/order/order_1", nil)
		assert.NoError(t, err)
		request.Header.Set("X-Shopper-Uid", "shopper_eva")
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 400, response.Code)
	})

	t.Run("Check status on paid payment", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, stores, mocks := setup(t, ctrl)

		// given
		stores.sessions.Put(ctx, liveSession.UID, liveSession)
		mocks.nower.EXPECT().Now().Return(mytime.ExampleTime).AnyTimes()
		mocks.payer.EXPECT().UseAPIKey(testAPIKey)
		mocks.payer.EXPECT().GetPaymentOnID(gomock.Any(), "tr_123").Return(mollie.Payment{ID: "tr_123", Status: "paid"}, nil)
		mocks.publisher.EXPECT().Publish(gomock.Any(), paymentevents.TopicName, paymentevents.PaymentCompleted{
			SessionUID: "session_1",
			OrderUID:   "order_1",
			Amount:     5900,
			Currency:   "EUR",
		}).Return(nil)

		// when
		request, err := http.NewRequest(http.MethodPut, "/api/payment/session_1/check", nil)
		assert.NoError(t, err)
		request.Header.Set("X-Shopper-Uid", "shopper_eva")
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		session, _, _ := stores.sessions.Get(ctx, "session_1")
		assert.Equal(t, StateSucceeded, session.State)
		assert.Equal(t, "paid", session.StateDetails)
	})

	t.Run("Check status on open payment keeps qr live", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, stores, mocks := setup(t, ctrl)

		// given
		stores.sessions.Put(ctx, liveSession.UID, liveSession)
		mocks.nower.EXPECT().Now().Return(mytime.ExampleTime).AnyTimes()
		mocks.payer.EXPECT().UseAPIKey(testAPIKey)
		mocks.payer.EXPECT().GetPaymentOnID(gomock.Any(), "tr_123").Return(mollie.Payment{ID: "tr_123", Status: "open"}, nil)

		// when
		request, err := http.NewRequest(http.MethodPut, "/api/payment/session_1/check", nil)
		assert.NoError(t, err)
		request.Header.Set("X-Shopper-Uid", "shopper_eva")
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		session, _, _ := stores.sessions.Get(ctx, "session_1")
		assert.Equal(t, StateAwaitingScan, session.State)
	})

	t.Run("Check status on failed attempt keeps qr live", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, stores, mocks := setup(t, ctrl)

		// given
		stores.sessions.Put(ctx, liveSession.UID, liveSession)
		mocks.nower.EXPECT().Now().Return(mytime.ExampleTime).AnyTimes()
		mocks.payer.EXPECT().UseAPIKey(testAPIKey)
		mocks.payer.EXPECT().GetPaymentOnID(gomock.Any(), "tr_123").Return(mollie.Payment{ID: "tr_123", Status: "failed"}, nil)

		// when
		request, err := http.NewRequest(http.MethodPut, "/api/payment/session_1/check", nil)
		assert.NoError(t, err)
		request.Header.Set("X-Shopper-Uid", "shopper_eva")
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then: the failure is reported, the shopper can retry or cancel
		assert.Equal(t, 200, response.Code)
		session, _, _ := stores.sessions.Get(ctx, "session_1")
		assert.Equal(t, StateAwaitingScan, session.State)
		assert.Equal(t, "failed", session.StateDetails)
	})

	t.Run("Check status while busy is rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, stores, mocks := setup(t, ctrl)

		// given: another check is in flight
		busy := liveSession
		busy.State = StateChecking
		stores.sessions.Put(ctx, busy.UID, busy)
		mocks.nower.EXPECT().Now().Return(mytime.ExampleTime).AnyTimes()

		// when
		request, err := http.NewRequest(http.MethodPut, "/api/payment/session_1/check", nil)
		assert.NoError(t, err)
		request.Header.Set("X-Shopper-Uid", "shopper_eva")
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 409, response.Code)
	})

	t.Run("Check status after provider error releases claim", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, stores, mocks := setup(t, ctrl)

		// given
		stores.sessions.Put(ctx, liveSession.UID, liveSession)
		mocks.nower.EXPECT().Now().Return(mytime.ExampleTime).AnyTimes()
		mocks.payer.EXPECT().UseAPIKey(testAPIKey)
		mocks.payer.EXPECT().GetPaymentOnID(gomock.Any(), "tr_123").Return(mollie.Payment{}, assert.AnError)

		// when
		request, err := http.NewRequest(http.MethodPut, "/api/payment/session_1/check", nil)
		assert.NoError(t, err)
		request.Header.Set("X-Shopper-Uid", "shopper_eva")
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then: the session can be checked again
		assert.Equal(t, 503, response.Code)
		session, _, _ := stores.sessions.Get(ctx, "session_1")
		assert.Equal(t, StateAwaitingScan, session.State)
	})

	t.Run("Cancel live session", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, stores, mocks := setup(t, ctrl)

		// given
		stores.sessions.Put(ctx, liveSession.UID, liveSession)
		mocks.nower.EXPECT().Now().Return(mytime.ExampleTime).AnyTimes()
		mocks.payer.EXPECT().UseAPIKey(testAPIKey)
		mocks.payer.EXPECT().CancelPayment(gomock.Any(), "tr_123").Return(mollie.Payment{ID: "tr_123", Status: "canceled"}, nil)
		mocks.publisher.EXPECT().Publish(gomock.Any(), paymentevents.TopicName, paymentevents.PaymentCancelled{
			SessionUID: "session_1",
			OrderUID:   "order_1",
		}).Return(nil)

		// when
		request, err := http.NewRequest(http.MethodPut, "/api/payment/session_1/cancel", nil)
		assert.NoError(t, err)
		request.Header.Set("X-Shopper-Uid", "shopper_eva")
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		session, _, _ := stores.sessions.Get(ctx, "session_1")
		assert.Equal(t, StateCancelled, session.State)
	})

	t.Run("Cancel paid session is rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, stores, mocks := setup(t, ctrl)

		// given
		paid := liveSession
		paid.State = StateSucceeded
		stores.sessions.Put(ctx, paid.UID, paid)
		mocks.nower.EXPECT().Now().Return(mytime.ExampleTime).AnyTimes()

		// when
		request, err := http.NewRequest(http.MethodPut, "/api/payment/session_1/cancel", nil)
		assert.NoError(t, err)
		request.Header.Set("X-Shopper-Uid", "shopper_eva")
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 409, response.Code)
		session, _, _ := stores.sessions.Get(ctx, "session_1")
		assert.Equal(t, StateSucceeded, session.State)
	})

	t.Run("Expiry task expires session", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, stores, mocks := setup(t, ctrl)

		// given: the qr window has closed
		expired := liveSession
		expired.ExpiresAt = mytime.ExampleTime.Add(-time.Minute)
		stores.sessions.Put(ctx, expired.UID, expired)
		mocks.nower.EXPECT().Now().Return(mytime.ExampleTime).AnyTimes()
		mocks.publisher.EXPECT().Publish(gomock.Any(), paymentevents.TopicName, paymentevents.PaymentExpired{
			SessionUID: "session_1",
			OrderUID:   "order_1",
		}).Return(nil)

		// when
		request, err := http.NewRequest(http.MethodPut, "/api/payment/session_1/expired", nil)
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		session, _, _ := stores.sessions.Get(ctx, "session_1")
		assert.Equal(t, StateExpired, session.State)

		// and: a second delivery of the task changes nothing
		request, err = http.NewRequest(http.MethodPut, "/api/payment/session_1/expired", nil)
		assert.NoError(t, err)
		response = httptest.NewRecorder()
		router.ServeHTTP(response, request)
		assert.Equal(t, 200, response.Code)
	})

	t.Run("Expiry task before window closes does nothing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, stores, mocks := setup(t, ctrl)

		// given
		stores.sessions.Put(ctx, liveSession.UID, liveSession)
		mocks.nower.EXPECT().Now().Return(mytime.ExampleTime).AnyTimes()

		// when
		request, err := http.NewRequest(http.MethodPut, "/api/payment/session_1/expired", nil)
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		session, _, _ := stores.sessions.Get(ctx, "session_1")
		assert.Equal(t, StateAwaitingScan, session.State)
	})

	t.Run("Provider webhook resolves session", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, stores, mocks := setup(t, ctrl)

		// given
		stores.sessions.Put(ctx, liveSession.UID, liveSession)
		mocks.nower.EXPECT().Now().Return(mytime.ExampleTime).AnyTimes()
		mocks.payer.EXPECT().UseAPIKey(testAPIKey)
		mocks.payer.EXPECT().GetPaymentOnID(gomock.Any(), "tr_123").Return(mollie.Payment{ID: "tr_123", Status: "paid"}, nil)
		mocks.publisher.EXPECT().Publish(gomock.Any(), paymentevents.TopicName, gomock.Any()).Return(nil)

		// when
		request, err := http.NewRequest(http.MethodPost, "/api/payment/session_1/provider/event", strings.NewReader("id=tr_123"))
		assert.NoError(t, err)
		request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		session, _, _ := stores.sessions.Get(ctx, "session_1")
		assert.Equal(t, StateSucceeded, session.State)
	})

	t.Run("Order cancelled event aborts live session", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, stores, mocks := setup(t, ctrl)

		// given
		stores.sessions.Put(ctx, liveSession.UID, liveSession)
		stores.refs.Put(ctx, "order_1", SessionRef{OrderUID: "order_1", SessionUID: "session_1"})
		mocks.nower.EXPECT().Now().Return(mytime.ExampleTime).AnyTimes()
		mocks.payer.EXPECT().UseAPIKey(testAPIKey)
		mocks.payer.EXPECT().CancelPayment(gomock.Any(), "tr_123").Return(mollie.Payment{ID: "tr_123", Status: "canceled"}, nil)
		mocks.publisher.EXPECT().Publish(gomock.Any(), paymentevents.TopicName, paymentevents.PaymentCancelled{
			SessionUID: "session_1",
			OrderUID:   "order_1",
		}).Return(nil)

		// when
		request, err := http.NewRequest(http.MethodPost, "/api/payment/event", strings.NewReader(
			mypublisher.CreatePubsubMessage(orderevents.TopicName, orderevents.OrderCancelled{
				OrderUID:   "order_1",
				ShopperUID: "shopper_eva",
			})))
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		session, _, _ := stores.sessions.Get(ctx, "session_1")
		assert.Equal(t, StateCancelled, session.State)
	})

	t.Run("QR image for live session", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, stores, _ := setup(t, ctrl)

		// given
		stores.sessions.Put(ctx, liveSession.UID, liveSession)

		// when
		request, err := http.NewRequest(http.MethodGet, "/api/payment/session_1/qr.png", nil)
		assert.NoError(t, err)
		request.Header.Set("X-Shopper-Uid", "shopper_eva")
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		assert.Equal(t, "image/png", response.Header().Get("Content-Type"))
		assert.NotEmpty(t, response.Body.Bytes())
	})

	t.Run("QR image for finished session is rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		ctx, router, stores, _ := setup(t, ctrl)

		// given
		done := liveSession
		done.State = StateSucceeded
		stores.sessions.Put(ctx, done.UID, done)

		// when
		request, err := http.NewRequest(http.MethodGet, "/api/payment/session_1/qr.png", nil)
		assert.NoError(t, err)
		request.Header.Set("X-Shopper-Uid", "shopper_eva")
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 409, response.Code)
	})
}

type paymentStores struct {
	sessions mystore.Store[PaymentSession]
	refs     mystore.Store[SessionRef]
}

type paymentMocks struct {
	payer       *MockPayer
	orderReader *MockOrderReader
	queuer      *myqueue.MockTaskQueuer
	publisher   *mypublisher.MockPublisher
	nower       *mytime.MockNower
	uuider      *myuuid.MockUUIDer
}

func setup(t *testing.T, ctrl *gomock.Controller) (context.Context, *mux.Router, paymentStores, paymentMocks) {
	c := context.TODO()
	sessionStore, _, _ := mystore.New[PaymentSession](c)
	refStore, _, _ := mystore.New[SessionRef](c)
	stores := paymentStores{sessions: sessionStore, refs: refStore}
	mocks := paymentMocks{
		payer:       NewMockPayer(ctrl),
		orderReader: NewMockOrderReader(ctrl),
		queuer:      myqueue.NewMockTaskQueuer(ctrl),
		publisher:   mypublisher.NewMockPublisher(ctrl),
		nower:       mytime.NewMockNower(ctrl),
		uuider:      myuuid.NewMockUUIDer(ctrl),
	}
	subscriber := mypubsub.NewMockPubSub(ctrl)

	sut := NewWebService(testAPIKey, mocks.payer, sessionStore, refStore, mocks.orderReader, mocks.queuer, mocks.publisher, subscriber, mocks.nower, mocks.uuider)
	router := mux.NewRouter()

	err := sut.RegisterEndpoints(c, router)
	assert.NoError(t, err)

	return c, router, stores, mocks
}
