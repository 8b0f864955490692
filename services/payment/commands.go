package payment

import (
	"context"
	"fmt"

	"github.com/VictorAvelar/mollie-api-go/v3/mollie"

	"github.com/lapstore/checkout/lib/myerrors"
	"github.com/lapstore/checkout/lib/mylog"
	"github.com/lapstore/checkout/lib/myqueue"
	"github.com/lapstore/checkout/services/order"
	"github.com/lapstore/checkout/services/paymentevents"
)

// createSession starts a QR payment for the order, or resumes the live session
// if one exists. The shopper can close the app and come back to the same QR.
func (s *service) createSession(c context.Context, shopperUID string, orderUID string, hostname string) (PaymentSession, error) {
	s.logger.Log(c, orderUID, mylog.SeverityInfo, "Start payment session for order %s", orderUID)

	ord, found, err := s.orderReader.GetOrder(c, orderUID)
	if err != nil {
		return PaymentSession{}, err
	}
	if !found || ord.ShopperUID != shopperUID {
		return PaymentSession{}, myerrors.NewNotFoundError(fmt.Errorf("order with uid %s not found", orderUID))
	}
	if ord.PaymentMethod != order.PaymentMethodQR {
		return PaymentSession{}, myerrors.NewInvalidInputErrorf("order %s is not paid by qr", orderUID)
	}
	if ord.PaymentStatus == order.PaymentStatusSuccess {
		return PaymentSession{}, myerrors.NewConflictError(fmt.Errorf("order %s has already been paid", orderUID))
	}
	if ord.Status == order.StatusCancelled {
		return PaymentSession{}, myerrors.NewConflictError(fmt.Errorf("order %s has been cancelled", orderUID))
	}

	now := s.nower.Now()

	// resume the existing session when it is still live
	existing, found, err := s.liveSessionForOrder(c, orderUID)
	if err != nil {
		return PaymentSession{}, err
	}
	if found && now.Before(existing.ExpiresAt) {
		s.logger.Log(c, orderUID, mylog.SeverityInfo, "Resuming payment session %s for order %s", existing.UID, orderUID)
		return existing, nil
	}

	sessionUID := s.uuider.Create()

	s.payer.UseAPIKey(s.apiKey)
	paymentResp, err := s.payer.CreatePayment(c, mollie.Payment{
		Description:       "Order " + orderUID,
		CustomerReference: shopperUID,
		WebhookURL:        fmt.Sprintf("%s/api/payment/%s/provider/event", hostname, sessionUID),
		Metadata: map[string]string{
			"orderUID": orderUID,
		},
		Amount: &mollie.Amount{
			Currency: ord.Currency,
			Value:    fmt.Sprintf("%.2f", float32(ord.TotalAmount)/100.0),
		},
	})
	if err != nil {
		return PaymentSession{}, myerrors.NewInternalError(fmt.Errorf("error creating payment for order %s: %s", orderUID, err))
	}

	session := PaymentSession{
		UID:               sessionUID,
		OrderUID:          orderUID,
		ShopperUID:        shopperUID,
		ProviderPaymentID: paymentResp.ID,
		Amount:            ord.TotalAmount,
		Currency:          ord.Currency,
		QRPayload:         paymentResp.Links.Checkout.Href,
		State:             StateAwaitingScan,
		ExpiresAt:         now.Add(qrExpiry),
		CreatedAt:         now,
	}

	err = s.sessionStore.RunInTransaction(c, func(c context.Context) error {
		err := s.sessionStore.Put(c, session.UID, session)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		err = s.refStore.Put(c, orderUID, SessionRef{
			OrderUID:   orderUID,
			SessionUID: session.UID,
		})
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		err = s.publisher.Publish(c, paymentevents.TopicName, paymentevents.PaymentSessionStarted{
			SessionUID: session.UID,
			OrderUID:   orderUID,
			Amount:     session.Amount,
			Currency:   session.Currency,
			QRPayload:  session.QRPayload,
		})
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return nil
	})
	if err != nil {
		return PaymentSession{}, err
	}

	// have the session expire itself when the QR window closes
	err = s.queuer.Enqueue(c, myqueue.Task{
		UID:            "expire_" + session.UID,
		WebhookURLPath: fmt.Sprintf("/api/payment/%s/expired", session.UID),
		Delay:          qrExpiry,
	})
	if err != nil {
		return PaymentSession{}, myerrors.NewInternalError(fmt.Errorf("error enqueuing expiry task: %s", err))
	}

	return session, nil
}

func (s *service) liveSessionForOrder(c context.Context, orderUID string) (PaymentSession, bool, error) {
	ref, found, err := s.refStore.Get(c, orderUID)
	if err != nil {
		return PaymentSession{}, false, myerrors.NewInternalError(err)
	}
	if !found {
		return PaymentSession{}, false, nil
	}

	session, found, err := s.sessionStore.Get(c, ref.SessionUID)
	if err != nil {
		return PaymentSession{}, false, myerrors.NewInternalError(err)
	}
	if !found || session.State.IsFinal() {
		return PaymentSession{}, false, nil
	}

	return session, true, nil
}

func (s *service) getSession(c context.Context, shopperUID string, sessionUID string) (PaymentSession, error) {
	session, found, err := s.sessionStore.Get(c, sessionUID)
	if err != nil {
		return PaymentSession{}, myerrors.NewInternalError(err)
	}
	if !found || session.ShopperUID != shopperUID {
		return PaymentSession{}, myerrors.NewNotFoundError(fmt.Errorf("payment session with uid %s not found", sessionUID))
	}

	return session, nil
}

// checkStatus asks the provider for the current status of the payment. The
// session is claimed first so concurrent checks or cancels on the same session
// are rejected instead of racing the provider call.
func (s *service) checkStatus(c context.Context, shopperUID string, sessionUID string) (PaymentSession, error) {
	s.logger.Log(c, sessionUID, mylog.SeverityInfo, "Checking status of payment session %s", sessionUID)

	session, claimed, err := s.claim(c, shopperUID, sessionUID, StateChecking)
	if err != nil {
		return PaymentSession{}, err
	}
	if !claimed {
		// already final, nothing to ask the provider
		return session, nil
	}

	s.payer.UseAPIKey(s.apiKey)
	payment, err := s.payer.GetPaymentOnID(c, session.ProviderPaymentID)
	if err != nil {
		releaseErr := s.release(c, sessionUID)
		if releaseErr != nil {
			return PaymentSession{}, releaseErr
		}
		return PaymentSession{}, myerrors.NewUnavailableError(fmt.Errorf("error getting payment %s: %s", session.ProviderPaymentID, err))
	}

	return s.resolve(c, sessionUID, payment.Status)
}

// cancelSession aborts a payment that is waiting to be scanned.
func (s *service) cancelSession(c context.Context, shopperUID string, sessionUID string) (PaymentSession, error) {
	s.logger.Log(c, sessionUID, mylog.SeverityInfo, "Cancelling payment session %s", sessionUID)

	session, claimed, err := s.claim(c, shopperUID, sessionUID, StateCancelling)
	if err != nil {
		return PaymentSession{}, err
	}
	if !claimed {
		if session.State == StateCancelled {
			// already cancelled
			return session, nil
		}
		return PaymentSession{}, myerrors.NewConflictError(fmt.Errorf("payment session in state %s can not be cancelled", session.State))
	}

	s.payer.UseAPIKey(s.apiKey)
	_, err = s.payer.CancelPayment(c, session.ProviderPaymentID)
	if err != nil {
		releaseErr := s.release(c, sessionUID)
		if releaseErr != nil {
			return PaymentSession{}, releaseErr
		}
		return PaymentSession{}, myerrors.NewUnavailableError(fmt.Errorf("error cancelling payment %s: %s", session.ProviderPaymentID, err))
	}

	return s.resolve(c, sessionUID, "canceled")
}

// claim moves a live session into a busy state. Returns claimed=false with the
// current session when the session is already final.
func (s *service) claim(c context.Context, shopperUID string, sessionUID string, busyState SessionState) (PaymentSession, bool, error) {
	now := s.nower.Now()

	var session PaymentSession
	claimed := false
	err := s.sessionStore.RunInTransaction(c, func(c context.Context) error {
		var found bool
		var err error
		session, found, err = s.sessionStore.Get(c, sessionUID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		if !found || session.ShopperUID != shopperUID {
			return myerrors.NewNotFoundError(fmt.Errorf("payment session with uid %s not found", sessionUID))
		}

		if session.State.IsBusy() {
			return myerrors.NewConflictError(fmt.Errorf("payment session %s is busy", sessionUID))
		}
		if session.State.IsFinal() {
			claimed = false
			return nil
		}

		session.State = busyState
		session.LastModified = &now

		err = s.sessionStore.Put(c, sessionUID, session)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		claimed = true
		return nil
	})
	if err != nil {
		return PaymentSession{}, false, err
	}

	return session, claimed, nil
}

// release puts a busy session back to awaiting_scan after a failed provider call.
func (s *service) release(c context.Context, sessionUID string) error {
	now := s.nower.Now()

	return s.sessionStore.RunInTransaction(c, func(c context.Context) error {
		session, found, err := s.sessionStore.Get(c, sessionUID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		if !found {
			return myerrors.NewNotFoundError(fmt.Errorf("payment session with uid %s not found", sessionUID))
		}

		if !session.State.IsBusy() {
			return nil
		}

		session.State = StateAwaitingScan
		session.LastModified = &now

		return s.sessionStore.Put(c, sessionUID, session)
	})
}

// resolve applies the provider's answer to a claimed session and publishes the
// outcome when the session reaches a final state.
func (s *service) resolve(c context.Context, sessionUID string, providerStatus string) (PaymentSession, error) {
	now := s.nower.Now()

	var session PaymentSession
	err := s.sessionStore.RunInTransaction(c, func(c context.Context) error {
		var found bool
		var err error
		session, found, err = s.sessionStore.Get(c, sessionUID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		if !found {
			return myerrors.NewNotFoundError(fmt.Errorf("payment session with uid %s not found", sessionUID))
		}
		if session.State.IsFinal() {
			// a concurrent update beat us to it
			return nil
		}

		newState := classifySessionState(providerStatus)
		session.State = newState
		session.StateDetails = providerStatus
		session.LastModified = &now

		err = s.sessionStore.Put(c, sessionUID, session)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		switch newState {
		case StateSucceeded:
			err = s.publisher.Publish(c, paymentevents.TopicName, paymentevents.PaymentCompleted{
				SessionUID: session.UID,
				OrderUID:   session.OrderUID,
				Amount:     session.Amount,
				Currency:   session.Currency,
			})
		case StateCancelled:
			err = s.publisher.Publish(c, paymentevents.TopicName, paymentevents.PaymentCancelled{
				SessionUID: session.UID,
				OrderUID:   session.OrderUID,
			})
		case StateExpired:
			err = s.publisher.Publish(c, paymentevents.TopicName, paymentevents.PaymentExpired{
				SessionUID: session.UID,
				OrderUID:   session.OrderUID,
			})
		}
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return nil
	})
	if err != nil {
		return PaymentSession{}, err
	}

	return session, nil
}

// markExpired is triggered by the delayed expiry task. A session that has
// reached a final state in the meantime is left alone.
func (s *service) markExpired(c context.Context, sessionUID string) (PaymentSession, error) {
	s.logger.Log(c, sessionUID, mylog.SeverityInfo, "Expiring payment session %s", sessionUID)

	now := s.nower.Now()

	var session PaymentSession
	err := s.sessionStore.RunInTransaction(c, func(c context.Context) error {
		var found bool
		var err error
		session, found, err = s.sessionStore.Get(c, sessionUID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		if !found {
			return myerrors.NewNotFoundError(fmt.Errorf("payment session with uid %s not found", sessionUID))
		}

		// must be idempotent
		if session.State.IsFinal() {
			return nil
		}
		if session.State.IsBusy() {
			// a provider call is in flight, its outcome wins
			return nil
		}
		if now.Before(session.ExpiresAt) {
			return nil
		}

		session.State = StateExpired
		session.StateDetails = "qr window closed"
		session.LastModified = &now

		err = s.sessionStore.Put(c, sessionUID, session)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		err = s.publisher.Publish(c, paymentevents.TopicName, paymentevents.PaymentExpired{
			SessionUID: session.UID,
			OrderUID:   session.OrderUID,
		})
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return nil
	})
	if err != nil {
		return PaymentSession{}, err
	}

	return session, nil
}

// webhookNotification handles an asynchronous status update from the provider.
func (s *service) webhookNotification(c context.Context, sessionUID string, providerPaymentID string) error {
	s.logger.Log(c, sessionUID, mylog.SeverityInfo, "Webhook: status update for payment session %s (%s)", sessionUID, providerPaymentID)

	s.payer.UseAPIKey(s.apiKey)
	payment, err := s.payer.GetPaymentOnID(c, providerPaymentID)
	if err != nil {
		return myerrors.NewInternalError(fmt.Errorf("error getting payment %s on id: %s", providerPaymentID, err))
	}

	_, err = s.resolve(c, sessionUID, payment.Status)
	return err
}

func classifySessionState(providerStatus string) SessionState {
	switch providerStatus {
	case "paid":
		return StateSucceeded
	case "canceled":
		return StateCancelled
	case "expired":
		return StateExpired
	case "failed":
		// a failed attempt does not end the session; the shopper can scan
		// again or cancel until the qr window closes
		return StateAwaitingScan

	default:
		// open and pending keep the qr live
		return StateAwaitingScan
	}
}
