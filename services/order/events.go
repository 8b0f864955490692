package order

import (
	"context"
	"fmt"

	"github.com/lapstore/checkout/lib/myerrors"
	"github.com/lapstore/checkout/lib/myhttp"
	"github.com/lapstore/checkout/lib/mylog"
	"github.com/lapstore/checkout/services/orderevents"
	"github.com/lapstore/checkout/services/paymentevents"
)

func (s *service) Subscribe(c context.Context) error {

	err := s.publisher.CreateTopic(c, orderevents.TopicName)
	if err != nil {
		return fmt.Errorf("error creating topic %s: %s", orderevents.TopicName, err)
	}

	err = s.pubsub.Subscribe(c, paymentevents.TopicName, myhttp.GuessHostnameWithScheme()+"/api/order/event")
	if err != nil {
		return fmt.Errorf("error subscribing to topic %s: %s", paymentevents.TopicName, err)
	}

	return nil
}

func (s *service) OnPaymentSessionStarted(c context.Context, topic string, event paymentevents.PaymentSessionStarted) error {
	s.logger.Log(c, event.OrderUID, mylog.SeverityInfo, "Webhook: payment session %s started for order %s", event.SessionUID, event.OrderUID)

	return s.applyPaymentUpdate(c, event.OrderUID, func(order *Order) {
		order.ActivePaymentUID = event.SessionUID
		order.PaymentStatus = PaymentStatusPending
	})
}

func (s *service) OnPaymentCompleted(c context.Context, topic string, event paymentevents.PaymentCompleted) error {
	s.logger.Log(c, event.OrderUID, mylog.SeverityInfo, "Webhook: payment %s completed for order %s", event.SessionUID, event.OrderUID)

	return s.applyPaymentUpdate(c, event.OrderUID, func(order *Order) {
		order.PaymentStatus = PaymentStatusSuccess
		if order.Status == StatusPending {
			order.Status = StatusConfirmed
		}
	})
}

func (s *service) OnPaymentCancelled(c context.Context, topic string, event paymentevents.PaymentCancelled) error {
	s.logger.Log(c, event.OrderUID, mylog.SeverityInfo, "Webhook: payment %s cancelled for order %s", event.SessionUID, event.OrderUID)

	return s.applyPaymentUpdate(c, event.OrderUID, func(order *Order) {
		order.PaymentStatus = PaymentStatusCancelled
		if order.Status.CanTransitionTo(StatusCancelled) {
			order.Status = StatusCancelled
		}
	})
}

func (s *service) OnPaymentExpired(c context.Context, topic string, event paymentevents.PaymentExpired) error {
	s.logger.Log(c, event.OrderUID, mylog.SeverityInfo, "Webhook: payment %s expired for order %s", event.SessionUID, event.OrderUID)

	// the order stays pending so the shopper can start a new payment
	return s.applyPaymentUpdate(c, event.OrderUID, func(order *Order) {
		if order.PaymentStatus == PaymentStatusPending {
			order.PaymentStatus = PaymentStatusFailed
		}
		order.ActivePaymentUID = ""
	})
}

func (s *service) applyPaymentUpdate(c context.Context, orderUID string, update func(order *Order)) error {
	now := s.nower.Now()

	return s.orderStore.RunInTransaction(c, func(c context.Context) error {
		// must be idempotent
		order, found, err := s.orderStore.Get(c, orderUID)
		if err != nil {
			return myerrors.NewInternalError(err)
		}
		if !found {
			return myerrors.NewNotFoundError(fmt.Errorf("order with uid %s not found", orderUID))
		}

		if order.PaymentStatus == PaymentStatusSuccess {
			// a completed payment is final
			return nil
		}

		update(&order)
		order.LastModified = &now

		err = s.orderStore.Put(c, orderUID, order)
		if err != nil {
			return myerrors.NewInternalError(err)
		}

		return nil
	})
}
