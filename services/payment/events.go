package payment

import (
	"context"
	"fmt"

	"github.com/lapstore/checkout/lib/myhttp"
	"github.com/lapstore/checkout/lib/mylog"
	"github.com/lapstore/checkout/services/orderevents"
	"github.com/lapstore/checkout/services/paymentevents"
)

func (s *service) Subscribe(c context.Context) error {

	err := s.publisher.CreateTopic(c, paymentevents.TopicName)
	if err != nil {
		return fmt.Errorf("error creating topic %s: %s", paymentevents.TopicName, err)
	}

	err = s.pubsub.Subscribe(c, orderevents.TopicName, myhttp.GuessHostnameWithScheme()+"/api/payment/event")
	if err != nil {
		return fmt.Errorf("error subscribing to topic %s: %s", orderevents.TopicName, err)
	}

	return nil
}

func (s *service) OnOrderCreated(c context.Context, topic string, event orderevents.OrderCreated) error {
	return nil
}

// OnOrderCancelled aborts the live payment session of a cancelled order, so
// the shopper can not pay for an order that no longer exists.
func (s *service) OnOrderCancelled(c context.Context, topic string, event orderevents.OrderCancelled) error {
	s.logger.Log(c, event.OrderUID, mylog.SeverityInfo, "Webhook: order %s cancelled", event.OrderUID)

	session, found, err := s.liveSessionForOrder(c, event.OrderUID)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}

	_, err = s.cancelSession(c, session.ShopperUID, session.UID)
	return err
}
