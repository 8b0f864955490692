package paymentevents

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/lapstore/checkout/lib/myerrors"
	"github.com/lapstore/checkout/lib/myevents"
)

const (
	TopicName            = "payment"
	sessionStartedName   = TopicName + ".sessionStarted"
	paymentCompletedName = TopicName + ".completed"
	paymentCancelledName = TopicName + ".cancelled"
	paymentExpiredName   = TopicName + ".expired"
)

type PaymentEventService interface {
	Subscribe(c context.Context) error
	OnPaymentSessionStarted(c context.Context, topic string, event PaymentSessionStarted) error
	OnPaymentCompleted(c context.Context, topic string, event PaymentCompleted) error
	OnPaymentCancelled(c context.Context, topic string, event PaymentCancelled) error
	OnPaymentExpired(c context.Context, topic string, event PaymentExpired) error
}

func DispatchEvent(c context.Context, reader io.Reader, service PaymentEventService) error {
	envelope, err := myevents.ParseEventEnvelope(reader)
	if err != nil {
		return myerrors.NewInvalidInputError(err)
	}

	switch envelope.EventTypeName {
	case sessionStartedName:
		{
			event := PaymentSessionStarted{}
			err := json.Unmarshal([]byte(envelope.EventPayload), &event)
			if err != nil {
				return myerrors.NewInvalidInputError(err)
			}
			return service.OnPaymentSessionStarted(c, envelope.Topic, event)
		}
	case paymentCompletedName:
		{
			event := PaymentCompleted{}
			err := json.Unmarshal([]byte(envelope.EventPayload), &event)
			if err != nil {
				return myerrors.NewInvalidInputError(err)
			}
			return service.OnPaymentCompleted(c, envelope.Topic, event)
		}
	case paymentCancelledName:
		{
			event := PaymentCancelled{}
			err := json.Unmarshal([]byte(envelope.EventPayload), &event)
			if err != nil {
				return myerrors.NewInvalidInputError(err)
			}
			return service.OnPaymentCancelled(c, envelope.Topic, event)
		}
	case paymentExpiredName:
		{
			event := PaymentExpired{}
			err := json.Unmarshal([]byte(envelope.EventPayload), &event)
			if err != nil {
				return myerrors.NewInvalidInputError(err)
			}
			return service.OnPaymentExpired(c, envelope.Topic, event)
		}
	default:
		return myerrors.NewNotImplementedError(fmt.Errorf("unknown event %s", envelope.EventTypeName))
	}
}

type PaymentSessionStarted struct {
	SessionUID string
	OrderUID   string
	Amount     int64
	Currency   string
	QRPayload  string
}

func (e PaymentSessionStarted) GetEventTypeName() string {
	return sessionStartedName
}

func (e PaymentSessionStarted) GetAggregateName() string {
	return e.OrderUID
}

type PaymentCompleted struct {
	SessionUID string
	OrderUID   string
	Amount     int64
	Currency   string
}

func (e PaymentCompleted) GetEventTypeName() string {
	return paymentCompletedName
}

func (e PaymentCompleted) GetAggregateName() string {
	return e.OrderUID
}

type PaymentCancelled struct {
	SessionUID string
	OrderUID   string
}

func (e PaymentCancelled) GetEventTypeName() string {
	return paymentCancelledName
}

func (e PaymentCancelled) GetAggregateName() string {
	return e.OrderUID
}

type PaymentExpired struct {
	SessionUID string
	OrderUID   string
}

func (e PaymentExpired) GetEventTypeName() string {
	return paymentExpiredName
}

func (e PaymentExpired) GetAggregateName() string {
	return e.OrderUID
}
