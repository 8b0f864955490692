package orderevents

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/lapstore/checkout/lib/myerrors"
	"github.com/lapstore/checkout/lib/myevents"
)

const (
	TopicName          = "order"
	orderCreatedName   = TopicName + ".created"
	orderCancelledName = TopicName + ".cancelled"
)

type OrderEventService interface {
	Subscribe(c context.Context) error
	OnOrderCreated(c context.Context, topic string, event OrderCreated) error
	OnOrderCancelled(c context.Context, topic string, event OrderCancelled) error
}

func DispatchEvent(c context.Context, reader io.Reader, service OrderEventService) error {
	envelope, err := myevents.ParseEventEnvelope(reader)
	if err != nil {
		return myerrors.NewInvalidInputError(err)
	}

	switch envelope.EventTypeName {
	case orderCreatedName:
		{
			event := OrderCreated{}
			err := json.Unmarshal([]byte(envelope.EventPayload), &event)
			if err != nil {
				return myerrors.NewInvalidInputError(err)
			}
			return service.OnOrderCreated(c, envelope.Topic, event)
		}
	case orderCancelledName:
		{
			event := OrderCancelled{}
			err := json.Unmarshal([]byte(envelope.EventPayload), &event)
			if err != nil {
				return myerrors.NewInvalidInputError(err)
			}
			return service.OnOrderCancelled(c, envelope.Topic, event)
		}
	default:
		return myerrors.NewNotImplementedError(fmt.Errorf("unknown event %s", envelope.EventTypeName))
	}
}

type OrderCreated struct {
	OrderUID      string
	ShopperUID    string
	PaymentMethod string
	Amount        int64
	Currency      string
}

func (e OrderCreated) GetEventTypeName() string {
	return orderCreatedName
}

func (e OrderCreated) GetAggregateName() string {
	return e.OrderUID
}

type OrderCancelled struct {
	OrderUID   string
	ShopperUID string
}

func (e OrderCancelled) GetEventTypeName() string {
	return orderCancelledName
}

func (e OrderCancelled) GetAggregateName() string {
	return e.OrderUID
}
