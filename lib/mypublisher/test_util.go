package mypublisher

import (
	"encoding/json"

	"github.com/lapstore/checkout/lib/myevents"
	"github.com/lapstore/checkout/lib/mytime"
)

// CreatePubsubMessage wraps an event in the push-request body that a pubsub
// push-subscription would deliver; used by web tests for event endpoints.
func CreatePubsubMessage(topic string, event myevents.Event) string {
	eventBytes, _ := json.Marshal(event)
	envelope := myevents.EventEnvelope{
		UID:           "123",
		CreatedAt:     mytime.ExampleTime,
		Topic:         topic,
		AggregateUID:  event.GetAggregateName(),
		EventTypeName: event.GetEventTypeName(),
		EventPayload:  string(eventBytes),
	}
	envelopeBytes, _ := json.Marshal(envelope)

	req := myevents.PushRequest{
		Message: myevents.PushMessage{
			Data: envelopeBytes,
		},
		Subscription: topic,
	}

	reqBytes, _ := json.Marshal(req)

	return string(reqBytes)
}
