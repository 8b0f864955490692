package myevents

import (
	"encoding/json"
	"fmt"
	"io"
)

// PushRequest is the body that the pubsub push-subscription delivers to our webhook.
type PushRequest struct {
	Message      PushMessage
	Subscription string
}

type PushMessage struct {
	Attributes map[string]string
	Data       []byte
	ID         string `json:"message_id"`
}

func ParseEventEnvelope(r io.Reader) (EventEnvelope, error) {
	msg := PushRequest{}
	err := json.NewDecoder(r).Decode(&msg)
	if err != nil {
		return EventEnvelope{}, fmt.Errorf("error parsing push-request:%s", err)
	}
	envlp := EventEnvelope{}
	err = json.Unmarshal(msg.Message.Data, &envlp)
	if err != nil {
		return EventEnvelope{}, fmt.Errorf("error parsing envelope:%s", err)
	}

	return envlp, nil
}
