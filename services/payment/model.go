package payment

import (
	"time"
)

type SessionState string

const (
	// StateAwaitingScan means the QR code is live and waiting for the shopper.
	StateAwaitingScan SessionState = "awaiting_scan"
	// StateChecking and StateCancelling guard against concurrent operations on
	// the same session while a provider call is in flight.
	StateChecking   SessionState = "checking"
	StateCancelling SessionState = "cancelling"

	StateSucceeded SessionState = "succeeded"
	StateCancelled SessionState = "cancelled"
	StateExpired   SessionState = "expired"
)

// IsFinal reports whether the session can never change state again.
func (s SessionState) IsFinal() bool {
	switch s {
	case StateSucceeded, StateCancelled, StateExpired:
		return true
	}
	return false
}

// IsBusy reports whether a provider call is in flight for this session.
func (s SessionState) IsBusy() bool {
	return s == StateChecking || s == StateCancelling
}

// PaymentSession tracks one QR payment attempt for an order.
type PaymentSession struct {
	UID               string
	OrderUID          string
	ShopperUID        string
	ProviderPaymentID string
	Amount            int64
	Currency          string
	QRPayload         string `datastore:",noindex"`
	State             SessionState
	StateDetails      string
	ExpiresAt         time.Time
	CreatedAt         time.Time
	LastModified      *time.Time
}

// SessionRef maps an order to its most recent payment session, so at most one
// session is live per order.
type SessionRef struct {
	OrderUID   string
	SessionUID string
}
