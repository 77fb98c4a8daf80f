package payment

import (
	"time"

	"github.com/Zhima-Mochi/minishop-checkout/internal/domain/order"
)

// PaymentProcessedEvent is the processing record of a settled order.
// Credential is always masked.
type PaymentProcessedEvent struct {
	OrderID    string
	Method     Method
	Credential string
	Amount     float64
	OccurredAt time.Time
}

func (PaymentProcessedEvent) EventName() string { return "payment.processed" }

func NewPaymentProcessedEvent(o *order.Order, method Method, credential string) PaymentProcessedEvent {
	return PaymentProcessedEvent{
		OrderID:    o.ID,
		Method:     method,
		Credential: credential,
		Amount:     o.TotalPrice(),
		OccurredAt: time.Now().UTC(),
	}
}
