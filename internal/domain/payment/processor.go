package payment

import (
	"context"
	"fmt"

	"github.com/Zhima-Mochi/minishop-checkout/internal/domain/order"
	domoutbox "github.com/Zhima-Mochi/minishop-checkout/internal/domain/outbox"
)

// Processor settles an order through one payment method.
type Processor interface {
	Pay(ctx context.Context, o *order.Order) error
}

type Method string

const (
	MethodDebit  Method = "debit"
	MethodCredit Method = "credit"
	MethodPaypal Method = "paypal"
)

type Option func(*settings)

type settings struct {
	recorder domoutbox.Publisher
}

// WithRecorder sends a PaymentProcessedEvent to p for every settled order.
func WithRecorder(p domoutbox.Publisher) Option {
	return func(s *settings) { s.recorder = p }
}

func newSettings(opts []Option) settings {
	var s settings
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	return s
}

// settle is the effect every method shares once its own checks passed:
// reject a paid order, record the payment, mark the order paid.
func (s settings) settle(ctx context.Context, o *order.Order, method Method, credential string) error {
	if o.IsPaid() {
		return fmt.Errorf("payment: %s: %w", method, order.ErrAlreadyPaid)
	}
	if s.recorder != nil {
		if err := s.recorder.Publish(ctx, NewPaymentProcessedEvent(o, method, credential)); err != nil {
			return fmt.Errorf("payment: %s: record: %w", method, err)
		}
	}
	return o.MarkPaid()
}
