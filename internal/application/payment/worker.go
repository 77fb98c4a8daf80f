package payment

import (
	"context"
	"fmt"

	domoutbox "github.com/Zhima-Mochi/minishop-checkout/internal/domain/outbox"
	domain "github.com/Zhima-Mochi/minishop-checkout/internal/domain/payment"
	"github.com/Zhima-Mochi/minishop-checkout/internal/observability"
	workerpresentation "github.com/Zhima-Mochi/minishop-checkout/internal/presentation/worker"
	"go.opentelemetry.io/otel/trace"
)

const (
	paymentWorker      = "payment_worker"
	useCasePaymentNote = "payment.record"
)

// Worker consumes processing records and writes the payment log.
type Worker struct {
	subscriber domoutbox.Subscriber
	tel        observability.Observability

	log      observability.Logger
	recorded observability.Counter // payments_recorded_total{method}
}

func NewWorker(subscriber domoutbox.Subscriber, tel observability.Observability) *Worker {
	if tel == nil {
		tel = observability.Nop()
	}
	return &Worker{
		subscriber: subscriber,
		tel:        tel,
		log:        tel.Logger().With(observability.F("component", paymentWorker)),
		recorded:   tel.Metrics().Counter(observability.MPaymentsRecorded),
	}
}

func (w *Worker) Start() {
	if w.subscriber == nil {
		return
	}
	w.subscriber.Subscribe(domain.PaymentProcessedEvent{}.EventName(), w.handlePaymentProcessed)
}

func (w *Worker) handlePaymentProcessed(ctx context.Context, e domoutbox.Event) error {
	evt, ok := e.(domain.PaymentProcessedEvent)
	if !ok {
		return nil
	}

	_, logger := workerpresentation.WithEventContext(ctx, w.log, w.tel,
		trace.SpanContextFromContext(ctx),
		map[string]string{
			"event":    e.EventName(),
			"use_case": useCasePaymentNote,
		},
	)

	logger.Info("payment_recorded",
		observability.F("detail", fmt.Sprintf("processing %s payment", evt.Method)),
		observability.F("order_id", evt.OrderID),
		observability.F("method", string(evt.Method)),
		observability.F("credential", evt.Credential),
		observability.F("amount", evt.Amount),
	)
	w.recorded.Add(1, observability.L("method", string(evt.Method)))
	return nil
}
