package payment

import (
	"context"
	"errors"
	"time"

	"github.com/Zhima-Mochi/minishop-checkout/internal/application"
	domorder "github.com/Zhima-Mochi/minishop-checkout/internal/domain/order"
	domain "github.com/Zhima-Mochi/minishop-checkout/internal/domain/payment"
	"github.com/Zhima-Mochi/minishop-checkout/internal/observability"
	"github.com/Zhima-Mochi/minishop-checkout/internal/observability/logctx"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	paymentService        = "payment-service"
	useCasePaymentProcess = "payment.process"
	paymentSpanName       = "ProcessPayment"
	spanPrefix            = "UC."
)

// payments_total outcomes
const (
	outcomeSuccess       = "success"
	outcomeNotAuthorized = "not_authorized"
	outcomeAlreadyPaid   = "already_paid"
	outcomeError         = "error"
)

type ProcessPaymentInput struct {
	Order *domorder.Order
}

type ProcessPaymentResult struct {
	OrderID string
	Method  domain.Method
	Amount  float64
	Status  domorder.Status
}

// ProcessPaymentUseCase pays orders through one processor. It knows the
// processor only by its interface; the method is a label for telemetry.
type ProcessPaymentUseCase struct {
	method    domain.Method
	processor domain.Processor
	tracer    observability.Tracer

	log            observability.Logger
	reqCounter     observability.Counter   // usecase_requests_total{use_case,outcome}
	durHist        observability.Histogram // usecase_duration_seconds{use_case}
	paymentCounter observability.Counter   // payments_total{method,outcome}
}

func NewProcessPaymentUseCase(method domain.Method, processor domain.Processor, tel observability.Observability) *ProcessPaymentUseCase {
	if tel == nil {
		tel = observability.Nop()
	}
	metrics := tel.Metrics()

	return &ProcessPaymentUseCase{
		method:    method,
		processor: processor,
		tracer:    tel.Tracer(),
		log: tel.Logger().With(
			observability.F("service", paymentService),
			observability.F("method", string(method)),
		),
		reqCounter:     metrics.Counter(observability.MUsecaseRequests),
		durHist:        metrics.Histogram(observability.MUsecaseDuration),
		paymentCounter: metrics.Counter(observability.MPayments),
	}
}

// Execute pays cmd.Order. A NOT_AUTHORIZED failure leaves the order open and
// may be retried once the processor's authorizer has been satisfied.
func (uc *ProcessPaymentUseCase) Execute(ctx context.Context, cmd ProcessPaymentInput) (_ *ProcessPaymentResult, err error) {
	ctx, logger := logctx.Enrich(ctx, uc.log, observability.F("use_case", useCasePaymentProcess))

	result := &ProcessPaymentResult{Method: uc.method}
	if cmd.Order != nil {
		result.OrderID = cmd.Order.ID
		result.Amount = cmd.Order.TotalPrice()
		result.Status = cmd.Order.Status()
	}

	ctx, span := uc.tracer.Start(ctx, spanPrefix+paymentSpanName,
		attribute.String("use_case", useCasePaymentProcess),
		attribute.String("payment.method", string(uc.method)),
		attribute.String("order.id", result.OrderID),
		attribute.Float64("payment.amount", result.Amount),
	)
	start := time.Now()
	outcome, statusText := "success", "OK"
	paymentOutcome := outcomeSuccess

	defer func() {
		if cmd.Order != nil {
			result.Status = cmd.Order.Status()
		}
		span.SetAttributes(attribute.String("order.status", string(result.Status)))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, statusText)
		} else {
			span.SetStatus(codes.Ok, statusText)
		}
		span.End()

		latency := time.Since(start).Seconds()
		uc.reqCounter.Add(1,
			observability.L("use_case", useCasePaymentProcess),
			observability.L("outcome", outcome),
		)
		uc.durHist.Observe(latency,
			observability.L("use_case", useCasePaymentProcess),
		)
		uc.paymentCounter.Add(1,
			observability.L("method", string(uc.method)),
			observability.L("outcome", paymentOutcome),
		)

		fields := []observability.Field{
			observability.F("outcome", outcome),
			observability.F("status", statusText),
			observability.F("latency_seconds", latency),
			observability.F("order_id", result.OrderID),
			observability.F("amount", result.Amount),
			observability.F("order_status", string(result.Status)),
		}
		if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
			fields = append(fields,
				observability.F("trace_id", sc.TraceID().String()),
				observability.F("span_id", sc.SpanID().String()),
			)
		}
		if err != nil {
			fields = append(fields, observability.F("error", err.Error()))
		}
		logger.Info("use_case_done", fields...)
	}()

	if cmd.Order == nil {
		outcome, statusText, paymentOutcome = "error", "ORDER_REQUIRED", outcomeError
		return nil, domain.ErrNilOrder
	}
	if err := ctx.Err(); err != nil {
		outcome, statusText, paymentOutcome = "error", "CONTEXT_CANCELED", outcomeError
		return result, err
	}

	err = uc.processor.Pay(ctx, cmd.Order)
	switch {
	case err == nil:
		span.AddEvent("payment.settled",
			trace.WithAttributes(attribute.String("order.id", result.OrderID)),
		)
		return result, nil
	case domain.IsNotAuthorized(err):
		outcome, statusText, paymentOutcome = "error", "NOT_AUTHORIZED", outcomeNotAuthorized
	case errors.Is(err, domorder.ErrAlreadyPaid):
		outcome, statusText, paymentOutcome = "error", "ORDER_ALREADY_PAID", outcomeAlreadyPaid
	default:
		outcome, statusText, paymentOutcome = "error", "PAYMENT_FAILED", outcomeError
	}
	return result, err
}

var _ application.UseCase[ProcessPaymentInput, *ProcessPaymentResult] = (*ProcessPaymentUseCase)(nil)
