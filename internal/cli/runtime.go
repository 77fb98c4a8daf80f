package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"go.uber.org/zap"

	"github.com/Zhima-Mochi/minishop-checkout/internal/application"
	apporder "github.com/Zhima-Mochi/minishop-checkout/internal/application/order"
	apppayment "github.com/Zhima-Mochi/minishop-checkout/internal/application/payment"
	"github.com/Zhima-Mochi/minishop-checkout/internal/config"
	"github.com/Zhima-Mochi/minishop-checkout/internal/domain/order"
	"github.com/Zhima-Mochi/minishop-checkout/internal/domain/payment"
	"github.com/Zhima-Mochi/minishop-checkout/internal/infrastructure/id"
	"github.com/Zhima-Mochi/minishop-checkout/internal/infrastructure/observability/oteltrace"
	"github.com/Zhima-Mochi/minishop-checkout/internal/infrastructure/observability/prometrics"
	"github.com/Zhima-Mochi/minishop-checkout/internal/infrastructure/observability/telemetry"
	"github.com/Zhima-Mochi/minishop-checkout/internal/infrastructure/observability/zaplogger"
	"github.com/Zhima-Mochi/minishop-checkout/internal/infrastructure/outbox"
	"github.com/Zhima-Mochi/minishop-checkout/internal/observability"
	"github.com/Zhima-Mochi/minishop-checkout/internal/pkg/logging"
)

type (
	createOrderUseCase = application.UseCase[apporder.CreateOrderInput, *apporder.CreateOrderResult]
	payUseCase         = application.UseCase[apppayment.ProcessPaymentInput, *apppayment.ProcessPaymentResult]
)

// runtime owns the process-wide collaborators of one command run.
type runtime struct {
	cfg      config.Config
	zl       *zap.Logger
	system   *zap.Logger
	registry *prometheus.Registry
	tel      observability.Observability
	bus      *outbox.Bus

	createOrder createOrderUseCase
}

func start(ctx context.Context, cfg config.Config) (*runtime, error) {
	zl, err := logging.NewLogger(cfg.Logging())
	if err != nil {
		return nil, err
	}
	system := logging.WithTrace(zl, logging.SystemTraceID, logging.SystemSpanID)

	registry := prometheus.NewRegistry()
	counters, histograms := prometrics.Instruments(prometrics.New(registry, cfg.Metrics.Namespace, ""))
	tel := telemetry.New(oteltrace.New(cfg.App.Name), zaplogger.New(zl), counters, histograms)

	bus := outbox.NewBus(outbox.Options{
		Buffer:         cfg.Bus.Buffer,
		Concurrency:    cfg.Bus.Concurrency,
		HandlerTimeout: cfg.Bus.HandlerTimeout,
	}, zaplogger.New(system))
	apppayment.NewWorker(bus, tel).Start()
	bus.Start(ctx)
	system.Info("checkout_started", zap.String("env", cfg.App.Env), zap.String("method", cfg.Payment.Method))

	return &runtime{
		cfg:         cfg,
		zl:          zl,
		system:      system,
		registry:    registry,
		tel:         tel,
		bus:         bus,
		createOrder: apporder.NewCreateOrderUseCase(id.NewUUIDGenerator(), bus, tel),
	}, nil
}

// newOrder builds a fresh order from the configured lines.
func (r *runtime) newOrder(ctx context.Context) (*order.Order, error) {
	lines := make([]apporder.Line, 0, len(r.cfg.Order.Items))
	for _, it := range r.cfg.Order.Items {
		lines = append(lines, apporder.Line{Name: it.Name, Quantity: it.Quantity, UnitPrice: it.UnitPrice})
	}
	res, err := r.createOrder.Execute(ctx, apporder.CreateOrderInput{Lines: lines})
	if err != nil {
		return nil, err
	}
	return res.Order, nil
}

func (r *runtime) payments(method payment.Method, p payment.Processor) payUseCase {
	return apppayment.NewProcessPaymentUseCase(method, p, r.tel)
}

// recorder is the sink processors send their processing records to.
func (r *runtime) recorder() payment.Option {
	return payment.WithRecorder(r.bus)
}

// shutdown drains the bus so every processing record is logged, then
// optionally prints the metrics.
func (r *runtime) shutdown(ctx context.Context, out io.Writer) error {
	drainCtx, cancel := context.WithTimeout(ctx, r.cfg.Bus.DrainTimeout)
	defer cancel()
	r.bus.Stop(drainCtx)
	r.system.Info("checkout_stopped")
	defer func() { _ = r.zl.Sync() }()

	if !r.cfg.Metrics.Dump {
		return nil
	}
	return dumpMetrics(r.registry, out)
}

func dumpMetrics(g prometheus.Gatherer, out io.Writer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(out, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

func payInput(o *order.Order) apppayment.ProcessPaymentInput {
	return apppayment.ProcessPaymentInput{Order: o}
}
