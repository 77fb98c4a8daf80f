package telemetry

import (
	"testing"

	"github.com/Zhima-Mochi/minishop-checkout/internal/observability"
)

type countingCounter struct{ n float64 }

func (c *countingCounter) Add(d float64, _ ...observability.Label) { c.n += d }

func TestNewFallsBackToNop(t *testing.T) {
	payments := &countingCounter{}
	tel := New(nil, nil, map[observability.MetricKey]observability.Counter{
		observability.MPayments:         payments,
		observability.MUsecaseRequests: nil,
	}, nil)

	if tel.Tracer() == nil || tel.Logger() == nil {
		t.Fatal("nil tracer or logger")
	}
	tel.Metrics().Counter(observability.MPayments).Add(2)
	if payments.n != 2 {
		t.Errorf("payments = %v, want 2", payments.n)
	}

	// unregistered and nil instruments resolve to nop
	tel.Metrics().Counter(observability.MUsecaseRequests).Add(1)
	tel.Metrics().Counter("unknown_total").Add(1)
	tel.Metrics().Histogram(observability.MUsecaseDuration).Observe(0.1)
}
