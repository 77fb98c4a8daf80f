// Package telemetrytest builds an Observability backed by a private
// Prometheus registry and an in-memory zap core for assertions in tests.
package telemetrytest

import (
	"strings"
	"testing"

	"github.com/Zhima-Mochi/minishop-checkout/internal/infrastructure/observability/prometrics"
	"github.com/Zhima-Mochi/minishop-checkout/internal/infrastructure/observability/telemetry"
	"github.com/Zhima-Mochi/minishop-checkout/internal/infrastructure/observability/zaplogger"
	"github.com/Zhima-Mochi/minishop-checkout/internal/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type Telemetry struct {
	observability.Observability
	Registry *prometheus.Registry
	Logs     *observer.ObservedLogs
}

func New(t testing.TB) *Telemetry {
	t.Helper()
	reg := prometheus.NewRegistry()
	counters, histograms := prometrics.Instruments(prometrics.New(reg, "", ""))
	core, logs := observer.New(zapcore.DebugLevel)
	return &Telemetry{
		Observability: telemetry.New(observability.NopTracer(), zaplogger.New(zap.New(core)), counters, histograms),
		Registry:      reg,
		Logs:          logs,
	}
}

// RequireMetrics compares the named families against expected exposition text.
func (tt *Telemetry) RequireMetrics(t testing.TB, expected string, names ...string) {
	t.Helper()
	if err := testutil.GatherAndCompare(tt.Registry, strings.NewReader(expected), names...); err != nil {
		t.Fatal(err)
	}
}

// Only returns the context of the single entry logged with msg.
func (tt *Telemetry) Only(t testing.TB, msg string) map[string]any {
	t.Helper()
	entries := tt.Logs.FilterMessage(msg).All()
	if len(entries) != 1 {
		t.Fatalf("%q logged %d times, want 1", msg, len(entries))
	}
	return entries[0].ContextMap()
}
