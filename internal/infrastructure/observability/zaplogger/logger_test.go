package zaplogger

import (
	"errors"
	"testing"

	"github.com/Zhima-Mochi/minishop-checkout/internal/observability"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := New(zap.New(core), observability.F("service", "payment-service"))

	l.With(observability.F("order_id", "o-1")).Info("use_case_done",
		observability.F("outcome", "success"),
		observability.F("error", errors.New("boom")),
	)

	entries := logs.FilterMessage("use_case_done").All()
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	for k, want := range map[string]any{
		"service":  "payment-service",
		"order_id": "o-1",
		"outcome":  "success",
		"error":    "boom",
	} {
		if fields[k] != want {
			t.Errorf("field %s = %v, want %v", k, fields[k], want)
		}
	}
}

func TestLevels(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	l := New(zap.New(core))

	l.Debug("debug")
	l.Info("info")
	l.Warn("warn")
	l.Error("error")

	if got := logs.Len(); got != 2 {
		t.Fatalf("entries = %d, want 2", got)
	}
}

func TestNilLoggerDiscards(t *testing.T) {
	l := New(nil)
	l.Info("nothing")
	if l.With() != l {
		t.Error("With() without fields should return the same logger")
	}
}
