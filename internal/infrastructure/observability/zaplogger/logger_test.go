package zaplogger

import (
	"errors"
	"testing"

	"github.com/Zhima-Mochi/paygate/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_WritesStructuredFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	log := Wrap(zap.New(core), observability.F("service", "paygate"))

	log.With(observability.F("request_id", "r-1")).Info("use_case_done",
		observability.F("outcome", "success"),
		observability.F("latency_seconds", 0.25),
		observability.F("cause", errors.New("boom")),
	)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "use_case_done", entries[0].Message)

	ctx := entries[0].ContextMap()
	assert.Equal(t, "paygate", ctx["service"])
	assert.Equal(t, "r-1", ctx["request_id"])
	assert.Equal(t, "success", ctx["outcome"])
	assert.Equal(t, 0.25, ctx["latency_seconds"])
	assert.Equal(t, "boom", ctx["cause"])
}

func TestLogger_Levels(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	log := Wrap(zap.New(core))

	log.Debug("dropped")
	log.Info("dropped")
	log.Warn("kept")
	log.Error("kept")

	assert.Equal(t, 2, logs.Len())
}
