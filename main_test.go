package main

import (
	"testing"

	dompay "github.com/Zhima-Mochi/paygate/internal/domain/payment"
	"github.com/Zhima-Mochi/paygate/internal/infrastructure/config"
	"github.com/Zhima-Mochi/paygate/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoadConfig_LogsRejectedConfig(t *testing.T) {
	t.Setenv("PAYPAL_ENABLED", "false")
	t.Setenv("CREDITCARD_ENABLED", "false")
	core, logs := observer.New(zapcore.InfoLevel)

	cfg, err := loadConfig(zap.New(core))
	require.Error(t, err)
	assert.Nil(t, cfg)

	entries := logs.FilterMessage("config_load_failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Contains(t, entries[0].ContextMap()["error"], "CREDITCARD_ENABLED")
}

func TestLoadConfig_Valid(t *testing.T) {
	t.Setenv("PAYPAL_ENABLED", "true")
	t.Setenv("CREDITCARD_ENABLED", "false")
	core, logs := observer.New(zapcore.InfoLevel)

	cfg, err := loadConfig(zap.New(core))
	require.NoError(t, err)
	assert.True(t, cfg.PayPal.Enabled)
	assert.Zero(t, logs.Len())
}

func TestBuildCircuits_OnlyEnabled(t *testing.T) {
	cfg := &config.Config{
		PayPal:     config.CircuitConfig{Enabled: true, SuccessRate: 1},
		CreditCard: config.CircuitConfig{Enabled: false},
	}

	gw := dompay.NewGateway(buildCircuits(cfg, observability.Nop()))
	assert.True(t, gw.Bound(dompay.VariantPayPal))
	assert.False(t, gw.Bound(dompay.VariantCreditCard))
}
