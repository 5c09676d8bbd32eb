package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	appPayment "github.com/Zhima-Mochi/paygate/internal/application/payment"
	dompay "github.com/Zhima-Mochi/paygate/internal/domain/payment"
	"github.com/Zhima-Mochi/paygate/internal/infrastructure/circuit"
	"github.com/Zhima-Mochi/paygate/internal/infrastructure/config"
	"github.com/Zhima-Mochi/paygate/internal/infrastructure/id"
	infraobs "github.com/Zhima-Mochi/paygate/internal/infrastructure/observability"
	"github.com/Zhima-Mochi/paygate/internal/infrastructure/observability/oteltrace"
	"github.com/Zhima-Mochi/paygate/internal/infrastructure/observability/zaplogger"
	"github.com/Zhima-Mochi/paygate/internal/infrastructure/outbox"
	"github.com/Zhima-Mochi/paygate/internal/observability"
	"github.com/Zhima-Mochi/paygate/internal/pkg/logging"
	httppresentation "github.com/Zhima-Mochi/paygate/internal/presentation/http"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultServiceName = "paygate"

func main() {
	// Config failures must be visible before the configured logger exists.
	bootstrapLogger := logging.MustNewLogger(logging.Options{Service: defaultServiceName})
	cfg, err := loadConfig(bootstrapLogger)
	if err != nil {
		_ = bootstrapLogger.Sync()
		os.Exit(1)
	}

	baseLogger := logging.MustNewLogger(logging.Options{
		Service: cfg.ServiceName,
		Env:     cfg.Environment,
		Level:   cfg.Log.Level,
		File:    cfg.Log.File,
	})
	defer func() { _ = baseLogger.Sync() }()
	zap.ReplaceGlobals(baseLogger)

	systemLogger := logging.WithTrace(baseLogger, logging.SystemTraceID, logging.SystemSpanID)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := oteltrace.Setup(ctx, oteltrace.Options{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.ServiceName,
		ServiceVersion: cfg.Version,
		Environment:    cfg.Environment,
		Endpoint:       cfg.OTel.Endpoint,
		Insecure:       cfg.OTel.Insecure,
	})
	if err != nil {
		systemLogger.Fatal("tracer_setup_failed", zap.Error(err))
	}

	tel := infraobs.NewPrometheus(
		prometheus.DefaultRegisterer,
		"",
		oteltrace.New(cfg.ServiceName),
		zaplogger.Wrap(baseLogger),
	)

	gateway := dompay.NewGateway(buildCircuits(cfg, tel))
	for _, v := range dompay.Variants() {
		systemLogger.Info("circuit_binding",
			zap.String("circuit", v.String()),
			zap.Bool("bound", gateway.Bound(v)),
		)
	}

	// In-memory event bus (acts as outbox/event publisher)
	bus := outbox.NewBus(tel.Logger())
	appPayment.NewWorker(bus, tel).Start()
	bus.Start(ctx)

	payUC := appPayment.NewPayUseCase(gateway, id.NewUUIDGenerator(), tel,
		appPayment.WithPublisher(bus),
	)

	handler := httppresentation.NewHandler(payUC, tel.Logger(), tel)
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", handler.Router())

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      mux,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		systemLogger.Info("http_server_start",
			zap.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()

		var errs []error
		if err := server.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
		if err := bus.Stop(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
		if err := shutdownTracer(shutdownCtx); err != nil {
			errs = append(errs, err)
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		systemLogger.Error("http_server_error",
			zap.Error(err),
		)
		return
	}
	systemLogger.Info("http_server_stopped")
}

// loadConfig reports a rejected configuration on log before returning it.
func loadConfig(log *zap.Logger) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		log.Error("config_load_failed", zap.Error(err))
		return nil, err
	}
	return cfg, nil
}

// buildCircuits binds a simulated, instrumented circuit for every enabled variant.
func buildCircuits(cfg *config.Config, tel observability.Observability) map[dompay.Variant]dompay.Circuit {
	circuits := make(map[dompay.Variant]dompay.Circuit, 2)
	bind := func(v dompay.Variant, cc config.CircuitConfig) {
		if !cc.Enabled {
			return
		}
		sim := circuit.NewSimulated(v, cc.SuccessRate,
			circuit.WithFaultRate(cc.FaultRate),
			circuit.WithLatency(cc.Latency),
		)
		circuits[v] = circuit.Instrument(sim, v, tel)
	}
	bind(dompay.VariantPayPal, cfg.PayPal)
	bind(dompay.VariantCreditCard, cfg.CreditCard)
	return circuits
}
