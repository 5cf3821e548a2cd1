// Demo wires a governed sink over console, OTel and (optionally) Loki outputs and runs the
// Orders/Payments scenarios. Set GOVERNANCE_CONFIG_PATH to the profile document (default governance.yaml).
package main

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	otelapi "go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	"loggov/internal/config"
	"loggov/internal/governance/domain"
	"loggov/internal/governance/engine"
	"loggov/internal/governance/profile"
	"loggov/internal/governance/report"
	"loggov/internal/governance/sink"
	"loggov/internal/governance/topic"
	"loggov/internal/logger"
	"loggov/internal/telemetry/console"
	"loggov/internal/telemetry/loki"
	"loggov/internal/telemetry/metrics"
	"loggov/internal/telemetry/otel"
)

// drainTimeout bounds the wait for in-flight violation hooks and telemetry flush at exit.
const drainTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		l := logger.New("")
		l.Fatal().Err(err).Msg("config")
	}
	oplog := logger.New(cfg.Env)

	ctx := context.Background()
	store, err := profile.Load(ctx, cfg.GovernanceConfigPath)
	if err != nil {
		var cerr *profile.ConfigError
		if errors.As(err, &cerr) {
			oplog.Fatal().Str("source", cerr.Source).Str("topic", cerr.Topic).Str("reason", cerr.Reason).Err(err).Msg("governance: invalid profile document")
		}
		oplog.Fatal().Err(err).Msg("governance: load profiles")
	}
	settings := cfg.Settings(store.Globals())

	providers, err := otel.NewProviders(ctx, cfg.OTLPEndpoint, cfg.ServiceName, cfg.OTLPInsecure)
	if err != nil {
		oplog.Fatal().Err(err).Msg("otel")
	}
	providers.SetGlobal()

	recorder, err := metrics.New(providers.MeterProvider)
	if err != nil {
		oplog.Fatal().Err(err).Msg("metrics")
	}

	gov, dispatcher := build(cfg, settings, store, providers, recorder, oplog, os.Stdout)
	oplog.Info().
		Bool("enabled", settings.Enabled).
		Str("fallback", settings.Profile).
		Bool("suppress", settings.SuppressOnViolation).
		Strs("topics", store.Topics()).
		Msg("governance: ready")

	if err := run(ctx, gov); err != nil {
		oplog.Error().Err(err).Msg("demo")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	if err := dispatcher.Drain(shutdownCtx); err != nil {
		oplog.Warn().Err(err).Msg("governance: violation hooks still running at exit")
	}
	if err := providers.Shutdown(shutdownCtx); err != nil {
		oplog.Warn().Err(err).Msg("otel: shutdown")
	}
}

func build(cfg *config.Config, settings domain.Settings, store *profile.Store, providers *otel.Providers, recorder *metrics.Recorder, oplog zerolog.Logger, out io.Writer) (*sink.Governed, *report.Dispatcher) {
	inner := []sink.Sink{
		console.New(out, cfg.Env, cfg.MinLevel()),
		otel.NewSink(providers.LoggerProvider),
	}
	if cfg.LokiURL != "" {
		ls, err := loki.NewSink(cfg.LokiURL)
		if err != nil {
			oplog.Fatal().Err(err).Msg("loki")
		}
		inner = append(inner, ls)
	}

	dispatcher := report.NewDispatcher(
		report.NewLogReporter(oplog),
		report.WithTimeout(cfg.HookTimeout()),
		report.WithLogger(oplog),
		report.WithMetrics(recorder),
	)
	resolver := topic.NewResolver(settings.Profile, topic.Scan(&OrderService{}, &PaymentService{})...)
	evaluator := engine.NewProfileEvaluator(profile.NewHolder(store), settings.Enabled)

	gov := sink.NewGoverned(sink.Multi(inner...), resolver, evaluator,
		sink.WithDispatcher(dispatcher),
		sink.WithSuppressOnViolation(settings.SuppressOnViolation),
		sink.WithMetrics(recorder),
		sink.WithLogger(oplog),
	)
	return gov, dispatcher
}

// run plays the order scenarios in sequence and the payment concurrently with them.
func run(ctx context.Context, gov *sink.Governed) error {
	tracer := otelapi.Tracer("loggov/demo")
	orders := NewOrderService(gov)
	payments := NewPaymentService(gov)

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		ctx, span := tracer.Start(ctx, "orders")
		defer span.End()
		orders.ProcessValid(ctx)
		orders.ProcessMissingField(ctx)
		orders.ProcessForbidden(ctx)
		return nil
	})
	eg.Go(func() error {
		ctx, span := tracer.Start(ctx, "payments")
		defer span.End()
		payments.MakePayment(ctx)
		return nil
	})
	return eg.Wait()
}
