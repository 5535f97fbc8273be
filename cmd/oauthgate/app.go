package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/oauthgate/modules/gateway"
	"github.com/dmitrymomot/oauthgate/pkg/clientip"
	"github.com/dmitrymomot/oauthgate/pkg/config"
	"github.com/dmitrymomot/oauthgate/pkg/httpserver"
	"github.com/dmitrymomot/oauthgate/pkg/logger"
	"github.com/dmitrymomot/oauthgate/pkg/metrics"
	"github.com/dmitrymomot/oauthgate/pkg/oauthflow"
	"github.com/dmitrymomot/oauthgate/pkg/requestid"
	"github.com/dmitrymomot/oauthgate/pkg/telemetry"
	"github.com/dmitrymomot/oauthgate/svc/provider"
)

type appConfig struct {
	Log       logger.Config
	HTTP      httpserver.Config
	Telemetry telemetry.Config
	Gateway   gateway.Config
	Provider  provider.Config
}

// loadConfig parses every config section and reports all failures together.
func loadConfig() (appConfig, error) {
	var cfg appConfig
	return cfg, errors.Join(
		config.Load(&cfg.Log),
		config.Load(&cfg.HTTP),
		config.Load(&cfg.Telemetry),
		config.Load(&cfg.Gateway),
		config.Load(&cfg.Provider),
	)
}

// app is the assembled process: everything serve needs, built once.
type app struct {
	log      *slog.Logger
	server   *httpserver.Server
	handler  http.Handler
	closeLog func() error
}

// buildApp wires logger, telemetry, metrics, provider client, flow and
// router. Telemetry is flushed by the HTTP server stop hook; the caller
// closes the log file with app.closeLog.
func buildApp(ctx context.Context, cfg appConfig) (*app, error) {
	log, closeLog, err := logger.NewFromConfig(cfg.Log, serviceName,
		logger.WithContextExtractors(requestid.LoggerExtractor(), clientip.LoggerExtractor()),
	)
	if err != nil {
		return nil, err
	}
	logger.SetAsDefault(log)

	tp, shutdownTelemetry, err := telemetry.Setup(ctx, cfg.Telemetry, serviceName, version)
	if err != nil {
		_ = closeLog()
		return nil, err
	}

	m, err := metrics.New()
	if err != nil {
		_ = closeLog()
		return nil, err
	}

	client, err := provider.New(cfg.Provider,
		provider.WithTracerProvider(tp),
		provider.WithObserver(m),
	)
	if err != nil {
		_ = closeLog()
		return nil, err
	}

	flow := oauthflow.New(client,
		oauthflow.WithLogger(log),
		oauthflow.WithRecorder(m),
		oauthflow.WithTracerProvider(tp),
		oauthflow.WithSecureCookies(cfg.Gateway.CookieSecure),
		oauthflow.WithRedirectPaths(cfg.Gateway.SuccessRedirect, cfg.Gateway.ErrorRedirect),
	)

	if !cfg.Gateway.CookieSecure {
		log.Warn("CSRF cookies are sent without the Secure attribute")
	}
	log.Info("provider configured", slog.Any("provider", cfg.Provider))

	srv := httpserver.New(cfg.HTTP,
		httpserver.WithLogger(log.With(logger.Component("httpserver"))),
		httpserver.WithStopHook(httpserver.StopHook(shutdownTelemetry)),
	)

	return &app{
		log:    log,
		server: srv,
		handler: gateway.Router(gateway.RouterOptions{
			Config:         cfg.Gateway,
			ProviderName:   client.Name(),
			Flow:           flow,
			Logger:         log,
			Metrics:        m,
			TracerProvider: tp,
		}),
		closeLog: closeLog,
	}, nil
}
