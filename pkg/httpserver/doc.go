// Package httpserver runs an http.Handler with the gateway's timeouts and a
// graceful, context-driven shutdown.
//
// Run blocks until its context is cancelled, then drains in-flight requests
// and calls the registered stop hooks, which is where telemetry exporters
// are flushed:
//
//	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
//	defer stop()
//
//	srv := httpserver.New(cfg,
//	    httpserver.WithLogger(log),
//	    httpserver.WithStopHook(shutdownTelemetry),
//	)
//	if err := srv.Run(ctx, router); err != nil {
//	    return err
//	}
package httpserver
