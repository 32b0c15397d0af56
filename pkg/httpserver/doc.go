// Package httpserver runs the webhook gateway's HTTP listener with graceful
// shutdown.
//
// Run blocks until the context is cancelled, a SIGINT/SIGTERM arrives, or the
// listener fails. Shutdown drains in-flight requests within the configured
// timeout so webhook deliveries already past the signature gate are not cut
// off mid-processing.
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//	    log.Error("server exited", logger.Error(err))
//	}
package httpserver
