// Package logger builds *slog.Logger instances for the gateway.
//
// New applies functional options on top of production-safe defaults (JSON,
// INFO, stdout) and wraps the resulting handler so that attributes stored in
// a context.Context, such as the request id, are added to every record
// logged with a *Context method.
//
// Records can be fanned out to a second sink with WithFile: the primary
// output keeps its configured format while the file always receives JSON,
// which mirrors the usual "readable console, machine-readable file" setup.
//
// Attribute helpers in attr.go keep key names consistent across packages.
// Secret material (tokens, client secrets, CSRF values) has no helper on
// purpose and must never be passed to a logger.
//
// # Usage
//
//	log, closeLog, err := logger.NewFromConfig(cfg, "oauthgate",
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	if err != nil {
//	    return err
//	}
//	defer closeLog()
//
//	log.InfoContext(ctx, "user authenticated",
//	    logger.Provider("42"),
//	    logger.UserID(identity.ID),
//	)
package logger
