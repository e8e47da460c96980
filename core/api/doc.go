// Package api exposes the certificate orchestrator over HTTP.
//
// Routes:
//
//	GET  /v1/task                          scheduler state
//	GET  /v1/domains                       registry snapshot
//	GET  /v1/certificate/{domain}          certificate PEM, base64 encoded
//	GET  /v1/certificate/{domain}/key      private key PEM, base64 encoded
//	POST /v1/certificate                   start an on-demand issuance
//	GET  /health/live, /health/ready
//	GET  /metrics
//
// The certificate routes accept ?wildcard=true to restrict the lookup to the
// wildcard file pair. Without it the wildcard pair is preferred and the exact
// pair is the fallback.
//
// Errors are rendered as JSON HTTPError values:
//
//	{"code":"conflict","message":"Certificate acquisition for this domain is already in progress."}
//
// # Usage
//
//	a, err := api.New(manager, registry, certs, scheduler,
//		api.WithLogger(log),
//		api.WithReadinessChecks(health.DirReadable(certs.Dir())),
//		api.WithMetricsHandler(metrics.Handler()),
//	)
//	srv.Run(ctx, a.Handler())
package api
