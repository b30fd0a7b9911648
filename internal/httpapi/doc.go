// Package httpapi exposes the dispatch trigger and template tooling over
// HTTP.
//
// Routes:
//
//	GET|POST /api/cron/send-emails      run one dispatch batch
//	POST     /api/templates/preview     render blocks with sample data
//	POST     /api/test-send-template    send a draft template to one address
//	GET      /health/live, /health/ready
//	GET      /metrics
//
// When a cron secret is configured the /api routes require it as a bearer
// token.
package httpapi
