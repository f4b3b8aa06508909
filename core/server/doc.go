// Package server holds the HTTP server configuration.
//
// The serve command listens on Address() after Validate succeeds and protects every
// route with ApiKey. When ReportPrefix is set, each sync run triggered over HTTP
// uploads its PhaseOutcome as JSON below that prefix in the storage bucket.
package server
