// Package middleware contains the HTTP middleware of the request pipeline:
// trace ID assignment, audit logging, panic recovery, CORS, per-client rate
// limiting, Prometheus metrics and the JWT write guard.
package middleware
