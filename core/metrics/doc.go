// Package metrics provides the Prometheus collectors for check runs and the HTTP API.
//
// Collectors live on a private registry rather than the global default. The serve
// command exposes it on /metrics; the check command can push it to a Pushgateway.
package metrics
