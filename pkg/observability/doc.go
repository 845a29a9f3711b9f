// Package observability provides structured logging and Prometheus metrics
// for the TikeZone platform.
package observability
