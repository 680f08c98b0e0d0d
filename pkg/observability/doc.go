/*
Package observability provides tools for monitoring a running launch.

It includes Prometheus metrics and structured-logging lifecycle hooks for
process starts and exits, and opt-in OpenTelemetry tracing around plan
resolution and supervision.
*/
package observability
