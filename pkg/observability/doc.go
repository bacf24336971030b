/*
Package observability turns rendering lifecycle events into Prometheus metrics and
structured log records.

Both are delivered as domain.LifecycleHooks, so they can be combined with Chain and
passed to the UI with runtime.WithLifecycleHooks.
*/
package observability
