// Package observability provides the event log and usage metrics for
// pomotask. Events are persisted as JSON Lines and metrics are derived from
// the log on demand.
package observability
