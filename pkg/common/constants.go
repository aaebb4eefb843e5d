package common

const (
	TraceIDHeader = "X-Trace-ID"

	// Fiber locals keys.
	TraceIDLocal   = "trace_id"
	RouteLocal     = "route"
	StartTimeLocal = "start_time"
)
