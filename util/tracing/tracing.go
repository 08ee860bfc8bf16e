package tracing

// Context carries per-request identifiers through handler and helper calls so
// log lines for one request can be correlated.
type Context struct {
	RequestID     string `json:"request_id"`
	RequestSource string `json:"request_source"`
}
