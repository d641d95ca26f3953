// Package attrs defines telemetry attribute keys used for observability and monitoring
// across the failover transport. These constants provide standardized key names for
// metrics, traces, and logs to ensure consistent telemetry data collection.
package attrs

const (
	// AttrMethod represents the telemetry attribute key carrying the request method.
	// This attribute lets traces be filtered by operation verb when diagnosing
	// failures that only affect a subset of operations.
	AttrMethod = "request.method"
	// AttrPath represents the telemetry attribute key carrying the request path.
	// Paths are recorded verbatim; callers with high-cardinality paths should
	// aggregate on their side.
	AttrPath = "request.path"
	// AttrStatusCode represents the telemetry attribute key carrying the response
	// status code of a settled request. It is absent when the request never
	// produced a response.
	AttrStatusCode = "response.status_code"
	// AttrConnectionID represents the telemetry attribute key carrying the
	// identifier of the connection that served the final attempt. It helps
	// correlate failures with specific cluster nodes.
	AttrConnectionID = "connection.id"
	// AttrErrorKind represents the telemetry attribute key carrying the classified
	// error kind on failed requests. This metric helps monitor error rates per
	// failure class and identify pool exhaustion versus node-level faults.
	AttrErrorKind = "error.kind"
	// AttrBodyLength represents the telemetry attribute key for measuring the size
	// of a response body in bytes. This metric helps monitor payload size
	// distribution and identify oversized responses.
	AttrBodyLength = "response.body_len"
)
