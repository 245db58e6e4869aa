package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// Tracing fields. These are attached to the context logger and propagate
// through the call chain of a single request.
const (
	// FieldRequestID is the HTTP request ID (UUID)
	FieldRequestID = "request_id"

	// FieldDeviceID is the caller's device identifier
	FieldDeviceID = "device_id"

	// FieldMascotID is the generation record ID
	FieldMascotID = "mascot_id"

	// FieldComponent is the component/module name
	FieldComponent = "component"

	// FieldStep is the pipeline step currently executing
	FieldStep = "step"
)

// Metric fields. These are attached per log entry and are meant for
// aggregation and alerting.
const (
	// FieldDurationMs is the execution duration in milliseconds
	FieldDurationMs = "duration_ms"

	// FieldSize is the data size in bytes
	FieldSize = "size"

	// FieldStatus is the operation status
	FieldStatus = "status"
)
