package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserAgent  = "user_agent"
	FieldError      = "error"
	FieldOperation  = "operation"

	FieldOwnerID   = "owner_id"
	FieldRecordID  = "record_id"
	FieldSource    = "source"
	FieldCategory  = "category"
	FieldAmount    = "amount"
	FieldCurrency  = "currency"
	FieldFrequency = "frequency"
	FieldYear      = "year"
	FieldMonth     = "month"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentAuth    = "auth"
	ComponentStorage = "storage"
	ComponentStats   = "stats"
	ComponentEvents  = "events"
	ComponentExport  = "export"
	ComponentWorker  = "worker"
)

// Operations defines standard operation names
const (
	OpCreate  = "create"
	OpRead    = "read"
	OpUpdate  = "update"
	OpDelete  = "delete"
	OpList    = "list"
	OpLogin   = "login"
	OpSignup  = "signup"
	OpExport  = "export"
	OpPublish = "publish"
)
