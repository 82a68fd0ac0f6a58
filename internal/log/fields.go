package log

// Common field names for structured logging.
const (
	FieldComponent   = "component"
	FieldOpID        = "op_id"
	FieldOperation   = "operation"
	FieldError       = "error"
	FieldUserID      = "user_id"
	FieldEmail       = "email"
	FieldCategory    = "category"
	FieldMonth       = "month"
	FieldAmountCents = "amount_cents"
	FieldTag         = "tag"
	FieldGoal        = "goal"
	FieldAchieved    = "achieved"
	FieldCount       = "count"
)

// Components defines standard component names.
const (
	ComponentApp     = "app"
	ComponentTracker = "tracker"
	ComponentReport  = "report"
	ComponentStorage = "storage"
	ComponentCLI     = "cli"
)

// Operations defines standard operation names.
const (
	OpCreate     = "create"
	OpRead       = "read"
	OpUpdate     = "update"
	OpDelete     = "delete"
	OpList       = "list"
	OpContribute = "contribute"
	OpReport     = "report"
	OpValidate   = "validate"
	OpStartup    = "startup"
	OpShutdown   = "shutdown"
)
