package log

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldRequestID     = "request_id"
	FieldClientIP      = "client_ip"
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldStatusCode    = "status_code"
	FieldDuration      = "duration_ms"
	FieldUserAgent     = "user_agent"
	FieldError         = "error"
	FieldOperation     = "operation"
	FieldCaller        = "caller"
	FieldDonor         = "donor"
	FieldRecipient     = "recipient"
	FieldCategory      = "category"
	FieldAmountMicros  = "amount_micros"
	FieldBalanceMicros = "balance_micros"
	FieldExpenditureID = "expenditure_id"
	FieldDisclosureRef = "disclosure_ref"
)

// Components defines standard component names
const (
	ComponentApp        = "app"
	ComponentHTTP       = "http"
	ComponentLedger     = "ledger"
	ComponentStorage    = "storage"
	ComponentAMQP       = "amqp"
	ComponentWorker     = "worker"
	ComponentDisclosure = "disclosure"
	ComponentBackend    = "backend"
)

// Operations defines standard operation names
const (
	OpDonate   = "donate"
	OpAddCat   = "add_spending_category"
	OpPropose  = "propose_expenditure"
	OpApprove  = "approve_expenditure"
	OpRead     = "read"
	OpPayout   = "payout"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
