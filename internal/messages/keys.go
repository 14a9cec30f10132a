package messages

// HTTP error message keys.
const (
	// ErrKeyInvalidRequest indicates an invalid request.
	ErrKeyInvalidRequest = "error.invalid_request"
	// ErrKeyInvalidRequestBody indicates a body that could not be decoded.
	ErrKeyInvalidRequestBody = "error.invalid_request_body"
	// ErrKeyInternalError indicates an internal server error.
	ErrKeyInternalError = "error.internal_error"
	// ErrKeyUnauthorized indicates missing or invalid authentication.
	ErrKeyUnauthorized = "error.unauthorized"
	// ErrKeyAPIKeyRequired indicates that an API key is required.
	ErrKeyAPIKeyRequired = "error.api_key_required"
	// ErrKeyInvalidAPIKey indicates an invalid API key.
	ErrKeyInvalidAPIKey = "error.invalid_api_key"
	// ErrKeyNotFound indicates a resource was not found.
	ErrKeyNotFound = "error.not_found"
	// ErrKeyRateLimitExceeded indicates rate limit exceeded.
	ErrKeyRateLimitExceeded = "error.rate_limit_exceeded"
	// ErrKeyConflict indicates a conflict with current state.
	ErrKeyConflict = "error.conflict"
	// ErrKeyTimeout indicates a request that exceeded its deadline.
	ErrKeyTimeout = "error.timeout"
	// ErrKeyInvalidToken indicates an invalid or expired operator token.
	ErrKeyInvalidToken = "error.invalid_token"
	// ErrKeyDuplicateSerials indicates a batch overlapping the issued history.
	ErrKeyDuplicateSerials = "error.duplicate_serials"
	// ErrKeyDocumentNotFound indicates an unknown rendered document.
	ErrKeyDocumentNotFound = "error.document_not_found"
	// ErrKeyStorageUnavailable indicates the history store cannot be reached.
	ErrKeyStorageUnavailable = "error.storage_unavailable"
	// ErrKeyPrinterFailed indicates the print server refused or failed a job.
	ErrKeyPrinterFailed = "error.printer_failed"
	// ErrKeySessionNotFound indicates an unknown or evicted workflow session.
	ErrKeySessionNotFound = "error.session_not_found"
	// ErrKeySessionBusy indicates a workflow session with a call outstanding.
	ErrKeySessionBusy = "error.session_busy"
	// ErrKeyDuplicatesPending indicates generation refused after a dirty check.
	ErrKeyDuplicatesPending = "error.duplicates_pending"
	// ErrKeyIdempotencyReused indicates an Idempotency-Key replayed with a different body.
	ErrKeyIdempotencyReused = "error.idempotency_key_reused"
	// ErrKeyIdempotencyInFlight indicates an Idempotency-Key whose first request has not finished.
	ErrKeyIdempotencyInFlight = "error.idempotency_in_flight"
)

// Workflow status message keys.
const (
	StatusCheckingDuplicates = "status.checking_duplicates"
	StatusNoDuplicates       = "status.no_duplicates"
	StatusDuplicatesFound    = "status.duplicates_found"
	StatusCheckFailed        = "status.check_failed"
	StatusGenerating         = "status.generating"
	StatusGenerated          = "status.generated"
	StatusGenerateFailed     = "status.generate_failed"
	StatusPrinting           = "status.printing"
	StatusPrinted            = "status.printed"
	StatusPrintFailed        = "status.print_failed"
	StatusMissingFields      = "status.missing_fields"
	StatusBackendUnreachable = "status.backend_unreachable"
	StatusSystemsFailed      = "status.systems_failed"
	StatusStaleResult        = "status.stale_result"
)
