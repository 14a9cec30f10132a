// Package messages holds the user-facing text of the label service.
package messages

import "fmt"

var catalog = map[string]string{
	ErrKeyInvalidRequest:      "Invalid request",
	ErrKeyInvalidRequestBody:  "Invalid request body",
	ErrKeyInternalError:       "An unexpected error occurred",
	ErrKeyUnauthorized:        "Unauthorized",
	ErrKeyAPIKeyRequired:      "API key is required",
	ErrKeyInvalidAPIKey:       "Invalid API key",
	ErrKeyNotFound:            "Not found",
	ErrKeyRateLimitExceeded:   "Too many requests, please try again later",
	ErrKeyConflict:            "Conflict",
	ErrKeyTimeout:             "Request timeout",
	ErrKeyInvalidToken:        "Invalid or expired token",
	ErrKeyDuplicateSerials:    "Duplicate serial numbers detected: %s",
	ErrKeyDocumentNotFound:    "Label document not found",
	ErrKeyStorageUnavailable:  "Serial history is temporarily unavailable",
	ErrKeyPrinterFailed:       "Printer rejected the job",
	ErrKeySessionNotFound:     "Session not found",
	ErrKeySessionBusy:         "Another operation is in progress",
	ErrKeyDuplicatesPending:   "Resolve duplicate serials before generating",
	ErrKeyIdempotencyReused:   "Idempotency-Key was already used for a different request",
	ErrKeyIdempotencyInFlight: "A request with this Idempotency-Key is still being processed",

	StatusCheckingDuplicates: "Checking for duplicate serial numbers...",
	StatusNoDuplicates:       "No duplicates found. Ready to generate.",
	StatusDuplicatesFound:    "Found %d duplicate(s): %s",
	StatusCheckFailed:        "Duplicate check failed",
	StatusGenerating:         "Generating label batch...",
	StatusGenerated:          "Batch generated successfully",
	StatusGenerateFailed:     "Generation failed",
	StatusPrinting:           "Sending to printer...",
	StatusPrinted:            "Batch sent to printer successfully",
	StatusPrintFailed:        "Printing failed",
	StatusMissingFields:      "Please select system and enter serial",
	StatusBackendUnreachable: "Backend unreachable. Check server.",
	StatusSystemsFailed:      "Failed to fetch systems",
	StatusStaleResult:        "Request changed; previous result discarded",
}

// Get returns the text for key, or the key itself when it is unknown.
func Get(key string) string {
	if msg, ok := catalog[key]; ok {
		return msg
	}
	return key
}

// Format returns the text for key with args applied.
func Format(key string, args ...interface{}) string {
	return fmt.Sprintf(Get(key), args...)
}
