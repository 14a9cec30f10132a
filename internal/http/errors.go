package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/guttosm/label-service/internal/circuitbreaker"
	"github.com/guttosm/label-service/internal/domain/model"
	"github.com/guttosm/label-service/internal/messages"
	"github.com/guttosm/label-service/internal/printer"
	"github.com/guttosm/label-service/internal/repository"
	"github.com/guttosm/label-service/internal/workflow"
)

// statusForError is the single mapping from service and workflow errors to
// HTTP status codes and fallback message keys.
func statusForError(err error) (int, string) {
	var (
		validation *model.ValidationError
		duplicates *model.DuplicateSerialsError
	)
	switch {
	case errors.As(err, &validation),
		errors.Is(err, model.ErrInvalidSerialFormat),
		errors.Is(err, model.ErrQuantityOutOfRange):
		return http.StatusBadRequest, messages.ErrKeyInvalidRequest
	case errors.As(err, &duplicates), errors.Is(err, model.ErrSerialAlreadyIssued):
		return http.StatusConflict, messages.ErrKeyConflict
	case errors.Is(err, workflow.ErrBusy):
		return http.StatusConflict, messages.ErrKeySessionBusy
	case errors.Is(err, workflow.ErrDuplicatesPending):
		return http.StatusConflict, messages.ErrKeyDuplicatesPending
	case errors.Is(err, workflow.ErrStaleResult):
		return http.StatusConflict, messages.StatusStaleResult
	case errors.Is(err, model.ErrDocumentNotFound):
		return http.StatusNotFound, messages.ErrKeyDocumentNotFound
	case errors.Is(err, workflow.ErrSessionNotFound):
		return http.StatusNotFound, messages.ErrKeySessionNotFound
	case errors.Is(err, repository.ErrStorageUnavailable), errors.Is(err, circuitbreaker.ErrCircuitOpen):
		return http.StatusServiceUnavailable, messages.ErrKeyStorageUnavailable
	case errors.Is(err, printer.ErrJobFailed), errors.Is(err, printer.ErrUnavailable):
		return http.StatusBadGateway, messages.ErrKeyPrinterFailed
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, messages.ErrKeyTimeout
	default:
		return http.StatusInternalServerError, messages.ErrKeyInternalError
	}
}

// errorMessage returns the detail worth showing verbatim for err, or "".
func errorMessage(err error) string {
	return model.CollaboratorMessage(err)
}
