package http

import (
	"context"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/label-service/internal/domain/dto"
	"github.com/guttosm/label-service/internal/domain/model"
	"github.com/guttosm/label-service/internal/messages"
	"github.com/guttosm/label-service/internal/middleware"
	"github.com/guttosm/label-service/internal/workflow"
)

// LabelService is the issuance surface the handlers call.
type LabelService interface {
	workflow.Backend
	History(ctx context.Context, q model.HistoryQuery) ([]model.IssuedSerial, error)
}

// DocumentResolver maps a document reference to a readable file path.
type DocumentResolver interface {
	Resolve(ref string) (string, error)
}

// Handler handles the label issuance endpoints.
type Handler struct {
	labels    LabelService
	documents DocumentResolver
}

// NewHandler creates a new Handler.
func NewHandler(labels LabelService, documents DocumentResolver) *Handler {
	return &Handler{labels: labels, documents: documents}
}

// ListSystems handles GET /api/systems.
//
// @Summary      List systems
// @Description  Returns the system identifiers serials can be issued under, in display order.
// @Tags         Labels
// @Produce      json
// @Success      200 {object} dto.SuccessResponse{data=[]string}
// @Failure      500 {object} dto.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /api/systems [get]
func (h *Handler) ListSystems(c *gin.Context) {
	builder := NewResponseBuilder(c)
	systems, err := h.labels.ListSystems(c.Request.Context())
	if err != nil {
		builder.Fail(err)
		return
	}
	builder.SuccessOK(systems)
}

// ListPrinters handles GET /api/printers.
//
// @Summary      List printers
// @Description  Returns the printers known to the print server and its default destination.
// @Tags         Labels
// @Produce      json
// @Success      200 {object} dto.SuccessResponse{data=model.PrinterList}
// @Failure      502 {object} dto.ErrorResponse "Print server unavailable"
// @Security     ApiKeyAuth
// @Router       /api/printers [get]
func (h *Handler) ListPrinters(c *gin.Context) {
	builder := NewResponseBuilder(c)
	printers, err := h.labels.ListPrinters(c.Request.Context())
	if err != nil {
		builder.Fail(err)
		return
	}
	builder.SuccessOK(printers)
}

// CheckDuplicates handles POST /api/check-duplicates.
//
// @Summary      Check a batch for issued serials
// @Description  Plans the batch and reports which of its serials are already in the issued-serial history for the system and period.
// @Tags         Labels
// @Accept       json
// @Produce      json
// @Param        request body dto.BatchRequest true "Batch to check"
// @Success      200 {object} dto.SuccessResponse{data=dto.DuplicateCheckResponse}
// @Failure      400 {object} dto.ErrorResponse "Invalid request or serial"
// @Failure      503 {object} dto.ErrorResponse "Serial history unavailable"
// @Security     ApiKeyAuth
// @Router       /api/check-duplicates [post]
func (h *Handler) CheckDuplicates(c *gin.Context) {
	builder := NewResponseBuilder(c)

	body, err := BuildRequest[dto.BatchRequest](c)
	if err != nil {
		builder.Invalid(messages.ErrKeyInvalidRequestBody, err)
		return
	}
	req := body.ToModel()

	event := model.AuditEvent{Action: model.AuditCheckDuplicates, Batch: model.ScopeOf(req)}
	report, err := h.labels.CheckDuplicates(c.Request.Context(), req)
	if err != nil {
		event.Fail(err)
		middleware.RecordAudit(c, event)
		builder.Fail(err)
		return
	}
	event.Duplicates = report.Duplicates
	middleware.RecordAudit(c, event)

	duplicates := report.Duplicates
	if duplicates == nil {
		duplicates = []string{}
	}
	builder.SuccessOK(dto.DuplicateCheckResponse{
		HasDuplicates: report.HasDuplicates(),
		Duplicates:    duplicates,
	})
}

// GenerateBatch handles POST /api/generate-batch.
//
// @Summary      Generate a label batch
// @Description  Re-checks duplicates, renders one PDF page per label and records every serial of the batch as issued. Supports idempotency via Idempotency-Key header.
// @Tags         Labels
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Idempotency key for request deduplication"
// @Param        Authorization header string false "Bearer operator token"
// @Param        request body dto.GenerateBatchRequest true "Batch and optional layout"
// @Success      201 {object} dto.SuccessResponse{data=model.BatchDocument}
// @Failure      400 {object} dto.ErrorResponse "Invalid request or serial"
// @Failure      409 {object} dto.ErrorResponse "Duplicate serials"
// @Failure      503 {object} dto.ErrorResponse "Serial history unavailable"
// @Security     ApiKeyAuth
// @Router       /api/generate-batch [post]
func (h *Handler) GenerateBatch(c *gin.Context) {
	builder := NewResponseBuilder(c)

	body, err := BuildRequest[dto.GenerateBatchRequest](c)
	if err != nil {
		builder.Invalid(messages.ErrKeyInvalidRequestBody, err)
		return
	}
	req := body.ToModel()

	event := model.AuditEvent{Action: model.AuditGenerateBatch, Batch: model.ScopeOf(req)}
	doc, err := h.labels.GenerateBatch(c.Request.Context(), req, body.Layout())
	if err != nil {
		var dup *model.DuplicateSerialsError
		if errors.As(err, &dup) {
			event.Duplicates = dup.Duplicates
		}
		event.Fail(err)
		middleware.RecordAudit(c, event)
		builder.Fail(err)
		return
	}
	event.Batch = event.Batch.WithDocument(doc)
	middleware.RecordAudit(c, event)
	builder.SuccessCreated(doc)
}

// GetLabel handles GET /api/label/:filename.
//
// @Summary      Download a rendered batch
// @Description  Streams a rendered label document.
// @Tags         Labels
// @Produce      application/pdf
// @Param        filename path string true "Document file name"
// @Success      200 {file} file
// @Failure      404 {object} dto.ErrorResponse "Unknown document"
// @Security     ApiKeyAuth
// @Router       /api/label/{filename} [get]
func (h *Handler) GetLabel(c *gin.Context) {
	path, err := h.documents.Resolve(c.Param("filename"))
	if err != nil {
		NewResponseBuilder(c).Fail(err)
		return
	}
	c.Header("Content-Type", "application/pdf")
	c.File(path)
}

// PrintLabel handles POST /api/print-label.
//
// @Summary      Print a rendered batch
// @Description  Sends a rendered document to a printer. An empty printer name selects the print server's default.
// @Tags         Labels
// @Accept       json
// @Produce      json
// @Param        request body dto.PrintRequest true "Document and printer"
// @Success      200 {object} dto.SuccessResponse{data=dto.MessageResponse}
// @Failure      400 {object} dto.ErrorResponse "Invalid request body"
// @Failure      404 {object} dto.ErrorResponse "Unknown document"
// @Failure      502 {object} dto.ErrorResponse "Printer rejected the job"
// @Security     ApiKeyAuth
// @Router       /api/print-label [post]
func (h *Handler) PrintLabel(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := BuildRequest[dto.PrintRequest](c)
	if err != nil {
		builder.Invalid(messages.ErrKeyInvalidRequestBody, err)
		return
	}
	event := model.AuditEvent{
		Action:  model.AuditPrintBatch,
		Printer: req.PrinterName,
		Batch:   &model.BatchScope{DocumentURL: req.PDFURL},
	}
	if err := h.labels.PrintBatch(c.Request.Context(), req.PDFURL, req.PrinterName); err != nil {
		event.Fail(err)
		middleware.RecordAudit(c, event)
		builder.Fail(err)
		return
	}
	middleware.RecordAudit(c, event)
	builder.SuccessOK(dto.MessageResponse{Message: messages.Get(messages.StatusPrinted)})
}

// History handles GET /api/history.
//
// @Summary      List issued serials
// @Description  Lists issued serials newest first, optionally filtered by system and period.
// @Tags         Labels
// @Produce      json
// @Param        system_name query string false "System"
// @Param        year query string false "Year"
// @Param        month query string false "Month"
// @Param        limit query int false "Maximum entries" default(100)
// @Success      200 {object} dto.SuccessResponse{data=[]model.IssuedSerial}
// @Failure      400 {object} dto.ErrorResponse "Invalid limit"
// @Failure      503 {object} dto.ErrorResponse "Serial history unavailable"
// @Security     ApiKeyAuth
// @Router       /api/history [get]
func (h *Handler) History(c *gin.Context) {
	builder := NewResponseBuilder(c)

	q := model.HistoryQuery{
		SystemID: c.Query("system_name"),
		Year:     c.Query("year"),
		Month:    c.Query("month"),
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			builder.Invalid(messages.ErrKeyInvalidRequest, err)
			return
		}
		q.Limit = limit
	}

	entries, err := h.labels.History(c.Request.Context(), q)
	if err != nil {
		builder.Fail(err)
		return
	}
	if entries == nil {
		entries = []model.IssuedSerial{}
	}
	builder.SuccessOK(entries)
}
