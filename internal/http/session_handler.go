package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/label-service/internal/domain/dto"
	"github.com/guttosm/label-service/internal/domain/model"
	"github.com/guttosm/label-service/internal/messages"
	"github.com/guttosm/label-service/internal/middleware"
	"github.com/guttosm/label-service/internal/workflow"
)

// SessionHandler exposes server-hosted workflow sessions.
type SessionHandler struct {
	registry *workflow.Registry
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(registry *workflow.Registry) *SessionHandler {
	return &SessionHandler{registry: registry}
}

// Create handles POST /api/sessions.
//
// @Summary      Open a workflow session
// @Description  Starts a workflow session for the calling operator. Printers and systems are loaded immediately; the period defaults to the current month.
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateSessionRequest false "Initial request and layout"
// @Success      201 {object} dto.SuccessResponse{data=dto.SessionResponse}
// @Failure      400 {object} dto.ErrorResponse "Invalid request body"
// @Security     ApiKeyAuth
// @Router       /api/sessions [post]
func (h *SessionHandler) Create(c *gin.Context) {
	builder := NewResponseBuilder(c)

	// An empty body opens a session with defaults.
	var body dto.CreateSessionRequest
	if err := NewRequestBuilder(c).Bind(&body); err != nil && !errors.Is(err, io.EOF) {
		builder.Invalid(messages.ErrKeyInvalidRequestBody, err)
		return
	}

	var opts []workflow.Option
	if body.Request != nil {
		opts = append(opts, workflow.WithRequest(body.Request.ToModel()))
	}
	if body.Layout != nil {
		opts = append(opts, workflow.WithLayout(*body.Layout))
	}

	session := h.registry.Create(c.Request.Context(), middleware.GetOperator(c), opts...)
	middleware.RecordAudit(c, model.AuditEvent{Action: model.AuditSessionOpen, SessionID: session.ID})
	builder.SuccessCreated(dto.NewSessionResponse(session))
}

// Get handles GET /api/sessions/:id.
//
// @Summary      Get a workflow session
// @Tags         Sessions
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} dto.SuccessResponse{data=dto.SessionResponse}
// @Failure      404 {object} dto.ErrorResponse "Unknown session"
// @Security     ApiKeyAuth
// @Router       /api/sessions/{id} [get]
func (h *SessionHandler) Get(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	NewResponseBuilder(c).SuccessOK(dto.NewSessionResponse(session))
}

// Delete handles DELETE /api/sessions/:id.
//
// @Summary      Close a workflow session
// @Tags         Sessions
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      204
// @Failure      404 {object} dto.ErrorResponse "Unknown session"
// @Security     ApiKeyAuth
// @Router       /api/sessions/{id} [delete]
func (h *SessionHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.registry.Delete(id); err != nil {
		NewResponseBuilder(c).Fail(err)
		return
	}
	middleware.RecordAudit(c, model.AuditEvent{Action: model.AuditSessionClose, SessionID: id})
	c.Status(http.StatusNoContent)
}

// UpdateRequest handles PATCH /api/sessions/:id/request.
//
// @Summary      Edit the batch request
// @Description  Replaces one request field. Any edit discards the held duplicate check and generated batch.
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID"
// @Param        request body dto.UpdateFieldRequest true "Field edit"
// @Success      200 {object} dto.SuccessResponse{data=dto.SessionResponse}
// @Failure      400 {object} dto.ErrorResponse "Unknown field or invalid value"
// @Failure      404 {object} dto.ErrorResponse "Unknown session"
// @Security     ApiKeyAuth
// @Router       /api/sessions/{id}/request [patch]
func (h *SessionHandler) UpdateRequest(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	body, err := BuildRequest[dto.UpdateFieldRequest](c)
	if err != nil {
		NewResponseBuilder(c).Invalid(messages.ErrKeyInvalidRequestBody, err)
		return
	}
	h.respond(c, session, session.UpdateRequestField(body.Field, body.Value))
}

// SelectPrinter handles PUT /api/sessions/:id/printer.
//
// @Summary      Select the target printer
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID"
// @Param        request body dto.SelectPrinterRequest true "Printer"
// @Success      200 {object} dto.SuccessResponse{data=dto.SessionResponse}
// @Failure      400 {object} dto.ErrorResponse "Unknown printer"
// @Failure      404 {object} dto.ErrorResponse "Unknown session"
// @Security     ApiKeyAuth
// @Router       /api/sessions/{id}/printer [put]
func (h *SessionHandler) SelectPrinter(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	body, err := BuildRequest[dto.SelectPrinterRequest](c)
	if err != nil {
		NewResponseBuilder(c).Invalid(messages.ErrKeyInvalidRequestBody, err)
		return
	}
	h.respond(c, session, session.SelectPrinter(body.PrinterName))
}

// SetLayout handles PUT /api/sessions/:id/layout.
//
// @Summary      Set the label layout
// @Description  Stores the layout for subsequent generations, clamped to bounds.
// @Tags         Sessions
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID"
// @Param        request body model.LayoutSettings true "Layout"
// @Success      200 {object} dto.SuccessResponse{data=dto.SessionResponse}
// @Failure      404 {object} dto.ErrorResponse "Unknown session"
// @Security     ApiKeyAuth
// @Router       /api/sessions/{id}/layout [put]
func (h *SessionHandler) SetLayout(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	body, err := BuildRequest[model.LayoutSettings](c)
	if err != nil {
		NewResponseBuilder(c).Invalid(messages.ErrKeyInvalidRequestBody, err)
		return
	}
	session.SetLayout(*body)
	h.respond(c, session, nil)
}

// CheckDuplicates handles POST /api/sessions/:id/check-duplicates.
//
// @Summary      Run the session's duplicate check
// @Tags         Sessions
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} dto.SuccessResponse{data=dto.SessionResponse}
// @Failure      400 {object} dto.ErrorResponse "Missing fields"
// @Failure      409 {object} dto.ErrorResponse "Session busy or request changed"
// @Security     ApiKeyAuth
// @Router       /api/sessions/{id}/check-duplicates [post]
func (h *SessionHandler) CheckDuplicates(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	err := session.CheckDuplicates(c.Request.Context())
	view := session.Snapshot()
	event := model.AuditEvent{Action: model.AuditCheckDuplicates, SessionID: session.ID, Batch: model.ScopeOf(view.Request)}
	if view.DuplicateCheck != nil {
		event.Duplicates = view.DuplicateCheck.Duplicates
	}
	if err != nil {
		event.Fail(err)
	}
	middleware.RecordAudit(c, event)
	h.respond(c, session, err)
}

// Generate handles POST /api/sessions/:id/generate.
//
// @Summary      Generate the session's batch
// @Tags         Sessions
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} dto.SuccessResponse{data=dto.SessionResponse}
// @Failure      400 {object} dto.ErrorResponse "Missing fields"
// @Failure      409 {object} dto.ErrorResponse "Session busy or duplicates pending"
// @Security     ApiKeyAuth
// @Router       /api/sessions/{id}/generate [post]
func (h *SessionHandler) Generate(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	err := session.GenerateBatch(c.Request.Context())
	view := session.Snapshot()
	event := model.AuditEvent{Action: model.AuditGenerateBatch, SessionID: session.ID, Batch: model.ScopeOf(view.Request)}
	switch {
	case err != nil:
		event.Fail(err)
	case view.Artifact != nil:
		event.Batch = model.ScopeOf(view.Artifact.SourceRequest).WithDocument(view.Artifact.Document)
	}
	middleware.RecordAudit(c, event)
	h.respond(c, session, err)
}

// Print handles POST /api/sessions/:id/print.
//
// @Summary      Print the session's batch
// @Description  Prints the generated batch on the selected printer. Without a generated batch nothing happens.
// @Tags         Sessions
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} dto.SuccessResponse{data=dto.SessionResponse}
// @Failure      409 {object} dto.ErrorResponse "Session busy"
// @Failure      502 {object} dto.ErrorResponse "Printer rejected the job"
// @Security     ApiKeyAuth
// @Router       /api/sessions/{id}/print [post]
func (h *SessionHandler) Print(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	err := session.PrintBatch(c.Request.Context())
	view := session.Snapshot()
	if view.Artifact != nil {
		event := model.AuditEvent{
			Action:    model.AuditPrintBatch,
			SessionID: session.ID,
			Printer:   view.SelectedPrinter,
			Batch:     model.ScopeOf(view.Artifact.SourceRequest).WithDocument(view.Artifact.Document),
		}
		if err != nil {
			event.Fail(err)
		}
		middleware.RecordAudit(c, event)
	}
	h.respond(c, session, err)
}

func (h *SessionHandler) session(c *gin.Context) (*workflow.Session, bool) {
	session, err := h.registry.Get(c.Param("id"))
	if err != nil {
		NewResponseBuilder(c).Fail(err)
		return nil, false
	}
	return session, true
}

// respond writes the session view, or the error when the action failed.
// The view keeps the failure text in its status either way.
func (h *SessionHandler) respond(c *gin.Context, session *workflow.Session, err error) {
	builder := NewResponseBuilder(c)
	if err != nil {
		builder.Fail(err)
		return
	}
	builder.SuccessOK(dto.NewSessionResponse(session))
}
