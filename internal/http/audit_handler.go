package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/label-service/internal/domain/dto"
	"github.com/guttosm/label-service/internal/domain/model"
	"github.com/guttosm/label-service/internal/messages"
)

// AuditReader queries the audit journal.
type AuditReader interface {
	Find(ctx context.Context, f model.AuditFilter) ([]model.AuditEvent, error)
	Count(ctx context.Context, f model.AuditFilter) (int64, error)
}

// AuditHandler serves the audit journal.
type AuditHandler struct {
	journal AuditReader
}

// NewAuditHandler returns nil when journal is nil.
func NewAuditHandler(journal AuditReader) *AuditHandler {
	if journal == nil {
		return nil
	}
	return &AuditHandler{journal: journal}
}

// List handles GET /api/audit.
//
// @Summary      Query the audit journal
// @Description  Lists journal entries newest first. Every filter is optional.
// @Tags         Audit
// @Produce      json
// @Param        action query string false "Action" Enums(http_request, check_duplicates, generate_batch, print_batch, session_open, session_close)
// @Param        outcome query string false "Outcome" Enums(ok, failed)
// @Param        operator query string false "Operator"
// @Param        system_name query string false "System"
// @Param        batch_id query string false "Batch"
// @Param        request_id query string false "Request ID"
// @Param        since query string false "RFC 3339 lower bound"
// @Param        until query string false "RFC 3339 upper bound"
// @Param        limit query int false "Maximum entries" default(100)
// @Success      200 {object} dto.SuccessResponse{data=dto.AuditPage}
// @Failure      400 {object} dto.ErrorResponse "Invalid filter"
// @Failure      503 {object} dto.ErrorResponse "Journal unavailable"
// @Security     ApiKeyAuth
// @Router       /api/audit [get]
func (h *AuditHandler) List(c *gin.Context) {
	builder := NewResponseBuilder(c)

	var q dto.AuditQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		builder.Invalid(messages.ErrKeyInvalidRequest, err)
		return
	}
	filter := q.ToModel()
	if !filter.Since.IsZero() && !filter.Until.IsZero() && filter.Until.Before(filter.Since) {
		builder.Error(http.StatusBadRequest, messages.ErrKeyInvalidRequest, nil)
		return
	}

	ctx := c.Request.Context()
	events, err := h.journal.Find(ctx, filter)
	if err != nil {
		builder.Fail(err)
		return
	}
	total, err := h.journal.Count(ctx, filter)
	if err != nil {
		builder.Fail(err)
		return
	}
	if events == nil {
		events = []model.AuditEvent{}
	}
	builder.SuccessOK(dto.AuditPage{Events: events, Total: total})
}
