// Package dto defines Data Transfer Objects for HTTP request and response handling.
//
// DTOs are used to decouple the HTTP layer from the domain model,
// providing validation and serialization for API communication.
package dto

import (
	"time"

	"github.com/guttosm/label-service/internal/domain/model"
	"github.com/guttosm/label-service/internal/workflow"
)

// BatchRequest represents the JSON body shared by the duplicate-check and
// generation endpoints. Quantity defaults to 1 when omitted.
//
// @Description Batch of sequential labels
// @Example {"system_name": "System A", "year": "2024", "month": "03", "start_serial": "0100", "quantity": 5}
type BatchRequest struct {
	SystemName  string `json:"system_name" example:"System A"`
	Year        string `json:"year" example:"2024"`
	Month       string `json:"month" example:"03"`
	StartSerial string `json:"start_serial" example:"0100"`
	Quantity    int    `json:"quantity" example:"5"`
} // @name BatchRequest

// ToModel converts the body into a domain request.
func (r BatchRequest) ToModel() model.BatchRequest {
	quantity := r.Quantity
	if quantity == 0 {
		quantity = 1
	}
	return model.BatchRequest{
		SystemID:    r.SystemName,
		Year:        r.Year,
		Month:       r.Month,
		StartSerial: r.StartSerial,
		Quantity:    quantity,
	}
}

// FromModel builds the wire body for a domain request.
func FromModel(req model.BatchRequest) BatchRequest {
	return BatchRequest{
		SystemName:  req.SystemID,
		Year:        req.Year,
		Month:       req.Month,
		StartSerial: req.StartSerial,
		Quantity:    req.Quantity,
	}
}

// GenerateBatchRequest is BatchRequest plus an optional layout.
// Missing layout fields fall back to the defaults.
//
// @Description Request to render and record a batch
type GenerateBatchRequest struct {
	BatchRequest
	LabelSettings *model.LayoutSettings `json:"label_settings,omitempty"`
} // @name GenerateBatchRequest

// Layout returns the requested layout with defaults applied and bounds enforced.
func (r GenerateBatchRequest) Layout() model.LayoutSettings {
	if r.LabelSettings == nil {
		return model.DefaultLayoutSettings()
	}
	return r.LabelSettings.Clamp()
}

// DuplicateCheckResponse reports serials of a batch already issued.
//
// @Description Duplicate check outcome
type DuplicateCheckResponse struct {
	HasDuplicates bool     `json:"has_duplicates" example:"true"`
	Duplicates    []string `json:"duplicates" example:"0101,0102"`
} // @name DuplicateCheckResponse

// PrintRequest represents the JSON body for the print endpoint.
// An empty PrinterName selects the server's default printer.
//
// @Description Request to print a rendered batch
type PrintRequest struct {
	PDFURL      string `json:"pdf_url" binding:"required" example:"/api/label/batch_5b8f0b7e.pdf"`
	PrinterName string `json:"printer_name,omitempty" example:"Zebra_ZD421"`
} // @name PrintRequest

// MessageResponse carries a human-readable confirmation.
type MessageResponse struct {
	Message string `json:"message" example:"Batch sent to printer successfully"`
} // @name MessageResponse

// CreateSessionRequest opens a server-hosted workflow session. All fields are optional.
//
// @Description Request to open a workflow session
type CreateSessionRequest struct {
	Request *BatchRequest         `json:"request,omitempty"`
	Layout  *model.LayoutSettings `json:"label_settings,omitempty"`
} // @name CreateSessionRequest

// UpdateFieldRequest edits one field of a session's batch request.
//
// @Description Single-field request edit
// @Example {"field": "start_serial", "value": "0200"}
type UpdateFieldRequest struct {
	Field string `json:"field" binding:"required" example:"start_serial"`
	Value string `json:"value" example:"0200"`
} // @name UpdateFieldRequest

// SelectPrinterRequest chooses a session's target printer.
type SelectPrinterRequest struct {
	PrinterName string `json:"printer_name" example:"Zebra_ZD421"`
} // @name SelectPrinterRequest

// SessionResponse is a workflow session with its current view.
//
// @Description Workflow session state
type SessionResponse struct {
	ID        string        `json:"id" example:"7d6f7c1c-3f0e-4f43-9d55-0a4f6bb4f0a1"`
	Operator  string        `json:"operator" example:"alice"`
	CreatedAt time.Time     `json:"created_at"`
	View      workflow.View `json:"view"`
} // @name SessionResponse

// NewSessionResponse projects a session for the API.
func NewSessionResponse(s *workflow.Session) SessionResponse {
	return SessionResponse{
		ID:        s.ID,
		Operator:  s.Operator,
		CreatedAt: s.CreatedAt,
		View:      s.Snapshot(),
	}
}
