package model

import "time"

// AnonymousOperator is recorded when a batch is issued without a verified operator.
const AnonymousOperator = "anonymous"

// IssuedSerial is one entry of the issued-serial history.
type IssuedSerial struct {
	SystemID string    `bson:"system_name" json:"system_name"`
	Year     string    `bson:"year" json:"year"`
	Month    string    `bson:"month" json:"month"`
	Serial   string    `bson:"serial_number" json:"serial_number"`
	BatchID  string    `bson:"batch_id" json:"batch_id"`
	IssuedBy string    `bson:"issued_by,omitempty" json:"issued_by,omitempty"`
	IssuedAt time.Time `bson:"printed_at" json:"printed_at"`
}

// HistoryQuery filters the issued-serial history.
type HistoryQuery struct {
	SystemID string
	Year     string
	Month    string
	Limit    int
}

// BatchDocument is a rendered multi-label document.
//
// @Description Rendered label batch
type BatchDocument struct {
	// ID is the batch identifier, also used as the issued-serial batch_id.
	ID string `json:"document_id" example:"5b8f0b7e-9b5c-4a0a-8f3e-2f6c1d3c2a10"`
	// URL is the opaque document reference used for preview and printing.
	URL string `json:"pdf_url" example:"/api/label/batch_5b8f0b7e.pdf"`
	// FileName is the document's file name inside the output directory.
	FileName    string    `json:"-"`
	Quantity    int       `json:"quantity" example:"5"`
	FirstSerial string    `json:"first_serial" example:"0100"`
	LastSerial  string    `json:"last_serial" example:"0104"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewIssuedSerials builds the history entries for a rendered batch.
func NewIssuedSerials(ids []SerialIdentifier, batchID, issuedBy string, at time.Time) []IssuedSerial {
	if issuedBy == "" {
		issuedBy = AnonymousOperator
	}
	out := make([]IssuedSerial, len(ids))
	for i, id := range ids {
		out[i] = IssuedSerial{
			SystemID: id.SystemID,
			Year:     id.Year,
			Month:    id.Month,
			Serial:   id.Serial,
			BatchID:  batchID,
			IssuedBy: issuedBy,
			IssuedAt: at,
		}
	}
	return out
}
