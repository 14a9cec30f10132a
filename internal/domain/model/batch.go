// Package model defines the core domain entities for the label service.
package model

import (
	"fmt"
	"strconv"
)

// Request field names accepted by BatchRequest.WithField.
const (
	FieldSystem      = "system"
	FieldYear        = "year"
	FieldMonth       = "month"
	FieldStartSerial = "start_serial"
	FieldQuantity    = "quantity"
)

// BatchRequest describes one batch of sequential labels to issue.
//
// @Description Batch of labels identified by system, period, starting serial and quantity
type BatchRequest struct {
	// SystemID is the namespace the serials are issued under.
	SystemID string `json:"system_name" example:"LINE1"`
	// Year is the 4-digit period year.
	Year string `json:"year" example:"2024"`
	// Month is the zero-padded period month (01-12).
	Month string `json:"month" example:"03"`
	// StartSerial is the first serial; its literal width is preserved.
	StartSerial string `json:"start_serial" example:"0100"`
	// Quantity is the number of labels in the batch.
	Quantity int `json:"quantity" example:"5"`
}

// WithField returns a copy of the request with one field replaced.
// Quantity values must parse as integers.
func (r BatchRequest) WithField(field, value string) (BatchRequest, error) {
	switch field {
	case FieldSystem:
		r.SystemID = value
	case FieldYear:
		r.Year = value
	case FieldMonth:
		r.Month = value
	case FieldStartSerial:
		r.StartSerial = value
	case FieldQuantity:
		q, err := strconv.Atoi(value)
		if err != nil {
			return r, &ValidationError{Field: FieldQuantity, Message: "must be an integer"}
		}
		r.Quantity = q
	default:
		return r, &ValidationError{Field: field, Message: "unknown field"}
	}
	return r, nil
}

// ValidateRequired checks the fields that must be present before any
// collaborator is contacted.
func (r BatchRequest) ValidateRequired() error {
	if r.SystemID == "" {
		return &ValidationError{Field: FieldSystem, Message: "is required"}
	}
	if r.StartSerial == "" {
		return &ValidationError{Field: FieldStartSerial, Message: "is required"}
	}
	return nil
}

// Validate performs the full local validation of a request: required fields
// plus period format. Serial format and quantity bounds are checked by the planner.
func (r BatchRequest) Validate() error {
	if err := r.ValidateRequired(); err != nil {
		return err
	}
	if len(r.Year) != 4 || !isDigits(r.Year) {
		return &ValidationError{Field: FieldYear, Message: "must be a 4-digit year"}
	}
	if len(r.Month) != 2 || !isDigits(r.Month) {
		return &ValidationError{Field: FieldMonth, Message: "must be a zero-padded month (01-12)"}
	}
	if m, _ := strconv.Atoi(r.Month); m < 1 || m > 12 {
		return &ValidationError{Field: FieldMonth, Message: "must be between 01 and 12"}
	}
	return nil
}

// Period returns the year and month concatenated, e.g. "202403".
func (r BatchRequest) Period() string {
	return r.Year + r.Month
}

// String implements fmt.Stringer for logging.
func (r BatchRequest) String() string {
	return fmt.Sprintf("%s/%s-%s start=%s qty=%d", r.SystemID, r.Year, r.Month, r.StartSerial, r.Quantity)
}

// SerialIdentifier is one label's identity: system, period and serial suffix.
type SerialIdentifier struct {
	SystemID string `json:"system_name"`
	Year     string `json:"year"`
	Month    string `json:"month"`
	Serial   string `json:"serial"`
}

// LabelContent is the text printed on the label and encoded in its QR code.
func (s SerialIdentifier) LabelContent() string {
	return s.Year + s.Month + s.Serial
}

// DuplicateReport is the outcome of a duplicate lookup.
type DuplicateReport struct {
	// Duplicates lists the serial suffixes already present in the history.
	Duplicates []string `json:"duplicates"`
}

// HasDuplicates reports whether any serial collided.
func (d DuplicateReport) HasDuplicates() bool {
	return len(d.Duplicates) > 0
}

// PrinterList is the set of printers visible to the print server.
type PrinterList struct {
	Printers []string `json:"printers"`
	Default  string   `json:"default"`
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// IsDigits reports whether s is a non-empty run of ASCII digits.
func IsDigits(s string) bool {
	return isDigits(s)
}
