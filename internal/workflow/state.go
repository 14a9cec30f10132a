package workflow

import (
	"errors"
	"fmt"
	"time"

	"github.com/guttosm/label-service/internal/domain/model"
)

var (
	// ErrBusy is returned when an action is attempted while a collaborator call is outstanding.
	ErrBusy = errors.New("workflow busy")
	// ErrDuplicatesPending is returned when generation is attempted while the
	// last duplicate check for the current request found duplicates.
	ErrDuplicatesPending = errors.New("duplicate serials pending")
	// ErrStaleResult is returned when the request changed while a call was
	// outstanding and its result was discarded.
	ErrStaleResult = errors.New("request changed, result discarded")
)

// State is the gating state of a Controller.
type State int

const (
	Configuring State = iota
	DuplicatesCheckedClean
	DuplicatesCheckedDirty
	Generating
	Generated
	Printing
	Printed
)

var stateNames = [...]string{
	Configuring:            "configuring",
	DuplicatesCheckedClean: "duplicates_checked_clean",
	DuplicatesCheckedDirty: "duplicates_checked_dirty",
	Generating:             "generating",
	Generated:              "generated",
	Printing:               "printing",
	Printed:                "printed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// MarshalText renders the state by name in JSON.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a state name.
func (s *State) UnmarshalText(b []byte) error {
	for i, name := range stateNames {
		if name == string(b) {
			*s = State(i)
			return nil
		}
	}
	return fmt.Errorf("unknown workflow state %q", string(b))
}

// StatusKind classifies the user-facing status.
type StatusKind int

const (
	StatusIdle StatusKind = iota
	StatusLoading
	StatusSuccess
	StatusError
)

var statusNames = [...]string{
	StatusIdle:    "idle",
	StatusLoading: "loading",
	StatusSuccess: "success",
	StatusError:   "error",
}

func (k StatusKind) String() string {
	if k < 0 || int(k) >= len(statusNames) {
		return fmt.Sprintf("status(%d)", int(k))
	}
	return statusNames[k]
}

// MarshalText renders the kind by name in JSON.
func (k StatusKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses a status kind name.
func (k *StatusKind) UnmarshalText(b []byte) error {
	for i, name := range statusNames {
		if name == string(b) {
			*k = StatusKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown status kind %q", string(b))
}

// Status is the single current value shown to the operator.
type Status struct {
	Kind    StatusKind `json:"kind"`
	Message string     `json:"message,omitempty"`
}

func (s Status) String() string {
	if s.Message == "" {
		return s.Kind.String()
	}
	return s.Kind.String() + ": " + s.Message
}

// DuplicateCheckResult is a successful duplicate check for one request version.
type DuplicateCheckResult struct {
	CheckedAgainst model.BatchRequest `json:"checked_against"`
	Version        uint64             `json:"version"`
	Duplicates     []string           `json:"duplicates"`
	CheckedAt      time.Time          `json:"checked_at"`
}

// HasDuplicates reports whether the check found any issued serial.
func (r DuplicateCheckResult) HasDuplicates() bool {
	return len(r.Duplicates) > 0
}

// BatchArtifact is a generated document for one request version.
type BatchArtifact struct {
	SourceRequest model.BatchRequest  `json:"source_request"`
	Version       uint64              `json:"version"`
	Document      model.BatchDocument `json:"document"`
}

// DocumentURL is the opaque reference passed to the printer.
func (a BatchArtifact) DocumentURL() string {
	return a.Document.URL
}

// View is a read-only copy of a Controller's state.
type View struct {
	State           State                 `json:"state"`
	Status          Status                `json:"status"`
	Request         model.BatchRequest    `json:"request"`
	Version         uint64                `json:"version"`
	Busy            bool                  `json:"busy"`
	DuplicateCheck  *DuplicateCheckResult `json:"duplicate_check,omitempty"`
	Artifact        *BatchArtifact        `json:"artifact,omitempty"`
	Printers        []string              `json:"printers"`
	DefaultPrinter  string                `json:"default_printer,omitempty"`
	SelectedPrinter string                `json:"selected_printer,omitempty"`
	Systems         []string              `json:"systems"`
	Layout          model.LayoutSettings  `json:"layout"`
	CanCheck        bool                  `json:"can_check"`
	CanGenerate     bool                  `json:"can_generate"`
	CanPrint        bool                  `json:"can_print"`
}
