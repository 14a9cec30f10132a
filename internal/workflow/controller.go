// Package workflow sequences duplicate checking, generation and printing of
// one label batch at a time and derives the status shown to the operator.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/guttosm/label-service/internal/domain/model"
	"github.com/guttosm/label-service/internal/logger"
	"github.com/guttosm/label-service/internal/messages"
	"github.com/guttosm/label-service/internal/service"
)

// Option configures a Controller.
type Option func(*Controller)

// WithClock sets the clock used for period defaults and check timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// WithLayout sets the initial label layout.
func WithLayout(layout model.LayoutSettings) Option {
	return func(c *Controller) {
		c.layout = layout.Clamp()
	}
}

// WithRequest sets the initial batch request.
func WithRequest(req model.BatchRequest) Option {
	return func(c *Controller) {
		c.req = req
	}
}

// WithStatusListener registers fn to observe every status change in order.
// fn runs with the controller locked and must not call back into it.
func WithStatusListener(fn func(Status)) Option {
	return func(c *Controller) {
		c.listener = fn
	}
}

// WithLogger sets the logger used for workflow events.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// Controller owns the state of one issuance workflow. It is safe for
// concurrent use; at most one collaborator call is outstanding at a time.
type Controller struct {
	backend  Backend
	now      func() time.Time
	listener func(Status)
	logger   zerolog.Logger

	mu       sync.Mutex
	req      model.BatchRequest
	version  uint64
	state    State
	status   Status
	busy     bool
	check    *DuplicateCheckResult
	artifact *BatchArtifact
	printers model.PrinterList
	systems  []string
	printer  string
	layout   model.LayoutSettings
}

// New creates a Controller in the Configuring state.
func New(backend Backend, opts ...Option) *Controller {
	c := &Controller{
		backend: backend,
		now:     time.Now,
		logger:  logger.Component("workflow"),
		layout:  model.DefaultLayoutSettings(),
		state:   Configuring,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Initialize loads printers and systems concurrently, selects the default
// printer and the first system when none is chosen, and fills an empty
// period from the clock. A failed lookup leaves the status in Error; the
// other lookup is still applied.
func (c *Controller) Initialize(ctx context.Context) error {
	var (
		printers    model.PrinterList
		systems     []string
		printersErr error
		systemsErr  error
	)

	var g errgroup.Group
	g.Go(func() error {
		printers, printersErr = c.backend.ListPrinters(ctx)
		return printersErr
	})
	g.Go(func() error {
		systems, systemsErr = c.backend.ListSystems(ctx)
		return systemsErr
	})
	if err := g.Wait(); err != nil {
		c.logger.Warn().Err(err).Msg("Workflow initialization incomplete")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.req
	if printersErr == nil {
		c.printers = model.PrinterList{Printers: slices.Clone(printers.Printers), Default: printers.Default}
		if c.printer == "" {
			c.printer = printers.Default
			if c.printer == "" && len(printers.Printers) > 0 {
				c.printer = printers.Printers[0]
			}
		}
	}
	if systemsErr == nil {
		c.systems = slices.Clone(systems)
		if next.SystemID == "" && len(systems) > 0 {
			next.SystemID = systems[0]
		}
	}
	now := c.now()
	if next.Year == "" {
		next.Year = now.Format("2006")
	}
	if next.Month == "" {
		next.Month = now.Format("01")
	}
	c.applyRequest(next)

	switch {
	case printersErr != nil:
		c.setStatus(StatusError, failureMessage(printersErr, messages.StatusBackendUnreachable))
	case systemsErr != nil:
		c.setStatus(StatusError, failureMessage(systemsErr, messages.StatusSystemsFailed))
	}
	return errors.Join(printersErr, systemsErr)
}

// UpdateRequestField edits one field of the batch request. Any change
// discards the held duplicate check and artifact.
func (c *Controller) UpdateRequestField(field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := c.req.WithField(field, value)
	if err != nil {
		c.setStatus(StatusError, err.Error())
		return err
	}
	c.applyRequest(next)
	return nil
}

// SetRequest replaces the whole batch request.
func (c *Controller) SetRequest(req model.BatchRequest) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.applyRequest(req)
}

// SelectPrinter chooses the printer used by PrintBatch. Names outside a
// loaded printer list are refused.
func (c *Controller) SelectPrinter(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.printers.Printers) > 0 && !slices.Contains(c.printers.Printers, name) {
		err := &model.ValidationError{Field: "printer", Message: fmt.Sprintf("unknown printer %q", name)}
		c.setStatus(StatusError, err.Error())
		return err
	}
	c.printer = name
	return nil
}

// SetLayout stores the layout for subsequent generations and returns it
// clamped to bounds. Layout does not affect which serials are issued.
func (c *Controller) SetLayout(layout model.LayoutSettings) model.LayoutSettings {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.layout = layout.Clamp()
	return c.layout
}

// CheckDuplicates asks the backend which serials of the current request are
// already issued.
func (c *Controller) CheckDuplicates(ctx context.Context) error {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return ErrBusy
	}
	if err := c.validateLocked(); err != nil {
		c.mu.Unlock()
		return err
	}
	req, version := c.req, c.version
	c.busy = true
	c.setStatus(StatusLoading, messages.Get(messages.StatusCheckingDuplicates))
	c.mu.Unlock()

	report, err := c.backend.CheckDuplicates(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false

	if version != c.version {
		return c.discardStale("check_duplicates")
	}
	if err != nil {
		c.logger.Warn().Err(err).Str("system", req.SystemID).Msg("Duplicate check failed")
		c.setStatus(StatusError, failureMessage(err, messages.StatusCheckFailed))
		return err
	}

	c.check = &DuplicateCheckResult{
		CheckedAgainst: req,
		Version:        version,
		Duplicates:     slices.Clone(report.Duplicates),
		CheckedAt:      c.now(),
	}
	dirty := c.check.HasDuplicates()
	// A held artifact keeps the Generated or Printed state; the result still
	// gates another generation.
	if c.artifact == nil {
		c.state = DuplicatesCheckedClean
		if dirty {
			c.state = DuplicatesCheckedDirty
		}
	}
	if dirty {
		c.setStatus(StatusError, messages.Format(messages.StatusDuplicatesFound,
			len(c.check.Duplicates), strings.Join(c.check.Duplicates, ", ")))
		return nil
	}
	c.setStatus(StatusIdle, messages.Get(messages.StatusNoDuplicates))
	return nil
}

// GenerateBatch renders the current request with the current layout.
// It is refused with ErrDuplicatesPending while a check of the current
// request holds duplicates.
func (c *Controller) GenerateBatch(ctx context.Context) error {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return ErrBusy
	}
	if c.check != nil && c.check.HasDuplicates() {
		c.mu.Unlock()
		return ErrDuplicatesPending
	}
	if err := c.validateLocked(); err != nil {
		c.mu.Unlock()
		return err
	}
	req, version, layout, prev := c.req, c.version, c.layout, c.state
	c.busy = true
	c.state = Generating
	c.setStatus(StatusLoading, messages.Get(messages.StatusGenerating))
	c.mu.Unlock()

	doc, err := c.backend.GenerateBatch(ctx, req, layout)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false

	if version != c.version {
		return c.discardStale("generate_batch")
	}
	if err != nil {
		c.logger.Warn().Err(err).Str("system", req.SystemID).Int("quantity", req.Quantity).Msg("Batch generation failed")
		c.state = prev
		c.setStatus(StatusError, failureMessage(err, messages.StatusGenerateFailed))
		return err
	}

	c.artifact = &BatchArtifact{SourceRequest: req, Version: version, Document: doc}
	c.state = Generated
	c.setStatus(StatusSuccess, messages.Get(messages.StatusGenerated))
	return nil
}

// PrintBatch sends the held artifact to the selected printer. Without an
// artifact it does nothing. Printing the same artifact again is allowed.
func (c *Controller) PrintBatch(ctx context.Context) error {
	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return ErrBusy
	}
	if c.artifact == nil {
		c.mu.Unlock()
		return nil
	}
	docURL, printer, version := c.artifact.DocumentURL(), c.printer, c.version
	c.busy = true
	c.state = Printing
	c.setStatus(StatusLoading, messages.Get(messages.StatusPrinting))
	c.mu.Unlock()

	err := c.backend.PrintBatch(ctx, docURL, printer)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false

	if version != c.version {
		return c.discardStale("print_batch")
	}
	if err != nil {
		c.logger.Warn().Err(err).Str("printer", printer).Msg("Print failed")
		c.state = Generated
		c.setStatus(StatusError, failureMessage(err, messages.StatusPrintFailed))
		return err
	}
	c.state = Printed
	c.setStatus(StatusSuccess, messages.Get(messages.StatusPrinted))
	return nil
}

// Status returns the current status.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// State returns the current gating state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Busy reports whether a collaborator call is outstanding.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Snapshot returns a copy of the controller state with the action gates.
func (c *Controller) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		State:           c.state,
		Status:          c.status,
		Request:         c.req,
		Version:         c.version,
		Busy:            c.busy,
		Printers:        slices.Clone(c.printers.Printers),
		DefaultPrinter:  c.printers.Default,
		SelectedPrinter: c.printer,
		Systems:         slices.Clone(c.systems),
		Layout:          c.layout,
	}
	if c.check != nil {
		check := *c.check
		check.Duplicates = slices.Clone(c.check.Duplicates)
		v.DuplicateCheck = &check
	}
	if c.artifact != nil {
		artifact := *c.artifact
		v.Artifact = &artifact
	}

	ready := !c.busy && c.req.ValidateRequired() == nil
	v.CanCheck = ready
	v.CanGenerate = ready && (c.check == nil || !c.check.HasDuplicates())
	v.CanPrint = !c.busy && c.artifact != nil
	return v
}

// applyRequest installs next and, when it differs from the current request,
// bumps the version and drops results computed for the old one.
func (c *Controller) applyRequest(next model.BatchRequest) {
	if next == c.req {
		return
	}
	c.req = next
	c.version++
	c.check = nil
	c.artifact = nil
	c.state = Configuring
}

// validateLocked checks the request without contacting any collaborator.
func (c *Controller) validateLocked() error {
	if err := c.req.ValidateRequired(); err != nil {
		c.setStatus(StatusError, messages.Get(messages.StatusMissingFields))
		return err
	}
	if err := c.req.Validate(); err != nil {
		c.setStatus(StatusError, err.Error())
		return err
	}
	if _, err := service.Plan(c.req.StartSerial, c.req.Quantity); err != nil {
		c.setStatus(StatusError, err.Error())
		return err
	}
	return nil
}

func (c *Controller) discardStale(op string) error {
	c.logger.Debug().Str("op", op).Uint64("version", c.version).Msg("Discarding stale result")
	c.setStatus(StatusIdle, messages.Get(messages.StatusStaleResult))
	return ErrStaleResult
}

func (c *Controller) setStatus(kind StatusKind, message string) {
	c.status = Status{Kind: kind, Message: message}
	if c.listener != nil {
		c.listener(c.status)
	}
}

func failureMessage(err error, fallbackKey string) string {
	if msg := model.CollaboratorMessage(err); msg != "" {
		return msg
	}
	return messages.Get(fallbackKey)
}
