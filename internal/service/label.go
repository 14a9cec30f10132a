package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/guttosm/label-service/internal/domain/model"
	"github.com/guttosm/label-service/internal/metrics"
	"github.com/guttosm/label-service/internal/repository"
)

// DocumentRenderer turns a batch of identifiers into a printable document.
type DocumentRenderer interface {
	Render(w io.Writer, ids []model.SerialIdentifier, layout model.LayoutSettings) error
}

// DocumentStore keeps rendered documents and resolves references to them.
type DocumentStore interface {
	Write(batchID string, write func(io.Writer) error) (string, error)
	Resolve(ref string) (string, error)
	Remove(fileName string) error
}

// PrintSpooler discovers printers and submits print jobs.
type PrintSpooler interface {
	ListPrinters(ctx context.Context) (model.PrinterList, error)
	Print(ctx context.Context, path, printer string) error
}

// DocumentURLFunc maps a stored file name to the reference handed to clients.
type DocumentURLFunc func(fileName string) string

// LabelService issues serial label batches: it checks the issued-serial
// history, renders documents, records issued serials and dispatches prints.
type LabelService struct {
	history  repository.SerialHistoryRepository
	renderer DocumentRenderer
	store    DocumentStore
	spooler  PrintSpooler
	systems  *SystemCatalog
	url      DocumentURLFunc
	now      func() time.Time
}

// LabelServiceOption configures a LabelService.
type LabelServiceOption func(*LabelService)

// WithDocumentURL overrides how document references are built.
func WithDocumentURL(fn DocumentURLFunc) LabelServiceOption {
	return func(s *LabelService) {
		if fn != nil {
			s.url = fn
		}
	}
}

// WithServiceClock overrides the clock used for issue timestamps.
func WithServiceClock(now func() time.Time) LabelServiceOption {
	return func(s *LabelService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewLabelService wires the issuance collaborators.
func NewLabelService(
	history repository.SerialHistoryRepository,
	renderer DocumentRenderer,
	store DocumentStore,
	spooler PrintSpooler,
	systems *SystemCatalog,
	opts ...LabelServiceOption,
) *LabelService {
	if systems == nil {
		systems = NewSystemCatalog(nil)
	}
	s := &LabelService{
		history:  history,
		renderer: renderer,
		store:    store,
		spooler:  spooler,
		systems:  systems,
		url:      func(name string) string { return name },
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListSystems returns the configured systems in display order.
func (s *LabelService) ListSystems(ctx context.Context) ([]string, error) {
	return s.systems.ListSystems(ctx)
}

// ListPrinters returns the printers known to the print spooler.
func (s *LabelService) ListPrinters(ctx context.Context) (model.PrinterList, error) {
	list, err := s.spooler.ListPrinters(ctx)
	if err != nil {
		return model.PrinterList{}, fmt.Errorf("list printers: %w", err)
	}
	if list.Printers == nil {
		list.Printers = []string{}
	}
	return list, nil
}

// CheckDuplicates reports which serials of req are already in the history.
func (s *LabelService) CheckDuplicates(ctx context.Context, req model.BatchRequest) (model.DuplicateReport, error) {
	serials, err := s.plan(req)
	if err != nil {
		return model.DuplicateReport{}, err
	}

	found, err := s.history.FindIssued(ctx, req.SystemID, req.Year, req.Month, serials)
	if err != nil {
		metrics.RecordDuplicateCheck("error")
		return model.DuplicateReport{}, fmt.Errorf("check duplicates: %w", err)
	}
	if found == nil {
		found = []string{}
	}

	report := model.DuplicateReport{Duplicates: found}
	if report.HasDuplicates() {
		metrics.RecordDuplicateCheck("duplicates")
	} else {
		metrics.RecordDuplicateCheck("clean")
	}
	return report, nil
}

// GenerateBatch renders req into a document and records its serials as
// issued. Duplicates found at generation time refuse the batch with a
// *model.DuplicateSerialsError. If recording fails the document is removed.
func (s *LabelService) GenerateBatch(ctx context.Context, req model.BatchRequest, layout model.LayoutSettings) (doc model.BatchDocument, err error) {
	start := time.Now()
	defer func() {
		status := "success"
		switch {
		case err == nil:
		case isConflict(err):
			status = "conflict"
		default:
			status = "error"
		}
		metrics.RecordBatchGeneration(time.Since(start), status)
	}()

	if err = req.Validate(); err != nil {
		return model.BatchDocument{}, err
	}
	ids, err := PlanIdentifiers(req)
	if err != nil {
		return model.BatchDocument{}, err
	}
	serials := make([]string, len(ids))
	for i, id := range ids {
		serials[i] = id.Serial
	}

	found, err := s.history.FindIssued(ctx, req.SystemID, req.Year, req.Month, serials)
	if err != nil {
		return model.BatchDocument{}, fmt.Errorf("check duplicates: %w", err)
	}
	if len(found) > 0 {
		return model.BatchDocument{}, &model.DuplicateSerialsError{Duplicates: found}
	}

	layout = layout.Clamp()
	batchID := uuid.NewString()
	name, err := s.store.Write(batchID, func(w io.Writer) error {
		return s.renderer.Render(w, ids, layout)
	})
	if err != nil {
		return model.BatchDocument{}, fmt.Errorf("render batch: %w", err)
	}

	operator := OperatorFromContext(ctx)
	issuedAt := s.now().UTC()
	if err := s.history.RecordIssued(ctx, model.NewIssuedSerials(ids, batchID, operator, issuedAt)); err != nil {
		if rmErr := s.store.Remove(name); rmErr != nil {
			log.Warn().Err(rmErr).Str("file", name).Msg("Failed to remove unrecorded label document")
		}
		if errors.Is(err, model.ErrSerialAlreadyIssued) {
			return model.BatchDocument{}, s.conflict(ctx, req, serials, err)
		}
		return model.BatchDocument{}, fmt.Errorf("record issued serials: %w", err)
	}

	metrics.RecordLabelsIssued(req.SystemID, len(ids))
	log.Info().
		Str("batch_id", batchID).
		Str("system", req.SystemID).
		Str("period", req.Period()).
		Str("first_serial", serials[0]).
		Int("quantity", len(ids)).
		Str("operator", operator).
		Msg("Label batch generated")

	return model.BatchDocument{
		ID:          batchID,
		URL:         s.url(name),
		FileName:    name,
		Quantity:    len(ids),
		FirstSerial: serials[0],
		LastSerial:  serials[len(serials)-1],
		CreatedAt:   issuedAt,
	}, nil
}

// PrintBatch sends a stored document to printer. An empty printer selects
// the spooler's default destination.
func (s *LabelService) PrintBatch(ctx context.Context, documentURL, printer string) error {
	path, err := s.store.Resolve(documentURL)
	if err != nil {
		return err
	}
	if err := s.spooler.Print(ctx, path, printer); err != nil {
		metrics.RecordPrintJob(printer, "error")
		return fmt.Errorf("print %s: %w", documentURL, err)
	}
	metrics.RecordPrintJob(printer, "success")
	log.Info().Str("document", documentURL).Str("printer", printer).Msg("Label batch sent to printer")
	return nil
}

// History lists issued serials, newest first.
func (s *LabelService) History(ctx context.Context, q model.HistoryQuery) ([]model.IssuedSerial, error) {
	entries, err := s.history.History(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return entries, nil
}

// Ping checks that the history store is reachable.
func (s *LabelService) Ping(ctx context.Context) error {
	return s.history.Ping(ctx)
}

func (s *LabelService) plan(req model.BatchRequest) ([]string, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return Plan(req.StartSerial, req.Quantity)
}

// conflict turns a uniqueness violation raced in by another writer into the
// list of serials now taken.
func (s *LabelService) conflict(ctx context.Context, req model.BatchRequest, serials []string, cause error) error {
	found, err := s.history.FindIssued(ctx, req.SystemID, req.Year, req.Month, serials)
	if err != nil || len(found) == 0 {
		return fmt.Errorf("record issued serials: %w", cause)
	}
	return &model.DuplicateSerialsError{Duplicates: found}
}

func isConflict(err error) bool {
	var de *model.DuplicateSerialsError
	return errors.As(err, &de) || errors.Is(err, model.ErrSerialAlreadyIssued)
}
