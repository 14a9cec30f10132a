package workflow

import (
	"context"

	"github.com/guttosm/label-service/internal/domain/model"
)

// PrinterDirectory lists the printers a batch can be sent to.
type PrinterDirectory interface {
	ListPrinters(ctx context.Context) (model.PrinterList, error)
}

// SystemDirectory lists the systems serials can be issued under, in display order.
type SystemDirectory interface {
	ListSystems(ctx context.Context) ([]string, error)
}

// DuplicateChecker reports which serials of a request are already issued.
type DuplicateChecker interface {
	CheckDuplicates(ctx context.Context, req model.BatchRequest) (model.DuplicateReport, error)
}

// BatchGenerator renders a batch and records its serials as issued.
type BatchGenerator interface {
	GenerateBatch(ctx context.Context, req model.BatchRequest, layout model.LayoutSettings) (model.BatchDocument, error)
}

// BatchPrinter sends a rendered document to a printer. An empty printer
// name selects the print server's default.
type BatchPrinter interface {
	PrintBatch(ctx context.Context, documentURL, printer string) error
}

// Backend bundles every collaborator the Controller talks to.
type Backend interface {
	PrinterDirectory
	SystemDirectory
	DuplicateChecker
	BatchGenerator
	BatchPrinter
}
