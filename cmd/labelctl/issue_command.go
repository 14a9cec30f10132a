package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/guttosm/label-service/internal/domain/model"
	"github.com/guttosm/label-service/internal/workflow"
)

type issueOptions struct {
	request   model.BatchRequest
	printer   string
	skipCheck bool
	print     bool
}

func newIssueCommand(ctx *commandContext) *cobra.Command {
	var opts issueOptions

	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Check, generate and optionally print one label batch",
		Long: "Runs one issuance workflow against the server: checks the batch for already\n" +
			"issued serials, generates the label document and sends it to a printer when\n" +
			"--print is given. Every status change is printed as it happens.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIssue(cmd, ctx, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.request.SystemID, "system", "", "System to issue under (default: first system)")
	flags.StringVar(&opts.request.Year, "year", "", "Period year YYYY (default: current year)")
	flags.StringVar(&opts.request.Month, "month", "", "Period month MM (default: current month)")
	flags.StringVar(&opts.request.StartSerial, "start", "", "First serial; its width is kept")
	flags.IntVar(&opts.request.Quantity, "quantity", 1, "Number of labels")
	flags.StringVar(&opts.printer, "printer", "", "Printer (default: server default)")
	flags.BoolVar(&opts.skipCheck, "skip-check", false, "Generate without a separate duplicate check")
	flags.BoolVar(&opts.print, "print", false, "Print the batch after generation")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

func runIssue(cmd *cobra.Command, ctx *commandContext, opts issueOptions) error {
	cl, err := ctx.client()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	store := ctx.settingsStore()
	layout, err := store.Load()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v, using default layout\n", err)
	}

	ctrl := workflow.New(cl,
		workflow.WithLayout(layout),
		workflow.WithRequest(opts.request),
		workflow.WithStatusListener(func(s workflow.Status) {
			fmt.Fprintln(out, s.String())
		}),
	)

	runCtx := cmd.Context()
	if err := ctrl.Initialize(runCtx); err != nil {
		// Printers are only needed when printing.
		if opts.print || ctrl.Snapshot().Request.SystemID == "" {
			return fmt.Errorf("initialize: %w", err)
		}
	}
	if opts.printer != "" {
		if err := ctrl.SelectPrinter(opts.printer); err != nil {
			return err
		}
	}

	if !opts.skipCheck {
		if err := ctrl.CheckDuplicates(runCtx); err != nil {
			return err
		}
		if check := ctrl.Snapshot().DuplicateCheck; check != nil && check.HasDuplicates() {
			return fmt.Errorf("%w: %s", workflow.ErrDuplicatesPending, strings.Join(check.Duplicates, ", "))
		}
	}

	if err := ctrl.GenerateBatch(runCtx); err != nil {
		return err
	}
	view := ctrl.Snapshot()
	if view.Artifact == nil {
		return errors.New("generation produced no document")
	}
	doc := view.Artifact.Document
	fmt.Fprintln(out, renderTable(
		[]string{"Batch", "System", "Period", "First", "Last", "Labels", "Document"},
		[][]string{{
			doc.ID,
			view.Request.SystemID,
			view.Request.Year + "-" + view.Request.Month,
			doc.FirstSerial,
			doc.LastSerial,
			fmt.Sprint(doc.Quantity),
			doc.URL,
		}},
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight},
	))

	if !opts.print {
		return nil
	}
	return ctrl.PrintBatch(runCtx)
}
