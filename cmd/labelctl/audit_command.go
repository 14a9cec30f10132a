package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/guttosm/label-service/internal/domain/model"
)

func newAuditCommand(ctx *commandContext) *cobra.Command {
	var (
		action, outcome, since string
		f                      model.AuditFilter
	)

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show the server's audit journal, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f.Action = model.AuditAction(action)
			f.Outcome = model.AuditOutcome(outcome)
			if since != "" {
				at, err := parseSince(since, time.Now())
				if err != nil {
					return err
				}
				f.Since = at
			}

			cl, err := ctx.client()
			if err != nil {
				return err
			}
			page, err := cl.Audit(cmd.Context(), f)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(page.Events) == 0 {
				fmt.Fprintln(out, "No audit events")
				return nil
			}
			rows := make([][]string, 0, len(page.Events))
			for _, e := range page.Events {
				rows = append(rows, []string{
					e.At.Local().Format(time.DateTime),
					string(e.Action),
					string(e.Outcome),
					e.Operator,
					auditSubject(e),
				})
			}
			headers := []string{"At", "Action", "Outcome", "Operator", "Subject"}
			fmt.Fprintln(out, renderTable(headers, rows, nil))
			fmt.Fprintf(out, "%d of %d events\n", len(page.Events), page.Total)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&action, "action", "", "Filter by action (generate_batch, print_batch, ...)")
	flags.StringVar(&outcome, "outcome", "", "Filter by outcome (ok or failed)")
	flags.StringVar(&f.Operator, "operator", "", "Filter by operator")
	flags.StringVar(&f.SystemID, "system", "", "Filter by system")
	flags.StringVar(&f.BatchID, "batch", "", "Filter by batch ID")
	flags.StringVar(&since, "since", "", "Only events after this RFC 3339 time or this long ago (e.g. 24h)")
	flags.IntVar(&f.Limit, "limit", 50, "Maximum events to show")
	return cmd
}

// parseSince accepts either an RFC 3339 timestamp or a duration before now.
func parseSince(s string, now time.Time) (time.Time, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return now.Add(-d), nil
	}
	at, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --since %q: want a duration or an RFC 3339 time", s)
	}
	return at, nil
}

// auditSubject summarises what an event was about in one cell.
func auditSubject(e model.AuditEvent) string {
	var parts []string
	if b := e.Batch; b != nil {
		if b.SystemID != "" {
			serials := b.FirstSerial
			if b.LastSerial != "" && b.LastSerial != b.FirstSerial {
				serials += ".." + b.LastSerial
			}
			parts = append(parts, fmt.Sprintf("%s %s-%s %s", b.SystemID, b.Year, b.Month, serials))
		} else if b.DocumentURL != "" {
			parts = append(parts, b.DocumentURL)
		}
	}
	if e.Printer != "" {
		parts = append(parts, "on "+e.Printer)
	}
	if len(e.Duplicates) > 0 {
		parts = append(parts, "duplicates "+strings.Join(e.Duplicates, ","))
	}
	if e.HTTP != nil {
		parts = append(parts, fmt.Sprintf("%s %s %d", e.HTTP.Method, e.HTTP.Path, e.HTTP.Status))
	}
	if e.Error != "" {
		parts = append(parts, e.Error)
	}
	return strings.Join(parts, "; ")
}
