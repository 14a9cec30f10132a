package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/guttosm/label-service/internal/domain/model"
)

func newSystemsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "systems",
		Short: "List the systems serials can be issued under",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := ctx.client()
			if err != nil {
				return err
			}
			systems, err := cl.ListSystems(cmd.Context())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(systems))
			for _, s := range systems {
				rows = append(rows, []string{s})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"System"}, rows, nil))
			return nil
		},
	}
}

func newPrintersCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "printers",
		Short: "List printers known to the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := ctx.client()
			if err != nil {
				return err
			}
			list, err := cl.ListPrinters(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(list.Printers) == 0 {
				fmt.Fprintln(out, "No printers available")
				return nil
			}
			rows := make([][]string, 0, len(list.Printers))
			for _, p := range list.Printers {
				def := ""
				if p == list.Default {
					def = "yes"
				}
				rows = append(rows, []string{p, def})
			}
			fmt.Fprintln(out, renderTable([]string{"Printer", "Default"}, rows, nil))
			return nil
		},
	}
}

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var q model.HistoryQuery

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show issued serials, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := ctx.client()
			if err != nil {
				return err
			}
			entries, err := cl.History(cmd.Context(), q)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No serials issued")
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					e.SystemID,
					e.Year + "-" + e.Month,
					e.Serial,
					e.BatchID,
					e.IssuedBy,
					e.IssuedAt.Local().Format(time.DateTime),
				})
			}
			headers := []string{"System", "Period", "Serial", "Batch", "Issued By", "Issued At"}
			fmt.Fprintln(out, renderTable(headers, rows, []columnAlignment{alignLeft, alignLeft, alignRight}))
			fmt.Fprintln(out, strconv.Itoa(len(entries))+" entries")
			return nil
		},
	}

	cmd.Flags().StringVar(&q.SystemID, "system", "", "Filter by system")
	cmd.Flags().StringVar(&q.Year, "year", "", "Filter by year (YYYY)")
	cmd.Flags().StringVar(&q.Month, "month", "", "Filter by month (MM)")
	cmd.Flags().IntVar(&q.Limit, "limit", 100, "Maximum entries to show")
	return cmd
}
