package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/guttosm/label-service/internal/domain/model"
)

func newSettingsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the stored label layout",
	}
	cmd.AddCommand(newSettingsShowCommand(ctx))
	cmd.AddCommand(newSettingsSetCommand(ctx))
	return cmd
}

func newSettingsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the stored layout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := ctx.settingsStore()
			layout, err := store.Load()
			if err != nil {
				return err
			}
			printLayout(cmd.OutOrStdout(), store.Path(), layout)
			return nil
		},
	}
}

func newSettingsSetCommand(ctx *commandContext) *cobra.Command {
	var width, height, font, qr float64

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update layout fields; values are clamped to their bounds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := ctx.settingsStore()
			layout, err := store.Load()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("label-width") {
				layout.LabelWidthMM = width
			}
			if flags.Changed("label-height") {
				layout.LabelHeightMM = height
			}
			if flags.Changed("font-size") {
				layout.FontSizePt = font
			}
			if flags.Changed("qr-size") {
				layout.QRSizeMM = qr
			}
			saved, err := store.Save(layout)
			if err != nil {
				return err
			}
			printLayout(cmd.OutOrStdout(), store.Path(), saved)
			return nil
		},
	}

	cmd.Flags().Float64Var(&width, "label-width", 0, "Label width in mm")
	cmd.Flags().Float64Var(&height, "label-height", 0, "Label height in mm")
	cmd.Flags().Float64Var(&font, "font-size", 0, "Font size in pt")
	cmd.Flags().Float64Var(&qr, "qr-size", 0, "QR code size in mm")
	return cmd
}

func printLayout(w io.Writer, path string, layout model.LayoutSettings) {
	format := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	rows := [][]string{
		{"Label width (mm)", format(layout.LabelWidthMM)},
		{"Label height (mm)", format(layout.LabelHeightMM)},
		{"Font size (pt)", format(layout.FontSizePt)},
		{"QR size (mm)", format(layout.QRSizeMM)},
	}
	fmt.Fprintln(w, path)
	fmt.Fprintln(w, renderTable([]string{"Setting", "Value"}, rows, []columnAlignment{alignLeft, alignRight}))
}
