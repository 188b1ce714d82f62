package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/tars-systems/leadscout/internal/export"
)

var (
	exportGroup  string
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored leads to CSV or XLSX",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if exportGroup == "" {
			return eris.New("--group is required")
		}
		if exportOut == "" {
			exportOut = "leads." + exportFormat
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		leads, err := st.ListLeads(ctx, exportGroup)
		if err != nil {
			return eris.Wrap(err, "list leads")
		}

		f, err := os.Create(exportOut)
		if err != nil {
			return eris.Wrapf(err, "create %s", exportOut)
		}
		defer f.Close() //nolint:errcheck

		switch exportFormat {
		case "csv":
			err = export.WriteCSV(f, leads)
		case "xlsx":
			err = export.WriteXLSX(f, leads)
		default:
			return eris.Errorf("unknown format %q (want csv or xlsx)", exportFormat)
		}
		if err != nil {
			return err
		}

		fmt.Printf("Exported %d leads to %s\n", len(leads), exportOut)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportGroup, "group", "g", "", "group key to export")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "output format: csv or xlsx")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default leads.<format>)")
	rootCmd.AddCommand(exportCmd)
}
