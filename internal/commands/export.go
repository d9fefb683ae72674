package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"fintrack/internal/sheets"
)

func newExportCommand(deps Deps) *cobra.Command {
	var (
		spreadsheet string
		sheet       string
		month       string
	)

	cmd := &cobra.Command{
		Use:   "export FILE...",
		Short: "Append the summary of bank exports to a spreadsheet tab",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := parseMonthFlag(month)
			if err != nil {
				return err
			}
			set, err := loadFiles(cmd, deps, args)
			if err != nil {
				return err
			}

			res, err := deps.Service.Export(cmd.Context(), set, sheets.Target{SpreadsheetID: spreadsheet, Sheet: sheet}, m)
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Appended to %s at %s\n", res.Target.Sheet, res.RowRef)
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for i, h := range res.Header {
				if h == "" {
					continue
				}
				fmt.Fprintf(tw, "%s\t%s\n", h, res.Row[i])
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&spreadsheet, "spreadsheet", "", "spreadsheet ID or URL (defaults to GOOGLE_SPREADSHEET_ID)")
	cmd.Flags().StringVar(&sheet, "sheet", "", fmt.Sprintf("tab name (defaults to EXPORT_SHEET_NAME or %q)", sheets.DefaultSheetName))
	cmd.Flags().StringVar(&month, "month", "", "export one month (YYYY-MM)")

	return cmd
}
