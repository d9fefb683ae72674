package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"fintrack/internal/core"
	"fintrack/internal/services"
	"fintrack/internal/workset"
)

var errNothingImported = errors.New("no transactions imported")

func newImportCommand(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE...",
		Short: "Print the normalized, classified transactions of bank exports",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := loadFiles(cmd, deps, args)
			if err != nil {
				return err
			}
			return printTransactions(cmd.OutOrStdout(), set.List())
		},
	}
}

// loadFiles ingests every path into a fresh working set and reports each
// file on stderr. It fails only when nothing at all was imported.
func loadFiles(cmd *cobra.Command, deps Deps, paths []string) (*workset.Set, error) {
	var (
		uploads []services.Upload
		reports []services.FileReport
	)
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			reports = append(reports, services.FileReport{Name: p, Err: err})
			continue
		}
		defer f.Close()
		uploads = append(uploads, services.Upload{Name: filepath.Base(p), Body: f})
	}

	set := workset.New(deps.Classifier)
	reports = append(reports, deps.Service.Ingest(cmd.Context(), set, uploads)...)

	stderr := cmd.ErrOrStderr()
	for _, r := range reports {
		if r.Err != nil {
			fmt.Fprintf(stderr, "%s: rejected: %v\n", r.Name, r.Err)
			continue
		}
		fmt.Fprintf(stderr, "%s: %d imported, %d skipped (%s)\n", r.Name, r.Imported, r.Skipped, r.Schema)
		for _, re := range r.RowErrors {
			fmt.Fprintf(stderr, "  %v\n", re)
		}
	}

	deps.Logger.DebugContext(cmd.Context(), "Files loaded", "files", len(paths), "transactions", set.Len())
	if set.Len() == 0 {
		return nil, errNothingImported
	}
	return set, nil
}

func printTransactions(w io.Writer, txs []core.Transaction) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Date\tPayee\tType\tAmount\tCategory\t")
	for _, t := range txs {
		category := t.Category
		if t.Excluded {
			category += " (excluded)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n",
			t.Date.Format("2006-01-02"), t.Payee, t.Type, core.FormatDollars(t.Amount), category)
	}
	return tw.Flush()
}
