package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"fintrack/internal/core"
)

func newSummaryCommand(deps Deps) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "summary FILE...",
		Short: "Print totals by month and category",
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
			return printSummary(cmd.OutOrStdout(), deps.Service.Summary(set, m))
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "restrict to one month (YYYY-MM)")

	return cmd
}

func parseMonthFlag(v string) (core.Month, error) {
	if v == "" {
		return core.Month{}, nil
	}
	m, err := core.ParseMonth(v)
	if err != nil {
		return core.Month{}, fmt.Errorf("invalid --month %q: want YYYY-MM", v)
	}
	return m, nil
}

func printSummary(w io.Writer, s core.Summary) error {
	fmt.Fprintf(w, "Period:            %s\n", s.PeriodLabel())
	fmt.Fprintf(w, "Total expenses:    %s\n", core.FormatDollars(s.TotalExpenses))
	fmt.Fprintf(w, "Total income:      %s\n", core.FormatDollars(s.TotalIncome))
	fmt.Fprintf(w, "Avg monthly spend: %s\n", core.FormatDollars(s.AvgMonthlySpend))
	if s.TopCategory.Name != "" {
		fmt.Fprintf(w, "Top category:      %s (%s)\n", s.TopCategory.Name, core.FormatDollars(s.TopCategory.Amount))
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "\nMonth\tExpenses\tIncome\t")
	for _, m := range s.Months {
		fmt.Fprintf(tw, "%s\t%s\t%s\t\n", m.Month, core.FormatDollars(m.Expenses), core.FormatDollars(m.Income))
	}
	writeCategories(tw, "Expenses", s.ExpenseByCategory)
	writeCategories(tw, "Income", s.IncomeByCategory)
	return tw.Flush()
}

func writeCategories(w io.Writer, title string, cats []core.CategoryAmount) {
	if len(cats) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s\tAmount\tShare\t\n", title)
	for _, c := range cats {
		fmt.Fprintf(w, "%s\t%s\t%s%%\t\n", c.Name, core.FormatDollars(c.Amount), c.Percent.StringFixed(1))
	}
}
