package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newCategoriesCommand(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the categories and the keywords that select them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table := deps.Classifier.Table()
			keywords := map[string][]string{}
			for _, r := range table.Rules() {
				keywords[r.Category] = r.Keywords
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, c := range table.Categories() {
				kw := strings.Join(keywords[c], ", ")
				if kw == "" {
					kw = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\n", c, kw)
			}
			return tw.Flush()
		},
	}
}
