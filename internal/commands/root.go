// Package commands implements the fintrack-cli command tree.
package commands

import (
	"github.com/spf13/cobra"

	"fintrack/internal/classify"
	"fintrack/internal/log"
	"fintrack/internal/services"
)

// Deps are the services the commands run against.
type Deps struct {
	Service    *services.DashboardService
	Classifier *classify.Classifier
	Logger     *log.Logger
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand(deps Deps) *cobra.Command {
	if deps.Logger == nil {
		deps.Logger = log.Discard()
	}
	if deps.Classifier == nil {
		deps.Classifier = classify.New(nil)
	}

	rootCmd := &cobra.Command{
		Use:   "fintrack-cli",
		Short: "Import, classify and summarize bank exports",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newImportCommand(deps),
		newSummaryCommand(deps),
		newCategoriesCommand(deps),
		newExportCommand(deps),
	)

	return rootCmd
}
