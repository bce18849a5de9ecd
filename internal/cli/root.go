// Package cli implements the lexipath command tree.
package cli

import (
	"github.com/spf13/cobra"
)

const lexipathLongDesc string = `Lexipath recommends what to study next.

It collects review telemetry from your spaced-repetition platform, projects
it into per-concept mastery, fetches the knowledge graph for the configured
language, finds the proficiency frontier and ranks the concepts worth
starting alongside the weak ones worth revisiting.

Examples:
  lexipath recommend --lang de
  lexipath recommend --lang zh --target-level 3 --json
  lexipath mastery --filter deck:german
  lexipath nodes --lang de
  lexipath import reviews.json --dsn lexipath.db --collection german`

const lexipathShortDesc string = "Spaced-repetition study recommender"

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "lexipath",
		Short:        lexipathShortDesc,
		Long:         lexipathLongDesc,
		SilenceUsage: true,
	}

	cmd.AddCommand(newRecommendCmd())
	cmd.AddCommand(newNodesCmd())
	cmd.AddCommand(newMasteryCmd())
	cmd.AddCommand(newImportCmd())

	return cmd
}
