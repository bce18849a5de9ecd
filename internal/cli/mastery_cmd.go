package cli

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/yungbote/lexipath/internal/recommender"
	"github.com/yungbote/lexipath/internal/telemetry"
)

const masteryTimeout = 30 * time.Second

type masteryCommander struct {
	filter       string
	telemetryURL string
	telemetryDSN string
	jsonOut      bool
}

const masteryLongDesc string = `Project review telemetry into per-concept mastery.

Collects review records from the telemetry source, groups them by knowledge
node and prints the mastery vector the recommender scores against, strongest
first.

Example:
  lexipath mastery
  lexipath mastery --filter deck:german --json
  lexipath mastery --telemetry-dsn lexipath.db`

const masteryShortDesc string = "Show per-concept mastery"

func newMasteryCmd() *cobra.Command {
	cmder := &masteryCommander{}

	cmd := &cobra.Command{
		Use:   "mastery",
		Short: masteryShortDesc,
		Long:  masteryLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run()
		},
	}

	cmd.Flags().StringVarP(&cmder.filter, "filter", "f", "", "Collection filter passed to the telemetry source")
	cmd.Flags().StringVar(&cmder.telemetryURL, "telemetry-url", "", "Review platform API URL (default SRS_API_URL)")
	cmd.Flags().StringVar(&cmder.telemetryDSN, "telemetry-dsn", "", "Local review-state database DSN (overrides the API)")
	cmd.Flags().BoolVar(&cmder.jsonOut, "json", false, "Emit the mastery vector as JSON")

	return cmd
}

func (c *masteryCommander) run() error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	source, err := newTelemetrySource(c.telemetryDSN, c.telemetryURL, log)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), masteryTimeout)
	defer cancel()

	states, err := telemetry.NewAdapter(source, log).Collect(ctx, c.filter)
	if err != nil {
		return fmt.Errorf("collecting telemetry: %w", err)
	}

	vector := recommender.BuildMasteryVector(states, recommender.LoadConfig(log))
	if c.jsonOut {
		return printJSON(vector)
	}

	ids := make([]string, 0, len(vector))
	for id := range vector {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if vector[ids[i]] != vector[ids[j]] {
			return vector[ids[i]] > vector[ids[j]]
		}
		return ids[i] < ids[j]
	})

	fmt.Printf("\n%s %s\n\n", headerStyle.Render("Mastery:"), dimStyle.Render(fmt.Sprintf("%d reviewed concepts", len(vector))))
	for _, id := range ids {
		fmt.Printf("  %s  %s  %s\n",
			scoreStyle.Render(fmt.Sprintf("%.3f", vector[id])),
			masteryBar(vector[id], 10),
			labelStyle.Render(id),
		)
	}
	return nil
}
