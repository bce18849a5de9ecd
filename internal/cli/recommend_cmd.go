package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/yungbote/lexipath/internal/app"
)

// recommendTimeout bounds one full pipeline pass end to end; the telemetry
// and graph collaborators carry their own shorter deadlines inside it.
const recommendTimeout = 60 * time.Second

type recommendCommander struct {
	filter       string
	graphURI     string
	telemetryURL string
	telemetryDSN string
	language     string
	targetLevel  string
	topN         int
	slider       float64
	jsonOut      bool
}

const recommendLongDesc string = `Rank what to study next.

Collects review telemetry, projects it into per-concept mastery, fetches the
knowledge graph for the configured language, finds the proficiency frontier
and prints two ranked lists: unreviewed material worth starting, and weak
reviewed material with its missing prerequisites.

A collaborator that times out degrades to empty input and is named in a
warning line; any other collaborator failure aborts the run.

Example:
  lexipath recommend --lang de --target-level B1
  lexipath recommend --lang zh --target-level 3
  lexipath recommend --filter deck:german --count 5 --json`

const recommendShortDesc string = "Rank what to study next"

func newRecommendCmd() *cobra.Command {
	cmder := &recommendCommander{}

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: recommendShortDesc,
		Long:  recommendLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	cmd.Flags().StringVarP(&cmder.filter, "filter", "f", "", "Collection filter passed to the telemetry source")
	cmd.Flags().StringVar(&cmder.graphURI, "graph-uri", "", "Knowledge graph bolt URI (default NEO4J_URI)")
	cmd.Flags().StringVar(&cmder.telemetryURL, "telemetry-url", "", "Review platform API URL (default SRS_API_URL)")
	cmd.Flags().StringVar(&cmder.telemetryDSN, "telemetry-dsn", "", "Local review-state database DSN (overrides the API)")
	cmd.Flags().StringVarP(&cmder.language, "lang", "l", "", "Language scope (default LEXIPATH_LANG)")
	cmd.Flags().StringVar(&cmder.targetLevel, "target-level", "", "Pin the frontier to a tier ordinal or label (3, B1) instead of detecting it")
	cmd.Flags().IntVarP(&cmder.topN, "count", "n", 0, "Results per list (default from the weight profile)")
	cmd.Flags().Float64Var(&cmder.slider, "slider", 0.5, "Continuous scoring balance: 0 favors frequency, 1 favors ease")
	cmd.Flags().BoolVar(&cmder.jsonOut, "json", false, "Emit the full result as JSON")

	return cmd
}

func (c *recommendCommander) run(cmd *cobra.Command) error {
	ctx, cancel := context.WithTimeout(context.Background(), recommendTimeout)
	defer cancel()

	opts, err := c.options(cmd)
	if err != nil {
		return err
	}
	application, err := app.New(ctx, opts)
	if err != nil {
		return err
	}
	defer application.Close(context.Background())

	res, err := application.Recommender.Generate(ctx, c.filter, application.Scope())
	if err != nil {
		return fmt.Errorf("generating recommendations: %w", err)
	}

	if c.jsonOut {
		return printJSON(res)
	}
	printResult(res)
	return nil
}

// options maps flags onto app overrides; pointer fields are set only when
// the flag was passed so the weight profile keeps its say otherwise.
func (c *recommendCommander) options(cmd *cobra.Command) (app.Options, error) {
	opts := app.Options{
		GraphURI:     c.graphURI,
		TelemetryURL: c.telemetryURL,
		TelemetryDSN: c.telemetryDSN,
		Language:     c.language,
	}
	if cmd.Flags().Changed("target-level") {
		level, err := resolveTargetLevel(c.targetLevel)
		if err != nil {
			return app.Options{}, err
		}
		opts.TargetLevel = &level
	}
	if cmd.Flags().Changed("count") {
		opts.TopN = &c.topN
	}
	if cmd.Flags().Changed("slider") {
		opts.Slider = &c.slider
	}
	return opts, nil
}
