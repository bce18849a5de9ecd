package cli

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/yungbote/lexipath/internal/graph"
	"github.com/yungbote/lexipath/internal/platform/neo4jdb"
)

const nodesTimeout = 30 * time.Second

type nodesCommander struct {
	graphURI string
	language string
	jsonOut  bool
}

const nodesLongDesc string = `Dump the knowledge graph nodes for a language scope.

Fetches every learnable node with its tier attributes and prerequisite edges,
exactly as the recommender sees them. Useful for checking what the graph
holds before trusting a recommendation.

Example:
  lexipath nodes --lang de
  lexipath nodes --lang zh --json`

const nodesShortDesc string = "Dump knowledge graph nodes"

func newNodesCmd() *cobra.Command {
	cmder := &nodesCommander{}

	cmd := &cobra.Command{
		Use:   "nodes",
		Short: nodesShortDesc,
		Long:  nodesLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run()
		},
	}

	cmd.Flags().StringVar(&cmder.graphURI, "graph-uri", "", "Knowledge graph bolt URI (default NEO4J_URI)")
	cmd.Flags().StringVarP(&cmder.language, "lang", "l", "", "Language scope (default LEXIPATH_LANG)")
	cmd.Flags().BoolVar(&cmder.jsonOut, "json", false, "Emit the node map as JSON")

	return cmd
}

func (c *nodesCommander) run() error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	neoCfg := neo4jdb.ConfigFromEnv()
	if c.graphURI != "" {
		neoCfg.URI = c.graphURI
	}
	neo, err := neo4jdb.New(neoCfg, log)
	if err != nil {
		return fmt.Errorf("connecting to the knowledge graph: %w", err)
	}
	defer neo.Close(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), nodesTimeout)
	defer cancel()

	scope := scopeFor(c.language, log)
	nodes, err := graph.NewNeo4jService(neo, log).FetchNodes(ctx, scope)
	if err != nil {
		return fmt.Errorf("fetching nodes: %w", err)
	}

	if c.jsonOut {
		return printJSON(nodes)
	}

	ids := make([]string, 0, len(nodes))
	for id := range nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Printf("\n%s %s\n\n", headerStyle.Render("Nodes:"), dimStyle.Render(fmt.Sprintf("%d in scope", len(nodes))))
	for _, id := range ids {
		node := nodes[id]
		fmt.Printf("  %s  %s", labelStyle.Render(node.Label), dimStyle.Render(id))
		if lvl := nodeLevel(node); lvl != "" {
			fmt.Printf("  %s", levelStyle.Render(lvl))
		}
		if n := len(node.Prerequisites); n > 0 {
			fmt.Printf("  %s", dimStyle.Render(fmt.Sprintf("%d prereqs", n)))
		}
		fmt.Println()
	}
	return nil
}
