package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yungbote/lexipath/internal/domain"
	"github.com/yungbote/lexipath/internal/recommender"
)

var (
	rankStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	scoreStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	levelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
)

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

func printDegradations(degraded []string) {
	for _, name := range degraded {
		fmt.Println(warnStyle.Render(fmt.Sprintf("warning: %s timed out, showing best-effort results", name)))
	}
}

func printResult(res *recommender.Result) {
	printDegradations(res.Degraded)

	fmt.Printf("\n%s %s", headerStyle.Render("Regime:"), levelStyle.Render(res.Regime.String()))
	if label := res.FrontierLabel(); label != "" {
		fmt.Printf("   %s %s", headerStyle.Render("Frontier:"), levelStyle.Render(label))
	}
	fmt.Printf("   %s\n\n", dimStyle.Render(fmt.Sprintf("%d nodes, %d reviewed", len(res.Nodes), len(res.Mastery))))

	fmt.Printf("%s\n\n", headerStyle.Render("Study next"))
	if len(res.Exploratory) == 0 {
		fmt.Printf("  %s\n\n", dimStyle.Render("(nothing to recommend)"))
	}
	for i, rec := range res.Exploratory {
		printExploratory(i+1, rec)
	}

	if len(res.Remedial) > 0 {
		fmt.Printf("%s\n\n", headerStyle.Render("Needs review"))
		for i, rec := range res.Remedial {
			printRemedial(i+1, rec)
		}
	}
}

func printExploratory(rank int, rec domain.Recommendation) {
	fmt.Printf("  %s  %s  %s",
		rankStyle.Render(fmt.Sprintf("#%d", rank)),
		scoreStyle.Render(fmt.Sprintf("score: %.3f", rec.Score)),
		labelStyle.Render(rec.Label),
	)
	if rec.Level != "" {
		fmt.Printf("  %s", levelStyle.Render(rec.Level))
	}
	fmt.Println()
	fmt.Printf("  %s\n\n",
		dimStyle.Render(fmt.Sprintf("%s  mastery %.2f  prereqs %.2f", rec.NodeID, rec.Mastery, rec.PrereqMastery)),
	)
}

func printRemedial(rank int, rec domain.Recommendation) {
	fmt.Printf("  %s  %s %s  %s",
		rankStyle.Render(fmt.Sprintf("#%d", rank)),
		scoreStyle.Render(fmt.Sprintf("mastery: %.2f", rec.Mastery)),
		masteryBar(rec.Mastery, 10),
		labelStyle.Render(rec.Label),
	)
	if rec.Level != "" {
		fmt.Printf("  %s", levelStyle.Render(rec.Level))
	}
	fmt.Println()
	fmt.Printf("  %s\n", dimStyle.Render(rec.NodeID))
	if len(rec.MissingPrereqs) > 0 {
		fmt.Printf("  %s\n", dimStyle.Render("missing: "+strings.Join(rec.MissingPrereqs, ", ")))
	}
	fmt.Println()
}

func masteryBar(value float64, width int) string {
	filled := min(max(int(value*float64(width)), 0), width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
