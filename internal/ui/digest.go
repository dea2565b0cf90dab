package ui

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/bangumi/internal/llm"
)

func (a *App) digestCmd() *cobra.Command {
	var (
		tabName    string
		dayArg     string
		highlights int
	)

	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Summarize a day with an LLM",
		Long: `Ask the configured LLM for a short overview of one day of a tab,
or for a list of programs worth watching with --highlights.

Example:
  bangumi digest --tab GR --day tomorrow
  bangumi digest --highlights 5`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, day, err := a.buildDay(cmd.Context(), tabName, dayArg)
			if err != nil {
				return err
			}
			client, err := llm.NewClient(a.config.LLM.Provider, a.config.LLM.Model, a.config.LLM.BaseURL)
			if err != nil {
				return fmt.Errorf("creating LLM client: %w", err)
			}
			d := llm.NewDigester(client)
			out := cmd.OutOrStdout()

			fmt.Fprintf(out, "=== %s %s ===\n\n", formatHeader(g.Tab.Name), formatHeader(day.Label))
			if highlights > 0 {
				picks, err := d.PickHighlights(cmd.Context(), g, day, highlights)
				if err != nil {
					return err
				}
				PrintHighlights(out, picks)
				return nil
			}

			summary, err := d.SummarizeDay(cmd.Context(), g, day)
			if err != nil {
				return err
			}
			PrintInsightWrapped(out, summary, min(outputWidth(out), 100))
			return nil
		},
	}

	cmd.Flags().StringVarP(&tabName, "tab", "t", "", "Tab to summarize (GR, BS, CS)")
	cmd.Flags().StringVarP(&dayArg, "day", "d", "", "Day to summarize (default today)")
	cmd.Flags().IntVar(&highlights, "highlights", 0, "Pick up to N programs instead of summarizing")
	return cmd
}

// PrintHighlights prints recommended programs, one per entry.
func PrintHighlights(w io.Writer, picks []llm.Highlight) {
	if len(picks) == 0 {
		fmt.Fprintln(w, "No highlights.")
		return
	}
	for i, h := range picks {
		fmt.Fprintf(w, "  %d. %s  %s  %s\n", i+1, formatStats(h.Start), formatHeader(h.Title), formatMuted(h.Channel))
		if h.Reason != "" {
			wrapAndPrint(w, h.Reason, "     ", 72, formatInsight)
		}
		fmt.Fprintf(w, "     %s\n", formatMuted(fmt.Sprintf("bangumi show %d", h.ProgramID)))
	}
}
