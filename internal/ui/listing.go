package ui

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/bangumi/internal/guide"
)

func (a *App) guideCmd() *cobra.Command {
	var (
		tabName   string
		dayArg    string
		columnKey string
		width     int
	)

	cmd := &cobra.Command{
		Use:   "guide",
		Short: "Print one day of a tab",
		Long: `Print the programs of one day, column by column.

Parallel airings in the same column are marked with a lane bar, and
the program on air right now is marked with ●.

Day can be today, tomorrow, +N, a weekday name or YYYY-MM-DD.

Example:
  bangumi guide --tab BS --day tomorrow
  bangumi guide --column GR-27`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, day, err := a.buildDay(cmd.Context(), tabName, dayArg)
			if err != nil {
				return err
			}
			if columnKey != "" {
				g, day, err = onlyColumn(g, day, columnKey)
				if err != nil {
					return err
				}
			}
			PrintDay(cmd.OutOrStdout(), g, day, RowOpts{
				Now:        a.now(),
				TitleWidth: width,
				ShowLanes:  true,
			})
			return nil
		},
	}

	cmd.Flags().StringVarP(&tabName, "tab", "t", "", "Tab to show (GR, BS, CS)")
	cmd.Flags().StringVarP(&dayArg, "day", "d", "", "Day to show (default today)")
	cmd.Flags().StringVarP(&columnKey, "column", "c", "", "Only show the column with this key")
	cmd.Flags().IntVarP(&width, "width", "w", 0, "Title width (default fits the terminal)")
	return cmd
}

// onlyColumn narrows a built day to a single column.
func onlyColumn(g *guide.Guide, day *guide.Day, key string) (*guide.Guide, *guide.Day, error) {
	for i, c := range day.Columns {
		if !strings.EqualFold(c.Key, key) {
			continue
		}
		ng := *g
		ng.Columns = []guide.Header{g.Columns[i]}
		nd := *day
		nd.Columns = []guide.ColumnSchedule{c}
		return &ng, &nd, nil
	}
	return nil, nil, fmt.Errorf("%w: %s", ErrUnknownColumn, key)
}
