package ui

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/bangumi/internal/column"
	"github.com/javiermolinar/bangumi/internal/guide"
)

func (a *App) columnsCmd() *cobra.Command {
	var tabName string

	cmd := &cobra.Command{
		Use:   "columns",
		Short: "List the columns of a tab",
		RunE: func(cmd *cobra.Command, _ []string) error {
			tab, err := a.resolveTab(tabName)
			if err != nil {
				return err
			}
			ds, err := a.snapshot(cmd.Context())
			if err != nil {
				return err
			}
			opts, err := a.guideOptions()
			if err != nil {
				return err
			}
			g := guide.BuildDays(tab, ds, nil, opts)
			PrintColumns(cmd.OutOrStdout(), tab, g.Columns)
			return nil
		},
	}

	cmd.Flags().StringVarP(&tabName, "tab", "t", "", "Tab to list (GR, BS, CS)")
	return cmd
}

// PrintColumns prints one line per column in guide order.
func PrintColumns(w io.Writer, tab column.Tab, columns []guide.Header) {
	fmt.Fprintf(w, "=== %s ===\n", formatHeader(tab.Name))
	if len(columns) == 0 {
		fmt.Fprintln(w, "No channels on this tab.")
		return
	}
	for _, c := range columns {
		services := ""
		if n := len(c.Services); n > 1 {
			services = formatMuted(fmt.Sprintf(" (%d services)", n))
		}
		fmt.Fprintf(w, "  %-14s %s%s\n", c.Key, c.Name, services)
	}
}
