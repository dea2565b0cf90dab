package ui

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/bangumi/internal/epg"
	"github.com/javiermolinar/bangumi/internal/guide"
)

func (a *App) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <program-id>",
		Short: "Show the details of a program",
		Long: `Display the full details of a stored program: air time, fee,
genre, description and extended fields.

Example:
  bangumi show 3273601024`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid program id %q", args[0])
			}
			repo, err := a.repository()
			if err != nil {
				return err
			}
			loc, err := a.config.Guide.Location()
			if err != nil {
				return err
			}

			p, err := repo.GetProgram(cmd.Context(), id)
			if errors.Is(err, epg.ErrProgramNotFound) {
				return fmt.Errorf("program %d not found", id)
			}
			if err != nil {
				return fmt.Errorf("fetching program: %w", err)
			}

			PrintDetail(cmd.OutOrStdout(), guide.NewDetail(*p, loc, nil))
			return nil
		},
	}
}
