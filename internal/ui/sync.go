package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/bangumi/internal/logging"
	"github.com/javiermolinar/bangumi/internal/source"
)

func (a *App) syncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Fetch the EPG and store a snapshot",
		Long: `Fetch services, channels and programs from the configured source
and replace the local snapshot.

Sources may be HTTP URLs or local JSON files.

Example:
  bangumi sync`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.config.HasSource() {
				return fmt.Errorf("%w: set [source] in %s", source.ErrMissingEndpoints, "config.toml")
			}
			repo, err := a.repository()
			if err != nil {
				return err
			}

			loader := source.NewLoader(source.Endpoints{
				Services: a.config.Source.ServicesURL,
				Channels: a.config.Source.ChannelsURL,
				Programs: a.config.Source.ProgramsURL,
			}, a.config.Source.TimeoutDuration(), logging.Component(a.logger, "source"))
			loader.Attempts = a.config.Source.Attempts

			ds, err := loader.Load(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetching guide data: %w", err)
			}
			if err := repo.SaveDataset(cmd.Context(), ds); err != nil {
				return fmt.Errorf("saving snapshot: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Synced %s services, %s channels, %s programs\n",
				formatStats(fmt.Sprint(len(ds.Services))),
				formatStats(fmt.Sprint(len(ds.Channels))),
				formatStats(fmt.Sprint(len(ds.Programs))))
			return nil
		},
	}
}
