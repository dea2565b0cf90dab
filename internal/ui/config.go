package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/bangumi/internal/config"
	"github.com/javiermolinar/bangumi/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  bangumi config`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInteractive(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func runConfigInteractive(in io.Reader, out io.Writer) error {
	configPath := config.DefaultConfigPath()
	fmt.Fprintf(out, "Config file: %s\n\n", configPath)

	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	_, fileErr := os.Stat(configPath)
	if os.IsNotExist(fileErr) {
		fmt.Fprintln(out, "No config file found. Creating with default values...")
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(out, "Created %s\n\n", configPath)
	}

	printConfig(out, cfg)

	reader := bufio.NewReader(in)
	if !promptYesNo(reader, out, "\nWould you like to edit the configuration?") {
		return nil
	}

	editConfig(reader, out, cfg)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(out, "\nConfiguration saved!")
	return nil
}

// editConfig prompts for every user-facing setting, keeping the current value on empty input.
func editConfig(reader *bufio.Reader, out io.Writer, cfg *config.Config) {
	cfg.Source.ServicesURL = promptValue(reader, out, "Services URL or file", cfg.Source.ServicesURL)
	cfg.Source.ChannelsURL = promptValue(reader, out, "Channels URL or file", cfg.Source.ChannelsURL)
	cfg.Source.ProgramsURL = promptValue(reader, out, "Programs URL or file", cfg.Source.ProgramsURL)
	cfg.Guide.Days = promptInt(reader, out, "Days to show", cfg.Guide.Days)
	cfg.Guide.Timezone = promptValue(reader, out, "Time zone", cfg.Guide.Timezone)
	cfg.Guide.InitialTab = strings.ToUpper(promptValue(reader, out, "Initial tab (GR, BS, CS)", cfg.Guide.InitialTab))
	cfg.Guide.LogoURLTemplate = promptValue(reader, out, "Logo URL template (empty to disable)", cfg.Guide.LogoURLTemplate)
	cfg.Storage.DBPath = promptValue(reader, out, "Database path", cfg.Storage.DBPath)
	cfg.Server.Addr = promptValue(reader, out, "API listen address", cfg.Server.Addr)
	cfg.LLM.Provider = promptValue(reader, out, "LLM provider (ollama, lmstudio, openai)", cfg.LLM.Provider)
	cfg.LLM.Model = promptValue(reader, out, "LLM model", cfg.LLM.Model)
	cfg.LLM.BaseURL = promptValue(reader, out, "LLM base URL", cfg.LLM.BaseURL)
	cfg.UI.Theme = promptTheme(reader, out, cfg.UI.Theme)
}

func printConfig(out io.Writer, cfg *config.Config) {
	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out, "──────────────────────")
	fmt.Fprintln(out, "[source]")
	fmt.Fprintf(out, "  services_url     = %s\n", cfg.Source.ServicesURL)
	fmt.Fprintf(out, "  channels_url     = %s\n", cfg.Source.ChannelsURL)
	fmt.Fprintf(out, "  programs_url     = %s\n", cfg.Source.ProgramsURL)
	fmt.Fprintf(out, "  attempts         = %d\n", cfg.Source.Attempts)
	fmt.Fprintf(out, "  timeout          = %s\n", cfg.Source.Timeout)
	fmt.Fprintln(out, "\n[guide]")
	fmt.Fprintf(out, "  days             = %d\n", cfg.Guide.Days)
	fmt.Fprintf(out, "  timezone         = %s\n", cfg.Guide.Timezone)
	fmt.Fprintf(out, "  px_per_minute    = %g\n", cfg.Guide.PxPerMinute)
	fmt.Fprintf(out, "  initial_tab      = %s\n", cfg.Guide.InitialTab)
	if cfg.Guide.LogoURLTemplate != "" {
		fmt.Fprintf(out, "  logo_url_template = %s\n", cfg.Guide.LogoURLTemplate)
	}
	fmt.Fprintln(out, "\n[storage]")
	fmt.Fprintf(out, "  db_path          = %s\n", cfg.Storage.DBPath)
	fmt.Fprintln(out, "\n[server]")
	fmt.Fprintf(out, "  addr             = %s\n", cfg.Server.Addr)
	fmt.Fprintln(out, "\n[log]")
	fmt.Fprintf(out, "  level            = %s\n", cfg.Log.Level)
	if cfg.Log.File != "" {
		fmt.Fprintf(out, "  file             = %s\n", cfg.Log.File)
	}
	fmt.Fprintln(out, "\n[llm]")
	fmt.Fprintf(out, "  provider         = %s\n", cfg.LLM.Provider)
	fmt.Fprintf(out, "  model            = %s\n", cfg.LLM.Model)
	fmt.Fprintf(out, "  base_url         = %s\n", cfg.LLM.BaseURL)
	fmt.Fprintln(out, "\n[ui]")
	fmt.Fprintf(out, "  theme            = %s\n", cfg.UI.Theme)
}

func promptYesNo(reader *bufio.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(reader *bufio.Reader, out io.Writer, label, current string) string {
	if current == "" {
		fmt.Fprintf(out, "  %s: ", label)
	} else {
		fmt.Fprintf(out, "  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptInt(reader *bufio.Reader, out io.Writer, label string, current int) int {
	for {
		value := promptValue(reader, out, label, strconv.Itoa(current))
		n, err := strconv.Atoi(value)
		if err == nil {
			return n
		}
		fmt.Fprintf(out, "  Invalid number %q\n", value)
	}
}

func promptTheme(reader *bufio.Reader, out io.Writer, current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for {
		value := strings.ToLower(promptValue(reader, out, label, current))
		if theme.IsAvailable(value) {
			return value
		}
		fmt.Fprintf(out, "  Invalid theme %q. Available: %s\n", value, options)
	}
}
