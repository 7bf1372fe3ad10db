package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/robby/epicreport/internal/auth"
	"github.com/robby/epicreport/internal/config"
	"github.com/robby/epicreport/internal/jira"
	"github.com/robby/epicreport/internal/logger"
	"github.com/robby/epicreport/internal/pipeline"
	"github.com/robby/epicreport/internal/tui"
)

// envBaseURL supplies --base-url when the flag is not given.
const envBaseURL = "JIRA_BASE_URL"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(logOut io.Writer) *cobra.Command {
	cfg := config.Default()

	exportRun := func(cmd *cobra.Command, args []string) error {
		return runExport(cmd.Context(), &cfg, logOut)
	}

	rootCmd := &cobra.Command{
		Use:   "epicreport",
		Short: "Export Jira epics with their stories and SCRs to CSV",
		Long: `epicreport fetches specification clarification requests, stories and epics
from Jira, links every story and SCR to its parent epic, and writes one row per
child to a CSV file.

Children whose epic is outside the time window are left out of the report, as
are epics without children.

Authentication:
  1. Flags: --username and --password
  2. Environment variables: JIRA_USERNAME and JIRA_PASSWORD`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          exportRun,
	}
	cfg.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(&cobra.Command{
		Use:   "export",
		Short: "Write the report to the output CSV (default command)",
		Args:  cobra.NoArgs,
		RunE:  exportRun,
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "preview",
		Short: "Browse the report rows in an interactive table instead of writing the CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(cmd.Context(), &cfg)
		},
	})

	return rootCmd
}

// setup validates cfg, resolves credentials and builds the Jira client.
func setup(cfg *config.Config, log zerolog.Logger) (*jira.Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = os.Getenv(envBaseURL)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	creds, err := auth.Resolve(
		&auth.StaticProvider{Username: cfg.JiraUsername, Password: cfg.JiraPassword},
		&auth.EnvProvider{},
	)
	if err != nil {
		return nil, err
	}

	return jira.New(*cfg, creds, log), nil
}

func runExport(ctx context.Context, cfg *config.Config, logOut io.Writer) error {
	log, err := logger.New(logOut, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	client, err := setup(cfg, log)
	if err != nil {
		return err
	}

	stats, err := pipeline.New(*cfg, client, log).Export(ctx, cfg.OutputPath)
	if err != nil {
		return err
	}

	log.Info().
		Str("path", cfg.OutputPath).
		Int("epics", stats.Epics).
		Int("stories", stats.Stories).
		Int("scrs", stats.Scrs).
		Int("rows", stats.Rows).
		Int("dropped", stats.Dropped).
		Msg("report written")
	return nil
}

func runPreview(ctx context.Context, cfg *config.Config) error {
	// Log lines would tear the alternate screen apart
	log := zerolog.Nop()

	client, err := setup(cfg, log)
	if err != nil {
		return err
	}

	p := pipeline.New(*cfg, client, log)
	model := tui.NewPreviewModel(ctx, p.Run, client.BrowseURL)

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}
