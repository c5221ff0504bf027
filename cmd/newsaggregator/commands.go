package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"NewsAggregator/internal/app"
	"NewsAggregator/internal/config"
	"NewsAggregator/internal/domain"
	"NewsAggregator/internal/logging"
	"NewsAggregator/internal/report"
)

func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:   "newsaggregator",
		Short: "Aggregate, score and summarize news for a topic",
		Long: `newsaggregator searches news providers for a topic, extracts the full
article text, scores every article's credibility and asks a text-generation
service for a sourced summary.

Example usage:
  newsaggregator run "quantum computing"
  newsaggregator watch "electric vehicles" --interval 30m
  newsaggregator serve
  newsaggregator history --limit 5`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "override LOG_LEVEL (debug, info, warn, error)")

	build := func(overrides ...func(*config.Config)) (*app.Application, error) {
		cfg := config.Load()
		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}
		for _, override := range overrides {
			override(&cfg)
		}
		return app.New(cfg, logging.New(cfg.Logging.Level, cfg.Logging.Format))
	}

	root.AddCommand(newRunCmd(build), newWatchCmd(build), newServeCmd(build), newHistoryCmd(build))
	return root
}

type appBuilder func(overrides ...func(*config.Config)) (*app.Application, error)

func newRunCmd(build appBuilder) *cobra.Command {
	var (
		exportPath string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "run <topic>",
		Short: "Produce one digest for a topic",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := build()
			if err != nil {
				return err
			}
			defer application.Close()

			state, err := application.Digest(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(state); err != nil {
					return err
				}
			} else {
				printRun(cmd.OutOrStdout(), state, time.Now())
			}

			if exportPath != "" {
				if err := exportRun(exportPath, state); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render("exported to "+exportPath))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&exportPath, "export", "", "write a plain-text copy of the digest to this file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw run as JSON")
	return cmd
}

func newWatchCmd(build appBuilder) *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch <topic>",
		Short: "Re-run a topic on a fixed interval until interrupted",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := build(func(cfg *config.Config) {
				if interval > 0 {
					cfg.Watch.Interval = interval
				}
			})
			if err != nil {
				return err
			}
			defer application.Close()

			out := cmd.OutOrStdout()
			return application.Watch(cmd.Context(), strings.Join(args, " "), func(state domain.RunState) {
				printRun(out, state, time.Now())
			})
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 0, "override the configured watch interval")
	return cmd
}

func newServeCmd(build appBuilder) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the digest HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := build()
			if err != nil {
				return err
			}
			defer application.Close()
			return application.Serve(cmd.Context())
		},
	}
}

func newHistoryCmd(build appBuilder) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List archived runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := build()
			if err != nil {
				return err
			}
			defer application.Close()

			runs, err := application.History(cmd.Context(), limit)
			if err != nil {
				return err
			}
			printHistory(cmd.OutOrStdout(), runs)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "number of runs to show")
	return cmd
}

func exportRun(path string, state domain.RunState) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export: %w", err)
	}
	if err := report.Export(f, state, time.Now()); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
