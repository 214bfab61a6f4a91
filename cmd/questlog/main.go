package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"questlog/internal/app"
	"questlog/internal/config"
	"questlog/internal/update"
)

var version = "dev"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "questlog failed: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string
	var dbPath string
	var tickSeconds int

	root := &cobra.Command{
		Use:           "questlog",
		Short:         "Gamified task manager for the terminal",
		Long:          "questlog tracks tasks with deadlines and turns completions into XP, levels, streaks and achievements. Deadline reminders fire through desktop notifications.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(configPath, dbPath, tickSeconds)
			if err != nil {
				return err
			}

			a, err := buildApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			a.Start()

			program := tea.NewProgram(update.NewModel(a))
			_, runErr := program.Run()

			if err := a.Close(context.Background()); err != nil && runErr == nil {
				runErr = err
			}
			return runErr
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "path to questlog.toml")
	root.PersistentFlags().StringVar(&dbPath, "db", "", "path to the sqlite database")
	root.PersistentFlags().IntVar(&tickSeconds, "tick", 0, "scheduler tick interval in seconds")

	root.AddCommand(newStatsCommand(&configPath, &dbPath, &tickSeconds))
	return root
}

func newStatsCommand(configPath, dbPath *string, tickSeconds *int) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print level, XP and streak without starting the TUI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath, *dbPath, *tickSeconds)
			if err != nil {
				return err
			}
			a, err := buildApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer func() { _ = a.Close(context.Background()) }()

			stats := a.Stats()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "level:           %d\n", stats.Level)
			fmt.Fprintf(out, "xp:              %d / %d\n", stats.XP, stats.XPToNextLevel)
			fmt.Fprintf(out, "tasks completed: %d\n", stats.TasksCompleted)
			fmt.Fprintf(out, "streak:          %d (best %d)\n", stats.CurrentStreak, stats.LongestStreak)
			fmt.Fprintf(out, "productivity:    %d%%\n", stats.Productivity)
			for _, ach := range a.Achievements() {
				if ach.Unlocked() {
					fmt.Fprintf(out, "achievement:     %s %s\n", ach.Icon, ach.Title)
				}
			}
			return nil
		},
	}
}

func loadConfig(path, dbPath string, tickSeconds int) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if tickSeconds > 0 {
		cfg.TickSeconds = tickSeconds
	}
	return cfg, cfg.Validate()
}

func buildApp(ctx context.Context, cfg config.Config) (*app.App, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o750); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return app.New(ctx, cfg, app.WithLogger(newLogger(cfg)))
}

// newLogger writes alongside the database; stdout belongs to the TUI.
func newLogger(cfg config.Config) *slog.Logger {
	logPath := filepath.Join(filepath.Dir(cfg.DBPath), "questlog.log")
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640)
	if err != nil {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelInfo}))
}
