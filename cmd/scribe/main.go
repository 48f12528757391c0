// ABOUTME: Entry point for the scribe message store CLI
// ABOUTME: Provides serve, stats, channels, prune and init subcommands

package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/2389/scribe/internal/config"
	"github.com/2389/scribe/internal/retention"
	"github.com/2389/scribe/internal/store"
)

// Version is set by goreleaser at build time.
var version = "dev"

const banner = `
               _ _
 ___  ___ _ __(_) |__   ___
/ __|/ __| '__| | '_ \ / _ \
\__ \ (__| |  | | |_) |  __/
|___/\___|_|  |_|_.__/ \___|
`

var configPath string

// getConfigPath returns the path to the scribe config file.
// Priority: --config flag > SCRIBE_CONFIG env var > XDG_CONFIG_HOME/scribe/scribe.yaml
func getConfigPath() string {
	if configPath != "" {
		return configPath
	}
	if envPath := os.Getenv("SCRIBE_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "scribe.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "scribe", "scribe.yaml")
}

// getDataPath returns the default scribe data directory.
func getDataPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "data" // fallback
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	return filepath.Join(dataDir, "scribe")
}

func main() {
	root := &cobra.Command{
		Use:           "scribe",
		Short:         "Message and summary store for chat bots",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")

	root.AddCommand(newServeCmd())
	root.AddCommand(newStatsCmd())
	root.AddCommand(newChannelsCmd())
	root.AddCommand(newPruneCmd())
	root.AddCommand(newInitCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads the config file and installs the configured logger as
// the process default.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	slog.SetDefault(setupLogger(cfg.Logging))
	return cfg, nil
}

func openStore(cfg *config.Config) (*store.SQLiteStore, error) {
	s, err := store.NewSQLiteStore(cfg.Database.Dir, cfg.Database.File)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	return s, nil
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Open the store and run the retention scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			cyan := color.New(color.FgCyan)
			gray := color.New(color.FgHiBlack)
			green := color.New(color.FgGreen)

			cyan.Print(banner)
			gray.Printf("    version: %s\n\n", version)
			green.Print("    ▶ ")
			fmt.Printf("Config:    %s\n", getConfigPath())
			green.Print("    ▶ ")
			fmt.Printf("Database:  %s\n", cfg.Database.Path())
			if cfg.Retention.Enabled {
				green.Print("    ▶ ")
				fmt.Printf("Retention: %s (max age %s)\n", cfg.Retention.Schedule, cfg.Retention.MaxAge)
			}
			fmt.Println()

			s, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			if cfg.Retention.Enabled {
				pruner := retention.New(s, cfg.Retention, slog.Default())
				if err := pruner.Start(); err != nil {
					return err
				}
				defer pruner.Stop()
			} else {
				slog.Info("retention disabled; store is read/write only")
			}

			<-ctx.Done()
			return nil
		},
	}
}

func newStatsCmd() *cobra.Command {
	var author string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print message counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			s, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			ctx := cmd.Context()
			fmt.Printf("messages: %d\n", s.MessageCount(ctx))
			if author != "" {
				fmt.Printf("messages from %s: %d\n", author, s.UserMessageCount(ctx, author))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&author, "author", "", "also print the count for one author id")
	return cmd
}

func newChannelsCmd() *cobra.Command {
	var hours int

	cmd := &cobra.Command{
		Use:   "channels",
		Short: "List channels with recent activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			s, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			channels := s.ActiveChannels(cmd.Context(), hours)
			if len(channels) == 0 {
				fmt.Printf("no active channels in the last %d hours\n", hours)
				return nil
			}

			bold := color.New(color.Bold)
			bold.Printf("%-24s %-24s %-20s %s\n", "CHANNEL", "NAME", "GUILD", "MESSAGES")
			for _, ch := range channels {
				guild := ch.GuildName
				if guild == "" {
					guild = "-"
				}
				fmt.Printf("%-24s %-24s %-20s %d\n", ch.ChannelID, ch.ChannelName, guild, ch.MessageCount)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&hours, "hours", 24, "trailing activity window in hours")
	return cmd
}

func newPruneCmd() *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete messages older than the given age",
		RunE: func(cmd *cobra.Command, args []string) error {
			if olderThan <= 0 {
				return fmt.Errorf("--older-than must be a positive duration")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			s, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			cutoff := time.Now().Add(-olderThan)
			deleted := s.DeleteMessagesOlderThan(cmd.Context(), cutoff)
			fmt.Printf("deleted %d messages older than %s\n", deleted, cutoff.Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 0, "delete messages older than this duration (e.g. 720h)")
	return cmd
}

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputPath := getConfigPath()

			if _, err := os.Stat(outputPath); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", outputPath)
			}

			if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
				return fmt.Errorf("creating config directory: %w", err)
			}

			content := fmt.Sprintf(`# scribe configuration
# Generated by scribe init

database:
  dir: "%s"
  file: "discord_messages.db"

logging:
  level: "info"
  format: "text"

retention:
  enabled: false
  max_age: "720h"
  schedule: "0 3 * * *"
`, getDataPath())

			if err := os.WriteFile(outputPath, []byte(content), 0644); err != nil {
				return fmt.Errorf("writing config file: %w", err)
			}

			fmt.Printf("Config written to %s\n", outputPath)
			fmt.Println("\nTo start the store:")
			fmt.Println("  scribe serve")
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}
