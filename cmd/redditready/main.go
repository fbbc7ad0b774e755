package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AmolDerickSoans/RedditReady/internal/config"
	"github.com/AmolDerickSoans/RedditReady/internal/observability"
)

var (
	configPath string
	logLevel   string
	dryRun     bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "redditready",
	Short: "Research a topic by posting to a subreddit and engaging with the replies",
	Long: `RedditReady runs research sessions against a subreddit.

A session profiles the community's writing style, publishes one generated
post, watches the thread for a fixed window while replying to the most
engaging comments, and stores a snapshot of everything it saw after each
check.

Use --dry-run to run against an in-memory sandbox instead of Reddit.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("dry-run") {
			cfg.Reddit.DryRun = dryRun
		}
		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}
		observability.Configure(cfg.Logging.Level)
		return cfg.Validate()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "use the in-memory sandbox and mock LLM")

	rootCmd.AddCommand(runCmd, serveCmd, showCmd, listCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
