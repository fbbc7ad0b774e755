package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AmolDerickSoans/RedditReady/internal/app/records"
	"github.com/AmolDerickSoans/RedditReady/internal/app/research"
	"github.com/AmolDerickSoans/RedditReady/internal/domain"
	"github.com/AmolDerickSoans/RedditReady/internal/observability"
)

var (
	runPrompt        string
	runSubreddit     string
	runResearchID    string
	runStyleTemplate string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one research session in the foreground",
	Long: `Runs a full session: profile the community, post, monitor, finalize.

Interrupting with Ctrl-C stops monitoring early; the session still
finalizes and stores its last snapshot.

Example:
  redditready run --subreddit gadgets --prompt "How long should a phone battery last?"`,
	RunE: runResearch,
}

func init() {
	runCmd.Flags().StringVarP(&runPrompt, "prompt", "p", "", "research topic")
	runCmd.Flags().StringVarP(&runSubreddit, "subreddit", "s", "", "target subreddit without the r/ prefix")
	runCmd.Flags().StringVar(&runResearchID, "id", "", "research id to use instead of a generated one")
	runCmd.Flags().StringVar(&runStyleTemplate, "style-template", "", "style guide used instead of the one derived from the community")
	_ = runCmd.MarkFlagRequired("prompt")
	_ = runCmd.MarkFlagRequired("subreddit")
}

func runResearch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	id, err := a.orchestrator.Run(ctx, research.Request{
		Prompt:        runPrompt,
		Subreddit:     runSubreddit,
		ResearchID:    runResearchID,
		StyleTemplate: runStyleTemplate,
		OnPhase: func(id domain.ResearchID, phase domain.Phase) {
			observability.WithFields("research_id", id).Debug("phase", "phase", phase)
		},
	})
	if err != nil {
		return exitError(err)
	}

	st, err := a.store.LoadSnapshot(context.WithoutCancel(ctx), id)
	if err != nil {
		return err
	}
	return printJSON(cmd, records.Summarize(st))
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
