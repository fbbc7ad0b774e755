package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/AmolDerickSoans/RedditReady/internal/adapters/llm"
	"github.com/AmolDerickSoans/RedditReady/internal/adapters/reddit"
	"github.com/AmolDerickSoans/RedditReady/internal/adapters/storage"
	"github.com/AmolDerickSoans/RedditReady/internal/app/agentflow"
	"github.com/AmolDerickSoans/RedditReady/internal/app/research"
	"github.com/AmolDerickSoans/RedditReady/internal/app/scoring"
	"github.com/AmolDerickSoans/RedditReady/internal/config"
	"github.com/AmolDerickSoans/RedditReady/internal/domain"
	"github.com/AmolDerickSoans/RedditReady/internal/observability"
)

// app holds everything a command needs. close releases the store.
type app struct {
	orchestrator *research.Orchestrator
	store        domain.DataStore
	settings     research.Settings
	closer       io.Closer
}

func (a *app) close() {
	if a.closer != nil {
		if err := a.closer.Close(); err != nil {
			observability.Logger().Warn("closing store failed", "error", err)
		}
	}
}

func openStore(ctx context.Context, c *config.Config) (domain.DataStore, io.Closer, error) {
	log := observability.WithFields("backend", c.Storage.Backend)
	store, closer, err := storage.Open(ctx, storage.Options{
		Backend:    c.Storage.Backend,
		Dir:        c.Storage.Dir,
		DSN:        c.Storage.DSN,
		GCPProject: c.Storage.GCPProject,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	log.Info("store ready")
	return store, closer, nil
}

func buildLLM(ctx context.Context, c *config.Config) (domain.LLMClient, error) {
	if c.Reddit.DryRun || strings.EqualFold(c.LLM.Provider, "mock") {
		observability.Logger().Info("using mock LLM client")
		return llm.NewMockLLM(), nil
	}
	observability.WithFields("model", c.LLM.Model).Info("using Gemini LLM client")
	return llm.NewGeminiClient(ctx, llm.GeminiConfig{
		APIKey:      c.LLM.APIKey,
		Project:     c.LLM.Project,
		Location:    c.LLM.Location,
		Model:       c.LLM.Model,
		Temperature: c.LLM.Temperature,
	})
}

type community interface {
	domain.CommunityReader
	domain.CommunityWriter
}

func buildCommunity(c *config.Config) (community, error) {
	if c.Reddit.DryRun {
		observability.Logger().Info("using Reddit sandbox")
		return reddit.NewSandbox(), nil
	}
	return reddit.NewClient(reddit.Credentials{
		ClientID:     c.Reddit.ClientID,
		ClientSecret: c.Reddit.ClientSecret,
		Username:     c.Reddit.Username,
		Password:     c.Reddit.Password,
		UserAgent:    c.Reddit.UserAgent,
	})
}

func buildApp(ctx context.Context, c *config.Config) (*app, error) {
	settings, err := c.Settings()
	if err != nil {
		return nil, err
	}
	genTimeout, err := c.GenerateTimeout()
	if err != nil {
		return nil, err
	}

	store, closer, err := openStore(ctx, c)
	if err != nil {
		return nil, err
	}

	llmClient, err := buildLLM(ctx, c)
	if err != nil {
		_ = closer.Close()
		return nil, err
	}
	comm, err := buildCommunity(c)
	if err != nil {
		_ = closer.Close()
		return nil, err
	}

	sentiment := scoring.NewLexiconScorer()
	orch := research.New(settings, research.Deps{
		Reader:    comm,
		Writer:    comm,
		Store:     store,
		Generator: agentflow.NewContentGenerator(llmClient, genTimeout, agentflow.WithRetryPolicy(settings.Retry)),
		Profiler:  agentflow.NewStyleProfiler(sentiment),
		Sentiment: sentiment,
	})

	return &app{
		orchestrator: orch,
		store:        store,
		settings:     settings,
		closer:       closer,
	}, nil
}

// exitError maps a session failure to a short message for the terminal.
func exitError(err error) error {
	var failed *research.FailedError
	if errors.As(err, &failed) {
		return fmt.Errorf("research failed while %s: %w", failed.Phase, failed.Err)
	}
	return err
}
