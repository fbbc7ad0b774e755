package main

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmolDerickSoans/RedditReady/internal/app/research"
	"github.com/AmolDerickSoans/RedditReady/internal/config"
	"github.com/AmolDerickSoans/RedditReady/internal/domain"
)

func TestBuildAppDryRun(t *testing.T) {
	c := config.Default()
	c.Reddit.DryRun = true
	c.Storage.Backend = "memory"

	a, err := buildApp(context.Background(), c)
	require.NoError(t, err)
	defer a.close()

	assert.NotNil(t, a.orchestrator)
	assert.Equal(t, 4, a.settings.MaxRepliesPerThread)
}

func TestBuildAppRequiresRedditCredentials(t *testing.T) {
	c := config.Default()
	c.LLM.Provider = "mock"
	c.Storage.Backend = "memory"

	_, err := buildApp(context.Background(), c)
	assert.ErrorIs(t, err, domain.ErrConfig)
}

func TestExitErrorNamesPhase(t *testing.T) {
	err := exitError(&research.FailedError{
		Phase: domain.PhasePosting,
		Err:   fmt.Errorf("%w: banned", domain.ErrRejected),
	})
	assert.ErrorIs(t, err, domain.ErrRejected)
	assert.Equal(t, "research failed while posting: rejected by platform: banned", err.Error())
}
