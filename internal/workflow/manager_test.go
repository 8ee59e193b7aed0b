package workflow_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"samplesort/internal/aifallback"
	"samplesort/internal/classification"
	"samplesort/internal/pack"
	"samplesort/internal/review"
	"samplesort/internal/services"
	"samplesort/internal/testsupport"
	"samplesort/internal/workflow"
)

func fixturePacks() []pack.Pack {
	return []pack.Pack{
		testsupport.NewPack("hardstyle", "Hardstyle Euphoria",
			testsupport.WithTags("hardstyle", "kicks"),
			testsupport.WithFolders(20, "Kicks", "Screeches"),
			testsupport.WithFlags(false, true, false),
		),
		testsupport.NewPack("techno", "Techno Tools",
			testsupport.WithFolders(12, "Kicks", "Hats"),
			testsupport.WithFlags(true, false, false),
		),
		testsupport.NewPack("mystery", "Mystery Sounds",
			testsupport.WithFolders(5, "Misc"),
		),
	}
}

func newManager(t *testing.T, opts ...workflow.ManagerOption) *workflow.Manager {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	mgr, err := workflow.NewManager(cfg, nil, opts...)
	require.NoError(t, err)
	return mgr
}

func TestExecuteRunsEveryStep(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenReview(t, cfg)
	mgr, err := workflow.NewManager(cfg, nil, workflow.WithReviewStore(store))
	require.NoError(t, err)

	run, err := mgr.Execute(context.Background(), fixturePacks())
	require.NoError(t, err)

	assert.NotEmpty(t, run.ID)
	assert.Equal(t, workflow.AllSteps, run.Steps)
	assert.Empty(t, run.Failures)
	assert.False(t, run.FinishedAt.Before(run.StartedAt))

	require.NotNil(t, run.Result)
	classified := run.Result.Classifications()
	require.Contains(t, classified, "hardstyle")
	assert.Equal(t, "Hardstyle", classified["hardstyle"].Style)
	assert.Contains(t, classified, "techno")
	assert.Equal(t, 1, run.Result.Stats.Quarantined)

	require.NotNil(t, run.Matrix)
	assert.False(t, run.Matrix.Empty())

	require.NotEmpty(t, run.Clusters)
	var kicks bool
	for _, g := range run.FusionGroups {
		if g.CanonicalName != "Kicks" {
			continue
		}
		kicks = true
		assert.Len(t, g.Sources, 2)
		assert.Equal(t, 32, g.ExpectedFileCount)
	}
	assert.True(t, kicks, "shared Kicks folders should fuse")

	require.NotEmpty(t, run.Proposals)
	assert.True(t, run.Proposals[0].Recommended)

	entries, err := store.ListQuarantine(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "mystery", entries[0].PackID)
	assert.Equal(t, classification.ReasonNoTaxonomicMatch, entries[0].Reason)
	assert.Equal(t, run.ID, entries[0].RunID)
}

func TestExecuteRecordsProposalFailureAndKeepsClassifications(t *testing.T) {
	mgr := newManager(t)
	packs := []pack.Pack{
		testsupport.NewPack("a", "Mystery A", testsupport.WithFolders(3, "Kicks")),
		testsupport.NewPack("b", "Mystery B", testsupport.WithFolders(3, "Kicks")),
	}

	run, err := mgr.Execute(context.Background(), packs)
	require.NoError(t, err, "an empty matrix is a recoverable failure")

	require.Len(t, run.Failures, 1)
	assert.Equal(t, workflow.StepProposals, run.Failures[0].Step)
	assert.True(t, errors.Is(run.Failures[0].Err(), services.ErrValidation))
	assert.True(t, run.Failed(workflow.StepProposals))
	assert.False(t, run.Failed(workflow.StepClassify))

	require.NotNil(t, run.Result)
	assert.Equal(t, 2, run.Result.Stats.Quarantined)
	assert.Empty(t, run.Proposals)
	assert.NotEmpty(t, run.Clusters, "clustering does not depend on classification")
}

func TestExecuteUsesAIAdapter(t *testing.T) {
	adapter := aifallback.Static{Default: pack.Classification{Family: "Techno", Confidence: 0.8}}
	mgr := newManager(t, workflow.WithAdapter(adapter))

	run, err := mgr.ExecuteSteps(context.Background(), fixturePacks(), workflow.StepClassify)
	require.NoError(t, err)
	assert.Equal(t, []workflow.Step{workflow.StepBundles, workflow.StepClassify}, run.Steps)

	cls := run.Result.Classifications()["mystery"]
	require.NotNil(t, cls)
	assert.Equal(t, pack.MethodAIFallback, cls.Method)
	assert.Equal(t, 1, run.Result.Stats.AIBatches)
	assert.Nil(t, run.Matrix)
}

func TestExecuteAppliesManualOverrides(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenReview(t, cfg)
	ctx := context.Background()
	require.NoError(t, store.RecordQuarantine(ctx, []review.Entry{{PackID: "mystery", PackName: "Mystery Sounds", Reason: "no taxonomic match"}}))
	require.NoError(t, store.SetOverride(ctx, review.Override{PackID: "mystery", Family: "House", Style: "Deep House"}))

	mgr, err := workflow.NewManager(cfg, nil, workflow.WithReviewStore(store))
	require.NoError(t, err)

	run, err := mgr.ExecuteSteps(ctx, fixturePacks(), workflow.StepReview)
	require.NoError(t, err)

	cls := run.Result.Classifications()["mystery"]
	require.NotNil(t, cls)
	assert.Equal(t, pack.MethodManual, cls.Method)
	assert.Equal(t, "House", cls.Family)

	entries, err := store.ListQuarantine(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, entries, "a manually classified pack leaves quarantine")
}

func TestExecuteStepsResolvesPrerequisites(t *testing.T) {
	mgr := newManager(t)

	run, err := mgr.ExecuteSteps(context.Background(), fixturePacks(), workflow.StepFusion)
	require.NoError(t, err)
	assert.Equal(t, []workflow.Step{workflow.StepBundles, workflow.StepClassify, workflow.StepClustering, workflow.StepFusion}, run.Steps)
	assert.NotEmpty(t, run.FusionGroups)

	_, err = mgr.ExecuteSteps(context.Background(), fixturePacks(), workflow.Step("publish"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrConfiguration))
}

func TestExecuteRejectsDuplicatePackIDs(t *testing.T) {
	mgr := newManager(t)
	packs := []pack.Pack{
		testsupport.NewPack("a", "Techno Tools"),
		testsupport.NewPack("a", "House Grooves"),
	}
	_, err := mgr.Execute(context.Background(), packs)
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrValidation))
}

func TestExecuteAbortsOnCancellation(t *testing.T) {
	mgr := newManager(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	run, err := mgr.Execute(ctx, fixturePacks())
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	require.NotNil(t, run)
	assert.Nil(t, run.Matrix, "no step after the failure runs")
}

func TestNewManagerRejectsUnknownStrategy(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Clustering.Strategy = "spectral"
	_, err := workflow.NewManager(cfg, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrConfiguration))
}

func TestAcquireLockIsExclusive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "samplesort.lock")

	first, err := workflow.AcquireLock(path)
	require.NoError(t, err)

	_, err = workflow.AcquireLock(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, workflow.ErrRunInProgress))

	require.NoError(t, first.Release())
	second, err := workflow.AcquireLock(path)
	require.NoError(t, err)
	require.NoError(t, second.Release())
}
