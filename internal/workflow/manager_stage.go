package workflow

import (
	"context"
	"errors"
	"strings"
	"time"

	"samplesort/internal/classification"
	"samplesort/internal/clustering"
	"samplesort/internal/logging"
	"samplesort/internal/matrix"
	"samplesort/internal/pack"
	"samplesort/internal/proposal"
	"samplesort/internal/review"
	"samplesort/internal/services"
)

type stepHandler func(ctx context.Context, run *Run) error

func (m *Manager) handlers() map[Step]stepHandler {
	return map[Step]stepHandler{
		StepBundles:    m.stepBundles,
		StepClassify:   m.stepClassify,
		StepReview:     m.stepReview,
		StepMatrix:     m.stepMatrix,
		StepClustering: m.stepClustering,
		StepFusion:     m.stepFusion,
		StepProposals:  m.stepProposals,
	}
}

func (m *Manager) executeStep(ctx context.Context, run *Run, step Step, handler stepHandler) error {
	stageCtx := services.WithStage(ctx, string(step))
	logger := logging.WithContext(stageCtx, m.logger)
	start := time.Now()
	logger.Info("stage started", logging.String(logging.FieldEventType, "stage_start"))

	err := handler(stageCtx, run)
	if err == nil {
		logger.Info("stage completed",
			logging.String(logging.FieldEventType, "stage_complete"),
			logging.Duration("stage_duration", time.Since(start)),
		)
		return nil
	}

	marker, message := services.Details(err)
	if services.Recoverable(err) {
		run.Failures = append(run.Failures, StepFailure{Step: step, Marker: marker, Message: message, err: err})
		logging.WarnWithContext(logger, "stage failed; continuing", "stage_failure_recoverable",
			logging.String("error_marker", marker),
			logging.String("error_message", strings.TrimSpace(message)),
			logging.String(logging.FieldImpact, "later steps run without this step's output"),
		)
		return nil
	}

	attrs := []logging.Attr{
		logging.String("error_marker", marker),
		logging.String("error_message", strings.TrimSpace(message)),
		logging.Alert("stage_failure"),
		logging.Error(err),
	}
	if errors.Is(err, context.Canceled) {
		logger.Info("stage interrupted", logging.String(logging.FieldEventType, "stage_cancelled"))
	} else {
		logging.ErrorWithContext(logger, "stage failed", "stage_failure", attrs...)
	}
	return err
}

func (m *Manager) stepBundles(ctx context.Context, run *Run) error {
	run.Bundles = m.cascade.PreclassifyBundles(ctx, run.Packs, run.Bundles)
	return nil
}

func (m *Manager) stepClassify(ctx context.Context, run *Run) error {
	run.Result = m.cascade.Run(ctx, run.Packs, run.Bundles)
	if err := ctx.Err(); err != nil {
		return services.Wrap(services.ErrTransient, string(StepClassify), "run cascade", "run cancelled", err)
	}
	return nil
}

// stepReview persists quarantined packs and clears entries for packs that
// classified cleanly this run.
func (m *Manager) stepReview(ctx context.Context, run *Run) error {
	if m.store == nil {
		logging.WithContext(ctx, m.logger).Debug("review store not configured; skipping",
			logging.String(logging.FieldEventType, "review_skipped"))
		return nil
	}
	var (
		entries  []review.Entry
		resolved []string
	)
	for _, o := range run.Result.Outcomes {
		switch o.Kind {
		case classification.KindQuarantined:
			entries = append(entries, review.Entry{
				PackID:       o.PackID,
				PackName:     o.PackName,
				Reason:       o.Quarantine.Reason,
				ManualReview: o.Quarantine.ManualReview,
				Candidate:    o.Quarantine.Candidate,
				RunID:        run.ID,
			})
		case classification.KindClassified:
			resolved = append(resolved, o.PackID)
		}
	}
	if err := m.store.RecordQuarantine(ctx, entries); err != nil {
		return services.Wrap(services.ErrTransient, string(StepReview), "record quarantine", m.store.Path(), err)
	}
	if err := m.store.Resolve(ctx, resolved); err != nil {
		return services.Wrap(services.ErrTransient, string(StepReview), "resolve quarantine", m.store.Path(), err)
	}
	return nil
}

func (m *Manager) stepMatrix(ctx context.Context, run *Run) error {
	run.Matrix = matrix.Analyze(run.Packs, run.Result.Classifications())
	logging.WithContext(ctx, m.logger).Info("matrix analyzed",
		logging.String(logging.FieldEventType, "matrix_complete"),
		logging.Int("entries", len(run.Matrix.Entries)),
		logging.Int("files", run.Matrix.TotalFiles),
	)
	return nil
}

func (m *Manager) stepClustering(ctx context.Context, run *Run) error {
	res, err := m.engine.Cluster(ctx, pack.FolderPaths(run.Packs))
	if err != nil {
		return err
	}
	run.Clusters = res.Clusters
	run.Strategy = res.Strategy
	if res.Matrix != nil {
		run.Issues = clustering.Validate(res.Clusters, res.Matrix, m.clusterOpts)
	}
	logger := logging.WithContext(ctx, m.logger)
	for _, issue := range run.Issues {
		logger.Debug("cluster validation issue",
			logging.String(logging.FieldEventType, "cluster_issue"),
			logging.String("kind", string(issue.Kind)),
			logging.String("cluster_id", issue.ClusterID),
			logging.String("detail", issue.Detail),
		)
	}
	return nil
}

func (m *Manager) stepFusion(ctx context.Context, run *Run) error {
	var classifications map[string]*pack.Classification
	if run.Result != nil {
		classifications = run.Result.Classifications()
	}
	run.FusionGroups = m.builder.Build(run.Clusters, run.Packs, classifications)
	return nil
}

func (m *Manager) stepProposals(ctx context.Context, run *Run) error {
	opts := m.proposalOpts
	opts.FusionGroups = run.FusionGroups
	proposals, err := proposal.Generate(run.Matrix, opts)
	if err != nil {
		return err
	}
	run.Proposals = proposals
	return nil
}
