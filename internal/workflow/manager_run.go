package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"samplesort/internal/logging"
	"samplesort/internal/pack"
	"samplesort/internal/services"
)

// Execute runs the full pipeline over packs.
func (m *Manager) Execute(ctx context.Context, packs []pack.Pack) (*Run, error) {
	return m.ExecuteSteps(ctx, packs, AllSteps...)
}

// ExecuteSteps runs the requested steps plus their prerequisites, in pipeline
// order. The returned Run is populated up to the point of failure even when
// an error is returned.
func (m *Manager) ExecuteSteps(ctx context.Context, packs []pack.Pack, steps ...Step) (*Run, error) {
	plan, err := resolveSteps(steps)
	if err != nil {
		return nil, err
	}
	if err := validatePacks(packs); err != nil {
		return nil, err
	}

	run := &Run{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Steps:     plan,
		Packs:     packs,
	}
	ctx = services.WithRunID(ctx, run.ID)
	runLogger := logging.WithContext(ctx, m.logger)
	runLogger.Info("run started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.Int("packs", len(packs)),
		logging.String("steps", joinSteps(plan)),
	)

	handlers := m.handlers()
	for _, step := range plan {
		if err := m.executeStep(ctx, run, step, handlers[step]); err != nil {
			run.FinishedAt = time.Now().UTC()
			return run, err
		}
	}

	run.FinishedAt = time.Now().UTC()
	runLogger.Info("run completed",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.Int("failures", len(run.Failures)),
		logging.Duration("run_duration", run.Duration()),
	)
	return run, nil
}

// resolveSteps expands requested steps with their prerequisites and returns
// them in pipeline order. No steps means every step.
func resolveSteps(requested []Step) ([]Step, error) {
	if len(requested) == 0 {
		return append([]Step(nil), AllSteps...), nil
	}
	want := make(map[Step]bool)
	var add func(Step) error
	add = func(s Step) error {
		deps, ok := prerequisites[s]
		if !ok {
			return services.Wrap(services.ErrConfiguration, "workflow", "plan", fmt.Sprintf("unknown step %q", s), nil)
		}
		if want[s] {
			return nil
		}
		want[s] = true
		for _, d := range deps {
			if err := add(d); err != nil {
				return err
			}
		}
		return nil
	}
	for _, s := range requested {
		if err := add(s); err != nil {
			return nil, err
		}
	}
	out := make([]Step, 0, len(want))
	for _, s := range AllSteps {
		if want[s] {
			out = append(out, s)
		}
	}
	return out, nil
}

var prerequisites = map[Step][]Step{
	StepBundles:    nil,
	StepClassify:   {StepBundles},
	StepReview:     {StepClassify},
	StepMatrix:     {StepClassify},
	StepClustering: nil,
	StepFusion:     {StepClustering, StepClassify},
	StepProposals:  {StepMatrix},
}

func validatePacks(packs []pack.Pack) error {
	seen := make(map[string]struct{}, len(packs))
	for i, p := range packs {
		id := strings.TrimSpace(p.ID)
		if id == "" {
			return services.Wrap(services.ErrValidation, "workflow", "load packs", fmt.Sprintf("pack at index %d has no id", i), nil)
		}
		if _, dup := seen[id]; dup {
			return services.Wrap(services.ErrValidation, "workflow", "load packs", fmt.Sprintf("duplicate pack id %q", id), nil)
		}
		seen[id] = struct{}{}
	}
	return nil
}

func joinSteps(steps []Step) string {
	parts := make([]string, len(steps))
	for i, s := range steps {
		parts[i] = string(s)
	}
	return strings.Join(parts, ",")
}
