package workflow

import (
	"time"

	"samplesort/internal/classification"
	"samplesort/internal/clustering"
	"samplesort/internal/fusion"
	"samplesort/internal/matrix"
	"samplesort/internal/pack"
	"samplesort/internal/proposal"
)

// Step names one pipeline step.
type Step string

const (
	StepBundles    Step = "bundles"
	StepClassify   Step = "classify"
	StepReview     Step = "review"
	StepMatrix     Step = "matrix"
	StepClustering Step = "clustering"
	StepFusion     Step = "fusion"
	StepProposals  Step = "proposals"
)

// AllSteps is the full pipeline in execution order.
var AllSteps = []Step{StepBundles, StepClassify, StepReview, StepMatrix, StepClustering, StepFusion, StepProposals}

// StepFailure records a recoverable step error.
type StepFailure struct {
	Step    Step   `json:"step"`
	Marker  string `json:"marker,omitempty"`
	Message string `json:"message"`
	err     error
}

// Err returns the underlying error.
func (f StepFailure) Err() error { return f.err }

// Run is the state threaded through the steps and returned to the caller.
type Run struct {
	ID           string                     `json:"id"`
	StartedAt    time.Time                  `json:"started_at"`
	FinishedAt   time.Time                  `json:"finished_at"`
	Steps        []Step                     `json:"steps"`
	Packs        []pack.Pack                `json:"-"`
	Bundles      classification.BundleCache `json:"-"`
	Result       *classification.Result     `json:"classification,omitempty"`
	Matrix       *matrix.Matrix             `json:"matrix,omitempty"`
	Clusters     []clustering.Cluster       `json:"clusters,omitempty"`
	Strategy     string                     `json:"strategy,omitempty"`
	Issues       []clustering.Issue         `json:"cluster_issues,omitempty"`
	FusionGroups []fusion.Group             `json:"fusion_groups,omitempty"`
	Proposals    []proposal.Proposal        `json:"proposals,omitempty"`
	Failures     []StepFailure              `json:"failures,omitempty"`
}

// Failed reports whether step recorded a recoverable failure.
func (r *Run) Failed(step Step) bool {
	for _, f := range r.Failures {
		if f.Step == step {
			return true
		}
	}
	return false
}

// Duration is the wall time of the run.
func (r *Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
