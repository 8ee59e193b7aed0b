package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"samplesort/internal/aifallback"
	"samplesort/internal/logging"
	"samplesort/internal/workflow"
)

type pipelineFlags struct {
	packs    string
	taxonomy string
	noAI     bool
}

type pipelineDef struct {
	use    string
	short  string
	steps  []workflow.Step
	render func(cmd *cobra.Command, run *workflow.Run) error
	// writes reports whether the steps touch the review database.
	writes bool
}

func newPipelineCommands(ctx *commandContext) []*cobra.Command {
	defs := []pipelineDef{
		{
			use:    "run",
			short:  "Classify, cluster, fuse and propose a layout",
			steps:  workflow.AllSteps,
			render: renderRun,
			writes: true,
		},
		{
			use:    "classify",
			short:  "Classify packs and record quarantined packs for review",
			steps:  []workflow.Step{workflow.StepReview},
			render: renderClassification,
			writes: true,
		},
		{
			use:    "cluster",
			short:  "Cluster similar folders and build fusion groups",
			steps:  []workflow.Step{workflow.StepFusion},
			render: renderFusion,
		},
		{
			use:    "propose",
			short:  "Generate ranked folder structure proposals",
			steps:  []workflow.Step{workflow.StepProposals},
			render: renderProposals,
		},
	}
	cmds := make([]*cobra.Command, 0, len(defs))
	for _, def := range defs {
		cmds = append(cmds, newPipelineCommand(ctx, def))
	}
	return cmds
}

func newPipelineCommand(ctx *commandContext, def pipelineDef) *cobra.Command {
	flags := &pipelineFlags{}
	cmd := &cobra.Command{
		Use:   def.use,
		Short: def.short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			run, err := executePipeline(cmd, ctx, flags, def)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, newRunView(run))
			}
			if err := def.render(cmd, run); err != nil {
				return err
			}
			renderFailures(cmd, run)
			return nil
		},
	}
	cmd.Flags().StringVarP(&flags.packs, "packs", "p", "", "JSON file holding the pack records (- for stdin)")
	cmd.Flags().StringVar(&flags.taxonomy, "taxonomy", "", "Taxonomy document overriding paths.taxonomy_file")
	cmd.Flags().BoolVar(&flags.noAI, "no-ai", false, "Disable the AI fallback for this run")
	_ = cmd.MarkFlagRequired("packs")
	return cmd
}

func executePipeline(cmd *cobra.Command, ctx *commandContext, flags *pipelineFlags, def pipelineDef) (*workflow.Run, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger := ctx.loggerFor()

	packs, err := loadPacks(flags.packs, cmd.InOrStdin())
	if err != nil {
		return nil, err
	}

	index := ctx.loadIndex(flags.taxonomy)
	opts := []workflow.ManagerOption{workflow.WithIndex(index)}

	if !flags.noAI && cfg.AIEnabled() {
		adapter, err := aifallback.NewFromConfig(cfg, index, logger)
		if err != nil {
			return nil, err
		}
		opts = append(opts, workflow.WithAdapter(adapter))
	} else if cfg.AI.Enabled && !flags.noAI {
		logging.WarnWithContext(logger, "ai fallback disabled: no api key", "ai_unconfigured",
			logging.String(logging.FieldErrorHint, "set ai.api_key or SAMPLESORT_AI_API_KEY"),
			logging.String(logging.FieldImpact, "packs without a confident taxonomic match use the keyword fallback or quarantine"),
		)
	}

	if def.writes {
		lock, err := workflow.AcquireLock(cfg.LockPath())
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := lock.Release(); err != nil {
				logger.Warn("release run lock failed", logging.Error(err))
			}
		}()
	}
	store, err := ctx.openReview()
	if err != nil {
		return nil, err
	}
	defer store.Close()
	opts = append(opts, workflow.WithReviewStore(store))

	mgr, err := workflow.NewManager(cfg, logger, opts...)
	if err != nil {
		return nil, err
	}
	run, err := mgr.ExecuteSteps(cmd.Context(), packs, def.steps...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", def.use, err)
	}
	return run, nil
}
