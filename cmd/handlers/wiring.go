package handlers

import (
	"fmt"

	"github.com/JeroenAmsterdam/renault-content-ai/internal/compliance"
	"github.com/JeroenAmsterdam/renault-content-ai/internal/config"
	"github.com/JeroenAmsterdam/renault-content-ai/internal/facts"
	"github.com/JeroenAmsterdam/renault-content-ai/internal/llm"
	"github.com/JeroenAmsterdam/renault-content-ai/internal/pipeline"
	"github.com/JeroenAmsterdam/renault-content-ai/internal/research"
	"github.com/JeroenAmsterdam/renault-content-ai/internal/retry"
	"github.com/JeroenAmsterdam/renault-content-ai/internal/store"
	"github.com/JeroenAmsterdam/renault-content-ai/internal/writer"
)

// buildStore opens the tenant article store from configuration.
func buildStore() (*store.Store, error) {
	cfg := config.Get()
	st, err := store.NewStore(cfg.Storage.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open article store: %w", err)
	}
	return st, nil
}

// buildPipeline wires the full stage chain from configuration: one LLM
// client shared by all stages, thresholds from the pipeline and
// compliance sections.
func buildPipeline(st *store.Store) (*pipeline.Pipeline, error) {
	cfg := config.Get()

	gen, err := llm.NewFromConfig(cfg.AI)
	if err != nil {
		return nil, fmt.Errorf("failed to create AI client: %w", err)
	}

	pipeCfg := &pipeline.Config{
		Retry: retry.Policy{
			MaxAttempts: cfg.Pipeline.MaxAttempts,
			Backoff:     cfg.Pipeline.RetryBackoff,
		},
		RunTimeout: cfg.Pipeline.RunTimeout,
		Gate: facts.GateConfig{
			MinApprovedFacts: cfg.Pipeline.MinApprovedFacts,
			MinApprovalRate:  cfg.Pipeline.MinApprovalRate,
		},
	}

	scorer := compliance.NewScorer(gen, compliance.Config{
		MinWordCount:   cfg.Compliance.MinWordCount,
		MaxTitleLength: cfg.Compliance.MaxTitleLength,
		MaxMetaLength:  cfg.Compliance.MaxMetaLength,
		AvoidWords:     cfg.Compliance.AvoidWords,
	})

	return pipeline.New(
		research.NewResearcher(gen),
		research.NewClassifier(gen),
		writer.NewWriter(gen),
		scorer,
		st,
		pipeCfg,
	), nil
}
