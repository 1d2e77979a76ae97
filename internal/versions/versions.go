// Package versions manages article rewrites. A rewrite re-runs the full
// pipeline with the original request parameters plus editorial notes,
// producing a new version linked to the lineage root.
package versions

import (
	"context"
	"fmt"
	"strings"

	"github.com/JeroenAmsterdam/renault-content-ai/internal/core"
	"github.com/JeroenAmsterdam/renault-content-ai/internal/logger"
)

// Runner executes a pipeline run. Satisfied by *pipeline.Pipeline.
type Runner interface {
	Run(ctx context.Context, req core.PipelineRequest) *core.PipelineResult
}

// ArticleSource loads existing articles and their lineage, scoped to a
// tenant. Satisfied by *store.Store.
type ArticleSource interface {
	GetArticle(ctx context.Context, tenantID, id string) (*core.Article, *core.ComplianceResult, error)
	ListLineage(ctx context.Context, tenantID, rootID string) ([]core.Article, error)
}

// Manager coordinates rewrites on top of the pipeline.
type Manager struct {
	runner   Runner
	articles ArticleSource
}

// NewManager creates a version manager.
func NewManager(runner Runner, articles ArticleSource) *Manager {
	return &Manager{runner: runner, articles: articles}
}

// RewriteResult describes the article produced by a rewrite.
type RewriteResult struct {
	ArticleID       string               `json:"article_id"`
	Version         int                  `json:"version"`
	ParentArticleID string               `json:"parent_article_id"`
	Result          *core.PipelineResult `json:"result"`
}

// Rewrite produces the next version of an existing article. The parent
// article is never modified; the new version shares the lineage root and
// carries the notes that prompted it. The version notes must be non-empty
// so every version past the first is explainable.
func (m *Manager) Rewrite(ctx context.Context, tenantID, articleID, versionNotes string) (*RewriteResult, error) {
	if strings.TrimSpace(versionNotes) == "" {
		return nil, fmt.Errorf("version notes are required for a rewrite")
	}

	existing, _, err := m.articles.GetArticle(ctx, tenantID, articleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load article %s: %w", articleID, err)
	}

	// All versions point at the lineage root, not at their immediate
	// predecessor.
	rootID := existing.ParentArticleID
	if rootID == "" {
		rootID = existing.ID
	}

	nextVersion, err := m.nextVersion(ctx, tenantID, rootID, existing.Version)
	if err != nil {
		return nil, err
	}

	req := core.PipelineRequest{
		Topic:            existing.Topic,
		TargetAudience:   existing.TargetAudience,
		Keywords:         existing.Keywords,
		DesiredWordCount: existing.DesiredWordCount,
		TenantID:         tenantID,
		Version:          nextVersion,
		ParentArticleID:  rootID,
		VersionNotes:     versionNotes,
	}

	logger.Info("starting rewrite",
		"tenant", tenantID,
		"source_article", articleID,
		"lineage_root", rootID,
		"version", nextVersion)

	result := m.runner.Run(ctx, req)
	if !result.Success {
		return &RewriteResult{
			Version:         nextVersion,
			ParentArticleID: rootID,
			Result:          result,
		}, fmt.Errorf("rewrite pipeline failed: %s", result.Error)
	}

	return &RewriteResult{
		ArticleID:       result.ArticleID,
		Version:         nextVersion,
		ParentArticleID: rootID,
		Result:          result,
	}, nil
}

// nextVersion picks one past the highest version in the lineage, so
// rewriting an older version never collides with a newer one.
func (m *Manager) nextVersion(ctx context.Context, tenantID, rootID string, fallback int) (int, error) {
	lineage, err := m.articles.ListLineage(ctx, tenantID, rootID)
	if err != nil {
		return 0, fmt.Errorf("failed to load lineage for %s: %w", rootID, err)
	}
	highest := fallback
	for _, a := range lineage {
		if a.Version > highest {
			highest = a.Version
		}
	}
	return highest + 1, nil
}
