package pipeline

import (
	"context"
	"time"

	"github.com/JeroenAmsterdam/renault-content-ai/internal/core"
)

// Researcher gathers facts for a topic request.
type Researcher interface {
	Research(ctx context.Context, req core.PipelineRequest) (*core.ResearchResult, error)
}

// FactClassifier partitions facts into approved and rejected sets. The
// partition is an external judgement; the gate only applies policy to it.
type FactClassifier interface {
	Classify(ctx context.Context, facts []core.Fact, req core.PipelineRequest) (*core.ValidationResult, error)
}

// ArticleWriter produces a draft article bound to the approved facts.
type ArticleWriter interface {
	WriteArticle(ctx context.Context, req core.PipelineRequest, validation *core.ValidationResult) (*core.Article, error)
}

// ComplianceScorer scores a draft article against the approved facts.
type ComplianceScorer interface {
	Score(ctx context.Context, article *core.Article, approvedFacts []core.Fact) (*core.ComplianceResult, error)
}

// ArticleStore persists articles with their compliance metadata and
// records run envelopes. Implementations scope everything to the
// article's tenant.
type ArticleStore interface {
	SaveArticle(ctx context.Context, article *core.Article, compliance *core.ComplianceResult) (string, error)
	SaveRun(ctx context.Context, tenantID string, result *core.PipelineResult, started, finished time.Time) error
}
