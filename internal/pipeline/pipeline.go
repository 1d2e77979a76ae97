// Package pipeline orchestrates the end-to-end article workflow:
// research, fact validation, writing, compliance, and storage, in
// strict order. Every run returns a result envelope with a complete
// step ledger, whether it succeeded or not.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JeroenAmsterdam/renault-content-ai/internal/core"
	"github.com/JeroenAmsterdam/renault-content-ai/internal/facts"
	"github.com/JeroenAmsterdam/renault-content-ai/internal/logger"
	"github.com/JeroenAmsterdam/renault-content-ai/internal/retry"
)

// Step names on the run ledger.
const (
	StepResearch   = "research"
	StepValidation = "validation"
	StepWriting    = "writing"
	StepCompliance = "compliance"
	StepStorage    = "storage"
)

// Config holds orchestrator budgets and gate thresholds.
type Config struct {
	Retry      retry.Policy
	RunTimeout time.Duration // Wall-clock budget for one run
	Gate       facts.GateConfig
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() *Config {
	return &Config{
		Retry:      retry.DefaultPolicy(),
		RunTimeout: 5 * time.Minute,
		Gate:       facts.DefaultGateConfig(),
	}
}

// Pipeline sequences the stages. All collaborators are injected so the
// orchestration logic is testable with deterministic stubs.
type Pipeline struct {
	researcher Researcher
	classifier FactClassifier
	writer     ArticleWriter
	scorer     ComplianceScorer
	store      ArticleStore
	config     *Config
}

// New creates a pipeline with all dependencies.
func New(
	researcher Researcher,
	classifier FactClassifier,
	writer ArticleWriter,
	scorer ComplianceScorer,
	store ArticleStore,
	config *Config,
) *Pipeline {
	if config == nil {
		config = DefaultConfig()
	}
	return &Pipeline{
		researcher: researcher,
		classifier: classifier,
		writer:     writer,
		scorer:     scorer,
		store:      store,
		config:     config,
	}
}

// Run executes one pipeline run. It never returns an error: every
// failure is classified into the envelope so callers see a structured
// result for any well-formed request.
func (p *Pipeline) Run(ctx context.Context, req core.PipelineRequest) *core.PipelineResult {
	started := time.Now().UTC()
	result := &core.PipelineResult{}

	runCtx, cancel := context.WithTimeout(ctx, p.config.RunTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("pipeline run panicked", fmt.Errorf("%v", r), "topic", req.Topic, "tenant", req.TenantID)
			p.failOpenSteps(result, fmt.Sprintf("panic: %v", r))
			result.Success = false
			result.Error = "an unexpected error occurred"
			result.ErrorType = core.ErrorTypeUnknown
		}
		p.recordRun(req.TenantID, result, started)
	}()

	p.runStages(runCtx, req, result)
	return result
}

func (p *Pipeline) runStages(ctx context.Context, req core.PipelineRequest, result *core.PipelineResult) {
	// Stage 1: research
	step := p.startStep(result, StepResearch)
	research, err := retry.Do(ctx, p.config.Retry, func() (*core.ResearchResult, error) {
		return p.researcher.Research(ctx, req)
	})
	if err != nil {
		p.failStep(result, step, err)
		p.fail(result, err)
		return
	}
	deduped := facts.Dedupe(research.Facts)
	p.completeStep(result, step, map[string]any{
		"facts_found":        len(research.Facts),
		"facts_after_dedupe": len(deduped),
	})

	// Stage 2: validation
	step = p.startStep(result, StepValidation)
	validation, err := retry.Do(ctx, p.config.Retry, func() (*core.ValidationResult, error) {
		return p.classifier.Classify(ctx, deduped, req)
	})
	if err != nil {
		p.failStep(result, step, err)
		p.fail(result, err)
		return
	}
	outcome, err := facts.Gate(validation, p.config.Gate)
	if err != nil {
		p.failStep(result, step, err)
		p.fail(result, err)
		return
	}
	result.QualityWarnings = append(result.QualityWarnings, outcome.Warnings...)
	p.completeStep(result, step, map[string]any{
		"approved":      len(validation.Approved),
		"rejected":      len(validation.Rejected),
		"approval_rate": validation.ApprovalRate,
	})

	// Stage 3: writing
	step = p.startStep(result, StepWriting)
	article, err := retry.Do(ctx, p.config.Retry, func() (*core.Article, error) {
		return p.writer.WriteArticle(ctx, req, validation)
	})
	if err != nil {
		p.failStep(result, step, err)
		p.fail(result, err)
		return
	}
	p.completeStep(result, step, map[string]any{
		"word_count": article.WordCount,
		"version":    article.Version,
	})

	// Stage 4: compliance
	step = p.startStep(result, StepCompliance)
	approvedFacts := validation.ApprovedFacts()
	compliance, err := retry.Do(ctx, p.config.Retry, func() (*core.ComplianceResult, error) {
		return p.scorer.Score(ctx, article, approvedFacts)
	})
	if err != nil {
		p.failStep(result, step, err)
		p.fail(result, err)
		return
	}
	result.Compliance = compliance
	for _, issue := range compliance.Issues {
		if issue.Severity != core.SeverityCritical {
			result.QualityWarnings = append(result.QualityWarnings,
				fmt.Sprintf("%s: %s", issue.Check, issue.Message))
		}
	}
	if !compliance.Approved {
		err := &core.ComplianceError{
			OverallScore: compliance.OverallScore,
			Critical:     compliance.CriticalIssues(),
		}
		p.failStep(result, step, err)
		p.fail(result, err)
		return
	}
	p.completeStep(result, step, map[string]any{
		"overall_score": compliance.OverallScore,
	})

	// Stage 5: storage. Errors here are always fatal: a reported
	// success must guarantee durability.
	step = p.startStep(result, StepStorage)
	articleID, err := p.store.SaveArticle(ctx, article, compliance)
	if err != nil {
		p.failStep(result, step, err)
		p.fail(result, err)
		return
	}
	p.completeStep(result, step, map[string]any{
		"article_id": articleID,
	})

	result.Success = true
	result.ArticleID = articleID
	result.Article = article
	logger.Info("pipeline run completed",
		"tenant", req.TenantID,
		"article_id", articleID,
		"version", article.Version,
		"warnings", len(result.QualityWarnings))
}

// fail classifies the error into the envelope. Expected failures keep
// their message; anything unknown is logged in full and returned to the
// tenant as a generic failure.
func (p *Pipeline) fail(result *core.PipelineResult, err error) {
	result.Success = false
	result.ErrorType = classifyError(err)

	if result.ErrorType == core.ErrorTypeUnknown {
		logger.Error("pipeline run failed with unclassified error", err)
		result.Error = "an unexpected error occurred"
		return
	}

	logger.Warn("pipeline run failed", "error_type", result.ErrorType, "error", err.Error())
	result.Error = err.Error()
}

func classifyError(err error) string {
	var insufficient *core.InsufficientFactsError
	if errors.As(err, &insufficient) {
		return core.ErrorTypeInsufficientFacts
	}
	var complianceErr *core.ComplianceError
	if errors.As(err, &complianceErr) {
		return core.ErrorTypeCompliance
	}
	var storageErr *core.StorageError
	if errors.As(err, &storageErr) {
		return core.ErrorTypeStorage
	}
	if errors.Is(err, retry.ErrMaxRetries) || retry.IsRateLimit(err) {
		return core.ErrorTypeRateLimit
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return core.ErrorTypeTimeout
	}
	return core.ErrorTypeUnknown
}

// Step ledger helpers. Steps are addressed by index because appending
// to the slice may reallocate it.

func (p *Pipeline) startStep(result *core.PipelineResult, name string) int {
	result.Steps = append(result.Steps, core.WorkflowStep{
		Name:      name,
		Status:    core.StepRunning,
		StartTime: time.Now().UTC(),
	})
	logger.Debug("pipeline step started", "step", name)
	return len(result.Steps) - 1
}

func (p *Pipeline) completeStep(result *core.PipelineResult, index int, data map[string]any) {
	step := &result.Steps[index]
	step.Status = core.StepCompleted
	step.EndTime = time.Now().UTC()
	step.Data = data
}

func (p *Pipeline) failStep(result *core.PipelineResult, index int, err error) {
	step := &result.Steps[index]
	step.Status = core.StepFailed
	step.EndTime = time.Now().UTC()
	step.Error = err.Error()
}

// failOpenSteps closes any step still marked running. No stage may
// leave the ledger in a running state on exit.
func (p *Pipeline) failOpenSteps(result *core.PipelineResult, message string) {
	for i := range result.Steps {
		if result.Steps[i].Status == core.StepRunning {
			result.Steps[i].Status = core.StepFailed
			result.Steps[i].EndTime = time.Now().UTC()
			result.Steps[i].Error = message
		}
	}
}

// recordRun persists the envelope for observability. Failures here are
// logged, not surfaced: the run outcome is already decided.
func (p *Pipeline) recordRun(tenantID string, result *core.PipelineResult, started time.Time) {
	if p.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := p.store.SaveRun(ctx, tenantID, result, started, time.Now().UTC()); err != nil {
		logger.Error("failed to record pipeline run", err, "tenant", tenantID)
	}
}
