package core

import "time"

// FactCategory classifies the kind of information a fact carries.
type FactCategory string

const (
	FactCategoryTechnical     FactCategory = "technical"
	FactCategoryMarketing     FactCategory = "marketing"
	FactCategoryGeneral       FactCategory = "general"
	FactCategorySpecification FactCategory = "specification"
)

// Fact is a single verified claim gathered during research.
// Facts are immutable once approved; a pipeline run owns the facts it
// produced until they are persisted with the article.
type Fact struct {
	ID         string       `json:"id"`                   // Unique identifier for the fact
	Claim      string       `json:"claim"`                // The factual statement itself
	Source     string       `json:"source"`               // Name of the source backing the claim
	SourceURL  string       `json:"source_url,omitempty"` // Optional URL of the source
	Confidence float64      `json:"confidence"`           // Confidence score in [0,1]
	Category   FactCategory `json:"category"`             // Kind of information (technical, marketing, ...)
}

// ResearchResult is the output of the research stage: an ordered fact
// sequence plus a free-text summary of what was found.
type ResearchResult struct {
	Facts   []Fact `json:"facts"`   // Ordered facts as produced by research
	Summary string `json:"summary"` // Free-text research summary
}

// ApprovedFact pairs a fact with the classifier's approval reason.
type ApprovedFact struct {
	Fact   Fact   `json:"fact"`
	Reason string `json:"reason"` // Why the classifier approved this fact
}

// RejectedFact pairs a fact with the classifier's rejection reason.
type RejectedFact struct {
	Fact   Fact   `json:"fact"`
	Reason string `json:"reason"` // Why the classifier rejected this fact
}

// ValidationResult is the deterministic partition of a research result
// into approved and rejected facts. Never mutated after creation.
type ValidationResult struct {
	Approved     []ApprovedFact `json:"approved"`
	Rejected     []RejectedFact `json:"rejected"`
	ApprovalRate float64        `json:"approval_rate"` // approved / total, 0 for an empty set
}

// ApprovedFacts returns the bare facts from the approved partition,
// preserving order.
func (v *ValidationResult) ApprovedFacts() []Fact {
	facts := make([]Fact, 0, len(v.Approved))
	for _, a := range v.Approved {
		facts = append(facts, a.Fact)
	}
	return facts
}

// Article is a generated article. It is a draft until it passes the
// compliance scorer; once persisted it is an immutable version in its
// lineage. A rewrite creates a new Article row, never mutates this one.
type Article struct {
	ID                      string    `json:"id"`                          // Unique identifier for the article
	TenantID                string    `json:"tenant_id"`                   // Owning tenant; scopes all reads and writes
	Title                   string    `json:"title"`                       // Article title
	MetaDescription         string    `json:"meta_description"`            // SEO meta description
	Content                 string    `json:"content"`                     // Full article body
	Keywords                []string  `json:"keywords"`                    // Target keywords
	WordCount               int       `json:"word_count"`                  // Word count of Content
	FactsUsed               []string  `json:"facts_used"`                  // Claim references woven into the article
	InternalLinkSuggestions []string  `json:"internal_link_suggestions"`   // Suggested internal link anchors
	Topic                   string    `json:"topic"`                       // Original topic request
	TargetAudience          string    `json:"target_audience"`             // Audience the article was written for
	DesiredWordCount        int       `json:"desired_word_count"`          // Requested length
	Version                 int       `json:"version"`                     // Version number within the lineage, starting at 1
	ParentArticleID         string    `json:"parent_article_id,omitempty"` // Lineage root id; empty for version 1
	VersionNotes            string    `json:"version_notes,omitempty"`     // Rewrite instructions that produced this version
	DateCreated             time.Time `json:"date_created"`                // When the article was generated
}

// Severity grades a compliance issue.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Issue is a single compliance finding.
type Issue struct {
	Check    string   `json:"check"`    // Check that produced the issue (completeness, seo, ...)
	Severity Severity `json:"severity"` // critical issues block approval, others are advisory
	Message  string   `json:"message"`  // Human-readable description
}

// CheckResult is the outcome of one named compliance check.
type CheckResult struct {
	Passed bool     `json:"passed"`
	Score  int      `json:"score"`  // 0-100
	Issues []string `json:"issues"` // Findings specific to this check
}

// ComplianceResult is one scoring run over an article. An article may be
// scored multiple times; each run is independent.
type ComplianceResult struct {
	Approved        bool                   `json:"approved"`
	OverallScore    int                    `json:"overall_score"` // 0-100 weighted aggregate
	Checks          map[string]CheckResult `json:"checks"`
	Issues          []Issue                `json:"issues"`
	Recommendations []string               `json:"recommendations"`
}

// CriticalIssues returns only the issues that block approval.
func (r *ComplianceResult) CriticalIssues() []Issue {
	var critical []Issue
	for _, issue := range r.Issues {
		if issue.Severity == SeverityCritical {
			critical = append(critical, issue)
		}
	}
	return critical
}

// StepStatus is the lifecycle state of one workflow step.
type StepStatus string

const (
	StepPending   StepStatus = "pending"
	StepRunning   StepStatus = "running"
	StepCompleted StepStatus = "completed"
	StepFailed    StepStatus = "failed"
)

// WorkflowStep records timing and outcome for one pipeline stage. Steps
// exist only for the duration of a run and are aggregated into the
// result envelope; they are never persisted as standalone entities.
type WorkflowStep struct {
	Name      string         `json:"name"`
	Status    StepStatus     `json:"status"`
	StartTime time.Time      `json:"start_time"`
	EndTime   time.Time      `json:"end_time"`
	Data      map[string]any `json:"data,omitempty"`  // Stage-specific success payload
	Error     string         `json:"error,omitempty"` // Error string when the step failed
}

// PipelineRequest is the input for one orchestrator run.
type PipelineRequest struct {
	Topic            string   `json:"topic"`
	TargetAudience   string   `json:"target_audience"`
	Keywords         []string `json:"keywords"`
	DesiredWordCount int      `json:"desired_word_count"`
	Sources          []string `json:"sources,omitempty"`  // Optional preferred sources for research
	Briefing         string   `json:"briefing,omitempty"` // Optional free-text briefing
	TenantID         string   `json:"tenant_id"`

	// Rewrite fields, set by the version manager. Zero values mean a
	// fresh version-1 article.
	Version         int    `json:"version,omitempty"`
	ParentArticleID string `json:"parent_article_id,omitempty"`
	VersionNotes    string `json:"version_notes,omitempty"`
}

// Error type labels used in the result envelope.
const (
	ErrorTypeInsufficientFacts = "insufficient_facts"
	ErrorTypeCompliance        = "compliance_failed"
	ErrorTypeRateLimit         = "rate_limit"
	ErrorTypeStorage           = "storage"
	ErrorTypeTimeout           = "timeout"
	ErrorTypeUnknown           = "unknown"
)

// PipelineResult is the envelope returned by every orchestrator run,
// success or failure. The step ledger is always populated.
type PipelineResult struct {
	Success         bool              `json:"success"`
	ArticleID       string            `json:"article_id,omitempty"`
	Article         *Article          `json:"article,omitempty"`
	Compliance      *ComplianceResult `json:"compliance,omitempty"`
	QualityWarnings []string          `json:"quality_warnings,omitempty"` // Soft-gate warnings accumulated across stages
	Error           string            `json:"error,omitempty"`
	ErrorType       string            `json:"error_type,omitempty"`
	Steps           []WorkflowStep    `json:"steps"`
}
