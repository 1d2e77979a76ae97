// Package compliance scores draft articles: cheap deterministic
// pre-checks first, then a model-assisted deep check across five
// weighted categories. A critical pre-check finding short-circuits the
// expensive phase entirely.
package compliance

import (
	"fmt"
	"strings"

	"github.com/JeroenAmsterdam/renault-content-ai/internal/core"
)

// Check names used across pre-checks and the deep verdict.
const (
	CheckFactVerification  = "fact_verification"
	CheckToneOfVoice       = "tone_of_voice"
	CheckTechnicalAccuracy = "technical_accuracy"
	CheckCompleteness      = "completeness"
	CheckSEO               = "seo"
	CheckPlaceholders      = "placeholders"
	CheckLengthLimits      = "length_limits"
	CheckToneLexical       = "tone_lexical"
	CheckWordCount         = "word_count"
)

const (
	toneIssuePenalty = 15
	tonePassScore    = 70
)

// placeholderMarkers are the fragments that mark unresolved template
// text in generated content.
var placeholderMarkers = []string{
	"[placeholder",
	"[todo",
	"[insert",
	"[tbd",
	"{{",
	"lorem ipsum",
}

// hedgingPatterns is the fixed tone-of-voice hedging list; tenant
// avoid words are layered on top via Config.AvoidWords.
var hedgingPatterns = []string{
	"approximately",
	"possibly",
	"might",
	"perhaps",
	"maybe",
	"it seems",
	"arguably",
}

// Config holds the deterministic thresholds of the scorer.
type Config struct {
	MinWordCount   int      // Articles below this get a completeness warning
	MaxTitleLength int      // Characters
	MaxMetaLength  int      // Characters
	AvoidWords     []string // Tenant-configured tone avoid list
}

// DefaultConfig returns the reference thresholds.
func DefaultConfig() Config {
	return Config{
		MinWordCount:   650,
		MaxTitleLength: 60,
		MaxMetaLength:  155,
	}
}

// precheckReport is the outcome of the deterministic phase.
type precheckReport struct {
	checks   map[string]core.CheckResult
	issues   []core.Issue
	critical bool // True when the deep phase must be skipped
}

// runPrechecks executes the deterministic checks in order. Placeholder
// findings are critical; everything else is advisory.
func runPrechecks(article *core.Article, cfg Config) precheckReport {
	report := precheckReport{checks: make(map[string]core.CheckResult)}

	content := strings.ToLower(article.Content)

	// Unresolved placeholders force rejection before any model call.
	var placeholderHits []string
	for _, marker := range placeholderMarkers {
		if strings.Contains(content, marker) {
			placeholderHits = append(placeholderHits, marker)
		}
	}
	if len(placeholderHits) > 0 {
		report.critical = true
		report.checks[CheckPlaceholders] = core.CheckResult{
			Passed: false,
			Score:  0,
			Issues: []string{fmt.Sprintf("unresolved placeholder markers found: %s", strings.Join(placeholderHits, ", "))},
		}
		report.issues = append(report.issues, core.Issue{
			Check:    CheckCompleteness,
			Severity: core.SeverityCritical,
			Message:  fmt.Sprintf("content contains unresolved placeholder markers (%s)", strings.Join(placeholderHits, ", ")),
		})
	} else {
		report.checks[CheckPlaceholders] = core.CheckResult{Passed: true, Score: 100}
	}

	// Length thresholds are advisory.
	if article.WordCount < cfg.MinWordCount {
		report.checks[CheckWordCount] = core.CheckResult{
			Passed: false,
			Score:  scaleScore(article.WordCount, cfg.MinWordCount),
			Issues: []string{fmt.Sprintf("word count %d is below the minimum of %d", article.WordCount, cfg.MinWordCount)},
		}
		report.issues = append(report.issues, core.Issue{
			Check:    CheckCompleteness,
			Severity: core.SeverityWarning,
			Message:  fmt.Sprintf("word count %d is below the minimum of %d", article.WordCount, cfg.MinWordCount),
		})
	} else {
		report.checks[CheckWordCount] = core.CheckResult{Passed: true, Score: 100}
	}

	lengthResult := core.CheckResult{Passed: true, Score: 100}
	if len(article.Title) > cfg.MaxTitleLength {
		message := fmt.Sprintf("title is %d characters (maximum %d)", len(article.Title), cfg.MaxTitleLength)
		lengthResult.Passed = false
		lengthResult.Issues = append(lengthResult.Issues, message)
		report.issues = append(report.issues, core.Issue{Check: CheckSEO, Severity: core.SeverityWarning, Message: message})
	}
	if len(article.MetaDescription) > cfg.MaxMetaLength {
		message := fmt.Sprintf("meta description is %d characters (maximum %d)", len(article.MetaDescription), cfg.MaxMetaLength)
		lengthResult.Passed = false
		lengthResult.Issues = append(lengthResult.Issues, message)
		report.issues = append(report.issues, core.Issue{Check: CheckSEO, Severity: core.SeverityWarning, Message: message})
	}
	if !lengthResult.Passed {
		lengthResult.Score = 50
	}
	report.checks[CheckLengthLimits] = lengthResult

	// Tone-of-voice lexical scan: every match is one issue.
	toneResult := runToneCheck(content, cfg.AvoidWords)
	report.checks[CheckToneLexical] = toneResult
	for _, finding := range toneResult.Issues {
		report.issues = append(report.issues, core.Issue{
			Check:    CheckToneOfVoice,
			Severity: core.SeverityWarning,
			Message:  finding,
		})
	}

	return report
}

// runToneCheck scans the lower-cased content for tenant avoid words and
// the fixed hedging patterns. Score is 100 minus 15 per match, floored
// at 0; the check passes at 70 or above.
func runToneCheck(loweredContent string, avoidWords []string) core.CheckResult {
	var findings []string
	issueCount := 0

	scan := func(term, label string) {
		count := strings.Count(loweredContent, strings.ToLower(term))
		if count > 0 {
			issueCount += count
			findings = append(findings, fmt.Sprintf("%s %q appears %d time(s)", label, term, count))
		}
	}

	for _, word := range avoidWords {
		if strings.TrimSpace(word) == "" {
			continue
		}
		scan(word, "avoid word")
	}
	for _, pattern := range hedgingPatterns {
		scan(pattern, "hedging phrase")
	}

	score := 100 - toneIssuePenalty*issueCount
	if score < 0 {
		score = 0
	}

	return core.CheckResult{
		Passed: score >= tonePassScore,
		Score:  score,
		Issues: findings,
	}
}

// scaleScore maps a value below a threshold onto 0-99.
func scaleScore(value, threshold int) int {
	if threshold <= 0 || value <= 0 {
		return 0
	}
	score := value * 100 / threshold
	if score > 99 {
		score = 99
	}
	return score
}
