package compliance

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"google.golang.org/genai"

	"github.com/JeroenAmsterdam/renault-content-ai/internal/core"
	"github.com/JeroenAmsterdam/renault-content-ai/internal/llm"
)

const deepCheckSystemPrompt = `You are a compliance reviewer for a content-generation platform.
Review the article against the approved fact set. Score each check from 0 to 100
and list concrete issues. Mark an issue severity "critical" only when the article
must not be published as-is. Fact verification means every claim in the article
is backed by an approved fact.`

// deepCheckWeights aggregates the five model-assisted checks into the
// overall score. Fact verification carries the most weight because it
// is the only check bound to the approved fact set.
var deepCheckWeights = map[string]float64{
	CheckFactVerification:  0.30,
	CheckToneOfVoice:       0.20,
	CheckTechnicalAccuracy: 0.20,
	CheckCompleteness:      0.15,
	CheckSEO:               0.15,
}

// Scorer combines the deterministic pre-checks with the model-assisted
// deep check into one ComplianceResult.
type Scorer struct {
	gen llm.Generator
	cfg Config
}

// NewScorer creates a scorer with the given generator and thresholds.
func NewScorer(gen llm.Generator, cfg Config) *Scorer {
	return &Scorer{gen: gen, cfg: cfg}
}

func deepCheckSchema() *genai.Schema {
	check := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"score": {
				Type:        genai.TypeInteger,
				Description: "Check score from 0 to 100",
			},
			"passed": {
				Type:        genai.TypeBoolean,
				Description: "Whether the check passed",
			},
			"issues": {
				Type:        genai.TypeArray,
				Description: "Concrete findings for this check",
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"severity": {
							Type: genai.TypeString,
							Enum: []string{"critical", "warning", "info"},
						},
						"message": {
							Type: genai.TypeString,
						},
					},
					Required: []string{"severity", "message"},
				},
			},
		},
		Required: []string{"score", "passed"},
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"approved": {
				Type:        genai.TypeBoolean,
				Description: "Overall verdict: may the article be published?",
			},
			"fact_verification":  check,
			"tone_of_voice":      check,
			"technical_accuracy": check,
			"completeness":       check,
			"seo":                check,
			"recommendations": {
				Type:        genai.TypeArray,
				Description: "Improvement suggestions that do not block publication",
				Items:       &genai.Schema{Type: genai.TypeString},
			},
		},
		Required: []string{"approved", "fact_verification", "tone_of_voice", "technical_accuracy", "completeness", "seo"},
	}
}

type deepCheck struct {
	Score  int  `json:"score"`
	Passed bool `json:"passed"`
	Issues []struct {
		Severity string `json:"severity"`
		Message  string `json:"message"`
	} `json:"issues"`
}

type deepVerdict struct {
	Approved          bool      `json:"approved"`
	FactVerification  deepCheck `json:"fact_verification"`
	ToneOfVoice       deepCheck `json:"tone_of_voice"`
	TechnicalAccuracy deepCheck `json:"technical_accuracy"`
	Completeness      deepCheck `json:"completeness"`
	SEO               deepCheck `json:"seo"`
	Recommendations   []string  `json:"recommendations"`
}

// Score runs both phases and combines them. A critical pre-check
// finding rejects the article immediately and the deep phase is never
// invoked.
func (s *Scorer) Score(ctx context.Context, article *core.Article, approvedFacts []core.Fact) (*core.ComplianceResult, error) {
	report := runPrechecks(article, s.cfg)

	if report.critical {
		return &core.ComplianceResult{
			Approved:     false,
			OverallScore: 0,
			Checks:       report.checks,
			Issues:       report.issues,
		}, nil
	}

	payload := buildDeepCheckPayload(article, approvedFacts)
	response, err := s.gen.Generate(ctx, deepCheckSystemPrompt, payload, deepCheckSchema())
	if err != nil {
		return nil, fmt.Errorf("deep compliance check failed: %w", err)
	}

	var verdict deepVerdict
	if err := json.Unmarshal([]byte(response), &verdict); err != nil {
		return nil, fmt.Errorf("failed to parse compliance verdict: %w", err)
	}

	result := &core.ComplianceResult{
		Approved:        verdict.Approved,
		Checks:          report.checks,
		Issues:          report.issues,
		Recommendations: verdict.Recommendations,
	}

	named := map[string]deepCheck{
		CheckFactVerification:  verdict.FactVerification,
		CheckToneOfVoice:       verdict.ToneOfVoice,
		CheckTechnicalAccuracy: verdict.TechnicalAccuracy,
		CheckCompleteness:      verdict.Completeness,
		CheckSEO:               verdict.SEO,
	}

	weighted := 0.0
	for name, check := range named {
		checkResult := core.CheckResult{
			Passed: check.Passed,
			Score:  clampScore(check.Score),
		}
		for _, issue := range check.Issues {
			checkResult.Issues = append(checkResult.Issues, issue.Message)
			result.Issues = append(result.Issues, core.Issue{
				Check:    name,
				Severity: parseSeverity(issue.Severity),
				Message:  issue.Message,
			})
		}
		result.Checks[name] = checkResult
		weighted += deepCheckWeights[name] * float64(checkResult.Score)
	}
	result.OverallScore = int(math.Round(weighted))

	return result, nil
}

func buildDeepCheckPayload(article *core.Article, approvedFacts []core.Fact) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Title: %s\n", article.Title)
	fmt.Fprintf(&sb, "Meta description: %s\n", article.MetaDescription)
	fmt.Fprintf(&sb, "Keywords: %s\n", strings.Join(article.Keywords, ", "))
	fmt.Fprintf(&sb, "Target audience: %s\n\n", article.TargetAudience)

	sb.WriteString("Approved facts:\n")
	for i, fact := range approvedFacts {
		fmt.Fprintf(&sb, "%d. %s (source: %s, confidence: %.2f)\n", i+1, fact.Claim, fact.Source, fact.Confidence)
	}

	fmt.Fprintf(&sb, "\nArticle content:\n%s\n", article.Content)
	return sb.String()
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func parseSeverity(severity string) core.Severity {
	switch strings.ToLower(strings.TrimSpace(severity)) {
	case "critical":
		return core.SeverityCritical
	case "info":
		return core.SeverityInfo
	default:
		return core.SeverityWarning
	}
}
