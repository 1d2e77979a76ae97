package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JeroenAmsterdam/renault-content-ai/internal/core"
)

// NewGenerateCmd creates the generate command
func NewGenerateCmd() *cobra.Command {
	var (
		tenantID   string
		audience   string
		keywords   []string
		wordCount  int
		briefing   string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "generate [topic]",
		Short: "Generate a fact-checked article for a topic",
		Long: `Run the full content pipeline for a topic: research, fact
validation, writing, compliance scoring, and storage.

The command always prints a result envelope. A failed run reports which
stage failed and why instead of exiting with a stack trace.

Examples:
  # Generate with defaults
  contentpipe generate "Home EV charging" --tenant dealer-nl-001

  # Target a specific audience and length
  contentpipe generate "Winter tyres" --tenant dealer-nl-001 \
    --audience "first-time buyers" --words 900 --keywords "winter tyres,safety"`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			generateRun(args[0], tenantID, audience, keywords, wordCount, briefing, jsonOutput)
		},
	}

	cmd.Flags().StringVarP(&tenantID, "tenant", "t", "", "Tenant identifier (required)")
	cmd.Flags().StringVarP(&audience, "audience", "a", "general automotive readers", "Target audience")
	cmd.Flags().StringSliceVarP(&keywords, "keywords", "k", nil, "Target keywords (comma-separated)")
	cmd.Flags().IntVarP(&wordCount, "words", "w", 800, "Desired word count")
	cmd.Flags().StringVar(&briefing, "briefing", "", "Optional free-text briefing")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the full result envelope as JSON")
	_ = cmd.MarkFlagRequired("tenant")

	return cmd
}

func generateRun(topic, tenantID, audience string, keywords []string, wordCount int, briefing string, jsonOutput bool) {
	st, err := buildStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	pipe, err := buildPipeline(st)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("🚀 Generating article for tenant %s: %q\n", tenantID, topic)

	result := pipe.Run(context.Background(), core.PipelineRequest{
		Topic:            topic,
		TargetAudience:   audience,
		Keywords:         keywords,
		DesiredWordCount: wordCount,
		Briefing:         briefing,
		TenantID:         tenantID,
	})

	printResult(result, jsonOutput)
	if !result.Success {
		os.Exit(1)
	}
}

func printResult(result *core.PipelineResult, jsonOutput bool) {
	if jsonOutput {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ Failed to encode result: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
		return
	}

	fmt.Println("═══════════════════════════════════════════════════════════════════")
	for _, step := range result.Steps {
		icon := stepIcon(step.Status)
		line := fmt.Sprintf("%s %-12s %s", icon, step.Name, step.Status)
		if step.Error != "" {
			line += "  (" + step.Error + ")"
		}
		fmt.Println(line)
	}
	fmt.Println("═══════════════════════════════════════════════════════════════════")

	if !result.Success {
		fmt.Printf("❌ Pipeline failed [%s]: %s\n", result.ErrorType, result.Error)
		return
	}

	fmt.Printf("✅ Article stored: %s (v%d)\n", result.ArticleID, result.Article.Version)
	fmt.Printf("   Title: %s\n", result.Article.Title)
	fmt.Printf("   Words: %d\n", result.Article.WordCount)
	if result.Compliance != nil {
		fmt.Printf("   Compliance score: %d/100\n", result.Compliance.OverallScore)
	}
	if len(result.QualityWarnings) > 0 {
		fmt.Printf("⚠️  Quality warnings:\n")
		for _, warning := range result.QualityWarnings {
			fmt.Printf("   - %s\n", warning)
		}
	}
	fmt.Printf("💡 Use 'contentpipe article show %s --tenant %s' to read it\n",
		result.ArticleID, result.Article.TenantID)
}

func stepIcon(status core.StepStatus) string {
	switch status {
	case core.StepCompleted:
		return "✅"
	case core.StepFailed:
		return "❌"
	default:
		return "⏳"
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return strings.TrimSpace(s[:max-3]) + "..."
}
