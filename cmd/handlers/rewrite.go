package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JeroenAmsterdam/renault-content-ai/internal/versions"
)

// NewRewriteCmd creates the rewrite command
func NewRewriteCmd() *cobra.Command {
	var (
		tenantID   string
		notes      string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "rewrite [article-id]",
		Short: "Produce a new version of an existing article",
		Long: `Re-run the full pipeline for an existing article with editorial
notes, producing the next version in its lineage. The original article
is never modified.

Examples:
  contentpipe rewrite 5f1c9a2e --tenant dealer-nl-001 --notes "shorten the intro"
  contentpipe rewrite 5f1c9a2e --tenant dealer-nl-001 --notes "add a pricing section" --json`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			rewriteRun(args[0], tenantID, notes, jsonOutput)
		},
	}

	cmd.Flags().StringVarP(&tenantID, "tenant", "t", "", "Tenant identifier (required)")
	cmd.Flags().StringVarP(&notes, "notes", "n", "", "Editorial notes for the rewrite (required)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the full result envelope as JSON")
	_ = cmd.MarkFlagRequired("tenant")
	_ = cmd.MarkFlagRequired("notes")

	return cmd
}

func rewriteRun(articleID, tenantID, notes string, jsonOutput bool) {
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

	manager := versions.NewManager(pipe, st)

	fmt.Printf("🔁 Rewriting article %s for tenant %s\n", articleID, tenantID)

	rewrite, err := manager.Rewrite(context.Background(), tenantID, articleID, notes)
	if err != nil && rewrite == nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}

	printResult(rewrite.Result, jsonOutput)
	if !rewrite.Result.Success {
		os.Exit(1)
	}
	if !jsonOutput {
		fmt.Printf("📜 Lineage root: %s\n", rewrite.ParentArticleID)
	}
}
