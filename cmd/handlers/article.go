package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JeroenAmsterdam/renault-content-ai/internal/store"
)

// NewArticleCmd creates the article command group
func NewArticleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "article",
		Short: "Inspect stored articles",
		Long: `Query articles stored for a tenant.

Examples:
  contentpipe article list --tenant dealer-nl-001
  contentpipe article show 5f1c9a2e --tenant dealer-nl-001
  contentpipe article lineage 5f1c9a2e --tenant dealer-nl-001`,
	}

	cmd.AddCommand(newArticleListCmd())
	cmd.AddCommand(newArticleShowCmd())
	cmd.AddCommand(newArticleLineageCmd())

	return cmd
}

func newArticleListCmd() *cobra.Command {
	var tenantID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List articles for a tenant",
		Run: func(cmd *cobra.Command, args []string) {
			articleListRun(tenantID)
		},
	}

	cmd.Flags().StringVarP(&tenantID, "tenant", "t", "", "Tenant identifier (required)")
	_ = cmd.MarkFlagRequired("tenant")

	return cmd
}

func newArticleShowCmd() *cobra.Command {
	var tenantID string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show [article-id]",
		Short: "Show a stored article with its compliance result",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			articleShowRun(args[0], tenantID, jsonOutput)
		},
	}

	cmd.Flags().StringVarP(&tenantID, "tenant", "t", "", "Tenant identifier (required)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the article as JSON")
	_ = cmd.MarkFlagRequired("tenant")

	return cmd
}

func newArticleLineageCmd() *cobra.Command {
	var tenantID string

	cmd := &cobra.Command{
		Use:   "lineage [article-id]",
		Short: "Show the version history of an article",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			articleLineageRun(args[0], tenantID)
		},
	}

	cmd.Flags().StringVarP(&tenantID, "tenant", "t", "", "Tenant identifier (required)")
	_ = cmd.MarkFlagRequired("tenant")

	return cmd
}

func articleListRun(tenantID string) {
	st, err := buildStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	articles, err := st.ListArticles(context.Background(), tenantID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to list articles: %v\n", err)
		os.Exit(1)
	}

	if len(articles) == 0 {
		fmt.Printf("No articles stored for tenant %s\n", tenantID)
		return
	}

	fmt.Printf("\n📄 Articles for %s\n", tenantID)
	fmt.Println("═══════════════════════════════════════════════════════════════════")
	fmt.Printf("%-36s  %-3s  %-12s  %s\n", "ID", "Ver", "Date", "Title")
	fmt.Println("───────────────────────────────────────────────────────────────────")
	for _, a := range articles {
		fmt.Printf("%-36s  v%-2d  %-12s  %s\n",
			a.ID, a.Version, a.DateCreated.Format("Jan 02, 2006"), truncate(a.Title, 40))
	}
	fmt.Println("═══════════════════════════════════════════════════════════════════")
}

func articleShowRun(articleID, tenantID string, jsonOutput bool) {
	st, err := buildStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	article, compliance, err := st.GetArticle(context.Background(), tenantID, articleID)
	if err != nil {
		if errors.Is(err, store.ErrArticleNotFound) {
			fmt.Fprintf(os.Stderr, "❌ Article %s not found for tenant %s\n", articleID, tenantID)
		} else {
			fmt.Fprintf(os.Stderr, "❌ Failed to load article: %v\n", err)
		}
		os.Exit(1)
	}

	if jsonOutput {
		data, err := json.MarshalIndent(map[string]any{
			"article":    article,
			"compliance": compliance,
		}, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ Failed to encode article: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
		return
	}

	fmt.Printf("# %s\n\n", article.Title)
	fmt.Printf("ID: %s  Version: %d  Tenant: %s\n", article.ID, article.Version, article.TenantID)
	if article.ParentArticleID != "" {
		fmt.Printf("Lineage root: %s\n", article.ParentArticleID)
	}
	if article.VersionNotes != "" {
		fmt.Printf("Version notes: %s\n", article.VersionNotes)
	}
	fmt.Printf("Words: %d  Created: %s\n", article.WordCount, article.DateCreated.Format("Jan 02, 2006 15:04"))
	if compliance != nil {
		fmt.Printf("Compliance: %d/100\n", compliance.OverallScore)
	}
	fmt.Printf("Meta: %s\n\n", article.MetaDescription)
	fmt.Println(article.Content)
}

func articleLineageRun(articleID, tenantID string) {
	st, err := buildStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	ctx := context.Background()

	article, _, err := st.GetArticle(ctx, tenantID, articleID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to load article: %v\n", err)
		os.Exit(1)
	}

	rootID := article.ParentArticleID
	if rootID == "" {
		rootID = article.ID
	}

	lineage, err := st.ListLineage(ctx, tenantID, rootID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Failed to load lineage: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\n📜 Lineage of %s\n", rootID)
	fmt.Println("═══════════════════════════════════════════════════════════════════")
	for _, a := range lineage {
		marker := " "
		if a.ID == articleID {
			marker = "*"
		}
		line := fmt.Sprintf("%s v%-2d  %-36s  %s", marker, a.Version, a.ID, a.DateCreated.Format("Jan 02, 2006"))
		if a.VersionNotes != "" {
			line += "  " + truncate(a.VersionNotes, 40)
		}
		fmt.Println(line)
	}
	fmt.Println("═══════════════════════════════════════════════════════════════════")
}
