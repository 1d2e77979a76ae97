package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/JeroenAmsterdam/renault-content-ai/internal/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testArticle(tenantID string, version int) *core.Article {
	return &core.Article{
		TenantID:                tenantID,
		Title:                   "Home charging explained",
		MetaDescription:         "Everything about charging at home.",
		Content:                 "Charging at home is the cheapest option for most drivers.",
		Keywords:                []string{"ev", "charging"},
		WordCount:               750,
		FactsUsed:               []string{"home charging costs less per kWh"},
		InternalLinkSuggestions: []string{"/charging-guide"},
		Topic:                   "home ev charging",
		TargetAudience:          "first-time buyers",
		DesiredWordCount:        800,
		Version:                 version,
		DateCreated:             time.Now().UTC().Truncate(time.Second),
	}
}

func testCompliance() *core.ComplianceResult {
	return &core.ComplianceResult{
		Approved:     true,
		OverallScore: 85,
		Checks: map[string]core.CheckResult{
			"fact_verification": {Passed: true, Score: 90},
		},
		Issues: []core.Issue{
			{Check: "seo", Severity: core.SeverityWarning, Message: "title could be shorter"},
		},
		Recommendations: []string{"add a call to action"},
	}
}

func TestSaveAndGetArticle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	article := testArticle("tenant-1", 1)
	id, err := store.SaveArticle(ctx, article, testCompliance())
	if err != nil {
		t.Fatalf("Failed to save article: %v", err)
	}
	if id == "" {
		t.Fatal("Expected a generated article id")
	}

	loaded, compliance, err := store.GetArticle(ctx, "tenant-1", id)
	if err != nil {
		t.Fatalf("Failed to load article: %v", err)
	}

	if loaded.Title != article.Title {
		t.Errorf("Title mismatch: %q vs %q", loaded.Title, article.Title)
	}
	if loaded.Content != article.Content {
		t.Errorf("Content mismatch")
	}
	if len(loaded.Keywords) != 2 || loaded.Keywords[0] != "ev" {
		t.Errorf("Keywords not round-tripped: %v", loaded.Keywords)
	}
	if len(loaded.FactsUsed) != 1 {
		t.Errorf("FactsUsed not round-tripped: %v", loaded.FactsUsed)
	}
	if loaded.Version != 1 {
		t.Errorf("Expected version 1, got %d", loaded.Version)
	}

	if compliance == nil {
		t.Fatal("Expected compliance metadata with the article")
	}
	if compliance.OverallScore != 85 {
		t.Errorf("Expected compliance score 85, got %d", compliance.OverallScore)
	}
	if len(compliance.Issues) != 1 {
		t.Errorf("Expected one compliance issue, got %d", len(compliance.Issues))
	}
}

func TestSaveArticleRequiresTenant(t *testing.T) {
	store := newTestStore(t)

	article := testArticle("", 1)
	_, err := store.SaveArticle(context.Background(), article, nil)

	var storageErr *core.StorageError
	if !errors.As(err, &storageErr) {
		t.Fatalf("Expected StorageError for missing tenant, got %v", err)
	}
}

func TestGetArticleTenantIsolation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	id, err := store.SaveArticle(ctx, testArticle("tenant-1", 1), nil)
	if err != nil {
		t.Fatalf("Failed to save article: %v", err)
	}

	_, _, err = store.GetArticle(ctx, "tenant-2", id)
	if !errors.Is(err, ErrArticleNotFound) {
		t.Errorf("Expected ErrArticleNotFound across tenants, got %v", err)
	}

	articles, err := store.ListArticles(ctx, "tenant-2")
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if len(articles) != 0 {
		t.Errorf("Expected no articles for tenant-2, got %d", len(articles))
	}
}

func TestGetArticleNotFound(t *testing.T) {
	store := newTestStore(t)

	_, _, err := store.GetArticle(context.Background(), "tenant-1", "missing")
	if !errors.Is(err, ErrArticleNotFound) {
		t.Errorf("Expected ErrArticleNotFound, got %v", err)
	}
}

func TestListLineageOrderedByVersion(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	root := testArticle("tenant-1", 1)
	rootID, err := store.SaveArticle(ctx, root, nil)
	if err != nil {
		t.Fatalf("Failed to save root: %v", err)
	}

	// Save out of order to verify the ORDER BY.
	for _, version := range []int{3, 2} {
		child := testArticle("tenant-1", version)
		child.ParentArticleID = rootID
		child.VersionNotes = "revision"
		if _, err := store.SaveArticle(ctx, child, nil); err != nil {
			t.Fatalf("Failed to save version %d: %v", version, err)
		}
	}

	lineage, err := store.ListLineage(ctx, "tenant-1", rootID)
	if err != nil {
		t.Fatalf("Failed to list lineage: %v", err)
	}
	if len(lineage) != 3 {
		t.Fatalf("Expected 3 versions, got %d", len(lineage))
	}
	for i, want := range []int{1, 2, 3} {
		if lineage[i].Version != want {
			t.Errorf("Position %d: expected version %d, got %d", i, want, lineage[i].Version)
		}
	}
}

func TestListLineageExcludesOtherTenants(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rootID, err := store.SaveArticle(ctx, testArticle("tenant-1", 1), nil)
	if err != nil {
		t.Fatalf("Failed to save root: %v", err)
	}

	intruder := testArticle("tenant-2", 2)
	intruder.ParentArticleID = rootID
	if _, err := store.SaveArticle(ctx, intruder, nil); err != nil {
		t.Fatalf("Failed to save intruder: %v", err)
	}

	lineage, err := store.ListLineage(ctx, "tenant-1", rootID)
	if err != nil {
		t.Fatalf("Failed to list lineage: %v", err)
	}
	if len(lineage) != 1 {
		t.Errorf("Expected only tenant-1 articles in the lineage, got %d", len(lineage))
	}
}

func TestSaveRunAndStats(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	started := time.Now().UTC().Add(-time.Minute)

	success := &core.PipelineResult{
		Success:   true,
		ArticleID: "art-1",
		Steps: []core.WorkflowStep{
			{Name: "research", Status: core.StepCompleted},
		},
	}
	failure := &core.PipelineResult{
		Success:   false,
		Error:     "not enough approved facts",
		ErrorType: core.ErrorTypeInsufficientFacts,
	}

	if err := store.SaveRun(ctx, "tenant-1", success, started, time.Now().UTC()); err != nil {
		t.Fatalf("Failed to save successful run: %v", err)
	}
	if err := store.SaveRun(ctx, "tenant-1", failure, started, time.Now().UTC()); err != nil {
		t.Fatalf("Failed to save failed run: %v", err)
	}

	if _, err := store.SaveArticle(ctx, testArticle("tenant-1", 1), nil); err != nil {
		t.Fatalf("Failed to save article: %v", err)
	}

	stats, err := store.GetStats(ctx)
	if err != nil {
		t.Fatalf("Failed to get stats: %v", err)
	}
	if stats.ArticleCount != 1 {
		t.Errorf("Expected 1 article, got %d", stats.ArticleCount)
	}
	if stats.RunCount != 2 {
		t.Errorf("Expected 2 runs, got %d", stats.RunCount)
	}
	if stats.FailedRuns != 1 {
		t.Errorf("Expected 1 failed run, got %d", stats.FailedRuns)
	}
	if stats.StoreSize == 0 {
		t.Error("Expected a non-zero store size")
	}
}

func TestSaveArticleKeepsProvidedID(t *testing.T) {
	store := newTestStore(t)

	article := testArticle("tenant-1", 1)
	article.ID = "fixed-id"

	id, err := store.SaveArticle(context.Background(), article, nil)
	if err != nil {
		t.Fatalf("Failed to save article: %v", err)
	}
	if id != "fixed-id" {
		t.Errorf("Expected the provided id to be kept, got %q", id)
	}
}
