// Package store persists articles and pipeline runs in SQLite. Every
// read and write is scoped to a tenant id; cross-tenant lookups behave
// as not-found.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/JeroenAmsterdam/renault-content-ai/internal/core"
)

// ErrArticleNotFound is returned when an article does not exist within
// the requesting tenant's scope.
var ErrArticleNotFound = errors.New("article not found")

// Store is the SQLite-backed article and run store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (and initializes) the database under dataDir.
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "contentpipe.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{
		db:   db,
		path: dbPath,
	}

	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return store, nil
}

// initialize creates the necessary tables.
func (s *Store) initialize() error {
	articlesTable := `
	CREATE TABLE IF NOT EXISTS articles (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		title TEXT,
		meta_description TEXT,
		content TEXT,
		keywords TEXT,
		word_count INTEGER,
		facts_used TEXT,
		internal_links TEXT,
		topic TEXT,
		target_audience TEXT,
		desired_word_count INTEGER,
		version INTEGER NOT NULL,
		parent_article_id TEXT,
		version_notes TEXT,
		compliance TEXT,
		date_created DATETIME
	);`

	runsTable := `
	CREATE TABLE IF NOT EXISTS pipeline_runs (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		article_id TEXT,
		success INTEGER,
		error_type TEXT,
		error TEXT,
		warnings TEXT,
		steps TEXT,
		started_at DATETIME,
		finished_at DATETIME
	);`

	indexes := `
	CREATE INDEX IF NOT EXISTS idx_articles_tenant ON articles (tenant_id);
	CREATE INDEX IF NOT EXISTS idx_articles_lineage ON articles (tenant_id, parent_article_id);`

	for _, stmt := range []string{articlesTable, runsTable, indexes} {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveArticle persists an article and its compliance metadata as one
// transaction: a reader must never observe the article without its
// compliance result once the run reports success.
func (s *Store) SaveArticle(ctx context.Context, article *core.Article, compliance *core.ComplianceResult) (string, error) {
	if article.TenantID == "" {
		return "", &core.StorageError{Op: "save article", Cause: errors.New("article has no tenant id")}
	}
	if article.ID == "" {
		article.ID = uuid.NewString()
	}

	keywords, _ := json.Marshal(article.Keywords)
	factsUsed, _ := json.Marshal(article.FactsUsed)
	internalLinks, _ := json.Marshal(article.InternalLinkSuggestions)
	complianceJSON, err := json.Marshal(compliance)
	if err != nil {
		return "", &core.StorageError{Op: "save article", Cause: err}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", &core.StorageError{Op: "save article", Cause: err}
	}
	defer tx.Rollback()

	query := `
	INSERT INTO articles
	(id, tenant_id, title, meta_description, content, keywords, word_count,
	 facts_used, internal_links, topic, target_audience, desired_word_count,
	 version, parent_article_id, version_notes, compliance, date_created)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = tx.ExecContext(ctx, query,
		article.ID,
		article.TenantID,
		article.Title,
		article.MetaDescription,
		article.Content,
		string(keywords),
		article.WordCount,
		string(factsUsed),
		string(internalLinks),
		article.Topic,
		article.TargetAudience,
		article.DesiredWordCount,
		article.Version,
		article.ParentArticleID,
		article.VersionNotes,
		string(complianceJSON),
		article.DateCreated,
	)
	if err != nil {
		return "", &core.StorageError{Op: "save article", Cause: err}
	}

	if err := tx.Commit(); err != nil {
		return "", &core.StorageError{Op: "save article", Cause: err}
	}

	return article.ID, nil
}

// GetArticle retrieves one article with its compliance metadata,
// scoped to the tenant.
func (s *Store) GetArticle(ctx context.Context, tenantID, id string) (*core.Article, *core.ComplianceResult, error) {
	query := `
	SELECT id, tenant_id, title, meta_description, content, keywords, word_count,
	       facts_used, internal_links, topic, target_audience, desired_word_count,
	       version, parent_article_id, version_notes, compliance, date_created
	FROM articles
	WHERE tenant_id = ? AND id = ?`

	row := s.db.QueryRowContext(ctx, query, tenantID, id)
	article, compliance, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, nil, ErrArticleNotFound
	}
	if err != nil {
		return nil, nil, &core.StorageError{Op: "get article", Cause: err}
	}
	return article, compliance, nil
}

// ListLineage returns every version in a lineage (the root plus all
// articles pointing to it), ordered by version.
func (s *Store) ListLineage(ctx context.Context, tenantID, rootID string) ([]core.Article, error) {
	query := `
	SELECT id, tenant_id, title, meta_description, content, keywords, word_count,
	       facts_used, internal_links, topic, target_audience, desired_word_count,
	       version, parent_article_id, version_notes, compliance, date_created
	FROM articles
	WHERE tenant_id = ? AND (id = ? OR parent_article_id = ?)
	ORDER BY version`

	rows, err := s.db.QueryContext(ctx, query, tenantID, rootID, rootID)
	if err != nil {
		return nil, &core.StorageError{Op: "list lineage", Cause: err}
	}
	defer rows.Close()

	var articles []core.Article
	for rows.Next() {
		article, _, err := scanArticle(rows)
		if err != nil {
			return nil, &core.StorageError{Op: "list lineage", Cause: err}
		}
		articles = append(articles, *article)
	}
	return articles, rows.Err()
}

// ListArticles returns all articles for a tenant, newest first.
func (s *Store) ListArticles(ctx context.Context, tenantID string) ([]core.Article, error) {
	query := `
	SELECT id, tenant_id, title, meta_description, content, keywords, word_count,
	       facts_used, internal_links, topic, target_audience, desired_word_count,
	       version, parent_article_id, version_notes, compliance, date_created
	FROM articles
	WHERE tenant_id = ?
	ORDER BY date_created DESC`

	rows, err := s.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, &core.StorageError{Op: "list articles", Cause: err}
	}
	defer rows.Close()

	var articles []core.Article
	for rows.Next() {
		article, _, err := scanArticle(rows)
		if err != nil {
			return nil, &core.StorageError{Op: "list articles", Cause: err}
		}
		articles = append(articles, *article)
	}
	return articles, rows.Err()
}

// SaveRun records a pipeline run envelope for observability. Runs are
// append-only; the step ledger is stored as JSON.
func (s *Store) SaveRun(ctx context.Context, tenantID string, result *core.PipelineResult, started, finished time.Time) error {
	warnings, _ := json.Marshal(result.QualityWarnings)
	steps, _ := json.Marshal(result.Steps)

	query := `
	INSERT INTO pipeline_runs
	(id, tenant_id, article_id, success, error_type, error, warnings, steps, started_at, finished_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, query,
		uuid.NewString(),
		tenantID,
		result.ArticleID,
		result.Success,
		result.ErrorType,
		result.Error,
		string(warnings),
		string(steps),
		started,
		finished,
	)
	if err != nil {
		return &core.StorageError{Op: "record run", Cause: err}
	}
	return nil
}

// Stats summarizes the store contents.
type Stats struct {
	ArticleCount int
	LineageCount int
	RunCount     int
	FailedRuns   int
	StoreSize    int64
	LastUpdated  time.Time
}

// GetStats returns statistics about the store.
func (s *Store) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	queries := map[string]*int{
		"SELECT COUNT(*) FROM articles":                                                       &stats.ArticleCount,
		"SELECT COUNT(*) FROM articles WHERE parent_article_id = '' OR parent_article_id IS NULL": &stats.LineageCount,
		"SELECT COUNT(*) FROM pipeline_runs":                                                  &stats.RunCount,
		"SELECT COUNT(*) FROM pipeline_runs WHERE success = 0":                                &stats.FailedRuns,
	}

	for query, target := range queries {
		if err := s.db.QueryRowContext(ctx, query).Scan(target); err != nil {
			return nil, fmt.Errorf("failed to get count: %w", err)
		}
	}

	if fileInfo, err := os.Stat(s.path); err == nil {
		stats.StoreSize = fileInfo.Size()
		stats.LastUpdated = fileInfo.ModTime()
	}

	return stats, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanArticle(row scanner) (*core.Article, *core.ComplianceResult, error) {
	var article core.Article
	var keywords, factsUsed, internalLinks, complianceJSON string

	err := row.Scan(
		&article.ID,
		&article.TenantID,
		&article.Title,
		&article.MetaDescription,
		&article.Content,
		&keywords,
		&article.WordCount,
		&factsUsed,
		&internalLinks,
		&article.Topic,
		&article.TargetAudience,
		&article.DesiredWordCount,
		&article.Version,
		&article.ParentArticleID,
		&article.VersionNotes,
		&complianceJSON,
		&article.DateCreated,
	)
	if err != nil {
		return nil, nil, err
	}

	json.Unmarshal([]byte(keywords), &article.Keywords)
	json.Unmarshal([]byte(factsUsed), &article.FactsUsed)
	json.Unmarshal([]byte(internalLinks), &article.InternalLinkSuggestions)

	var compliance *core.ComplianceResult
	if complianceJSON != "" && complianceJSON != "null" {
		compliance = &core.ComplianceResult{}
		if err := json.Unmarshal([]byte(complianceJSON), compliance); err != nil {
			return nil, nil, fmt.Errorf("failed to decode compliance metadata: %w", err)
		}
	}

	return &article, compliance, nil
}
