// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists finished evidence runs to SQLite so past runs
// can be compared without refetching.
// Implements: prd003-reporting (persistence).
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/evidence-engine/internal/aggregate"
	"github.com/pdiddy/evidence-engine/pkg/types"
)

// Store manages the evidence-run SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the run database at path, creating parent
// directories and the schema as needed.
func NewStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			mode TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS articles (
			pmid TEXT PRIMARY KEY,
			date TEXT,
			journal TEXT,
			title TEXT,
			genes TEXT,
			diseases TEXT,
			phenotypes TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS entity_articles (
			run_id TEXT NOT NULL REFERENCES runs(id),
			entity TEXT NOT NULL,
			kind TEXT NOT NULL,
			position INTEGER NOT NULL,
			pmid TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entity_articles_run ON entity_articles(run_id)`,
		`CREATE TABLE IF NOT EXISTS associations (
			run_id TEXT NOT NULL REFERENCES runs(id),
			entity TEXT NOT NULL,
			kind TEXT NOT NULL,
			key TEXT NOT NULL,
			article_count INTEGER NOT NULL,
			pmids TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_associations_run ON associations(run_id, kind)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RunRecord is one row of the runs listing.
type RunRecord struct {
	ID        string
	Mode      string
	CreatedAt time.Time
}

// Association is one persisted association-table row.
type Association struct {
	Entity       string
	Kind         string
	Key          string
	ArticleCount int
	PMIDs        []string
}

// SaveRun persists a finished result under runID in one transaction:
// the run row, the article detail records, each entity's filtered PMID
// list, and every association table. Articles are shared across runs
// and upserted by PMID.
func (s *Store) SaveRun(ctx context.Context, runID string, result *aggregate.Result) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, mode, created_at) VALUES (?, ?, ?)`,
		runID, result.Mode.String(), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	if err := insertArticles(ctx, tx, result); err != nil {
		return err
	}
	if err := insertEntities(ctx, tx, runID, result); err != nil {
		return err
	}
	if err := insertGroups(ctx, tx, runID, result); err != nil {
		return err
	}

	return tx.Commit()
}

func insertArticles(ctx context.Context, tx *sql.Tx, result *aggregate.Result) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO articles (pmid, date, journal, title, genes, diseases, phenotypes)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(pmid) DO UPDATE SET
			date=excluded.date, journal=excluded.journal, title=excluded.title,
			genes=excluded.genes, diseases=excluded.diseases, phenotypes=excluded.phenotypes`)
	if err != nil {
		return fmt.Errorf("preparing article insert: %w", err)
	}
	defer stmt.Close()

	for _, pmid := range result.ArticleOrder {
		a := result.Articles[pmid]
		genesJSON, _ := json.Marshal(a.Genes)
		diseasesJSON, _ := json.Marshal(a.Diseases)
		phenotypesJSON, _ := json.Marshal(a.Phenotypes)
		dateStr := ""
		if !a.Date.IsZero() {
			dateStr = a.Date.Format("2006-01-02")
		}
		if _, err := stmt.ExecContext(ctx,
			a.PMID, dateStr, a.Journal, a.Title,
			string(genesJSON), string(diseasesJSON), string(phenotypesJSON),
		); err != nil {
			return fmt.Errorf("upserting article %s: %w", a.PMID, err)
		}
	}
	return nil
}

func insertEntities(ctx context.Context, tx *sql.Tx, runID string, result *aggregate.Result) error {
	pmidStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO entity_articles (run_id, entity, kind, position, pmid) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing entity insert: %w", err)
	}
	defer pmidStmt.Close()

	assocStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO associations (run_id, entity, kind, key, article_count, pmids) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing association insert: %w", err)
	}
	defer assocStmt.Close()

	for _, ev := range result.Entities {
		for i, pmid := range ev.PMIDs {
			if _, err := pmidStmt.ExecContext(ctx,
				runID, ev.Entity.Name, ev.Entity.Kind.String(), i, pmid,
			); err != nil {
				return fmt.Errorf("inserting entity article: %w", err)
			}
		}

		tables := []struct {
			kind  string
			table *aggregate.Table
		}{
			{"disease", ev.Diseases},
			{"phenotype", ev.Phenotypes},
			{"gene", ev.Genes},
			{"variant", ev.Variants},
		}
		for _, t := range tables {
			if t.table == nil {
				continue
			}
			for _, row := range t.table.Rows() {
				pmidsJSON, _ := json.Marshal(row.PMIDs)
				if _, err := assocStmt.ExecContext(ctx,
					runID, ev.Entity.Name, t.kind, row.Key, len(row.PMIDs), string(pmidsJSON),
				); err != nil {
					return fmt.Errorf("inserting association %s/%s: %w", t.kind, row.Key, err)
				}
			}
		}
	}
	return nil
}

func insertGroups(ctx context.Context, tx *sql.Tx, runID string, result *aggregate.Result) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO associations (run_id, entity, kind, key, article_count, pmids) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing group insert: %w", err)
	}
	defer stmt.Close()

	groups := []struct {
		kind string
		list []*aggregate.Group
	}{
		{"variant_group", result.VariantGroups},
		{"phenotype_group", result.PhenotypeGroups},
	}
	for _, g := range groups {
		for _, group := range g.list {
			pmidsJSON, _ := json.Marshal(group.PMIDs)
			if _, err := stmt.ExecContext(ctx,
				runID, "", g.kind, group.Key, len(group.PMIDs), string(pmidsJSON),
			); err != nil {
				return fmt.Errorf("inserting group %s: %w", group.Key, err)
			}
		}
	}
	return nil
}

// Runs lists stored runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]RunRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, mode, created_at FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var rec RunRecord
		var created string
		if err := rows.Scan(&rec.ID, &rec.Mode, &created); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		rec.CreatedAt, _ = time.Parse(time.RFC3339, created)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Associations returns a run's persisted association rows of one kind,
// in insertion order.
func (s *Store) Associations(ctx context.Context, runID, kind string) ([]Association, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT entity, kind, key, article_count, pmids FROM associations
		 WHERE run_id = ? AND kind = ? ORDER BY rowid`, runID, kind)
	if err != nil {
		return nil, fmt.Errorf("querying associations: %w", err)
	}
	defer rows.Close()

	var out []Association
	for rows.Next() {
		var a Association
		var pmidsJSON string
		if err := rows.Scan(&a.Entity, &a.Kind, &a.Key, &a.ArticleCount, &pmidsJSON); err != nil {
			return nil, fmt.Errorf("scanning association: %w", err)
		}
		if err := json.Unmarshal([]byte(pmidsJSON), &a.PMIDs); err != nil {
			return nil, fmt.Errorf("decoding pmids for %s: %w", a.Key, err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Article loads one stored article detail record; nil when absent.
func (s *Store) Article(ctx context.Context, pmid string) (*types.Article, error) {
	var (
		a          types.Article
		dateStr    string
		genes      string
		diseases   string
		phenotypes string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT pmid, date, journal, title, genes, diseases, phenotypes FROM articles WHERE pmid = ?`,
		pmid,
	).Scan(&a.PMID, &dateStr, &a.Journal, &a.Title, &genes, &diseases, &phenotypes)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying article %s: %w", pmid, err)
	}

	if dateStr != "" {
		if t, err := time.Parse("2006-01-02", dateStr); err == nil {
			a.Date = t
		}
	}
	if err := json.Unmarshal([]byte(genes), &a.Genes); err != nil {
		return nil, fmt.Errorf("decoding genes for %s: %w", pmid, err)
	}
	if err := json.Unmarshal([]byte(diseases), &a.Diseases); err != nil {
		return nil, fmt.Errorf("decoding diseases for %s: %w", pmid, err)
	}
	if err := json.Unmarshal([]byte(phenotypes), &a.Phenotypes); err != nil {
		return nil, fmt.Errorf("decoding phenotypes for %s: %w", pmid, err)
	}
	return &a, nil
}
