// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists papers and their derived records in SQLite.
// All mutation happens through short-lived, paper-scoped transactions;
// the store is the sole owner of the schema.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paper-digest/pkg/types"
)

// ErrDuplicate is returned by InsertPaper when the arXiv ID already exists.
var ErrDuplicate = errors.New("paper already exists")

// ErrNotFound is returned by point queries when no row matches.
var ErrNotFound = errors.New("not found")

// timeFormat is how timestamps are written to and read from SQLite.
const timeFormat = time.RFC3339Nano

// Store manages the paper corpus database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database at cfg.DBPath and ensures
// the schema exists. An error here is fatal to the caller.
func Open(cfg types.StoreConfig) (*Store, error) {
	path := cfg.DBPath
	if path == "" {
		path = "papers.db"
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
		`CREATE TABLE IF NOT EXISTS papers (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			arxiv_id TEXT UNIQUE NOT NULL,
			title TEXT NOT NULL,
			published_date TEXT NOT NULL,
			entry_url TEXT NOT NULL,
			pdf_url TEXT NOT NULL,
			created_at TEXT NOT NULL,
			last_updated TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS authors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS paper_authors (
			paper_id INTEGER NOT NULL,
			author_id INTEGER NOT NULL,
			author_position INTEGER NOT NULL,
			PRIMARY KEY (paper_id, author_id),
			FOREIGN KEY (paper_id) REFERENCES papers(id) ON DELETE CASCADE,
			FOREIGN KEY (author_id) REFERENCES authors(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS categories (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			category_code TEXT UNIQUE NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS paper_categories (
			paper_id INTEGER NOT NULL,
			category_id INTEGER NOT NULL,
			PRIMARY KEY (paper_id, category_id),
			FOREIGN KEY (paper_id) REFERENCES papers(id) ON DELETE CASCADE,
			FOREIGN KEY (category_id) REFERENCES categories(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS abstracts (
			paper_id INTEGER PRIMARY KEY,
			abstract_text TEXT NOT NULL,
			FOREIGN KEY (paper_id) REFERENCES papers(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS full_texts (
			paper_id INTEGER PRIMARY KEY,
			full_text TEXT NOT NULL,
			extraction_status TEXT NOT NULL,
			FOREIGN KEY (paper_id) REFERENCES papers(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS summaries (
			paper_id INTEGER PRIMARY KEY,
			brief_summary TEXT NOT NULL,
			extended_summary TEXT NOT NULL,
			created_at TEXT NOT NULL,
			FOREIGN KEY (paper_id) REFERENCES papers(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS retrieval_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_date TEXT NOT NULL,
			papers_retrieved INTEGER NOT NULL,
			status TEXT NOT NULL,
			message TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_published_date ON papers(published_date DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_arxiv_id ON papers(arxiv_id)`,
		`CREATE INDEX IF NOT EXISTS idx_paper_authors_paper_id ON paper_authors(paper_id)`,
		`CREATE INDEX IF NOT EXISTS idx_paper_categories_paper_id ON paper_categories(paper_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// PaperExists reports whether a paper with the given arXiv ID is stored.
func (s *Store) PaperExists(ctx context.Context, arxivID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM papers WHERE arxiv_id = ?`, arxivID,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking paper %s: %w", arxivID, err)
	}
	return true, nil
}

// InsertPaper stores a paper together with its abstract, category links,
// and author links in one transaction. Either all writes succeed or none
// do. Returns ErrDuplicate when the arXiv ID is already stored.
func (s *Store) InsertPaper(ctx context.Context, rec types.PaperRecord) (int64, error) {
	exists, err := s.PaperExists(ctx, rec.ArxivID)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, ErrDuplicate
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(timeFormat)
	res, err := tx.ExecContext(ctx,
		`INSERT INTO papers (arxiv_id, title, published_date, entry_url, pdf_url, created_at, last_updated)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ArxivID, rec.Title, rec.Published.UTC().Format(timeFormat),
		rec.EntryURL, rec.PDFURL, now, now,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting paper %s: %w", rec.ArxivID, err)
	}
	paperID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading paper id: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO abstracts (paper_id, abstract_text) VALUES (?, ?)`,
		paperID, rec.Abstract,
	); err != nil {
		return 0, fmt.Errorf("inserting abstract for %s: %w", rec.ArxivID, err)
	}

	for _, code := range rec.Categories {
		catID, err := getOrCreate(ctx, tx,
			`SELECT id FROM categories WHERE category_code = ?`,
			`INSERT INTO categories (category_code) VALUES (?)`, code)
		if err != nil {
			return 0, fmt.Errorf("category %s: %w", code, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO paper_categories (paper_id, category_id) VALUES (?, ?)`,
			paperID, catID,
		); err != nil {
			return 0, fmt.Errorf("linking category %s: %w", code, err)
		}
	}

	for pos, name := range rec.Authors {
		authorID, err := getOrCreate(ctx, tx,
			`SELECT id FROM authors WHERE name = ?`,
			`INSERT INTO authors (name) VALUES (?)`, name)
		if err != nil {
			return 0, fmt.Errorf("author %s: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO paper_authors (paper_id, author_id, author_position) VALUES (?, ?, ?)`,
			paperID, authorID, pos,
		); err != nil {
			return 0, fmt.Errorf("linking author %s: %w", name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing paper %s: %w", rec.ArxivID, err)
	}
	return paperID, nil
}

// getOrCreate resolves a lookup-table row id, inserting it when absent.
func getOrCreate(ctx context.Context, tx *sql.Tx, selectQ, insertQ string, value string) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx, selectQ, value).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, insertQ, value)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UnsummarizedPapers returns papers with no Summary row, ordered by id.
// This anti-join is the orchestrator's idempotency boundary.
func (s *Store) UnsummarizedPapers(ctx context.Context) ([]types.ProcessablePaper, error) {
	return s.processable(ctx,
		`SELECT p.id, p.arxiv_id, p.pdf_url, a.abstract_text
		 FROM papers p
		 JOIN abstracts a ON a.paper_id = p.id
		 LEFT JOIN summaries s ON s.paper_id = p.id
		 WHERE s.paper_id IS NULL
		 ORDER BY p.id`)
}

// AllProcessable returns every paper regardless of summary state,
// ordered by id. Used by the explicit reprocess entry point.
func (s *Store) AllProcessable(ctx context.Context) ([]types.ProcessablePaper, error) {
	return s.processable(ctx,
		`SELECT p.id, p.arxiv_id, p.pdf_url, a.abstract_text
		 FROM papers p
		 JOIN abstracts a ON a.paper_id = p.id
		 ORDER BY p.id`)
}

func (s *Store) processable(ctx context.Context, query string) ([]types.ProcessablePaper, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying papers: %w", err)
	}
	defer rows.Close()

	var papers []types.ProcessablePaper
	for rows.Next() {
		var p types.ProcessablePaper
		if err := rows.Scan(&p.ID, &p.ArxivID, &p.PDFURL, &p.Abstract); err != nil {
			return nil, fmt.Errorf("scanning paper: %w", err)
		}
		papers = append(papers, p)
	}
	return papers, rows.Err()
}

// SaveProcessed writes a paper's derived records in one transaction:
// the full text (upserted by paper id, so reprocessing cannot violate
// the one-to-one invariant) and the summary pair.
func (s *Store) SaveProcessed(ctx context.Context, paperID int64, text string, status types.ExtractionStatus, brief, extended string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO full_texts (paper_id, full_text, extraction_status)
		 VALUES (?, ?, ?)
		 ON CONFLICT(paper_id) DO UPDATE SET
			full_text=excluded.full_text,
			extraction_status=excluded.extraction_status`,
		paperID, text, string(status),
	); err != nil {
		return fmt.Errorf("upserting full text for paper %d: %w", paperID, err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO summaries (paper_id, brief_summary, extended_summary, created_at)
		 VALUES (?, ?, ?, ?)`,
		paperID, brief, extended, time.Now().UTC().Format(timeFormat),
	); err != nil {
		return fmt.Errorf("inserting summary for paper %d: %w", paperID, err)
	}

	return tx.Commit()
}

// DeleteSummary removes a paper's summary so the reprocess path can
// recreate it. Deleting a summary that does not exist is a no-op.
func (s *Store) DeleteSummary(ctx context.Context, paperID int64) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM summaries WHERE paper_id = ?`, paperID,
	); err != nil {
		return fmt.Errorf("deleting summary for paper %d: %w", paperID, err)
	}
	return nil
}

// LogRetrieval appends one retrieval_log row. Unlike the per-paper
// writes, an error here propagates to the caller.
func (s *Store) LogRetrieval(ctx context.Context, retrieved int, status types.RunStatus, message string) error {
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO retrieval_log (run_date, papers_retrieved, status, message)
		 VALUES (?, ?, ?, ?)`,
		time.Now().UTC().Format(timeFormat), retrieved, string(status), message,
	); err != nil {
		return fmt.Errorf("logging retrieval run: %w", err)
	}
	return nil
}

// LastSuccessfulRetrieval returns the run date of the most recent
// successful retrieval that stored at least one paper. ok is false when
// no such run exists.
func (s *Store) LastSuccessfulRetrieval(ctx context.Context) (t time.Time, ok bool, err error) {
	var raw string
	err = s.db.QueryRowContext(ctx,
		`SELECT run_date FROM retrieval_log
		 WHERE status = 'success' AND papers_retrieved > 0
		 ORDER BY run_date DESC, id DESC LIMIT 1`,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("querying retrieval log: %w", err)
	}
	t, err = time.Parse(timeFormat, raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parsing run date %q: %w", raw, err)
	}
	return t, true, nil
}
