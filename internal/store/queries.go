// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pdiddy/paper-digest/pkg/types"
)

// Read-only queries serving the presentation collaborator. The pipeline
// never blocks these on summarization: a paper with no summary simply
// lists with an empty Brief.

// CountPapers returns the number of stored papers.
func (s *Store) CountPapers(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM papers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting papers: %w", err)
	}
	return n, nil
}

// ListPapers returns a page of papers, newest first, with their authors
// and brief summary when one exists.
func (s *Store) ListPapers(ctx context.Context, offset, limit int) ([]types.PaperListing, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT p.id, p.arxiv_id, p.title, p.published_date, COALESCE(sm.brief_summary, '')
		 FROM papers p
		 LEFT JOIN summaries sm ON sm.paper_id = p.id
		 ORDER BY p.published_date DESC, p.id DESC
		 LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing papers: %w", err)
	}
	defer rows.Close()

	var listings []types.PaperListing
	for rows.Next() {
		var l types.PaperListing
		var published string
		if err := rows.Scan(&l.ID, &l.ArxivID, &l.Title, &published, &l.Brief); err != nil {
			return nil, fmt.Errorf("scanning listing: %w", err)
		}
		if t, perr := time.Parse(timeFormat, published); perr == nil {
			l.Published = t
		}
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range listings {
		authors, err := s.paperAuthors(ctx, listings[i].ID)
		if err != nil {
			return nil, err
		}
		listings[i].Authors = authors
	}
	return listings, nil
}

// PaperDetail returns the full presentation view of one paper by arXiv ID.
func (s *Store) PaperDetail(ctx context.Context, arxivID string) (types.PaperDetail, error) {
	var d types.PaperDetail
	var published, created, updated string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, arxiv_id, title, published_date, entry_url, pdf_url, created_at, last_updated
		 FROM papers WHERE arxiv_id = ?`, arxivID,
	).Scan(&d.Paper.ID, &d.Paper.ArxivID, &d.Paper.Title, &published,
		&d.Paper.EntryURL, &d.Paper.PDFURL, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return types.PaperDetail{}, ErrNotFound
	}
	if err != nil {
		return types.PaperDetail{}, fmt.Errorf("querying paper %s: %w", arxivID, err)
	}
	d.Paper.Published, _ = time.Parse(timeFormat, published)
	d.Paper.CreatedAt, _ = time.Parse(timeFormat, created)
	d.Paper.LastUpdated, _ = time.Parse(timeFormat, updated)

	if err := s.db.QueryRowContext(ctx,
		`SELECT abstract_text FROM abstracts WHERE paper_id = ?`, d.Paper.ID,
	).Scan(&d.Abstract); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return types.PaperDetail{}, fmt.Errorf("querying abstract: %w", err)
	}

	if d.Authors, err = s.paperAuthors(ctx, d.Paper.ID); err != nil {
		return types.PaperDetail{}, err
	}
	if d.Categories, err = s.paperCategories(ctx, d.Paper.ID); err != nil {
		return types.PaperDetail{}, err
	}

	var status string
	err = s.db.QueryRowContext(ctx,
		`SELECT extraction_status FROM full_texts WHERE paper_id = ?`, d.Paper.ID,
	).Scan(&status)
	if err == nil {
		st := types.ExtractionStatus(status)
		d.Extraction = &st
	} else if !errors.Is(err, sql.ErrNoRows) {
		return types.PaperDetail{}, fmt.Errorf("querying extraction status: %w", err)
	}

	var sm types.Summary
	var smCreated string
	err = s.db.QueryRowContext(ctx,
		`SELECT paper_id, brief_summary, extended_summary, created_at
		 FROM summaries WHERE paper_id = ?`, d.Paper.ID,
	).Scan(&sm.PaperID, &sm.Brief, &sm.Extended, &smCreated)
	if err == nil {
		sm.CreatedAt, _ = time.Parse(timeFormat, smCreated)
		d.Summary = &sm
	} else if !errors.Is(err, sql.ErrNoRows) {
		return types.PaperDetail{}, fmt.Errorf("querying summary: %w", err)
	}

	return d, nil
}

// Stats returns corpus-level counts and the last successful retrieval time.
func (s *Store) Stats(ctx context.Context) (types.CorpusStats, error) {
	var st types.CorpusStats
	queries := []struct {
		q    string
		dest *int
	}{
		{`SELECT COUNT(*) FROM papers`, &st.Papers},
		{`SELECT COUNT(*) FROM summaries`, &st.Summarized},
		{`SELECT COUNT(*) FROM full_texts WHERE extraction_status = 'failed'`, &st.FailedExtractions},
	}
	for _, q := range queries {
		if err := s.db.QueryRowContext(ctx, q.q).Scan(q.dest); err != nil {
			return types.CorpusStats{}, fmt.Errorf("querying stats: %w", err)
		}
	}

	last, ok, err := s.LastSuccessfulRetrieval(ctx)
	if err != nil {
		return types.CorpusStats{}, err
	}
	if ok {
		st.LastRetrieval = &last
	}
	return st, nil
}

// FullText returns a paper's stored full text record.
func (s *Store) FullText(ctx context.Context, paperID int64) (types.FullText, error) {
	var ft types.FullText
	var status string
	err := s.db.QueryRowContext(ctx,
		`SELECT paper_id, full_text, extraction_status FROM full_texts WHERE paper_id = ?`,
		paperID,
	).Scan(&ft.PaperID, &ft.Text, &status)
	if errors.Is(err, sql.ErrNoRows) {
		return types.FullText{}, ErrNotFound
	}
	if err != nil {
		return types.FullText{}, fmt.Errorf("querying full text for paper %d: %w", paperID, err)
	}
	ft.Status = types.ExtractionStatus(status)
	return ft, nil
}

func (s *Store) paperAuthors(ctx context.Context, paperID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT a.name FROM authors a
		 JOIN paper_authors pa ON pa.author_id = a.id
		 WHERE pa.paper_id = ?
		 ORDER BY pa.author_position`, paperID)
	if err != nil {
		return nil, fmt.Errorf("querying authors for paper %d: %w", paperID, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *Store) paperCategories(ctx context.Context, paperID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.category_code FROM categories c
		 JOIN paper_categories pc ON pc.category_id = c.id
		 WHERE pc.paper_id = ?
		 ORDER BY c.category_code`, paperID)
	if err != nil {
		return nil, fmt.Errorf("querying categories for paper %d: %w", paperID, err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}
