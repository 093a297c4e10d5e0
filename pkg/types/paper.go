// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the paper-digest pipeline.
package types

import "time"

// Paper is a stored catalog entry. A paper is immutable after creation
// except for LastUpdated; ArxivID is the deduplication key.
type Paper struct {
	// ID is the store's row identifier.
	ID int64 `json:"id" yaml:"id"`

	// ArxivID is the stable identifier assigned by the catalog
	// (e.g. "2301.07041", version suffix stripped).
	ArxivID string `json:"arxiv_id" yaml:"arxiv_id"`

	// Title is the paper title as returned by the catalog.
	Title string `json:"title" yaml:"title"`

	// Published is the submission date reported by the catalog.
	Published time.Time `json:"published" yaml:"published"`

	// EntryURL is the paper's landing page.
	EntryURL string `json:"entry_url" yaml:"entry_url"`

	// PDFURL is the document blob location.
	PDFURL string `json:"pdf_url" yaml:"pdf_url"`

	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	LastUpdated time.Time `json:"last_updated" yaml:"last_updated"`
}

// PaperRecord is the unit the catalog retriever persists: one paper plus
// the abstract, author list, and category codes that are written with it
// in a single transaction.
type PaperRecord struct {
	ArxivID    string    `json:"arxiv_id" yaml:"arxiv_id"`
	Title      string    `json:"title" yaml:"title"`
	Published  time.Time `json:"published" yaml:"published"`
	EntryURL   string    `json:"entry_url" yaml:"entry_url"`
	PDFURL     string    `json:"pdf_url" yaml:"pdf_url"`
	Abstract   string    `json:"abstract" yaml:"abstract"`
	Authors    []string  `json:"authors" yaml:"authors"`
	Categories []string  `json:"categories" yaml:"categories"`
}

// ExtractionStatus records whether full text came from the PDF or fell
// back to the abstract.
type ExtractionStatus string

const (
	ExtractionSuccess ExtractionStatus = "success"
	ExtractionFailed  ExtractionStatus = "failed"
)

// FullText holds the extracted text for a paper. At most one per paper.
type FullText struct {
	PaperID int64            `json:"paper_id" yaml:"paper_id"`
	Text    string           `json:"text" yaml:"text"`
	Status  ExtractionStatus `json:"status" yaml:"status"`
}

// Summary holds the two extractive digests for a paper. Its presence is
// the signal that a paper has been fully processed.
type Summary struct {
	PaperID   int64     `json:"paper_id" yaml:"paper_id"`
	Brief     string    `json:"brief" yaml:"brief"`
	Extended  string    `json:"extended" yaml:"extended"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// RunStatus is the outcome of a retrieval invocation.
type RunStatus string

const (
	RunSuccess RunStatus = "success"
	RunError   RunStatus = "error"
)

// RetrievalRun is one append-only log entry per retrieval invocation.
type RetrievalRun struct {
	ID              int64     `json:"id" yaml:"id"`
	RunDate         time.Time `json:"run_date" yaml:"run_date"`
	PapersRetrieved int       `json:"papers_retrieved" yaml:"papers_retrieved"`
	Status          RunStatus `json:"status" yaml:"status"`
	Message         string    `json:"message" yaml:"message"`
}

// ProcessablePaper is the projection the orchestrator works from: the
// document URL plus the abstract that backs the fallback policy.
type ProcessablePaper struct {
	ID       int64  `json:"id" yaml:"id"`
	ArxivID  string `json:"arxiv_id" yaml:"arxiv_id"`
	PDFURL   string `json:"pdf_url" yaml:"pdf_url"`
	Abstract string `json:"abstract" yaml:"abstract"`
}

// PaperListing is one row of the presentation listing.
type PaperListing struct {
	ID        int64     `json:"id" yaml:"id"`
	ArxivID   string    `json:"arxiv_id" yaml:"arxiv_id"`
	Title     string    `json:"title" yaml:"title"`
	Published time.Time `json:"published" yaml:"published"`
	Authors   []string  `json:"authors" yaml:"authors"`

	// Brief is the short summary, or empty when the paper has not been
	// processed yet. Presentation renders a placeholder in that case.
	Brief string `json:"brief" yaml:"brief"`
}

// PaperDetail is the full presentation view of one paper.
type PaperDetail struct {
	Paper      Paper             `json:"paper" yaml:"paper"`
	Abstract   string            `json:"abstract" yaml:"abstract"`
	Authors    []string          `json:"authors" yaml:"authors"`
	Categories []string          `json:"categories" yaml:"categories"`
	Extraction *ExtractionStatus `json:"extraction,omitempty" yaml:"extraction,omitempty"`
	Summary    *Summary          `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// CorpusStats summarizes the store for the stats view.
type CorpusStats struct {
	Papers            int        `json:"papers" yaml:"papers"`
	Summarized        int        `json:"summarized" yaml:"summarized"`
	FailedExtractions int        `json:"failed_extractions" yaml:"failed_extractions"`
	LastRetrieval     *time.Time `json:"last_retrieval,omitempty" yaml:"last_retrieval,omitempty"`
}
