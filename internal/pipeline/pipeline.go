// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline drives extraction and summarization for papers that
// have no summary yet. Per-paper failures are data in the report, never
// control flow: one paper can never abort the batch.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/paper-digest/pkg/types"
)

const (
	defaultBriefSentences    = 3
	defaultExtendedSentences = 10
)

// Store is the subset of the persistence store the orchestrator needs.
type Store interface {
	UnsummarizedPapers(ctx context.Context) ([]types.ProcessablePaper, error)
	AllProcessable(ctx context.Context) ([]types.ProcessablePaper, error)
	DeleteSummary(ctx context.Context, paperID int64) error
	SaveProcessed(ctx context.Context, paperID int64, text string, status types.ExtractionStatus, brief, extended string) error
}

// Extractor converts a document URL to plain text.
type Extractor interface {
	Extract(ctx context.Context, url string) (string, error)
}

// Summarizer produces an extractive summary of at most n sentences.
type Summarizer interface {
	Summarize(text string, n int) string
}

// ItemResult records the outcome for one paper.
type ItemResult struct {
	PaperID int64
	ArxivID string

	// Status is the extraction status persisted for the paper. Only
	// meaningful when Err is nil.
	Status types.ExtractionStatus

	Err error
}

// Report aggregates a processing pass.
type Report struct {
	Processed int
	Failed    int
	Items     []ItemResult
}

// Orchestrator wires the store, extractor, and summarizer together.
type Orchestrator struct {
	Store      Store
	Extractor  Extractor
	Summarizer Summarizer

	briefSentences    int
	extendedSentences int
}

// New builds an Orchestrator with the configured digest lengths.
func New(st Store, ex Extractor, sm Summarizer, cfg types.SummaryConfig) *Orchestrator {
	brief := cfg.BriefSentences
	if brief <= 0 {
		brief = defaultBriefSentences
	}
	extended := cfg.ExtendedSentences
	if extended <= 0 {
		extended = defaultExtendedSentences
	}
	return &Orchestrator{
		Store:             st,
		Extractor:         ex,
		Summarizer:        sm,
		briefSentences:    brief,
		extendedSentences: extended,
	}
}

// ProcessUnsummarized processes every paper lacking a Summary record
// and returns the count of papers summarized. Re-running it is safe:
// a paper with a Summary is never revisited by this path.
func (o *Orchestrator) ProcessUnsummarized(ctx context.Context, w io.Writer) (Report, error) {
	papers, err := o.Store.UnsummarizedPapers(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("querying unsummarized papers: %w", err)
	}
	return o.run(ctx, papers, w)
}

// ReprocessAll re-runs extraction and summarization for every stored
// paper, bypassing the summary filter. Each paper's old summary is
// deleted just before it is rebuilt.
func (o *Orchestrator) ReprocessAll(ctx context.Context, w io.Writer) (Report, error) {
	papers, err := o.Store.AllProcessable(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("querying papers: %w", err)
	}

	var report Report
	for _, p := range papers {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if err := o.Store.DeleteSummary(ctx, p.ID); err != nil {
			report.Failed++
			report.Items = append(report.Items, ItemResult{PaperID: p.ID, ArxivID: p.ArxivID, Err: err})
			fmt.Fprintf(w, "failed:  %s (%v)\n", p.ArxivID, err)
			continue
		}
		report.record(o.processOne(ctx, p), w)
	}
	o.summarizeReport(report, w)
	return report, nil
}

func (o *Orchestrator) run(ctx context.Context, papers []types.ProcessablePaper, w io.Writer) (Report, error) {
	if len(papers) == 0 {
		fmt.Fprintln(w, "no unsummarized papers")
		return Report{}, nil
	}

	var report Report
	for _, p := range papers {
		// Cancellation is honored between papers, never mid-paper.
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.record(o.processOne(ctx, p), w)
	}
	o.summarizeReport(report, w)
	return report, nil
}

func (r *Report) record(item ItemResult, w io.Writer) {
	r.Items = append(r.Items, item)
	if item.Err != nil {
		r.Failed++
		fmt.Fprintf(w, "failed:  %s (%v)\n", item.ArxivID, item.Err)
		return
	}
	r.Processed++
	fmt.Fprintf(w, "summarized: %s (extraction %s)\n", item.ArxivID, item.Status)
}

func (o *Orchestrator) summarizeReport(report Report, w io.Writer) {
	fmt.Fprintf(w, "\nProcessing summary: %d summarized, %d failed\n",
		report.Processed, report.Failed)
}

// processOne runs the full per-paper sequence: extract, apply the
// abstract fallback, summarize twice, persist in one transaction.
func (o *Orchestrator) processOne(ctx context.Context, p types.ProcessablePaper) ItemResult {
	item := ItemResult{PaperID: p.ID, ArxivID: p.ArxivID}

	text, err := o.Extractor.Extract(ctx, p.PDFURL)

	// Fallback policy: a failed extraction, or one shorter than the
	// abstract, is more likely a parsing artifact than content. The
	// abstract is a safe, non-empty lower bound.
	if err != nil || len(strings.TrimSpace(text)) < len(p.Abstract) {
		text = p.Abstract
		item.Status = types.ExtractionFailed
	} else {
		item.Status = types.ExtractionSuccess
	}

	brief := o.Summarizer.Summarize(text, o.briefSentences)
	extended := o.Summarizer.Summarize(text, o.extendedSentences)

	if err := o.Store.SaveProcessed(ctx, p.ID, text, item.Status, brief, extended); err != nil {
		item.Err = err
	}
	return item
}
