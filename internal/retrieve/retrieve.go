// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package retrieve pulls recent catalog entries into the store,
// deduplicating by arXiv ID. Every invocation appends exactly one
// retrieval_log entry.
package retrieve

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/paper-digest/internal/store"
	"github.com/pdiddy/paper-digest/pkg/types"
)

// Catalog is the external metadata source.
type Catalog interface {
	Recent(ctx context.Context, max int) ([]types.PaperRecord, error)
}

// Store is the subset of the persistence store retrieval needs.
type Store interface {
	PaperExists(ctx context.Context, arxivID string) (bool, error)
	InsertPaper(ctx context.Context, rec types.PaperRecord) (int64, error)
	LogRetrieval(ctx context.Context, retrieved int, status types.RunStatus, message string) error
	LastSuccessfulRetrieval(ctx context.Context) (time.Time, bool, error)
}

// Result holds the outcome of one retrieval batch.
type Result struct {
	New     int
	Skipped int
	Failed  int
}

// Total returns the number of catalog entries processed.
func (r Result) Total() int {
	return r.New + r.Skipped + r.Failed
}

// RetrieveRecent queries the catalog for up to max recent entries and
// stores the ones not yet known. Each paper is persisted in its own
// transaction; an insert failure is reported to w and the batch
// continues. A catalog-side error is recorded as an error run and the
// function returns 0 without an error — only a failure to write the
// log entry itself propagates.
func RetrieveRecent(ctx context.Context, st Store, cat Catalog, max int, w io.Writer) (int, error) {
	records, err := cat.Recent(ctx, max)
	if err != nil {
		fmt.Fprintf(w, "catalog query failed: %v\n", err)
		if logErr := st.LogRetrieval(ctx, 0, types.RunError, err.Error()); logErr != nil {
			return 0, logErr
		}
		return 0, nil
	}

	var result Result
	for _, rec := range records {
		exists, err := st.PaperExists(ctx, rec.ArxivID)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", rec.ArxivID, err)
			result.Failed++
			continue
		}
		if exists {
			fmt.Fprintf(w, "skipped: %s (already stored)\n", rec.ArxivID)
			result.Skipped++
			continue
		}

		if _, err := st.InsertPaper(ctx, rec); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				fmt.Fprintf(w, "skipped: %s (already stored)\n", rec.ArxivID)
				result.Skipped++
				continue
			}
			fmt.Fprintf(w, "failed:  %s (%v)\n", rec.ArxivID, err)
			result.Failed++
			continue
		}
		fmt.Fprintf(w, "stored:  %s %q\n", rec.ArxivID, rec.Title)
		result.New++
	}

	message := fmt.Sprintf("retrieved %d new papers", result.New)
	if result.Total() == 0 {
		message = "no papers found"
	}
	if err := st.LogRetrieval(ctx, result.New, types.RunSuccess, message); err != nil {
		return result.New, err
	}

	fmt.Fprintf(w, "\nRetrieval summary: %d new, %d skipped, %d failed (total: %d)\n",
		result.New, result.Skipped, result.Failed, result.Total())
	return result.New, nil
}

// ShouldRun reports whether enough time has passed since the last
// successful, non-empty retrieval run. The absence of any such run
// always allows retrieval.
func ShouldRun(ctx context.Context, st Store, minInterval time.Duration) (bool, error) {
	last, ok, err := st.LastSuccessfulRetrieval(ctx)
	if err != nil {
		return false, err
	}
	if !ok {
		return true, nil
	}
	return time.Since(last) >= minInterval, nil
}
