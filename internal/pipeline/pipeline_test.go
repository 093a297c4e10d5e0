// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-digest/internal/store"
	"github.com/pdiddy/paper-digest/pkg/types"
)

// --- test helpers ---

// stubExtractor returns canned text (or an error) per PDF URL.
type stubExtractor struct {
	texts map[string]string
	errs  map[string]error
}

func (e *stubExtractor) Extract(ctx context.Context, url string) (string, error) {
	if err, ok := e.errs[url]; ok {
		return "", err
	}
	return e.texts[url], nil
}

// firstSentences is a summarizer stand-in with trivial, inspectable output.
type firstSentences struct{}

func (firstSentences) Summarize(text string, n int) string {
	return fmt.Sprintf("%d:%s", n, text)
}

// failingStore wraps the real store and fails SaveProcessed for one paper.
type failingStore struct {
	*store.Store
	failID int64
}

func (f *failingStore) SaveProcessed(ctx context.Context, paperID int64, text string, status types.ExtractionStatus, brief, extended string) error {
	if paperID == f.failID {
		return errors.New("disk full")
	}
	return f.Store.SaveProcessed(ctx, paperID, text, status, brief, extended)
}

func testStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(types.StoreConfig{DBPath: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func insertPaper(t *testing.T, s *store.Store, arxivID, abstract string) int64 {
	t.Helper()
	id, err := s.InsertPaper(context.Background(), types.PaperRecord{
		ArxivID:    arxivID,
		Title:      "Title " + arxivID,
		Published:  time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		EntryURL:   "https://arxiv.org/abs/" + arxivID,
		PDFURL:     "https://arxiv.org/pdf/" + arxivID,
		Abstract:   abstract,
		Authors:    []string{"Author"},
		Categories: []string{"quant-ph"},
	})
	require.NoError(t, err)
	return id
}

// --- fallback policy ---

func TestProcessUsesExtractedTextWhenLonger(t *testing.T) {
	st := testStore(t)
	id := insertPaper(t, st, "2608.00001", "short abstract")
	longText := "This extracted text is considerably longer than the abstract."

	orch := New(st, &stubExtractor{texts: map[string]string{
		"https://arxiv.org/pdf/2608.00001": longText,
	}}, firstSentences{}, types.SummaryConfig{})

	var out bytes.Buffer
	report, err := orch.ProcessUnsummarized(context.Background(), &out)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Processed)
	assert.Zero(t, report.Failed)

	ft, err := st.FullText(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, longText, ft.Text)
	assert.Equal(t, types.ExtractionSuccess, ft.Status)
}

func TestProcessFallsBackWhenExtractionFails(t *testing.T) {
	st := testStore(t)
	abstract := "The abstract stands in for the missing full text."
	id := insertPaper(t, st, "2608.00001", abstract)

	orch := New(st, &stubExtractor{errs: map[string]error{
		"https://arxiv.org/pdf/2608.00001": errors.New("HTTP 404"),
	}}, firstSentences{}, types.SummaryConfig{})

	var out bytes.Buffer
	report, err := orch.ProcessUnsummarized(context.Background(), &out)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Processed, "extraction failure is not a paper failure")

	ft, err := st.FullText(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, abstract, ft.Text)
	assert.Equal(t, types.ExtractionFailed, ft.Status)
}

func TestProcessFallsBackWhenExtractionShorterThanAbstract(t *testing.T) {
	st := testStore(t)
	abstract := "A reasonably detailed abstract describing the contribution."
	id := insertPaper(t, st, "2608.00001", abstract)

	orch := New(st, &stubExtractor{texts: map[string]string{
		"https://arxiv.org/pdf/2608.00001": "stub",
	}}, firstSentences{}, types.SummaryConfig{})

	var out bytes.Buffer
	_, err := orch.ProcessUnsummarized(context.Background(), &out)
	require.NoError(t, err)

	ft, err := st.FullText(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, abstract, ft.Text, "short extraction is treated as a parsing artifact")
	assert.Equal(t, types.ExtractionFailed, ft.Status)
}

// --- summaries ---

func TestProcessStoresBriefAndExtendedSummaries(t *testing.T) {
	st := testStore(t)
	abstract := "An abstract that the digests are derived from here."
	insertPaper(t, st, "2608.00001", abstract)

	orch := New(st, &stubExtractor{}, firstSentences{}, types.SummaryConfig{})

	var out bytes.Buffer
	_, err := orch.ProcessUnsummarized(context.Background(), &out)
	require.NoError(t, err)

	detail, err := st.PaperDetail(context.Background(), "2608.00001")
	require.NoError(t, err)
	require.NotNil(t, detail.Summary)
	assert.Equal(t, "3:"+abstract, detail.Summary.Brief)
	assert.Equal(t, "10:"+abstract, detail.Summary.Extended)
}

// --- idempotence and isolation ---

func TestProcessUnsummarizedIsIdempotent(t *testing.T) {
	st := testStore(t)
	insertPaper(t, st, "2608.00001", "abstract one")
	insertPaper(t, st, "2608.00002", "abstract two")

	orch := New(st, &stubExtractor{}, firstSentences{}, types.SummaryConfig{})
	ctx := context.Background()

	var out bytes.Buffer
	report, err := orch.ProcessUnsummarized(ctx, &out)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Processed)

	report, err = orch.ProcessUnsummarized(ctx, &out)
	require.NoError(t, err)
	assert.Zero(t, report.Processed, "summarized papers must never be revisited")
	assert.Empty(t, report.Items)
}

func TestProcessOneFailureDoesNotAbortBatch(t *testing.T) {
	st := testStore(t)
	insertPaper(t, st, "2608.00001", "abstract one")
	badID := insertPaper(t, st, "2608.00002", "abstract two")
	insertPaper(t, st, "2608.00003", "abstract three")

	wrapped := &failingStore{Store: st, failID: badID}
	orch := New(wrapped, &stubExtractor{}, firstSentences{}, types.SummaryConfig{})

	var out bytes.Buffer
	report, err := orch.ProcessUnsummarized(context.Background(), &out)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Processed)
	assert.Equal(t, 1, report.Failed)
	assert.Contains(t, out.String(), "disk full")

	// The failed paper stays in the queue for the next pass.
	pending, err := st.UnsummarizedPapers(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "2608.00002", pending[0].ArxivID)
}

func TestProcessHonorsCancellationBetweenPapers(t *testing.T) {
	st := testStore(t)
	insertPaper(t, st, "2608.00001", "abstract")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	orch := New(st, &stubExtractor{}, firstSentences{}, types.SummaryConfig{})
	var out bytes.Buffer
	report, err := orch.ProcessUnsummarized(ctx, &out)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, report.Processed)
}

// --- reprocess ---

func TestReprocessAllReplacesExistingSummaries(t *testing.T) {
	st := testStore(t)
	insertPaper(t, st, "2608.00001", "abstract one")

	orch := New(st, &stubExtractor{}, firstSentences{}, types.SummaryConfig{})
	ctx := context.Background()

	var out bytes.Buffer
	_, err := orch.ProcessUnsummarized(ctx, &out)
	require.NoError(t, err)

	first, err := st.PaperDetail(ctx, "2608.00001")
	require.NoError(t, err)
	require.NotNil(t, first.Summary)

	report, err := orch.ReprocessAll(ctx, &out)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Processed)

	second, err := st.PaperDetail(ctx, "2608.00001")
	require.NoError(t, err)
	require.NotNil(t, second.Summary)
	assert.Equal(t, first.Summary.Brief, second.Summary.Brief)
}

// --- config ---

func TestNewDigestLengthDefaults(t *testing.T) {
	orch := New(nil, nil, nil, types.SummaryConfig{})
	assert.Equal(t, 3, orch.briefSentences)
	assert.Equal(t, 10, orch.extendedSentences)

	orch = New(nil, nil, nil, types.SummaryConfig{BriefSentences: 2, ExtendedSentences: 7})
	assert.Equal(t, 2, orch.briefSentences)
	assert.Equal(t, 7, orch.extendedSentences)
}
