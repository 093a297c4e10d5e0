// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog queries the arXiv API for recent papers in one
// subject category.
package catalog

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/paper-digest/internal/httputil"
	"github.com/pdiddy/paper-digest/pkg/types"
)

// apiBase is the arXiv query endpoint. Declared as a var so tests can
// substitute an httptest server.
var apiBase = "https://export.arxiv.org/api/query"

const (
	defaultCategory   = "quant-ph"
	defaultMaxResults = 20
	defaultRate       = 10 // requests per second, arXiv politeness cap
	defaultTimeout    = 30 * time.Second
	defaultUserAgent  = "paper-digest/0.1"
)

// Client queries the arXiv API. Requests pass through a token-bucket
// limiter so the host is never hit faster than the configured rate.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
	cfg     types.CatalogConfig
}

// New builds a Client, filling zero config fields with defaults.
func New(cfg types.CatalogConfig) *Client {
	if cfg.Category == "" {
		cfg.Category = defaultCategory
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = defaultMaxResults
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = defaultRate
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	return &Client{
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		cfg:     cfg,
	}
}

// Recent returns up to max entries for the configured category, sorted
// by submission date descending. Transport errors and non-200 responses
// are returned as errors; the caller records them as an error run.
func (c *Client) Recent(ctx context.Context, max int) ([]types.PaperRecord, error) {
	if max <= 0 {
		max = c.cfg.MaxResults
	}

	url := fmt.Sprintf("%s?search_query=cat:%s&start=0&max_results=%d&sortBy=submittedDate&sortOrder=descending",
		apiBase, c.cfg.Category, max)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := httputil.DoWithRetry(ctx, c.http, req, 0)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed atomFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	var records []types.PaperRecord
	for _, entry := range feed.Entries {
		arxivID := extractArxivID(entry.ID)
		if arxivID == "" {
			continue
		}

		rec := types.PaperRecord{
			ArxivID:  arxivID,
			Title:    strings.TrimSpace(entry.Title),
			EntryURL: entry.ID,
			PDFURL:   pdfURL(entry, arxivID),
			Abstract: strings.TrimSpace(entry.Summary),
		}
		for _, a := range entry.Authors {
			rec.Authors = append(rec.Authors, strings.TrimSpace(a.Name))
		}
		for _, cat := range entry.Categories {
			rec.Categories = append(rec.Categories, cat.Term)
		}
		if t, parseErr := time.Parse(time.RFC3339, entry.Published); parseErr == nil {
			rec.Published = t
		}

		records = append(records, rec)
	}
	return records, nil
}

// pdfURL resolves the document blob location: the entry's pdf link when
// present, otherwise derived from the arXiv ID.
func pdfURL(entry atomEntry, arxivID string) string {
	for _, l := range entry.Links {
		if l.Title == "pdf" {
			return l.Href
		}
	}
	return "https://arxiv.org/pdf/" + arxivID
}

// arXiv Atom feed XML structures.
type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID         string         `xml:"id"`
	Title      string         `xml:"title"`
	Summary    string         `xml:"summary"`
	Published  string         `xml:"published"`
	Authors    []atomAuthor   `xml:"author"`
	Categories []atomCategory `xml:"category"`
	Links      []atomLink     `xml:"link"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomCategory struct {
	Term string `xml:"term,attr"`
}

type atomLink struct {
	Href  string `xml:"href,attr"`
	Rel   string `xml:"rel,attr"`
	Title string `xml:"title,attr"`
}

// extractArxivID pulls the arXiv ID from the entry's <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" → "2301.07041").
func extractArxivID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	id := idURL[idx+len(prefix):]

	// Strip version suffix (e.g. "v1", "v2").
	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
			id = id[:vIdx]
		}
	}
	return id
}
