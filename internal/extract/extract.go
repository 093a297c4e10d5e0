// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract downloads a paper's PDF and converts it to plain text.
// Any error means "extraction unavailable"; callers fall back to the
// abstract and never treat a failure here as fatal.
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dslipak/pdf"

	"github.com/pdiddy/paper-digest/pkg/types"
)

// ErrNoText is returned when the document parsed but yielded no
// usable text (empty or whitespace-only).
var ErrNoText = errors.New("no text extracted")

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "paper-digest/0.1"

	// maxPDFSize caps the download at 50 MB.
	maxPDFSize = 50 * 1024 * 1024
)

// Extractor fetches document blobs and extracts their text.
type Extractor struct {
	client    *http.Client
	userAgent string
}

// New builds an Extractor, filling zero config fields with defaults.
func New(cfg types.ExtractConfig) *Extractor {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	return &Extractor{
		client:    &http.Client{Timeout: timeout},
		userAgent: ua,
	}
}

// Extract downloads the document at url and returns its plain text,
// per-page text joined by newlines in page order. It never returns
// partial text: any download or parse failure yields an error.
func (e *Extractor) Extract(ctx context.Context, url string) (string, error) {
	blob, err := e.download(ctx, url)
	if err != nil {
		return "", err
	}
	return extractText(blob)
}

func (e *Extractor) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set("Accept", "application/pdf")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	blob, err := io.ReadAll(io.LimitReader(resp.Body, maxPDFSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading body from %s: %w", url, err)
	}
	if len(blob) > maxPDFSize {
		return nil, fmt.Errorf("document from %s exceeds %d bytes", url, maxPDFSize)
	}
	return blob, nil
}

// extractText parses blob as a PDF and concatenates per-page text.
// The parser panics on some malformed inputs; those are converted to
// errors here.
func extractText(blob []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parsing PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(blob), int64(len(blob)))
	if err != nil {
		return "", fmt.Errorf("opening PDF: %w", err)
	}

	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("extracting page %d: %w", i, err)
		}
		pages = append(pages, content)
	}

	text = strings.Join(pages, "\n")
	if strings.TrimSpace(text) == "" {
		return "", ErrNoText
	}
	return text, nil
}
