// Package pdf converts PDF bytes into plain text documents.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"

	"github.com/livingcool/researchfirm/internal/core/domain"
	"github.com/livingcool/researchfirm/internal/core/ports/driven"
	"github.com/livingcool/researchfirm/internal/logger"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser extracts the text layer of a PDF. Pages that cannot be parsed
// are skipped rather than failing the whole document; scanned PDFs with no
// text layer come out empty.
type Normaliser struct{}

// New creates a new PDF normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Normalise parses raw PDF bytes into a Document. The name becomes the
// document title.
func (n *Normaliser) Normalise(_ context.Context, name string, raw []byte) (*domain.Document, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty PDF data", domain.ErrInvalidInput)
	}

	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("parse PDF %q: %w", name, err)
	}

	var content strings.Builder
	pageCount := reader.NumPage()
	skipped := 0

	for i := 1; i <= pageCount; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			skipped++
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			skipped++
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		if content.Len() > 0 {
			content.WriteString("\n\n")
		}
		content.WriteString(text)
	}

	if skipped > 0 {
		logger.Warn("PDF %q: skipped %d of %d pages", name, skipped, pageCount)
	}
	logger.Debug("PDF %q: extracted %d characters from %d pages", name, content.Len(), pageCount)

	return &domain.Document{
		ID:      uuid.NewString(),
		Title:   name,
		Content: content.String(),
		Metadata: map[string]any{
			"format": "pdf",
			"pages":  pageCount,
		},
	}, nil
}
