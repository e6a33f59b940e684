package ingestion_engine

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"code.sajari.com/docconv"
	"github.com/ledongthuc/pdf"

	"github.com/markdave123-py/Lessona/internal/core"
	apperrors "github.com/markdave123-py/Lessona/internal/pkg/errors"
	"github.com/markdave123-py/Lessona/internal/pkg/logger"
)

var _ core.DocumentExtractor = (*OutlineExtractor)(nil)

const (
	kindPDF  = "pdf"
	kindDOCX = "docx"
	kindText = "text"
)

// OutlineExtractor turns an uploaded outline into plain text. PDFs are read
// page by page with ledongthuc/pdf, DOCX goes through docconv.
type OutlineExtractor struct {
	log *logger.Logger
}

func NewOutlineExtractor(log *logger.Logger) *OutlineExtractor {
	if log == nil {
		log = logger.Nop()
	}
	return &OutlineExtractor{log: log}
}

// ExtractText returns the document text with pages in reading order, joined
// by exactly one blank line.
func (e *OutlineExtractor) ExtractText(ctx context.Context, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", apperrors.New(apperrors.ErrEmptyDocument, fmt.Errorf("zero bytes"))
	}

	var (
		text string
		err  error
	)
	switch kind := sniffKind(data, contentType); kind {
	case kindPDF:
		text, err = e.extractPDF(ctx, data)
	case kindDOCX:
		text, err = e.extractDOCX(data)
	case kindText:
		text = normalizePage(strings.ReplaceAll(string(data), "\r\n", "\n"))
	default:
		return "", apperrors.New(apperrors.ErrUnreadableDocument,
			fmt.Errorf("unsupported content type %q", contentType))
	}
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(text) == "" {
		return "", apperrors.New(apperrors.ErrEmptyDocument, fmt.Errorf("no extractable text"))
	}
	return text, nil
}

func sniffKind(data []byte, contentType string) string {
	ct := strings.ToLower(contentType)
	switch {
	case bytes.HasPrefix(data, []byte("%PDF-")):
		return kindPDF
	case bytes.HasPrefix(data, []byte("PK\x03\x04")):
		return kindDOCX
	case strings.Contains(ct, "pdf"):
		return kindPDF
	case strings.Contains(ct, "wordprocessingml"):
		return kindDOCX
	case strings.HasPrefix(ct, "text/"):
		return kindText
	}
	if ct == "" || ct == "application/octet-stream" {
		if strings.HasPrefix(http.DetectContentType(data), "text/") && utf8.Valid(data) {
			return kindText
		}
	}
	return ""
}

func (e *OutlineExtractor) extractPDF(ctx context.Context, data []byte) (out string, err error) {
	// The parser panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			out = ""
			err = apperrors.New(apperrors.ErrUnreadableDocument, fmt.Errorf("pdf parser: %v", r))
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", apperrors.New(apperrors.ErrUnreadableDocument, fmt.Errorf("pdf reader: %w", err))
	}

	var pages []string
	total := r.NumPage()
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		txt, err := p.GetPlainText(nil)
		if err != nil {
			return "", apperrors.New(apperrors.ErrUnreadableDocument, fmt.Errorf("pdf page %d: %w", i, err))
		}
		if txt = normalizePage(txt); txt != "" {
			pages = append(pages, txt)
		}
	}
	e.log.Debug("pdf extracted", "pages", total, "pages_with_text", len(pages))
	return strings.Join(pages, "\n\n"), nil
}

func (e *OutlineExtractor) extractDOCX(data []byte) (string, error) {
	body, _, err := docconv.ConvertDocx(bytes.NewReader(data))
	if err != nil {
		return "", apperrors.New(apperrors.ErrUnreadableDocument, fmt.Errorf("docx: %w", err))
	}
	return normalizePage(body), nil
}

// normalizePage trims trailing space and drops blank lines so that the only
// blank lines in the final text are page separators.
func normalizePage(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, line := range lines {
		line = strings.TrimRight(line, " \t\r\f\v")
		if strings.TrimSpace(line) == "" {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
