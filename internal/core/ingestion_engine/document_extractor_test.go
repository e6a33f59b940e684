package ingestion_engine

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jung-kurt/gofpdf"

	apperrors "github.com/markdave123-py/Lessona/internal/pkg/errors"
)

func buildPDF(t *testing.T, pages ...[]string) []byte {
	t.Helper()
	doc := gofpdf.New("P", "mm", "A4", "")
	for _, lines := range pages {
		doc.AddPage()
		doc.SetFont("Helvetica", "", 12)
		for _, l := range lines {
			doc.Cell(0, 8, l)
			doc.Ln(8)
		}
	}
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		t.Fatalf("gofpdf output: %v", err)
	}
	return buf.Bytes()
}

func TestExtractTextPDFPages(t *testing.T) {
	data := buildPDF(t,
		[]string{"Intro to Databases", "Week 1 Relational Model"},
		[]string{},
		[]string{"Week 2 Normalization"},
	)

	e := NewOutlineExtractor(nil)
	out, err := e.ExtractText(context.Background(), data, "application/pdf")
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	first := strings.Index(out, "Relational Model")
	second := strings.Index(out, "Normalization")
	if first < 0 || second < 0 || first > second {
		t.Fatalf("pages missing or out of order: %q", out)
	}
	between := out[first:second]
	if !strings.Contains(between, "\n\n") || strings.Contains(between, "\n\n\n") {
		t.Fatalf("pages must be separated by exactly one blank line: %q", between)
	}
}

func TestExtractTextBlankPDF(t *testing.T) {
	data := buildPDF(t, []string{})
	_, err := NewOutlineExtractor(nil).ExtractText(context.Background(), data, "application/pdf")
	if !errors.Is(err, apperrors.ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
}

func TestExtractTextErrors(t *testing.T) {
	e := NewOutlineExtractor(nil)
	cases := []struct {
		name string
		data []byte
		ct   string
		want error
	}{
		{"zero bytes", nil, "application/pdf", apperrors.ErrEmptyDocument},
		{"corrupt pdf", []byte("%PDF-1.4\nthis is not really a pdf"), "application/pdf", apperrors.ErrUnreadableDocument},
		{"binary blob", []byte{0x00, 0x01, 0x02, 0xff, 0xfe}, "application/octet-stream", apperrors.ErrUnreadableDocument},
		{"image", []byte("\x89PNG\r\n\x1a\n...."), "image/png", apperrors.ErrUnreadableDocument},
		{"whitespace text", []byte("  \n\t\n  "), "text/plain", apperrors.ErrEmptyDocument},
		{"corrupt docx", []byte("PK\x03\x04garbage"), "", apperrors.ErrUnreadableDocument},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := e.ExtractText(context.Background(), tc.data, tc.ct)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v (out %q)", tc.want, err, out)
			}
		})
	}
}

func TestExtractTextPlain(t *testing.T) {
	in := "Intro to Databases\r\n\r\n\r\nWeek 1   \r\nWeek 2"
	out, err := NewOutlineExtractor(nil).ExtractText(context.Background(), []byte(in), "")
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if out != "Intro to Databases\nWeek 1\nWeek 2" {
		t.Fatalf("got %q", out)
	}
}

func TestSniffKind(t *testing.T) {
	if sniffKind([]byte("%PDF-1.7"), "text/plain") != kindPDF {
		t.Error("magic bytes win over content type")
	}
	if sniffKind([]byte("hello"), "text/markdown") != kindText {
		t.Error("text/* is text")
	}
	if sniffKind([]byte("hello"), "application/vnd.openxmlformats-officedocument.wordprocessingml.document") != kindDOCX {
		t.Error("docx content type")
	}
}
