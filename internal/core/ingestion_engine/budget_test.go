package ingestion_engine

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncateHeadTail(t *testing.T) {
	short := "short outline"
	if got, cut := truncateHeadTail(short, 8000, 2000); cut || got != short {
		t.Fatalf("short text must pass through, got %q %v", got, cut)
	}

	// Multi-byte runes at both cut points.
	text := strings.Repeat("é", 30) + strings.Repeat("x", 40) + strings.Repeat("ü", 30)
	got, cut := truncateHeadTail(text, 30, 30)
	if !cut {
		t.Fatal("expected truncation")
	}
	if !utf8.ValidString(got) {
		t.Fatal("truncation split a rune")
	}
	want := strings.Repeat("é", 30) + omissionMarker + strings.Repeat("ü", 30)
	if got != want {
		t.Fatalf("got %q", got)
	}

	exact := strings.Repeat("a", 50)
	if _, cut := truncateHeadTail(exact, 25, 25); cut {
		t.Fatal("text equal to the budget must not be cut")
	}
}

func TestApproxTokens(t *testing.T) {
	if approxTokens("") != 0 || approxTokens("abcd") != 1 || approxTokens("abcde") != 2 {
		t.Fatal("unexpected token estimate")
	}
}
