package ingestion_engine

import "strings"

// omissionMarker sits between the kept head and tail of a long outline.
const omissionMarker = "\n\n[... middle of document omitted ...]\n\n"

// truncateHeadTail keeps the first head and the last tail runes of text when
// it is longer than head+tail. Topic tables usually open an outline and the
// schedule/assessment tables close it, so the middle is what gets dropped.
func truncateHeadTail(text string, head, tail int) (string, bool) {
	if head < 0 {
		head = 0
	}
	if tail < 0 {
		tail = 0
	}
	r := []rune(text)
	if len(r) <= head+tail {
		return text, false
	}
	var b strings.Builder
	b.Grow(len(text))
	b.WriteString(string(r[:head]))
	b.WriteString(omissionMarker)
	b.WriteString(string(r[len(r)-tail:]))
	return b.String(), true
}

// approxTokens is a cheap token estimator (~4 chars ≈ 1 token), used for logging.
func approxTokens(s string) int {
	n := len([]rune(s))
	if n <= 0 {
		return 0
	}
	return (n + 3) / 4
}
