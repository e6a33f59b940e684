package ingestion_engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/markdave123-py/Lessona/internal/models"
)

// ParseFailure describes why a model response could not be read as a topic map.
type ParseFailure struct {
	Reason string
}

// ParseResult is either a Map or a Failure, never both.
type ParseResult struct {
	Map     *models.TopicMap
	Failure *ParseFailure
}

func (r ParseResult) OK() bool { return r.Failure == nil && r.Map != nil }

func failed(format string, args ...any) ParseResult {
	return ParseResult{Failure: &ParseFailure{Reason: fmt.Sprintf(format, args...)}}
}

// rawTopicMap accepts both the current keys and the older
// subject_names/lecture_topics/lecture_focus_mapping ones.
type rawTopicMap struct {
	Subjects            json.RawMessage `json:"subjects"`
	SubjectNames        json.RawMessage `json:"subject_names"`
	Topics              json.RawMessage `json:"topics"`
	LectureTopics       json.RawMessage `json:"lecture_topics"`
	Mapping             json.RawMessage `json:"mapping"`
	LectureFocusMapping json.RawMessage `json:"lecture_focus_mapping"`
}

// ParseTopicMap reads a model response into a normalized TopicMap. It strips
// code fences and, when the response has prose around the JSON, falls back to
// the first balanced object in the text.
func ParseTopicMap(response string) ParseResult {
	cleaned := stripCodeFences(response)
	if cleaned == "" {
		return failed("empty response")
	}

	var raw rawTopicMap
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		var found bool
		raw, found, err = scanForTopicMap(cleaned)
		if !found {
			return failed("no JSON object in response")
		}
		if err != nil {
			return failed("invalid JSON: %v", err)
		}
	}

	subjects, err := decodeStrings(firstPresent(raw.Subjects, raw.SubjectNames))
	if err != nil {
		return failed("subjects: %v", err)
	}
	topics, err := decodeStrings(firstPresent(raw.Topics, raw.LectureTopics))
	if err != nil {
		return failed("topics: %v", err)
	}
	mapping, err := decodeMapping(firstPresent(raw.Mapping, raw.LectureFocusMapping))
	if err != nil {
		return failed("mapping: %v", err)
	}

	return ParseResult{Map: normalize(subjects, topics, mapping)}
}

func firstPresent(vals ...json.RawMessage) json.RawMessage {
	for _, v := range vals {
		if len(bytes.TrimSpace(v)) > 0 && !bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			return v
		}
	}
	return nil
}

// decodeStrings accepts a list of strings, a single string, or null. Non-string
// scalars inside a list are rendered with %v; nested objects are rejected.
func decodeStrings(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}, nil
	}
	var items []any
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("expected a list of strings")
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		switch v := it.(type) {
		case nil:
		case string:
			out = append(out, v)
		case float64, bool:
			out = append(out, fmt.Sprint(v))
		default:
			return nil, fmt.Errorf("unexpected element %T", it)
		}
	}
	return out, nil
}

// decodeMapping treats a non-object mapping as absent.
func decodeMapping(raw json.RawMessage) (map[string][]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, nil
	}
	out := make(map[string][]string, len(obj))
	for k, v := range obj {
		foci, err := decodeStrings(v)
		if err != nil {
			return nil, fmt.Errorf("topic %q: %w", k, err)
		}
		out[k] = foci
	}
	return out, nil
}

// normalize trims and de-duplicates every list preserving first-seen order,
// drops mapping keys that are not topics, and gives every topic an entry.
func normalize(subjects, topics []string, mapping map[string][]string) *models.TopicMap {
	m := &models.TopicMap{
		Subjects:          dedupe(subjects),
		Topics:            dedupe(topics),
		TopicFocusMapping: make(map[string][]string),
	}

	trimmed := make(map[string][]string, len(mapping))
	for k, v := range mapping {
		k = strings.TrimSpace(k)
		trimmed[k] = append(trimmed[k], v...)
	}
	for _, t := range m.Topics {
		m.TopicFocusMapping[t] = dedupe(trimmed[t])
	}
	return m
}

func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func stripCodeFences(s string) string {
	// Remove markdown/json code fences like ```json, ```
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if nl := strings.Index(s, "\n"); nl != -1 {
			s = s[nl+1:]
		} else {
			s = strings.TrimPrefix(s, "```")
		}
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}

// scanForTopicMap tries every balanced {...} in s in order. The first one
// that decodes and names a topics key wins; otherwise the first one that
// decodes at all. found is false when s holds no object.
func scanForTopicMap(s string) (raw rawTopicMap, found bool, err error) {
	var (
		fallback   *rawTopicMap
		firstErr   error
		start, end = findJSONFrom(s, 0)
	)
	for start != -1 {
		found = true
		var cand rawTopicMap
		if derr := json.Unmarshal([]byte(s[start:end]), &cand); derr != nil {
			if firstErr == nil {
				firstErr = derr
			}
		} else {
			if firstPresent(cand.Topics, cand.LectureTopics) != nil {
				return cand, true, nil
			}
			if fallback == nil {
				fallback = &cand
			}
		}
		start, end = findJSONFrom(s, start+1)
	}
	if fallback != nil {
		return *fallback, true, nil
	}
	return rawTopicMap{}, found, firstErr
}

// findFirstJSON returns the first balanced {...} in s.
func findFirstJSON(s string) string {
	start, end := findJSONFrom(s, 0)
	if start == -1 {
		return ""
	}
	return s[start:end]
}

// findJSONFrom locates the first balanced {...} at or after from, skipping
// braces that appear inside string literals. It returns -1, -1 when there
// is none.
func findJSONFrom(s string, from int) (int, int) {
	start, depth := -1, 0
	inString, escaped := false, false
	for i := from; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			if start != -1 {
				inString = true
			}
		case '{':
			if start == -1 {
				start = i
			}
			depth++
		case '}':
			if start != -1 {
				depth--
				if depth == 0 {
					return start, i + 1
				}
			}
		}
	}
	return -1, -1
}
