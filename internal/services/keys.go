package services

import (
	"path"
	"path/filepath"
	"strings"
	"unicode"
)

// safeName keeps letters, digits, dot, dash and underscore; everything else
// becomes an underscore.
func safeName(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	for _, r := range s {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)), r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		return "document"
	}
	return out
}

func outlineKey(topicMapID, filename string) string {
	return path.Join("outlines", topicMapID, safeName(filepath.Base(filename)))
}

func planKey(planID, filename string) string {
	return path.Join("lesson-plans", planID, filename)
}

// PlanFileName is the download name of a rendered plan:
// lesson_plan_<subject>_<first 8 chars of id>.pdf
func PlanFileName(subject, planID string) string {
	id := planID
	if len(id) > 8 {
		id = id[:8]
	}
	subject = strings.Join(strings.Fields(subject), "_")
	return "lesson_plan_" + safeName(subject) + "_" + id + ".pdf"
}
