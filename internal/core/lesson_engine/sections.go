package lesson_engine

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/markdave123-py/Lessona/internal/models"
)

// headingAliases maps a normalized heading line to its canonical heading.
var headingAliases = map[string]string{
	"LEARNING OBJECTIVES":        models.HeadingObjectives,
	"OBJECTIVES":                 models.HeadingObjectives,
	"LESSON OBJECTIVES":          models.HeadingObjectives,
	"LEARNING OUTCOMES":          models.HeadingOutcomes,
	"OUTCOMES":                   models.HeadingOutcomes,
	"EXPECTED LEARNING OUTCOMES": models.HeadingOutcomes,
	"LESSON STRUCTURE":           models.HeadingStructure,
	"LESSON PLAN STRUCTURE":      models.HeadingStructure,
	"STRUCTURE":                  models.HeadingStructure,
	"LEARNING ACTIVITIES":        models.HeadingActivities,
	"ACTIVE LEARNING ACTIVITIES": models.HeadingActivities,
	"ACTIVITIES":                 models.HeadingActivities,
	"ASSESSMENT":                 models.HeadingAssessment,
	"ASSESSMENT CRITERIA":        models.HeadingAssessment,
	"ASSESSMENT STRATEGY":        models.HeadingAssessment,
	"ASSESSMENT AND EVALUATION":  models.HeadingAssessment,
}

var (
	numberingRe   = regexp.MustCompile(`^(\d+|[IVX]+)[.)]\s+`)
	parenSuffixRe = regexp.MustCompile(`\s*\([^()]*\)\s*$`)
	nonWordRe     = regexp.MustCompile(`[^A-Z0-9]+`)
)

// matchHeading returns the canonical heading a line stands for, if any.
// A heading may carry text after a colon ("ASSESSMENT: Quiz"); that text is
// returned as rest and becomes the first body line.
func matchHeading(line string) (heading, rest string, ok bool) {
	s := strings.TrimSpace(line)
	if s == "" {
		return "", "", false
	}
	for _, bullet := range []string{"- ", "* ", "+ ", "• "} {
		if strings.HasPrefix(s, bullet) {
			return "", "", false
		}
	}
	s = strings.TrimLeft(s, "# ")
	s = strings.Trim(s, "*_ ")
	s = numberingRe.ReplaceAllString(s, "")

	if h, ok := matchLabel(strings.TrimRight(s, ":*_ ")); ok {
		return h, "", true
	}
	if i := strings.Index(s, ":"); i > 0 {
		if h, ok := matchLabel(strings.TrimRight(s[:i], "*_ ")); ok {
			return h, strings.TrimSpace(strings.TrimLeft(s[i+1:], "*_ ")), true
		}
	}
	return "", "", false
}

// matchLabel maps a stripped heading label to its canonical heading. Only the
// structure heading may carry a parenthesized suffix ("LESSON STRUCTURE (1 hour)");
// stage lines such as "ASSESSMENT (10 minutes)" stay inside the structure body.
func matchLabel(s string) (string, bool) {
	if s == "" || len(s) > 80 {
		return "", false
	}
	suffixed := false
	if loc := parenSuffixRe.FindStringIndex(s); loc != nil {
		s = s[:loc[0]]
		suffixed = true
	}

	key := strings.TrimSpace(nonWordRe.ReplaceAllString(strings.ToUpper(s), " "))
	h, ok := headingAliases[key]
	if !ok {
		return "", false
	}
	if suffixed && h != models.HeadingStructure {
		return "", false
	}
	if !strings.Contains(key, " ") && hasLower(s) {
		// Single words only count in upper case; "Assessment" alone is
		// usually a stage name inside the structure section.
		return "", false
	}
	return h, true
}

func hasLower(s string) bool {
	for _, r := range s {
		if unicode.IsLower(r) {
			return true
		}
	}
	return false
}

// parseSections splits a model response into the canonical sections. found
// counts recognized heading lines; repaired lists canonical headings that
// never appeared and were synthesized with an empty body.
func parseSections(response string) (sections []models.Section, repaired []string, found int) {
	bodies := make(map[string][]string, len(models.CanonicalHeadings))
	seen := make(map[string]bool, len(models.CanonicalHeadings))

	current := ""
	var buf []string
	flush := func() {
		if current == "" {
			return
		}
		if body := cleanBody(strings.Join(buf, "\n")); body != "" {
			bodies[current] = append(bodies[current], body)
		}
		buf = buf[:0]
	}

	for _, line := range strings.Split(strings.ReplaceAll(response, "\r\n", "\n"), "\n") {
		if h, rest, ok := matchHeading(line); ok {
			flush()
			current = h
			seen[h] = true
			found++
			if rest != "" {
				buf = append(buf, rest)
			}
			continue
		}
		if current != "" {
			buf = append(buf, line)
		}
	}
	flush()

	for _, h := range models.CanonicalHeadings {
		if !seen[h] {
			repaired = append(repaired, h)
		}
		sections = append(sections, models.Section{
			Heading: h,
			Body:    strings.Join(bodies[h], "\n\n"),
		})
	}
	return sections, repaired, found
}

var (
	headingMarkRe  = regexp.MustCompile(`^\s*#+\s*`)
	quoteRe        = regexp.MustCompile(`^\s*>\s?`)
	listMarkerRe   = regexp.MustCompile(`^(\s*)[*+•]\s+`)
	underscoreEmRe = regexp.MustCompile(`(^|[\s(])_([^_\s][^_]*?)_([\s).,;:!?]|$)`)
	blankRunRe     = regexp.MustCompile(`\n{3,}`)
)

// cleanBody strips markdown the model was told not to emit.
func cleanBody(body string) string {
	lines := strings.Split(body, "\n")
	for i, l := range lines {
		l = headingMarkRe.ReplaceAllString(l, "")
		l = quoteRe.ReplaceAllString(l, "")
		l = listMarkerRe.ReplaceAllString(l, "$1- ")
		l = strings.ReplaceAll(l, "**", "")
		l = strings.ReplaceAll(l, "__", "")
		l = strings.ReplaceAll(l, "`", "")
		l = underscoreEmRe.ReplaceAllString(l, "$1$2$3")
		l = strings.ReplaceAll(l, "*", "")
		lines[i] = strings.TrimRight(l, " \t")
	}
	out := strings.Join(lines, "\n")
	out = blankRunRe.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}
