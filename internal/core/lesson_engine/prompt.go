package lesson_engine

import (
	"fmt"
	"strings"

	"github.com/markdave123-py/Lessona/internal/models"
)

// buildPrompt renders the generation template. When no focus topic is
// selected the prompt carries no focus line at all.
func buildPrompt(req models.LessonPlanRequest) string {
	var b strings.Builder

	b.WriteString("Create a detailed lesson plan based on the following parameters:\n\n")
	fmt.Fprintf(&b, "Subject: %s\n", req.SubjectName)
	fmt.Fprintf(&b, "Lecture Topic: %s\n", req.Topic)
	if req.HasFocus() {
		fmt.Fprintf(&b, "Focus Topic: %s\n", req.FocusTopic)
	}
	fmt.Fprintf(&b, "Bloom's Taxonomy Level: %s\n", req.TaxonomyLevel)
	fmt.Fprintf(&b, "AQF Level: %s\n", req.QualificationLevel)
	fmt.Fprintf(&b, "Duration: %s\n\n", req.Duration)

	b.WriteString("Use exactly these section headings, in this order, each on its own line in ALL CAPS:\n\n")

	fmt.Fprintf(&b, "%s\n- Clear, measurable objectives aligned with the %s level of Bloom's taxonomy\n\n",
		models.HeadingObjectives, req.TaxonomyLevel)
	fmt.Fprintf(&b, "%s\n- What students will achieve, appropriate for %s\n\n",
		models.HeadingOutcomes, req.QualificationLevel)
	fmt.Fprintf(&b, "%s\n", models.HeadingStructure)
	fmt.Fprintf(&b, "- Break the %s into timed stages, one per line, written as \"Stage name (N minutes)\" followed by hyphen bullets\n", req.Duration)
	fmt.Fprintf(&b, "- The stage times must add up to %s\n\n", req.Duration)
	fmt.Fprintf(&b, "%s\n- Hands-on, discussion and practice activities\n\n", models.HeadingActivities)
	fmt.Fprintf(&b, "%s\n- How student understanding will be measured at the %s level\n\n",
		models.HeadingAssessment, req.TaxonomyLevel)

	if req.HasFocus() {
		fmt.Fprintf(&b, "Emphasize %s within the broader %s context.\n\n", req.FocusTopic, req.Topic)
	} else {
		fmt.Fprintf(&b, "Provide comprehensive coverage of %s.\n\n", req.Topic)
	}

	b.WriteString("Rules:\n")
	fmt.Fprintf(&b, "- Pitch the content at %s.\n", req.QualificationLevel)
	fmt.Fprintf(&b, "- Design activities that build %s level cognitive skills.\n", req.TaxonomyLevel)
	fmt.Fprintf(&b, "- Keep it realistic for the %s timeframe.\n", req.Duration)
	b.WriteString("- Do NOT use markdown symbols such as #, *, _ or backticks.\n")
	b.WriteString("- Use hyphens for bullet points.\n")
	b.WriteString("- Do not add any other section headings and no text before the first heading.\n")

	return b.String()
}
