package models

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/markdave123-py/Lessona/internal/pkg/errors"
)

// TopicMap is the subject/topic/focus hierarchy derived from one outline document.
type TopicMap struct {
	ID                string              `db:"id" json:"id"`
	SourceName        string              `db:"source_name" json:"source_name"`
	Subjects          []string            `db:"subjects" json:"subjects"`
	Topics            []string            `db:"topics" json:"topics"`
	TopicFocusMapping map[string][]string `db:"topic_focus_mapping" json:"topic_focus_mapping"`
	CreatedAt         time.Time           `db:"created_at" json:"created_at"`
}

// Validate checks the structural invariant every stored map must satisfy.
func (m *TopicMap) Validate() error {
	if m == nil {
		return fmt.Errorf("nil topic map")
	}
	if len(m.Topics) == 0 {
		return fmt.Errorf("topic map has no topics")
	}
	if err := checkDistinct("subject", m.Subjects); err != nil {
		return err
	}
	if err := checkDistinct("topic", m.Topics); err != nil {
		return err
	}

	known := make(map[string]struct{}, len(m.Topics))
	for _, t := range m.Topics {
		known[t] = struct{}{}
	}
	for topic, foci := range m.TopicFocusMapping {
		if _, ok := known[topic]; !ok {
			return fmt.Errorf("mapping key %q is not a known topic", topic)
		}
		if err := checkDistinct("focus topic", foci); err != nil {
			return fmt.Errorf("topic %q: %w", topic, err)
		}
	}
	return nil
}

// HasTopic reports whether topic is one of the map's lecture topics.
func (m *TopicMap) HasTopic(topic string) bool {
	for _, t := range m.Topics {
		if t == topic {
			return true
		}
	}
	return false
}

// HasFocus reports whether focus is listed under topic.
func (m *TopicMap) HasFocus(topic, focus string) bool {
	for _, f := range m.TopicFocusMapping[topic] {
		if f == focus {
			return true
		}
	}
	return false
}

func checkDistinct(label string, values []string) error {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("empty %s", label)
		}
		if _, dup := seen[v]; dup {
			return fmt.Errorf("duplicate %s %q", label, v)
		}
		seen[v] = struct{}{}
	}
	return nil
}

// LessonPlanRequest is the caller's selection plus pedagogical parameters.
// It is copied by value into the plan it produces.
type LessonPlanRequest struct {
	SubjectName        string             `json:"subject_name"`
	Topic              string             `json:"lecture_topic"`
	FocusTopic         string             `json:"focus_topic,omitempty"`
	TaxonomyLevel      TaxonomyLevel      `json:"blooms_taxonomy"`
	QualificationLevel QualificationLevel `json:"aqf_level"`
	Duration           Duration           `json:"lesson_duration"`
}

// HasFocus reports whether a focus topic was selected.
func (r LessonPlanRequest) HasFocus() bool {
	return strings.TrimSpace(r.FocusTopic) != ""
}

// Section is one heading/body pair of a generated lesson plan.
type Section struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// LessonPlan is a generated plan. Sections always follow CanonicalHeadings.
type LessonPlan struct {
	ID          string            `db:"id" json:"id"`
	Request     LessonPlanRequest `db:"request_data" json:"request_data"`
	Sections    []Section         `db:"sections" json:"sections"`
	Repaired    []string          `db:"repaired" json:"repaired,omitempty"`
	RawResponse string            `db:"raw_response" json:"-"`
	GeneratedAt time.Time         `db:"generated_at" json:"generated_at"`
}

// Section returns the body stored under heading.
func (p *LessonPlan) Section(heading string) (string, bool) {
	for _, s := range p.Sections {
		if s.Heading == heading {
			return s.Body, true
		}
	}
	return "", false
}

// IsCanonical reports whether Sections holds exactly the canonical headings in order.
func (p *LessonPlan) IsCanonical() bool {
	if p == nil || len(p.Sections) != len(CanonicalHeadings) {
		return false
	}
	for i, h := range CanonicalHeadings {
		if p.Sections[i].Heading != h {
			return false
		}
	}
	return true
}

// Validate checks shape only: the four enumerated fields must belong to their
// closed sets and subject/topic must be present. It does not check that the
// topic exists in any stored TopicMap.
func (r LessonPlanRequest) Validate() error {
	switch {
	case strings.TrimSpace(r.SubjectName) == "":
		return apperrors.InvalidField("subject_name", "subject name is required")
	case strings.TrimSpace(r.Topic) == "":
		return apperrors.InvalidField("lecture_topic", "lecture topic is required")
	case !r.TaxonomyLevel.Valid():
		return apperrors.InvalidField("blooms_taxonomy", fmt.Sprintf("%q is not a Bloom's taxonomy level", r.TaxonomyLevel))
	case !r.QualificationLevel.Valid():
		return apperrors.InvalidField("aqf_level", fmt.Sprintf("%q is not an AQF level", r.QualificationLevel))
	case !r.Duration.Valid():
		return apperrors.InvalidField("lesson_duration", fmt.Sprintf("%q is not a supported lesson duration", r.Duration))
	}
	return nil
}

// Normalized returns a copy with surrounding whitespace removed from the free-text fields.
func (r LessonPlanRequest) Normalized() LessonPlanRequest {
	r.SubjectName = strings.TrimSpace(r.SubjectName)
	r.Topic = strings.TrimSpace(r.Topic)
	r.FocusTopic = strings.TrimSpace(r.FocusTopic)
	return r
}
