package models

import (
	"strconv"
	"strings"
)

// TaxonomyLevel is a Bloom's taxonomy cognitive level.
type TaxonomyLevel string

const (
	TaxonomyRemember   TaxonomyLevel = "Remember"
	TaxonomyUnderstand TaxonomyLevel = "Understand"
	TaxonomyApply      TaxonomyLevel = "Apply"
	TaxonomyAnalyze    TaxonomyLevel = "Analyze"
	TaxonomyEvaluate   TaxonomyLevel = "Evaluate"
	TaxonomyCreate     TaxonomyLevel = "Create"
)

var taxonomyLevels = []TaxonomyLevel{
	TaxonomyRemember,
	TaxonomyUnderstand,
	TaxonomyApply,
	TaxonomyAnalyze,
	TaxonomyEvaluate,
	TaxonomyCreate,
}

// QualificationLevel is an Australian Qualifications Framework level.
type QualificationLevel string

const (
	AQFLevel1  QualificationLevel = "AQF Level 1 - Certificate I"
	AQFLevel2  QualificationLevel = "AQF Level 2 - Certificate II"
	AQFLevel3  QualificationLevel = "AQF Level 3 - Certificate III"
	AQFLevel4  QualificationLevel = "AQF Level 4 - Certificate IV"
	AQFLevel5  QualificationLevel = "AQF Level 5 - Diploma"
	AQFLevel6  QualificationLevel = "AQF Level 6 - Advanced Diploma/Associate Degree"
	AQFLevel7  QualificationLevel = "AQF Level 7 - Bachelor Degree"
	AQFLevel8  QualificationLevel = "AQF Level 8 - Bachelor Honours/Graduate Certificate/Graduate Diploma"
	AQFLevel9  QualificationLevel = "AQF Level 9 - Masters Degree"
	AQFLevel10 QualificationLevel = "AQF Level 10 - Doctoral Degree"
)

var qualificationLevels = []QualificationLevel{
	AQFLevel1, AQFLevel2, AQFLevel3, AQFLevel4, AQFLevel5,
	AQFLevel6, AQFLevel7, AQFLevel8, AQFLevel9, AQFLevel10,
}

// Duration is a lesson length label.
type Duration string

const (
	Duration30Min  Duration = "30 minutes"
	Duration45Min  Duration = "45 minutes"
	Duration1Hour  Duration = "1 hour"
	Duration90Min  Duration = "1.5 hours"
	Duration2Hours Duration = "2 hours"
	Duration150Min Duration = "2.5 hours"
	Duration3Hours Duration = "3 hours"
)

var durations = []Duration{
	Duration30Min, Duration45Min, Duration1Hour, Duration90Min,
	Duration2Hours, Duration150Min, Duration3Hours,
}

// Canonical lesson plan headings, in render order.
const (
	HeadingObjectives = "LEARNING OBJECTIVES"
	HeadingOutcomes   = "LEARNING OUTCOMES"
	HeadingStructure  = "LESSON STRUCTURE"
	HeadingActivities = "LEARNING ACTIVITIES"
	HeadingAssessment = "ASSESSMENT"
)

var CanonicalHeadings = []string{
	HeadingObjectives,
	HeadingOutcomes,
	HeadingStructure,
	HeadingActivities,
	HeadingAssessment,
}

func AllTaxonomyLevels() []TaxonomyLevel {
	return append([]TaxonomyLevel(nil), taxonomyLevels...)
}

func AllQualificationLevels() []QualificationLevel {
	return append([]QualificationLevel(nil), qualificationLevels...)
}

func AllDurations() []Duration {
	return append([]Duration(nil), durations...)
}

func (t TaxonomyLevel) Valid() bool {
	for _, v := range taxonomyLevels {
		if v == t {
			return true
		}
	}
	return false
}

func (q QualificationLevel) Valid() bool {
	for _, v := range qualificationLevels {
		if v == q {
			return true
		}
	}
	return false
}

func (d Duration) Valid() bool {
	for _, v := range durations {
		if v == d {
			return true
		}
	}
	return false
}

// Rank is the 1-based position of the level in Bloom's ordering, 0 if unknown.
func (t TaxonomyLevel) Rank() int {
	for i, v := range taxonomyLevels {
		if v == t {
			return i + 1
		}
	}
	return 0
}

// Rank is the AQF level number, 0 if unknown.
func (q QualificationLevel) Rank() int {
	for i, v := range qualificationLevels {
		if v == q {
			return i + 1
		}
	}
	return 0
}

// Options is the payload the form layer renders its choices from.
type Options struct {
	TaxonomyLevels      []TaxonomyLevel      `json:"blooms_taxonomy"`
	QualificationLevels []QualificationLevel `json:"aqf_levels"`
	Durations           []Duration           `json:"lesson_durations"`
}

func AllOptions() Options {
	return Options{
		TaxonomyLevels:      AllTaxonomyLevels(),
		QualificationLevels: AllQualificationLevels(),
		Durations:           AllDurations(),
	}
}

// ParseTaxonomyLevel matches s against the taxonomy levels ignoring case.
func ParseTaxonomyLevel(s string) (TaxonomyLevel, bool) {
	for _, v := range taxonomyLevels {
		if strings.EqualFold(string(v), strings.TrimSpace(s)) {
			return v, true
		}
	}
	return TaxonomyLevel(s), false
}

// ParseQualificationLevel accepts the full label or the bare level number ("7").
func ParseQualificationLevel(s string) (QualificationLevel, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil && n >= 1 && n <= len(qualificationLevels) {
		return qualificationLevels[n-1], true
	}
	for _, v := range qualificationLevels {
		if strings.EqualFold(string(v), s) {
			return v, true
		}
	}
	return QualificationLevel(s), false
}

func ParseDuration(s string) (Duration, bool) {
	for _, v := range durations {
		if strings.EqualFold(string(v), strings.TrimSpace(s)) {
			return v, true
		}
	}
	return Duration(s), false
}
