package db

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/markdave123-py/Lessona/internal/models"
)

const defaultListLimit = 100

func listLimit(limit int) int {
	if limit <= 0 || limit > 1000 {
		return defaultListLimit
	}
	return limit
}

// prepareTopicMap validates m and fills ID and CreatedAt when missing.
func prepareTopicMap(m *models.TopicMap) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("refusing to store topic map: %w", err)
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	if m.Subjects == nil {
		m.Subjects = []string{}
	}
	if m.TopicFocusMapping == nil {
		m.TopicFocusMapping = map[string][]string{}
	}
	return nil
}

func preparePlan(p *models.LessonPlan) error {
	if p == nil {
		return fmt.Errorf("nil lesson plan")
	}
	if !p.IsCanonical() {
		return fmt.Errorf("refusing to store lesson plan without canonical sections")
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.GeneratedAt.IsZero() {
		p.GeneratedAt = time.Now().UTC()
	}
	if p.Repaired == nil {
		p.Repaired = []string{}
	}
	return nil
}

type topicMapJSON struct {
	subjects, topics, mapping []byte
}

func encodeTopicMap(m *models.TopicMap) (topicMapJSON, error) {
	var (
		out topicMapJSON
		err error
	)
	if out.subjects, err = json.Marshal(m.Subjects); err != nil {
		return out, err
	}
	if out.topics, err = json.Marshal(m.Topics); err != nil {
		return out, err
	}
	if out.mapping, err = json.Marshal(m.TopicFocusMapping); err != nil {
		return out, err
	}
	return out, nil
}

func decodeTopicMap(m *models.TopicMap, subjects, topics, mapping []byte) error {
	if err := json.Unmarshal(subjects, &m.Subjects); err != nil {
		return fmt.Errorf("decode subjects: %w", err)
	}
	if err := json.Unmarshal(topics, &m.Topics); err != nil {
		return fmt.Errorf("decode topics: %w", err)
	}
	if err := json.Unmarshal(mapping, &m.TopicFocusMapping); err != nil {
		return fmt.Errorf("decode mapping: %w", err)
	}
	return nil
}

type planJSON struct {
	request, sections, repaired []byte
}

func encodePlan(p *models.LessonPlan) (planJSON, error) {
	var (
		out planJSON
		err error
	)
	if out.request, err = json.Marshal(p.Request); err != nil {
		return out, err
	}
	if out.sections, err = json.Marshal(p.Sections); err != nil {
		return out, err
	}
	if out.repaired, err = json.Marshal(p.Repaired); err != nil {
		return out, err
	}
	return out, nil
}

func decodePlan(p *models.LessonPlan, request, sections, repaired []byte) error {
	if err := json.Unmarshal(request, &p.Request); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	if err := json.Unmarshal(sections, &p.Sections); err != nil {
		return fmt.Errorf("decode sections: %w", err)
	}
	if len(repaired) > 0 {
		if err := json.Unmarshal(repaired, &p.Repaired); err != nil {
			return fmt.Errorf("decode repaired: %w", err)
		}
	}
	return nil
}
