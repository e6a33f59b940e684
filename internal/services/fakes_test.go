package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/markdave123-py/Lessona/internal/models"
	apperrors "github.com/markdave123-py/Lessona/internal/pkg/errors"
)

type memStore struct {
	mu    sync.Mutex
	maps  map[string]models.TopicMap
	plans map[string]models.LessonPlan
}

func newMemStore() *memStore {
	return &memStore{maps: map[string]models.TopicMap{}, plans: map[string]models.LessonPlan{}}
}

func (s *memStore) SaveTopicMap(_ context.Context, m *models.TopicMap) (string, error) {
	if err := m.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maps[m.ID] = *m
	return m.ID, nil
}

func (s *memStore) GetTopicMap(_ context.Context, id string) (*models.TopicMap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.maps[id]
	if !ok {
		return nil, fmt.Errorf("topic map %q: %w", id, apperrors.ErrNotFound)
	}
	return &m, nil
}

func (s *memStore) ListTopicMaps(context.Context, int) ([]models.TopicMap, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.TopicMap
	for _, m := range s.maps {
		out = append(out, m)
	}
	return out, nil
}

func (s *memStore) DeleteTopicMap(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.maps[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(s.maps, id)
	return nil
}

func (s *memStore) SaveLessonPlan(_ context.Context, p *models.LessonPlan) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.plans[p.ID] = *p
	return p.ID, nil
}

func (s *memStore) GetLessonPlan(_ context.Context, id string) (*models.LessonPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.plans[id]
	if !ok {
		return nil, fmt.Errorf("lesson plan %q: %w", id, apperrors.ErrNotFound)
	}
	return &p, nil
}

func (s *memStore) ListLessonPlans(context.Context, int) ([]models.LessonPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.LessonPlan
	for _, p := range s.plans {
		out = append(out, p)
	}
	return out, nil
}

func (s *memStore) Close() error { return nil }

type memBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
	failPut bool
}

func newMemBucket() *memBucket { return &memBucket{objects: map[string][]byte{}} }

func (b *memBucket) UploadFile(_ context.Context, key string, data []byte, _ string) (string, error) {
	if b.failPut {
		return "", errors.New("bucket down")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[key] = data
	return "mem://" + key, nil
}

func (b *memBucket) DeleteFile(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, key)
	return nil
}

func (b *memBucket) keys() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []string
	for k := range b.objects {
		out = append(out, k)
	}
	return out
}

type stubText struct {
	text string
	err  error
}

func (s stubText) ExtractText(context.Context, []byte, string) (string, error) {
	return s.text, s.err
}

type stubMapper struct {
	m   *models.TopicMap
	err error
}

func (s stubMapper) ExtractMap(_ context.Context, _ string, source string) (*models.TopicMap, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := *s.m
	out.SourceName = source
	return &out, nil
}

type stubComposer struct {
	calls int
	err   error
}

func (c *stubComposer) Compose(_ context.Context, req models.LessonPlanRequest) (*models.LessonPlan, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	p := &models.LessonPlan{ID: fmt.Sprintf("plan-%08d", c.calls), Request: req}
	for _, h := range models.CanonicalHeadings {
		p.Sections = append(p.Sections, models.Section{Heading: h, Body: "- " + h})
	}
	return p, nil
}

type stubRenderer struct{}

func (stubRenderer) Render(p *models.LessonPlan) ([]byte, error) {
	if !p.IsCanonical() {
		return nil, apperrors.New(apperrors.ErrRender, errors.New("bad plan"))
	}
	return []byte("%PDF-1.3 " + p.ID), nil
}

func (stubRenderer) RenderPreview(p *models.LessonPlan) ([]byte, error) {
	return []byte("\x89PNG" + p.ID), nil
}

func databasesMap() *models.TopicMap {
	return &models.TopicMap{
		Subjects: []string{"Intro to Databases"},
		Topics:   []string{"Relational Model", "Normalization"},
		TopicFocusMapping: map[string][]string{
			"Relational Model": {},
			"Normalization":    {"1NF", "2NF", "3NF"},
		},
	}
}

func planRequest() models.LessonPlanRequest {
	return models.LessonPlanRequest{
		SubjectName:        "Intro to Databases",
		Topic:              "Normalization",
		FocusTopic:         "3NF",
		TaxonomyLevel:      models.TaxonomyApply,
		QualificationLevel: models.AQFLevel7,
		Duration:           models.Duration1Hour,
	}
}
