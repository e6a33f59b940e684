package db

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/markdave123-py/Lessona/internal/models"
	apperrors "github.com/markdave123-py/Lessona/internal/pkg/errors"
)

func newTestClient(t *testing.T) *GormClient {
	t.Helper()
	c, err := NewSQLiteClient(filepath.Join(t.TempDir(), "lessona.db"))
	if err != nil {
		t.Fatalf("NewSQLiteClient: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func sampleMap() *models.TopicMap {
	return &models.TopicMap{
		SourceName: "comp1001.pdf",
		Subjects:   []string{"Intro to Databases"},
		Topics:     []string{"Relational Model", "Normalization"},
		TopicFocusMapping: map[string][]string{
			"Relational Model": {},
			"Normalization":    {"1NF", "2NF", "3NF"},
		},
	}
}

func TestTopicMapRoundTrip(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	in := sampleMap()
	id, err := c.SaveTopicMap(ctx, in)
	if err != nil {
		t.Fatalf("SaveTopicMap: %v", err)
	}
	if id == "" || in.ID != id {
		t.Fatalf("expected assigned id, got %q / %q", id, in.ID)
	}

	got, err := c.GetTopicMap(ctx, id)
	if err != nil {
		t.Fatalf("GetTopicMap: %v", err)
	}
	if !reflect.DeepEqual(got.Topics, in.Topics) || !reflect.DeepEqual(got.Subjects, in.Subjects) {
		t.Fatalf("lists changed: %+v", got)
	}
	if !reflect.DeepEqual(got.TopicFocusMapping, in.TopicFocusMapping) {
		t.Fatalf("mapping changed: %#v", got.TopicFocusMapping)
	}
	if got.SourceName != "comp1001.pdf" {
		t.Fatalf("source: %q", got.SourceName)
	}

	if _, err := c.SaveTopicMap(ctx, in); err == nil {
		t.Fatal("saving the same id twice must fail")
	}
}

func TestTopicMapNotFoundAndDelete(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	if _, err := c.GetTopicMap(ctx, "missing"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	id, err := c.SaveTopicMap(ctx, sampleMap())
	if err != nil {
		t.Fatal(err)
	}
	if err := c.DeleteTopicMap(ctx, id); err != nil {
		t.Fatalf("DeleteTopicMap: %v", err)
	}
	if err := c.DeleteTopicMap(ctx, id); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestSaveRejectsInvalidMap(t *testing.T) {
	c := newTestClient(t)
	bad := sampleMap()
	bad.TopicFocusMapping["Ghost"] = []string{"x"}
	if _, err := c.SaveTopicMap(context.Background(), bad); err == nil {
		t.Fatal("expected invariant violation to be rejected")
	}
}

func TestListTopicMapsNewestFirst(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		m := sampleMap()
		m.SourceName = []string{"a", "b", "c"}[i]
		m.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		if _, err := c.SaveTopicMap(ctx, m); err != nil {
			t.Fatal(err)
		}
	}
	list, err := c.ListTopicMaps(ctx, 2)
	if err != nil {
		t.Fatalf("ListTopicMaps: %v", err)
	}
	if len(list) != 2 || list[0].SourceName != "c" || list[1].SourceName != "b" {
		t.Fatalf("unexpected order: %+v", list)
	}
}

func TestConcurrentSaves(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.SaveTopicMap(ctx, sampleMap()); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent save: %v", err)
	}
	list, err := c.ListTopicMaps(ctx, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 8 {
		t.Fatalf("expected 8 maps, got %d", len(list))
	}
}

func TestLessonPlanRoundTrip(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	plan := &models.LessonPlan{
		Request: models.LessonPlanRequest{
			SubjectName:        "Intro to Databases",
			Topic:              "Normalization",
			TaxonomyLevel:      models.TaxonomyApply,
			QualificationLevel: models.AQFLevel7,
			Duration:           models.Duration1Hour,
		},
		Repaired:    []string{models.HeadingAssessment},
		RawResponse: "LEARNING OBJECTIVES\n- x",
	}
	for _, h := range models.CanonicalHeadings {
		plan.Sections = append(plan.Sections, models.Section{Heading: h, Body: "- " + h})
	}

	id, err := c.SaveLessonPlan(ctx, plan)
	if err != nil {
		t.Fatalf("SaveLessonPlan: %v", err)
	}
	got, err := c.GetLessonPlan(ctx, id)
	if err != nil {
		t.Fatalf("GetLessonPlan: %v", err)
	}
	if got.Request != plan.Request {
		t.Fatalf("request changed: %+v", got.Request)
	}
	if !got.IsCanonical() || !reflect.DeepEqual(got.Sections, plan.Sections) {
		t.Fatalf("sections changed: %+v", got.Sections)
	}
	if !reflect.DeepEqual(got.Repaired, plan.Repaired) || got.RawResponse != plan.RawResponse {
		t.Fatalf("diagnostics lost: %+v", got)
	}

	if _, err := c.GetLessonPlan(ctx, "nope"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	list, err := c.ListLessonPlans(ctx, 10)
	if err != nil || len(list) != 1 {
		t.Fatalf("ListLessonPlans: %v %d", err, len(list))
	}

	broken := &models.LessonPlan{Sections: plan.Sections[:2]}
	if _, err := c.SaveLessonPlan(ctx, broken); err == nil {
		t.Fatal("non-canonical plans must be rejected")
	}
}
