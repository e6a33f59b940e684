package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/markdave123-py/Lessona/internal/models"
	apperrors "github.com/markdave123-py/Lessona/internal/pkg/errors"
)

func TestGenerateStoresPlan(t *testing.T) {
	store := newMemStore()
	comp := &stubComposer{}
	svc := NewLessonPlanService(comp, stubRenderer{}, store, nil, nil)

	plan, err := svc.Generate(context.Background(), planRequest(), "")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	got, err := svc.Get(context.Background(), plan.ID)
	if err != nil || got.Request != plan.Request {
		t.Fatalf("plan not stored: %v %+v", err, got)
	}
}

func TestGenerateRejectsInvalidBeforeModelCall(t *testing.T) {
	comp := &stubComposer{}
	svc := NewLessonPlanService(comp, stubRenderer{}, newMemStore(), nil, nil)

	req := planRequest()
	req.TaxonomyLevel = "Memorize"
	_, err := svc.Generate(context.Background(), req, "")
	if !errors.Is(err, apperrors.ErrInvalidRequest) || apperrors.FieldOf(err) != "blooms_taxonomy" {
		t.Fatalf("expected InvalidRequest on blooms_taxonomy, got %v", err)
	}
	if comp.calls != 0 {
		t.Fatal("composer must not be called for invalid requests")
	}
}

func TestGenerateChecksTopicMapMembership(t *testing.T) {
	store := newMemStore()
	m := databasesMap()
	m.ID = "tm-1"
	if _, err := store.SaveTopicMap(context.Background(), m); err != nil {
		t.Fatal(err)
	}
	comp := &stubComposer{}
	svc := NewLessonPlanService(comp, stubRenderer{}, store, nil, nil)

	if _, err := svc.Generate(context.Background(), planRequest(), "tm-1"); err != nil {
		t.Fatalf("member request rejected: %v", err)
	}

	cases := []struct {
		name  string
		mut   func(*models.LessonPlanRequest)
		field string
	}{
		{"subject", func(r *models.LessonPlanRequest) { r.SubjectName = "Chemistry" }, "subject_name"},
		{"topic", func(r *models.LessonPlanRequest) { r.Topic = "Indexing" }, "lecture_topic"},
		{"focus", func(r *models.LessonPlanRequest) { r.FocusTopic = "BCNF" }, "focus_topic"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := planRequest()
			tc.mut(&req)
			_, err := svc.Generate(context.Background(), req, "tm-1")
			if apperrors.FieldOf(err) != tc.field {
				t.Fatalf("field: got %q want %q (%v)", apperrors.FieldOf(err), tc.field, err)
			}
		})
	}

	if _, err := svc.Generate(context.Background(), planRequest(), "nope"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGenerateDoesNotStoreOnFailure(t *testing.T) {
	store := newMemStore()
	comp := &stubComposer{err: apperrors.New(apperrors.ErrGenerationUnavailable, errors.New("timeout"))}
	svc := NewLessonPlanService(comp, stubRenderer{}, store, nil, nil)

	if _, err := svc.Generate(context.Background(), planRequest(), ""); !errors.Is(err, apperrors.ErrGenerationUnavailable) {
		t.Fatalf("expected ErrGenerationUnavailable, got %v", err)
	}
	if len(store.plans) != 0 {
		t.Fatal("failed generation must not be stored")
	}
}

func TestDownloadArchivesPDF(t *testing.T) {
	store := newMemStore()
	bucket := newMemBucket()
	svc := NewLessonPlanService(&stubComposer{}, stubRenderer{}, store, bucket, nil)

	plan, err := svc.Generate(context.Background(), planRequest(), "")
	if err != nil {
		t.Fatal(err)
	}
	pdf, name, err := svc.Download(context.Background(), plan.ID)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if !strings.HasPrefix(string(pdf), "%PDF") {
		t.Fatalf("not a pdf: %q", pdf)
	}
	if name != "lesson_plan_Intro_to_Databases_plan-000.pdf" {
		t.Fatalf("file name: %q", name)
	}
	keys := bucket.keys()
	if len(keys) != 1 || keys[0] != "lesson-plans/"+plan.ID+"/"+name {
		t.Fatalf("archive keys: %v", keys)
	}

	if _, _, err := svc.Download(context.Background(), "missing"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	png, err := svc.Preview(context.Background(), plan.ID)
	if err != nil || !strings.HasPrefix(string(png), "\x89PNG") {
		t.Fatalf("Preview: %v", err)
	}
}

func TestPlanFileName(t *testing.T) {
	cases := []struct{ subject, id, want string }{
		{"Intro to Databases", "0123456789abcdef", "lesson_plan_Intro_to_Databases_01234567.pdf"},
		{"C++ / Systems", "abc", "lesson_plan_C_____Systems_abc.pdf"},
		{"", "0123456789", "lesson_plan_document_01234567.pdf"},
	}
	for _, tc := range cases {
		if got := PlanFileName(tc.subject, tc.id); got != tc.want {
			t.Errorf("PlanFileName(%q): got %q want %q", tc.subject, got, tc.want)
		}
	}
}
