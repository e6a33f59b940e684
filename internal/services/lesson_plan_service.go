package services

import (
	"context"
	"fmt"

	"github.com/markdave123-py/Lessona/internal/core"
	"github.com/markdave123-py/Lessona/internal/models"
	apperrors "github.com/markdave123-py/Lessona/internal/pkg/errors"
	"github.com/markdave123-py/Lessona/internal/pkg/logger"
)

type LessonPlanService struct {
	composer core.LessonComposer
	renderer core.DocumentRenderer
	db       core.DbClient
	storage  core.ObjectClient
	log      *logger.Logger
}

func NewLessonPlanService(composer core.LessonComposer, renderer core.DocumentRenderer, db core.DbClient, storage core.ObjectClient, log *logger.Logger) *LessonPlanService {
	if log == nil {
		log = logger.Nop()
	}
	return &LessonPlanService{composer: composer, renderer: renderer, db: db, storage: storage, log: log}
}

// Generate composes and stores a plan. When topicMapID is set, subject,
// topic and focus must come from that map.
func (s *LessonPlanService) Generate(ctx context.Context, req models.LessonPlanRequest, topicMapID string) (*models.LessonPlan, error) {
	req = req.Normalized()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if topicMapID != "" {
		m, err := s.db.GetTopicMap(ctx, topicMapID)
		if err != nil {
			return nil, err
		}
		if err := checkMembership(m, req); err != nil {
			return nil, err
		}
	}

	plan, err := s.composer.Compose(ctx, req)
	if err != nil {
		return nil, err
	}
	if _, err := s.db.SaveLessonPlan(ctx, plan); err != nil {
		return nil, fmt.Errorf("store lesson plan: %w", err)
	}
	return plan, nil
}

func checkMembership(m *models.TopicMap, req models.LessonPlanRequest) error {
	if len(m.Subjects) > 0 && !contains(m.Subjects, req.SubjectName) {
		return apperrors.InvalidField("subject_name", fmt.Sprintf("%q is not a subject of this outline", req.SubjectName))
	}
	if !m.HasTopic(req.Topic) {
		return apperrors.InvalidField("lecture_topic", fmt.Sprintf("%q is not a topic of this outline", req.Topic))
	}
	if req.HasFocus() && !m.HasFocus(req.Topic, req.FocusTopic) {
		return apperrors.InvalidField("focus_topic", fmt.Sprintf("%q is not a focus topic of %q", req.FocusTopic, req.Topic))
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func (s *LessonPlanService) Get(ctx context.Context, id string) (*models.LessonPlan, error) {
	return s.db.GetLessonPlan(ctx, id)
}

func (s *LessonPlanService) List(ctx context.Context, limit int) ([]models.LessonPlan, error) {
	return s.db.ListLessonPlans(ctx, limit)
}

// Download renders the stored plan to PDF and returns it with its file name.
// A copy goes to the archive bucket; archive errors are only logged.
func (s *LessonPlanService) Download(ctx context.Context, id string) ([]byte, string, error) {
	plan, err := s.db.GetLessonPlan(ctx, id)
	if err != nil {
		return nil, "", err
	}
	pdf, err := s.renderer.Render(plan)
	if err != nil {
		return nil, "", err
	}
	name := PlanFileName(plan.Request.SubjectName, plan.ID)

	if s.storage != nil {
		if url, err := s.storage.UploadFile(ctx, planKey(plan.ID, name), pdf, "application/pdf"); err != nil {
			s.log.Warn("lesson plan archive failed", "plan_id", plan.ID, "error", err)
		} else if url != "" {
			s.log.Debug("lesson plan archived", "plan_id", plan.ID, "url", url)
		}
	}
	return pdf, name, nil
}

func (s *LessonPlanService) Preview(ctx context.Context, id string) ([]byte, error) {
	plan, err := s.db.GetLessonPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.renderer.RenderPreview(plan)
}
