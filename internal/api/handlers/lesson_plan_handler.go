package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/markdave123-py/Lessona/internal/models"
	apperrors "github.com/markdave123-py/Lessona/internal/pkg/errors"
	"github.com/markdave123-py/Lessona/internal/pkg/logger"
)

type LessonPlanService interface {
	Generate(ctx context.Context, req models.LessonPlanRequest, topicMapID string) (*models.LessonPlan, error)
	Get(ctx context.Context, id string) (*models.LessonPlan, error)
	List(ctx context.Context, limit int) ([]models.LessonPlan, error)
	Download(ctx context.Context, id string) (pdf []byte, filename string, err error)
	Preview(ctx context.Context, id string) ([]byte, error)
}

type LessonPlanHandler struct {
	svc LessonPlanService
	log *logger.Logger
}

func NewLessonPlanHandler(svc LessonPlanService, log *logger.Logger) *LessonPlanHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &LessonPlanHandler{svc: svc, log: log}
}

// CreateLessonPlanRequest is the body of POST /api/lesson-plans.
// TopicMapID is optional; when set the selection is checked against that map.
type CreateLessonPlanRequest struct {
	models.LessonPlanRequest
	TopicMapID string `json:"topic_map_id,omitempty"`
}

func (h *LessonPlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateLessonPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.log, fmt.Errorf("%w: invalid JSON body: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	plan, err := h.svc.Generate(r.Context(), req.LessonPlanRequest, req.TopicMapID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, plan)
}

func (h *LessonPlanHandler) List(w http.ResponseWriter, r *http.Request) {
	plans, err := h.svc.List(r.Context(), queryLimit(r))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if plans == nil {
		plans = []models.LessonPlan{}
	}
	writeJSON(w, http.StatusOK, plans)
}

func (h *LessonPlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	plan, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (h *LessonPlanHandler) Download(w http.ResponseWriter, r *http.Request) {
	pdf, name, err := h.svc.Download(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	_, _ = w.Write(pdf)
}

func (h *LessonPlanHandler) Preview(w http.ResponseWriter, r *http.Request) {
	png, err := h.svc.Preview(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}
