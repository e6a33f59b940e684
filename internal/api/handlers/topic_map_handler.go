package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/markdave123-py/Lessona/internal/core/ingestion_engine"
	"github.com/markdave123-py/Lessona/internal/models"
	apperrors "github.com/markdave123-py/Lessona/internal/pkg/errors"
	"github.com/markdave123-py/Lessona/internal/pkg/logger"
)

type TopicMapService interface {
	ProcessOutline(ctx context.Context, name string, data []byte, contentType string) (*models.TopicMap, error)
	Get(ctx context.Context, id string) (*models.TopicMap, error)
	List(ctx context.Context, limit int) ([]models.TopicMap, error)
	Delete(ctx context.Context, id string) error
}

type TopicMapHandler struct {
	svc      TopicMapService
	maxBytes int64
	log      *logger.Logger
}

func NewTopicMapHandler(svc TopicMapService, maxUploadMB int, log *logger.Logger) *TopicMapHandler {
	if maxUploadMB <= 0 {
		maxUploadMB = 20
	}
	if log == nil {
		log = logger.Nop()
	}
	return &TopicMapHandler{svc: svc, maxBytes: int64(maxUploadMB) << 20, log: log}
}

// Upload handles POST /api/topic-maps with a multipart "file" field.
func (h *TopicMapHandler) Upload(w http.ResponseWriter, r *http.Request) {
	tooLarge := func() {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Detail: fmt.Sprintf("upload exceeds %d bytes", h.maxBytes)})
	}
	if r.ContentLength > h.maxBytes {
		tooLarge()
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			tooLarge()
			return
		}
		writeError(w, h.log, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, h.log, fmt.Errorf("%w: missing file field", apperrors.ErrInvalidArgument))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, h.log, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	name := filepath.Base(header.Filename)
	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = ingestion_engine.ContentTypeFor(name)
	}

	m, err := h.svc.ProcessOutline(r.Context(), name, data, contentType)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (h *TopicMapHandler) List(w http.ResponseWriter, r *http.Request) {
	maps, err := h.svc.List(r.Context(), queryLimit(r))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if maps == nil {
		maps = []models.TopicMap{}
	}
	writeJSON(w, http.StatusOK, maps)
}

func (h *TopicMapHandler) Get(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *TopicMapHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
