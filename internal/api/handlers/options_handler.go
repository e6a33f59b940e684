package handlers

import (
	"net/http"

	"github.com/markdave123-py/Lessona/internal/models"
)

type OptionsHandler struct{}

func NewOptionsHandler() *OptionsHandler { return &OptionsHandler{} }

// Banner answers GET /api/.
func (h *OptionsHandler) Banner(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Lesson Plan Generator API"})
}

func (h *OptionsHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Options returns the closed option sets verbatim, in presentation order.
func (h *OptionsHandler) Options(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.AllOptions())
}
