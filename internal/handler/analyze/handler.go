package analyze

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/echomind/echomind/internal/analysis/emotion"
	"github.com/echomind/echomind/internal/model/chat"
	"github.com/echomind/echomind/pkg/utils"
)

// Analyzer scores the emotions of a journal entry.
type Analyzer interface {
	Analyze(ctx context.Context, text string) []emotion.Score
}

// Handler serves POST /analyze.
type Handler struct {
	analyzer Analyzer
}

// New creates the analysis handler. A nil analyzer falls back to the keyword heuristic.
func New(analyzer Analyzer) *Handler {
	return &Handler{analyzer: analyzer}
}

// RegisterRoutes mounts the analysis route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/analyze", h.handleAnalyze)
}

func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	text, err := utils.DecodeEntry(w, r)
	if err != nil {
		utils.RespondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	var scores []emotion.Score
	if h.analyzer != nil {
		scores = h.analyzer.Analyze(r.Context(), text)
	} else {
		scores = emotion.Analyze(text, emotion.DefaultTopK)
	}

	utils.RespondJSON(w, http.StatusOK, chat.AnalysisReply{
		UserText: text,
		Analysis: scores,
	})
}
