package chat

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/echomind/echomind/internal/analysis/emotion"
	"github.com/echomind/echomind/internal/model/chat"
	"github.com/echomind/echomind/pkg/utils"
)

// Responder produces the assistant reply for a journal entry.
type Responder interface {
	Respond(ctx context.Context, entry string, mood []emotion.Score) (string, error)
}

// MoodReader estimates the emotions of a journal entry.
type MoodReader interface {
	Analyze(ctx context.Context, text string) []emotion.Score
}

// Handler serves POST /chat.
type Handler struct {
	responder Responder
	mood      MoodReader
}

// New creates the chat handler. responder may be nil, in which case /chat answers 503;
// mood may be nil, in which case replies are generated without an emotional read.
func New(responder Responder, mood MoodReader) *Handler {
	return &Handler{
		responder: responder,
		mood:      mood,
	}
}

// RegisterRoutes mounts the chat route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	text, err := utils.DecodeEntry(w, r)
	if err != nil {
		utils.RespondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if h.responder == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "chat model unavailable")
		return
	}

	var mood []emotion.Score
	if h.mood != nil {
		mood = h.mood.Analyze(r.Context(), text)
	}

	reply, err := h.responder.Respond(r.Context(), text, mood)
	if err != nil {
		log.Error().Err(err).Str("request_id", middleware.GetReqID(r.Context())).Msg("chat reply failed")
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, chat.ChatReply{
		UserText:   text,
		AIResponse: reply,
	})
}
