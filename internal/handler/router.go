package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/echomind/echomind/internal/handler/analyze"
	"github.com/echomind/echomind/internal/handler/chat"
	middlewarePkg "github.com/echomind/echomind/internal/middleware"
	"github.com/echomind/echomind/pkg/utils"
)

// Dependencies are the services behind the HTTP routes.
// A nil Responder leaves /chat answering 503. A nil Analyzer leaves /chat
// without a mood read and /analyze on the keyword heuristic.
type Dependencies struct {
	Responder      chat.Responder
	Analyzer       analyze.Analyzer
	AllowedOrigins []string
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(deps.AllowedOrigins))

	r.Get("/", handleRoot)

	chat.New(deps.Responder, deps.Analyzer).RegisterRoutes(r)
	analyze.New(deps.Analyzer).RegisterRoutes(r)

	return r
}

func handleRoot(w http.ResponseWriter, _ *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"message": "Welcome to the EchoMind API.",
	})
}
