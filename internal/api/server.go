package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kalambet/skillagent/internal/chat"
	"github.com/kalambet/skillagent/internal/metrics"
	"github.com/kalambet/skillagent/internal/oauth"
	"github.com/kalambet/skillagent/internal/pipeline"
	"github.com/kalambet/skillagent/internal/profile"
	"github.com/kalambet/skillagent/internal/roadmap"
	"github.com/kalambet/skillagent/internal/storage"
)

// InteractionStore lists and clears logged model exchanges.
// Implemented by storage.Store.
type InteractionStore interface {
	GetRecentInteractions(limit int) ([]storage.Interaction, error)
	DeleteInteractions() (int64, error)
}

// Deps holds everything the HTTP API serves from.
type Deps struct {
	Profiles     *profile.Manager
	Templates    *roadmap.TemplateStore
	Assembler    *roadmap.Assembler
	Enricher     *pipeline.Enricher
	Resolver     pipeline.ResourceResolver
	Agent        *chat.Agent
	Interactions InteractionStore
	GitHub       *oauth.GitHub
	States       *oauth.StateStore
	Metrics      metrics.MetricsCollector

	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler

	Token      string
	CORSOrigin string
	Logger     *slog.Logger
}

// NewHandler returns the daemon's HTTP API.
func NewHandler(deps Deps) http.Handler {
	if deps.Metrics == nil {
		deps.Metrics = metrics.Nop{}
	}
	if deps.States == nil {
		deps.States = oauth.NewStateStore()
	}

	r := chi.NewRouter()
	r.Use(Recovery)
	r.Use(RequestLogger(deps.Logger))
	r.Use(CORS(deps.CORSOrigin))

	r.Get("/health", handleHealth(deps))
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// The browser reaches these without the daemon token.
	r.Post("/api/github-oauth", handleGitHubExchange(deps))
	r.Get("/auth/github/login", handleGitHubLogin(deps))
	r.Get("/auth/callback", handleGitHubCallback(deps))

	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(deps.Token))

		r.Get("/api/profile", handleGetProfile(deps))
		r.Put("/api/profile", handlePutProfile(deps))
		r.Delete("/api/profile", handleResetProfile(deps))
		r.Get("/api/tracks", handleTracks(deps))

		r.Route("/api/roadmap", func(r chi.Router) {
			r.Get("/", handleRoadmap(deps))
			r.Get("/completed", handleGetCompleted(deps))
			r.Post("/completed", handleMarkCompleted(deps))
		})

		r.Get("/api/resources", handleResources(deps))
		r.Get("/api/insights", handleInsights(deps))
		r.Get("/api/trending-skills", handleTrendingSkills)

		r.Get("/api/assessment/{skill}", handleAssessmentQuestions)
		r.Post("/api/assessment/{skill}", handleAssessmentScore)

		r.Route("/api/chat", func(r chi.Router) {
			r.Post("/", handleChat(deps))
			r.Delete("/history", handleClearHistory(deps))
			r.Post("/roadmap", handleRoadmapAdvice(deps))
			r.Post("/analysis", handleAnalysis(deps))
		})

		r.Get("/api/interactions", handleListInteractions(deps))
		r.Delete("/api/interactions", handleDeleteInteractions(deps))
	})

	return r
}

// handleHealth reports liveness and whether chat replies come from the
// language model ("online") or the canned offline set.
func handleHealth(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mentor := "offline"
		if deps.Agent != nil && deps.Agent.Online() {
			mentor = "online"
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "mentor": mentor})
	}
}
