package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/kalambet/skillagent/internal/profile"
	"github.com/kalambet/skillagent/internal/roadmap"
)

func handleGetProfile(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := deps.Profiles.Get()
		if errors.Is(err, profile.ErrNoProfile) {
			httpError(w, http.StatusNotFound, "not_found_error", "profile not configured")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to get profile: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

// handlePutProfile replaces the stored profile wholesale.
func handlePutProfile(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p profile.UserProfile
		if !decodeBody(w, r, &p) {
			return
		}
		p = p.Normalize()
		if p.Track != "" && deps.Templates != nil {
			if _, ok := deps.Templates.Lookup(p.Track); !ok {
				slog.Warn("profile track has no roadmap template", "track", p.Track)
			}
		}
		if err := deps.Profiles.Save(p); err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to save profile: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

// handleResetProfile signs the learner out: the profile and the completed
// set are both removed.
func handleResetProfile(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Profiles.Reset(); err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to reset profile: %v", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleTracks(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tracks := []string{}
		if deps.Templates != nil {
			tracks = deps.Templates.Tracks()
		}
		writeJSON(w, http.StatusOK, map[string]any{"tracks": tracks})
	}
}

type roadmapStep struct {
	roadmap.Step
	Completed bool `json:"completed"`
}

type roadmapResponse struct {
	Track     string        `json:"track"`
	Steps     []roadmapStep `json:"steps"`
	Completed []string      `json:"completed"`
	Progress  int           `json:"progress"`
}

func newRoadmapResponse(track string, steps []roadmap.Step, completed []string) roadmapResponse {
	done := make(map[string]bool, len(completed))
	for _, s := range completed {
		done[s] = true
	}
	resp := roadmapResponse{
		Track:     track,
		Steps:     make([]roadmapStep, len(steps)),
		Completed: completed,
		Progress:  profile.Progress(roadmap.Titles(steps), completed),
	}
	for i, s := range steps {
		resp.Steps[i] = roadmapStep{Step: s, Completed: done[s.Step]}
	}
	return resp
}

// handleRoadmap assembles the profile's roadmap, enriches it unless
// ?resources=false, and marks completed steps.
func handleRoadmap(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := deps.Profiles.Get()
		if errors.Is(err, profile.ErrNoProfile) {
			httpError(w, http.StatusNotFound, "not_found_error", "profile not configured")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to get profile: %v", err)
			return
		}

		var steps []roadmap.Step
		if r.URL.Query().Get("resources") == "false" {
			steps = deps.Assembler.Assemble(p)
		} else {
			steps = deps.Enricher.Build(r.Context(), p)
		}

		completed, err := deps.Profiles.CompletedSteps()
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to get completed steps: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, newRoadmapResponse(p.Track, steps, completed))
	}
}

func handleGetCompleted(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		completed, err := deps.Profiles.CompletedSteps()
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to get completed steps: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"completed": completed})
	}
}

type markCompletedRequest struct {
	Step string `json:"step"`
}

func handleMarkCompleted(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req markCompletedRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.Step) == "" {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "step is required")
			return
		}
		added, err := deps.Profiles.MarkCompleted(req.Step)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to mark step completed: %v", err)
			return
		}
		completed, err := deps.Profiles.CompletedSteps()
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to get completed steps: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"added": added, "completed": completed})
	}
}
