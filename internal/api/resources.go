package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/kalambet/skillagent/internal/resources"
	"github.com/kalambet/skillagent/internal/skillclaim"
)

// handleResources resolves all six categories for ?topic. ?level defaults
// to the profile's experience.
func handleResources(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		topic := strings.TrimSpace(r.URL.Query().Get("topic"))
		level := strings.TrimSpace(r.URL.Query().Get("level"))
		if level == "" {
			if p, err := deps.Profiles.Get(); err == nil {
				level = p.SkillLevel()
			}
		}

		set, err := deps.Resolver.Resolve(r.Context(), topic, level)
		if errors.Is(err, resources.ErrEmptyTopic) {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "topic is required")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to resolve resources: %v", err)
			return
		}
		writeJSON(w, http.StatusOK, set)
	}
}

// handleInsights reports job market data for ?track, falling back to the
// profile's track.
func handleInsights(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		track := strings.TrimSpace(r.URL.Query().Get("track"))
		if track == "" {
			if p, err := deps.Profiles.Get(); err == nil {
				track = p.Track
			}
		}
		in, ok := resources.CareerInsights(track)
		writeJSON(w, http.StatusOK, map[string]any{
			"track":     track,
			"available": ok,
			"insights":  in,
		})
	}
}

func handleTrendingSkills(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"skills": resources.TrendingSkills()})
}

func handleAssessmentQuestions(w http.ResponseWriter, r *http.Request) {
	skill := strings.ToLower(chi.URLParam(r, "skill"))
	qs := skillclaim.Questions(skill)
	if len(qs) == 0 {
		httpError(w, http.StatusNotFound, "not_found_error", "no assessment for skill %q", skill)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"skill": skill, "questions": qs})
}

type assessmentRequest struct {
	Answers []int `json:"answers"`
}

func handleAssessmentScore(w http.ResponseWriter, r *http.Request) {
	skill := strings.ToLower(chi.URLParam(r, "skill"))
	qs := skillclaim.Questions(skill)
	if len(qs) == 0 {
		httpError(w, http.StatusNotFound, "not_found_error", "no assessment for skill %q", skill)
		return
	}
	var req assessmentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Answers) != len(qs) {
		httpError(w, http.StatusBadRequest, "invalid_request_error", "expected %d answers, got %d", len(qs), len(req.Answers))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"skill": skill,
		"score": skillclaim.Score(qs, req.Answers),
		"total": len(qs),
	})
}
