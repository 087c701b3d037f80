package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/kalambet/skillagent/internal/oauth"
	"github.com/kalambet/skillagent/internal/profile"
)

type exchangeRequest struct {
	Code string `json:"code"`
}

// handleGitHubExchange proxies the OAuth code exchange for the browser
// client. Its error body is {"error": "..."}, not the API error shape.
func handleGitHubExchange(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req exchangeRequest
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		// A body that does not decode is answered the same as one without a
		// code; only the log tells them apart.
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			slog.Debug("github exchange: malformed request body", "error", err)
		}
		if req.Code == "" {
			deps.Metrics.RecordOAuthExchange("missing_code")
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": oauth.ErrMissingCode.Error()})
			return
		}

		body, err := deps.GitHub.Exchange(r.Context(), req.Code)
		if err != nil {
			slog.Warn("github code exchange failed", "error", err)
			deps.Metrics.RecordOAuthExchange("error")
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		deps.Metrics.RecordOAuthExchange("ok")
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
	}
}

func handleGitHubLogin(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !deps.GitHub.Configured() {
			httpError(w, http.StatusServiceUnavailable, "api_error", "GitHub login is not configured (set github.client_id)")
			return
		}
		state, err := deps.States.Issue()
		if err != nil {
			slog.Error("failed to generate oauth state", "error", err)
			httpError(w, http.StatusInternalServerError, "api_error", "failed to start login")
			return
		}
		http.Redirect(w, r, deps.GitHub.AuthorizeURL(state), http.StatusFound)
	}
}

// handleGitHubCallback finishes the login: it checks state, exchanges the
// code, fetches the GitHub user and stores the resulting profile.
func handleGitHubCallback(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if !deps.States.Consume(q.Get("state")) {
			slog.Warn("oauth state mismatch")
			http.Error(w, "Invalid state parameter. Please try again.", http.StatusBadRequest)
			return
		}
		code := q.Get("code")
		if code == "" {
			deps.Metrics.RecordOAuthExchange("missing_code")
			http.Error(w, "No authorization code received from GitHub.", http.StatusBadRequest)
			return
		}

		token, err := deps.GitHub.AccessToken(r.Context(), code)
		if err != nil {
			slog.Warn("github token exchange failed", "error", err)
			deps.Metrics.RecordOAuthExchange("error")
			http.Error(w, "Failed to authenticate with GitHub: "+err.Error(), http.StatusBadGateway)
			return
		}
		user, err := deps.GitHub.FetchUser(r.Context(), token)
		if err != nil {
			slog.Warn("github user fetch failed", "error", err)
			deps.Metrics.RecordOAuthExchange("error")
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		deps.Metrics.RecordOAuthExchange("ok")

		p := loginProfile(deps.Profiles, user)
		if err := deps.Profiles.Save(p); err != nil {
			slog.Error("saving github profile", "error", err)
			http.Error(w, "Failed to save profile.", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintf(w, "Signed in to SkillAgent as %s. You can close this window.\n", user.Login)
	}
}

// loginProfile returns the profile to store for user. Onboarding answers
// of a returning user with the same GitHub account are kept.
func loginProfile(profiles *profile.Manager, user oauth.User) profile.UserProfile {
	fresh := oauth.ProfileFromUser(user)
	existing, err := profiles.Get()
	if err != nil {
		if !errors.Is(err, profile.ErrNoProfile) {
			slog.Warn("loading profile before github login", "error", err)
		}
		return fresh
	}
	if existing.GitHubID != user.ID {
		return fresh
	}
	existing.Name = fresh.Name
	existing.Email = fresh.Email
	existing.GitHubUsername = fresh.GitHubUsername
	existing.Avatar = fresh.Avatar
	return existing
}
