// Package oauth implements the GitHub OAuth code exchange and the login
// flow that turns a GitHub account into a learner profile.
package oauth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kalambet/skillagent/internal/profile"
)

const (
	defaultAuthorizeURL = "https://github.com/login/oauth/authorize"
	defaultTokenURL     = "https://github.com/login/oauth/access_token"
	defaultAPIURL       = "https://api.github.com"
	loginScope          = "user:email"
)

// ErrMissingCode is returned by Exchange for an empty authorization code.
var ErrMissingCode = errors.New("Missing code")

// Config configures the GitHub OAuth app.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// Overridable for tests.
	AuthorizeURL string
	TokenURL     string
	APIURL       string
}

// GitHub talks to GitHub's OAuth and user endpoints.
type GitHub struct {
	config     Config
	httpClient *http.Client
}

// NewGitHub creates a GitHub client, filling unset endpoints with GitHub's
// public URLs.
func NewGitHub(config Config) *GitHub {
	if config.AuthorizeURL == "" {
		config.AuthorizeURL = defaultAuthorizeURL
	}
	if config.TokenURL == "" {
		config.TokenURL = defaultTokenURL
	}
	if config.APIURL == "" {
		config.APIURL = defaultAPIURL
	}
	config.APIURL = strings.TrimRight(config.APIURL, "/")
	return &GitHub{
		config:     config,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Configured reports whether a client ID is set.
func (g *GitHub) Configured() bool { return g.config.ClientID != "" }

// AuthorizeURL returns the GitHub consent page URL for state.
func (g *GitHub) AuthorizeURL(state string) string {
	params := url.Values{
		"client_id": {g.config.ClientID},
		"scope":     {loginScope},
		"state":     {state},
	}
	if g.config.RedirectURL != "" {
		params.Set("redirect_uri", g.config.RedirectURL)
	}
	return g.config.AuthorizeURL + "?" + params.Encode()
}

// Exchange trades an authorization code for GitHub's token response, which
// is returned unparsed. GitHub reports a bad code with a 200 and an
// "error" field, so a nil error does not mean a token was issued.
func (g *GitHub) Exchange(ctx context.Context, code string) (json.RawMessage, error) {
	if code == "" {
		return nil, ErrMissingCode
	}

	payload, err := json.Marshal(map[string]string{
		"client_id":     g.config.ClientID,
		"client_secret": g.config.ClientSecret,
		"code":          code,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.config.TokenURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading token response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("Request failed with status code %d", resp.StatusCode)
	}
	if !json.Valid(body) {
		return nil, errors.New("token response is not JSON")
	}
	return json.RawMessage(body), nil
}

// TokenResponse is the decoded token exchange result.
type TokenResponse struct {
	AccessToken      string `json:"access_token"`
	TokenType        string `json:"token_type"`
	Scope            string `json:"scope"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// AccessToken exchanges code and returns the access token, turning an
// in-band GitHub error into a Go error.
func (g *GitHub) AccessToken(ctx context.Context, code string) (string, error) {
	raw, err := g.Exchange(ctx, code)
	if err != nil {
		return "", err
	}
	var tr TokenResponse
	if err := json.Unmarshal(raw, &tr); err != nil {
		return "", fmt.Errorf("parsing token response: %w", err)
	}
	if tr.Error != "" {
		if tr.ErrorDescription != "" {
			return "", errors.New(tr.ErrorDescription)
		}
		return "", errors.New(tr.Error)
	}
	if tr.AccessToken == "" {
		return "", errors.New("empty access token in response")
	}
	return tr.AccessToken, nil
}

// User is the subset of GitHub's /user response the profile needs.
type User struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

// FetchUser returns the authenticated user for accessToken.
func (g *GitHub) FetchUser(ctx context.Context, accessToken string) (User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.config.APIURL+"/user", nil)
	if err != nil {
		return User{}, fmt.Errorf("creating user request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return User{}, fmt.Errorf("user request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return User{}, fmt.Errorf("reading user response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return User{}, errors.New("Failed to fetch user data from GitHub")
	}

	var u User
	if err := json.Unmarshal(body, &u); err != nil {
		return User{}, fmt.Errorf("parsing user response: %w", err)
	}
	if u.Login == "" {
		return User{}, errors.New("empty login in user response")
	}
	return u, nil
}

// ProfileFromUser builds a fresh learner profile for a GitHub account.
// Skills and interests start empty; onboarding fills them in.
func ProfileFromUser(u User) profile.UserProfile {
	name := u.Name
	if name == "" {
		name = u.Login
	}
	return profile.UserProfile{
		Name:           name,
		Email:          u.Email,
		GitHubUsername: u.Login,
		Avatar:         u.AvatarURL,
		GitHubID:       u.ID,
		Skills:         []string{},
		Interests:      []string{},
	}
}
