package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestAuthorizeURL(t *testing.T) {
	g := NewGitHub(Config{ClientID: "cid", RedirectURL: "http://localhost:4000/auth/callback"})
	raw := g.AuthorizeURL("st4te")

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := u.Scheme + "://" + u.Host + u.Path; got != defaultAuthorizeURL {
		t.Errorf("base = %q, want %q", got, defaultAuthorizeURL)
	}
	q := u.Query()
	want := map[string]string{
		"client_id":    "cid",
		"scope":        "user:email",
		"state":        "st4te",
		"redirect_uri": "http://localhost:4000/auth/callback",
	}
	for k, v := range want {
		if q.Get(k) != v {
			t.Errorf("%s = %q, want %q", k, q.Get(k), v)
		}
	}
}

func TestExchange_PassesBodyThrough(t *testing.T) {
	const upstream = `{"access_token":"gho_abc","token_type":"bearer","scope":"user:email"}`
	var got map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("Accept = %q", r.Header.Get("Accept"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, upstream)
	}))
	defer srv.Close()

	g := NewGitHub(Config{ClientID: "cid", ClientSecret: "secret", TokenURL: srv.URL})
	raw, err := g.Exchange(context.Background(), "the-code")
	if err != nil {
		t.Fatalf("Exchange: %v", err)
	}
	if string(raw) != upstream {
		t.Errorf("body = %s, want %s", raw, upstream)
	}
	if got["client_id"] != "cid" || got["client_secret"] != "secret" || got["code"] != "the-code" {
		t.Errorf("request body = %v", got)
	}
}

func TestExchange_MissingCode(t *testing.T) {
	g := NewGitHub(Config{})
	_, err := g.Exchange(context.Background(), "")
	if !errors.Is(err, ErrMissingCode) {
		t.Fatalf("err = %v, want ErrMissingCode", err)
	}
	if err.Error() != "Missing code" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestExchange_UpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	g := NewGitHub(Config{TokenURL: srv.URL})
	_, err := g.Exchange(context.Background(), "c")
	if err == nil || !strings.Contains(err.Error(), "502") {
		t.Fatalf("err = %v, want status error", err)
	}
}

func TestAccessToken_InBandError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":"bad_verification_code","error_description":"The code passed is incorrect or expired."}`)
	}))
	defer srv.Close()

	g := NewGitHub(Config{TokenURL: srv.URL})
	_, err := g.AccessToken(context.Background(), "stale")
	if err == nil || err.Error() != "The code passed is incorrect or expired." {
		t.Fatalf("err = %v", err)
	}
}

func TestFetchUserAndProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/user" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, `{"id":42,"login":"octocat","name":"","email":"octo@example.com","avatar_url":"https://avatars.example/42"}`)
	}))
	defer srv.Close()

	g := NewGitHub(Config{APIURL: srv.URL + "/"})
	u, err := g.FetchUser(context.Background(), "tok")
	if err != nil {
		t.Fatalf("FetchUser: %v", err)
	}

	p := ProfileFromUser(u)
	if p.Name != "octocat" {
		t.Errorf("Name = %q, want login fallback", p.Name)
	}
	if p.GitHubID != 42 || p.GitHubUsername != "octocat" || p.Email != "octo@example.com" || p.Avatar != "https://avatars.example/42" {
		t.Errorf("profile = %+v", p)
	}
	if p.Skills == nil || p.Interests == nil || len(p.Skills) != 0 {
		t.Errorf("lists should be empty and non-nil: %+v", p)
	}

	if _, err := g.FetchUser(context.Background(), "wrong"); err == nil {
		t.Error("expected error for unauthorized token")
	}
}

func TestStateStore(t *testing.T) {
	s := NewStateStore()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	st, err := s.Issue()
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if st == "" {
		t.Fatal("empty state")
	}
	if s.Consume("other") {
		t.Error("unknown state accepted")
	}
	if !s.Consume(st) {
		t.Error("issued state rejected")
	}
	if s.Consume(st) {
		t.Error("state accepted twice")
	}

	expired, _ := s.Issue()
	now = now.Add(StateTTL + time.Second)
	if s.Consume(expired) {
		t.Error("expired state accepted")
	}
	if s.Consume("") {
		t.Error("empty state accepted")
	}
}

func TestGenerateStateUnique(t *testing.T) {
	a, _ := GenerateState()
	b, _ := GenerateState()
	if a == b {
		t.Error("states should differ")
	}
}
