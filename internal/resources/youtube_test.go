package resources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const youtubeOK = `{
  "items": [
    {
      "id": {"kind": "youtube#video", "videoId": "abc123"},
      "snippet": {
        "title": "React in 100 Seconds &amp; more",
        "description": "<b>Learn</b> React fast",
        "channelTitle": "Fireship",
        "thumbnails": {"medium": {"url": "https://i.ytimg.com/vi/abc123/mqdefault.jpg"}}
      }
    },
    {
      "id": {"kind": "youtube#playlist", "playlistId": "PL42"},
      "snippet": {"title": "React Course", "description": "", "channelTitle": "freeCodeCamp.org",
        "thumbnails": {"medium": {"url": "https://i.ytimg.com/pl.jpg"}}}
    }
  ]
}`

func TestYouTubeSource_Success(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("path = %s, want /search", r.URL.Path)
		}
		gotQuery = r.URL.RawQuery
		q := r.URL.Query()
		if q.Get("q") != "React tutorial beginner" || q.Get("type") != "video,playlist" || q.Get("maxResults") != "10" || q.Get("key") != "yt-key" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		w.Write([]byte(youtubeOK))
	}))
	defer srv.Close()

	y := NewYouTubeSource(srv.URL, "yt-key", time.Second, nil)
	got, err := y.Search(context.Background(), "React", "beginner")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotQuery == "" {
		t.Fatal("server not called")
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}

	v := got[0]
	if v.URL != "https://www.youtube.com/watch?v=abc123" || v.Type != "video" {
		t.Errorf("video = %+v", v)
	}
	if v.Title != "React in 100 Seconds & more" {
		t.Errorf("title = %q", v.Title)
	}
	if v.Description != "Learn React fast" {
		t.Errorf("description = %q (markup not stripped)", v.Description)
	}
	if v.Channel != "Fireship" || v.Duration != "Varies" || v.SkillLevel != "beginner" {
		t.Errorf("video = %+v", v)
	}

	p := got[1]
	if p.Type != "playlist" || p.URL != "https://www.youtube.com/playlist?list=PL42" {
		t.Errorf("playlist = %+v", p)
	}
}

func assertFallback(t *testing.T, got []Resource, topic, level string) {
	t.Helper()
	if len(got) != 2 {
		t.Fatalf("fallback len = %d, want 2", len(got))
	}
	if got[0].Title != topic+" Tutorial for "+level || got[0].Type != "search" || got[0].Channel != "YouTube Search" {
		t.Errorf("fallback[0] = %+v", got[0])
	}
	if !strings.HasPrefix(got[0].URL, "https://www.youtube.com/results?search_query=") {
		t.Errorf("fallback[0].URL = %q", got[0].URL)
	}
	if got[1].Title != topic+" Full Course" {
		t.Errorf("fallback[1] = %+v", got[1])
	}
}

func TestYouTubeSource_NoKeySkipsCall(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	got, err := NewYouTubeSource(srv.URL, "", time.Second, nil).Search(context.Background(), "Go", "beginner")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if called {
		t.Error("API called without a key")
	}
	assertFallback(t, got, "Go", "beginner")
	if got[0].URL != "https://www.youtube.com/results?search_query=Go%20tutorial%20beginner" {
		t.Errorf("fallback url = %q", got[0].URL)
	}
}

func TestYouTubeSource_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":403}}`, http.StatusForbidden)
	}))
	defer srv.Close()

	got, err := NewYouTubeSource(srv.URL, "bad", time.Second, nil).Search(context.Background(), "Python", "advanced")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertFallback(t, got, "Python", "advanced")
}

func TestYouTubeSource_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	got, _ := NewYouTubeSource(srv.URL, "k", time.Second, nil).Search(context.Background(), "Python", "beginner")
	assertFallback(t, got, "Python", "beginner")
}

func TestYouTubeSource_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	start := time.Now()
	got, _ := NewYouTubeSource(srv.URL, "k", 50*time.Millisecond, nil).Search(context.Background(), "Rust", "beginner")
	if time.Since(start) > time.Second {
		t.Errorf("timeout not applied, took %v", time.Since(start))
	}
	assertFallback(t, got, "Rust", "beginner")
}

func TestYouTubeSource_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	got, _ := NewYouTubeSource(url, "k", time.Second, nil).Search(context.Background(), "SQL", "beginner")
	assertFallback(t, got, "SQL", "beginner")
}
