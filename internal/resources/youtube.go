package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/kalambet/skillagent/internal/metrics"
)

const (
	defaultYouTubeBaseURL = "https://www.googleapis.com/youtube/v3"
	placeholderThumbnail  = "https://via.placeholder.com/320x180"
)

// YouTubeSource finds tutorials through the YouTube Data API search
// endpoint. Any failure, including a missing API key, yields synthesized
// search links instead of an error.
type YouTubeSource struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
	strip      *bluemonday.Policy
	metrics    metrics.MetricsCollector
}

// NewYouTubeSource creates a tutorial source. An empty baseURL selects the
// public API; an empty apiKey disables live calls entirely.
func NewYouTubeSource(baseURL, apiKey string, timeout time.Duration, m metrics.MetricsCollector) *YouTubeSource {
	if baseURL == "" {
		baseURL = defaultYouTubeBaseURL
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if m == nil {
		m = metrics.Nop{}
	}
	return &YouTubeSource{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		timeout:    timeout,
		httpClient: &http.Client{},
		strip:      bluemonday.StrictPolicy(),
		metrics:    m,
	}
}

func (y *YouTubeSource) Category() Category { return Tutorials }

type youtubeSearchResponse struct {
	Items []struct {
		ID struct {
			Kind       string `json:"kind"`
			VideoID    string `json:"videoId"`
			PlaylistID string `json:"playlistId"`
		} `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			Description  string `json:"description"`
			ChannelTitle string `json:"channelTitle"`
			Thumbnails   struct {
				Medium struct {
					URL string `json:"url"`
				} `json:"medium"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

// Search never returns an error.
func (y *YouTubeSource) Search(ctx context.Context, topic, level string) ([]Resource, error) {
	if y.apiKey == "" {
		y.metrics.RecordYouTubeRequest("no_key")
		return youtubeFallback(topic, level), nil
	}

	items, err := y.search(ctx, topic, level)
	if err != nil {
		slog.Warn("youtube search failed, using search links", "topic", topic, "error", err)
		return youtubeFallback(topic, level), nil
	}
	y.metrics.RecordYouTubeRequest("ok")
	return items, nil
}

func (y *YouTubeSource) search(ctx context.Context, topic, level string) ([]Resource, error) {
	ctx, cancel := context.WithTimeout(ctx, y.timeout)
	defer cancel()

	q := url.Values{}
	q.Set("part", "snippet")
	q.Set("q", topic+" tutorial "+level)
	q.Set("type", "video,playlist")
	q.Set("maxResults", "10")
	q.Set("key", y.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, y.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		y.metrics.RecordYouTubeRequest("error")
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := y.httpClient.Do(req)
	if err != nil {
		y.metrics.RecordYouTubeRequest("error")
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		y.metrics.RecordYouTubeRequest("status")
		return nil, fmt.Errorf("youtube returned status %d", resp.StatusCode)
	}

	var body youtubeSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		y.metrics.RecordYouTubeRequest("decode")
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	out := make([]Resource, 0, len(body.Items))
	for _, it := range body.Items {
		kind := "video"
		link := "https://www.youtube.com/watch?v=" + it.ID.VideoID
		if strings.Contains(it.ID.Kind, "playlist") {
			kind = "playlist"
			link = "https://www.youtube.com/playlist?list=" + it.ID.PlaylistID
		}
		out = append(out, Resource{
			Title:       y.plain(it.Snippet.Title),
			Description: y.plain(it.Snippet.Description),
			URL:         link,
			Platform:    "YouTube",
			Thumbnail:   it.Snippet.Thumbnails.Medium.URL,
			Channel:     y.plain(it.Snippet.ChannelTitle),
			Type:        kind,
			Duration:    "Varies",
			SkillLevel:  level,
		})
	}
	return out, nil
}

// plain strips markup from API text and decodes the entities YouTube uses.
func (y *YouTubeSource) plain(s string) string {
	return html.UnescapeString(y.strip.Sanitize(s))
}

func youtubeFallback(topic, level string) []Resource {
	return []Resource{
		{
			Title:       topic + " Tutorial for " + level,
			Description: "Best " + topic + " tutorials for " + level + " level",
			URL:         "https://www.youtube.com/results?search_query=" + escape(topic+" tutorial "+level),
			Platform:    "YouTube",
			Thumbnail:   placeholderThumbnail,
			Channel:     "YouTube Search",
			Type:        "search",
			Duration:    "Varies",
			SkillLevel:  level,
		},
		{
			Title:       topic + " Full Course",
			Description: "Complete " + topic + " course for " + level,
			URL:         "https://www.youtube.com/results?search_query=" + escape(topic+" full course"),
			Platform:    "YouTube",
			Thumbnail:   placeholderThumbnail,
			Channel:     "YouTube Search",
			Type:        "search",
			Duration:    "Varies",
			SkillLevel:  level,
		},
	}
}
