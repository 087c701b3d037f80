package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	metric:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
					continue metric
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	t.Fatalf("metric %s %v not found", name, labels)
	return 0
}

func TestRecordYouTubeRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordYouTubeRequest("ok")
	c.RecordYouTubeRequest("no_key")
	c.RecordYouTubeRequest("no_key")

	if v := counterValue(t, reg, "skillagent_youtube_requests_total", map[string]string{"outcome": "no_key"}); v != 2 {
		t.Errorf("no_key = %v, want 2", v)
	}
	if v := counterValue(t, reg, "skillagent_youtube_requests_total", map[string]string{"outcome": "ok"}); v != 1 {
		t.Errorf("ok = %v, want 1", v)
	}
}

func TestRecordEnrichment(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordEnrichment(5, 1, 200*time.Millisecond)
	c.RecordEnrichment(3, 0, 100*time.Millisecond)

	if v := counterValue(t, reg, "skillagent_enrichment_steps_total", nil); v != 8 {
		t.Errorf("steps = %v, want 8", v)
	}
	if v := counterValue(t, reg, "skillagent_enrichment_step_failures_total", nil); v != 1 {
		t.Errorf("failures = %v, want 1", v)
	}
}

func TestRecordChatReplyAndOAuth(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordChatReply("skill_assessment", "assessment")
	c.RecordOAuthExchange("error")
	c.RecordCategoryFailure("jobs")

	if v := counterValue(t, reg, "skillagent_chat_replies_total", map[string]string{"type": "skill_assessment"}); v != 1 {
		t.Errorf("chat replies = %v, want 1", v)
	}
	if v := counterValue(t, reg, "skillagent_oauth_exchanges_total", map[string]string{"outcome": "error"}); v != 1 {
		t.Errorf("oauth = %v, want 1", v)
	}
	if v := counterValue(t, reg, "skillagent_resource_category_failures_total", map[string]string{"category": "jobs"}); v != 1 {
		t.Errorf("category failures = %v, want 1", v)
	}
}

func TestHandlerServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordYouTubeRequest("ok")

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "skillagent_youtube_requests_total") {
		t.Errorf("metrics output missing counter:\n%s", body)
	}
}

func TestNopSatisfiesInterface(t *testing.T) {
	var m MetricsCollector = Nop{}
	m.RecordEnrichment(1, 1, time.Second)
}
