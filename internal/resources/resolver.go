package resources

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kalambet/skillagent/internal/metrics"
)

// ErrEmptyTopic is returned by Resolve for a blank topic.
var ErrEmptyTopic = errors.New("topic is required")

// FetchError is the ResourceSet.Error value when any category failed.
const FetchError = "Failed to fetch resources"

// DefaultSkillLevel is used when the caller passes none.
const DefaultSkillLevel = "beginner"

// Source produces the resources of a single category.
type Source interface {
	Category() Category
	Search(ctx context.Context, topic, level string) ([]Resource, error)
}

// Resolver fans a topic out to one Source per category. Categories are
// isolated: a failing source leaves its own list empty, sets the set's
// Error flag, and does not affect the other categories.
type Resolver struct {
	sources []Source
	metrics metrics.MetricsCollector
	now     func() time.Time
}

// NewResolver creates a Resolver over the given sources.
func NewResolver(m metrics.MetricsCollector, sources ...Source) *Resolver {
	if m == nil {
		m = metrics.Nop{}
	}
	return &Resolver{sources: sources, metrics: m, now: time.Now}
}

// NewDefaultResolver wires the YouTube tutorial source and the five link
// directories.
func NewDefaultResolver(youtube *YouTubeSource, m metrics.MetricsCollector) *Resolver {
	return NewResolver(m,
		youtube,
		NewCourseSource(),
		NewPracticeSource(),
		NewProjectSource(),
		NewJobSource(),
		NewInternshipSource(),
	)
}

// Resolve gathers every category for topic concurrently. The only error
// is ErrEmptyTopic; source failures are reported through the set.
func (r *Resolver) Resolve(ctx context.Context, topic, level string) (ResourceSet, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return ResourceSet{}, ErrEmptyTopic
	}
	level = strings.TrimSpace(level)
	if level == "" {
		level = DefaultSkillLevel
	}

	results := make([][]Resource, len(r.sources))
	errs := make([]error, len(r.sources))

	// Plain Group: a failing category must not cancel its siblings.
	var g errgroup.Group
	for i, src := range r.sources {
		g.Go(func() error {
			results[i], errs[i] = src.Search(ctx, topic, level)
			return nil
		})
	}
	_ = g.Wait()

	set := ResourceSet{
		Topic:      topic,
		SkillLevel: level,
		Timestamp:  r.now().UTC().Format(time.RFC3339),
		Resources:  emptyCategories(),
	}
	for i, src := range r.sources {
		if errs[i] != nil {
			slog.Warn("resource category failed", "category", src.Category(), "topic", topic, "error", errs[i])
			r.metrics.RecordCategoryFailure(string(src.Category()))
			set.Error = FetchError
			continue
		}
		set.Resources.set(src.Category(), results[i])
	}
	return set, nil
}
