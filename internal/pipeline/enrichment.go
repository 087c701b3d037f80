package pipeline

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kalambet/skillagent/internal/metrics"
	"github.com/kalambet/skillagent/internal/profile"
	"github.com/kalambet/skillagent/internal/resources"
	"github.com/kalambet/skillagent/internal/roadmap"
)

// ResourceResolver looks up resources for one topic.
// Implemented by resources.Resolver.
type ResourceResolver interface {
	Resolve(ctx context.Context, topic, level string) (resources.ResourceSet, error)
}

// Enricher attaches tutorials and courses to roadmap steps.
type Enricher struct {
	assembler *roadmap.Assembler
	resolver  ResourceResolver
	metrics   metrics.MetricsCollector
}

// NewEnricher creates an Enricher. A nil collector disables metrics.
func NewEnricher(assembler *roadmap.Assembler, resolver ResourceResolver, m metrics.MetricsCollector) *Enricher {
	if m == nil {
		m = metrics.Nop{}
	}
	return &Enricher{assembler: assembler, resolver: resolver, metrics: m}
}

// Build assembles the profile's roadmap and enriches it.
func (e *Enricher) Build(ctx context.Context, p profile.UserProfile) []roadmap.Step {
	return e.Enrich(ctx, e.assembler.Assemble(p), p)
}

// Enrich resolves every step concurrently and returns a new slice of the
// same length and order where each step's Resources holds the tutorials
// followed by the courses for its topic. Other categories are dropped. A
// step whose resolution fails keeps an empty list; the rest are unaffected.
func (e *Enricher) Enrich(ctx context.Context, steps []roadmap.Step, p profile.UserProfile) []roadmap.Step {
	start := time.Now()
	level := p.SkillLevel()

	out := make([]roadmap.Step, len(steps))
	failed := make([]bool, len(steps))

	// Plain Group: one failing step must not cancel the others.
	var g errgroup.Group
	for i, step := range steps {
		g.Go(func() error {
			topic := Topic(step.Step)
			enriched := step
			enriched.Resources = []resources.Resource{}

			set, err := e.resolver.Resolve(ctx, topic, level)
			if err != nil {
				slog.Warn("enrichment: resolving step failed", "step", step.Step, "topic", topic, "error", err)
				failed[i] = true
				out[i] = enriched
				return nil
			}

			merged := make([]resources.Resource, 0, len(set.Resources.Tutorials)+len(set.Resources.Courses))
			merged = append(merged, set.Resources.Tutorials...)
			merged = append(merged, set.Resources.Courses...)
			enriched.Resources = merged
			out[i] = enriched
			return nil
		})
	}
	_ = g.Wait()

	nFailed := 0
	for _, f := range failed {
		if f {
			nFailed++
		}
	}
	e.metrics.RecordEnrichment(len(steps), nFailed, time.Since(start))
	slog.Debug("enrichment complete", "steps", len(steps), "failed", nFailed, "duration", time.Since(start))
	return out
}
