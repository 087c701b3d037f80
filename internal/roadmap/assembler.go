package roadmap

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/kalambet/skillagent/internal/profile"
	"github.com/kalambet/skillagent/internal/resources"
)

// stepNamespace seeds step IDs so that equal titles get equal IDs across runs.
var stepNamespace = uuid.MustParse("6f1d3c52-8a4e-4b7a-9f3e-2c5d7e9a1b04")

// Step is one entry of a learner's roadmap. Step (the title) is what the
// completed set records; ID is derived from it.
type Step struct {
	ID        string               `json:"id"`
	Step      string               `json:"step"`
	Type      Kind                 `json:"type"`
	Resources []resources.Resource `json:"resources"`
}

// StepID returns the stable identifier for the first step with a given
// title. Repeats of a title within one roadmap get occurrenceID instead.
func StepID(title string) string {
	return uuid.NewSHA1(stepNamespace, []byte(title)).String()
}

// occurrenceID identifies the n-th (zero-based) step carrying title.
func occurrenceID(title string, n int) string {
	if n == 0 {
		return StepID(title)
	}
	return uuid.NewSHA1(stepNamespace, []byte(fmt.Sprintf("%s#%d", title, n))).String()
}

func newStep(title string, kind Kind) Step {
	return Step{
		ID:        StepID(title),
		Step:      title,
		Type:      kind,
		Resources: []resources.Resource{},
	}
}

// Assembler builds roadmaps from a template store.
type Assembler struct {
	templates *TemplateStore
}

func NewAssembler(templates *TemplateStore) *Assembler {
	return &Assembler{templates: templates}
}

// Assemble builds the roadmap for a profile:
//
//  1. the track's base template (empty for an unknown track);
//  2. an "Advanced <skill>" course prepended for every skill that no base
//     title mentions (case-insensitive), which leaves those steps in reverse
//     skill order ahead of the base;
//  3. an "Explore <interest> in <track>" project appended per interest.
//
// No other de-duplication happens. Repeated titles stay, each with its own
// ID; the first occurrence keeps StepID(title).
func (a *Assembler) Assemble(p profile.UserProfile) []Step {
	base, _ := a.templates.Lookup(p.Track)

	lowered := make([]string, len(base))
	for i, b := range base {
		lowered[i] = strings.ToLower(b.Step)
	}

	var skillSteps []Step
	for _, skill := range p.Skills {
		key := strings.ToLower(strings.TrimSpace(skill))
		covered := false
		for _, title := range lowered {
			if strings.Contains(title, key) {
				covered = true
				break
			}
		}
		if !covered {
			skillSteps = append([]Step{newStep("Advanced "+skill, KindCourse)}, skillSteps...)
		}
	}

	steps := make([]Step, 0, len(skillSteps)+len(base)+len(p.Interests))
	steps = append(steps, skillSteps...)
	for _, b := range base {
		steps = append(steps, newStep(b.Step, b.Type))
	}
	for _, interest := range p.Interests {
		steps = append(steps, newStep("Explore "+interest+" in "+p.Track, KindProject))
	}

	seen := make(map[string]int, len(steps))
	for i := range steps {
		title := steps[i].Step
		steps[i].ID = occurrenceID(title, seen[title])
		seen[title]++
	}
	return steps
}

// Titles returns the step titles in order.
func Titles(steps []Step) []string {
	out := make([]string, len(steps))
	for i, s := range steps {
		out[i] = s.Step
	}
	return out
}
