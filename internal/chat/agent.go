// Package chat implements the career-mentor conversation: skill-claim
// interception, prompt composition from the learner profile, the language
// model call and its canned fallbacks.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"text/template"
	"time"

	"github.com/google/uuid"

	"github.com/kalambet/skillagent/internal/llm"
	"github.com/kalambet/skillagent/internal/metrics"
	"github.com/kalambet/skillagent/internal/profile"
	"github.com/kalambet/skillagent/internal/skillclaim"
	"github.com/kalambet/skillagent/internal/storage"
)

// Reply types.
const (
	TypeMessage         = "message"
	TypeSkillAssessment = "skill_assessment"
	TypeRoadmap         = "roadmap"
	TypeAnalysis        = "analysis"
)

// historyWindow is how many recent turns are replayed into the prompt.
const historyWindow = 8

// Reply is what a chat turn returns to the client.
type Reply struct {
	Type      string                `json:"type"`
	Content   string                `json:"content"`
	Timestamp string                `json:"timestamp"`
	Skill     string                `json:"skill,omitempty"`
	Questions []skillclaim.Question `json:"questions,omitempty"`
}

// LLM is the completion backend. *llm.Client implements it.
type LLM interface {
	Complete(ctx context.Context, messages []llm.Message) (string, error)
	Model() string
}

// ProfileSource supplies the learner profile for prompt context.
type ProfileSource interface {
	Get() (profile.UserProfile, error)
}

// InteractionStore persists completed model exchanges.
type InteractionStore interface {
	SaveInteraction(i storage.Interaction) error
}

// Deps holds the Agent's collaborators. A nil LLM puts the agent in
// offline mode where every reply is canned. Interactions and Metrics are
// optional.
type Deps struct {
	LLM          LLM
	Profiles     ProfileSource
	Interactions InteractionStore
	Metrics      metrics.MetricsCollector
	Now          func() time.Time
}

type turn struct {
	role    string // "human" or "ai"
	content string
}

// Agent holds one conversation. It is safe for concurrent use.
type Agent struct {
	llm          LLM
	profiles     ProfileSource
	interactions InteractionStore
	metrics      metrics.MetricsCollector
	now          func() time.Time

	mu      sync.Mutex
	history []turn
}

// NewAgent creates an Agent.
func NewAgent(d Deps) *Agent {
	a := &Agent{
		llm:          d.LLM,
		profiles:     d.Profiles,
		interactions: d.Interactions,
		metrics:      d.Metrics,
		now:          d.Now,
	}
	if a.metrics == nil {
		a.metrics = metrics.Nop{}
	}
	if a.now == nil {
		a.now = time.Now
	}
	return a
}

// Online reports whether a language model is configured.
func (a *Agent) Online() bool { return a.llm != nil }

// Chat answers one user message. It never fails: every error path is
// replaced by a canned reply.
func (a *Agent) Chat(ctx context.Context, message string) Reply {
	history := a.record("human", message)

	if claim, ok := skillclaim.Detect(message); ok {
		a.metrics.RecordChatReply(TypeSkillAssessment, "detector")
		return a.skillClaimReply(claim)
	}

	if a.llm == nil {
		a.metrics.RecordChatReply(TypeMessage, "mock")
		return a.reply(TypeMessage, mockResponse(message))
	}

	prompt, err := render(mentorPrompt, mentorInput{
		Profile: a.profileContext(),
		History: formatHistory(history),
		Message: message,
	})
	if err != nil {
		slog.Error("rendering chat prompt", "error", err)
		a.metrics.RecordChatReply(TypeMessage, "fallback")
		return a.reply(TypeMessage, mockApology)
	}

	answer, err := a.llm.Complete(ctx, []llm.Message{{Role: "user", Content: prompt}})
	if err != nil {
		if llm.IsRateLimit(err) {
			slog.Warn("chat rate limited, serving demo reply", "error", err)
			a.metrics.RecordChatReply(TypeMessage, "demo")
			a.save("chat", message, prompt, "", TypeMessage, "fallback")
			return a.reply(TypeMessage, demoResponse(message))
		}
		slog.Error("chat completion failed", "error", err)
		a.metrics.RecordChatReply(TypeMessage, "fallback")
		a.save("chat", message, prompt, "", TypeMessage, "fallback")
		return a.reply(TypeMessage, mockResponse(message))
	}

	a.record("ai", answer)
	a.save("chat", message, prompt, answer, TypeMessage, "completed")
	a.metrics.RecordChatReply(TypeMessage, "llm")
	return a.reply(TypeMessage, answer)
}

// RoadmapAdvice asks the model for a phased learning plan for the stored
// profile. Without a model or profile it returns a generic plan.
func (a *Agent) RoadmapAdvice(ctx context.Context) Reply {
	p, ok := a.storedProfile()
	if a.llm == nil || !ok {
		a.metrics.RecordChatReply(TypeMessage, "mock")
		return a.reply(TypeMessage, mockRoadmap)
	}

	answer, prompt, err := a.completeTemplate(ctx, roadmapPrompt, p.Context())
	if err != nil {
		slog.Error("roadmap advice failed", "error", err)
		a.metrics.RecordChatReply(TypeMessage, "fallback")
		a.save("roadmap_advice", "", prompt, "", TypeMessage, "fallback")
		return a.reply(TypeMessage, mockRoadmap)
	}
	a.save("roadmap_advice", "", prompt, answer, TypeRoadmap, "completed")
	a.metrics.RecordChatReply(TypeRoadmap, "llm")
	return a.reply(TypeRoadmap, answer)
}

// AnalyzeProfile asks the model for a skill-gap analysis of the stored
// profile.
func (a *Agent) AnalyzeProfile(ctx context.Context) Reply {
	p, ok := a.storedProfile()
	if a.llm == nil || !ok {
		a.metrics.RecordChatReply(TypeMessage, "mock")
		return a.reply(TypeMessage, analysisOffline)
	}

	answer, prompt, err := a.completeTemplate(ctx, analysisPrompt, p.Context())
	if err != nil {
		slog.Error("profile analysis failed", "error", err)
		a.metrics.RecordChatReply(TypeMessage, "fallback")
		a.save("profile_analysis", "", prompt, "", TypeMessage, "fallback")
		return a.reply(TypeMessage, analysisFailed)
	}
	a.save("profile_analysis", "", prompt, answer, TypeAnalysis, "completed")
	a.metrics.RecordChatReply(TypeAnalysis, "llm")
	return a.reply(TypeAnalysis, answer)
}

// ClearHistory forgets the conversation so far.
func (a *Agent) ClearHistory() {
	a.mu.Lock()
	a.history = nil
	a.mu.Unlock()
}

// HistoryLen returns the number of recorded turns.
func (a *Agent) HistoryLen() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.history)
}

func (a *Agent) completeTemplate(ctx context.Context, t *template.Template, pc profile.Context) (answer, prompt string, err error) {
	prompt, err = render(t, pc)
	if err != nil {
		return "", "", fmt.Errorf("rendering %s prompt: %w", t.Name(), err)
	}
	answer, err = a.llm.Complete(ctx, []llm.Message{{Role: "user", Content: prompt}})
	if err != nil {
		return "", prompt, err
	}
	return answer, prompt, nil
}

func (a *Agent) skillClaimReply(c skillclaim.SkillClaim) Reply {
	if qs := skillclaim.Questions(c.Skill); len(qs) > 0 {
		r := a.reply(TypeSkillAssessment, fmt.Sprintf(
			"I see you mentioned %s at %d%% proficiency. Let's verify your knowledge with a quick assessment!",
			c.Skill, c.Percentage))
		r.Skill = c.Skill
		r.Questions = qs
		return r
	}
	return a.reply(TypeMessage, fmt.Sprintf(
		"Great that you're confident in %s! I'd love to help you further develop this skill. What specific aspect of %s would you like to work on?",
		c.Skill, c.Skill))
}

// record appends a turn and returns the last historyWindow turns.
func (a *Agent) record(role, content string) []turn {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.history = append(a.history, turn{role: role, content: content})
	start := max(len(a.history)-historyWindow, 0)
	return append([]turn(nil), a.history[start:]...)
}

func formatHistory(turns []turn) string {
	lines := make([]string, len(turns))
	for i, t := range turns {
		lines[i] = t.role + ": " + t.content
	}
	return strings.Join(lines, "\n")
}

func (a *Agent) storedProfile() (profile.UserProfile, bool) {
	if a.profiles == nil {
		return profile.UserProfile{}, false
	}
	p, err := a.profiles.Get()
	if err != nil {
		if !errors.Is(err, profile.ErrNoProfile) {
			slog.Warn("loading profile for chat", "error", err)
		}
		return profile.UserProfile{}, false
	}
	return p, true
}

func (a *Agent) profileContext() profile.Context {
	p, _ := a.storedProfile()
	return p.Context()
}

func (a *Agent) save(kind, message, prompt, response, replyType, status string) {
	if a.interactions == nil {
		return
	}
	model := ""
	if a.llm != nil {
		model = a.llm.Model()
	}
	err := a.interactions.SaveInteraction(storage.Interaction{
		ID:          uuid.NewString(),
		CreatedAt:   a.now(),
		Kind:        kind,
		UserMessage: message,
		Prompt:      prompt,
		Model:       model,
		Response:    response,
		ReplyType:   replyType,
		Status:      status,
	})
	if err != nil {
		slog.Warn("saving interaction", "kind", kind, "error", err)
	}
}

func (a *Agent) reply(typ, content string) Reply {
	return Reply{
		Type:      typ,
		Content:   content,
		Timestamp: a.now().UTC().Format(time.RFC3339),
	}
}
