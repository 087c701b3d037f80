package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Well-known local store keys shared with the browser client.
const (
	KeyUserProfile    = "user_profile"
	KeyCompletedSteps = "completed_steps"
)

// Interaction is one logged exchange with the language model.
type Interaction struct {
	ID          string
	CreatedAt   time.Time
	Kind        string // "chat", "roadmap_advice", "profile_analysis"
	UserMessage string
	Prompt      string
	Model       string
	Response    string
	ReplyType   string
	Status      string // "completed", "fallback"
}
