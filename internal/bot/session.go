// internal/bot/session.go
package bot

import (
	"time"

	"nutrition-bot/internal/models"
)

// Phase names the conversation state the next incoming update is
// handled in.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseSetup      Phase = "setup"
	PhaseClarifying Phase = "clarifying"
	PhaseRefining   Phase = "refining"
)

// SetupStep is the profile question currently awaiting an answer.
type SetupStep int

const (
	StepAge SetupStep = iota
	StepWeight
	StepHeight
	StepSex
	StepActivity
)

// Session holds the in-memory conversation state for the authorized
// user. It is not persisted: a restart drops the conversation back to
// idle while the profile and meals survive in the database.
type Session struct {
	Phase Phase

	// Setup questionnaire.
	Step  SetupStep
	Draft models.Profile

	// Clarification loop. PendingRaw holds the raw low-confidence
	// analysis that has not been written to storage yet; the next
	// adjustment builds on it. Rounds counts how many times the user
	// has been asked about this meal.
	PendingRaw string
	Rounds     int

	// Refinement window for the last committed meal. RefineRaw is the
	// raw analysis the next refining photo builds on.
	MealID       int64
	RefineRaw    string
	LastActivity time.Time
}
