// internal/catch/types.go
//
// Core type definitions for the catch game engine.
// Defines:
//   - Token, Mode:   what falls and how a configuration item is played.
//   - Phase:         round lifecycle (idle → running → finished).
//   - Event:         per-tick outcomes (hooks for sound effects and UI).
//   - Box, Result:   geometry and the final round record.

package catch

import "errors"

// Token is a single letter or word that must be caught in order.
type Token = string

// Mode selects how a configuration item builds its pool and sequence.
type Mode string

const (
	ModeLetter Mode = "letter"
	ModeWord   Mode = "word"
)

// ParseMode maps a free-form string to a Mode. Anything that is not
// "letter" is played as a word list.
func ParseMode(s string) Mode {
	if Mode(s) == ModeLetter {
		return ModeLetter
	}
	return ModeWord
}

// Phase is the coarse state of a Round.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseRunning  Phase = "running"
	PhaseFinished Phase = "finished"
)

// EventKind classifies an Event.
type EventKind string

const (
	EventStart     EventKind = "start"
	EventCorrect   EventKind = "correct"
	EventIncorrect EventKind = "incorrect"
	EventComplete  EventKind = "complete"
)

// Event is emitted by Start and Tick.
// Points is the score delta: the award for a correct catch, the
// (possibly clipped) deduction as a negative number for an incorrect one.
type Event struct {
	Kind   EventKind `json:"kind"`
	Token  Token     `json:"token,omitempty"`
	Points int       `json:"points,omitempty"`
}

// Direction is a horizontal movement command.
type Direction int

const (
	Left  Direction = -1
	Right Direction = 1
)

// Step selects the movement magnitude.
type Step int

const (
	StepFine   Step = iota // keyboard
	StepCoarse             // tap buttons
)

// Box is an axis-aligned rectangle anchored at its top-left corner.
type Box struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Result is the record kept for a finished round.
type Result struct {
	Score int   `json:"score"`
	Right int   `json:"right"`
	Ms    int64 `json:"ms"`
}

var (
	// ErrNoItems means the selection has no configuration items at all.
	ErrNoItems = errors.New("catch: no items for this selection")
	// ErrEmptySequence means the chosen item yields nothing to collect.
	ErrEmptySequence = errors.New("catch: item has an empty target sequence")
	// ErrNotFinished is returned by Result before the round completes.
	ErrNotFinished = errors.New("catch: round not finished")
)
