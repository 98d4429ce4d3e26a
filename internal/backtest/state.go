package backtest

import (
	"time"

	"github.com/yourusername/hoopcast/internal/models"
)

// Phase identifies where in the run lifecycle the engine currently is
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseResolving  Phase = "resolving"
	PhaseFetching   Phase = "fetching"
	PhaseScoring    Phase = "scoring"
	PhasePredicting Phase = "predicting"
	PhaseComparing  Phase = "comparing"
	PhaseReporting  Phase = "reporting"
	PhaseDone       Phase = "done"
)

// RunState tracks one backtest pass as it moves through the window: the
// current phase, the game day under evaluation and every matchup settled
// so far. A state belongs to exactly one run and is never reused.
type RunState struct {
	Phase       Phase
	CurrentDate time.Time
	GameDays    int
	Matchups    []models.Matchup
	StartedAt   time.Time
}

// NewRunState creates an idle state for a fresh run
func NewRunState() *RunState {
	return &RunState{
		Phase:     PhaseIdle,
		Matchups:  make([]models.Matchup, 0),
		StartedAt: time.Now().UTC(),
	}
}

// Transition moves the state machine to the given phase
func (s *RunState) Transition(phase Phase) {
	s.Phase = phase
}

// BeginDay marks the given date as the one under evaluation
func (s *RunState) BeginDay(date time.Time) {
	s.CurrentDate = date
	s.GameDays++
}

// RecordMatchup appends a settled matchup to the run
func (s *RunState) RecordMatchup(matchup models.Matchup) {
	s.Matchups = append(s.Matchups, matchup)
}

// MatchupsEvaluated returns the number of matchups settled so far
func (s *RunState) MatchupsEvaluated() int {
	return len(s.Matchups)
}

// Elapsed returns how long the run has been going
func (s *RunState) Elapsed() time.Duration {
	return time.Since(s.StartedAt)
}
