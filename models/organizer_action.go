package models

import "time"

// OrganizerDecision is the action recorded for an approval decision.
type OrganizerDecision string

const (
	DecisionApproved OrganizerDecision = "approved"
	DecisionDenied   OrganizerDecision = "denied"
)

func (d OrganizerDecision) Valid() bool {
	return d == DecisionApproved || d == DecisionDenied
}

// OrganizerAction is the audit record of an approval decision. One row per
// (tournament_id, participant_id); repeated decisions overwrite it.
type OrganizerAction struct {
	TournamentID  string            `json:"tournament_id" db:"tournament_id"`
	ParticipantID string            `json:"participant_id" db:"participant_id"`
	Action        OrganizerDecision `json:"action" db:"action"`
	Notes         string            `json:"notes" db:"notes"`
	CreatedAt     time.Time         `json:"created_at" db:"created_at"`
}
