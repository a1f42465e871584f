package service

import "errors"

// Validation errors are returned before anything is written.
var (
	ErrInsufficientTeams    = errors.New("at least two teams are required")
	ErrDuplicateTeams       = errors.New("a team cannot face itself")
	ErrInvalidTeam          = errors.New("the bye opponent cannot be entered as a team")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrUnknownRound         = errors.New("round is not registered for the phase")
	ErrLiveTrackingField    = errors.New("live tracking fields can only be changed through the match ledger")
	ErrTeamsLocked          = errors.New("teams cannot change once live tracking has started")
	ErrInvalidPhaseKind     = errors.New("invalid phase kind")
	ErrNotGroupPhase        = errors.New("groups are only available in a group stage phase")
	ErrTeamAlreadyGrouped   = errors.New("team already belongs to a group in this phase")
)

var (
	ErrMatchNotFound = errors.New("match not found")
	ErrPhaseNotFound = errors.New("phase not found")
	ErrGroupNotFound = errors.New("group not found")
	ErrTeamNotFound  = errors.New("team not found")
)
