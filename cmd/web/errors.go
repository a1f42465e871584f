package main

import (
	"errors"
	"net/http"

	"github.com/AdamBeresnev/matchday/internal/httputil"
	"github.com/AdamBeresnev/matchday/internal/ledger"
	"github.com/AdamBeresnev/matchday/internal/service"
)

var (
	notFoundErrors = []error{
		service.ErrMatchNotFound,
		service.ErrPhaseNotFound,
		service.ErrGroupNotFound,
		service.ErrTeamNotFound,
		ledger.ErrMatchNotFound,
	}
	conflictErrors = []error{
		service.ErrTeamsLocked,
		service.ErrTeamAlreadyGrouped,
		service.ErrNotGroupPhase,
		ledger.ErrMatchFinalized,
		ledger.ErrAbsentPlayer,
		ledger.ErrCannotEditAbsentPlayerEvent,
		ledger.ErrStaleMatch,
	}
	badRequestErrors = []error{
		httputil.ErrInvalidBody,
		service.ErrInsufficientTeams,
		service.ErrDuplicateTeams,
		service.ErrMissingRequiredField,
		service.ErrUnknownRound,
		service.ErrInvalidTeam,
		service.ErrLiveTrackingField,
		service.ErrInvalidPhaseKind,
		ledger.ErrPlayerNotInMatch,
		ledger.ErrEventIndexOutOfRange,
		ledger.ErrInvalidJerseyNumber,
		ledger.ErrInvalidMinute,
		ledger.ErrInvalidCardKind,
	}
)

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// writeError maps domain errors to a status. Anything unrecognized, including
// malformed records, is a server error.
func writeError(w http.ResponseWriter, msg string, err error) {
	switch {
	case isAny(err, notFoundErrors):
		httputil.NotFound(w, err.Error(), err)
	case isAny(err, conflictErrors):
		httputil.Conflict(w, err.Error(), err)
	case isAny(err, badRequestErrors):
		httputil.BadRequest(w, err.Error(), err)
	default:
		httputil.InternalServerError(w, msg, err)
	}
}
