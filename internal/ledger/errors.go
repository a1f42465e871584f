package ledger

import "errors"

// State errors: the match or attendance does not allow the operation.
var (
	ErrMatchFinalized              = errors.New("match is finalized")
	ErrAbsentPlayer                = errors.New("player is not marked as present")
	ErrCannotEditAbsentPlayerEvent = errors.New("cannot remove an event of a player who is no longer present")
)

var (
	ErrPlayerNotInMatch     = errors.New("player does not belong to either team")
	ErrEventIndexOutOfRange = errors.New("event index out of range")
	ErrInvalidJerseyNumber  = errors.New("jersey number must be between 0 and 999")
	ErrInvalidMinute        = errors.New("minute cannot be negative")
	ErrInvalidCardKind      = errors.New("unknown card kind")
	ErrMatchNotFound        = errors.New("match not found")
	ErrScoreMismatch        = errors.New("stored score does not match the goal events")
	ErrStaleMatch           = errors.New("match changed since the ledger was loaded")
)
