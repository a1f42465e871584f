package ledger

import (
	"fmt"
	"slices"

	"github.com/AdamBeresnev/matchday/internal/league"
)

type eventOptions struct {
	minute *int
}

type EventOption func(*eventOptions)

// AtMinute records the minute of the match the event happened in.
func AtMinute(minute int) EventOption {
	return func(o *eventOptions) {
		o.minute = &minute
	}
}

func buildOptions(opts []EventOption) (eventOptions, error) {
	var o eventOptions
	for _, opt := range opts {
		opt(&o)
	}
	if o.minute != nil && *o.minute < 0 {
		return o, ErrInvalidMinute
	}
	return o, nil
}

func (l *Ledger) checkOpen() error {
	if l.match.IsFinished() {
		return ErrMatchFinalized
	}
	return nil
}

func (l *Ledger) checkPlayer(playerID string) error {
	if _, ok := l.teamOf[playerID]; !ok {
		return fmt.Errorf("%w: %s", ErrPlayerNotInMatch, playerID)
	}
	return nil
}

// touch moves a scheduled match into progress after its first live change.
func (l *Ledger) touch() {
	if l.match.Status == league.MatchScheduled {
		l.match.Status = league.MatchInProgress
	}
}

// Start marks a scheduled match as in progress.
func (l *Ledger) Start() error {
	if err := l.checkOpen(); err != nil {
		return err
	}
	l.touch()
	return nil
}

// ToggleAttendance flips the presence of a player and returns the new state.
func (l *Ledger) ToggleAttendance(playerID string) (bool, error) {
	if err := l.checkOpen(); err != nil {
		return false, err
	}
	if err := l.checkPlayer(playerID); err != nil {
		return false, err
	}

	present := false
	if i := slices.Index(l.match.Attendance, playerID); i >= 0 {
		l.match.Attendance = slices.Delete(l.match.Attendance, i, i+1)
		if len(l.match.Attendance) == 0 {
			l.match.Attendance = nil
		}
	} else {
		l.match.Attendance = append(l.match.Attendance, playerID)
		present = true
	}
	l.touch()
	return present, nil
}

// SetJerseyNumber edits a player's number locally. It reaches the shared
// player record on Persist.
func (l *Ledger) SetJerseyNumber(playerID string, number int) error {
	if err := l.checkOpen(); err != nil {
		return err
	}
	return l.setJersey(playerID, &number)
}

func (l *Ledger) ClearJerseyNumber(playerID string) error {
	if err := l.checkOpen(); err != nil {
		return err
	}
	return l.setJersey(playerID, nil)
}

func (l *Ledger) setJersey(playerID string, number *int) error {
	i := slices.IndexFunc(l.roster, func(p league.Player) bool { return p.ID == playerID })
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrPlayerNotInMatch, playerID)
	}
	if number != nil && (*number < 0 || *number > league.MaxJerseyNumber) {
		return ErrInvalidJerseyNumber
	}

	l.roster[i].Number = copyInt(number)
	l.jerseys[playerID] = copyInt(number)
	return nil
}

// RecordGoal appends a goal by a present player and updates the score. An own
// goal credits the other team.
func (l *Ledger) RecordGoal(playerID string, ownGoal bool, opts ...EventOption) error {
	if err := l.checkOpen(); err != nil {
		return err
	}
	if err := l.checkPlayer(playerID); err != nil {
		return err
	}
	if !l.match.IsPresent(playerID) {
		return fmt.Errorf("%w: %s", ErrAbsentPlayer, playerID)
	}
	o, err := buildOptions(opts)
	if err != nil {
		return err
	}

	goal := league.Goal{PlayerID: playerID, OwnGoal: ownGoal, Minute: o.minute}
	if err := l.commitGoals(append(slices.Clone(l.match.Goals), goal)); err != nil {
		return err
	}
	l.touch()
	return nil
}

// RecordCard appends a card for a present player. Cards never affect the score.
func (l *Ledger) RecordCard(playerID string, kind league.CardKind, opts ...EventOption) error {
	if err := l.checkOpen(); err != nil {
		return err
	}
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCardKind, kind)
	}
	if err := l.checkPlayer(playerID); err != nil {
		return err
	}
	if !l.match.IsPresent(playerID) {
		return fmt.Errorf("%w: %s", ErrAbsentPlayer, playerID)
	}
	o, err := buildOptions(opts)
	if err != nil {
		return err
	}

	l.match.Cards = append(l.match.Cards, league.Card{PlayerID: playerID, Kind: kind, Minute: o.minute})
	l.touch()
	return nil
}

// RemoveGoal deletes the goal at index and reverses its contribution to the
// score. The scorer must still be present.
func (l *Ledger) RemoveGoal(index int) error {
	if err := l.checkOpen(); err != nil {
		return err
	}
	if index < 0 || index >= len(l.match.Goals) {
		return fmt.Errorf("%w: goal %d of %d", ErrEventIndexOutOfRange, index, len(l.match.Goals))
	}
	if !l.match.IsPresent(l.match.Goals[index].PlayerID) {
		return ErrCannotEditAbsentPlayerEvent
	}

	if err := l.commitGoals(slices.Delete(slices.Clone(l.match.Goals), index, index+1)); err != nil {
		return err
	}
	l.touch()
	return nil
}

func (l *Ledger) RemoveCard(index int) error {
	if err := l.checkOpen(); err != nil {
		return err
	}
	if index < 0 || index >= len(l.match.Cards) {
		return fmt.Errorf("%w: card %d of %d", ErrEventIndexOutOfRange, index, len(l.match.Cards))
	}
	if !l.match.IsPresent(l.match.Cards[index].PlayerID) {
		return ErrCannotEditAbsentPlayerEvent
	}

	l.match.Cards = slices.Delete(l.match.Cards, index, index+1)
	if len(l.match.Cards) == 0 {
		l.match.Cards = nil
	}
	l.touch()
	return nil
}

// commitGoals replaces the goal list and the score derived from it, or
// changes nothing when a goal cannot be attributed. Without goals the score
// falls back to what it was before the first goal.
func (l *Ledger) commitGoals(goals []league.Goal) error {
	if len(goals) == 0 {
		l.match.Goals = nil
		l.match.ScoreA = copyInt(l.baseScoreA)
		l.match.ScoreB = copyInt(l.baseScoreB)
		return nil
	}

	next := l.match
	next.Goals = goals
	a, b, err := league.ReplayScore(&next, l.lookupTeam)
	if err != nil {
		return err
	}
	l.match.Goals = goals
	l.match.ScoreA = &a
	l.match.ScoreB = &b
	return nil
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}
