package league

import (
	"fmt"
	"slices"
)

type MatchStatus string

const (
	MatchScheduled  MatchStatus = "AGENDADO"
	MatchInProgress MatchStatus = "ANDAMENTO"
	MatchFinished   MatchStatus = "ENCERRADO"
)

func (s MatchStatus) order() int {
	switch s {
	case MatchScheduled:
		return 0
	case MatchInProgress:
		return 1
	case MatchFinished:
		return 2
	}
	return -1
}

func (s MatchStatus) Valid() bool {
	return s.order() >= 0
}

// CanAdvanceTo reports whether moving from s to next keeps the status monotonic.
func (s MatchStatus) CanAdvanceTo(next MatchStatus) bool {
	return s.Valid() && next.Valid() && next.order() > s.order()
}

type CardKind string

const (
	CardYellow CardKind = "amarelo"
	CardRed    CardKind = "vermelho"
)

func (k CardKind) Valid() bool {
	return k == CardYellow || k == CardRed
}

type Goal struct {
	PlayerID string `json:"jogadorId"`
	OwnGoal  bool   `json:"contra"`
	Minute   *int   `json:"minuto,omitempty"`
}

type Card struct {
	PlayerID string   `json:"jogadorId"`
	Kind     CardKind `json:"tipo"`
	Minute   *int     `json:"minuto,omitempty"`
}

type Match struct {
	ID      string `json:"id"`
	PhaseID string `json:"faseId"`
	Round   int    `json:"rodada"`

	Venue string `json:"local"`
	Date  string `json:"data"`
	Time  string `json:"hora"`

	TeamAID string `json:"timeA"`
	TeamBID string `json:"timeB"`

	// Nil until the first goal is recorded
	ScoreA *int `json:"placarA"`
	ScoreB *int `json:"placarB"`

	Status     MatchStatus `json:"status"`
	Attendance []string    `json:"jogadoresPresenca"`
	Goals      []Goal      `json:"gols"`
	Cards      []Card      `json:"cartoes"`
	Referee    string      `json:"juiz"`

	IsBye bool `json:"wo,omitempty"`
}

func (m Match) IsFinished() bool {
	return m.Status == MatchFinished
}

func (m Match) IsPresent(playerID string) bool {
	return slices.Contains(m.Attendance, playerID)
}

func (m Match) HasTeam(teamID string) bool {
	return m.TeamAID == teamID || m.TeamBID == teamID
}

// HasLiveState reports whether the ledger has touched the match.
func (m Match) HasLiveState() bool {
	return len(m.Attendance) > 0 || len(m.Goals) > 0 || len(m.Cards) > 0 || m.ScoreA != nil || m.ScoreB != nil
}

// Clone returns a deep copy so working copies never share slices with stored documents.
func (m Match) Clone() Match {
	c := m
	c.ScoreA = cloneInt(m.ScoreA)
	c.ScoreB = cloneInt(m.ScoreB)
	c.Attendance = slices.Clone(m.Attendance)
	if m.Goals != nil {
		c.Goals = make([]Goal, len(m.Goals))
		for i, g := range m.Goals {
			g.Minute = cloneInt(g.Minute)
			c.Goals[i] = g
		}
	}
	if m.Cards != nil {
		c.Cards = make([]Card, len(m.Cards))
		for i, card := range m.Cards {
			card.Minute = cloneInt(card.Minute)
			c.Cards[i] = card
		}
	}
	return c
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}

func (m Match) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("%w: match without id", ErrInvalidDocument)
	}
	if m.PhaseID == "" {
		return fmt.Errorf("%w: match %q without phase", ErrInvalidDocument, m.ID)
	}
	if m.Round < 1 {
		return fmt.Errorf("%w: match %q has round %d", ErrInvalidDocument, m.ID, m.Round)
	}
	if m.TeamAID == "" || m.TeamBID == "" {
		return fmt.Errorf("%w: match %q is missing a team", ErrInvalidDocument, m.ID)
	}
	if !m.Status.Valid() {
		return fmt.Errorf("%w: match %q has unknown status %q", ErrInvalidDocument, m.ID, m.Status)
	}
	if (m.ScoreA == nil) != (m.ScoreB == nil) {
		return fmt.Errorf("%w: match %q has only one side of the score", ErrInvalidDocument, m.ID)
	}
	for i, g := range m.Goals {
		if g.PlayerID == "" || (g.Minute != nil && *g.Minute < 0) {
			return fmt.Errorf("%w: match %q goal %d", ErrInvalidDocument, m.ID, i)
		}
	}
	for i, c := range m.Cards {
		if c.PlayerID == "" || !c.Kind.Valid() || (c.Minute != nil && *c.Minute < 0) {
			return fmt.Errorf("%w: match %q card %d", ErrInvalidDocument, m.ID, i)
		}
	}
	return nil
}
