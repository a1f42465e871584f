package league

import (
	"errors"
	"fmt"
)

var ErrInvalidDocument = errors.New("invalid document")

type PhaseKind string

const (
	PhaseGroups   PhaseKind = "grupos"
	PhaseKnockout PhaseKind = "eliminatoria"
)

func (k PhaseKind) Valid() bool {
	return k == PhaseGroups || k == PhaseKnockout
}

type Phase struct {
	ID             string    `json:"id"`
	Name           string    `json:"nome"`
	Kind           PhaseKind `json:"tipo"`
	ChampionshipID string    `json:"campeonatoId"`
}

func (p Phase) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("%w: phase without id", ErrInvalidDocument)
	}
	if !p.Kind.Valid() {
		return fmt.Errorf("%w: phase %q has unknown kind %q", ErrInvalidDocument, p.ID, p.Kind)
	}
	return nil
}

type Group struct {
	ID      string   `json:"id"`
	Name    string   `json:"nome"`
	PhaseID string   `json:"faseId"`
	TeamIDs []string `json:"equipes"`
}

func (g Group) Validate() error {
	if g.ID == "" {
		return fmt.Errorf("%w: group without id", ErrInvalidDocument)
	}
	seen := make(map[string]bool, len(g.TeamIDs))
	for _, id := range g.TeamIDs {
		if id == "" || seen[id] {
			return fmt.Errorf("%w: group %q has empty or repeated team %q", ErrInvalidDocument, g.ID, id)
		}
		seen[id] = true
	}
	return nil
}

func (g Group) HasTeam(teamID string) bool {
	for _, id := range g.TeamIDs {
		if id == teamID {
			return true
		}
	}
	return false
}

// ValidateRounds checks that rounds is exactly 1..n.
func ValidateRounds(rounds []int) error {
	for i, r := range rounds {
		if r != i+1 {
			return fmt.Errorf("%w: round %d found at position %d", ErrInvalidDocument, r, i+1)
		}
	}
	return nil
}
