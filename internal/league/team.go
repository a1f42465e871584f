package league

import "fmt"

// ByeTeamID identifies the synthetic opponent used to balance an odd bracket.
// It never refers to a stored Team.
const ByeTeamID = "WO"

var ByeTeam = Team{ID: ByeTeamID, Name: "W.O."}

type Team struct {
	ID             string  `json:"id"`
	Name           string  `json:"nome"`
	Crest          *string `json:"escudo,omitempty"`
	ChampionshipID string  `json:"campeonatoId"`
	GroupID        *string `json:"grupoId,omitempty"`
}

func (t Team) IsBye() bool {
	return t.ID == ByeTeamID
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("%w: team without id", ErrInvalidDocument)
	}
	if t.Name == "" {
		return fmt.Errorf("%w: team %q without name", ErrInvalidDocument, t.ID)
	}
	return nil
}

type Player struct {
	ID       string  `json:"id"`
	Name     string  `json:"nome"`
	Nickname string  `json:"apelido"`
	Number   *int    `json:"numero,omitempty"`
	TeamID   string  `json:"equipeId"`
	PhotoURI *string `json:"fotoUri,omitempty"`
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("%w: player without id", ErrInvalidDocument)
	}
	if p.TeamID == "" {
		return fmt.Errorf("%w: player %q without team", ErrInvalidDocument, p.ID)
	}
	if p.Number != nil && (*p.Number < 0 || *p.Number > MaxJerseyNumber) {
		return fmt.Errorf("%w: player %q has jersey number %d", ErrInvalidDocument, p.ID, *p.Number)
	}
	return nil
}

// Jersey numbers are at most three digits.
const MaxJerseyNumber = 999
