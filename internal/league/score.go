package league

import (
	"errors"
	"fmt"
)

var ErrUnattributedGoal = errors.New("goal cannot be attributed to a team in the match")

// TeamOf resolves the team a player belongs to.
type TeamOf func(playerID string) (teamID string, ok bool)

// Attribute returns the team credited with a goal. An own goal credits the
// opponent of the scorer's team.
func Attribute(m *Match, g Goal, teamOf TeamOf) (string, error) {
	teamID, ok := teamOf(g.PlayerID)
	if !ok || !m.HasTeam(teamID) {
		return "", fmt.Errorf("%w: player %q", ErrUnattributedGoal, g.PlayerID)
	}
	if !g.OwnGoal {
		return teamID, nil
	}
	if teamID == m.TeamAID {
		return m.TeamBID, nil
	}
	return m.TeamAID, nil
}

// ReplayScore derives both sides of the score from the goal sequence.
func ReplayScore(m *Match, teamOf TeamOf) (scoreA, scoreB int, err error) {
	for _, g := range m.Goals {
		credited, err := Attribute(m, g, teamOf)
		if err != nil {
			return 0, 0, err
		}
		if credited == m.TeamAID {
			scoreA++
		} else {
			scoreB++
		}
	}
	return scoreA, scoreB, nil
}
