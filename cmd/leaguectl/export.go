package main

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/AdamBeresnev/matchday/internal/league"
	"github.com/AdamBeresnev/matchday/internal/service"
	"github.com/AdamBeresnev/matchday/internal/store"
	"gopkg.in/yaml.v3"
)

type phaseExport struct {
	PhaseID  string        `yaml:"fase"`
	Name     string        `yaml:"nome,omitempty"`
	Kind     string        `yaml:"tipo,omitempty"`
	Percent  int           `yaml:"percentual"`
	Groups   []groupExport `yaml:"grupos,omitempty"`
	Rounds   []roundExport `yaml:"rodadas"`
	Finished int           `yaml:"jogosEncerrados"`
	Total    int           `yaml:"totalJogos"`
}

type groupExport struct {
	Name  string   `yaml:"nome"`
	Teams []string `yaml:"equipes"`
}

type roundExport struct {
	Number  int           `yaml:"rodada"`
	Matches []matchExport `yaml:"jogos"`
}

type matchExport struct {
	ID     string `yaml:"id"`
	TeamA  string `yaml:"timeA"`
	TeamB  string `yaml:"timeB"`
	Score  string `yaml:"placar"`
	Status string `yaml:"status"`
	Venue  string `yaml:"local"`
	Date   string `yaml:"data"`
	Time   string `yaml:"hora"`
	Bye    bool   `yaml:"wo,omitempty"`
}

func scoreLine(m league.Match) string {
	if m.ScoreA == nil || m.ScoreB == nil {
		return "-"
	}
	return fmt.Sprintf("%d x %d", *m.ScoreA, *m.ScoreB)
}

// buildExport gathers a phase's rounds and matches. The championship is only
// needed for the phase name and its groups and may be empty.
func buildExport(ctx context.Context, records *store.Collections, championshipID, phaseID string) (*phaseExport, error) {
	rounds := service.NewRoundRegistry(records)
	progress := service.NewProgressService(rounds, service.NewMatchService(records, rounds))

	overview, err := progress.Overview(ctx, phaseID)
	if err != nil {
		return nil, err
	}

	teams, err := records.Teams(ctx)
	if err != nil {
		return nil, err
	}
	names := map[string]string{league.ByeTeamID: league.ByeTeam.Name}
	for _, t := range teams {
		names[t.ID] = t.Name
	}
	nameOf := func(id string) string {
		if name, ok := names[id]; ok {
			return name
		}
		return id
	}

	out := &phaseExport{
		PhaseID:  phaseID,
		Percent:  overview.PercentComplete,
		Finished: overview.FinishedMatches,
		Total:    overview.TotalMatches,
	}

	if championshipID != "" {
		phases := service.NewPhaseService(records)
		phase, err := phases.Get(ctx, championshipID, phaseID)
		if err != nil {
			return nil, err
		}
		out.Name = phase.Name
		out.Kind = string(phase.Kind)

		groups, err := phases.Groups(ctx, phaseID)
		if err != nil {
			return nil, err
		}
		for _, g := range groups {
			ge := groupExport{Name: g.Name, Teams: []string{}}
			for _, id := range g.TeamIDs {
				ge.Teams = append(ge.Teams, nameOf(id))
			}
			out.Groups = append(out.Groups, ge)
		}
	}

	// Matches may reference rounds that were never registered
	numbers := slices.Clone(overview.Rounds)
	for n := range overview.MatchesByRound {
		if !slices.Contains(numbers, n) {
			numbers = append(numbers, n)
		}
	}
	slices.Sort(numbers)

	out.Rounds = []roundExport{}
	for _, n := range numbers {
		re := roundExport{Number: n, Matches: []matchExport{}}
		for _, m := range overview.MatchesByRound[n] {
			re.Matches = append(re.Matches, matchExport{
				ID:     m.ID,
				TeamA:  nameOf(m.TeamAID),
				TeamB:  nameOf(m.TeamBID),
				Score:  scoreLine(m),
				Status: string(m.Status),
				Venue:  m.Venue,
				Date:   m.Date,
				Time:   m.Time,
				Bye:    m.IsBye,
			})
		}
		out.Rounds = append(out.Rounds, re)
	}
	return out, nil
}

func writeExport(w io.Writer, export *phaseExport) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(export); err != nil {
		return fmt.Errorf("encoding to YAML failed: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encoding to YAML failed on close: %w", err)
	}
	return nil
}
