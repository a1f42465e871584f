package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/AdamBeresnev/matchday/internal/league"
	"github.com/AdamBeresnev/matchday/internal/store"
	"github.com/google/uuid"
)

type PhaseService struct {
	store *store.Collections
}

func NewPhaseService(store *store.Collections) *PhaseService {
	return &PhaseService{store: store}
}

func (s *PhaseService) Create(ctx context.Context, championshipID, name string, kind league.PhaseKind) (*league.Phase, error) {
	if blank(championshipID) {
		return nil, fmt.Errorf("%w: championship", ErrMissingRequiredField)
	}
	if blank(name) {
		return nil, fmt.Errorf("%w: name", ErrMissingRequiredField)
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPhaseKind, kind)
	}

	phases, err := s.store.Phases(ctx, championshipID)
	if err != nil {
		return nil, err
	}

	phase := league.Phase{
		ID:             uuid.NewString(),
		Name:           strings.TrimSpace(name),
		Kind:           kind,
		ChampionshipID: championshipID,
	}
	if err := s.store.SavePhases(ctx, championshipID, append(phases, phase)); err != nil {
		return nil, fmt.Errorf("failed to save phase: %w", err)
	}
	return &phase, nil
}

func (s *PhaseService) List(ctx context.Context, championshipID string) ([]league.Phase, error) {
	return s.store.Phases(ctx, championshipID)
}

func (s *PhaseService) Get(ctx context.Context, championshipID, phaseID string) (*league.Phase, error) {
	phases, err := s.store.Phases(ctx, championshipID)
	if err != nil {
		return nil, err
	}
	i := slices.IndexFunc(phases, func(p league.Phase) bool { return p.ID == phaseID })
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrPhaseNotFound, phaseID)
	}
	return &phases[i], nil
}

func (s *PhaseService) Groups(ctx context.Context, phaseID string) ([]league.Group, error) {
	return s.store.Groups(ctx, phaseID)
}

// AddGroup creates the next lettered group ("Grupo A", "Grupo B", ...) of a
// group stage phase.
func (s *PhaseService) AddGroup(ctx context.Context, championshipID, phaseID string) (*league.Group, error) {
	phase, err := s.Get(ctx, championshipID, phaseID)
	if err != nil {
		return nil, err
	}
	if phase.Kind != league.PhaseGroups {
		return nil, ErrNotGroupPhase
	}

	groups, err := s.store.Groups(ctx, phaseID)
	if err != nil {
		return nil, err
	}

	group := league.Group{
		ID:      uuid.NewString(),
		Name:    nextGroupName(groups),
		PhaseID: phaseID,
		TeamIDs: []string{},
	}
	if err := s.store.SaveGroups(ctx, phaseID, append(groups, group)); err != nil {
		return nil, fmt.Errorf("failed to save group: %w", err)
	}
	return &group, nil
}

func nextGroupName(groups []league.Group) string {
	taken := make(map[string]bool, len(groups))
	for _, g := range groups {
		taken[g.Name] = true
	}
	for i := len(groups); ; i++ {
		name := "Grupo " + groupLetters(i)
		if !taken[name] {
			return name
		}
	}
}

// groupLetters maps 0 -> A, 25 -> Z, 26 -> AA.
func groupLetters(i int) string {
	letters := ""
	for i >= 0 {
		letters = string(rune('A'+i%26)) + letters
		i = i/26 - 1
	}
	return letters
}

func (s *PhaseService) RemoveGroup(ctx context.Context, phaseID, groupID string) error {
	groups, err := s.store.Groups(ctx, phaseID)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(groups, func(g league.Group) bool { return g.ID == groupID })
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrGroupNotFound, groupID)
	}
	members := groups[i].TeamIDs
	if err := s.store.SaveGroups(ctx, phaseID, slices.Delete(groups, i, i+1)); err != nil {
		return fmt.Errorf("failed to remove group %s: %w", groupID, err)
	}
	if len(members) == 0 {
		return nil
	}

	// Teams of the removed group no longer point at it
	teams, err := s.store.Teams(ctx)
	if err != nil {
		return err
	}
	for k := range teams {
		if teams[k].GroupID != nil && *teams[k].GroupID == groupID {
			teams[k].GroupID = nil
		}
	}
	return s.store.SaveTeams(ctx, teams)
}

// AssignTeam places a team in a group. A team belongs to at most one group per
// phase. The team's own group reference is updated after the group is saved.
func (s *PhaseService) AssignTeam(ctx context.Context, phaseID, groupID, teamID string) (*league.Group, error) {
	groups, err := s.store.Groups(ctx, phaseID)
	if err != nil {
		return nil, err
	}
	i := slices.IndexFunc(groups, func(g league.Group) bool { return g.ID == groupID })
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrGroupNotFound, groupID)
	}
	for _, g := range groups {
		if g.HasTeam(teamID) {
			return nil, fmt.Errorf("%w: %s is in %s", ErrTeamAlreadyGrouped, teamID, g.Name)
		}
	}

	teams, err := s.store.Teams(ctx)
	if err != nil {
		return nil, err
	}
	t := slices.IndexFunc(teams, func(team league.Team) bool { return team.ID == teamID })
	if t < 0 {
		return nil, fmt.Errorf("%w: %s", ErrTeamNotFound, teamID)
	}

	groups[i].TeamIDs = append(groups[i].TeamIDs, teamID)
	if err := s.store.SaveGroups(ctx, phaseID, groups); err != nil {
		return nil, fmt.Errorf("failed to save group %s: %w", groupID, err)
	}

	gid := groupID
	teams[t].GroupID = &gid
	if err := s.store.SaveTeams(ctx, teams); err != nil {
		return nil, fmt.Errorf("failed to save team %s: %w", teamID, err)
	}
	return &groups[i], nil
}

func (s *PhaseService) UnassignTeam(ctx context.Context, phaseID, groupID, teamID string) error {
	groups, err := s.store.Groups(ctx, phaseID)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(groups, func(g league.Group) bool { return g.ID == groupID })
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrGroupNotFound, groupID)
	}
	j := slices.Index(groups[i].TeamIDs, teamID)
	if j < 0 {
		return fmt.Errorf("%w: %s in group %s", ErrTeamNotFound, teamID, groupID)
	}

	groups[i].TeamIDs = slices.Delete(groups[i].TeamIDs, j, j+1)
	if err := s.store.SaveGroups(ctx, phaseID, groups); err != nil {
		return err
	}

	teams, err := s.store.Teams(ctx)
	if err != nil {
		return err
	}
	for k := range teams {
		if teams[k].ID == teamID && teams[k].GroupID != nil && *teams[k].GroupID == groupID {
			teams[k].GroupID = nil
			return s.store.SaveTeams(ctx, teams)
		}
	}
	return nil
}
