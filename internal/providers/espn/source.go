package espn

import (
	"context"
	"fmt"
	"time"

	"github.com/XavierBriggs/fortuna/services/pick-service/internal/projection"
	"github.com/XavierBriggs/fortuna/services/pick-service/internal/sports"
	"github.com/XavierBriggs/fortuna/services/pick-service/pkg/models"
)

// Source adapts the ESPN client to the projection engine's data source
type Source struct {
	client *Client
	sports *sports.Registry
}

var _ projection.DataSource = (*Source)(nil)

// NewSource creates a data source backed by ESPN
func NewSource(client *Client, registry *sports.Registry) *Source {
	return &Source{
		client: client,
		sports: registry,
	}
}

func (s *Source) path(sportKey string) string {
	return s.sports.Lookup(sportKey).ESPNPath
}

// InvalidateSport drops every cached ESPN response for a sport
func (s *Source) InvalidateSport(ctx context.Context, sportKey string) (int, error) {
	return s.client.InvalidateSport(ctx, s.path(sportKey))
}

// Games returns the slate for a sport and date. A zero date means ESPN's today.
func (s *Source) Games(ctx context.Context, sportKey string, date time.Time) ([]models.Game, error) {
	data, err := s.client.FetchScoreboard(ctx, s.path(sportKey), date)
	if err != nil {
		return nil, fmt.Errorf("fetching %s scoreboard: %w", sportKey, err)
	}
	return ParseScoreboard(sportKey, data), nil
}

// TeamStats fetches a team's record, falling back to the scoreboard record
// summary when ESPN has no record breakdown
func (s *Source) TeamStats(ctx context.Context, sportKey string, team models.TeamRef) (*models.TeamStats, error) {
	if team.ID == "" {
		return projection.SynthesizeStats(team.ID, team.Record), nil
	}

	data, err := s.client.FetchTeam(ctx, s.path(sportKey), team.ID)
	if err != nil {
		return nil, fmt.Errorf("fetching team %s: %w", team.ID, err)
	}

	if stats, ok := ParseTeamStats(team.ID, data); ok {
		return stats, nil
	}
	return projection.SynthesizeStats(team.ID, team.Record), nil
}

// AdvancedStats fetches a team's season efficiency metrics
func (s *Source) AdvancedStats(ctx context.Context, sportKey, teamID string) (*models.AdvancedStats, error) {
	data, err := s.client.FetchTeamStatistics(ctx, s.path(sportKey), teamID)
	if err != nil {
		return nil, fmt.Errorf("fetching statistics for team %s: %w", teamID, err)
	}

	adv, ok := ParseAdvancedStats(data)
	if !ok {
		return nil, fmt.Errorf("no advanced statistics for team %s", teamID)
	}
	return adv, nil
}

// Schedule fetches a team's schedule
func (s *Source) Schedule(ctx context.Context, sportKey, teamID string) ([]models.ScheduledGame, error) {
	data, err := s.client.FetchTeamSchedule(ctx, s.path(sportKey), teamID)
	if err != nil {
		return nil, fmt.Errorf("fetching schedule for team %s: %w", teamID, err)
	}
	return ParseSchedule(teamID, data), nil
}

// Injuries fetches and scores the league injury report
func (s *Source) Injuries(ctx context.Context, sportKey string) (map[string]*models.InjuryReport, error) {
	data, err := s.client.FetchInjuries(ctx, s.path(sportKey))
	if err != nil {
		return nil, fmt.Errorf("fetching %s injuries: %w", sportKey, err)
	}

	players := ParseInjuries(data)
	reports := make(map[string]*models.InjuryReport, len(players))
	for teamID, list := range players {
		reports[teamID] = projection.BuildInjuryReport(teamID, list)
	}
	return reports, nil
}
