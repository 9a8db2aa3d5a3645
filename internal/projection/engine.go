package projection

import (
	"context"
	"errors"
	"fmt"

	"github.com/XavierBriggs/fortuna/services/pick-service/internal/logging"
	"github.com/XavierBriggs/fortuna/services/pick-service/internal/sports"
	"github.com/XavierBriggs/fortuna/services/pick-service/pkg/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DefaultBatchSize bounds simultaneous outbound data-provider calls
const DefaultBatchSize = 3

var (
	ErrMissingTeam      = errors.New("game is missing a team identity")
	ErrMissingStartTime = errors.New("game is missing a start time")
)

// DataSource is the read-only sports-data collaborator. Every method may fail;
// failures degrade the affected factor to neutral.
type DataSource interface {
	TeamStats(ctx context.Context, sportKey string, team models.TeamRef) (*models.TeamStats, error)
	AdvancedStats(ctx context.Context, sportKey, teamID string) (*models.AdvancedStats, error)
	Schedule(ctx context.Context, sportKey, teamID string) ([]models.ScheduledGame, error)
	Injuries(ctx context.Context, sportKey string) (map[string]*models.InjuryReport, error)
}

// Result is the outcome for one game in a batch
type Result struct {
	Game     models.Game          `json:"game"`
	Analysis *models.PickAnalysis `json:"analysis,omitempty"`
	Err      error                `json:"-"`
}

// Engine runs game analyses against a data source
type Engine struct {
	source    DataSource
	sports    *sports.Registry
	batchSize int
	logger    logrus.FieldLogger
}

// NewEngine creates a projection engine
func NewEngine(source DataSource, registry *sports.Registry, batchSize int, logger logrus.FieldLogger) *Engine {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Engine{
		source:    source,
		sports:    registry,
		batchSize: batchSize,
		logger:    logger,
	}
}

// AnalyzeGames analyzes games in fixed-size batches: concurrent within a batch,
// sequential across batches. A failing game never aborts the batch.
func (e *Engine) AnalyzeGames(ctx context.Context, games []models.Game) []Result {
	results := make([]Result, len(games))

	for start := 0; start < len(games); start += e.batchSize {
		end := start + e.batchSize
		if end > len(games) {
			end = len(games)
		}

		var g errgroup.Group
		for i := start; i < end; i++ {
			i := i
			g.Go(func() error {
				analysis, err := e.AnalyzeGame(ctx, games[i])
				results[i] = Result{Game: games[i], Analysis: analysis, Err: err}
				return nil
			})
		}
		_ = g.Wait()
	}

	return results
}

// AnalyzeGame gathers one game's inputs and analyzes it
func (e *Engine) AnalyzeGame(ctx context.Context, game models.Game) (*models.PickAnalysis, error) {
	if err := validateGame(game); err != nil {
		return nil, fmt.Errorf("game %s: %w", game.GameID, err)
	}

	profile := e.sports.Lookup(game.SportKey)
	inputs := e.gather(ctx, game)

	analysis := Analyze(profile, inputs)

	logging.WithSport(e.logger, game.SportKey).WithFields(logrus.Fields{
		"game_id":      game.GameID,
		"matchup":      game.Matchup(),
		"pick":         analysis.PickType,
		"confidence":   analysis.Confidence,
		"differential": analysis.Differential,
	}).Debug("analyzed game")

	return analysis, nil
}

func validateGame(game models.Game) error {
	if (game.Home.ID == "" && game.Home.Name == "") || (game.Away.ID == "" && game.Away.Name == "") {
		return ErrMissingTeam
	}
	if game.StartTime.IsZero() {
		return ErrMissingStartTime
	}
	return nil
}

// gather fans out every per-game fetch and joins them. Fetch errors are logged and degraded.
func (e *Engine) gather(ctx context.Context, game models.Game) GameInputs {
	sport := game.SportKey
	log := logging.WithSport(e.logger, sport).WithField("game_id", game.GameID)

	var (
		homeStats, awayStats       *models.TeamStats
		homeAdv, awayAdv           *models.AdvancedStats
		homeSchedule, awaySchedule []models.ScheduledGame
		injuries                   map[string]*models.InjuryReport
	)

	degrade := func(what string, err error) {
		log.WithError(err).Debugf("%s unavailable, using neutral default", what)
	}

	var g errgroup.Group
	g.Go(func() error {
		s, err := e.source.TeamStats(ctx, sport, game.Home)
		if err != nil {
			degrade("home team stats", err)
		}
		homeStats = s
		return nil
	})
	g.Go(func() error {
		s, err := e.source.TeamStats(ctx, sport, game.Away)
		if err != nil {
			degrade("away team stats", err)
		}
		awayStats = s
		return nil
	})
	g.Go(func() error {
		a, err := e.source.AdvancedStats(ctx, sport, game.Home.ID)
		if err != nil {
			degrade("home advanced stats", err)
			return nil
		}
		homeAdv = a
		return nil
	})
	g.Go(func() error {
		a, err := e.source.AdvancedStats(ctx, sport, game.Away.ID)
		if err != nil {
			degrade("away advanced stats", err)
			return nil
		}
		awayAdv = a
		return nil
	})
	g.Go(func() error {
		s, err := e.source.Schedule(ctx, sport, game.Home.ID)
		if err != nil {
			degrade("home schedule", err)
			return nil
		}
		homeSchedule = s
		return nil
	})
	g.Go(func() error {
		s, err := e.source.Schedule(ctx, sport, game.Away.ID)
		if err != nil {
			degrade("away schedule", err)
			return nil
		}
		awaySchedule = s
		return nil
	})
	g.Go(func() error {
		r, err := e.source.Injuries(ctx, sport)
		if err != nil {
			degrade("injury report", err)
			return nil
		}
		injuries = r
		return nil
	})
	_ = g.Wait()

	if homeStats == nil {
		homeStats = SynthesizeStats(game.Home.ID, game.Home.Record)
	}
	if awayStats == nil {
		awayStats = SynthesizeStats(game.Away.ID, game.Away.Record)
	}

	in := GameInputs{
		Game: game,
		Home: TeamInputs{
			Stats:    homeStats,
			Advanced: homeAdv,
			Schedule: ScheduleContextFrom(homeSchedule, game.StartTime),
		},
		Away: TeamInputs{
			Stats:    awayStats,
			Advanced: awayAdv,
			Schedule: ScheduleContextFrom(awaySchedule, game.StartTime),
		},
		HeadToHead: HeadToHeadFrom(homeSchedule, game.Away.ID, game.StartTime),
	}

	if injuries != nil {
		in.Home.Injuries = injuryFor(injuries, game.Home.ID)
		in.Away.Injuries = injuryFor(injuries, game.Away.ID)
	}

	return in
}

// injuryFor returns the team's report, or a clean bill of health when the
// league report loaded but does not list the team
func injuryFor(reports map[string]*models.InjuryReport, teamID string) *models.InjuryReport {
	if r, ok := reports[teamID]; ok && r != nil {
		return r
	}
	return &models.InjuryReport{TeamID: teamID, ImpactScore: 100}
}
