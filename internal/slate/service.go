package slate

import (
	"context"
	"fmt"
	"time"

	"github.com/XavierBriggs/fortuna/services/pick-service/internal/logging"
	"github.com/XavierBriggs/fortuna/services/pick-service/internal/projection"
	"github.com/XavierBriggs/fortuna/services/pick-service/pkg/models"
	"github.com/sirupsen/logrus"
)

// DateLayout is the slate date format used in APIs and storage
const DateLayout = "2006-01-02"

// GameSource lists the games on a sport's slate
type GameSource interface {
	Games(ctx context.Context, sportKey string, date time.Time) ([]models.Game, error)
}

// Analyzer analyzes a batch of games
type Analyzer interface {
	AnalyzeGames(ctx context.Context, games []models.Game) []projection.Result
}

// FailedGame records a game the engine could not analyze
type FailedGame struct {
	GameID string `json:"game_id"`
	Error  string `json:"error"`
}

// Slate is one sport's analyzed games for a date
type Slate struct {
	SportKey string        `json:"sport_key"`
	Date     string        `json:"date"`
	Games    int           `json:"games"`
	Skipped  int           `json:"skipped"`
	Picks    []models.Pick `json:"picks"`
	Failed   []FailedGame  `json:"failed"`

	// Finished lists the IDs of games already final
	Finished []string `json:"-"`
}

// Analyses returns the analysis of every pick on the slate
func (s *Slate) Analyses() []*models.PickAnalysis {
	out := make([]*models.PickAnalysis, 0, len(s.Picks))
	for _, p := range s.Picks {
		if p.Analysis != nil {
			out = append(out, p.Analysis)
		}
	}
	return out
}

// Service fetches a slate and runs it through the projection engine
type Service struct {
	games    GameSource
	analyzer Analyzer
	logger   logrus.FieldLogger
	now      func() time.Time
}

// NewService creates a slate service
func NewService(games GameSource, analyzer Analyzer, logger logrus.FieldLogger) *Service {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Service{
		games:    games,
		analyzer: analyzer,
		logger:   logger,
		now:      time.Now,
	}
}

// Build analyzes every game on the slate that has not finished.
// A zero date means the provider's current day.
func (s *Service) Build(ctx context.Context, sportKey string, date time.Time) (*Slate, error) {
	log := logging.WithSport(s.logger, sportKey)

	games, err := s.games.Games(ctx, sportKey, date)
	if err != nil {
		return nil, fmt.Errorf("loading %s slate: %w", sportKey, err)
	}

	label := date
	if label.IsZero() {
		label = s.now()
	}
	slate := &Slate{
		SportKey: sportKey,
		Date:     label.Format(DateLayout),
		Games:    len(games),
		Picks:    []models.Pick{},
		Failed:   []FailedGame{},
	}

	open := make([]models.Game, 0, len(games))
	for _, g := range games {
		if g.Status == models.StatusFinal || g.Status == models.StatusPostponed {
			if g.Status == models.StatusFinal {
				slate.Finished = append(slate.Finished, g.GameID)
			}
			slate.Skipped++
			continue
		}
		open = append(open, g)
	}

	for _, res := range s.analyzer.AnalyzeGames(ctx, open) {
		if res.Err != nil {
			log.WithError(res.Err).WithField("game_id", res.Game.GameID).Warn("analysis failed")
			slate.Failed = append(slate.Failed, FailedGame{GameID: res.Game.GameID, Error: res.Err.Error()})
			continue
		}
		slate.Picks = append(slate.Picks, PickFrom(res.Game, res.Analysis))
	}

	log.WithFields(logrus.Fields{
		"games":   slate.Games,
		"picks":   len(slate.Picks),
		"failed":  len(slate.Failed),
		"skipped": slate.Skipped,
	}).Info("slate analyzed")

	return slate, nil
}

// PickFrom turns an analyzed game into an allocator pick on the projected side
func PickFrom(game models.Game, analysis *models.PickAnalysis) models.Pick {
	pick := models.Pick{Game: game, Analysis: analysis}
	if analysis == nil {
		return pick
	}
	pick.Side = analysis.PickType.Side()
	switch pick.Side {
	case models.SideDraw:
		pick.Label = "Draw"
	case models.SideHome, models.SideAway:
		pick.Label = game.TeamFor(pick.Side).Label() + " ML"
	}
	return pick
}
