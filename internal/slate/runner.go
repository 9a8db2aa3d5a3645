package slate

import (
	"context"
	"time"

	"github.com/XavierBriggs/fortuna/services/pick-service/internal/hub"
	"github.com/XavierBriggs/fortuna/services/pick-service/internal/logging"
	"github.com/XavierBriggs/fortuna/services/pick-service/pkg/models"
	"github.com/sirupsen/logrus"
)

// Publisher receives each analysis produced by a run
type Publisher interface {
	PublishAnalysis(ctx context.Context, analysis *models.PickAnalysis) error
}

// Broadcaster pushes analyzed slates to live subscribers
type Broadcaster interface {
	Broadcast(u hub.Update)
}

// Invalidator drops cached provider data for a sport
type Invalidator interface {
	InvalidateSport(ctx context.Context, sportKey string) (int, error)
}

// Runner re-analyzes one sport's slate on a fixed interval
type Runner struct {
	sportKey    string
	service     *Service
	publisher   Publisher
	broadcaster Broadcaster
	interval    time.Duration
	logger      *logrus.Entry
	invalidator Invalidator

	// open holds the games analyzed on the previous run
	open map[string]bool
}

// NewRunner creates a runner for a sport. publisher and broadcaster may be nil.
func NewRunner(sportKey string, service *Service, publisher Publisher, broadcaster Broadcaster, interval time.Duration, logger logrus.FieldLogger) *Runner {
	if logger == nil {
		logger = logging.Discard()
	}
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &Runner{
		sportKey:    sportKey,
		service:     service,
		publisher:   publisher,
		broadcaster: broadcaster,
		interval:    interval,
		logger:      logging.WithSport(logger, sportKey),
	}
}

// WithInvalidator clears the sport's cached provider data whenever a game
// analyzed on an earlier run has since gone final
func (r *Runner) WithInvalidator(inv Invalidator) *Runner {
	r.invalidator = inv
	return r
}

// Run analyzes immediately and then on every tick until ctx is cancelled
func (r *Runner) Run(ctx context.Context) {
	r.logger.Info("starting slate runner")

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.runLogged(ctx)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("stopping slate runner")
			return
		case <-ticker.C:
			r.runLogged(ctx)
		}
	}
}

func (r *Runner) runLogged(ctx context.Context) {
	if _, err := r.RunOnce(ctx); err != nil {
		r.logger.WithError(err).Error("slate run failed")
	}
}

// RunOnce performs one analysis cycle for today's slate.
// It is not safe for concurrent use.
func (r *Runner) RunOnce(ctx context.Context) (*Slate, error) {
	slate, err := r.service.Build(ctx, r.sportKey, time.Time{})
	if err != nil {
		return nil, err
	}

	r.trackFinished(ctx, slate)

	if r.publisher != nil {
		for _, analysis := range slate.Analyses() {
			if err := r.publisher.PublishAnalysis(ctx, analysis); err != nil {
				r.logger.WithError(err).WithField("game_id", analysis.GameID).Warn("error publishing analysis")
			}
		}
	}

	if r.broadcaster != nil {
		r.broadcaster.Broadcast(SlateUpdate(slate))
	}

	return slate, nil
}

func (r *Runner) trackFinished(ctx context.Context, slate *Slate) {
	var finished []string
	for _, id := range slate.Finished {
		if r.open[id] {
			finished = append(finished, id)
		}
	}

	r.open = make(map[string]bool, len(slate.Picks)+len(slate.Failed))
	for _, p := range slate.Picks {
		r.open[p.Game.GameID] = true
	}
	for _, f := range slate.Failed {
		r.open[f.GameID] = true
	}

	if len(finished) == 0 || r.invalidator == nil {
		return
	}

	removed, err := r.invalidator.InvalidateSport(ctx, r.sportKey)
	log := r.logger.WithField("games", finished)
	if err != nil {
		log.WithError(err).Warn("failed to invalidate cached provider data")
		return
	}
	log.WithField("removed", removed).Info("games went final, cached provider data invalidated")
}

// SlateUpdate wraps a slate as a hub broadcast
func SlateUpdate(s *Slate) hub.Update {
	return hub.Update{
		Type:     hub.MessageTypeSlate,
		SportKey: s.SportKey,
		Payload: hub.SlateUpdate{
			SportKey: s.SportKey,
			Date:     s.Date,
			Picks:    s.Analyses(),
			Failed:   len(s.Failed),
		},
	}
}
