package slate

import (
	"context"
	"sync"
	"time"

	"github.com/XavierBriggs/fortuna/services/pick-service/internal/logging"
	"github.com/XavierBriggs/fortuna/services/pick-service/internal/sports"
	"github.com/sirupsen/logrus"
)

// Orchestrator manages slate runners for all enabled sports
type Orchestrator struct {
	registry    *sports.Registry
	service     *Service
	publisher   Publisher
	broadcaster Broadcaster
	interval    time.Duration
	logger      logrus.FieldLogger
	invalidator Invalidator

	mu      sync.Mutex
	runners map[string]*Runner
}

// NewOrchestrator creates a new slate orchestrator
func NewOrchestrator(
	reg *sports.Registry,
	service *Service,
	publisher Publisher,
	broadcaster Broadcaster,
	interval time.Duration,
	logger logrus.FieldLogger,
) *Orchestrator {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Orchestrator{
		registry:    reg,
		service:     service,
		publisher:   publisher,
		broadcaster: broadcaster,
		interval:    interval,
		logger:      logger,
		runners:     make(map[string]*Runner),
	}
}

// WithInvalidator hands inv to every runner started afterwards
func (o *Orchestrator) WithInvalidator(inv Invalidator) *Orchestrator {
	o.invalidator = inv
	return o
}

// Start launches a runner per enabled sport and blocks until all have stopped
func (o *Orchestrator) Start(ctx context.Context) {
	var wg sync.WaitGroup

	enabled := o.registry.EnabledSports()
	o.logger.WithField("sports", len(enabled)).Info("starting slate runners")

	for _, profile := range enabled {
		runner := NewRunner(profile.Key, o.service, o.publisher, o.broadcaster, o.interval, o.logger)
		if o.invalidator != nil {
			runner.WithInvalidator(o.invalidator)
		}

		o.mu.Lock()
		o.runners[profile.Key] = runner
		o.mu.Unlock()

		wg.Add(1)
		go func(r *Runner) {
			defer wg.Done()
			r.Run(ctx)
		}(runner)
	}

	wg.Wait()
	o.logger.Info("all slate runners stopped")
}

// Sports returns the keys of the runners started so far
func (o *Orchestrator) Sports() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	keys := make([]string, 0, len(o.runners))
	for k := range o.runners {
		keys = append(keys, k)
	}
	return keys
}
