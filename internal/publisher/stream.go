package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/XavierBriggs/fortuna/services/pick-service/pkg/models"
	"github.com/redis/go-redis/v9"
)

// StrategyStream receives every built daily strategy
const StrategyStream = "strategy.daily"

// PicksStream returns the sport-specific analyzed picks stream
func PicksStream(sportKey string) string {
	return fmt.Sprintf("picks.analyzed.%s", sportKey)
}

// StreamPublisher publishes analyses and strategies to Redis streams
type StreamPublisher struct {
	client *redis.Client
	maxLen int64
	dedup  *Deduplicator
}

// NewStreamPublisher creates a new stream publisher. maxLen caps each stream approximately; 0 disables trimming.
func NewStreamPublisher(client *redis.Client, maxLen int64) *StreamPublisher {
	return &StreamPublisher{
		client: client,
		maxLen: maxLen,
	}
}

// WithDedup skips analyses whose outcome was already published within the dedup TTL
func (p *StreamPublisher) WithDedup(d *Deduplicator) *StreamPublisher {
	p.dedup = d
	return p
}

// PublishAnalysis publishes one game's analysis to the sport-specific stream
func (p *StreamPublisher) PublishAnalysis(ctx context.Context, analysis *models.PickAnalysis) error {
	if p.dedup != nil {
		fresh, err := p.dedup.ShouldPublish(ctx, analysis)
		if err != nil {
			return err
		}
		if !fresh {
			return nil
		}
	}

	data, err := json.Marshal(analysis)
	if err != nil {
		return fmt.Errorf("marshaling analysis: %w", err)
	}

	return p.add(ctx, PicksStream(analysis.SportKey), map[string]interface{}{
		"data":       string(data),
		"game_id":    analysis.GameID,
		"pick":       string(analysis.PickType),
		"confidence": string(analysis.Confidence),
	})
}

// PublishStrategy publishes a built daily strategy
func (p *StreamPublisher) PublishStrategy(ctx context.Context, strategy *models.DailyStrategy) error {
	data, err := json.Marshal(strategy)
	if err != nil {
		return fmt.Errorf("marshaling strategy: %w", err)
	}

	return p.add(ctx, StrategyStream, map[string]interface{}{
		"data":      string(data),
		"id":        strategy.ID,
		"date":      strategy.Date,
		"risk_mode": string(strategy.RiskMode),
	})
}

func (p *StreamPublisher) add(ctx context.Context, stream string, values map[string]interface{}) error {
	args := &redis.XAddArgs{
		Stream: stream,
		Values: values,
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}

	if err := p.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("publishing to %s: %w", stream, err)
	}
	return nil
}
