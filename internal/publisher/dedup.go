package publisher

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	"github.com/XavierBriggs/fortuna/services/pick-service/pkg/models"
	"github.com/redis/go-redis/v9"
)

// Deduplicator suppresses republishing an analysis whose outcome has not changed
type Deduplicator struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDeduplicator creates a new deduplicator
func NewDeduplicator(client *redis.Client, ttl time.Duration) *Deduplicator {
	return &Deduplicator{
		client: client,
		ttl:    ttl,
	}
}

// ShouldPublish returns true the first time an analysis outcome is seen within the TTL
func (d *Deduplicator) ShouldPublish(ctx context.Context, a *models.PickAnalysis) (bool, error) {
	set, err := d.client.SetNX(ctx, dedupKey(a), "1", d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to set dedup key: %w", err)
	}
	return set, nil
}

// Clear removes a dedup entry
func (d *Deduplicator) Clear(ctx context.Context, a *models.PickAnalysis) error {
	return d.client.Del(ctx, dedupKey(a)).Err()
}

// dedupKey hashes the parts of an analysis a subscriber acts on.
// Key format: picks:dedup:{sport}:{game_id}:{outcome_hash}
func dedupKey(a *models.PickAnalysis) string {
	outcome := strings.Join([]string{
		string(a.PickType),
		string(a.Confidence),
		fmt.Sprintf("%.1f", a.Differential),
		fmt.Sprintf("%.1f-%.1f", a.Projection.HomePoints, a.Projection.AwayPoints),
		string(a.SpreadPick),
		string(a.TotalPick),
	}, "|")
	hash := sha256.Sum256([]byte(outcome))
	return fmt.Sprintf("picks:dedup:%s:%s:%x", a.SportKey, a.GameID, hash[:8])
}
