package publisher_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/XavierBriggs/fortuna/services/pick-service/internal/publisher"
	"github.com/XavierBriggs/fortuna/services/pick-service/pkg/models"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestPublisher(t *testing.T) (*publisher.StreamPublisher, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return publisher.NewStreamPublisher(client, 1000), client
}

func TestPublishAnalysis(t *testing.T) {
	pub, client := newTestPublisher(t)
	ctx := context.Background()

	analysis := &models.PickAnalysis{
		GameID:     "401",
		SportKey:   "basketball_nba",
		PickType:   models.PickHome,
		Confidence: models.ConfidenceHigh,
	}
	if err := pub.PublishAnalysis(ctx, analysis); err != nil {
		t.Fatalf("PublishAnalysis: %v", err)
	}

	msgs, err := client.XRange(ctx, "picks.analyzed.basketball_nba", "-", "+").Result()
	if err != nil {
		t.Fatalf("XRange: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}

	values := msgs[0].Values
	if values["game_id"] != "401" || values["pick"] != "home" || values["confidence"] != "high" {
		t.Errorf("unexpected values: %v", values)
	}

	var decoded models.PickAnalysis
	if err := json.Unmarshal([]byte(values["data"].(string)), &decoded); err != nil {
		t.Fatalf("decoding data: %v", err)
	}
	if decoded.GameID != "401" {
		t.Errorf("decoded game id = %s", decoded.GameID)
	}
}

func TestPublishStrategy(t *testing.T) {
	pub, client := newTestPublisher(t)
	ctx := context.Background()

	s := &models.DailyStrategy{ID: "abc", Date: "2025-01-15", RiskMode: models.RiskBalanced, DailyBudget: 25}
	if err := pub.PublishStrategy(ctx, s); err != nil {
		t.Fatalf("PublishStrategy: %v", err)
	}

	msgs, err := client.XRange(ctx, publisher.StrategyStream, "-", "+").Result()
	if err != nil {
		t.Fatalf("XRange: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Values["id"] != "abc" || msgs[0].Values["risk_mode"] != "balanced" {
		t.Errorf("unexpected messages: %v", msgs)
	}
}

func TestPublishAnalysis_Dedup(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	dedup := publisher.NewDeduplicator(client, 30*time.Minute)
	pub := publisher.NewStreamPublisher(client, 0).WithDedup(dedup)
	ctx := context.Background()

	analysis := &models.PickAnalysis{
		GameID:       "401",
		SportKey:     "basketball_nba",
		PickType:     models.PickHome,
		Confidence:   models.ConfidenceMedium,
		Differential: 9.4,
	}

	for i := 0; i < 3; i++ {
		if err := pub.PublishAnalysis(ctx, analysis); err != nil {
			t.Fatalf("PublishAnalysis: %v", err)
		}
	}
	if n := client.XLen(ctx, "picks.analyzed.basketball_nba").Val(); n != 1 {
		t.Fatalf("stream length = %d, want 1 for an unchanged analysis", n)
	}

	// A changed outcome is new
	changed := *analysis
	changed.Confidence = models.ConfidenceHigh
	changed.Differential = 16
	if err := pub.PublishAnalysis(ctx, &changed); err != nil {
		t.Fatalf("PublishAnalysis: %v", err)
	}
	if n := client.XLen(ctx, "picks.analyzed.basketball_nba").Val(); n != 2 {
		t.Errorf("stream length = %d, want 2 after the outcome changed", n)
	}

	// Entries expire with the TTL
	mr.FastForward(31 * time.Minute)
	if err := pub.PublishAnalysis(ctx, analysis); err != nil {
		t.Fatalf("PublishAnalysis: %v", err)
	}
	if n := client.XLen(ctx, "picks.analyzed.basketball_nba").Val(); n != 3 {
		t.Errorf("stream length = %d, want 3 after the dedup TTL", n)
	}

	if err := dedup.Clear(ctx, analysis); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if ok, _ := dedup.ShouldPublish(ctx, analysis); !ok {
		t.Error("cleared analysis should publish again")
	}
}
