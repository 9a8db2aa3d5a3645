package slate_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/XavierBriggs/fortuna/services/pick-service/internal/hub"
	"github.com/XavierBriggs/fortuna/services/pick-service/internal/projection"
	"github.com/XavierBriggs/fortuna/services/pick-service/internal/slate"
	"github.com/XavierBriggs/fortuna/services/pick-service/internal/sports"
	"github.com/XavierBriggs/fortuna/services/pick-service/pkg/models"
)

type fakeGames struct {
	mu    sync.Mutex
	games map[string][]models.Game
	err   error
	calls map[string]int
	seen  chan string
}

func (f *fakeGames) Games(ctx context.Context, sportKey string, date time.Time) ([]models.Game, error) {
	f.mu.Lock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[sportKey]++
	f.mu.Unlock()

	if f.seen != nil {
		select {
		case f.seen <- sportKey:
		default:
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.games[sportKey], nil
}

// fakeAnalyzer picks the home side of every game except those listed in fail
type fakeAnalyzer struct {
	fail     map[string]bool
	analyzed []string
	pick     models.PickType
}

func (f *fakeAnalyzer) AnalyzeGames(ctx context.Context, games []models.Game) []projection.Result {
	results := make([]projection.Result, len(games))
	for i, g := range games {
		f.analyzed = append(f.analyzed, g.GameID)
		if f.fail[g.GameID] {
			results[i] = projection.Result{Game: g, Err: errors.New("game " + g.GameID + ": missing team")}
			continue
		}
		pick := f.pick
		if pick == "" {
			pick = models.PickHome
		}
		results[i] = projection.Result{Game: g, Analysis: &models.PickAnalysis{
			GameID:     g.GameID,
			SportKey:   g.SportKey,
			PickType:   pick,
			Confidence: models.ConfidenceHigh,
		}}
	}
	return results
}

type fakePublisher struct {
	mu        sync.Mutex
	published []string
	err       error
}

func (f *fakePublisher) PublishAnalysis(ctx context.Context, a *models.PickAnalysis) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, a.GameID)
	return f.err
}

type fakeBroadcaster struct {
	mu      sync.Mutex
	updates []hub.Update
}

func (f *fakeBroadcaster) Broadcast(u hub.Update) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, u)
}

func game(id string, status models.GameStatus) models.Game {
	return models.Game{
		GameID:    id,
		SportKey:  "basketball_nba",
		Status:    status,
		Home:      models.TeamRef{ID: "1", Abbr: "BOS"},
		Away:      models.TeamRef{ID: "2", Abbr: "NYK"},
		StartTime: time.Date(2026, 1, 15, 19, 0, 0, 0, time.UTC),
	}
}

func nbaSlate() *fakeGames {
	return &fakeGames{games: map[string][]models.Game{
		"basketball_nba": {
			game("g1", models.StatusUpcoming),
			game("g2", models.StatusFinal),
			game("g3", models.StatusLive),
			game("g4", models.StatusUpcoming),
			game("g5", models.StatusPostponed),
		},
	}}
}

func TestServiceBuild(t *testing.T) {
	analyzer := &fakeAnalyzer{fail: map[string]bool{"g4": true}}
	svc := slate.NewService(nbaSlate(), analyzer, nil)

	date := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	s, err := svc.Build(context.Background(), "basketball_nba", date)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if s.Date != "2026-01-15" {
		t.Errorf("Date = %q, want 2026-01-15", s.Date)
	}
	if s.Games != 5 || s.Skipped != 2 {
		t.Errorf("Games/Skipped = %d/%d, want 5/2", s.Games, s.Skipped)
	}
	if got := analyzer.analyzed; len(got) != 3 || got[0] != "g1" || got[1] != "g3" || got[2] != "g4" {
		t.Errorf("analyzed %v, want [g1 g3 g4]", got)
	}
	if len(s.Picks) != 2 {
		t.Fatalf("expected 2 picks, got %d", len(s.Picks))
	}
	if len(s.Failed) != 1 || s.Failed[0].GameID != "g4" {
		t.Errorf("Failed = %+v, want g4", s.Failed)
	}
	if s.Picks[0].Label != "BOS ML" || s.Picks[0].Side != models.SideHome {
		t.Errorf("pick = %q/%s, want BOS ML/home", s.Picks[0].Label, s.Picks[0].Side)
	}
	if len(s.Analyses()) != 2 {
		t.Errorf("Analyses() = %d, want 2", len(s.Analyses()))
	}
}

func TestServiceBuild_SourceError(t *testing.T) {
	svc := slate.NewService(&fakeGames{err: errors.New("espn down")}, &fakeAnalyzer{}, nil)

	if _, err := svc.Build(context.Background(), "basketball_nba", time.Time{}); err == nil {
		t.Fatal("expected error when the scoreboard cannot be loaded")
	}
}

func TestServiceBuild_EmptySlate(t *testing.T) {
	svc := slate.NewService(&fakeGames{}, &fakeAnalyzer{}, nil)

	s, err := svc.Build(context.Background(), "basketball_nba", time.Time{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if s.Picks == nil || s.Failed == nil {
		t.Error("empty slate should carry non-nil collections")
	}
	if s.Date == "" {
		t.Error("zero date should be labelled with today")
	}
}

func TestPickFrom(t *testing.T) {
	g := game("g1", models.StatusUpcoming)

	tests := []struct {
		name      string
		pick      models.PickType
		wantSide  models.Side
		wantLabel string
	}{
		{"Home", models.PickHome, models.SideHome, "BOS ML"},
		{"Away", models.PickAway, models.SideAway, "NYK ML"},
		{"Draw", models.PickDraw, models.SideDraw, "Draw"},
		{"Away cover", models.PickAwayCover, models.SideAway, "NYK ML"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := slate.PickFrom(g, &models.PickAnalysis{GameID: "g1", PickType: tt.pick})
			if p.Side != tt.wantSide || p.Label != tt.wantLabel {
				t.Errorf("PickFrom() = %s/%q, want %s/%q", p.Side, p.Label, tt.wantSide, tt.wantLabel)
			}
		})
	}

	if p := slate.PickFrom(g, nil); p.Analysis != nil || p.Label != "" {
		t.Errorf("nil analysis should give a bare pick, got %+v", p)
	}
}

func TestRunnerRunOnce(t *testing.T) {
	svc := slate.NewService(nbaSlate(), &fakeAnalyzer{}, nil)
	pub := &fakePublisher{err: errors.New("redis down")}
	bc := &fakeBroadcaster{}

	runner := slate.NewRunner("basketball_nba", svc, pub, bc, time.Minute, nil)
	s, err := runner.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}

	// Publish failures are logged, not returned
	if len(pub.published) != len(s.Picks) {
		t.Errorf("published %d analyses, want %d", len(pub.published), len(s.Picks))
	}
	if len(bc.updates) != 1 {
		t.Fatalf("expected 1 broadcast, got %d", len(bc.updates))
	}

	u := bc.updates[0]
	if u.Type != hub.MessageTypeSlate || u.SportKey != "basketball_nba" {
		t.Errorf("update = %s/%s, want slate/basketball_nba", u.Type, u.SportKey)
	}
	payload, ok := u.Payload.(hub.SlateUpdate)
	if !ok {
		t.Fatalf("payload type %T, want hub.SlateUpdate", u.Payload)
	}
	if len(payload.Picks) != 3 || payload.Failed != 0 {
		t.Errorf("payload picks/failed = %d/%d, want 3/0", len(payload.Picks), payload.Failed)
	}
}

type fakeInvalidator struct {
	sports []string
	err    error
}

func (f *fakeInvalidator) InvalidateSport(ctx context.Context, sportKey string) (int, error) {
	f.sports = append(f.sports, sportKey)
	return 4, f.err
}

func TestRunnerRunOnce_InvalidatesWhenGameGoesFinal(t *testing.T) {
	games := nbaSlate()
	inv := &fakeInvalidator{}
	runner := slate.NewRunner("basketball_nba", slate.NewService(games, &fakeAnalyzer{}, nil), nil, nil, time.Minute, nil).
		WithInvalidator(inv)
	ctx := context.Background()

	// g2 was already final on the first run
	s, err := runner.RunOnce(ctx)
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if len(s.Finished) != 1 || s.Finished[0] != "g2" {
		t.Errorf("finished = %v, want [g2]", s.Finished)
	}
	if len(inv.sports) != 0 {
		t.Fatalf("invalidated %v on the first run", inv.sports)
	}

	games.mu.Lock()
	games.games["basketball_nba"][0].Status = models.StatusFinal
	games.mu.Unlock()

	if _, err := runner.RunOnce(ctx); err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if len(inv.sports) != 1 || inv.sports[0] != "basketball_nba" {
		t.Fatalf("invalidations = %v, want one for basketball_nba", inv.sports)
	}

	// Nothing new went final
	inv.err = errors.New("redis down")
	if _, err := runner.RunOnce(ctx); err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if len(inv.sports) != 1 {
		t.Errorf("invalidations = %v, want no repeat", inv.sports)
	}
}

func TestRunnerRunOnce_NoSinks(t *testing.T) {
	runner := slate.NewRunner("basketball_nba", slate.NewService(nbaSlate(), &fakeAnalyzer{}, nil), nil, nil, 0, nil)

	if _, err := runner.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
}

func TestRunnerRun_StopsOnCancel(t *testing.T) {
	source := nbaSlate()
	source.seen = make(chan string, 1)
	runner := slate.NewRunner("basketball_nba", slate.NewService(source, &fakeAnalyzer{}, nil), nil, nil, time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		runner.Run(ctx)
		close(done)
	}()

	select {
	case <-source.seen:
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not analyze on start")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop after cancel")
	}
}

func TestOrchestratorStart(t *testing.T) {
	reg := sports.New()
	reg.Restrict([]string{"basketball_nba", "soccer_epl"})

	source := &fakeGames{seen: make(chan string, 4)}
	orch := slate.NewOrchestrator(reg, slate.NewService(source, &fakeAnalyzer{}, nil), nil, nil, time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		orch.Start(ctx)
		close(done)
	}()

	seen := map[string]bool{}
	for len(seen) < 2 {
		select {
		case key := <-source.seen:
			seen[key] = true
		case <-time.After(2 * time.Second):
			t.Fatalf("only saw runs for %v", seen)
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("orchestrator did not stop after cancel")
	}

	keys := orch.Sports()
	sort.Strings(keys)
	if len(keys) != 2 || keys[0] != "basketball_nba" || keys[1] != "soccer_epl" {
		t.Errorf("Sports() = %v, want [basketball_nba soccer_epl]", keys)
	}
}
