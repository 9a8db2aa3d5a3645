package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/XavierBriggs/fortuna/services/pick-service/internal/config"
	"github.com/XavierBriggs/fortuna/services/pick-service/internal/hub"
	"github.com/XavierBriggs/fortuna/services/pick-service/internal/logging"
	"github.com/XavierBriggs/fortuna/services/pick-service/internal/slate"
	"github.com/XavierBriggs/fortuna/services/pick-service/internal/sports"
	"github.com/XavierBriggs/fortuna/services/pick-service/internal/store"
	"github.com/XavierBriggs/fortuna/services/pick-service/internal/strategy"
	"github.com/XavierBriggs/fortuna/services/pick-service/pkg/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SlateBuilder analyzes one sport's slate
type SlateBuilder interface {
	Build(ctx context.Context, sportKey string, date time.Time) (*slate.Slate, error)
}

// StrategyBuilder turns picks into a daily strategy
type StrategyBuilder interface {
	BuildStrategy(req strategy.Request) *models.DailyStrategy
}

// StrategyPublisher announces saved strategies downstream
type StrategyPublisher interface {
	PublishStrategy(ctx context.Context, s *models.DailyStrategy) error
}

// LiveFeed attaches websocket subscribers
type LiveFeed interface {
	ServeWS(ctx context.Context, w http.ResponseWriter, r *http.Request)
	ClientCount() int
	Metrics() map[string]interface{}
}

// TokenGauge reports what is left of an outbound rate-limit budget
type TokenGauge interface {
	GetTokens(ctx context.Context) (int, error)
}

// ErrorResponse is the JSON body of every error reply
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// StrategyRequest is the body of POST /api/v1/strategy
type StrategyRequest struct {
	Picks    []models.Pick   `json:"picks"`
	Bankroll *float64        `json:"bankroll,omitempty"`
	RiskMode models.RiskMode `json:"risk_mode,omitempty"`
	Date     string          `json:"date,omitempty"`
}

// Dependencies wires the handler's collaborators. Store, Publisher,
// Broadcaster, Live and RateLimit are optional.
type Dependencies struct {
	Slates      SlateBuilder
	Allocator   StrategyBuilder
	Store       store.StrategyStore
	Publisher   StrategyPublisher
	Broadcaster slate.Broadcaster
	Live        LiveFeed
	RateLimit   TokenGauge
	Sports      *sports.Registry
	Defaults    config.StrategyConfig
	Logger      logrus.FieldLogger

	// BaseContext bounds websocket connections; they outlive the upgrade request
	BaseContext context.Context
}

// Handler contains dependencies for HTTP handlers
type Handler struct {
	deps   Dependencies
	logger logrus.FieldLogger
	now    func() time.Time
}

// NewHandler creates a new handler with dependencies
func NewHandler(deps Dependencies) *Handler {
	if deps.Sports == nil {
		deps.Sports = sports.New()
	}
	if deps.BaseContext == nil {
		deps.BaseContext = context.Background()
	}
	if !deps.Defaults.DefaultRiskMode.Valid() {
		deps.Defaults.DefaultRiskMode = models.RiskBalanced
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Handler{
		deps:   deps,
		logger: logger.WithField("component", "http"),
		now:    time.Now,
	}
}

// HealthCheck returns the health status of the service
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if h.deps.Store != nil {
		if err := h.deps.Store.Ping(ctx); err != nil {
			h.respondError(w, http.StatusServiceUnavailable, "database unhealthy", err)
			return
		}
	}

	resp := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   h.now().UTC(),
		"service":     "pick-service",
		"sports":      h.enabledKeys(),
		"persistence": h.deps.Store != nil,
	}
	if h.deps.Live != nil {
		resp["ws_clients"] = h.deps.Live.ClientCount()
	}
	respondJSON(w, http.StatusOK, resp)
}

// GetSports lists the enabled sports
func (h *Handler) GetSports(w http.ResponseWriter, r *http.Request) {
	enabled := h.deps.Sports.EnabledSports()
	out := make([]map[string]interface{}, 0, len(enabled))
	for _, p := range enabled {
		out = append(out, map[string]interface{}{
			"key":          p.Key,
			"display_name": p.DisplayName,
			"soccer":       p.Soccer,
		})
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"sports": out,
		"count":  len(out),
	})
}

// GetPicks analyzes a sport's slate
// Query params: sport (required), date (YYYY-MM-DD, default today)
func (h *Handler) GetPicks(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	sportKey := r.URL.Query().Get("sport")
	if sportKey == "" {
		h.respondError(w, http.StatusBadRequest, "sport is required", nil)
		return
	}
	if _, err := h.deps.Sports.Get(sportKey); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	date, err := parseDate(r.URL.Query().Get("date"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "date must be YYYY-MM-DD", err)
		return
	}

	s, err := h.deps.Slates.Build(ctx, sportKey, date)
	if err != nil {
		h.respondError(w, http.StatusBadGateway, "failed to load slate", err)
		return
	}

	respondJSON(w, http.StatusOK, s)
}

// BuildStrategy sizes a strategy for caller-supplied picks without persisting it
func (h *Handler) BuildStrategy(w http.ResponseWriter, r *http.Request) {
	var req StrategyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	mode, ok := h.riskMode(string(req.RiskMode))
	if !ok {
		h.respondError(w, http.StatusBadRequest, "risk_mode must be conservative, balanced or aggressive", nil)
		return
	}

	bankroll := h.deps.Defaults.DefaultBankroll
	if req.Bankroll != nil {
		bankroll = *req.Bankroll
	}

	date := req.Date
	if date == "" {
		date = h.now().Format(slate.DateLayout)
	}

	result := h.deps.Allocator.BuildStrategy(strategy.Request{
		Picks:    req.Picks,
		Bankroll: bankroll,
		RiskMode: mode,
		Date:     date,
	})

	respondJSON(w, http.StatusOK, result)
}

// GetStrategy runs the full pipeline: analyze slates, allocate, persist, publish
// Query params: sport (comma-separated, default all enabled), date, bankroll, risk_mode
func (h *Handler) GetStrategy(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 90*time.Second)
	defer cancel()

	q := r.URL.Query()

	keys := h.enabledKeys()
	if raw := q.Get("sport"); raw != "" {
		keys = keys[:0]
		for _, k := range strings.Split(raw, ",") {
			k = strings.TrimSpace(k)
			if k == "" {
				continue
			}
			if _, err := h.deps.Sports.Get(k); err != nil {
				h.respondError(w, http.StatusBadRequest, err.Error(), nil)
				return
			}
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		h.respondError(w, http.StatusBadRequest, "no sports selected", nil)
		return
	}

	date, err := parseDate(q.Get("date"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "date must be YYYY-MM-DD", err)
		return
	}

	mode, ok := h.riskMode(q.Get("risk_mode"))
	if !ok {
		h.respondError(w, http.StatusBadRequest, "risk_mode must be conservative, balanced or aggressive", nil)
		return
	}

	bankroll := h.deps.Defaults.DefaultBankroll
	if raw := q.Get("bankroll"); raw != "" {
		bankroll, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, "bankroll must be a number", err)
			return
		}
	}

	var picks []models.Pick
	loaded := 0
	for _, key := range keys {
		s, err := h.deps.Slates.Build(ctx, key, date)
		if err != nil {
			logging.WithSport(h.logger, key).WithError(err).Warn("skipping sport, slate unavailable")
			continue
		}
		loaded++
		picks = append(picks, s.Picks...)
	}
	if loaded == 0 {
		h.respondError(w, http.StatusBadGateway, "failed to load any slate", nil)
		return
	}

	dateLabel := date
	if dateLabel.IsZero() {
		dateLabel = h.now()
	}

	result := h.deps.Allocator.BuildStrategy(strategy.Request{
		Picks:    picks,
		Bankroll: bankroll,
		RiskMode: mode,
		Date:     dateLabel.Format(slate.DateLayout),
	})
	if result.Empty() {
		h.respondError(w, http.StatusNotFound, "no strategy could be built for this date", nil)
		return
	}

	result.ID = uuid.New().String()
	result.CreatedAt = h.now().UTC()

	if h.deps.Store != nil {
		if err := h.deps.Store.SaveStrategy(ctx, result); err != nil {
			h.respondError(w, http.StatusInternalServerError, "failed to save strategy", err)
			return
		}
	}

	if h.deps.Publisher != nil {
		if err := h.deps.Publisher.PublishStrategy(ctx, result); err != nil {
			h.logger.WithError(err).WithField("strategy_id", result.ID).Warn("error publishing strategy")
		}
	}

	if h.deps.Broadcaster != nil {
		h.deps.Broadcaster.Broadcast(hub.Update{Type: hub.MessageTypeStrategy, Payload: result})
	}

	respondJSON(w, http.StatusOK, result)
}

// GetStrategyByID retrieves a stored strategy
func (h *Handler) GetStrategyByID(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if h.deps.Store == nil {
		h.respondError(w, http.StatusServiceUnavailable, "strategy persistence is disabled", nil)
		return
	}

	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid strategy ID", err)
		return
	}

	s, err := h.deps.Store.GetStrategy(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		h.respondError(w, http.StatusNotFound, "strategy not found", nil)
		return
	}
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to retrieve strategy", err)
		return
	}

	respondJSON(w, http.StatusOK, s)
}

// ListStrategies lists stored strategies for a date (default today)
func (h *Handler) ListStrategies(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if h.deps.Store == nil {
		h.respondError(w, http.StatusServiceUnavailable, "strategy persistence is disabled", nil)
		return
	}

	date, err := parseDate(r.URL.Query().Get("date"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "date must be YYYY-MM-DD", err)
		return
	}
	if date.IsZero() {
		date = h.now()
	}
	label := date.Format(slate.DateLayout)

	list, err := h.deps.Store.ListStrategies(ctx, label)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to retrieve strategies", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"date":       label,
		"strategies": list,
		"count":      len(list),
	})
}

// ServeWS upgrades the connection onto the live feed
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	if h.deps.Live == nil {
		h.respondError(w, http.StatusServiceUnavailable, "live feed is disabled", nil)
		return
	}
	h.deps.Live.ServeWS(h.deps.BaseContext, w, r)
}

// GetMetrics returns live feed counters and the remaining provider rate-limit tokens
func (h *Handler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	if h.deps.Live == nil && h.deps.RateLimit == nil {
		h.respondError(w, http.StatusServiceUnavailable, "metrics are disabled", nil)
		return
	}

	metrics := map[string]interface{}{}
	if h.deps.Live != nil {
		for k, v := range h.deps.Live.Metrics() {
			metrics[k] = v
		}
	}

	if h.deps.RateLimit != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		tokens, err := h.deps.RateLimit.GetTokens(ctx)
		if err != nil {
			h.logger.WithError(err).Warn("failed to read rate limit tokens")
			metrics["provider_tokens"] = nil
		} else {
			metrics["provider_tokens"] = tokens
		}
	}

	respondJSON(w, http.StatusOK, metrics)
}

// Helper functions

func (h *Handler) enabledKeys() []string {
	enabled := h.deps.Sports.EnabledSports()
	keys := make([]string, 0, len(enabled))
	for _, p := range enabled {
		keys = append(keys, p.Key)
	}
	return keys
}

func (h *Handler) riskMode(raw string) (models.RiskMode, bool) {
	if raw == "" {
		return h.deps.Defaults.DefaultRiskMode, true
	}
	mode := models.RiskMode(strings.ToLower(raw))
	return mode, mode.Valid()
}

// parseDate accepts YYYY-MM-DD; empty yields the zero time
func parseDate(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(slate.DateLayout, raw)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logrus.WithError(err).Error("error encoding response")
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	errResp := ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	}

	if err != nil {
		h.logger.WithError(err).WithField("status", status).Warn(message)
	}

	if err := json.NewEncoder(w).Encode(errResp); err != nil {
		h.logger.WithError(err).Error("error encoding error response")
	}
}
