package transit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/a0929639992ca-hub/TokyoTraveler/internal/domain/trip"
	"github.com/a0929639992ca-hub/TokyoTraveler/internal/infra/llm/gemini"
	apperrors "github.com/a0929639992ca-hub/TokyoTraveler/pkg/errors"
	"github.com/a0929639992ca-hub/TokyoTraveler/pkg/metrics"
)

const fallbackDuration = 15

// ScheduleSource is what the scheduler needs from the trip model: a day
// lookup for re-scans and the single-item transport patch.
type ScheduleSource interface {
	Day(dayID string) (trip.DaySchedule, bool)
	PatchTransport(ctx context.Context, dayID, itemID string, transport trip.TransportToNext) bool
}

// RouteClient issues generateContent calls. Nil when no API key is set, in
// which case every pair errors out and only manual retry re-attempts.
type RouteClient interface {
	GenerateContent(ctx context.Context, req gemini.GenerateRequest) (gemini.GenerateResponse, error)
}

type task struct {
	dayID    string
	fromID   string
	toID     string
	fromName string
	toName   string
	delay    time.Duration
}

// Scheduler lazily fills in the transport hop of every adjacent item pair
// of a day. One pair is scheduled per observed change; completing a pair
// re-scans the day for the next one. A pending set keyed by (fromID,toID)
// deduplicates overlapping triggers, and the per-pair stagger delay keeps a
// freshly loaded day from bursting the inference endpoint.
type Scheduler struct {
	cfg    Config
	trips  ScheduleSource
	client RouteClient
	logger *slog.Logger

	mu      sync.Mutex
	pending map[string]struct{}
	status  map[string]Status

	tasks chan task
	delay func(ctx context.Context, d time.Duration)
}

// NewScheduler constructs the scheduler. Run must be started for tasks to
// drain.
func NewScheduler(cfg Config, trips ScheduleSource, client RouteClient, logger *slog.Logger) *Scheduler {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 16
	}
	return &Scheduler{
		cfg:     cfg,
		trips:   trips,
		client:  client,
		logger:  logger.With("component", "transit.scheduler"),
		pending: make(map[string]struct{}),
		status:  make(map[string]Status),
		tasks:   make(chan task, cfg.QueueSize),
		delay:   sleepContext,
	}
}

// Run drains the task queue until the context is canceled.
func (s *Scheduler) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-s.tasks:
			s.process(ctx, t)
		}
	}
}

// Sync scans the day's adjacent pairs left to right and schedules the first
// one still missing a transport hop. The stagger delay grows with the pair
// index so a bulk-edited day trickles out instead of bursting.
func (s *Scheduler) Sync(day trip.DaySchedule) {
	for i := 0; i < len(day.Items)-1; i++ {
		from := day.Items[i]
		if from.TransportToNext != nil {
			continue
		}
		s.mu.Lock()
		st := s.status[from.ID]
		s.mu.Unlock()
		if st == StatusLoading || st == StatusError {
			continue
		}
		to := day.Items[i+1]
		s.enqueue(task{
			dayID:    day.ID,
			fromID:   from.ID,
			toID:     to.ID,
			fromName: from.Name,
			toName:   to.Name,
			delay:    s.cfg.BaseDelay + time.Duration(i)*s.cfg.StaggerStep,
		})
		return
	}
}

// Retry re-attempts a pair that previously errored. Issued immediately,
// without the stagger delay. Retrying a pair that is already in flight is
// dropped by the pending set, so rapid retries converge to one outcome.
func (s *Scheduler) Retry(dayID, itemID string) error {
	day, ok := s.trips.Day(dayID)
	if !ok {
		return apperrors.Wrap("not_found", "day not found", nil)
	}
	for i := 0; i < len(day.Items)-1; i++ {
		from := day.Items[i]
		if from.ID != itemID {
			continue
		}
		s.mu.Lock()
		delete(s.status, from.ID)
		s.mu.Unlock()
		to := day.Items[i+1]
		s.enqueue(task{
			dayID:    dayID,
			fromID:   from.ID,
			toID:     to.ID,
			fromName: from.Name,
			toName:   to.Name,
		})
		return nil
	}
	return apperrors.Wrap("not_found", "item has no successor to route to", nil)
}

// Statuses reports the enrichment state of every item of a day that still
// has a successor.
func (s *Scheduler) Statuses(day trip.DaySchedule) map[string]Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Status, len(day.Items))
	for i := 0; i < len(day.Items)-1; i++ {
		item := day.Items[i]
		if item.TransportToNext != nil {
			out[item.ID] = StatusResolved
			continue
		}
		if st, ok := s.status[item.ID]; ok {
			out[item.ID] = st
			continue
		}
		out[item.ID] = StatusUnrequested
	}
	return out
}

func (s *Scheduler) enqueue(t task) {
	key := pairKey(t.fromID, t.toID)
	s.mu.Lock()
	if _, inFlight := s.pending[key]; inFlight {
		s.mu.Unlock()
		return
	}
	s.pending[key] = struct{}{}
	s.status[t.fromID] = StatusLoading
	s.mu.Unlock()

	select {
	case s.tasks <- t:
	default:
		s.mu.Lock()
		delete(s.pending, key)
		delete(s.status, t.fromID)
		s.mu.Unlock()
		s.logger.Warn("transit queue full, dropping pair", "from", t.fromID, "to", t.toID)
	}
}

func (s *Scheduler) process(ctx context.Context, t task) {
	if t.delay > 0 {
		s.delay(ctx, t.delay)
	}
	if ctx.Err() != nil {
		s.finish(t, StatusUnrequested)
		return
	}

	route, err := s.plan(ctx, t.fromName, t.toName)
	if err != nil {
		s.logger.Warn("transit suggestion failed", "from", t.fromName, "to", t.toName, "error", err)
		s.finish(t, StatusError)
		return
	}

	// Patching by id makes a deleted item a harmless no-op.
	s.trips.PatchTransport(ctx, t.dayID, t.fromID, route)
	s.finish(t, StatusResolved)

	if day, ok := s.trips.Day(t.dayID); ok {
		s.Sync(day)
	}
}

func (s *Scheduler) finish(t task, st Status) {
	s.mu.Lock()
	delete(s.pending, pairKey(t.fromID, t.toID))
	switch st {
	case StatusError:
		s.status[t.fromID] = StatusError
	default:
		delete(s.status, t.fromID)
	}
	s.mu.Unlock()
}

func (s *Scheduler) plan(ctx context.Context, from, to string) (trip.TransportToNext, error) {
	if s.client == nil {
		return trip.TransportToNext{}, apperrors.Wrap("llm_unavailable", "gemini api key is not configured", nil)
	}

	prompt := buildRoutePrompt(from, to)
	s.logger.Info("transit suggestion request", "from", from, "to", to,
		"prompt_tokens", metrics.EstimateTokens(prompt))

	resp, err := s.client.GenerateContent(ctx, gemini.GenerateRequest{
		Model: s.cfg.Model,
		Contents: []gemini.Content{
			{Role: "user", Parts: []gemini.Part{{Text: prompt}}},
		},
		GenerationConfig: &gemini.GenerationConfig{
			Temperature:      s.cfg.Temperature,
			ResponseMIMEType: "application/json",
		},
	})
	if err != nil {
		return trip.TransportToNext{}, apperrors.Wrap("llm_error", "gemini request failed", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return trip.TransportToNext{}, apperrors.Wrap("llm_error", "gemini returned no content", nil)
	}

	var wire suggestion
	if err := json.Unmarshal([]byte(stripCodeFences(text)), &wire); err != nil {
		return trip.TransportToNext{}, apperrors.Wrap("llm_error", "gemini response malformed", err)
	}
	if !wire.usable() {
		return trip.TransportToNext{}, apperrors.Wrap("llm_error", "gemini returned unusable transport type "+wire.Type, nil)
	}

	route := trip.TransportToNext{
		Type:            trip.TransportType(wire.Type),
		DurationMinutes: wire.DurationMinutes,
		Details:         strings.TrimSpace(wire.Details),
	}
	if route.DurationMinutes <= 0 {
		route.DurationMinutes = fallbackDuration
	}
	if route.Details == "" {
		route.Details = "路線規劃完成"
	}
	return route, nil
}

func buildRoutePrompt(from, to string) string {
	return fmt.Sprintf(`You are a Tokyo local transport expert. Provide the best route from %q to %q.
STRICT RULES:
1. Use JAPANESE (Kanji/Kana) for all Station names and Line names.
2. Return JSON ONLY: type(TRAIN, WALK, CAR), durationMinutes(number), details(string).
3. Details Format: "[LineCode LineName] Station -> Station | Exit/Transfer Info".`, from, to)
}

func stripCodeFences(raw string) string {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.Trim(cleaned, "`")
	return strings.TrimSpace(strings.TrimPrefix(cleaned, "json"))
}

func pairKey(fromID, toID string) string {
	return fromID + "->" + toID
}

func sleepContext(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
