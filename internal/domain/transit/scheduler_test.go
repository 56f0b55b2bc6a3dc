package transit

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/a0929639992ca-hub/TokyoTraveler/internal/domain/trip"
	"github.com/a0929639992ca-hub/TokyoTraveler/internal/infra/llm/gemini"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSchedulerConfig() Config {
	return Config{
		Model:       "gemini-2.0-flash",
		Temperature: 0.2,
		BaseDelay:   time.Second,
		StaggerStep: 200 * time.Millisecond,
		QueueSize:   16,
	}
}

// stubSource is an in-memory stand-in for the trip model: one day whose
// items gain transport hops as the scheduler patches them.
type stubSource struct {
	mu  sync.Mutex
	day trip.DaySchedule
}

func newStubSource(itemIDs ...string) *stubSource {
	day := trip.DaySchedule{ID: "d1", Date: "01/27"}
	for _, id := range itemIDs {
		day.Items = append(day.Items, trip.ItineraryItem{ID: id, Name: "stop " + id})
	}
	return &stubSource{day: day}
}

func (s *stubSource) Day(dayID string) (trip.DaySchedule, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if dayID != s.day.ID {
		return trip.DaySchedule{}, false
	}
	day := s.day
	day.Items = append([]trip.ItineraryItem(nil), s.day.Items...)
	return day, true
}

func (s *stubSource) PatchTransport(_ context.Context, dayID, itemID string, transport trip.TransportToNext) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if dayID != s.day.ID {
		return false
	}
	for i := range s.day.Items {
		if s.day.Items[i].ID == itemID && i < len(s.day.Items)-1 {
			t := transport
			items := append([]trip.ItineraryItem(nil), s.day.Items...)
			items[i].TransportToNext = &t
			s.day.Items = items
			return true
		}
	}
	return false
}

func (s *stubSource) resolved() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, item := range s.day.Items {
		if item.TransportToNext != nil {
			n++
		}
	}
	return n
}

type stubRouteClient struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	calls     int
}

func (c *stubRouteClient) GenerateContent(_ context.Context, _ gemini.GenerateRequest) (gemini.GenerateResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.calls
	c.calls++
	if i < len(c.errs) && c.errs[i] != nil {
		return gemini.GenerateResponse{}, c.errs[i]
	}
	text := `{"type":"TRAIN","durationMinutes":12,"details":"[G 銀座線] 浅草 -> 上野 | 3番出口"}`
	if i < len(c.responses) {
		text = c.responses[i]
	}
	return textResponse(text), nil
}

func (c *stubRouteClient) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func textResponse(text string) gemini.GenerateResponse {
	payload, _ := json.Marshal(map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
		},
	})
	var resp gemini.GenerateResponse
	_ = json.Unmarshal(payload, &resp)
	return resp
}

// recordDelays swaps the scheduler's sleep for an instant one that logs
// each requested duration. The returned getter is safe to call while the
// worker is running.
func recordDelays(s *Scheduler) func() []time.Duration {
	var (
		mu       sync.Mutex
		recorded []time.Duration
	)
	s.delay = func(_ context.Context, d time.Duration) {
		mu.Lock()
		recorded = append(recorded, d)
		mu.Unlock()
	}
	return func() []time.Duration {
		mu.Lock()
		defer mu.Unlock()
		return append([]time.Duration(nil), recorded...)
	}
}

func TestSyncResolvesPairsLeftToRightWithStagger(t *testing.T) {
	source := newStubSource("a", "b", "c")
	client := &stubRouteClient{}
	s := NewScheduler(testSchedulerConfig(), source, client, newTestLogger())
	delays := recordDelays(s)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	day, _ := source.Day("d1")
	s.Sync(day)

	require.Eventually(t, func() bool { return source.resolved() == 2 }, time.Second, 5*time.Millisecond)
	require.Equal(t, 2, client.callCount())

	day, _ = source.Day("d1")
	require.Equal(t, trip.TransportTrain, day.Items[0].TransportToNext.Type)
	require.Equal(t, 12, day.Items[0].TransportToNext.DurationMinutes)
	require.Nil(t, day.Items[2].TransportToNext)

	// Pair 0 waits the base delay, pair 1 adds one stagger step.
	require.Equal(t, []time.Duration{time.Second, time.Second + 200*time.Millisecond}, delays())
}

func TestSyncDeduplicatesOverlappingTriggers(t *testing.T) {
	source := newStubSource("a", "b")
	client := &stubRouteClient{}
	s := NewScheduler(testSchedulerConfig(), source, client, newTestLogger())
	recordDelays(s)

	day, _ := source.Day("d1")
	s.Sync(day)
	s.Sync(day)
	s.Sync(day)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	require.Eventually(t, func() bool { return source.resolved() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, 1, client.callCount())
}

func TestErroredPairWaitsForManualRetry(t *testing.T) {
	source := newStubSource("a", "b")
	client := &stubRouteClient{errs: []error{errors.New("upstream 500")}}
	s := NewScheduler(testSchedulerConfig(), source, client, newTestLogger())
	delays := recordDelays(s)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	day, _ := source.Day("d1")
	s.Sync(day)

	require.Eventually(t, func() bool {
		day, _ := source.Day("d1")
		return s.Statuses(day)["a"] == StatusError
	}, time.Second, 5*time.Millisecond)

	// A plain re-sync must not retry the errored pair.
	day, _ = source.Day("d1")
	s.Sync(day)
	time.Sleep(20 * time.Millisecond)
	require.Equal(t, 1, client.callCount())

	require.NoError(t, s.Retry("d1", "a"))
	require.Eventually(t, func() bool { return source.resolved() == 1 }, time.Second, 5*time.Millisecond)

	// The retry goes out immediately: only the first attempt slept.
	require.Len(t, delays(), 1)
}

func TestRetryValidatesTarget(t *testing.T) {
	source := newStubSource("a", "b")
	s := NewScheduler(testSchedulerConfig(), source, &stubRouteClient{}, newTestLogger())

	require.Error(t, s.Retry("nope", "a"))
	// The last item has no successor.
	require.Error(t, s.Retry("d1", "b"))
}

func TestNilClientMarksPairErrored(t *testing.T) {
	source := newStubSource("a", "b")
	s := NewScheduler(testSchedulerConfig(), source, nil, newTestLogger())
	recordDelays(s)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	day, _ := source.Day("d1")
	s.Sync(day)

	require.Eventually(t, func() bool {
		day, _ := source.Day("d1")
		return s.Statuses(day)["a"] == StatusError
	}, time.Second, 5*time.Millisecond)
	require.Equal(t, 0, source.resolved())
}

func TestStatusesReflectItemState(t *testing.T) {
	source := newStubSource("a", "b", "c")
	s := NewScheduler(testSchedulerConfig(), source, &stubRouteClient{}, newTestLogger())

	day, _ := source.Day("d1")
	statuses := s.Statuses(day)
	require.Equal(t, StatusUnrequested, statuses["a"])
	require.Equal(t, StatusUnrequested, statuses["b"])
	// The last item carries no hop at all.
	require.NotContains(t, statuses, "c")

	source.PatchTransport(context.Background(), "d1", "a", trip.TransportToNext{Type: trip.TransportWalk, DurationMinutes: 3})
	day, _ = source.Day("d1")
	require.Equal(t, StatusResolved, s.Statuses(day)["a"])
}

func TestPlanFallbacksAndFences(t *testing.T) {
	source := newStubSource("a", "b")
	client := &stubRouteClient{responses: []string{
		"```json\n{\"type\":\"WALK\",\"durationMinutes\":0,\"details\":\"\"}\n```",
	}}
	s := NewScheduler(testSchedulerConfig(), source, client, newTestLogger())

	route, err := s.plan(context.Background(), "浅草寺", "上野駅")
	require.NoError(t, err)
	require.Equal(t, trip.TransportWalk, route.Type)
	require.Equal(t, fallbackDuration, route.DurationMinutes)
	require.Equal(t, "路線規劃完成", route.Details)
}

func TestPlanRejectsUnusableType(t *testing.T) {
	source := newStubSource("a", "b")
	client := &stubRouteClient{responses: []string{`{"type":"TELEPORT","durationMinutes":1,"details":"なし"}`}}
	s := NewScheduler(testSchedulerConfig(), source, client, newTestLogger())

	_, err := s.plan(context.Background(), "浅草寺", "上野駅")
	require.Error(t, err)
}
