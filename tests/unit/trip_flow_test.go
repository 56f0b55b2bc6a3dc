package unit

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/a0929639992ca-hub/TokyoTraveler/internal/domain/transit"
	"github.com/a0929639992ca-hub/TokyoTraveler/internal/domain/trip"
	"github.com/a0929639992ca-hub/TokyoTraveler/internal/infra/llm/gemini"
	"github.com/a0929639992ca-hub/TokyoTraveler/internal/infra/tripstore"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubRouteClient struct {
	mu    sync.Mutex
	calls int
}

func (c *stubRouteClient) GenerateContent(_ context.Context, _ gemini.GenerateRequest) (gemini.GenerateResponse, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	payload, _ := json.Marshal(map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{
				{"text": `{"type":"TRAIN","durationMinutes":9,"details":"[JY 山手線] 上野 -> 秋葉原 | 中央改札"}`},
			}}},
		},
	})
	var resp gemini.GenerateResponse
	_ = json.Unmarshal(payload, &resp)
	return resp, nil
}

// The full path a returning user takes: legacy keys on disk, hydration
// migrates them, the first edit persists the versioned document and drops
// the legacy keys, and the scheduler backfills the transport hops of the
// touched day.
func TestLegacyUserUpgradeFlow(t *testing.T) {
	store := tripstore.NewMemoryStore()
	store.SeedLegacy(
		[]byte(`[{"id":"d1","date":"01/27","dayOfWeek":"Tue","items":[
			{"id":"a","type":"SIGHTSEEING","name":"上野公園","startTime":"09:00"},
			{"id":"b","type":"SHOPPING","name":"秋葉原","startTime":"11:00"},
			{"id":"c","type":"FOOD","name":"月島もんじゃ","startTime":"13:00"}]}]`),
		nil,
		[]byte(`[{"id":"s1","name":"白い恋人","bought":false}]`),
	)

	logger := newTestLogger()
	trips, err := trip.NewService(trip.NewRepository(store, logger), logger)
	require.NoError(t, err)

	day, ok := trips.Day("d1")
	require.True(t, ok)
	require.Len(t, day.Items, 3)
	require.Len(t, trips.ShoppingList(), 1)

	client := &stubRouteClient{}
	scheduler := transit.NewScheduler(transit.Config{
		Model: "gemini-2.0-flash", BaseDelay: time.Millisecond, StaggerStep: time.Millisecond, QueueSize: 8,
	}, trips, client, logger)
	trips.SetScheduleObserver(scheduler.Sync)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go scheduler.Run(ctx)

	// The first edit re-saves under the versioned key and retires the
	// legacy ones.
	_, err = trips.AddExpense(context.Background(), trip.ExpenseItem{
		Category: trip.ExpenseFood, Name: "もんじゃ焼き", Date: "01/27", AmountJpy: 1500, PaymentMethod: trip.PaymentCash,
	})
	require.NoError(t, err)

	_, ok, err = store.LoadLegacy(context.Background())
	require.NoError(t, err)
	require.False(t, ok)

	blob, ok, err := store.LoadBlob(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.Contains(t, string(blob), "上野公園")

	// A schedule edit triggers enrichment of the whole day, pair by pair.
	_, err = trips.AddItem(context.Background(), "d1", trip.ItineraryItem{
		Type: trip.ItineraryOther, Name: "東京駅", StartTime: "15:00",
	})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		day, _ := trips.Day("d1")
		resolved := 0
		for _, item := range day.Items {
			if item.TransportToNext != nil {
				resolved++
			}
		}
		return resolved == len(day.Items)-1
	}, 2*time.Second, 10*time.Millisecond)

	day, _ = trips.Day("d1")
	require.Nil(t, day.Items[len(day.Items)-1].TransportToNext)
	for _, item := range day.Items[:len(day.Items)-1] {
		require.Equal(t, trip.TransportTrain, item.TransportToNext.Type)
		require.Equal(t, 9, item.TransportToNext.DurationMinutes)
	}

	// The enriched hops survive a reload from storage.
	reloaded, err := trip.NewService(trip.NewRepository(store, logger), logger)
	require.NoError(t, err)
	day, _ = reloaded.Day("d1")
	require.NotNil(t, day.Items[0].TransportToNext)
}
