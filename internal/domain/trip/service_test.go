package trip_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/a0929639992ca-hub/TokyoTraveler/internal/domain/trip"
	"github.com/a0929639992ca-hub/TokyoTraveler/internal/infra/tripstore"
	apperrors "github.com/a0929639992ca-hub/TokyoTraveler/pkg/errors"
)

func newTestService(t *testing.T) (*trip.Service, *tripstore.MemoryStore) {
	t.Helper()
	store := tripstore.NewMemoryStore()
	svc, err := trip.NewService(trip.NewRepository(store, newTestLogger()), newTestLogger())
	require.NoError(t, err)
	return svc, store
}

// seedDay installs a single-day schedule where every item except the last
// carries a transport hop, so tests can observe exactly which hops a
// mutation invalidates.
func seedDay(t *testing.T, svc *trip.Service, ids ...string) trip.DaySchedule {
	t.Helper()
	day := trip.DaySchedule{ID: "d1", Date: "01/27", DayOfWeek: "Tue"}
	for i, id := range ids {
		item := trip.ItineraryItem{
			ID:        id,
			Type:      trip.ItinerarySightseeing,
			Name:      "stop " + id,
			StartTime: "0" + string(rune('1'+i)) + ":00",
		}
		if i < len(ids)-1 {
			item.TransportToNext = &trip.TransportToNext{Type: trip.TransportTrain, DurationMinutes: 10}
		}
		day.Items = append(day.Items, item)
	}
	doc, err := json.Marshal(map[string]any{"schedule": []trip.DaySchedule{day}})
	require.NoError(t, err)
	require.NoError(t, svc.Import(context.Background(), doc))
	got, ok := svc.Day("d1")
	require.True(t, ok)
	return got
}

func TestAddItemSortsByStartTimeAndClearsPredecessor(t *testing.T) {
	svc, _ := newTestService(t)
	seedDay(t, svc, "a", "b", "c")

	created, err := svc.AddItem(context.Background(), "d1", trip.ItineraryItem{
		Type:      trip.ItineraryFood,
		Name:      "ランチ",
		StartTime: "01:30",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.Nil(t, created.TransportToNext)

	day, ok := svc.Day("d1")
	require.True(t, ok)
	require.Len(t, day.Items, 4)
	// Sorted between a (01:00) and b (02:00).
	require.Equal(t, "a", day.Items[0].ID)
	require.Equal(t, created.ID, day.Items[1].ID)
	require.Equal(t, "b", day.Items[2].ID)
	// The predecessor's successor changed, so its hop is stale.
	require.Nil(t, day.Items[0].TransportToNext)
	require.NotNil(t, day.Items[1+1].TransportToNext)
}

func TestAddItemValidatesInput(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AddItem(context.Background(), "day1", trip.ItineraryItem{StartTime: "09:00"})
	require.True(t, apperrors.IsCode(err, "invalid_input"))

	_, err = svc.AddItem(context.Background(), "day1", trip.ItineraryItem{Name: "浅草寺"})
	require.True(t, apperrors.IsCode(err, "invalid_input"))

	_, err = svc.AddItem(context.Background(), "nope", trip.ItineraryItem{Name: "浅草寺", StartTime: "09:00"})
	require.True(t, apperrors.IsCode(err, "not_found"))
}

func TestUpdateItemClearsOwnTransport(t *testing.T) {
	svc, _ := newTestService(t)
	seedDay(t, svc, "a", "b", "c")

	err := svc.UpdateItem(context.Background(), "d1", trip.ItineraryItem{
		ID:        "b",
		Type:      trip.ItineraryShopping,
		Name:      "渋谷",
		StartTime: "02:00",
	})
	require.NoError(t, err)

	day, _ := svc.Day("d1")
	require.Equal(t, "渋谷", day.Items[1].Name)
	require.Nil(t, day.Items[1].TransportToNext)
	// The predecessor's hop still points at the same stop id, so it stays.
	require.NotNil(t, day.Items[0].TransportToNext)
}

func TestDeleteItemClearsPredecessor(t *testing.T) {
	svc, _ := newTestService(t)
	seedDay(t, svc, "a", "b", "c")

	require.NoError(t, svc.DeleteItem(context.Background(), "d1", "b"))

	day, _ := svc.Day("d1")
	require.Len(t, day.Items, 2)
	require.Equal(t, "a", day.Items[0].ID)
	require.Equal(t, "c", day.Items[1].ID)
	require.Nil(t, day.Items[0].TransportToNext)
}

func TestMoveItemClearsOnlyTheNeighborhood(t *testing.T) {
	svc, _ := newTestService(t)
	seedDay(t, svc, "a", "b", "c", "d", "e")

	require.NoError(t, svc.MoveItem(context.Background(), "d1", "b", "down"))

	day, _ := svc.Day("d1")
	require.Equal(t, []string{"a", "c", "b", "d", "e"}, itemIDs(day))
	require.Nil(t, day.Items[0].TransportToNext) // a
	require.Nil(t, day.Items[1].TransportToNext) // c
	require.Nil(t, day.Items[2].TransportToNext) // b
	// d was never adjacent to the swap and keeps its hop.
	require.NotNil(t, day.Items[3].TransportToNext)
	require.Nil(t, day.Items[4].TransportToNext)
}

func TestMoveItemUpClearsAroundTheSwappedPair(t *testing.T) {
	svc, _ := newTestService(t)
	seedDay(t, svc, "a", "b", "c", "d", "e")

	// Moving c up swaps b and c, so a's hop (into the pair) is stale too.
	require.NoError(t, svc.MoveItem(context.Background(), "d1", "c", "up"))

	day, _ := svc.Day("d1")
	require.Equal(t, []string{"a", "c", "b", "d", "e"}, itemIDs(day))
	require.Nil(t, day.Items[0].TransportToNext) // a
	require.Nil(t, day.Items[1].TransportToNext) // c
	require.Nil(t, day.Items[2].TransportToNext) // b
	// d sits below the swap and keeps its hop.
	require.NotNil(t, day.Items[3].TransportToNext)
	require.Nil(t, day.Items[4].TransportToNext)
}

func TestMoveItemRejectsEdges(t *testing.T) {
	svc, _ := newTestService(t)
	seedDay(t, svc, "a", "b")

	err := svc.MoveItem(context.Background(), "d1", "a", "up")
	require.True(t, apperrors.IsCode(err, "invalid_input"))
	err = svc.MoveItem(context.Background(), "d1", "b", "down")
	require.True(t, apperrors.IsCode(err, "invalid_input"))
	err = svc.MoveItem(context.Background(), "d1", "a", "sideways")
	require.True(t, apperrors.IsCode(err, "invalid_input"))
}

func TestPatchTransport(t *testing.T) {
	svc, _ := newTestService(t)
	seedDay(t, svc, "a", "b", "c")

	route := trip.TransportToNext{Type: trip.TransportWalk, DurationMinutes: 5, Details: "徒歩"}
	require.True(t, svc.PatchTransport(context.Background(), "d1", "a", route))

	day, _ := svc.Day("d1")
	require.Equal(t, &route, day.Items[0].TransportToNext)

	// Patching a vanished item or the last item reports false.
	require.False(t, svc.PatchTransport(context.Background(), "d1", "zz", route))
	require.False(t, svc.PatchTransport(context.Background(), "d1", "c", route))
}

func TestScheduleObserverSeesMutatedDay(t *testing.T) {
	svc, _ := newTestService(t)
	seedDay(t, svc, "a", "b")

	var notified []trip.DaySchedule
	svc.SetScheduleObserver(func(day trip.DaySchedule) {
		notified = append(notified, day)
	})

	_, err := svc.AddItem(context.Background(), "d1", trip.ItineraryItem{Name: "晚餐", StartTime: "09:00"})
	require.NoError(t, err)
	require.Len(t, notified, 1)
	require.Equal(t, "d1", notified[0].ID)
	require.Len(t, notified[0].Items, 3)

	// The transit patch must not re-trigger the observer.
	notified = nil
	svc.PatchTransport(context.Background(), "d1", "a", trip.TransportToNext{Type: trip.TransportCar, DurationMinutes: 8})
	require.Empty(t, notified)
}

func TestExpenseLedger(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AddExpense(context.Background(), trip.ExpenseItem{AmountJpy: 100})
	require.True(t, apperrors.IsCode(err, "invalid_input"))
	_, err = svc.AddExpense(context.Background(), trip.ExpenseItem{Name: "coffee", AmountJpy: 0})
	require.True(t, apperrors.IsCode(err, "invalid_input"))

	first, err := svc.AddExpense(context.Background(), trip.ExpenseItem{
		Category: trip.ExpenseFood, Name: "ラーメン", Date: "01/27", AmountJpy: 1200, PaymentMethod: trip.PaymentCash,
	})
	require.NoError(t, err)
	second, err := svc.AddExpense(context.Background(), trip.ExpenseItem{
		Category: trip.ExpenseTicket, Name: "スカイツリー", Date: "01/28", AmountJpy: 3100, PaymentMethod: trip.PaymentCard,
	})
	require.NoError(t, err)

	require.Equal(t, int64(4300), svc.TotalJpy())

	second.AmountJpy = 2100
	require.NoError(t, svc.UpdateExpense(context.Background(), second))
	require.Equal(t, int64(3300), svc.TotalJpy())

	require.NoError(t, svc.DeleteExpense(context.Background(), first.ID))
	require.Equal(t, int64(2100), svc.TotalJpy())

	err = svc.DeleteExpense(context.Background(), first.ID)
	require.True(t, apperrors.IsCode(err, "not_found"))
}

func TestShoppingList(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AddShoppingItem(context.Background(), "", "")
	require.True(t, apperrors.IsCode(err, "invalid_input"))

	item, err := svc.AddShoppingItem(context.Background(), "東京ばな奈", "photos/banana.jpg")
	require.NoError(t, err)
	require.False(t, item.Bought)

	toggled, err := svc.ToggleBought(context.Background(), item.ID)
	require.NoError(t, err)
	require.True(t, toggled.Bought)

	toggled, err = svc.ToggleBought(context.Background(), item.ID)
	require.NoError(t, err)
	require.False(t, toggled.Bought)

	require.NoError(t, svc.DeleteShoppingItem(context.Background(), item.ID))
	require.Empty(t, svc.ShoppingList())
}

func TestExportImportRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	seedDay(t, svc, "a", "b")
	_, err := svc.AddExpense(context.Background(), trip.ExpenseItem{
		Category: trip.ExpenseFood, Name: "coffee", Date: "01/27", AmountJpy: 500, PaymentMethod: trip.PaymentCash,
	})
	require.NoError(t, err)

	blob, filename, err := svc.Export()
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(filename, "tokyo_backup_"))
	require.True(t, strings.HasSuffix(filename, ".json"))

	fresh, _ := newTestService(t)
	require.NoError(t, fresh.Import(context.Background(), blob))

	want := svc.Snapshot()
	got := fresh.Snapshot()
	require.Equal(t, want.Schedule, got.Schedule)
	require.Equal(t, want.Expenses, got.Expenses)
	require.Equal(t, want.Shopping, got.Shopping)
}

func TestImportPartialReplacesOnlyPresentCollections(t *testing.T) {
	svc, _ := newTestService(t)
	seedDay(t, svc, "a", "b")

	err := svc.Import(context.Background(), []byte(`{"shopping":[{"id":"s1","name":"抹茶","bought":false}]}`))
	require.NoError(t, err)

	day, ok := svc.Day("d1")
	require.True(t, ok)
	require.Len(t, day.Items, 2)
	require.Len(t, svc.ShoppingList(), 1)
}

func TestImportMalformedAppliesNothing(t *testing.T) {
	svc, _ := newTestService(t)
	seedDay(t, svc, "a", "b")
	before := svc.Snapshot()

	err := svc.Import(context.Background(), []byte(`{"schedule":`))
	require.True(t, apperrors.IsCode(err, "invalid_input"))

	after := svc.Snapshot()
	require.Equal(t, before.Schedule, after.Schedule)
	require.Equal(t, before.Expenses, after.Expenses)
	require.Equal(t, before.Shopping, after.Shopping)
}

func itemIDs(day trip.DaySchedule) []string {
	out := make([]string, len(day.Items))
	for i, item := range day.Items {
		out[i] = item.ID
	}
	return out
}
