package trip

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/a0929639992ca-hub/TokyoTraveler/pkg/errors"
)

// Service owns the in-memory TripData and is the only writer. Every
// mutation replaces whole fields (never in-place edits of shared slices),
// is applied atomically under the lock, and is written through to the
// repository. Save failures are logged, not surfaced to the mutating call.
type Service struct {
	repo   *Repository
	logger *slog.Logger

	mu   sync.RWMutex
	data TripData

	newID    func() string
	now      func() time.Time
	observer func(DaySchedule)
}

// NewService hydrates the trip model from storage. The hydrate happens here,
// before the HTTP server exists, so no write can race the initial load.
func NewService(repo *Repository, logger *slog.Logger) (*Service, error) {
	data, err := repo.Load(context.Background())
	if err != nil {
		return nil, err
	}
	return &Service{
		repo:   repo,
		logger: logger.With("component", "trip.service"),
		data:   data,
		newID:  uuid.NewString,
		now:    time.Now,
	}, nil
}

// SetScheduleObserver registers the hook invoked with a copy of a day after
// any schedule mutation. Used by the transit scheduler.
func (s *Service) SetScheduleObserver(fn func(DaySchedule)) {
	s.mu.Lock()
	s.observer = fn
	s.mu.Unlock()
}

// Snapshot returns a copy of the full trip state.
func (s *Service) Snapshot() TripData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return TripData{
		Schedule:  cloneSchedule(s.data.Schedule),
		Expenses:  append([]ExpenseItem(nil), s.data.Expenses...),
		Shopping:  append([]ShoppingItem(nil), s.data.Shopping...),
		LastSaved: s.data.LastSaved,
	}
}

// Days returns a copy of the schedule.
func (s *Service) Days() []DaySchedule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSchedule(s.data.Schedule)
}

// Day returns a copy of one day.
func (s *Service) Day(dayID string) (DaySchedule, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, day := range s.data.Schedule {
		if day.ID == dayID {
			return cloneDay(day), true
		}
	}
	return DaySchedule{}, false
}

// AddItem appends a stop to a day and re-sorts the day by start time. The
// predecessor of the inserted position loses its transport hop since its
// successor changed.
func (s *Service) AddItem(ctx context.Context, dayID string, item ItineraryItem) (ItineraryItem, error) {
	if item.Name == "" {
		return ItineraryItem{}, apperrors.Wrap("invalid_input", "item name cannot be empty", nil)
	}
	if item.StartTime == "" {
		return ItineraryItem{}, apperrors.Wrap("invalid_input", "item start time cannot be empty", nil)
	}
	item.ID = s.newID()
	item.TransportToNext = nil

	day, err := s.mutateDay(ctx, dayID, func(items []ItineraryItem) ([]ItineraryItem, error) {
		items = append(items, item)
		sortByStartTime(items)
		idx := indexOf(items, item.ID)
		if idx > 0 {
			items[idx-1] = clearTransport(items[idx-1])
		}
		return items, nil
	})
	if err != nil {
		return ItineraryItem{}, err
	}
	s.notify(day)
	return item, nil
}

// UpdateItem performs a full-field replacement of a stop, keeping its id.
// The replaced stop drops its transport hop; the day is re-sorted.
func (s *Service) UpdateItem(ctx context.Context, dayID string, item ItineraryItem) error {
	if item.ID == "" {
		return apperrors.Wrap("invalid_input", "item id cannot be empty", nil)
	}
	day, err := s.mutateDay(ctx, dayID, func(items []ItineraryItem) ([]ItineraryItem, error) {
		idx := indexOf(items, item.ID)
		if idx < 0 {
			return nil, apperrors.Wrap("not_found", "itinerary item not found", nil)
		}
		replaced := item
		replaced.TransportToNext = nil
		items[idx] = replaced
		sortByStartTime(items)
		return items, nil
	})
	if err != nil {
		return err
	}
	s.notify(day)
	return nil
}

// DeleteItem removes a stop. Its predecessor loses its transport hop.
func (s *Service) DeleteItem(ctx context.Context, dayID, itemID string) error {
	day, err := s.mutateDay(ctx, dayID, func(items []ItineraryItem) ([]ItineraryItem, error) {
		idx := indexOf(items, itemID)
		if idx < 0 {
			return nil, apperrors.Wrap("not_found", "itinerary item not found", nil)
		}
		if idx > 0 {
			items[idx-1] = clearTransport(items[idx-1])
		}
		return append(items[:idx], items[idx+1:]...), nil
	})
	if err != nil {
		return err
	}
	s.notify(day)
	return nil
}

// MoveItem swaps a stop with its neighbor in the given direction. The swapped
// pair and the stop preceding it lose their transport hops so the scheduler
// recomputes them; stops further away keep theirs.
func (s *Service) MoveItem(ctx context.Context, dayID, itemID, direction string) error {
	if direction != "up" && direction != "down" {
		return apperrors.Wrap("invalid_input", "direction must be up or down", nil)
	}
	day, err := s.mutateDay(ctx, dayID, func(items []ItineraryItem) ([]ItineraryItem, error) {
		idx := indexOf(items, itemID)
		if idx < 0 {
			return nil, apperrors.Wrap("not_found", "itinerary item not found", nil)
		}
		target := idx + 1
		if direction == "up" {
			target = idx - 1
		}
		if target < 0 || target >= len(items) {
			return nil, apperrors.Wrap("invalid_input", "item is already at the edge of the day", nil)
		}
		lo := idx
		if target < idx {
			lo = target
		}
		for _, i := range []int{lo - 1, lo, lo + 1} {
			if i >= 0 && i < len(items) {
				items[i] = clearTransport(items[i])
			}
		}
		items[idx], items[target] = items[target], items[idx]
		return items, nil
	})
	if err != nil {
		return err
	}
	s.notify(day)
	return nil
}

// PatchTransport sets the transport hop on a single stop. This is the one
// partial patch in the model, used by the transit scheduler. Patching an
// item that no longer exists is a no-op and reports false.
func (s *Service) PatchTransport(ctx context.Context, dayID, itemID string, transport TransportToNext) bool {
	s.mu.Lock()
	patched := false
	for di, day := range s.data.Schedule {
		if day.ID != dayID {
			continue
		}
		items := append([]ItineraryItem(nil), day.Items...)
		for ii := range items {
			if items[ii].ID != itemID {
				continue
			}
			if ii == len(items)-1 {
				break // no successor, nothing to describe
			}
			t := transport
			items[ii].TransportToNext = &t
			patched = true
		}
		if patched {
			updated := day
			updated.Items = items
			schedule := append([]DaySchedule(nil), s.data.Schedule...)
			schedule[di] = updated
			s.data.Schedule = schedule
		}
		break
	}
	if patched {
		s.persistLocked(ctx)
	}
	s.mu.Unlock()
	return patched
}

// Expenses returns the ledger in insertion order.
func (s *Service) Expenses() []ExpenseItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ExpenseItem(nil), s.data.Expenses...)
}

// TotalJpy sums the ledger.
func (s *Service) TotalJpy() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total int64
	for _, e := range s.data.Expenses {
		total += e.AmountJpy
	}
	return total
}

// AddExpense appends a ledger entry.
func (s *Service) AddExpense(ctx context.Context, expense ExpenseItem) (ExpenseItem, error) {
	if expense.Name == "" {
		return ExpenseItem{}, apperrors.Wrap("invalid_input", "expense name cannot be empty", nil)
	}
	if expense.AmountJpy <= 0 {
		return ExpenseItem{}, apperrors.Wrap("invalid_input", "expense amount must be positive", nil)
	}
	expense.ID = s.newID()
	s.mu.Lock()
	s.data.Expenses = append(append([]ExpenseItem(nil), s.data.Expenses...), expense)
	s.persistLocked(ctx)
	s.mu.Unlock()
	return expense, nil
}

// UpdateExpense replaces a ledger entry wholesale, keeping its id.
func (s *Service) UpdateExpense(ctx context.Context, expense ExpenseItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.data.Expenses {
		if existing.ID != expense.ID {
			continue
		}
		expenses := append([]ExpenseItem(nil), s.data.Expenses...)
		expenses[i] = expense
		s.data.Expenses = expenses
		s.persistLocked(ctx)
		return nil
	}
	return apperrors.Wrap("not_found", "expense not found", nil)
}

// DeleteExpense removes a ledger entry.
func (s *Service) DeleteExpense(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.data.Expenses {
		if existing.ID != id {
			continue
		}
		expenses := append([]ExpenseItem(nil), s.data.Expenses...)
		s.data.Expenses = append(expenses[:i], expenses[i+1:]...)
		s.persistLocked(ctx)
		return nil
	}
	return apperrors.Wrap("not_found", "expense not found", nil)
}

// ShoppingList returns the wishlist.
func (s *Service) ShoppingList() []ShoppingItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ShoppingItem(nil), s.data.Shopping...)
}

// AddShoppingItem appends a wishlist entry.
func (s *Service) AddShoppingItem(ctx context.Context, name, image string) (ShoppingItem, error) {
	if name == "" {
		return ShoppingItem{}, apperrors.Wrap("invalid_input", "shopping item name cannot be empty", nil)
	}
	item := ShoppingItem{ID: s.newID(), Name: name, Image: image}
	s.mu.Lock()
	s.data.Shopping = append(append([]ShoppingItem(nil), s.data.Shopping...), item)
	s.persistLocked(ctx)
	s.mu.Unlock()
	return item, nil
}

// ToggleBought flips the bought flag of a wishlist entry.
func (s *Service) ToggleBought(ctx context.Context, id string) (ShoppingItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.data.Shopping {
		if existing.ID != id {
			continue
		}
		shopping := append([]ShoppingItem(nil), s.data.Shopping...)
		shopping[i].Bought = !shopping[i].Bought
		s.data.Shopping = shopping
		s.persistLocked(ctx)
		return shopping[i], nil
	}
	return ShoppingItem{}, apperrors.Wrap("not_found", "shopping item not found", nil)
}

// DeleteShoppingItem removes a wishlist entry.
func (s *Service) DeleteShoppingItem(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.data.Shopping {
		if existing.ID != id {
			continue
		}
		shopping := append([]ShoppingItem(nil), s.data.Shopping...)
		s.data.Shopping = append(shopping[:i], shopping[i+1:]...)
		s.persistLocked(ctx)
		return nil
	}
	return apperrors.Wrap("not_found", "shopping item not found", nil)
}

// backupDocument is the export file shape. No lastSaved on purpose.
type backupDocument struct {
	Schedule []DaySchedule  `json:"schedule"`
	Expenses []ExpenseItem  `json:"expenses"`
	Shopping []ShoppingItem `json:"shopping"`
}

// Export serializes the three collections verbatim, pretty-printed, with a
// date-stamped filename.
func (s *Service) Export() ([]byte, string, error) {
	s.mu.RLock()
	doc := backupDocument{
		Schedule: s.data.Schedule,
		Expenses: s.data.Expenses,
		Shopping: s.data.Shopping,
	}
	s.mu.RUnlock()

	blob, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, "", err
	}
	filename := "tokyo_backup_" + s.now().Format("2006-01-02") + ".json"
	return blob, filename, nil
}

// Import wholesale-replaces every collection present in the uploaded file
// and leaves absent ones untouched. Malformed JSON applies nothing.
func (s *Service) Import(ctx context.Context, raw []byte) error {
	var doc struct {
		Schedule *[]DaySchedule  `json:"schedule"`
		Expenses *[]ExpenseItem  `json:"expenses"`
		Shopping *[]ShoppingItem `json:"shopping"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return apperrors.Wrap("invalid_input", "backup file is not valid JSON", err)
	}

	var changedDays []DaySchedule
	s.mu.Lock()
	if doc.Schedule != nil {
		s.data.Schedule = *doc.Schedule
		changedDays = cloneSchedule(s.data.Schedule)
	}
	if doc.Expenses != nil {
		s.data.Expenses = *doc.Expenses
	}
	if doc.Shopping != nil {
		s.data.Shopping = *doc.Shopping
	}
	s.persistLocked(ctx)
	s.mu.Unlock()

	for _, day := range changedDays {
		s.notify(day)
	}
	return nil
}

// mutateDay applies fn to a copy of a day's items, installs the result with
// the last-item invariant enforced, persists, and returns the updated day.
func (s *Service) mutateDay(ctx context.Context, dayID string, fn func([]ItineraryItem) ([]ItineraryItem, error)) (DaySchedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for di, day := range s.data.Schedule {
		if day.ID != dayID {
			continue
		}
		items, err := fn(append([]ItineraryItem(nil), day.Items...))
		if err != nil {
			return DaySchedule{}, err
		}
		if n := len(items); n > 0 {
			items[n-1] = clearTransport(items[n-1])
		}
		updated := day
		updated.Items = items
		schedule := append([]DaySchedule(nil), s.data.Schedule...)
		schedule[di] = updated
		s.data.Schedule = schedule
		s.persistLocked(ctx)
		return cloneDay(updated), nil
	}
	return DaySchedule{}, apperrors.Wrap("not_found", "day not found", nil)
}

func (s *Service) persistLocked(ctx context.Context) {
	if err := s.repo.Save(ctx, s.data); err != nil {
		s.logger.Error("trip save failed", "error", err)
	}
}

func (s *Service) notify(day DaySchedule) {
	s.mu.RLock()
	fn := s.observer
	s.mu.RUnlock()
	if fn != nil {
		fn(day)
	}
}

func sortByStartTime(items []ItineraryItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].StartTime < items[j].StartTime
	})
}

func indexOf(items []ItineraryItem, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func clearTransport(item ItineraryItem) ItineraryItem {
	item.TransportToNext = nil
	return item
}

func cloneSchedule(days []DaySchedule) []DaySchedule {
	out := make([]DaySchedule, len(days))
	for i, day := range days {
		out[i] = cloneDay(day)
	}
	return out
}

func cloneDay(day DaySchedule) DaySchedule {
	day.Items = append([]ItineraryItem(nil), day.Items...)
	return day
}
