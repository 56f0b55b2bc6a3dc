package trip

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/a0929639992ca-hub/TokyoTraveler/pkg/util"
)

// Storage keys. LegacyKey* predate the versioned single-document scheme and
// are migrated from, then deleted after the first successful save.
const (
	CurrentKey        = "tokyo:trip:v2"
	LegacyKeySchedule = "tokyo_schedule"
	LegacyKeyExpenses = "tokyo_expenses"
	LegacyKeyShopping = "tokyo_shopping"
)

// Repository layers the load/migrate/save contract over a raw blob Store.
// Corrupt data is recovered locally: a field that fails to decode is logged
// and replaced by its default, never propagated.
type Repository struct {
	store         Store
	logger        *slog.Logger
	now           func() time.Time
	legacyPresent bool
}

// NewRepository constructs a Repository.
func NewRepository(store Store, logger *slog.Logger) *Repository {
	return &Repository{
		store:  store,
		logger: logger.With("component", "trip.repository"),
		now:    util.NowUTC,
	}
}

// Load hydrates TripData: current key first, then legacy keys, then the
// built-in starter itinerary. It never fails on malformed data.
func (r *Repository) Load(ctx context.Context) (TripData, error) {
	blob, ok, err := r.store.LoadBlob(ctx)
	if err != nil {
		return TripData{}, err
	}
	if ok {
		return r.decodeSnapshot(blob), nil
	}

	legacy, ok, err := r.store.LoadLegacy(ctx)
	if err != nil {
		return TripData{}, err
	}
	if ok {
		r.legacyPresent = true
		return r.migrateLegacy(legacy), nil
	}

	return defaultTripData(), nil
}

// Save writes the whole document under the current key and, once a save has
// succeeded, removes the legacy keys.
func (r *Repository) Save(ctx context.Context, data TripData) error {
	data.LastSaved = r.now()
	blob, err := json.Marshal(snapshotOf(data))
	if err != nil {
		return err
	}
	if err := r.store.SaveBlob(ctx, blob); err != nil {
		return err
	}
	if r.legacyPresent {
		if err := r.store.DeleteLegacy(ctx); err != nil {
			r.logger.Warn("legacy key cleanup failed", "error", err)
		} else {
			r.legacyPresent = false
		}
	}
	return nil
}

// snapshot is the wire form of the persisted document. RawMessage fields let
// Load adopt each collection independently of the others.
type snapshot struct {
	Schedule  json.RawMessage `json:"schedule"`
	Expenses  json.RawMessage `json:"expenses"`
	Shopping  json.RawMessage `json:"shopping"`
	LastSaved time.Time       `json:"lastSaved"`
}

func snapshotOf(data TripData) map[string]any {
	return map[string]any{
		"schedule":  data.Schedule,
		"expenses":  data.Expenses,
		"shopping":  data.Shopping,
		"lastSaved": data.LastSaved,
	}
}

func (r *Repository) decodeSnapshot(blob []byte) TripData {
	data := defaultTripData()

	var snap snapshot
	if err := json.Unmarshal(blob, &snap); err != nil {
		r.logger.Warn("stored trip document malformed, using defaults", "error", err)
		return defaultTripData()
	}

	if snap.Schedule != nil {
		var schedule []DaySchedule
		if err := json.Unmarshal(snap.Schedule, &schedule); err != nil {
			r.logger.Warn("stored schedule malformed, keeping starter itinerary", "error", err)
		} else {
			data.Schedule = schedule
		}
	}
	if snap.Expenses != nil {
		var expenses []ExpenseItem
		if err := json.Unmarshal(snap.Expenses, &expenses); err != nil {
			r.logger.Warn("stored expenses malformed, keeping empty ledger", "error", err)
		} else {
			data.Expenses = expenses
		}
	}
	if snap.Shopping != nil {
		var shopping []ShoppingItem
		if err := json.Unmarshal(snap.Shopping, &shopping); err != nil {
			r.logger.Warn("stored shopping list malformed, keeping empty list", "error", err)
		} else {
			data.Shopping = shopping
		}
	}
	data.LastSaved = snap.LastSaved
	return data
}

func (r *Repository) migrateLegacy(legacy LegacyBlobs) TripData {
	data, warnings := MigrateLegacy(legacy)
	for _, warning := range warnings {
		r.logger.Warn("legacy key migration", "detail", warning)
	}
	r.logger.Info("migrated legacy trip keys",
		"schedule", legacy.Schedule != nil,
		"expenses", legacy.Expenses != nil,
		"shopping", legacy.Shopping != nil)
	return data
}

// MigrateLegacy converts the pre-versioned per-collection arrays into the
// current document shape. Pure: malformed fields fall back to their defaults
// and are reported as warnings instead of failing the migration.
func MigrateLegacy(legacy LegacyBlobs) (TripData, []string) {
	data := defaultTripData()
	var warnings []string

	if legacy.Schedule != nil {
		var schedule []DaySchedule
		if err := json.Unmarshal(legacy.Schedule, &schedule); err != nil {
			warnings = append(warnings, "legacy schedule malformed: "+err.Error())
		} else {
			data.Schedule = schedule
		}
	}
	if legacy.Expenses != nil {
		var expenses []ExpenseItem
		if err := json.Unmarshal(legacy.Expenses, &expenses); err != nil {
			warnings = append(warnings, "legacy expenses malformed: "+err.Error())
		} else {
			data.Expenses = expenses
		}
	}
	if legacy.Shopping != nil {
		var shopping []ShoppingItem
		if err := json.Unmarshal(legacy.Shopping, &shopping); err != nil {
			warnings = append(warnings, "legacy shopping malformed: "+err.Error())
		} else {
			data.Shopping = shopping
		}
	}
	return data, warnings
}

func defaultTripData() TripData {
	return TripData{
		Schedule: StarterSchedule(),
		Expenses: []ExpenseItem{},
		Shopping: []ShoppingItem{},
	}
}
