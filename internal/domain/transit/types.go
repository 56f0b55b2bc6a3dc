package transit

import (
	"time"

	"github.com/a0929639992ca-hub/TokyoTraveler/internal/domain/trip"
)

// Status is the enrichment state of one itinerary item's transport hop.
type Status string

const (
	StatusUnrequested Status = "unrequested"
	StatusLoading     Status = "loading"
	StatusError       Status = "error"
	StatusResolved    Status = "resolved"
)

// Config drives the scheduler's stagger and queue behavior.
type Config struct {
	Model       string
	Temperature float32
	BaseDelay   time.Duration
	StaggerStep time.Duration
	QueueSize   int
}

// suggestion is the wire shape returned by the route model.
type suggestion struct {
	Type            string `json:"type"`
	DurationMinutes int    `json:"durationMinutes"`
	Details         string `json:"details"`
}

func (s suggestion) usable() bool {
	switch trip.TransportType(s.Type) {
	case trip.TransportTrain, trip.TransportWalk, trip.TransportCar:
		return true
	}
	return false
}
