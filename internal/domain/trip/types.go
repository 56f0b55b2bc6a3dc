package trip

import "time"

// ItineraryType classifies a scheduled stop.
type ItineraryType string

const (
	ItinerarySightseeing ItineraryType = "SIGHTSEEING"
	ItineraryHotel       ItineraryType = "HOTEL"
	ItineraryFood        ItineraryType = "FOOD"
	ItineraryShopping    ItineraryType = "SHOPPING"
	ItineraryFlight      ItineraryType = "FLIGHT"
	ItineraryOther       ItineraryType = "OTHER"
)

// TransportType classifies the hop between two consecutive stops.
type TransportType string

const (
	TransportWalk  TransportType = "WALK"
	TransportCar   TransportType = "CAR"
	TransportTrain TransportType = "TRAIN"
)

// TransportToNext describes the hop from an item to its successor within the
// same day. The last item of a day never carries one.
type TransportToNext struct {
	Type            TransportType `json:"type"`
	DurationMinutes int           `json:"durationMinutes"`
	Details         string        `json:"details,omitempty"`
}

// ItineraryItem is a single scheduled stop.
type ItineraryItem struct {
	ID              string           `json:"id"`
	Type            ItineraryType    `json:"type"`
	Name            string           `json:"name"`
	StartTime       string           `json:"startTime"` // HH:MM
	EndTime         string           `json:"endTime,omitempty"`
	TicketPrice     int64            `json:"ticketPrice,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	LocationLink    string           `json:"locationLink,omitempty"`
	TransportToNext *TransportToNext `json:"transportToNext,omitempty"`
}

// WeatherCondition is static display data attached to a day.
type WeatherCondition string

const (
	WeatherSunny  WeatherCondition = "SUNNY"
	WeatherCloudy WeatherCondition = "CLOUDY"
	WeatherRain   WeatherCondition = "RAIN"
	WeatherSnow   WeatherCondition = "SNOW"
)

// Weather holds forecast figures for a day. Never mutated by the app.
type Weather struct {
	Temp      int              `json:"temp"`
	Condition WeatherCondition `json:"condition"`
	FeelsLike int              `json:"feelsLike"`
}

// DaySchedule holds the ordered stops of a single trip day. Item order is
// the chronological visiting order.
type DaySchedule struct {
	ID        string          `json:"id"`
	Date      string          `json:"date"` // MM/DD
	DayOfWeek string          `json:"dayOfWeek"`
	Weather   Weather         `json:"weather"`
	Items     []ItineraryItem `json:"items"`
}

// ExpenseCategory classifies a ledger entry.
type ExpenseCategory string

const (
	ExpenseTransport ExpenseCategory = "TRANSPORT"
	ExpenseFood      ExpenseCategory = "FOOD"
	ExpenseHotel     ExpenseCategory = "HOTEL"
	ExpenseTicket    ExpenseCategory = "TICKET"
	ExpenseShopping  ExpenseCategory = "SHOPPING"
	ExpenseOther     ExpenseCategory = "OTHER"
)

// PaymentMethod distinguishes cash from card spending.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "CASH"
	PaymentCard PaymentMethod = "CARD"
)

// ExpenseItem is a single ledger entry. Immutable once created except by
// full replacement or deletion.
type ExpenseItem struct {
	ID            string          `json:"id"`
	Category      ExpenseCategory `json:"category"`
	Name          string          `json:"name"`
	Date          string          `json:"date"` // MM/DD
	AmountJpy     int64           `json:"amountJpy"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	Notes         string          `json:"notes,omitempty"`
}

// ShoppingItem is a wishlist entry.
type ShoppingItem struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Image  string `json:"image,omitempty"`
	Bought bool   `json:"bought"`
}

// TripData is the persisted state root.
type TripData struct {
	Schedule  []DaySchedule  `json:"schedule"`
	Expenses  []ExpenseItem  `json:"expenses"`
	Shopping  []ShoppingItem `json:"shopping"`
	LastSaved time.Time      `json:"lastSaved"`
}

// FlightInfo is static display data describing one leg of the trip flights.
type FlightInfo struct {
	Type          string `json:"type"` // OUTBOUND | INBOUND
	AirportCode   string `json:"airportCode"`
	FlightNumber  string `json:"flightNumber"`
	DepartureTime string `json:"departureTime"`
	ArrivalTime   string `json:"arrivalTime"`
	Duration      string `json:"duration"`
}

// HotelInfo is static display data for the accommodation.
type HotelInfo struct {
	Name      string `json:"name"`
	LocalName string `json:"localName"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	MapLink   string `json:"mapLink"`
}
