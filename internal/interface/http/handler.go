package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/a0929639992ca-hub/TokyoTraveler/internal/domain/rates"
	"github.com/a0929639992ca-hub/TokyoTraveler/internal/domain/receipt"
	"github.com/a0929639992ca-hub/TokyoTraveler/internal/domain/transit"
	"github.com/a0929639992ca-hub/TokyoTraveler/internal/domain/trip"
	apperrors "github.com/a0929639992ca-hub/TokyoTraveler/pkg/errors"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	trips     *trip.Service
	scheduler *transit.Scheduler
	rates     *rates.Service
	receipts  *receipt.Service
	photos    trip.PhotoStorage
	logger    *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(trips *trip.Service, scheduler *transit.Scheduler, ratesSvc *rates.Service, receipts *receipt.Service, photos trip.PhotoStorage, logger *slog.Logger) *Handler {
	return &Handler{
		trips:     trips,
		scheduler: scheduler,
		rates:     ratesSvc,
		receipts:  receipts,
		photos:    photos,
		logger:    logger.With("component", "http.handler"),
	}
}

// Trip returns the full persisted state in one payload.
func (h *Handler) Trip(c *gin.Context) {
	c.JSON(http.StatusOK, h.trips.Snapshot())
}

// TripInfo returns the static flight and hotel reference data.
func (h *Handler) TripInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"flights": trip.Flights(),
		"hotel":   trip.Hotel(),
	})
}

// Schedule returns every day of the itinerary.
func (h *Handler) Schedule(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"days": h.trips.Days()})
}

// ScheduleDay returns one day of the itinerary.
func (h *Handler) ScheduleDay(c *gin.Context) {
	day, ok := h.trips.Day(c.Param("dayId"))
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusNotFound, "not_found", "day not found", nil))
		return
	}
	c.JSON(http.StatusOK, day)
}

// AddScheduleItem inserts a stop into a day.
func (h *Handler) AddScheduleItem(c *gin.Context) {
	var item trip.ItineraryItem
	if err := c.ShouldBindJSON(&item); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	created, err := h.trips.AddItem(c.Request.Context(), c.Param("dayId"), item)
	if err != nil {
		abortWithError(c, domainHTTPError(err, "schedule_failed"))
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateScheduleItem replaces a stop wholesale.
func (h *Handler) UpdateScheduleItem(c *gin.Context) {
	var item trip.ItineraryItem
	if err := c.ShouldBindJSON(&item); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	item.ID = c.Param("itemId")

	if err := h.trips.UpdateItem(c.Request.Context(), c.Param("dayId"), item); err != nil {
		abortWithError(c, domainHTTPError(err, "schedule_failed"))
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteScheduleItem removes a stop. Requires explicit confirmation.
func (h *Handler) DeleteScheduleItem(c *gin.Context) {
	if !deleteConfirmed(c) {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "confirm_required", "pass confirm=true to delete", nil))
		return
	}
	if err := h.trips.DeleteItem(c.Request.Context(), c.Param("dayId"), c.Param("itemId")); err != nil {
		abortWithError(c, domainHTTPError(err, "schedule_failed"))
		return
	}
	c.Status(http.StatusNoContent)
}

// MoveScheduleItem swaps a stop with its neighbor in the given direction.
func (h *Handler) MoveScheduleItem(c *gin.Context) {
	var req struct {
		Direction string `json:"direction"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	if err := h.trips.MoveItem(c.Request.Context(), c.Param("dayId"), c.Param("itemId"), req.Direction); err != nil {
		abortWithError(c, domainHTTPError(err, "schedule_failed"))
		return
	}
	day, _ := h.trips.Day(c.Param("dayId"))
	c.JSON(http.StatusOK, day)
}

// TransitStatuses reports the per-hop suggestion state for a day.
func (h *Handler) TransitStatuses(c *gin.Context) {
	day, ok := h.trips.Day(c.Param("dayId"))
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusNotFound, "not_found", "day not found", nil))
		return
	}
	c.JSON(http.StatusOK, gin.H{"statuses": h.scheduler.Statuses(day)})
}

// RetryTransit requeues a failed transit suggestion immediately.
func (h *Handler) RetryTransit(c *gin.Context) {
	if err := h.scheduler.Retry(c.Param("dayId"), c.Param("itemId")); err != nil {
		abortWithError(c, domainHTTPError(err, "transit_failed"))
		return
	}
	c.Status(http.StatusAccepted)
}

// Export streams the backup document as a JSON download.
func (h *Handler) Export(c *gin.Context) {
	payload, filename, err := h.trips.Export()
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "export_failed", errMessage(err), err))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/json", payload)
}

// Import replaces collections from an uploaded backup document.
func (h *Handler) Import(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	if err := h.trips.Import(c.Request.Context(), raw); err != nil {
		abortWithError(c, domainHTTPError(err, "import_failed"))
		return
	}
	c.JSON(http.StatusOK, h.trips.Snapshot())
}

func deleteConfirmed(c *gin.Context) bool {
	return c.Query("confirm") == "true"
}

func domainHTTPError(err error, fallbackCode string) *HTTPError {
	status := http.StatusInternalServerError
	code := fallbackCode
	switch {
	case apperrors.IsCode(err, "invalid_input"):
		status = http.StatusBadRequest
		code = "invalid_request"
	case apperrors.IsCode(err, "not_found"):
		status = http.StatusNotFound
		code = "not_found"
	case apperrors.IsCode(err, "llm_unavailable"):
		status = http.StatusServiceUnavailable
		code = "llm_unavailable"
	case apperrors.IsCode(err, "llm_error"):
		status = http.StatusBadGateway
		code = "llm_error"
	}
	return NewHTTPError(status, code, errMessage(err), err)
}

func errMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
