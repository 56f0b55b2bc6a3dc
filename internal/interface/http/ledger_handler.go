package http

import (
	"io"
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/a0929639992ca-hub/TokyoTraveler/internal/domain/trip"
)

// Expenses lists the ledger.
func (h *Handler) Expenses(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": h.trips.Expenses()})
}

// ExpenseSummary returns the running totals in both currencies.
func (h *Handler) ExpenseSummary(c *gin.Context) {
	totalJpy := h.trips.TotalJpy()
	c.JSON(http.StatusOK, gin.H{
		"totalJpy": totalJpy,
		"totalTwd": h.rates.TotalTWD(totalJpy),
		"rate":     h.rates.Rate(),
		"liveRate": h.rates.Live(),
	})
}

// AddExpense appends a ledger entry.
func (h *Handler) AddExpense(c *gin.Context) {
	var expense trip.ExpenseItem
	if err := c.ShouldBindJSON(&expense); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	created, err := h.trips.AddExpense(c.Request.Context(), expense)
	if err != nil {
		abortWithError(c, domainHTTPError(err, "expense_failed"))
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateExpense replaces a ledger entry wholesale.
func (h *Handler) UpdateExpense(c *gin.Context) {
	var expense trip.ExpenseItem
	if err := c.ShouldBindJSON(&expense); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	expense.ID = c.Param("id")

	if err := h.trips.UpdateExpense(c.Request.Context(), expense); err != nil {
		abortWithError(c, domainHTTPError(err, "expense_failed"))
		return
	}
	c.JSON(http.StatusOK, expense)
}

// DeleteExpense removes a ledger entry. Requires explicit confirmation.
func (h *Handler) DeleteExpense(c *gin.Context) {
	if !deleteConfirmed(c) {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "confirm_required", "pass confirm=true to delete", nil))
		return
	}
	if err := h.trips.DeleteExpense(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, domainHTTPError(err, "expense_failed"))
		return
	}
	c.Status(http.StatusNoContent)
}

// ScanReceipt parses a receipt photo into a draft expense entry. The
// draft is returned to the caller, never written to the ledger directly.
func (h *Handler) ScanReceipt(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "file is required", err))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "failed to read upload", err))
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "scan_failed", "failed to read file", err))
		return
	}

	draft, err := h.receipts.Extract(c.Request.Context(), data, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		abortWithError(c, domainHTTPError(err, "scan_failed"))
		return
	}
	c.JSON(http.StatusOK, draft)
}

// ExchangeRate exposes the conversion rate in effect.
func (h *Handler) ExchangeRate(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"rate": h.rates.Rate(),
		"live": h.rates.Live(),
	})
}

// ShoppingList returns the wishlist.
func (h *Handler) ShoppingList(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": h.trips.ShoppingList()})
}

// AddShoppingItem appends a wishlist entry.
func (h *Handler) AddShoppingItem(c *gin.Context) {
	var req struct {
		Name  string `json:"name"`
		Image string `json:"image"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	created, err := h.trips.AddShoppingItem(c.Request.Context(), req.Name, req.Image)
	if err != nil {
		abortWithError(c, domainHTTPError(err, "shopping_failed"))
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ToggleShoppingItem flips the bought flag.
func (h *Handler) ToggleShoppingItem(c *gin.Context) {
	item, err := h.trips.ToggleBought(c.Request.Context(), c.Param("id"))
	if err != nil {
		abortWithError(c, domainHTTPError(err, "shopping_failed"))
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteShoppingItem removes a wishlist entry. Requires explicit confirmation.
func (h *Handler) DeleteShoppingItem(c *gin.Context) {
	if !deleteConfirmed(c) {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "confirm_required", "pass confirm=true to delete", nil))
		return
	}
	if err := h.trips.DeleteShoppingItem(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, domainHTTPError(err, "shopping_failed"))
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadPhoto stores an image blob and returns its key for linking from
// wishlist entries.
func (h *Handler) UploadPhoto(c *gin.Context) {
	if h.photos == nil {
		abortWithError(c, NewHTTPError(http.StatusServiceUnavailable, "photos_disabled", "photo storage unavailable", nil))
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "file is required", err))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "failed to read upload", err))
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "upload_failed", "failed to read file", err))
		return
	}

	key := "photos/" + uuid.NewString() + path.Ext(fileHeader.Filename)
	stored, err := h.photos.Put(c.Request.Context(), key, data, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusInternalServerError, "upload_failed", errMessage(err), err))
		return
	}
	c.JSON(http.StatusCreated, stored)
}

// Photo streams a stored image back to the caller.
func (h *Handler) Photo(c *gin.Context) {
	if h.photos == nil {
		abortWithError(c, NewHTTPError(http.StatusServiceUnavailable, "photos_disabled", "photo storage unavailable", nil))
		return
	}
	key := "photos/" + c.Param("key")
	reader, mimeType, err := h.photos.Get(c.Request.Context(), key)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusNotFound, "not_found", "photo not found", err))
		return
	}
	defer reader.Close()
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, -1, mimeType, reader, nil)
}
