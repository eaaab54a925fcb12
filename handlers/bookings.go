package handlers

import (
	"errors"
	"net/http"
	"strconv"

	recordsRepo "bookingagent/database/repository/records"
	"bookingagent/models"
	"bookingagent/utils"

	"github.com/gin-gonic/gin"
)

const (
	defaultBookingLimit = 50
	maxBookingLimit     = 500
)

type BookingHandler struct {
	records recordsRepo.BookingRecordRepository
}

func NewBookingHandler(records recordsRepo.BookingRecordRepository) *BookingHandler {
	return &BookingHandler{records: records}
}

// ListBookings handles GET /api/bookings?sessionId=&limit=.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	ctx := c.Request.Context()

	limit := int64(defaultBookingLimit)
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 || n > maxBookingLimit {
			utils.JSONError(c, http.StatusBadRequest, "Invalid limit", "limit must be between 1 and 500")
			return
		}
		limit = n
	}

	var (
		records []models.BookingRecord
		err     error
	)
	if sessionID := c.Query("sessionId"); sessionID != "" {
		records, err = h.records.GetBySessionID(ctx, sessionID)
	} else {
		records, err = h.records.List(ctx, limit)
	}
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load bookings", err.Error())
		return
	}
	if int64(len(records)) > limit {
		records = records[:limit]
	}

	c.JSON(http.StatusOK, gin.H{"bookings": records, "count": len(records)})
}

// GetBooking handles GET /api/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	record, err := h.records.GetByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, recordsRepo.ErrRecordNotFound) {
		utils.JSONError(c, http.StatusNotFound, "Booking not found", c.Param("id"))
		return
	}
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Failed to load booking", err.Error())
		return
	}
	c.JSON(http.StatusOK, record)
}
