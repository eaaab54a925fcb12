package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Conversation endpoints
	ChatHandler  gin.HandlerFunc
	GetSession   gin.HandlerFunc
	ClearSession gin.HandlerFunc
	ListSessions gin.HandlerFunc

	// Booking ledger endpoints
	ListBookings gin.HandlerFunc
	GetBooking   gin.HandlerFunc

	// Service endpoints
	Root   gin.HandlerFunc
	Health gin.HandlerFunc
}

// NewHandlerBundle assembles the bundle from the handler structs.
func NewHandlerBundle(chat *ChatHandler, bookings *BookingHandler, health *HealthHandler) *HandlerBundle {
	return &HandlerBundle{
		ChatHandler:  chat.Chat,
		GetSession:   chat.GetSession,
		ClearSession: chat.ClearSession,
		ListSessions: chat.ListSessions,

		ListBookings: bookings.ListBookings,
		GetBooking:   bookings.GetBooking,

		Root:   Root,
		Health: health.Health,
	}
}
