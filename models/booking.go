package models

import "time"

// EventStatus mirrors the calendar event status values.
type EventStatus string

const (
	EventConfirmed EventStatus = "confirmed"
	EventTentative EventStatus = "tentative"
	EventCancelled EventStatus = "cancelled"
)

// BookingRequest is built at the final confirmation step and consumed once by the calendar.
type BookingRequest struct {
	Title       string      `json:"title" validate:"required,max=100"`
	Description string      `json:"description,omitempty"`
	Start       time.Time   `json:"start" validate:"required"`
	End         time.Time   `json:"end" validate:"required,gtfield=Start"`
	Attendees   []string    `json:"attendees" validate:"dive,email"`
	Location    string      `json:"location,omitempty"`
	Status      EventStatus `json:"status" validate:"oneof=confirmed tentative cancelled"`
}

// BookingResult is what the calendar reports after a create attempt.
type BookingResult struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
}
