// File: models/records.go
package models

import "time"

// BookingRecord is the ledger entry written after a calendar event was created.
type BookingRecord struct {
	ID        string    `bson:"id" json:"id"`               // Unique ID for the record
	SessionID string    `bson:"sessionId" json:"sessionId"` // Conversation that produced the booking
	EventID   string    `bson:"eventId" json:"eventId"`     // Calendar event identifier
	Title     string    `bson:"title" json:"title"`
	Start     time.Time `bson:"start" json:"start"`
	End       time.Time `bson:"end" json:"end"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
