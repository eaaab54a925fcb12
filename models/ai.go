package models

import "time"

// ChatRequest is the payload coming from the frontend into /api/chat.
type ChatRequest struct {
	Message   string `json:"message" binding:"required"`
	SessionID string `json:"sessionId" binding:"max=128"` // "default" when empty
}

// ChatResponse is what the chat handler returns to the frontend.
type ChatResponse struct {
	Response       string             `json:"response"`
	SessionID      string             `json:"sessionId"`
	State          ConversationState  `json:"state"`
	SuggestedSlots []AvailabilitySlot `json:"suggestedSlots,omitempty"`
	SelectedSlot   *AvailabilitySlot  `json:"selectedSlot,omitempty"`
	Warnings       []string           `json:"warnings,omitempty"`
	Timestamp      time.Time          `json:"timestamp"`
}
