package models

import "time"

// ConversationState is the position of a session in the booking conversation.
type ConversationState string

const (
	StateInitial              ConversationState = "INITIAL"
	StateCollectingInfo       ConversationState = "COLLECTING_INFO"
	StateCheckingAvailability ConversationState = "CHECKING_AVAILABILITY"
	StateConfirmingBooking    ConversationState = "CONFIRMING_BOOKING"
	StateCompleted            ConversationState = "COMPLETED"
	StateError                ConversationState = "ERROR"
)

// Terminal reports whether the booking attempt is over. The next message for
// the session starts again from a fresh Context.
func (s ConversationState) Terminal() bool {
	return s == StateCompleted || s == StateError
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

const (
	DefaultDuration     = 60 // minutes
	DefaultMeetingTitle = "Meeting"
)

// ChatMessage is one role-tagged turn of a conversation.
type ChatMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// TimeOfDay is a wall-clock time without a date.
type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// Context is the per-session conversation state owned by the agent engine.
type Context struct {
	SessionID          string             `json:"sessionId"`
	State              ConversationState  `json:"state"`
	PreferredDate      *time.Time         `json:"preferredDate,omitempty"` // midnight of the requested day
	PreferredTime      *TimeOfDay         `json:"preferredTime,omitempty"`
	Duration           int                `json:"duration"` // minutes
	MeetingTitle       string             `json:"meetingTitle"`
	MeetingDescription string             `json:"meetingDescription,omitempty"`
	SuggestedSlots     []AvailabilitySlot `json:"suggestedSlots"`
	SelectedSlot       *AvailabilitySlot  `json:"selectedSlot,omitempty"`
	History            []ChatMessage      `json:"conversationHistory"`
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`
}

// NewContext returns a fresh Context in the INITIAL state.
func NewContext(sessionID string, now time.Time) *Context {
	return &Context{
		SessionID:      sessionID,
		State:          StateInitial,
		Duration:       DefaultDuration,
		MeetingTitle:   DefaultMeetingTitle,
		SuggestedSlots: []AvailabilitySlot{},
		History:        []ChatMessage{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// AddMessage appends a turn to the conversation history.
func (c *Context) AddMessage(role, content string, at time.Time) {
	c.History = append(c.History, ChatMessage{
		Role:      role,
		Content:   content,
		Timestamp: at,
	})
	c.UpdatedAt = at
}

// RecentHistory returns at most the last n turns.
func (c *Context) RecentHistory(n int) []ChatMessage {
	if n <= 0 || len(c.History) == 0 {
		return nil
	}
	if len(c.History) <= n {
		return c.History
	}
	return c.History[len(c.History)-n:]
}

// ClearSelection drops the pending scheduling request so a new one can be collected.
func (c *Context) ClearSelection() {
	c.PreferredDate = nil
	c.PreferredTime = nil
	c.SuggestedSlots = []AvailabilitySlot{}
	c.SelectedSlot = nil
}
