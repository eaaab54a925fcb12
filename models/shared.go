package models

// ReminderPayload is the asynq payload for an upcoming booking reminder.
type ReminderPayload struct {
	SessionID string `json:"sessionId"`
	EventID   string `json:"eventId"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	FireDate  string `json:"fireDate"` // RFC3339
}
