package intelligence

import (
	"context"
	"strings"

	"bookingagent/models"
)

var localReplies = []string{
	"I'd be happy to help you schedule that. What date and time work best for you?",
	"Sure! Which day would you like, and roughly what time?",
	"Let's find a slot. Could you tell me the date, the time and how long the meeting should be?",
}

// LocalGenerator answers with canned prompts for the missing booking details.
// It needs no network access and is used when no provider key is configured.
type LocalGenerator struct{}

func NewLocalGenerator() *LocalGenerator {
	return &LocalGenerator{}
}

func (LocalGenerator) Generate(_ context.Context, messages []models.ChatMessage) (string, error) {
	userTurns := 0
	last := ""
	for _, m := range messages {
		if m.Role == models.RoleUser {
			userTurns++
			last = strings.ToLower(m.Content)
		}
	}
	if userTurns == 0 {
		return localReplies[0], nil
	}

	switch {
	case strings.Contains(last, "thank"):
		return "You're welcome! Let me know when you'd like to book something.", nil
	case strings.Contains(last, "hello") || strings.Contains(last, "hi "):
		return "Hello! I can book meetings on your calendar. When would you like to meet?", nil
	}
	return localReplies[(userTurns-1)%len(localReplies)], nil
}
