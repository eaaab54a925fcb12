package agent

import (
	"fmt"
	"strings"
	"time"

	"bookingagent/models"
)

const (
	slotDayLayout  = "Monday, January 02 at 03:04 PM"
	clockLayout    = "03:04 PM"
	summaryDateFmt = "Monday, January 02, 2006"

	noSlotsMessage     = "I couldn't find any available slots for your preferred time."
	repromptMessage    = "I didn't understand which slot you prefer. Please specify (1, 2, or 3)."
	declineMessage     = "No problem! Let me know if you'd like to try again."
	unavailableReply   = "I couldn't check availability right now. Please try again in a moment."
	defaultDescription = "Scheduled via booking assistant"
)

// formatSlot renders "Monday, January 02 at 09:00 AM - 05:00 PM".
func formatSlot(s models.AvailabilitySlot) string {
	return s.Start.Format(slotDayLayout) + " - " + s.End.Format(clockLayout)
}

func formatSuggestions(slots []models.AvailabilitySlot, limit int) string {
	if len(slots) == 0 {
		return noSlotsMessage
	}

	var sb strings.Builder
	sb.WriteString("Here are some available slots:\n")
	for i, s := range slots {
		if i >= limit {
			break
		}
		fmt.Fprintf(&sb, "\n%d. %s", i+1, formatSlot(s))
	}
	sb.WriteString("\n\nWhich one works for you?")
	return sb.String()
}

func formatDetails(title string, start, end time.Time) string {
	return fmt.Sprintf("Meeting details:\n- Title: %s\n- Date: %s\n- Time: %s - %s",
		title, start.Format(summaryDateFmt), start.Format(clockLayout), end.Format(clockLayout))
}

func formatConfirmation(title string, start, end time.Time) string {
	return formatDetails(title, start, end) + "\n\nShall I book it? Reply \"yes\" to confirm."
}
