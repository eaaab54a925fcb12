package agent

import (
	"fmt"

	"bookingagent/models"
)

var transitions = map[models.ConversationState][]models.ConversationState{
	models.StateInitial: {
		models.StateCollectingInfo,
		models.StateCheckingAvailability,
		models.StateError,
	},
	models.StateCollectingInfo: {
		models.StateCollectingInfo,
		models.StateCheckingAvailability,
		models.StateConfirmingBooking,
		models.StateError,
	},
	models.StateCheckingAvailability: {
		models.StateCollectingInfo,
		models.StateError,
	},
	models.StateConfirmingBooking: {
		models.StateCompleted,
		models.StateError,
		models.StateInitial,
	},
}

func allowed(from, to models.ConversationState) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// transition moves c along an edge of the table. Suggestions only survive
// in states where the user can still pick one.
func transition(c *models.Context, to models.ConversationState) error {
	if !allowed(c.State, to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, c.State, to)
	}

	c.State = to
	switch to {
	case models.StateInitial, models.StateCompleted, models.StateError:
		c.SuggestedSlots = []models.AvailabilitySlot{}
	}
	return nil
}

// fail moves c to ERROR from any non-terminal state.
func fail(c *models.Context) {
	c.State = models.StateError
	c.SuggestedSlots = []models.AvailabilitySlot{}
}
