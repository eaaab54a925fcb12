package agent

import (
	"regexp"
	"strings"

	"bookingagent/models"
	"bookingagent/services/extractor"
)

type step int

const (
	stepNeedMoreInfo step = iota
	stepCheckAvailability
	stepSelectSlot
	stepReprompt
	stepCompleteBooking
)

func (s step) String() string {
	switch s {
	case stepNeedMoreInfo:
		return "understand_intent"
	case stepCheckAvailability:
		return "check_availability"
	case stepSelectSlot:
		return "confirm_booking"
	case stepReprompt:
		return "confirm_booking_reprompt"
	case stepCompleteBooking:
		return "complete_booking"
	}
	return "unknown"
}

// route picks the step for a turn. It only reads its inputs.
func route(c *models.Context, ex extractor.Extraction, text string, maxSuggestions int) step {
	if c.State == models.StateConfirmingBooking {
		return stepCompleteBooking
	}

	offering := c.State == models.StateCollectingInfo && len(c.SuggestedSlots) > 0
	if offering {
		if _, ok := resolveOrdinal(text, min(len(c.SuggestedSlots), maxSuggestions)); ok {
			return stepSelectSlot
		}
	}

	newInfo := ex.Date != nil || ex.Time != nil
	hasDate := ex.Date != nil || c.PreferredDate != nil
	hasTime := ex.Time != nil || c.PreferredTime != nil
	if newInfo && hasDate && hasTime {
		return stepCheckAvailability
	}

	if offering {
		return stepReprompt
	}
	return stepNeedMoreInfo
}

var (
	ordinalWordRe   = regexp.MustCompile(`\b(first|second|third)\b`)
	ordinalSuffixRe = regexp.MustCompile(`\b([123])(?:st|nd|rd)\b`)
	bareDigitRe     = regexp.MustCompile(`\b([123])\b`)

	// Units and clock markers that make a digit a quantity rather than a choice.
	quantityRe = regexp.MustCompile(`^\s*(?:a\.?m\b|p\.?m\b|:|\.\d|h\b|hrs?\b|hours?\b|mins?\b|minutes?\b|o'clock|days?\b|weeks?\b)`)
)

var ordinalWords = map[string]int{"first": 1, "second": 2, "third": 3}


// resolveOrdinal finds which of the first n suggestions the reply points at.
// Candidates are scanned in display order and the first one referenced wins.
func resolveOrdinal(text string, n int) (int, bool) {
	lower := strings.ToLower(text)
	referenced := map[int]bool{}

	for _, m := range ordinalWordRe.FindAllStringSubmatch(lower, -1) {
		referenced[ordinalWords[m[1]]] = true
	}
	for _, m := range ordinalSuffixRe.FindAllStringSubmatch(lower, -1) {
		referenced[int(m[1][0]-'0')] = true
	}
	for _, loc := range bareDigitRe.FindAllStringSubmatchIndex(lower, -1) {
		if loc[0] > 0 && strings.ContainsRune(":./-", rune(lower[loc[0]-1])) {
			continue
		}
		if quantityRe.MatchString(lower[loc[1]:]) {
			continue
		}
		referenced[int(lower[loc[2]]-'0')] = true
	}

	for i := 1; i <= n; i++ {
		if referenced[i] {
			return i - 1, true
		}
	}
	return 0, false
}

// isAffirmative accepts any reply containing "yes" or "confirm".
func isAffirmative(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "yes") || strings.Contains(lower, "confirm")
}
