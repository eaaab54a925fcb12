package extractor

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"bookingagent/models"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// Extraction is a best-effort structured reading of a scheduling message.
// Nil fields were not found in the text.
type Extraction struct {
	Date     *time.Time        // midnight of the day, in the location of now
	Time     *models.TimeOfDay // wall clock
	Duration *int              // minutes
	Title    *string
}

// HasDateAndTime reports whether both a day and a time of day were found.
func (e Extraction) HasDateAndTime() bool {
	return e.Date != nil && e.Time != nil
}

// Empty reports whether nothing at all was extracted.
func (e Extraction) Empty() bool {
	return e.Date == nil && e.Time == nil && e.Duration == nil && e.Title == nil
}

type dayOffset struct {
	phrase string
	days   int
}

// Longer phrases go first so "day after tomorrow" is not read as "tomorrow".
var fixedDays = []dayOffset{
	{"today", 0},
	{"day after tomorrow", 2},
	{"tomorrow", 1},
}

var weekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}

type namedTime struct {
	word string
	at   models.TimeOfDay
}

// "afternoon" must be checked before "noon".
var namedTimes = []namedTime{
	{"morning", models.TimeOfDay{Hour: 9}},
	{"afternoon", models.TimeOfDay{Hour: 14}},
	{"evening", models.TimeOfDay{Hour: 18}},
	{"noon", models.TimeOfDay{Hour: 12}},
	{"midnight", models.TimeOfDay{Hour: 0}},
}

type titleKeyword struct {
	re    *regexp.Regexp
	title string
}

func keyword(word, title string) titleKeyword {
	return titleKeyword{re: regexp.MustCompile(`\b` + word), title: title}
}

var titleKeywords = []titleKeyword{
	keyword("call", "Phone Call"),
	keyword("meeting", "Meeting"),
	keyword("interview", "Interview"),
	keyword("discussion", "Discussion"),
	keyword("review", "Review Meeting"),
	keyword("standup", "Standup Meeting"),
	keyword("sync", "Sync Meeting"),
	keyword("demo", "Demo"),
	keyword("presentation", "Presentation"),
	keyword("training", "Training Session"),
	keyword("workshop", "Workshop"),
	keyword("consultation", "Consultation"),
}

var (
	isoDateRe = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`)

	clockRe    = regexp.MustCompile(`(\d{1,2}):(\d{2})\s*(am|pm)?`)
	meridiemRe = regexp.MustCompile(`(\d{1,2})\s*(am|pm)\b`)
	dottedRe   = regexp.MustCompile(`(\d{1,2})\.(\d{2})`)

	hoursRe   = regexp.MustCompile(`(\d+)[\s-]*(?:hours?|hrs?|h)\b`)
	minutesRe = regexp.MustCompile(`(\d+)[\s-]*(?:minutes?|mins?|m)\b`)
	shortRe   = regexp.MustCompile(`\b(?:quick|brief)\b`)
	longRe    = regexp.MustCompile(`\b(?:long|extended)\b`)

	quotedRe = regexp.MustCompile(`["']([^"']+)["']`)
	forRe    = regexp.MustCompile(`(?i)\bfor\s+(.+?)(?:\s+(?:on|at|tomorrow|today|next|this)\b|\s*$)`)
)

var temporalWords = map[string]bool{
	"on": true, "at": true, "tomorrow": true, "today": true, "next": true, "this": true,
}

const (
	quickDuration    = 30
	extendedDuration = 120
	maxTitleLength   = 100
)

// Extractor turns free text into scheduling hints.
type Extractor struct {
	fuzzy *when.Parser
}

// New builds an Extractor with the English natural-date rules loaded.
func New() *Extractor {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	return &Extractor{fuzzy: w}
}

var defaultExtractor = New()

// Extract runs the default extractor. now anchors every relative term.
func Extract(text string, now time.Time) Extraction {
	return defaultExtractor.Extract(text, now)
}

// Extract reads date, time, duration and title hints from text.
func (x *Extractor) Extract(text string, now time.Time) Extraction {
	lower := strings.ToLower(strings.TrimSpace(text))

	return Extraction{
		Date:     x.parseDate(lower, now),
		Time:     parseTime(lower),
		Duration: parseDuration(lower),
		Title:    extractTitle(strings.TrimSpace(text), lower),
	}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func (x *Extractor) parseDate(lower string, now time.Time) *time.Time {
	today := midnight(now)

	for _, d := range fixedDays {
		if strings.Contains(lower, d.phrase) {
			day := today.AddDate(0, 0, d.days)
			return &day
		}
	}

	for _, wd := range weekdays {
		if strings.Contains(lower, strings.ToLower(wd.String())) {
			ahead := (int(wd) - int(today.Weekday()) + 7) % 7
			if ahead == 0 {
				ahead = 7
			}
			day := today.AddDate(0, 0, ahead)
			return &day
		}
	}

	if strings.Contains(lower, "next week") {
		day := today.AddDate(0, 0, 7)
		return &day
	}
	if strings.Contains(lower, "this week") {
		day := today.AddDate(0, 0, 1)
		return &day
	}

	if m := isoDateRe.FindStringSubmatch(lower); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		dayOfMonth, _ := strconv.Atoi(m[3])
		day := time.Date(year, time.Month(month), dayOfMonth, 0, 0, 0, 0, now.Location())
		if day.Year() == year && int(day.Month()) == month && day.Day() == dayOfMonth {
			return &day
		}
	}

	if x.fuzzy == nil {
		return nil
	}
	res, err := x.fuzzy.Parse(lower, now)
	if err != nil || res == nil {
		return nil
	}
	day := midnight(res.Time.In(now.Location()))
	return &day
}

func parseTime(lower string) *models.TimeOfDay {
	for _, nt := range namedTimes {
		if strings.Contains(lower, nt.word) {
			at := nt.at
			return &at
		}
	}

	if m := clockRe.FindStringSubmatch(lower); m != nil {
		if at, ok := clock(m[1], m[2], m[3]); ok {
			return at
		}
	}
	if m := meridiemRe.FindStringSubmatch(lower); m != nil {
		if at, ok := clock(m[1], "0", m[2]); ok {
			return at
		}
	}
	if m := dottedRe.FindStringSubmatch(lower); m != nil {
		if at, ok := clock(m[1], m[2], ""); ok {
			return at
		}
	}

	return nil
}

func clock(hourStr, minuteStr, meridiem string) (*models.TimeOfDay, bool) {
	hour, err := strconv.Atoi(hourStr)
	if err != nil {
		return nil, false
	}
	minute, err := strconv.Atoi(minuteStr)
	if err != nil {
		return nil, false
	}

	switch {
	case meridiem == "pm" && hour != 12:
		hour += 12
	case meridiem == "am" && hour == 12:
		hour = 0
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return nil, false
	}
	return &models.TimeOfDay{Hour: hour, Minute: minute}, true
}

func parseDuration(lower string) *int {
	var d int
	switch {
	case shortRe.MatchString(lower):
		d = quickDuration
	case longRe.MatchString(lower):
		d = extendedDuration
	default:
		d = sumMatches(hoursRe, lower, 60) + sumMatches(minutesRe, lower, 1)
	}

	if d <= 0 {
		return nil
	}
	return &d
}

func sumMatches(re *regexp.Regexp, text string, unit int) int {
	total := 0
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		total += n * unit
	}
	return total
}

func extractTitle(text, lower string) *string {
	for _, kw := range titleKeywords {
		if kw.re.MatchString(lower) {
			title := kw.title
			return &title
		}
	}

	if m := quotedRe.FindStringSubmatch(text); m != nil {
		if title := SanitizeTitle(m[1]); title != "" {
			return &title
		}
	}

	if m := forRe.FindStringSubmatch(text); m != nil {
		candidate := strings.TrimRight(strings.TrimSpace(m[1]), ".?!,;")
		fields := strings.Fields(strings.ToLower(candidate))
		if len(fields) > 0 && !temporalWords[fields[0]] {
			if title := SanitizeTitle(candidate); title != "" {
				return &title
			}
		}
	}

	return nil
}

var unsafeTitleChars = strings.NewReplacer("<", "", ">", "", `"`, "", "'", "")

// SanitizeTitle removes markup-prone characters and caps the length.
func SanitizeTitle(title string) string {
	title = strings.TrimSpace(unsafeTitleChars.Replace(title))

	runes := []rune(title)
	if len(runes) > maxTitleLength {
		title = strings.TrimSpace(string(runes[:maxTitleLength]))
	}
	return title
}
