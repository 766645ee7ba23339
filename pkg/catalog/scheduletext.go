package catalog

import (
	"regexp"
	"strings"
)

// TimeSlot is one weekly (day, start, end) occurrence parsed out of a
// free-text schedule summary.
type TimeSlot struct {
	Day   string
	Begin string
	End   string
}

var (
	fromDatePrefix  = regexp.MustCompile(`^מ \d\d\.\d\d\., `)
	untilDatePrefix = regexp.MustCompile(`^עד \d\d\.\d\d\., `)
	dateRangePrefix = regexp.MustCompile(`^\d\d\.\d\d\. עד \d\d\.\d\d\., `)
	exceptSuffix    = regexp.MustCompile(`, יוצא מן הכלל: .*$`)
	totalDaysSuffix = regexp.MustCompile(`, הכל \d+ ימים$`)

	// The portal sometimes spells Sunday with niqqud; normalize it.
	timeSlotPattern = regexp.MustCompile(
		`^(?:יום|יוֹם) (רִאשׁוֹ|ראשון|שני|שלישי|רביעי|חמישי|שישי) (\d\d:\d\d)\s*-\s*(\d\d:\d\d)`)
)

// ParseScheduleText parses a Hebrew schedule summary like
// "יום שני 10:30 - 12:30, יום רביעי 10:30 - 12:30" into time slots.
// Date-range qualifiers are stripped first and tokens that don't match
// the day-time pattern are dropped.
func ParseScheduleText(text string) []TimeSlot {
	text = fromDatePrefix.ReplaceAllString(text, "")
	text = untilDatePrefix.ReplaceAllString(text, "")
	text = dateRangePrefix.ReplaceAllString(text, "")
	text = exceptSuffix.ReplaceAllString(text, "")
	text = totalDaysSuffix.ReplaceAllString(text, "")

	var slots []TimeSlot
	for _, token := range strings.Split(text, ",") {
		m := timeSlotPattern.FindStringSubmatch(strings.TrimSpace(token))
		if m == nil {
			continue
		}
		day := m[1]
		if day == "רִאשׁוֹ" {
			day = "ראשון"
		}
		slots = append(slots, TimeSlot{Day: day, Begin: m[2], End: m[3]})
	}
	return slots
}

const irregularSentinel = "לֹא סָדִיר"

var (
	singleDateSummary = regexp.MustCompile(`^\d\d\.\d\d\.: \d\d:\d\d-\d\d:\d\d`)
	multiDateSummary  = regexp.MustCompile(`^(\d\d\.\d\d\., )+בהתאמה \d\d:\d\d-\d\d:\d\d`)
)

// irregularSummary reports whether a schedule summary describes a
// one-off or irregular meeting, which carries no weekly slots and must
// be skipped entirely.
func irregularSummary(text string) bool {
	return text == "" || text == irregularSentinel ||
		singleDateSummary.MatchString(text) || multiDateSummary.MatchString(text)
}
