package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseScheduleText(t *testing.T) {
	slots := ParseScheduleText("יום שני 10:30 - 12:30, יום רביעי 10:30 - 12:30")
	require.Equal(t, []TimeSlot{
		{Day: "שני", Begin: "10:30", End: "12:30"},
		{Day: "רביעי", Begin: "10:30", End: "12:30"},
	}, slots)
}

func TestParseScheduleTextStripsDateQualifiers(t *testing.T) {
	cases := []string{
		"מ 15.03., יום חמישי 14:30 - 16:30",
		"עד 20.06., יום חמישי 14:30 - 16:30",
		"11.03. עד 24.06., יום חמישי 14:30 - 16:30",
		"יום חמישי 14:30 - 16:30, יוצא מן הכלל: 01.05.",
		"יום חמישי 14:30 - 16:30, הכל 13 ימים",
	}
	for _, text := range cases {
		slots := ParseScheduleText(text)
		require.Equal(t, []TimeSlot{{Day: "חמישי", Begin: "14:30", End: "16:30"}}, slots, "text %q", text)
	}
}

func TestParseScheduleTextMisspelledSunday(t *testing.T) {
	slots := ParseScheduleText("יוֹם רִאשׁוֹ 08:30 - 10:30")
	require.Equal(t, []TimeSlot{{Day: "ראשון", Begin: "08:30", End: "10:30"}}, slots)
}

func TestParseScheduleTextDropsUnparsableTokens(t *testing.T) {
	slots := ParseScheduleText("יום שני 10:30 - 12:30, בתיאום מראש")
	require.Equal(t, []TimeSlot{{Day: "שני", Begin: "10:30", End: "12:30"}}, slots)

	require.Empty(t, ParseScheduleText("לֹא סָדִיר"))
	require.Empty(t, ParseScheduleText(""))
}

func TestIrregularSummary(t *testing.T) {
	require.True(t, irregularSummary(""))
	require.True(t, irregularSummary("לֹא סָדִיר"))
	require.True(t, irregularSummary("12.05.: 09:00-11:00"))
	require.True(t, irregularSummary("12.05., 19.05., בהתאמה 09:00-11:00"))
	require.False(t, irregularSummary("יום שני 10:30 - 12:30"))
}
