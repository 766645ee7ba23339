package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePrerequisites(t *testing.T) {
	rows := []PrereqRow{
		{Bracket: "(", ModuleID: "01040031", Operator: "AND"},
		{Bracket: "", ModuleID: "01040166", Operator: ""},
		{Bracket: ")", ModuleID: "", Operator: "OR"},
		{Bracket: "(", ModuleID: "01040041", Operator: ""},
		{Bracket: ")", ModuleID: "", Operator: ""},
	}
	require.Equal(t, "(01040031 ו-01040166) או 01040041", ParsePrerequisites(rows))
}

func TestParsePrerequisitesDropsRedundantParens(t *testing.T) {
	rows := []PrereqRow{
		{Bracket: "(", ModuleID: "01040031", Operator: "AND"},
		{Bracket: "", ModuleID: "01040166", Operator: ""},
		{Bracket: ")", ModuleID: "", Operator: ""},
	}
	require.Equal(t, "01040031 ו-01040166", ParsePrerequisites(rows))

	// a zero module id contributes nothing
	require.Equal(t, "", ParsePrerequisites([]PrereqRow{{ModuleID: "00000000"}}))
	require.Empty(t, ParsePrerequisites(nil))
}

func TestParseRelations(t *testing.T) {
	rows := []RelationRow{
		{Otjid: "SM01040032", RelationshipKey: "AZEC"},
		{Otjid: "SM01040195", RelationshipKey: "AZID"},
		{Otjid: "SM01040033", RelationshipKey: "AZBX"},
	}
	require.Equal(t, []string{"01040032", "01040195"}, ParseRelations(rows))
}

func TestParseAdjoiningCoursesNumberList(t *testing.T) {
	notes := "הערות כלליות.\nמקצועות צמודים: 104031, 104166"
	require.Equal(t, []string{"01040031", "01040166"}, ParseAdjoiningCourses(notes))
}

func TestParseAdjoiningCoursesProse(t *testing.T) {
	notes := "מקצוע צמוד: 234114 מבוא למדעי המחשב מ', 104031 חשבון אינפי 1.\nהערה נוספת"
	require.Equal(t, []string{"02340114", "01040031"}, ParseAdjoiningCourses(notes))
}

func TestParseAdjoiningCoursesNoMarker(t *testing.T) {
	require.Empty(t, ParseAdjoiningCourses(""))
	require.Empty(t, ParseAdjoiningCourses("אין מקצועות צמודים למקצוע זה"))
}
