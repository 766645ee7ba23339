package catalog

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sapfetch/sapfetch/pkg/sap"
)

// fakeSource serves canned payloads keyed by a query substring. Queries
// matching nothing get the canonical empty result.
type fakeSource struct {
	responses map[string]string
	calls     []string
}

func (f *fakeSource) Send(query string, allowEmpty bool) (json.RawMessage, error) {
	f.calls = append(f.calls, query)
	for key, res := range f.responses {
		if strings.Contains(query, key) {
			return json.RawMessage(res), nil
		}
	}
	if allowEmpty {
		return json.RawMessage(`{"d":{"results":[]}}`), nil
	}
	return nil, sap.ErrEmptyResult
}

const courseInfoPayload = `{"d":{"results":[{
	"Otjid": "SM01040031",
	"Points": "5.50",
	"Name": "חשבון אינפיניטסימלי 1מ'",
	"StudyContentDescription": "גבולות, רציפות, נגזרות",
	"OrgText": "מתמטיקה",
	"ZzAcademicLevelText": "תואר ראשון",
	"ZzSemesterNote": "מקצועות צמודים: 104166",
	"Responsible": {"results": [
		{"Title": "פרופ'", "FirstName": "משה", "LastName": "לוי"},
		{"Title": "-", "FirstName": "דנה", "LastName": "כהן"}
	]},
	"Exams": {"results": [
		{"CategoryCode": "FI", "ExamDate": "/Date(1738195200000)/",
		 "ExamBegTime": "PT09H00M00S", "ExamEndTime": "PT12H00M00S"},
		{"CategoryCode": "FB", "ExamDate": "/Date(1740787200000)/",
		 "ExamBegTime": "PT00H00M00S", "ExamEndTime": "PT00H00M00S"},
		{"CategoryCode": "ZZ", "ExamDate": "/Date(1738195200000)/"},
		{"CategoryCode": "MI", "ExamDate": ""}
	]},
	"SmRelations": {"results": [
		{"Otjid": "SM01040032", "ZzRelationshipKey": "AZEC"},
		{"Otjid": "SM01040033", "ZzRelationshipKey": "AZBX"}
	]},
	"SmPrereq": {"results": [
		{"Bracket": "(", "ModuleId": "01040030", "Operator": "OR"},
		{"Bracket": "", "ModuleId": "01040035", "Operator": ""},
		{"Bracket": ")", "ModuleId": "", "Operator": ""}
	]}
}]}}`

const scheduleGroupsPayload = `{"d":{"results":[{
	"Name": "SE23 קבוצה 11",
	"ZzSeSeqnr": "11",
	"EObjectSet": {"results": [{
		"Otjid": "00012345",
		"Name": "הרצאה 11",
		"CategoryText": "הרצאה",
		"RoomText": "401-0801",
		"RoomId": "G-ROOM1",
		"ScheduleSummary": "יום שני 10:30 - 12:30, יום רביעי 10:30 - 12:30",
		"Persons": {"results": [{"Title": "פרופ'", "FirstName": "משה", "LastName": "לוי"}]}
	}]}
}]}}`

const buildingPayload = `{"d":{"Building":"בנין   אולמן"}}`

func newTestBuilder(responses map[string]string) (*Builder, *fakeSource) {
	source := &fakeSource{responses: responses}
	return NewBuilder(source, NewBuildingResolver(source)), source
}

func TestBuildCourseRecord(t *testing.T) {
	builder, _ := newTestBuilder(map[string]string{
		"%24expand=Responsible": courseInfoPayload,
		"/SeObjectSet?":         scheduleGroupsPayload,
		"GObjectSet(":           buildingPayload,
	})

	record, err := builder.Build(2025, SemesterWinter, "SM01040031")
	require.NoError(t, err)

	require.Equal(t, "01040031", record.CourseNumber)
	require.Equal(t, "חשבון אינפיניטסימלי 1מ'", record.Name)
	require.Equal(t, "מתמטיקה", record.Faculty)
	require.Equal(t, "5.5", record.Points)
	require.Equal(t, "פרופ' משה לוי\nדנה כהן", record.Responsible)
	require.Equal(t, "01040030 או 01040035", record.Prerequisites)
	require.Equal(t, []string{"01040032"}, record.NoAdditionalCredit)
	require.Equal(t, []string{"01040166"}, record.AdjoiningCourses)

	// the first sitting has a real time window, the second doesn't, and
	// the unknown / dateless rows are dropped
	require.Equal(t, map[string]string{
		ExamFirst:  "30-01-2025 09:00 - 12:00",
		ExamSecond: "01-03-2025",
	}, record.Exams)

	require.Equal(t, []ScheduleEntry{
		{Group: 11, Category: "הרצאה", Day: "שני", Time: "10:30 - 12:30",
			Building: "אולמן", Room: 801, Staff: "פרופ' משה לוי", Number: 12345},
		{Group: 11, Category: "הרצאה", Day: "רביעי", Time: "10:30 - 12:30",
			Building: "אולמן", Room: 801, Staff: "פרופ' משה לוי", Number: 12345},
	}, record.Schedule)
}

func TestBuildShapeError(t *testing.T) {
	two := `{"d":{"results":[{"Otjid":"SM1"},{"Otjid":"SM2"}]}}`
	builder, _ := newTestBuilder(map[string]string{"%24expand=Responsible": two})

	_, err := builder.Build(2025, SemesterWinter, "SM1")
	var shape ShapeError
	require.ErrorAs(t, err, &shape)
	require.Equal(t, 2, shape.Count)
}

func TestBuildScheduleFetchFailureDegrades(t *testing.T) {
	// no schedule payload configured: the schedule query returns the
	// empty set, but the course record still builds
	builder, _ := newTestBuilder(map[string]string{
		"%24expand=Responsible": courseInfoPayload,
	})

	record, err := builder.Build(2025, SemesterWinter, "SM01040031")
	require.NoError(t, err)
	require.Empty(t, record.Schedule)
	require.Equal(t, "01040031", record.CourseNumber)
}

func TestBuildingResolverMemoizes(t *testing.T) {
	source := &fakeSource{responses: map[string]string{"GObjectSet(": buildingPayload}}
	resolver := NewBuildingResolver(source)

	first := resolver.Resolve(2025, SemesterWinter, "G-ROOM1")
	second := resolver.Resolve(2025, SemesterWinter, "G-ROOM1")
	require.Equal(t, "אולמן", first)
	require.Equal(t, first, second)
	require.Len(t, source.calls, 1)

	require.Equal(t, "", resolver.Resolve(2025, SemesterWinter, ""))
	require.Len(t, source.calls, 1)
}

func TestBuildingResolverSoftFailure(t *testing.T) {
	source := &fakeSource{} // lookup yields ErrEmptyResult
	resolver := NewBuildingResolver(source)
	require.Equal(t, "", resolver.Resolve(2025, SemesterWinter, "G-MISSING"))

	// the failure is memoized too
	require.Equal(t, "", resolver.Resolve(2025, SemesterWinter, "G-MISSING"))
	require.Len(t, source.calls, 1)
}
