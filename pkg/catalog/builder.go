package catalog

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/sapfetch/sapfetch/pkg/sap"
)

// ShapeError reports an unexpected result cardinality for a lookup that
// should have matched exactly one course.
type ShapeError struct {
	Course string
	Count  int
}

func (e ShapeError) Error() string {
	return fmt.Sprintf("expected 1 result for %s, got %d", e.Course, e.Count)
}

type resultSet[T any] struct {
	Results []T `json:"results"`
}

type rawPerson struct {
	Title     string `json:"Title"`
	FirstName string `json:"FirstName"`
	LastName  string `json:"LastName"`
}

type rawExam struct {
	CategoryCode string `json:"CategoryCode"`
	ExamDate     string `json:"ExamDate"`
	ExamBegTime  string `json:"ExamBegTime"`
	ExamEndTime  string `json:"ExamEndTime"`
}

type rawCourse struct {
	Otjid                   string                `json:"Otjid"`
	Points                  string                `json:"Points"`
	Name                    string                `json:"Name"`
	StudyContentDescription string                `json:"StudyContentDescription"`
	OrgText                 string                `json:"OrgText"`
	AcademicLevelText       string                `json:"ZzAcademicLevelText"`
	SemesterNote            string                `json:"ZzSemesterNote"`
	Responsible             resultSet[rawPerson]  `json:"Responsible"`
	Exams                   resultSet[rawExam]    `json:"Exams"`
	SmRelations             resultSet[RelationRow] `json:"SmRelations"`
	SmPrereq                resultSet[PrereqRow]  `json:"SmPrereq"`
}

// Builder assembles a full CourseRecord from the portal: general
// metadata, exams, and the weekly schedule.
type Builder struct {
	source    sap.QuerySource
	buildings *BuildingResolver
}

func NewBuilder(source sap.QuerySource, buildings *BuildingResolver) *Builder {
	return &Builder{source: source, buildings: buildings}
}

// Build fetches and normalizes one course. It fails with a ShapeError
// when the course query does not return exactly one result; a failed
// schedule fetch degrades to an empty schedule instead of failing.
func (b *Builder) Build(year, semester int, courseID string) (CourseRecord, error) {
	params := url.Values{}
	params.Set("sap-client", "700")
	params.Set("$filter", fmt.Sprintf("Peryr eq '%d' and Perid eq '%d' and Otjid eq '%s'", year, semester, courseID))
	params.Set("$select", "Otjid,Points,Name,StudyContentDescription,OrgText,ZzAcademicLevelText,ZzSemesterNote,Responsible,Exams,SmRelations,SmPrereq")
	params.Set("$expand", "Responsible,Exams,SmRelations,SmPrereq")

	raw, err := b.source.Send("SmObjectSet?"+params.Encode(), false)
	if err != nil {
		return CourseRecord{}, err
	}
	var payload struct {
		D resultSet[rawCourse] `json:"d"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return CourseRecord{}, fmt.Errorf("failed to decode course %s: %v", courseID, err)
	}
	if len(payload.D.Results) != 1 {
		return CourseRecord{}, ShapeError{Course: courseID, Count: len(payload.D.Results)}
	}
	course := payload.D.Results[0]

	exams, err := parseExams(course.Exams.Results)
	if err != nil {
		return CourseRecord{}, fmt.Errorf("failed to parse exams for %s: %v", courseID, err)
	}

	number := strings.TrimPrefix(course.Otjid, "SM")
	return CourseRecord{
		CourseNumber:       number,
		Name:               course.Name,
		Syllabus:           course.StudyContentDescription,
		Faculty:            course.OrgText,
		AcademicLevel:      course.AcademicLevelText,
		Points:             NormalizePoints(course.Points),
		Responsible:        joinStaff(course.Responsible.Results),
		Prerequisites:      ParsePrerequisites(course.SmPrereq.Results),
		AdjoiningCourses:   ParseAdjoiningCourses(course.SemesterNote),
		NoAdditionalCredit: ParseRelations(course.SmRelations.Results),
		Notes:              course.SemesterNote,
		Exams:              exams,
		Schedule:           b.buildSchedule(year, semester, number),
	}, nil
}

// joinStaff renders staff rows as newline-joined display names. A blank
// or placeholder-dash title is omitted.
func joinStaff(persons []rawPerson) string {
	var b strings.Builder
	for _, p := range persons {
		title := strings.TrimSpace(p.Title)
		if title != "" && title != "-" {
			b.WriteString(title)
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%s %s\n", p.FirstName, p.LastName)
	}
	return strings.TrimRight(b.String(), "\n")
}

// parseExams maps exam rows to formatted dates keyed by the four sitting
// labels. Rows without a date are omitted; the time suffix is appended
// only when the sitting has a real time window.
func parseExams(exams []rawExam) (map[string]string, error) {
	out := make(map[string]string)
	for _, exam := range exams {
		label, ok := examLabels[exam.CategoryCode]
		if !ok {
			continue
		}
		if exam.ExamDate == "" {
			continue
		}
		date, err := sap.ParseDate(exam.ExamDate)
		if err != nil {
			return nil, err
		}
		value := date.Format("02-01-2006")

		if exam.ExamBegTime != "" && exam.ExamEndTime != "" {
			begin, okBegin := sap.ParseClock(exam.ExamBegTime)
			end, okEnd := sap.ParseClock(exam.ExamEndTime)
			if okBegin && okEnd && (begin != "00:00" || end != "00:00") {
				value += fmt.Sprintf(" %s - %s", begin, end)
			}
		}
		out[label] = value
	}
	return out, nil
}
