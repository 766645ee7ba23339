package catalog

import (
	"fmt"
	"time"
)

// Semester codes used by the portal.
const (
	SemesterWinter = 200
	SemesterSpring = 201
	SemesterSummer = 202
)

// Term identifies an academic session.
type Term struct {
	Year     int
	Semester int
}

func (t Term) String() string {
	return fmt.Sprintf("%d-%d", t.Year, t.Semester)
}

func (t Term) SeasonName() string {
	switch t.Semester {
	case SemesterWinter:
		return "Winter"
	case SemesterSpring:
		return "Spring"
	case SemesterSummer:
		return "Summer"
	}
	return "Unknown"
}

func (t Term) HebrewName() string {
	switch t.Semester {
	case SemesterWinter:
		return "חורף"
	case SemesterSpring:
		return "אביב"
	case SemesterSummer:
		return "קיץ"
	}
	return ""
}

// CurrentTerm maps a wall-clock date to the term most likely in session:
// winter spans October through February, spring March through July, and
// summer the rest.
func CurrentTerm(now time.Time) Term {
	month := now.Month()
	switch {
	case month >= time.October || month <= time.February:
		return Term{Year: now.Year(), Semester: SemesterWinter}
	case month <= time.July:
		return Term{Year: now.Year(), Semester: SemesterSpring}
	default:
		return Term{Year: now.Year(), Semester: SemesterSummer}
	}
}

func (t Term) Next() Term {
	switch t.Semester {
	case SemesterWinter:
		return Term{Year: t.Year, Semester: SemesterSpring}
	case SemesterSpring:
		return Term{Year: t.Year, Semester: SemesterSummer}
	default:
		return Term{Year: t.Year + 1, Semester: SemesterWinter}
	}
}

// The four exam sittings a course may schedule, keyed by the portal's
// category codes.
const (
	ExamFirst      = "מועד א"
	ExamSecond     = "מועד ב"
	ExamQuizFirst  = "בוחן מועד א"
	ExamQuizSecond = "בוחן מועד ב"
)

var examLabels = map[string]string{
	"FI": ExamFirst,
	"FB": ExamSecond,
	"MI": ExamQuizFirst,
	"M2": ExamQuizSecond,
}

// weekdayIndex maps the canonical day names to weekday numbers, Sunday
// being 0.
var weekdayIndex = map[string]int{
	"ראשון": 0,
	"שני":   1,
	"שלישי": 2,
	"רביעי": 3,
	"חמישי": 4,
	"שישי":  5,
}

// ScheduleEntry is a single weekly meeting of a course group. The JSON
// field names match the cheesefork-compatible snapshot format.
type ScheduleEntry struct {
	Group    int    `json:"קבוצה" firestore:"קבוצה"`
	Category string `json:"סוג" firestore:"סוג"`
	Day      string `json:"יום" firestore:"יום"`
	Time     string `json:"שעה" firestore:"שעה"` // "HH:MM - HH:MM"
	Building string `json:"בניין" firestore:"בניין"`
	Room     int    `json:"חדר" firestore:"חדר"`
	Staff    string `json:"מרצה/מתרגל" firestore:"מרצה/מתרגל"`
	Number   int    `json:"מס." firestore:"מס."`
}

// CourseRecord is the normalized per-course document produced by a fetch
// cycle. Free-text fields pass through from the source and may be empty.
type CourseRecord struct {
	CourseNumber       string
	Name               string
	Syllabus           string
	Faculty            string
	AcademicLevel      string
	Points             string
	Responsible        string
	Prerequisites      string
	AdjoiningCourses   []string
	NoAdditionalCredit []string
	Notes              string
	Exams              map[string]string
	Schedule           []ScheduleEntry
}
