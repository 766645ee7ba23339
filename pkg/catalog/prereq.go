package catalog

import (
	"regexp"
	"strings"
)

// PrereqRow is one element of a course's prerequisite expression as the
// portal serializes it: an optional opening/closing bracket, a course
// number, and the operator joining it to the next element.
type PrereqRow struct {
	Bracket  string `json:"Bracket"`
	ModuleID string `json:"ModuleId"`
	Operator string `json:"Operator"`
}

var (
	parenAroundNumber = regexp.MustCompile(`\((\d+)\)`)
	redundantOuter    = regexp.MustCompile(`^\(([^()]+)\)$`)
)

// ParsePrerequisites flattens the prerequisite rows into a boolean
// expression over course numbers, with "AND" and "OR" rendered in Hebrew
// and redundant parentheses dropped.
func ParsePrerequisites(rows []PrereqRow) string {
	var b strings.Builder
	for _, row := range rows {
		b.WriteString(row.Bracket)
		if strings.TrimLeft(row.ModuleID, "0") != "" {
			b.WriteString(row.ModuleID)
		}
		switch row.Operator {
		case "AND":
			b.WriteString(" ו-")
		case "OR":
			b.WriteString(" או ")
		}
	}
	prereq := parenAroundNumber.ReplaceAllString(b.String(), "$1")
	prereq = redundantOuter.ReplaceAllString(prereq, "$1")
	return strings.TrimSpace(prereq)
}

// RelationRow is one related-course row from the portal.
type RelationRow struct {
	Otjid           string `json:"Otjid"`
	RelationshipKey string `json:"ZzRelationshipKey"`
}

// ParseRelations extracts the course numbers that grant no additional
// credit alongside this course. Other relationship kinds are ignored.
func ParseRelations(rows []RelationRow) []string {
	var courses []string
	for _, row := range rows {
		if row.RelationshipKey == "AZEC" || row.RelationshipKey == "AZID" {
			courses = append(courses, strings.TrimPrefix(row.Otjid, "SM"))
		}
	}
	return courses
}

var (
	adjoiningMarker = regexp.MustCompile(`(?m)^(?:מקצוע צמוד|מקצועות צמודים):`)
	adjoiningList   = regexp.MustCompile(`^\d{5,8}(?:\s*,\s*\d{5,8})*(?m:$)`)
	adjoiningProse  = regexp.MustCompile(`(?s)^(.*?)(?:\.$|\.\n|\n\n|$)`)
	leadingNumber   = regexp.MustCompile(`^(\d{5,8})(\s.*)?`)
)

// ParseAdjoiningCourses extracts adjoining-course numbers from the
// semester notes. The marker phrase may be followed either by a bare
// comma-separated list of numbers or by prose where each item starts
// with a number.
func ParseAdjoiningCourses(notes string) []string {
	if notes == "" {
		return nil
	}
	parts := adjoiningMarker.Split(notes, 2)
	if len(parts) == 1 {
		return nil
	}
	content := strings.TrimSpace(parts[1])

	var courses []string
	if m := adjoiningList.FindString(content); m != "" {
		for _, course := range strings.Split(m, ",") {
			courses = append(courses, strings.TrimSpace(course))
		}
	} else if m := adjoiningProse.FindStringSubmatch(content); m != nil {
		for _, item := range strings.Split(m[1], ",") {
			if sub := leadingNumber.FindStringSubmatch(strings.TrimSpace(item)); sub != nil {
				courses = append(courses, sub[1])
			}
		}
	}

	var result []string
	for _, course := range courses {
		result = append(result, NormalizeCourseNumber(course))
	}
	return result
}
