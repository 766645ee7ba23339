package report

import (
	"sort"

	"github.com/sapfetch/sapfetch/pkg/catalog"
)

type meetingView struct {
	CourseNumber string `csv:"course_number"`
	Name         string `csv:"name"`
	Faculty      string `csv:"faculty"`
	Points       string `csv:"points"`
	Group        int    `csv:"group"`
	Category     string `csv:"category"`
	Day          string `csv:"day"`
	Time         string `csv:"time"`
	Building     string `csv:"building"`
	Room         int    `csv:"room"`
	Staff        string `csv:"staff"`
}

// WriteSemester dumps a term's records as a flat CSV, one row per weekly
// meeting. Courses without a schedule still get a row.
func WriteSemester(name string, records []catalog.CourseRecord) error {
	var rows []meetingView
	for _, record := range records {
		base := meetingView{
			CourseNumber: record.CourseNumber,
			Name:         record.Name,
			Faculty:      record.Faculty,
			Points:       record.Points,
		}
		if len(record.Schedule) == 0 {
			rows = append(rows, base)
			continue
		}
		for _, entry := range record.Schedule {
			row := base
			row.Group = entry.Group
			row.Category = entry.Category
			row.Day = entry.Day
			row.Time = entry.Time
			row.Building = entry.Building
			row.Room = entry.Room
			row.Staff = entry.Staff
			rows = append(rows, row)
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].CourseNumber < rows[j].CourseNumber
	})
	return WriteCsv(rows, name+".csv")
}
