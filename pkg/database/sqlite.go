package database

import (
	"database/sql"
	"errors"
	"log"

	"github.com/go-gorp/gorp/v3"
	"github.com/mattn/go-sqlite3"

	"github.com/sapfetch/sapfetch/pkg/catalog"
)

type courseRow struct {
	CourseNumber  string `db:"course_number"`
	Year          int    `db:"year"`
	Semester      int    `db:"semester"`
	Name          string `db:"name"`
	Faculty       string `db:"faculty"`
	AcademicLevel string `db:"academic_level"`
	Points        string `db:"points"`
	Responsible   string `db:"responsible"`
	Prerequisites string `db:"prerequisites"`
}

type scheduleRow struct {
	CourseNumber string `db:"course_number"`
	Year         int    `db:"year"`
	Semester     int    `db:"semester"`
	GroupID      int    `db:"group_id"`
	Category     string `db:"category"`
	Day          string `db:"day"`
	Time         string `db:"time"`
	Building     string `db:"building"`
	Room         int    `db:"room"`
	Staff        string `db:"staff"`
	Number       int    `db:"number"`
}

// Sqlite mirrors fetched terms into a local SQLite database, flattened
// into course and schedule rows.
type Sqlite struct {
	db    *sql.DB
	dbmap *gorp.DbMap
}

func NewSqlite(file string) Sqlite {
	sqlite := Sqlite{}

	// Initialize the database connection
	db, err := sql.Open("sqlite3", file)
	if err != nil {
		log.Panic("Unable to connect to database: ", err)
	}
	sqlite.db = db

	// Initialize the database mapping, creating the tables if it's our first run
	dbmap := &gorp.DbMap{Db: db, Dialect: gorp.SqliteDialect{}}
	dbmap.AddTableWithName(courseRow{}, "courses").SetUniqueTogether("CourseNumber", "Year", "Semester")
	dbmap.AddTableWithName(scheduleRow{}, "schedules").
		SetUniqueTogether("CourseNumber", "Year", "Semester", "GroupID", "Category", "Day", "Time")
	err = dbmap.CreateTablesIfNotExists()
	if err != nil {
		log.Panic("Unable to create tables: ", err)
	}
	sqlite.dbmap = dbmap

	return sqlite
}

func (s Sqlite) SaveCourses(term catalog.Term, records []catalog.CourseRecord) error {
	var rows []interface{}
	for _, record := range records {
		rows = append(rows, &courseRow{
			CourseNumber:  record.CourseNumber,
			Year:          term.Year,
			Semester:      term.Semester,
			Name:          record.Name,
			Faculty:       record.Faculty,
			AcademicLevel: record.AcademicLevel,
			Points:        record.Points,
			Responsible:   record.Responsible,
			Prerequisites: record.Prerequisites,
		})
		for _, entry := range record.Schedule {
			rows = append(rows, &scheduleRow{
				CourseNumber: record.CourseNumber,
				Year:         term.Year,
				Semester:     term.Semester,
				GroupID:      entry.Group,
				Category:     entry.Category,
				Day:          entry.Day,
				Time:         entry.Time,
				Building:     entry.Building,
				Room:         entry.Room,
				Staff:        entry.Staff,
				Number:       entry.Number,
			})
		}
	}
	return s.save(rows)
}

func (s Sqlite) save(rows []interface{}) error {
	tx, err := s.dbmap.Begin()
	if err != nil {
		return err
	}
	for _, row := range rows {
		err := tx.Insert(row)
		var sqliteError sqlite3.Error
		if errors.As(err, &sqliteError) {
			if errors.Is(sqliteError.ExtendedCode, sqlite3.ErrConstraintUnique) {
				continue // silently ignore duplicates
			}
		}
	}
	return tx.Commit()
}

func (s Sqlite) Close() error {
	return s.db.Close()
}
