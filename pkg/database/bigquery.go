package database

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/googleapi"

	"github.com/sapfetch/sapfetch/pkg/catalog"
)

// meetingRow is a course meeting flattened for analytics. A course with
// no schedule still contributes one row so it remains queryable.
type meetingRow struct {
	CourseNumber  string `bigquery:"course_number"`
	Name          string `bigquery:"name"`
	Faculty       string `bigquery:"faculty"`
	AcademicLevel string `bigquery:"academic_level"`
	Points        string `bigquery:"points"`
	Year          int    `bigquery:"year"`
	Semester      int    `bigquery:"semester"`
	GroupID       int    `bigquery:"group_id"`
	Category      string `bigquery:"category"`
	Day           string `bigquery:"day"`
	Time          string `bigquery:"time"`
	Building      string `bigquery:"building"`
	Room          int    `bigquery:"room"`
}

type BigQuery struct {
	ctx       context.Context
	client    *bigquery.Client
	dataset   *bigquery.Dataset
	datasetID string
}

func NewBigQuery(projectID, datasetID string) (BigQuery, error) {
	var bq BigQuery

	// Set up BigQuery
	ctx := context.Background()
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return bq, fmt.Errorf("failed to create client: %v", err)
	}

	dataset := client.Dataset(datasetID)
	if err := dataset.Create(ctx, nil); err != nil {
		if !isDuplicateError(err) {
			return bq, fmt.Errorf("failed to create dataset: %v", err)
		}
	}

	bq = BigQuery{ctx, client, dataset, datasetID}
	return bq, nil
}

// InsertCourses merges a term's flattened meeting rows into the courses
// table, replacing whatever the table previously held for that term.
func (bq BigQuery) InsertCourses(records []catalog.CourseRecord, term catalog.Term) error {
	var rows []meetingRow
	for _, record := range records {
		base := meetingRow{
			CourseNumber:  record.CourseNumber,
			Name:          record.Name,
			Faculty:       record.Faculty,
			AcademicLevel: record.AcademicLevel,
			Points:        record.Points,
			Year:          term.Year,
			Semester:      term.Semester,
		}
		if len(record.Schedule) == 0 {
			rows = append(rows, base)
			continue
		}
		for _, entry := range record.Schedule {
			row := base
			row.GroupID = entry.Group
			row.Category = entry.Category
			row.Day = entry.Day
			row.Time = entry.Time
			row.Building = entry.Building
			row.Room = entry.Room
			rows = append(rows, row)
		}
	}

	matchClause := fmt.Sprintf(`
		WHEN MATCHED THEN
		  UPDATE
		    SET name = s.name,
		        building = s.building,
		        room = s.room
		WHEN NOT MATCHED BY SOURCE AND (t.year = %d AND t.semester = %d) THEN
		  DELETE`, term.Year, term.Semester)
	return bq.insert(meetingRow{}, "courses", rows, matchClause)
}

func (bq BigQuery) insert(st interface{}, tableName string, data interface{}, whenClause string) error {
	// Infer the table schema
	schema, err := bigquery.InferSchema(st)
	if err != nil {
		return fmt.Errorf("failed to infer schema: %v", err)
	}

	// Get a reference to the table
	table := bq.dataset.Table(tableName)
	if err := table.Create(bq.ctx, &bigquery.TableMetadata{Schema: schema}); err != nil {
		if !isDuplicateError(err) {
			return fmt.Errorf("failed to create table: %v", err)
		}
	}

	// Create a temp table
	// Uses a different table each time: https://stackoverflow.com/a/51998193/5623874
	tempName := tableName + "_" + strconv.Itoa(int(time.Now().Unix()))
	newArrivals := bq.dataset.Table(tempName)
	if err := newArrivals.Create(bq.ctx, &bigquery.TableMetadata{Schema: schema}); err != nil {
		if !isDuplicateError(err) {
			return fmt.Errorf("failed to create arrivals table: %v", err)
		}
	}

	// Upload data
	u := newArrivals.Inserter()
	if err := u.Put(bq.ctx, data); err != nil {
		return fmt.Errorf("failed to insert rows: %v", err)
	}

	// Merge data
	q := bq.client.Query(fmt.Sprintf(`
		MERGE %[1]s.%[2]s t
		USING %[1]s.%[3]s s
		ON t.course_number = s.course_number
		  AND t.year = s.year
		  AND t.semester = s.semester
		  AND t.group_id = s.group_id
		  AND t.category = s.category
		  AND t.day = s.day
		  AND t.time = s.time
		%[4]s
		WHEN NOT MATCHED THEN
		  INSERT ROW`, bq.datasetID, tableName, tempName, whenClause))
	if _, err := q.Run(bq.ctx); err != nil {
		return fmt.Errorf("failed to execute merge: %v", err)
	}

	// Don't delete the temp table so we can manually audit insertions
	return nil
}

func (bq BigQuery) Close() error {
	return bq.client.Close()
}

func isDuplicateError(err error) bool {
	if e, ok := err.(*googleapi.Error); ok {
		return e.Code == 409
	}
	return false
}
