package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sapfetch/sapfetch/pkg/catalog"
)

// JSONStore persists terms as cheesefork-compatible JSON files, one per
// term, and serves them back as reconciliation snapshots.
type JSONStore struct {
	dir string
}

func NewJSONStore(dir string) JSONStore {
	return JSONStore{dir: dir}
}

type courseDoc struct {
	General  map[string]string       `json:"general"`
	Schedule []catalog.ScheduleEntry `json:"schedule"`
}

// generalFields renders a record's general section with the Hebrew field
// names the snapshot format uses. Optional fields and absent exam dates
// are omitted rather than stored empty.
func generalFields(record catalog.CourseRecord) map[string]string {
	general := map[string]string{
		"מספר מקצוע":     record.CourseNumber,
		"שם מקצוע":       record.Name,
		"סילבוס":         record.Syllabus,
		"פקולטה":         record.Faculty,
		"מסגרת לימודים":  record.AcademicLevel,
		"נקודות":         record.Points,
		"אחראים":         record.Responsible,
		"הערות":          record.Notes,
	}
	if record.Prerequisites != "" {
		general["מקצועות קדם"] = record.Prerequisites
	}
	if len(record.AdjoiningCourses) > 0 {
		general["מקצועות צמודים"] = strings.Join(record.AdjoiningCourses, " ")
	}
	if len(record.NoAdditionalCredit) > 0 {
		general["מקצועות ללא זיכוי נוסף"] = strings.Join(record.NoAdditionalCredit, " ")
	}
	for label, date := range record.Exams {
		if date != "" {
			general[label] = date
		}
	}
	return general
}

func (s JSONStore) path(term catalog.Term) string {
	return filepath.Join(s.dir, fmt.Sprintf("courses_%d_%d.json", term.Year, term.Semester))
}

func (s JSONStore) SaveCourses(term catalog.Term, records []catalog.CourseRecord) error {
	docs := make([]courseDoc, len(records))
	for i, record := range records {
		schedule := record.Schedule
		if schedule == nil {
			schedule = []catalog.ScheduleEntry{}
		}
		docs[i] = courseDoc{General: generalFields(record), Schedule: schedule}
	}

	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal courses: %v", err)
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %v", err)
	}
	return os.WriteFile(s.path(term), data, 0644)
}

// LoadSnapshot reads a previously saved term back as a schedule
// snapshot. A missing file is not an error; reconciliation simply has no
// prior data to merge.
func (s JSONStore) LoadSnapshot(term catalog.Term) (catalog.Snapshot, error) {
	data, err := os.ReadFile(s.path(term))
	if errors.Is(err, os.ErrNotExist) {
		return catalog.Snapshot{}, nil
	}
	if err != nil {
		return nil, err
	}

	var docs []courseDoc
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %v", err)
	}
	snapshot := make(catalog.Snapshot, len(docs))
	for _, doc := range docs {
		if number := doc.General["מספר מקצוע"]; number != "" {
			snapshot[number] = doc.Schedule
		}
	}
	return snapshot, nil
}
