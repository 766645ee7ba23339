package database

import (
	"context"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"

	"github.com/sapfetch/sapfetch/pkg/catalog"
)

// Firestore's hard limit on writes per batch.
const firestoreBatchSize = 500

// Firestore persists course records as per-course documents under a
// university collection:
//
//	<university>/metadata                      bookkeeping document
//	<university>/data/courses_<year>_<sem>/<courseNumber>
type Firestore struct {
	ctx          context.Context
	client       *firestore.Client
	universityID string
}

func NewFirestore(projectID, universityID string) (Firestore, error) {
	ctx := context.Background()
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return Firestore{}, fmt.Errorf("failed to create client: %v", err)
	}
	return Firestore{ctx, client, universityID}, nil
}

func (f Firestore) SaveCourses(term catalog.Term, records []catalog.CourseRecord) error {
	collection := fmt.Sprintf("courses_%d_%d", term.Year, term.Semester)
	university := f.client.Collection(f.universityID)

	log.Printf("Updating %s metadata...", f.universityID)
	_, err := university.Doc("metadata").Set(f.ctx, map[string]interface{}{
		"last_updated":        firestore.ServerTimestamp,
		"available_semesters": firestore.ArrayUnion(collection),
		"semester_counts": map[string]interface{}{
			collection: len(records),
		},
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to update metadata: %v", err)
	}

	courses := university.Doc("data").Collection(collection)
	batch := f.client.Batch()
	pending := 0
	for _, record := range records {
		batch.Set(courses.Doc(record.CourseNumber), f.courseDocument(record, term))
		pending++
		if pending == firestoreBatchSize {
			if _, err := batch.Commit(f.ctx); err != nil {
				return fmt.Errorf("failed to commit batch: %v", err)
			}
			batch = f.client.Batch()
			pending = 0
		}
	}
	if pending > 0 {
		if _, err := batch.Commit(f.ctx); err != nil {
			return fmt.Errorf("failed to commit batch: %v", err)
		}
	}

	log.Printf("Saved %d courses to %s/data/%s", len(records), f.universityID, collection)
	return nil
}

func (f Firestore) courseDocument(record catalog.CourseRecord, term catalog.Term) map[string]interface{} {
	schedule := record.Schedule
	if schedule == nil {
		schedule = []catalog.ScheduleEntry{}
	}
	return map[string]interface{}{
		"general":  generalFields(record),
		"schedule": schedule,
		"metadata": map[string]interface{}{
			"fetched_at":    firestore.ServerTimestamp,
			"university":    f.universityID,
			"year":          term.Year,
			"semester":      term.Semester,
			"semester_name": term.HebrewName(),
		},
	}
}

func (f Firestore) Close() error {
	return f.client.Close()
}
