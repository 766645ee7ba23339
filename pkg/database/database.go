package database

import (
	"io"

	"github.com/sapfetch/sapfetch/pkg/catalog"
)

// Store is a persistence target for a term's reconciled course records.
// It receives the complete sequence; write batching and metadata
// bookkeeping are its own concern.
type Store interface {
	io.Closer
	SaveCourses(term catalog.Term, records []catalog.CourseRecord) error
}

var (
	_ Store = Sqlite{}
	_ Store = Firestore{}
)
