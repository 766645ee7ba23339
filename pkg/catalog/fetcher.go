package catalog

import (
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/sapfetch/sapfetch/pkg/sap"
)

// courseDelay bounds the outbound request rate between course fetches,
// as a courtesy to the portal.
const courseDelay = 100 * time.Millisecond

const maxCoursesPerTerm = 10000

// Failure records one course that could not be fetched.
type Failure struct {
	CourseID string
	Err      error
}

// FetchResult is the outcome of fetching a full term: the records that
// built successfully, in course-listing order, plus the failures.
type FetchResult struct {
	Courses  []CourseRecord
	Failures []Failure
}

// Fetcher lists and fetches all courses of a term sequentially.
type Fetcher struct {
	source  sap.QuerySource
	builder *Builder
	delay   time.Duration
	verbose bool
}

func NewFetcher(source sap.QuerySource, verbose bool) *Fetcher {
	return &Fetcher{
		source:  source,
		builder: NewBuilder(source, NewBuildingResolver(source)),
		delay:   courseDelay,
		verbose: verbose,
	}
}

// CourseIDs lists the identifiers of every course offered in a term.
func (f *Fetcher) CourseIDs(year, semester int) ([]string, error) {
	params := url.Values{}
	params.Set("sap-client", "700")
	params.Set("$skip", "0")
	params.Set("$top", fmt.Sprint(maxCoursesPerTerm))
	params.Set("$filter", fmt.Sprintf("Peryr eq '%d' and Perid eq '%d'", year, semester))
	params.Set("$select", "Otjid")

	raw, err := f.source.Send("SmObjectSet?"+params.Encode(), false)
	if err != nil {
		return nil, err
	}
	var payload struct {
		D resultSet[struct {
			Otjid string `json:"Otjid"`
		}] `json:"d"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode course listing: %v", err)
	}

	ids := make([]string, 0, len(payload.D.Results))
	for _, row := range payload.D.Results {
		ids = append(ids, row.Otjid)
	}
	return ids, nil
}

// FetchSemester fetches every course of a term. A failure for one course
// is recorded and never prevents the remaining courses from being
// attempted; only the initial course listing can fail the whole term.
func (f *Fetcher) FetchSemester(year, semester int) (FetchResult, error) {
	ids, err := f.CourseIDs(year, semester)
	if err != nil {
		return FetchResult{}, err
	}
	log.Println("Found", len(ids), "courses for term", Term{year, semester})

	var result FetchResult
	for i, id := range ids {
		if f.verbose {
			log.Printf("[%d/%d] fetching %s", i+1, len(ids), id)
		} else if (i+1)%10 == 0 {
			log.Printf("Processed %d/%d courses", i+1, len(ids))
		}

		record, err := f.builder.Build(year, semester, id)
		if err != nil {
			result.Failures = append(result.Failures, Failure{CourseID: id, Err: err})
			if f.verbose {
				log.Printf("Failed to fetch %s: %v", id, err)
			}
			continue
		}
		result.Courses = append(result.Courses, record)
		time.Sleep(f.delay)
	}

	if len(result.Failures) > 0 {
		log.Println("Failed to fetch", len(result.Failures), "courses")
	}
	return result, nil
}
