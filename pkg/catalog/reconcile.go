package catalog

import "log"

// Snapshot maps course numbers to the schedule persisted by a previous
// run of the same term.
type Snapshot map[string][]ScheduleEntry

// ReconcileSchedules substitutes the prior snapshot's schedule into any
// freshly fetched record whose schedule came back empty, smoothing over
// transient upstream gaps. Records with a non-empty fresh schedule, or
// with no prior data, pass through unchanged; no schedule is ever
// fabricated for a course absent from both sources.
func ReconcileSchedules(fresh []CourseRecord, previous Snapshot) []CourseRecord {
	if len(previous) == 0 {
		return fresh
	}
	out := make([]CourseRecord, len(fresh))
	for i, record := range fresh {
		if len(record.Schedule) == 0 {
			if prior, ok := previous[record.CourseNumber]; ok && len(prior) > 0 {
				record.Schedule = prior
				log.Println("Used prior schedule for course", record.CourseNumber)
			}
		}
		out[i] = record
	}
	return out
}
