package catalog

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"

	"github.com/sapfetch/sapfetch/pkg/sap"
)

// SemesterInfo describes one semester the portal knows about.
type SemesterInfo struct {
	Term      Term
	StartDate string // YYYY-MM-DD
	EndDate   string
}

// Semesters lists the available semesters, newest first. Sessions other
// than the three regular semester codes are dropped.
func (f *Fetcher) Semesters() ([]SemesterInfo, error) {
	params := url.Values{}
	params.Set("sap-client", "700")
	params.Set("$select", "PiqYear,PiqSession,Begda,Endda")

	raw, err := f.source.Send("SemesterSet?"+params.Encode(), false)
	if err != nil {
		return nil, err
	}
	var payload struct {
		D resultSet[struct {
			PiqYear    string `json:"PiqYear"`
			PiqSession string `json:"PiqSession"`
			Begda      string `json:"Begda"`
			Endda      string `json:"Endda"`
		}] `json:"d"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode semester listing: %v", err)
	}

	var semesters []SemesterInfo
	for _, row := range payload.D.Results {
		semester := atoi(row.PiqSession)
		if semester != SemesterWinter && semester != SemesterSpring && semester != SemesterSummer {
			continue
		}
		start, err := sap.ParseDate(row.Begda)
		if err != nil {
			return nil, err
		}
		end, err := sap.ParseDate(row.Endda)
		if err != nil {
			return nil, err
		}
		semesters = append(semesters, SemesterInfo{
			Term:      Term{Year: atoi(row.PiqYear), Semester: semester},
			StartDate: start.Format("2006-01-02"),
			EndDate:   end.Format("2006-01-02"),
		})
	}

	sort.Slice(semesters, func(i, j int) bool {
		a, b := semesters[i].Term, semesters[j].Term
		if a.Year != b.Year {
			return a.Year > b.Year
		}
		return a.Semester > b.Semester
	})
	return semesters, nil
}
