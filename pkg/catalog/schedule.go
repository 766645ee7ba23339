package catalog

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"

	"github.com/sapfetch/sapfetch/pkg/sap"
)

const roomSeeDetails = "ראה פרטים"

var (
	roomTextPattern = regexp.MustCompile(`^(\d\d\d)-(\d\d\d\d)`)
	roomNamePattern = regexp.MustCompile(`^(\d\d\d)-(\d\d\d\d)$`)

	sportCourseNumber = regexp.MustCompile(`^03940[89]\d\d`)
	sportPECategory   = regexp.MustCompile(`^ספורט חינוך גופני\s*-`)
	seGroupPrefix     = regexp.MustCompile(`^SE\d+\s*`)
)

type rawMeetingGroup struct {
	Name   string              `json:"Name"`
	SeqNr  string              `json:"ZzSeSeqnr"`
	Events resultSet[rawEvent] `json:"EObjectSet"`
}

type rawEvent struct {
	Otjid           string               `json:"Otjid"`
	Name            string               `json:"Name"`
	CategoryText    string               `json:"CategoryText"`
	RoomText        string               `json:"RoomText"`
	RoomID          string               `json:"RoomId"`
	ScheduleSummary string               `json:"ScheduleSummary"`
	Persons         resultSet[rawPerson] `json:"Persons"`
}

// buildSchedule fetches the weekly meeting schedule of a course. Any
// failure here degrades to an empty schedule; the general course record
// is still worth keeping.
func (b *Builder) buildSchedule(year, semester int, courseNumber string) []ScheduleEntry {
	params := url.Values{}
	params.Set("sap-client", "700")
	params.Set("$expand", "EObjectSet,EObjectSet/Persons")
	query := fmt.Sprintf(
		"SmObjectSet(Otjid='SM%s',Peryr='%d',Perid='%d',ZzCgOtjid='',ZzPoVersion='',ZzScOtjid='')/SeObjectSet?%s",
		courseNumber, year, semester, params.Encode())

	raw, err := b.source.Send(query, true)
	if err != nil {
		return nil
	}
	var payload struct {
		D resultSet[rawMeetingGroup] `json:"d"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil
	}

	groups := payload.D.Results
	sortMeetingGroups(groups)

	var schedule []ScheduleEntry
	for _, group := range groups {
		groupID := atoi(group.SeqNr)
		for _, event := range group.Events.Results {
			if irregularSummary(event.ScheduleSummary) {
				continue
			}

			category := eventCategory(courseNumber, group, event)
			staff := joinStaff(event.Persons.Results)
			building, room, roomsByTime := b.resolveRoom(year, semester, event)

			// Events carry their own sequence number when numeric;
			// otherwise fall back to the group id.
			number := groupID
			if n, err := strconv.Atoi(event.Otjid); err == nil {
				number = n
			}

			for _, slot := range ParseScheduleText(event.ScheduleSummary) {
				entryBuilding, entryRoom := building, room
				if roomsByTime != nil {
					key := timeSlotKey{weekdayIndex[slot.Day], slot.Begin, slot.End}
					if loc, ok := roomsByTime[key]; ok {
						entryBuilding, entryRoom = loc.building, loc.room
					}
				}
				schedule = append(schedule, ScheduleEntry{
					Group:    groupID,
					Category: category,
					Day:      slot.Day,
					Time:     slot.Begin + " - " + slot.End,
					Building: entryBuilding,
					Room:     entryRoom,
					Staff:    staff,
					Number:   number,
				})
			}
		}
	}
	return schedule
}

// sortMeetingGroups orders groups by ascending numeric id, except that
// group 0 sorts last: zero denotes "ungrouped" and must not shadow the
// named groups. The sort is stable.
func sortMeetingGroups(groups []rawMeetingGroup) {
	sort.SliceStable(groups, func(i, j int) bool {
		a, b := atoi(groups[i].SeqNr), atoi(groups[j].SeqNr)
		if (a == 0) != (b == 0) {
			return b == 0
		}
		return a < b
	})
}

// eventCategory relabels the category of sport-course meetings with the
// meeting's own name, since the portal files them all under a generic
// sport category. When the name is itself generic, the parent group name
// is used with its "SE<digits>" prefix stripped.
func eventCategory(courseNumber string, group rawMeetingGroup, event rawEvent) string {
	category := event.CategoryText
	if !sportCourseNumber.MatchString(courseNumber) {
		return category
	}
	if category != "ספורט" && category != "נבחרת ספורט" {
		return category
	}
	category = event.Name
	if sportPECategory.MatchString(category) || category == "ספורט נבחרות ספורט" {
		if group.Name != "" {
			category = seGroupPrefix.ReplaceAllString(group.Name, "")
		}
	}
	return category
}

type timeSlotKey struct {
	weekday    int
	begin, end string
}

type roomLocation struct {
	building string
	room     int
}

// resolveRoom resolves the meeting's room either directly from the
// structured "building-room" text, or — when the text is blank or the
// "see details" sentinel — via the per-event schedule lookup, returned
// as a map keyed by (weekday, begin, end).
func (b *Builder) resolveRoom(year, semester int, event rawEvent) (string, int, map[timeSlotKey]roomLocation) {
	if event.RoomText != "" && event.RoomText != roomSeeDetails {
		m := roomTextPattern.FindStringSubmatch(event.RoomText)
		if m == nil {
			return "", 0, nil
		}
		return b.buildings.Resolve(year, semester, event.RoomID), atoi(m[2]), nil
	}
	if event.Otjid == "" {
		return "", 0, nil
	}
	return "", 0, b.roomsByTime(year, semester, event.Otjid)
}

type rawRoom struct {
	Otjid string `json:"Otjid"`
	Name  string `json:"Name"`
}

type rawEventSchedule struct {
	Evdat string             `json:"Evdat"`
	Beguz string             `json:"Beguz"`
	Enduz string             `json:"Enduz"`
	Rooms resultSet[rawRoom] `json:"Rooms"`
}

// roomsByTime looks up an event's concrete room assignments and indexes
// them by weekly time slot. A slot is only kept when all its occurrences
// agree on a single building. Failures yield an empty result.
func (b *Builder) roomsByTime(year, semester int, eventID string) map[timeSlotKey]roomLocation {
	params := url.Values{}
	params.Set("sap-client", "700")
	params.Set("$filter", fmt.Sprintf("Otjid eq '%s' and Peryr eq '%d' and Perid eq '%d'", eventID, year, semester))
	params.Set("$expand", "Rooms")

	raw, err := b.source.Send("EventScheduleSet?"+params.Encode(), false)
	if err != nil {
		return nil
	}
	var payload struct {
		D resultSet[rawEventSchedule] `json:"d"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil
	}

	out := make(map[timeSlotKey]roomLocation)
	for _, row := range payload.D.Results {
		if row.Evdat == "" || row.Beguz == "" || row.Enduz == "" {
			continue
		}
		date, err := sap.ParseDate(row.Evdat)
		if err != nil {
			continue
		}
		begin, ok := sap.ParseClock(row.Beguz)
		if !ok {
			continue
		}
		end, ok := sap.ParseClock(row.Enduz)
		if !ok {
			continue
		}

		buildings := make(map[string]bool)
		roomNumbers := make(map[int]bool)
		for _, room := range row.Rooms.Results {
			m := roomNamePattern.FindStringSubmatch(room.Name)
			if m == nil {
				continue
			}
			buildings[b.buildings.Resolve(year, semester, room.Otjid)] = true
			roomNumbers[atoi(m[2])] = true
		}

		if len(buildings) != 1 {
			continue
		}
		var loc roomLocation
		for name := range buildings {
			loc.building = name
		}
		if len(roomNumbers) == 1 {
			for n := range roomNumbers {
				loc.room = n
			}
		}
		out[timeSlotKey{int(date.Weekday()), begin, end}] = loc
	}
	return out
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
