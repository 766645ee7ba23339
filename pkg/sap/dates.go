package sap

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var (
	sapDate  = regexp.MustCompile(`^/Date\((\d+)\)/$`)
	sapClock = regexp.MustCompile(`^PT(\d\d)H(\d\d)M(\d\d)S$`)
)

// ParseDate decodes the SAP wire date format "/Date(ms)/" into a UTC time.
func ParseDate(s string) (time.Time, error) {
	m := sapDate.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, fmt.Errorf("invalid date format: %q", s)
	}
	ms, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %q", s)
	}
	return time.UnixMilli(ms).UTC(), nil
}

// ParseClock decodes an ISO-8601-duration-like time of day such as
// "PT08H30M00S" into "08:30". Seconds are discarded.
func ParseClock(s string) (string, bool) {
	m := sapClock.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return m[1] + ":" + m[2], true
}
