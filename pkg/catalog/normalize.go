package catalog

import (
	"regexp"
	"strings"
)

var (
	pointsTrailing = regexp.MustCompile(`(\.[1-9]+)0+$`)
	pointsIntegral = regexp.MustCompile(`\.0+$`)
)

// NormalizePoints strips trailing zeros from a decimal-valued credit
// string: "3.00" becomes "3" and "3.50" becomes "3.5".
func NormalizePoints(points string) string {
	points = pointsTrailing.ReplaceAllString(points, "$1")
	return pointsIntegral.ReplaceAllString(points, "")
}

var (
	oldSportNumber = regexp.MustCompile(`^9730\d\d$`)
	sixDigitNumber = regexp.MustCompile(`^\d{6}$`)
)

// NormalizeCourseNumber zero-pads a course number to its canonical length
// and applies the numbering-scheme fixups introduced when the institution
// moved from 6- to 8-digit numbers. Already-canonical numbers come back
// unchanged.
func NormalizeCourseNumber(number string) string {
	if len(number) <= 6 {
		number = zfill(number, 6)
		switch {
		case oldSportNumber.MatchString(number):
			number = "970300" + number[4:]
		case sixDigitNumber.MatchString(number):
			number = "0" + number[:3] + "0" + number[3:]
		}
		return number
	}
	return zfill(number, 8)
}

func zfill(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
