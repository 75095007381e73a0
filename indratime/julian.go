// Package indratime converts between civil calendar dates, continuous Julian
// Dates, ISO-8601 text, and human-readable era strings. Julian Dates are
// float64 day counts with the classical noon-UTC day boundary; all civil
// representations are UTC.
package indratime

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Civil is a discrete UTC calendar instant. Year is astronomical for
// internal purposes except where noted: the public conversions reject
// year 0, matching the historical calendar.
type Civil struct {
	Year        int
	Month       int
	Day         int
	Hour        int
	Minute      int
	Second      int
	Microsecond int
}

var (
	// ErrYearZero is returned for year 0, which does not exist in the
	// historical Julian/Gregorian calendar.
	ErrYearZero = errors.New("indratime: no year 0 in the civil calendar")

	// ErrGregorianGap is returned for 1582-10-05 through 1582-10-14, the ten
	// days removed by the Julian to Gregorian switch.
	ErrGregorianGap = errors.New("indratime: date falls in the 1582 Gregorian calendar gap")
)

// gregorianCutoverJD is the first Julian Day number of the Gregorian
// calendar (1582-10-15).
const gregorianCutoverJD = 2299161

// jdOneAD is the Julian Date of 0001-01-01T00:00:00 in the hybrid calendar
// (Julian calendar rules apply that far back).
const jdOneAD = 1721423.5

const microsPerDay = 86400000000

// ToJulian converts a civil date to a Julian Date using the hybrid calendar:
// Julian calendar rules before the October 1582 cutover, Gregorian after.
// Year 0 and the ten elided days of October 1582 are rejected.
func ToJulian(c Civil) (float64, error) {
	if c.Year == 0 {
		return 0, ErrYearZero
	}
	if c.Year == 1582 && c.Month == 10 && c.Day > 4 && c.Day < 15 {
		return 0, ErrGregorianGap
	}
	return hybridToJulian(c), nil
}

// ToJulianGregorian converts a civil date to a Julian Date using the
// proleptic Gregorian calendar: no cutover, no rejected dates. Use it when a
// continuous calendar is wanted, e.g. for comparing very old dates.
func ToJulianGregorian(c Civil) float64 {
	y, m := c.Year, c.Month
	if m <= 2 {
		y--
		m += 12
	}
	a := math.Floor(float64(y) / 100)
	b := 2 - a + math.Floor(a/4)
	jd := math.Floor(365.25*float64(y+4716)) + math.Floor(30.6001*float64(m+1)) + float64(c.Day) + b - 1524.5
	jd += float64(c.Hour)/24 + float64(c.Minute)/1440 + float64(c.Second)/86400 + float64(c.Microsecond)/microsPerDay
	return jd
}

// hybridToJulian is ToJulian without validation. The era-string parser needs
// it for astronomical year 0 ("1 BC").
func hybridToJulian(c Civil) float64 {
	var jy, jm int
	if c.Month > 2 {
		jy = c.Year
		jm = c.Month + 1
	} else {
		jy = c.Year - 1
		jm = c.Month + 13
	}

	intgr := math.Floor(math.Floor(365.25*float64(jy)) + math.Floor(30.6001*float64(jm)) + float64(c.Day) + 1720995)

	// Gregorian correction applies from 1582-10-15 onward.
	gregcal := 15 + 31*(10+12*1582)
	if c.Day+31*(c.Month+12*c.Year) >= gregcal {
		ja := math.Floor(0.01 * float64(jy))
		intgr += 2 - ja + math.Floor(0.25*ja)
	}

	// Shift the day boundary to noon.
	dayfrac := float64(c.Hour)/24 - 0.5
	if dayfrac < 0 {
		dayfrac++
		intgr--
	}

	frac := dayfrac + float64(c.Minute*60+c.Second)/86400 + float64(c.Microsecond)/microsPerDay
	return intgr + frac
}

// FromJulian converts a Julian Date back to a civil date, switching from the
// Gregorian to the Julian calendar below JD 2299161. The day fraction is
// rounded to whole microseconds.
func FromJulian(jd float64) Civil {
	// Floor, not Trunc: day numbers and the century count must round down
	// for Julian Dates below zero as well.
	j := jd + 0.5
	z := math.Floor(j)
	f := j - z

	micros := int64(math.Round(f * microsPerDay))
	if micros >= microsPerDay {
		micros -= microsPerDay
		z++
	}

	a := z
	if z >= gregorianCutoverJD {
		alpha := math.Floor((z - 1867216.25) / 36524.25)
		a = z + 1 + alpha - math.Floor(alpha/4)
	}
	b := a + 1524
	cc := math.Floor((b - 122.1) / 365.25)
	d := math.Floor(365.25 * cc)
	e := math.Floor((b - d) / 30.6001)

	day := int(b - d - math.Floor(30.6001*e))
	var month int
	if e < 14 {
		month = int(e) - 1
	} else {
		month = int(e) - 13
	}
	var year int
	if month > 2 {
		year = int(cc) - 4716
	} else {
		year = int(cc) - 4715
	}

	c := Civil{Year: year, Month: month, Day: day}
	c.Microsecond = int(micros % 1000000)
	secs := micros / 1000000
	c.Second = int(secs % 60)
	mins := secs / 60
	c.Minute = int(mins % 60)
	c.Hour = int(mins / 60)
	return c
}

// FromTime converts a time.Time to a Julian Date. The instant is taken in
// UTC regardless of the value's location.
func FromTime(t time.Time) float64 {
	u := t.UTC()
	c := Civil{
		Year:        u.Year(),
		Month:       int(u.Month()),
		Day:         u.Day(),
		Hour:        u.Hour(),
		Minute:      u.Minute(),
		Second:      u.Second(),
		Microsecond: u.Nanosecond() / 1000,
	}
	jd, err := ToJulian(c)
	if err != nil {
		// time.Time cannot represent year 0 or the 1582 gap in the hybrid
		// calendar sense that ToJulian rejects; fall back to the raw
		// conversion rather than lose the timestamp.
		return hybridToJulian(c)
	}
	return jd
}

// Now returns the current UTC instant as a Julian Date.
func Now() float64 {
	return FromTime(time.Now())
}

// ToISO renders a Julian Date as extended ISO-8601,
// YYYY-MM-DDTHH:MM:SS.ssssssZ. Years are zero-padded to at least four
// digits; BC-range years carry a leading minus.
func ToISO(jd float64) string {
	c := FromJulian(jd)
	year := formatYear(c.Year)
	return fmt.Sprintf("%s-%02d-%02dT%02d:%02d:%02d.%06dZ",
		year, c.Month, c.Day, c.Hour, c.Minute, c.Second, c.Microsecond)
}

func formatYear(y int) string {
	if y < 0 {
		return fmt.Sprintf("-%04d", -y)
	}
	return fmt.Sprintf("%04d", y)
}

// FromISO parses the format produced by ToISO back to a Julian Date.
// Negative-year prefixes are handled; only UTC ("Z") time is supported.
func FromISO(iso string) (float64, error) {
	dt := strings.SplitN(iso, "T", 2)
	if len(dt) != 2 {
		return 0, fmt.Errorf("indratime: invalid ISO-8601 string %q", iso)
	}
	date, clock := dt[0], dt[1]

	negYear := strings.HasPrefix(date, "-")
	if negYear {
		date = date[1:]
	}
	dparts := strings.Split(date, "-")
	if len(dparts) != 3 {
		return 0, fmt.Errorf("indratime: invalid ISO-8601 date in %q", iso)
	}
	year, err := strconv.Atoi(dparts[0])
	if err != nil {
		return 0, fmt.Errorf("indratime: invalid year in %q: %w", iso, err)
	}
	if negYear {
		year = -year
	}
	month, err := strconv.Atoi(dparts[1])
	if err != nil {
		return 0, fmt.Errorf("indratime: invalid month in %q: %w", iso, err)
	}
	day, err := strconv.Atoi(dparts[2])
	if err != nil {
		return 0, fmt.Errorf("indratime: invalid day in %q: %w", iso, err)
	}

	clock = strings.TrimSuffix(clock, "Z")
	tparts := strings.Split(clock, ":")
	if len(tparts) != 3 {
		return 0, fmt.Errorf("indratime: invalid ISO-8601 time in %q", iso)
	}
	hour, err := strconv.Atoi(tparts[0])
	if err != nil {
		return 0, fmt.Errorf("indratime: invalid hour in %q: %w", iso, err)
	}
	minute, err := strconv.Atoi(tparts[1])
	if err != nil {
		return 0, fmt.Errorf("indratime: invalid minute in %q: %w", iso, err)
	}
	second := 0
	micro := 0
	secparts := strings.SplitN(tparts[2], ".", 2)
	second, err = strconv.Atoi(secparts[0])
	if err != nil {
		return 0, fmt.Errorf("indratime: invalid second in %q: %w", iso, err)
	}
	if len(secparts) == 2 && secparts[1] != "" {
		frac := secparts[1]
		if len(frac) > 6 {
			frac = frac[:6]
		}
		for len(frac) < 6 {
			frac += "0"
		}
		micro, err = strconv.Atoi(frac)
		if err != nil {
			return 0, fmt.Errorf("indratime: invalid fractional second in %q: %w", iso, err)
		}
	}

	return hybridToJulian(Civil{
		Year: year, Month: month, Day: day,
		Hour: hour, Minute: minute, Second: second, Microsecond: micro,
	}), nil
}
