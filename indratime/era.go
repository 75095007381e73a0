package indratime

import (
	"fmt"
	"strconv"
	"strings"
)

// Era regime bounds, each a half-open interval of Julian Date. Below 1 AD
// the renderer switches from BC years to "before present" counts, anchored
// at jdOneAD so that parsing is the exact inverse of rendering.
const (
	eraBCFloor  = jdOneAD - 13000*365.25
	eraBPFloor  = jdOneAD - 100000*365.25
	daysPerYear = 365.25
)

// ToEraString renders a Julian Date as a short human-readable date:
// "YYYY[-MM[-DD]]" for 1 AD and later, "<n> BC" back to 13000 years before
// 1 AD, "<n> BP" back to 100000 years, and "<n> kya BP" beyond that.
func ToEraString(jd float64) string {
	if jd < jdOneAD {
		switch {
		case jd >= eraBCFloor:
			c := FromJulian(jd)
			return fmt.Sprintf("%d BC", 1-c.Year)
		case jd >= eraBPFloor:
			bp := int((jdOneAD - jd) / daysPerYear)
			return fmt.Sprintf("%d BP", bp)
		default:
			kya := int((jdOneAD - jd) / (1000 * daysPerYear))
			return fmt.Sprintf("%d kya BP", kya)
		}
	}
	c := FromJulian(jd)
	if c.Month == 1 && c.Day == 1 && c.Year < 1900 {
		return strconv.Itoa(c.Year)
	}
	if c.Day == 1 && c.Year < 1900 {
		return fmt.Sprintf("%d-%02d", c.Year, c.Month)
	}
	return fmt.Sprintf("%d-%02d-%02d", c.Year, c.Month, c.Day)
}

// FromEraString parses a point in time or an interval ("<start> - <end>")
// into Julian Dates. Accepted forms per point: "<n> kya BP" (also kyr
// BP/kya/kyr), "<n> BP", "<n> BC", and "YYYY[-MM[-DD]][THH[:MM[:SS]]]"
// with an optional " AD" suffix. Missing time fields default to zero;
// out-of-range month or day values silently default to 1.
func FromEraString(s string) ([]float64, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	points := strings.Split(s, " - ")
	jds := make([]float64, 0, len(points))
	for _, p := range points {
		jd, err := parseEraPoint(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		jds = append(jds, jd)
	}
	return jds, nil
}

func parseEraPoint(pt string) (float64, error) {
	pt = strings.TrimSuffix(pt, " ad")

	for _, suffix := range []string{" kya bp", " kyr bp", " kyr", " kya"} {
		if strings.HasSuffix(pt, suffix) {
			kya, err := strconv.Atoi(strings.Fields(pt)[0])
			if err != nil {
				return 0, fmt.Errorf("indratime: invalid era date %q: %w", pt, err)
			}
			return jdOneAD - float64(kya)*1000*daysPerYear, nil
		}
	}
	if strings.HasSuffix(pt, " bp") {
		bp, err := strconv.Atoi(strings.Fields(pt)[0])
		if err != nil {
			return 0, fmt.Errorf("indratime: invalid era date %q: %w", pt, err)
		}
		return jdOneAD - float64(bp)*daysPerYear, nil
	}
	if strings.HasSuffix(pt, " bc") {
		c, err := parseCivilPoint(strings.TrimSuffix(pt, " bc"))
		if err != nil {
			return 0, err
		}
		// n BC is astronomical year 1-n; year 0 (1 BC) is valid here.
		c.Year = 1 - c.Year
		return hybridToJulian(c), nil
	}
	c, err := parseCivilPoint(pt)
	if err != nil {
		return 0, err
	}
	return hybridToJulian(c), nil
}

// parseCivilPoint parses "YYYY[-MM[-DD]][THH[:MM[:SS]]]". Unknown fields
// are zero (or 1 for month/day); out-of-range month/day fall back to 1
// rather than erroring, a deliberate leniency for sloppy historical input.
func parseCivilPoint(pt string) (Civil, error) {
	c := Civil{Month: 1, Day: 1}

	date := pt
	if i := strings.IndexByte(pt, 't'); i >= 0 {
		date = pt[:i]
		clock := pt[i+1:]
		tparts := strings.Split(clock, ":")
		if len(tparts) > 3 {
			return Civil{}, fmt.Errorf("indratime: invalid time in era date %q", pt)
		}
		fields := []*int{&c.Hour, &c.Minute, &c.Second}
		for j, tp := range tparts {
			if tp == "" {
				continue
			}
			v, err := strconv.Atoi(tp)
			if err != nil {
				return Civil{}, fmt.Errorf("indratime: invalid time in era date %q: %w", pt, err)
			}
			*fields[j] = v
		}
	}

	neg := strings.HasPrefix(date, "-")
	if neg {
		date = date[1:]
	}
	dparts := strings.Split(date, "-")
	if len(dparts) < 1 || len(dparts) > 3 {
		return Civil{}, fmt.Errorf("indratime: invalid era date %q", pt)
	}
	year, err := strconv.Atoi(dparts[0])
	if err != nil {
		return Civil{}, fmt.Errorf("indratime: invalid era date %q: %w", pt, err)
	}
	if neg {
		year = -year
	}
	c.Year = year
	if len(dparts) > 1 {
		m, err := strconv.Atoi(dparts[1])
		if err != nil {
			return Civil{}, fmt.Errorf("indratime: invalid era date %q: %w", pt, err)
		}
		if m >= 1 && m <= 12 {
			c.Month = m
		}
	}
	if len(dparts) > 2 {
		d, err := strconv.Atoi(dparts[2])
		if err != nil {
			return Civil{}, fmt.Errorf("indratime: invalid era date %q: %w", pt, err)
		}
		if d >= 1 && d <= 31 {
			c.Day = d
		}
	}
	return c, nil
}
