package indratime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToEraString_Regimes(t *testing.T) {
	tests := []struct {
		name string
		jd   float64
		want string
	}{
		{"first day of AD regime", 1721423.5, "1"},
		{"day before AD regime", 1721422.5, "1 BC"},
		{"caesar's death year", mustJulian(t, Civil{Year: -43, Month: 3, Day: 15}), "44 BC"},
		{"deep BC", jdOneAD - 5000*daysPerYear, "5000 BC"},
		{"BC regime lower bound", eraBCFloor, "13000 BC"},
		{"just below BC regime", eraBCFloor - 1, "13000 BP"},
		{"BP regime", jdOneAD - 50000*daysPerYear, "50000 BP"},
		{"BP regime lower bound", eraBPFloor, "100000 BP"},
		{"kya regime", jdOneAD - 500000*daysPerYear, "500 kya BP"},
		{"year only", mustJulian(t, Civil{Year: 1700, Month: 1, Day: 1}), "1700"},
		{"year and month", mustJulian(t, Civil{Year: 1700, Month: 5, Day: 1}), "1700-05"},
		{"full date", mustJulian(t, Civil{Year: 1700, Month: 5, Day: 9}), "1700-05-09"},
		{"modern dates always full", mustJulian(t, Civil{Year: 1969, Month: 1, Day: 1}), "1969-01-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToEraString(tt.jd))
		})
	}
}

func mustJulian(t *testing.T, c Civil) float64 {
	t.Helper()
	jd, err := ToJulian(c)
	require.NoError(t, err)
	return jd
}

func TestFromEraString_Points(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1", 1721423.5},
		{"1 AD", 1721423.5},
		{"1969-07-20", mustJulianCivil(1969, 7, 20)},
		{"1969-07-20T20:17:40", mustJulianCivil(1969, 7, 20) + (20*3600+17*60+40)/86400.0},
		{"44 BC", mustJulianAstronomical(-43, 1, 1)},
		{"1 BC", mustJulianAstronomical(0, 1, 1)},
		{"10000 BP", jdOneAD - 10000*daysPerYear},
		{"300 kya BP", jdOneAD - 300000*daysPerYear},
		{"300 kyr", jdOneAD - 300000*daysPerYear},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			jds, err := FromEraString(tt.in)
			require.NoError(t, err)
			require.Len(t, jds, 1)
			assert.InDelta(t, tt.want, jds[0], 1e-8)
		})
	}
}

func mustJulianCivil(y, m, d int) float64 {
	jd, err := ToJulian(Civil{Year: y, Month: m, Day: d})
	if err != nil {
		panic(err)
	}
	return jd
}

// mustJulianAstronomical bypasses the year-0 rejection; era parsing maps
// "1 BC" onto astronomical year 0.
func mustJulianAstronomical(y, m, d int) float64 {
	return hybridToJulian(Civil{Year: y, Month: m, Day: d})
}

func TestFromEraString_Interval(t *testing.T) {
	jds, err := FromEraString("100 BC - 44 BC")
	require.NoError(t, err)
	require.Len(t, jds, 2)
	assert.Less(t, jds[0], jds[1])

	jds, err = FromEraString("1914-07-28 - 1918-11-11")
	require.NoError(t, err)
	require.Len(t, jds, 2)
	assert.Equal(t, mustJulianCivil(1914, 7, 28), jds[0])
	assert.Equal(t, mustJulianCivil(1918, 11, 11), jds[1])
}

func TestFromEraString_CaseInsensitive(t *testing.T) {
	a, err := FromEraString("300 KYA bp")
	require.NoError(t, err)
	b, err := FromEraString("300 kya BP")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestFromEraString_LenientMonthDay(t *testing.T) {
	// Out-of-range month and day fall back to 1 instead of erroring.
	jds, err := FromEraString("1700-13-40")
	require.NoError(t, err)
	require.Len(t, jds, 1)
	assert.Equal(t, mustJulianCivil(1700, 1, 1), jds[0])
}

func TestFromEraString_Malformed(t *testing.T) {
	for _, in := range []string{
		"",
		"soon",
		"x BC",
		"many kya BP",
		"1969-07-20T12:00:00:00",
	} {
		_, err := FromEraString(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestEraRoundTrip(t *testing.T) {
	// Rendering then parsing recovers the instant to day precision in the
	// AD/BC regimes and to a year in the BP regimes.
	jds := []float64{
		mustJulianCivil(1969, 7, 20),
		mustJulianCivil(1700, 1, 1),
		mustJulianCivil(-43, 3, 15),
		1721423.5,
		1721422.5,
		jdOneAD - 50000*daysPerYear,
		jdOneAD - 500000*daysPerYear,
	}
	for _, jd := range jds {
		parsed, err := FromEraString(ToEraString(jd))
		require.NoError(t, err)
		require.Len(t, parsed, 1)
		assert.InDelta(t, jd, parsed[0], daysPerYear, "jd %v", jd)
	}
}

func TestEraRoundTrip_ADDatesExact(t *testing.T) {
	for _, jd := range []float64{
		mustJulianCivil(1969, 7, 20),
		mustJulianCivil(1700, 5, 9),
		1721423.5,
	} {
		parsed, err := FromEraString(ToEraString(jd))
		require.NoError(t, err)
		assert.Equal(t, jd, parsed[0], "jd %v", jd)
	}
}
