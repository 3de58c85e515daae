// Package daterange translates an inclusive calendar date range into the
// minimal OR-set of day, month, and year terms of the index's date
// vocabulary.
package daterange

import "fmt"

// Formatter encodes dates into index term strings. Day, Month and Year are
// the prefixes of the three disjoint date vocabularies. Wrapped selects the
// index's term convention: false writes the prefix adjacent to the digits
// ("D20240215"), true wraps it in colons (":D:20240215"). This must match
// what the index was built with.
type Formatter struct {
	Day     string
	Month   string
	Year    string
	Wrapped bool
}

// DefaultFormatter matches the default index term convention.
var DefaultFormatter = Formatter{Day: "D", Month: "M", Year: "Y"}

func (f Formatter) apply(prefix, digits string) string {
	if f.Wrapped {
		return ":" + prefix + ":" + digits
	}
	return prefix + digits
}

// DayTerm encodes a single calendar day.
func (f Formatter) DayTerm(y, m, d int) string {
	return f.apply(f.Day, fmt.Sprintf("%04d%02d%02d", y, m, d))
}

// MonthTerm encodes a whole month.
func (f Formatter) MonthTerm(y, m int) string {
	return f.apply(f.Month, fmt.Sprintf("%04d%02d", y, m))
}

// YearTerm encodes a whole year.
func (f Formatter) YearTerm(y int) string {
	return f.apply(f.Year, fmt.Sprintf("%04d", y))
}
