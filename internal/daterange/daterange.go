package daterange

// monthDays returns the number of days in month m of year y, leap-aware.
func monthDays(m, y int) int {
	switch m {
	case 2:
		if y%4 == 0 && (y%100 != 0 || y%400 == 0) {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	default:
		return 31
	}
}

// Translate returns the terms whose OR covers every day in the inclusive
// range [y1-m1-d1, y2-m2-d2], using the coarsest granularity possible: whole
// months become month terms, whole interior years become year terms.
// Output order is deterministic: days of the first month, months of the
// first year, interior years, leading months of the last year, then the
// final month or its days.
//
// Inputs are assumed chronologically ordered (start <= end); the result for
// a reversed range is unspecified. Translate is pure and safe for
// concurrent use.
func Translate(f Formatter, y1, m1, d1, y2, m2, d2 int) []string {
	// A whole calendar year collapses to its year term.
	if y1 == y2 && m1 == 1 && d1 == 1 && m2 == 12 && d2 == 31 {
		return []string{f.YearTerm(y1)}
	}

	var terms []string

	// Days till the end of the first month, unless it is whole.
	dLast := monthDays(m1, y1)
	dEnd := dLast
	if y1 == y2 && m1 == m2 && d2 < dLast {
		dEnd = d2
	}
	if d1 > 1 || dEnd < dLast {
		for d := d1; d <= dEnd; d++ {
			terms = append(terms, f.DayTerm(y1, m1, d))
		}
	} else {
		terms = append(terms, f.MonthTerm(y1, m1))
	}

	if y1 == y2 && m1 == m2 {
		return terms
	}

	// Months till the end of the first year.
	mLast := 12
	if y1 == y2 {
		mLast = m2 - 1
	}
	for m := m1 + 1; m <= mLast; m++ {
		terms = append(terms, f.MonthTerm(y1, m))
	}

	// Years in between, then the leading months of the last year.
	if y1 < y2 {
		for y := y1 + 1; y < y2; y++ {
			terms = append(terms, f.YearTerm(y))
		}
		for m := 1; m < m2; m++ {
			terms = append(terms, f.MonthTerm(y2, m))
		}
	}

	// Final month, whole or partial.
	if d2 < monthDays(m2, y2) {
		for d := 1; d <= d2; d++ {
			terms = append(terms, f.DayTerm(y2, m2, d))
		}
	} else {
		terms = append(terms, f.MonthTerm(y2, m2))
	}

	return terms
}
