// Package query builds engine query plans from user search requests,
// applying synonym expansion and date-range translation.
package query

// Plan is a boolean combination of opaque index terms: a conjunction of
// OR-groups over text terms, optionally AND-ed with an OR-group of date
// terms. Group and term order is deterministic for identical inputs.
type Plan struct {
	// Groups is AND-ed; each group is an OR over interchangeable terms.
	// Members containing a space are phrase terms.
	Groups [][]string
	// DateTerms is an OR-group over the date term vocabulary.
	DateTerms []string
}

// Empty reports whether the plan has no clauses at all.
func (p *Plan) Empty() bool {
	return len(p.Groups) == 0 && len(p.DateTerms) == 0
}
