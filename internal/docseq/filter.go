package docseq

import "github.com/hyperjump/kensaku/internal/models"

// FilterKind identifies a supported post-hoc filter predicate. The set is
// closed: general filtering belongs in the index's own query language, this
// layer only covers what that language cannot express (history browsing).
type FilterKind int

const (
	// FilterNone matches every document.
	FilterNone FilterKind = iota
	// FilterMimeTypes restricts to a permitted MIME-type set.
	FilterMimeTypes
)

// FilterSpec is a predicate over document metadata.
type FilterSpec struct {
	Kind FilterKind
	// Values holds the permitted MIME types for FilterMimeTypes.
	Values []string
}

// matches evaluates the predicate against a MIME type.
func (spec *FilterSpec) matches(mime string) bool {
	if spec.Kind == FilterNone {
		return true
	}
	for _, v := range spec.Values {
		if v == mime {
			return true
		}
	}
	return false
}

// Filtered selects entries of an underlying sequence according to a
// FilterSpec while preserving their relative order. The filtered-to-
// underlying index table grows lazily as positions are read, so reading
// only a top-N prefix never scans the whole underlying sequence.
//
// A Filtered instance mutates its index table on reads and is not safe for
// concurrent use; concurrent consumers need separate instances over the
// same underlying sequence.
type Filtered struct {
	seq  Sequence
	spec FilterSpec
	// indices[i] is the underlying position of the i-th passing document.
	indices []int
}

// NewFiltered creates a filtered view of seq. An unsupported spec is
// replaced by the match-all filter; use SetFilterSpec to detect rejection.
func NewFiltered(seq Sequence, spec FilterSpec) *Filtered {
	f := &Filtered{seq: seq}
	if !f.SetFilterSpec(spec) {
		f.spec = FilterSpec{Kind: FilterNone}
	}
	return f
}

// SetFilterSpec replaces the active predicate and resets the index table.
// Returns false, leaving the active filter unchanged, when the spec's kind
// is not one of the supported ones.
func (f *Filtered) SetFilterSpec(spec FilterSpec) bool {
	switch spec.Kind {
	case FilterNone, FilterMimeTypes:
	default:
		return false
	}
	f.spec = spec
	f.indices = f.indices[:0]
	return true
}

// GetDoc returns the n-th document among those passing the filter. The
// underlying sequence is scanned forward from the last resolved position
// until position n is known or the sequence is exhausted.
func (f *Filtered) GetDoc(n int) (*models.Document, string, bool) {
	if n < 0 {
		return nil, "", false
	}
	next := 0
	if len(f.indices) > 0 {
		next = f.indices[len(f.indices)-1] + 1
	}
	for len(f.indices) <= n {
		doc, _, ok := f.seq.GetDoc(next)
		if !ok {
			return nil, "", false
		}
		if f.spec.matches(doc.MimeType) {
			f.indices = append(f.indices, next)
		}
		next++
	}
	return f.seq.GetDoc(f.indices[n])
}

// ResultCount delegates to the underlying sequence. It is an upper bound on
// the number of documents passing the filter, not an exact count.
func (f *Filtered) ResultCount() int {
	return f.seq.ResultCount()
}
