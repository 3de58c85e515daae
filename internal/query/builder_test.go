package query

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/hyperjump/kensaku/internal/daterange"
	"github.com/hyperjump/kensaku/internal/models"
	"github.com/hyperjump/kensaku/internal/synonyms"
)

func synStore(t *testing.T, content string) *synonyms.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "syn.txt")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	s := synonyms.NewStore(nil)
	if err := s.Load(path); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestBuild_expandsSynonyms(t *testing.T) {
	syn := synStore(t, "fast quick rapid\n")
	b := NewBuilder(syn, daterange.DefaultFormatter, nil)

	plan := b.Build(&models.SearchQuery{Query: "Fast car"}, true)
	want := [][]string{
		{"fast", "quick", "rapid"},
		{"car"},
	}
	if !reflect.DeepEqual(plan.Groups, want) {
		t.Errorf("Groups = %v, want %v", plan.Groups, want)
	}
}

func TestBuild_expansionDisabled(t *testing.T) {
	syn := synStore(t, "fast quick rapid\n")
	b := NewBuilder(syn, daterange.DefaultFormatter, nil)

	plan := b.Build(&models.SearchQuery{Query: "fast"}, false)
	if !reflect.DeepEqual(plan.Groups, [][]string{{"fast"}}) {
		t.Errorf("Groups = %v, want just the term", plan.Groups)
	}
}

func TestBuild_nilStore(t *testing.T) {
	b := NewBuilder(nil, daterange.DefaultFormatter, nil)
	plan := b.Build(&models.SearchQuery{Query: "hello world"}, true)
	want := [][]string{{"hello"}, {"world"}}
	if !reflect.DeepEqual(plan.Groups, want) {
		t.Errorf("Groups = %v, want %v", plan.Groups, want)
	}
}

func TestBuild_dateRange(t *testing.T) {
	b := NewBuilder(nil, daterange.DefaultFormatter, nil)
	plan := b.Build(&models.SearchQuery{
		Dates: &models.DateRange{Y1: 2024, M1: 2, D1: 1, Y2: 2024, M2: 2, D2: 29},
	}, true)
	if len(plan.Groups) != 0 {
		t.Errorf("Groups = %v, want none", plan.Groups)
	}
	if !reflect.DeepEqual(plan.DateTerms, []string{"M202402"}) {
		t.Errorf("DateTerms = %v", plan.DateTerms)
	}
}

func TestBuild_multiwordSynonymKeptAsPhrase(t *testing.T) {
	syn := synStore(t, `hd "hard disk"`+"\n")
	b := NewBuilder(syn, daterange.DefaultFormatter, nil)
	plan := b.Build(&models.SearchQuery{Query: "hd"}, true)
	if !reflect.DeepEqual(plan.Groups, [][]string{{"hd", "hard disk"}}) {
		t.Errorf("Groups = %v", plan.Groups)
	}
}

func TestPlanEmpty(t *testing.T) {
	var p Plan
	if !p.Empty() {
		t.Error("zero plan should be empty")
	}
	p.DateTerms = []string{"Y2024"}
	if p.Empty() {
		t.Error("plan with date terms is not empty")
	}
}
