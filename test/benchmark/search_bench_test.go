package benchmark

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/hyperjump/kensaku/internal/daterange"
	"github.com/hyperjump/kensaku/internal/docseq"
	"github.com/hyperjump/kensaku/internal/models"
	"github.com/hyperjump/kensaku/internal/synonyms"
)

func BenchmarkTranslate_MultiYear(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = daterange.Translate(daterange.DefaultFormatter, 2019, 3, 15, 2024, 10, 7)
	}
}

func BenchmarkTranslate_SingleMonth(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = daterange.Translate(daterange.DefaultFormatter, 2024, 2, 1, 2024, 2, 20)
	}
}

func BenchmarkSynonymLookup(b *testing.B) {
	dir := b.TempDir()
	path := filepath.Join(dir, "synonyms.txt")
	f, err := os.Create(path)
	if err != nil {
		b.Fatal(err)
	}
	for i := 0; i < 1000; i++ {
		fmt.Fprintf(f, "term%da term%db term%dc\n", i, i, i)
	}
	f.Close()

	store := synonyms.NewStore(nil)
	if err := store.Load(path); err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = store.Lookup(fmt.Sprintf("term%db", i%1000))
	}
}

func BenchmarkFilteredGetDoc(b *testing.B) {
	docs := make([]*models.Document, 10000)
	keys := make([]string, 10000)
	for i := range docs {
		mime := "application/pdf"
		if i%10 == 0 {
			mime = "text/plain"
		}
		docs[i] = &models.Document{ID: fmt.Sprintf("doc-%d", i), MimeType: mime}
		keys[i] = fmt.Sprintf("%d", i)
	}
	spec := docseq.FilterSpec{Kind: docseq.FilterMimeTypes, Values: []string{"text/plain"}}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		seq := docseq.NewFiltered(docseq.NewSliceSequence(docs, keys), spec)
		for n := 0; ; n++ {
			if _, _, ok := seq.GetDoc(n); !ok {
				break
			}
		}
	}
}
