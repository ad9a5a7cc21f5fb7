package grouping

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/language"

	"github.com/starford/docshelf/internal/models"
)

func titles(g Group) []string {
	out := make([]string, len(g.Documents))
	for i, d := range g.Documents {
		out[i] = d.Title
	}
	return out
}

func TestByCategory_Scenario(t *testing.T) {
	docs := []models.Document{
		{Category: "A", Title: "X", Updated: "2024-01-01"},
		{Category: "A", Title: "Y", Updated: "2025-01-01"},
		{Category: "B", Title: "Z", Updated: "2024-06-01"},
	}
	got := ByCategory(docs)

	want := []Group{
		{Category: "A", Documents: []models.Document{docs[1], docs[0]}},
		{Category: "B", Documents: []models.Document{docs[2]}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestByCategory_Empty(t *testing.T) {
	if got := ByCategory(nil); len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}

func TestByCategory_DoesNotMutateInput(t *testing.T) {
	docs := []models.Document{
		{Category: "A", Title: "old", Updated: "2020-01-01"},
		{Category: "A", Title: "new", Updated: "2021-01-01"},
	}
	_ = ByCategory(docs)
	if docs[0].Title != "old" {
		t.Errorf("input reordered: %v", docs)
	}
}

func TestByCategory_StableTies(t *testing.T) {
	docs := []models.Document{
		{Category: "A", Title: "first", Updated: "2024-03-01"},
		{Category: "A", Title: "second", Updated: "2024-03-01"},
		{Category: "A", Title: "newest", Updated: "2024-04-01"},
		{Category: "A", Title: "third", Updated: "2024-03-01"},
	}
	got := ByCategory(docs)
	want := []string{"newest", "first", "second", "third"}
	if diff := cmp.Diff(want, titles(got[0])); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestByCategory_MalformedDatesSortOldest(t *testing.T) {
	docs := []models.Document{
		{Category: "A", Title: "bad1", Updated: "not-a-date"},
		{Category: "A", Title: "old", Updated: "1999-12-31"},
		{Category: "A", Title: "bad2", Updated: "2024-13-45"},
		{Category: "A", Title: "new", Updated: "2025-01-01"},
		{Category: "A", Title: "empty", Updated: ""},
	}
	got := ByCategory(docs)
	want := []string{"new", "old", "bad1", "bad2", "empty"}
	if diff := cmp.Diff(want, titles(got[0])); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestByCategory_LocaleAwareOrder(t *testing.T) {
	docs := []models.Document{
		{Category: "cherry"},
		{Category: "Banana"},
		{Category: "Éclair"},
		{Category: "apple"},
		{Category: "Zebra"},
	}
	got := ByCategory(docs)
	var cats []string
	for _, g := range got {
		cats = append(cats, g.Category)
	}
	want := []string{"apple", "Banana", "cherry", "Éclair", "Zebra"}
	if diff := cmp.Diff(want, cats); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestGrouper_Deterministic(t *testing.T) {
	g := NewGrouper(language.German)
	docs := randomDocs(rand.New(rand.NewPCG(7, 11)), 200)
	first := g.Group(docs)
	second := g.Group(docs)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("grouping not deterministic:\n%s", diff)
	}
}

func TestByCategory_Properties(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for round := 0; round < 50; round++ {
		docs := randomDocs(r, r.IntN(60))
		groups := ByCategory(docs)

		if Count(groups) != len(docs) {
			t.Fatalf("round %d: count = %d, want %d", round, Count(groups), len(docs))
		}
		seen := make(map[string]bool)
		for i, g := range groups {
			if seen[g.Category] {
				t.Fatalf("round %d: category %q repeated", round, g.Category)
			}
			seen[g.Category] = true
			if i > 0 && groups[i-1].Category > g.Category {
				t.Fatalf("round %d: categories out of order: %q before %q", round, groups[i-1].Category, g.Category)
			}
			for j := 1; j < len(g.Documents); j++ {
				prev, _ := g.Documents[j-1].UpdatedAt()
				cur, _ := g.Documents[j].UpdatedAt()
				if cur.After(prev) {
					t.Fatalf("round %d: %q: %s after %s", round, g.Category, g.Documents[j].Updated, g.Documents[j-1].Updated)
				}
			}
		}
	}
}

// randomDocs draws upper-case single-letter categories so that collation and
// byte order agree.
func randomDocs(r *rand.Rand, n int) []models.Document {
	docs := make([]models.Document, n)
	for i := range docs {
		docs[i] = models.Document{
			Category: string(rune('A' + r.IntN(6))),
			Title:    fmt.Sprintf("doc-%d", i),
			Updated:  fmt.Sprintf("20%02d-%02d-%02d", 10+r.IntN(16), 1+r.IntN(12), 1+r.IntN(28)),
		}
	}
	return docs
}
