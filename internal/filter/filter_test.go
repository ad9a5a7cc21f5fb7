package filter

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/starford/docshelf/internal/catalog"
	"github.com/starford/docshelf/internal/models"
)

var docs = []models.Document{
	{Category: "Engineering", Title: "API style guide", Description: "Naming and versioning"},
	{Category: "Handbook", Title: "Onboarding", Description: "First week checklist"},
	{Category: "Data Science", Title: "Feature engineering", Description: "Encoding inputs"},
	{Category: "Straße", Title: "Karte", Description: "Stadtplan"},
}

func TestFilter_BlankQueryIsIdentity(t *testing.T) {
	for _, q := range []string{"", "   ", "\t\n"} {
		got := Filter(docs, q)
		if diff := cmp.Diff(docs, got); diff != "" {
			t.Errorf("query %q: mismatch (-want +got):\n%s", q, diff)
		}
	}
}

func TestFilter_MatchesEachField(t *testing.T) {
	cases := []struct {
		query string
		want  []string
	}{
		{"style", []string{"API style guide"}},
		{"CHECKLIST", []string{"Onboarding"}},
		{"handbook", []string{"Onboarding"}},
		{"engineering", []string{"API style guide", "Feature engineering"}},
		{"  naming  ", []string{"API style guide"}},
		{"STRASSE", []string{"Karte"}},
		{"nothing-matches", nil},
	}
	for _, tc := range cases {
		var got []string
		for _, d := range Filter(docs, tc.query) {
			got = append(got, d.Title)
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("query %q: mismatch (-want +got):\n%s", tc.query, diff)
		}
	}
}

func TestFilter_PythonMatchesViaDescription(t *testing.T) {
	got := Filter(catalog.Sample().All(), "python")
	if len(got) != 1 {
		t.Fatalf("got %d results, want 1", len(got))
	}
	if got[0].Title != "Understanding core principles of data analysis" {
		t.Errorf("title = %q", got[0].Title)
	}
	if strings.Contains(strings.ToLower(got[0].Title), "python") {
		t.Error("title should not be the matching field")
	}
}

func TestFilter_Properties(t *testing.T) {
	all := catalog.Sample().All()
	r := rand.New(rand.NewPCG(3, 5))
	words := []string{"a", "e", "guide", "POLICY", "data", " ", "xyz", "eng", "-"}

	for i := 0; i < 200; i++ {
		q := words[r.IntN(len(words))]
		got := Filter(all, q)
		if len(got) > len(all) {
			t.Fatalf("query %q grew the list", q)
		}
		// Order preserving: got is a subsequence of all.
		j := 0
		for _, d := range all {
			if j < len(got) && d == got[j] {
				j++
			}
		}
		if j != len(got) {
			t.Fatalf("query %q: result is not an ordered subsequence", q)
		}
		for _, d := range got {
			if !Matches(d, q) {
				t.Fatalf("query %q: %q does not match", q, d.Title)
			}
			lq := strings.ToLower(strings.TrimSpace(q))
			if lq != "" && !strings.Contains(strings.ToLower(d.Title+"\x00"+d.Description+"\x00"+d.Category), lq) {
				t.Fatalf("query %q: %q lacks the query", q, d.Title)
			}
		}
	}
}
