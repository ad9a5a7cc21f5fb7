package parser

import (
	"testing"
	"time"
)

func TestParse_FrontmatterAndBody(t *testing.T) {
	input := []byte("---\ntitle: Onboarding guide\ncategory: HR\nupdated: 2025-03-14\n---\n# Welcome\nBody text.\n")
	r, err := Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Title != "Onboarding guide" {
		t.Errorf("title = %q, want %q", r.Title, "Onboarding guide")
	}
	if got := r.String("category"); got != "HR" {
		t.Errorf("category = %q, want HR", got)
	}
	if got := r.String("updated"); got != "2025-03-14" {
		t.Errorf("updated = %q, want 2025-03-14", got)
	}
	if r.Body != "# Welcome\nBody text.\n" {
		t.Errorf("body = %q", r.Body)
	}
}

func TestParse_NoFrontmatter(t *testing.T) {
	input := []byte("# Just a heading\nSome text.\n")
	r, err := Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Frontmatter != nil {
		t.Errorf("expected nil frontmatter, got %v", r.Frontmatter)
	}
	if r.Title != "Just a heading" {
		t.Errorf("title = %q, want %q", r.Title, "Just a heading")
	}
	if r.String("category") != "" {
		t.Error("missing key should be empty")
	}
}

func TestParse_InvalidYAMLFallback(t *testing.T) {
	input := []byte("---\n: invalid: yaml: {{{\n---\nBody\n")
	r, err := Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Frontmatter != nil {
		t.Errorf("expected nil frontmatter on invalid YAML")
	}
}

func TestResultString_Types(t *testing.T) {
	r := &Result{Frontmatter: map[string]interface{}{
		"when":  time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		"count": 3,
		"name":  "  padded  ",
	}}
	if got := r.String("when"); got != "2024-06-01" {
		t.Errorf("when = %q", got)
	}
	if got := r.String("count"); got != "3" {
		t.Errorf("count = %q", got)
	}
	if got := r.String("name"); got != "padded" {
		t.Errorf("name = %q", got)
	}
}

func TestParse_FrontmatterTitleOverH1(t *testing.T) {
	r, _ := Parse([]byte("---\ntitle: FM Title\n---\n# H1 Title\ntext"))
	if r.Title != "FM Title" {
		t.Errorf("title = %q, want %q", r.Title, "FM Title")
	}
}

func TestFirstHeading(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"after text", "some text\n# My Heading\nmore", "My Heading"},
		{"level two ignored", "## Sub\n# Top", "Top"},
		{"closing hashes", "# Runbook ##", "Runbook"},
		{"trailing hash kept", "# Learn C#", "Learn C#"},
		{"fenced comment skipped", "```python\n# not a title\n```\n# Analysis", "Analysis"},
		{"tilde fence", "~~~\n# no\n~~~", ""},
		{"none", "plain text", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := firstHeading(tt.body); got != tt.want {
				t.Errorf("firstHeading = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParse_CRLFAndDotsDelimiter(t *testing.T) {
	r, err := Parse([]byte("---\r\ncategory: Ops\r\n...\r\nBody\r\n"))
	if err != nil {
		t.Fatal(err)
	}
	if got := r.String("category"); got != "Ops" {
		t.Errorf("category = %q, want Ops", got)
	}
	if r.Body != "Body\r\n" {
		t.Errorf("body = %q", r.Body)
	}
}

func TestParse_UnclosedFrontmatter(t *testing.T) {
	input := "---\ntitle: nope\nno closing line"
	r, _ := Parse([]byte(input))
	if r.Frontmatter != nil {
		t.Error("unclosed block should not yield frontmatter")
	}
	if r.Body != input {
		t.Errorf("body = %q", r.Body)
	}
}

func TestParse_ClosingDelimiterAtEOF(t *testing.T) {
	r, _ := Parse([]byte("---\ncategory: Ops\n---"))
	if got := r.String("category"); got != "Ops" {
		t.Errorf("category = %q, want Ops", got)
	}
	if r.Body != "" {
		t.Errorf("body = %q, want empty", r.Body)
	}
}
