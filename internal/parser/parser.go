// Package parser reads the YAML frontmatter and title of a Markdown file.
package parser

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Result holds the output of parsing a Markdown file.
type Result struct {
	Frontmatter map[string]interface{}
	Body        string
	Title       string
}

// Parse extracts frontmatter, body, and title from raw Markdown bytes.
// Frontmatter that is not valid YAML is treated as absent, and the whole
// input becomes the body.
func Parse(data []byte) (*Result, error) {
	res := &Result{Body: string(data)}

	if block, body, ok := split(data); ok {
		var fm map[string]interface{}
		if err := yaml.Unmarshal(block, &fm); err == nil {
			res.Frontmatter = fm
			res.Body = string(body)
		}
	}

	res.Title = res.String("title")
	if res.Title == "" {
		res.Title = firstHeading(res.Body)
	}
	return res, nil
}

// String returns the frontmatter value for key as text. Dates decoded by the
// YAML layer are rendered back as YYYY-MM-DD; missing keys yield "".
func (r *Result) String(key string) string {
	if r.Frontmatter == nil {
		return ""
	}
	switch v := r.Frontmatter[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case time.Time:
		return v.Format("2006-01-02")
	default:
		return fmt.Sprint(v)
	}
}

// split separates a leading frontmatter block from the body. The block opens
// with a "---" line and closes with a "---" or "..." line. CRLF line endings
// are accepted.
func split(data []byte) (block, body []byte, ok bool) {
	text := bytes.TrimLeft(data, "\r\n")
	first, rest, found := bytes.Cut(text, []byte("\n"))
	if !found || !isDelimiter(first, "---") {
		return nil, nil, false
	}

	offset := 0
	for {
		line, next, more := bytes.Cut(rest[offset:], []byte("\n"))
		if isDelimiter(line, "---") || isDelimiter(line, "...") {
			return rest[:offset], bytes.TrimLeft(next, "\r\n"), true
		}
		if !more {
			return nil, nil, false
		}
		offset += len(line) + 1
	}
}

func isDelimiter(line []byte, delim string) bool {
	return string(bytes.TrimRight(line, "\r \t")) == delim
}

// firstHeading returns the text of the first level-one ATX heading outside
// fenced code blocks, or "".
func firstHeading(body string) string {
	inFence := false
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		heading, ok := strings.CutPrefix(trimmed, "# ")
		if !ok {
			continue
		}
		heading = strings.TrimSpace(heading)
		// Optional closing sequence: "# Title ##".
		if stripped := strings.TrimRight(heading, "#"); strings.HasSuffix(stripped, " ") {
			heading = strings.TrimSpace(stripped)
		}
		return heading
	}
	return ""
}
