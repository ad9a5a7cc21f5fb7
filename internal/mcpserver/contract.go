package mcpserver

// CatalogFormat describes the record format of a docshelf catalog for LLM
// consumers that want to propose new entries or interpret search results.
const CatalogFormat = `# docshelf Catalog Format

A catalog is a list of document records. Each record has five text fields.

| field | meaning |
|---|---|
| category | Group heading the card is listed under |
| title | Card heading |
| description | One or two sentences shown under the title |
| file | Link target, relative to the served files root or an absolute URL |
| updated | Last update, ` + "`YYYY-MM-DD`" + ` |

## Sources

- A YAML file: a bare list of records, or a mapping with a ` + "`documents:`" + ` key.
- A JSON file: the same two shapes.
- A directory of Markdown files: each file's YAML frontmatter is one record.
  ` + "`file`" + ` defaults to the Markdown file's own path and ` + "`title`" + ` falls back
  to the first ` + "`# heading`" + `.

## Display rules

- Categories are listed in ascending alphabetical order for the configured locale.
- Within a category, records are listed newest first. Records whose ` + "`updated`" + `
  value is not a valid date are listed last and show the raw text.
- Search matches the title, description, or category, ignoring case.

## Example

` + "```" + `yaml
documents:
  - category: Data Science
    title: Understanding core principles of data analysis
    description: A walkthrough of descriptive statistics with annotated Python code blocks.
    file: docs/data-analysis-principles.pdf
    updated: "2026-02-26"
` + "```" + `
`
