// Package tags merges a template, rendered page content and page metadata
// by substituting {{.NAME}} placeholders.
package tags

import (
	"regexp"
	"strings"

	ssgerr "tinyssg/internal/errors"
)

// ContentTag is the placeholder that receives the rendered page body.
const ContentTag = "{{.content}}"

// tagPattern matches a placeholder: "{{." then the shortest non-empty run of
// characters up to "}}". Placeholders never span lines.
var tagPattern = regexp.MustCompile(`\{\{\..+?\}\}`)

// ValidateTemplate fails with MissingContentTag when template has no
// {{.content}} tag.
func ValidateTemplate(template string) error {
	if !strings.Contains(template, ContentTag) {
		return ssgerr.MissingContentTag()
	}
	return nil
}

// Render replaces every {{.content}} in template with content, then every
// remaining placeholder with its metadata value. Placeholders are resolved
// against the text after content substitution, so tags appearing inside the
// content are resolved too. Values are inserted verbatim and never
// re-scanned. If any placeholder has no metadata entry the whole render
// fails with UnresolvedTag and no text is returned.
func Render(template, content string, metadata map[string]string) (string, error) {
	if err := ValidateTemplate(template); err != nil {
		return "", err
	}
	page := strings.ReplaceAll(template, ContentTag, content)

	for _, loc := range tagPattern.FindAllStringIndex(page, -1) {
		name := nameOf(page[loc[0]:loc[1]])
		if _, ok := metadata[name]; !ok {
			return "", ssgerr.UnresolvedTag(name)
		}
	}
	return tagPattern.ReplaceAllStringFunc(page, func(tag string) string {
		return metadata[nameOf(tag)]
	}), nil
}

// Names lists the distinct placeholder names in template in order of first
// appearance. The content tag is included when present.
func Names(template string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, tag := range tagPattern.FindAllString(template, -1) {
		name := nameOf(tag)
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

func nameOf(tag string) string {
	return tag[len("{{.") : len(tag)-len("}}")]
}
