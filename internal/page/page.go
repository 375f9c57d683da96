// Package page parses content files into page records: YAML front matter
// metadata plus the Markdown body.
package page

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Record is the parsed form of one content file.
type Record struct {
	Metadata map[string]string
	Body     string
}

// ErrMissingClosingDelimiter indicates the document opened a front matter
// block with "---" but never closed it.
var ErrMissingClosingDelimiter = errors.New("front matter start delimiter found but closing delimiter is missing")

// delimiter is a front matter boundary line: three or more dashes and
// optional trailing blanks.
var delimiter = regexp.MustCompile(`^-{3,}[ \t]*$`)

// Split separates front matter from the body. Leading blank lines are
// skipped; if the first non-blank line is a delimiter, everything up to the
// next delimiter line is front matter and the rest is the body. Otherwise
// there is no front matter and the whole input is the body. LF and CRLF
// line endings are both accepted.
func Split(content []byte) (frontmatter []byte, body []byte, had bool, err error) {
	start := 0
	for start < len(content) {
		line, n := cutLine(content[start:])
		if len(bytes.TrimSpace(line)) != 0 {
			break
		}
		start += n
	}
	rest := content[start:]

	line, open := cutLine(rest)
	if !isDelimiter(line) {
		return nil, content, false, nil
	}
	for off := open; off < len(rest); {
		line, n := cutLine(rest[off:])
		if isDelimiter(line) {
			return rest[open:off], rest[off+n:], true, nil
		}
		off += n
	}
	return nil, nil, false, ErrMissingClosingDelimiter
}

// cutLine returns the first line of b without its terminator and the
// number of bytes it occupies including the "\n".
func cutLine(b []byte) ([]byte, int) {
	i := bytes.IndexByte(b, '\n')
	if i < 0 {
		return b, len(b)
	}
	return b[:i], i + 1
}

func isDelimiter(line []byte) bool {
	return delimiter.Match(bytes.TrimSuffix(line, []byte("\r")))
}

// ParseMetadata decodes a YAML mapping of scalars into strings. Scalars
// keep their source spelling ("1.0" stays "1.0"); null becomes "".
// Sequences and nested mappings are rejected since a placeholder can only
// take a single value.
func ParseMetadata(frontmatter []byte) (map[string]string, error) {
	meta := make(map[string]string)
	if len(bytes.TrimSpace(frontmatter)) == 0 {
		return meta, nil
	}
	var fields map[string]yaml.Node
	if err := yaml.Unmarshal(frontmatter, &fields); err != nil {
		return nil, fmt.Errorf("failed to parse front matter: %w", err)
	}
	for key, node := range fields {
		n := &node
		if n.Kind == yaml.AliasNode && n.Alias != nil {
			n = n.Alias
		}
		if n.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("front matter key %q must hold a single value", key)
		}
		if n.Tag == "!!null" {
			meta[key] = ""
			continue
		}
		meta[key] = n.Value
	}
	return meta, nil
}

// Parse splits raw into a Record.
func Parse(raw []byte) (Record, error) {
	fm, body, _, err := Split(raw)
	if err != nil {
		return Record{}, err
	}
	meta, err := ParseMetadata(fm)
	if err != nil {
		return Record{}, err
	}
	return Record{Metadata: meta, Body: string(body)}, nil
}
