package macro

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/nickwells/location.mod/location"

	ssgerr "tinyssg/internal/errors"
)

var includePattern = regexp.MustCompile(`^#include[ \t]+(.+)$`)

// ReadFunc reads a whole file.
type ReadFunc func(path string) (string, error)

// Include is one #include directive found in a source text.
type Include struct {
	Line     int    // index into the source lines
	Path     string // resolved path of the file to inline
	Location string // "source:line", for error messages
}

// FindIncludes collects the #include directives of text. Paths are joined
// to baseDir when it is not empty.
func FindIncludes(text, source, baseDir string) []Include {
	loc := location.New(source)
	var found []Include
	for i, l := range splitLines(text) {
		loc.Incr()
		m := includePattern.FindStringSubmatch(l.body)
		if m == nil {
			continue
		}
		path := m[1]
		if baseDir != "" {
			path = filepath.Join(baseDir, path)
		}
		found = append(found, Include{Line: i, Path: path, Location: loc.String()})
	}
	return found
}

// ExpandIncludes replaces each #include line of text with the contents of
// the file it names. source names the text in error messages. All
// directives are collected before any file is read; files are read in
// order and the first unreadable or empty one fails the expansion with
// IncludeReadError. Each directive's line terminator is kept after the
// inserted text. Included text is not re-scanned.
func ExpandIncludes(text, source, baseDir string, read ReadFunc) (string, error) {
	includes := FindIncludes(text, source, baseDir)
	if len(includes) == 0 {
		return text, nil
	}

	contents := make(map[int]string, len(includes))
	for _, inc := range includes {
		data, err := read(inc.Path)
		if err != nil {
			return "", ssgerr.IncludeReadError(inc.Path, inc.Location, err)
		}
		if data == "" {
			return "", ssgerr.IncludeReadError(inc.Path, inc.Location, ssgerr.EmptyFileError(inc.Path))
		}
		contents[inc.Line] = data
	}

	var b strings.Builder
	b.Grow(len(text))
	for i, l := range splitLines(text) {
		if data, ok := contents[i]; ok {
			b.WriteString(data)
		} else {
			b.WriteString(l.body)
		}
		b.WriteString(l.term)
	}
	return b.String(), nil
}
