package macro

import (
	"regexp"
	"strings"
)

var definePattern = regexp.MustCompile(`^#globaldefine[ \t]+(\S+)[ \t]+(".*")[ \t]*$`)

// Define is one #globaldefine binding with its quotes already stripped.
type Define struct {
	Name  string
	Value string
}

// ParseDefines removes every #globaldefine line from text, terminator
// included, and returns the remaining text with the bindings in source
// order. Lines that start with #globaldefine but lack a quoted value are
// not directives and are kept.
func ParseDefines(text string) (string, []Define) {
	var (
		b    strings.Builder
		defs []Define
	)
	b.Grow(len(text))
	for _, l := range splitLines(text) {
		if m := definePattern.FindStringSubmatch(l.body); m != nil {
			quoted := m[2]
			defs = append(defs, Define{Name: m[1], Value: quoted[1 : len(quoted)-1]})
			continue
		}
		b.WriteString(l.body)
		b.WriteString(l.term)
	}
	return b.String(), defs
}

// ExpandDefines strips the #globaldefine lines from text and substitutes
// every occurrence of each name with its value, in definition order.
func ExpandDefines(text string) string {
	rest, defs := ParseDefines(text)
	for _, d := range defs {
		rest = strings.ReplaceAll(rest, d.Name, d.Value)
	}
	return rest
}
