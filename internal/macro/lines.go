package macro

import "strings"

// line is one source line split from its terminator ("\n", "\r\n" or "" for
// a final unterminated line).
type line struct {
	body string
	term string
}

func splitLines(text string) []line {
	if text == "" {
		return nil
	}
	parts := strings.SplitAfter(text, "\n")
	lines := make([]line, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		l := line{body: p}
		switch {
		case strings.HasSuffix(p, "\r\n"):
			l.body, l.term = p[:len(p)-2], "\r\n"
		case strings.HasSuffix(p, "\n"):
			l.body, l.term = p[:len(p)-1], "\n"
		}
		lines = append(lines, l)
	}
	return lines
}
