// Package markup converts page bodies from Markdown to HTML.
package markup

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/verkaro/editml-go"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	ssgerr "tinyssg/internal/errors"
)

// Renderer converts markup text to HTML.
type Renderer interface {
	Render(markup string) (string, error)
}

// Options tune the Goldmark renderer.
type Options struct {
	// Unsafe skips HTML sanitisation so raw HTML in the body passes through.
	Unsafe bool
	// CleanEdits strips EditML review annotations before rendering.
	CleanEdits bool
}

// Goldmark renders CommonMark with GFM and footnotes. Links to .md files are
// rewritten to .html since every page is published under that extension.
type Goldmark struct {
	md        goldmark.Markdown
	sanitizer *bluemonday.Policy
	opts      Options
}

// NewGoldmark builds a Goldmark renderer.
func NewGoldmark(opts Options) *Goldmark {
	g := &Goldmark{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Footnote),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
				parser.WithASTTransformers(
					util.Prioritized(newMDLinkTransformer(), 100),
				),
			),
			// Sanitisation happens afterwards, so let goldmark emit raw HTML.
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
		opts: opts,
	}
	if !opts.Unsafe {
		g.sanitizer = bluemonday.UGCPolicy()
	}
	return g
}

// Render converts markup to HTML. Trailing whitespace is trimmed so the
// fragment drops into a template without an extra newline.
func (g *Goldmark) Render(markup string) (string, error) {
	if g.opts.CleanEdits {
		clean, err := CleanEdits(markup)
		if err != nil {
			return "", ssgerr.RenderError(err)
		}
		markup = clean
	}

	var buf bytes.Buffer
	if err := g.md.Convert([]byte(markup), &buf); err != nil {
		return "", ssgerr.RenderError(fmt.Errorf("goldmark: %w", err))
	}

	out := buf.Bytes()
	if g.sanitizer != nil {
		out = g.sanitizer.SanitizeBytes(out)
	}
	return strings.TrimRight(string(out), " \t\r\n"), nil
}

// CleanEdits resolves EditML annotations to the clean (accepted) view.
func CleanEdits(markup string) (string, error) {
	nodes, issues := editml.Parse(markup)
	if len(issues) > 0 && issues[0].Severity == editml.SeverityError {
		return "", errors.New("editml parsing error: " + issues[0].Message)
	}
	clean, issues := editml.TransformCleanView(nodes)
	if len(issues) > 0 && issues[0].Severity == editml.SeverityError {
		return "", errors.New("editml transformation error: " + issues[0].Message)
	}
	return clean, nil
}
