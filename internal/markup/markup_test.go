package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoldmark_Paragraph(t *testing.T) {
	out, err := NewGoldmark(Options{}).Render("contentcontent")
	require.NoError(t, err)
	assert.Equal(t, "<p>contentcontent</p>", out)
}

func TestGoldmark_Heading(t *testing.T) {
	out, err := NewGoldmark(Options{}).Render("# heading")
	require.NoError(t, err)
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, ">heading</h1>")
}

func TestGoldmark_EmptyInput(t *testing.T) {
	out, err := NewGoldmark(Options{}).Render("")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestGoldmark_SanitisesByDefault(t *testing.T) {
	src := "hello\n\n<script>alert(1)</script>\n"

	safe, err := NewGoldmark(Options{}).Render(src)
	require.NoError(t, err)
	assert.NotContains(t, safe, "<script")

	raw, err := NewGoldmark(Options{Unsafe: true}).Render(src)
	require.NoError(t, err)
	assert.Contains(t, raw, "<script>alert(1)</script>")
}

func TestGoldmark_GFMTable(t *testing.T) {
	out, err := NewGoldmark(Options{}).Render("| a | b |\n|---|---|\n| 1 | 2 |\n")
	require.NoError(t, err)
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<td>1</td>")
}

func TestGoldmark_RewritesMarkdownLinks(t *testing.T) {
	out, err := NewGoldmark(Options{}).Render("[next](next.md) [far](https://example.com/x.md)")
	require.NoError(t, err)
	assert.Contains(t, out, `href="next.html"`)
	assert.Contains(t, out, `href="https://example.com/x.md"`)
}

func TestRewriteMDLink(t *testing.T) {
	tests := map[string]string{
		"page.md":           "page.html",
		"dir/page.md#intro": "dir/page.html#intro",
		"page.html":         "page.html",
		"#top":              "#top",
		"http://host/a.md":  "http://host/a.md",
		"notes.md.txt":      "notes.md.txt",
	}
	for in, want := range tests {
		assert.Equal(t, want, string(rewriteMDLink([]byte(in))), in)
	}
}

func TestRenderer_InterfaceSatisfied(t *testing.T) {
	var _ Renderer = NewGoldmark(Options{})
}

func TestGoldmark_CleanEditsPlainTextUnchanged(t *testing.T) {
	out, err := NewGoldmark(Options{CleanEdits: true}).Render("hello")
	require.NoError(t, err)
	assert.Equal(t, "<p>hello</p>", out)
}
