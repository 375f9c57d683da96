package story

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tinyssg/internal/builder"
	ssgerr "tinyssg/internal/errors"
	"tinyssg/internal/fileio"
	"tinyssg/internal/markup"
	"tinyssg/internal/page"
	"tinyssg/internal/scaffold"
)

const garden = `// title: My Enchanted Garden
// author: A. Writer

=== index ===
// title: Home
// mood: calm
You are at the start.

=== outside ===
# The Great Outdoors
You are outside.
`

const shed = `// title: Garden
// author: A. Writer
// STATES: has_key

=== index ===
// title: Home
// mood: calm
You are at the gate.
* Pick up the key ~ has_key = true -> shed
* Walk away -> shed

=== shed ===
// scene: Outside
- {has_key == true} # The Shed
  The door opens.
- # The Shed
  It is locked.
END
`

const shedIndex = `---
title: "Home"
story_title: "Garden"
story_author: "A. Writer"
mood: "calm"
---
## Home

You are at the gate.

* [Pick up the key](outside-shed-has_key.md)
* [Walk away](outside-shed.md)
`

func TestKnotComments(t *testing.T) {
	meta, err := knotComments(garden)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"title": "Home", "mood": "calm"}, meta["index"])
	assert.Empty(t, meta["outside"])
	_, storyLevel := meta[""]
	assert.False(t, storyLevel)
}

func TestKnotComments_LineTooLong(t *testing.T) {
	_, err := knotComments("=== index ===\n" + strings.Repeat("x", 70000) + "\n")
	require.Error(t, err)
}

func TestSplitTitle(t *testing.T) {
	tests := []struct {
		name      string
		knot      string
		content   string
		meta      map[string]string
		wantTitle string
		wantBody  string
	}{
		{"comment wins", "index", "# Heading\nbody", map[string]string{"title": "Home"}, "Home", "body"},
		{"heading", "outside", "\n# The Great Outdoors\nYou are outside.\n", nil, "The Great Outdoors", "You are outside."},
		{"knot name", "dark_forest", "Trees.", nil, "Dark Forest", "Trees."},
		{"long line", "index", "# Big\n" + strings.Repeat("x", 70000), nil, "Big", strings.Repeat("x", 70000)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, body := splitTitle(tt.knot, tt.content, tt.meta)
			assert.Equal(t, tt.wantTitle, title)
			assert.Equal(t, tt.wantBody, body)
		})
	}
}

func TestPageName(t *testing.T) {
	assert.Equal(t, "index.md", pageName("", "index", nil))
	assert.Equal(t,
		"act-one-cellar-door-has_water.md",
		pageName("Act One/Cellar", "door", map[string]bool{"has_water": true, "has_seed": false}))
}

func TestFrontMatter_ParsesBackAsMetadata(t *testing.T) {
	fm, err := frontMatter(`Say "hi"`,
		map[string]string{"title": "Garden", "author": "A. Writer"},
		map[string]string{"title": "ignored", "mood": "calm: mostly"})
	require.NoError(t, err)

	rec, err := page.Parse([]byte(fm + "body\n"))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"title":        `Say "hi"`,
		"story_title":  "Garden",
		"story_author": "A. Writer",
		"mood":         "calm: mostly",
	}, rec.Metadata)
	assert.Equal(t, "body\n", rec.Body)
}

func TestImport_MissingStory(t *testing.T) {
	im := NewImporter(fileio.New(afero.NewMemMapFs()), nil)

	_, err := im.Import("site.biff", "raw")
	require.ErrorIs(t, err, ssgerr.ErrRead)
}

func TestImport_WritesOnePagePerNode(t *testing.T) {
	mem := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(mem, "site.biff", []byte(shed), 0o644))

	n, err := NewImporter(fileio.New(mem), nil).Import("site.biff", "raw")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	index, err := afero.ReadFile(mem, "raw/index.md")
	require.NoError(t, err)
	assert.Equal(t, shedIndex, string(index))

	open, err := afero.ReadFile(mem, "raw/outside-shed-has_key.md")
	require.NoError(t, err)
	rec, err := page.Parse(open)
	require.NoError(t, err)
	assert.Equal(t, "The Shed", rec.Metadata["title"])
	assert.Equal(t, "Outside", rec.Metadata["scene"])
	assert.Equal(t, "## The Shed\n\nThe door opens.\n\n", rec.Body)

	locked, err := afero.ReadFile(mem, "raw/outside-shed.md")
	require.NoError(t, err)
	assert.Contains(t, string(locked), "It is locked.")
}

func TestImport_BuildsWithScaffoldTemplate(t *testing.T) {
	mem := afero.NewMemMapFs()
	fsys := fileio.New(mem)
	_, err := scaffold.CreateNewSite(fsys, "site")
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(mem, "site/site.biff", []byte(shed), 0o644))

	_, err = NewImporter(fsys, nil).Import("site/site.biff", filepath.Join("site", scaffold.DefaultConfig.RawPath))
	require.NoError(t, err)

	base := afero.NewBasePathFs(mem, "site")
	n, err := builder.New(fileio.New(base), markup.NewGoldmark(markup.Options{})).BuildSite(scaffold.DefaultConfig)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	html, err := afero.ReadFile(mem, "site/public_html/index.html")
	require.NoError(t, err)
	assert.Contains(t, string(html), "<title>Home</title>")
	assert.Contains(t, string(html), `href="outside-shed.html"`)
	assert.Contains(t, string(html), `href="outside-shed-has_key.html"`)

	html, err = afero.ReadFile(mem, "site/public_html/outside-shed-has_key.html")
	require.NoError(t, err)
	assert.Contains(t, string(html), "<title>The Shed</title>")
	assert.Contains(t, string(html), "The door opens.")
}

func TestImport_BadScript(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"no index knot", "=== start ===\nHello.\n"},
		{"line too long", "=== index ===\n" + strings.Repeat("x", 70000) + "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(mem, "site.biff", []byte(tt.src), 0o644))

			_, err := NewImporter(fileio.New(mem), nil).Import("site.biff", "raw")
			require.ErrorIs(t, err, ssgerr.ErrRead)
			exists, _ := afero.DirExists(mem, "raw")
			assert.False(t, exists)
		})
	}
}
