// Package story imports interactive fiction written in biff into raw
// Markdown pages: one page per story node, choices rendered as links.
package story

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"unicode"

	"github.com/verkaro/bigif/bigif"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	ssgerr "tinyssg/internal/errors"
	"tinyssg/internal/fileio"
	"tinyssg/internal/logfields"
	"tinyssg/internal/logging"
	"tinyssg/internal/markup"
	"tinyssg/internal/util"
)

var knotPattern = regexp.MustCompile(`^\s*===\s*([\w-]+)\s*===\s*$`)

// Importer writes compiled stories into a raw files directory.
type Importer struct {
	fs     *fileio.FS
	logger *slog.Logger
}

// NewImporter creates an Importer. A nil logger discards output.
func NewImporter(fsys *fileio.FS, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Importer{fs: fsys, logger: logger}
}

// Import compiles the story at biffPath and writes its pages into rawDir,
// replacing pages of the same name. It returns the number of pages written.
func (im *Importer) Import(biffPath, rawDir string) (int, error) {
	src, err := im.fs.ReadNonEmpty(biffPath)
	if err != nil {
		return 0, err
	}
	knotMeta, err := knotComments(src)
	if err != nil {
		return 0, compileError(biffPath, err)
	}

	compiled, err := bigif.Compile(src)
	if err != nil {
		return 0, compileError(biffPath, err)
	}
	var story struct {
		Metadata map[string]string `json:"metadata"`
		Graph    struct {
			Nodes map[string]*bigif.StoryNode `json:"nodes"`
		} `json:"graph"`
	}
	if err := json.Unmarshal(compiled, &story); err != nil {
		return 0, compileError(biffPath, err)
	}

	names := make(map[string]string, len(story.Graph.Nodes))
	for id, node := range story.Graph.Nodes {
		names[id] = pageName(node.Scene, node.KnotName, node.State)
	}

	if err := im.fs.EnsureDir(rawDir); err != nil {
		return 0, err
	}
	ids := make([]string, 0, len(story.Graph.Nodes))
	for id := range story.Graph.Nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	written := 0
	for _, id := range ids {
		node := story.Graph.Nodes[id]
		meta := knotMeta[node.KnotName]
		title, body := splitTitle(node.KnotName, node.Content, meta)

		clean, err := markup.CleanEdits(body)
		if err != nil {
			return written, ssgerr.Annotate(ssgerr.RenderError(err), ssgerr.CtxPath, biffPath)
		}
		fm, err := frontMatter(title, story.Metadata, meta)
		if err != nil {
			return written, compileError(biffPath, err)
		}

		var page strings.Builder
		page.WriteString(fm)
		fmt.Fprintf(&page, "## %s\n\n%s\n\n", title, clean)
		for _, edge := range node.Edges {
			fmt.Fprintf(&page, "* [%s](%s)\n", edge.Text, names[edge.TargetNodeID])
		}

		path := filepath.Join(rawDir, names[id])
		if err := im.fs.Write(path, page.String()); err != nil {
			return written, err
		}
		written++
		im.logger.Debug("Wrote story page", logfields.Path(path))
	}
	im.logger.Info("Imported story", logfields.Path(biffPath), logfields.Count(written))
	return written, nil
}

func compileError(path string, err error) error {
	return ssgerr.Wrap(err, ssgerr.KindRead, "could not compile story "+path).
		WithContext(ssgerr.CtxPath, path).Build()
}

// knotComments collects "// key: value" comment lines per knot. Keys are
// lower-cased.
func knotComments(src string) (map[string]map[string]string, error) {
	meta := make(map[string]map[string]string)
	var knot string
	scanner := bufio.NewScanner(strings.NewReader(src))
	for scanner.Scan() {
		line := strings.TrimFunc(scanner.Text(), unicode.IsSpace)
		if m := knotPattern.FindStringSubmatch(line); m != nil {
			knot = m[1]
			if meta[knot] == nil {
				meta[knot] = make(map[string]string)
			}
			continue
		}
		if knot == "" || !strings.HasPrefix(line, "//") {
			continue
		}
		key, value, ok := strings.Cut(strings.TrimSpace(strings.TrimPrefix(line, "//")), ":")
		if !ok {
			continue
		}
		meta[knot][strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return meta, nil
}

// splitTitle picks the page title, in order: the knot's title comment, its
// first "# " heading, its name in title case. The heading line is removed
// from the body.
func splitTitle(knot, content string, meta map[string]string) (string, string) {
	var heading string
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimFunc(line, unicode.IsSpace)
		if strings.HasPrefix(trimmed, "# ") {
			if heading == "" {
				heading = strings.TrimSpace(strings.TrimPrefix(trimmed, "#"))
			}
			continue
		}
		lines = append(lines, line)
	}
	body := strings.TrimSpace(strings.Join(lines, "\n"))

	switch {
	case meta["title"] != "":
		return meta["title"], body
	case heading != "":
		return heading, body
	default:
		return cases.Title(language.English).String(strings.ReplaceAll(knot, "_", " ")), body
	}
}

// pageName is the flat file name of a node: scene segments, knot name and
// set state flags joined by dashes.
func pageName(scene, knot string, state map[string]bool) string {
	var parts []string
	if scene != "" {
		for _, seg := range strings.Split(scene, "/") {
			parts = append(parts, util.Slugify(seg))
		}
	}
	parts = append(parts, util.Slugify(knot))
	var flags []string
	for k, v := range state {
		if v {
			flags = append(flags, util.Slugify(k))
		}
	}
	slices.Sort(flags)
	parts = append(parts, flags...)
	return strings.Join(parts, "-") + ".md"
}

// frontMatter renders the page's YAML block: title, story_title and
// story_author first, then the knot's comment keys sorted.
func frontMatter(title string, storyMeta, knotMeta map[string]string) (string, error) {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	add := func(k, v string) {
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: k},
			&yaml.Node{Kind: yaml.ScalarNode, Value: v, Style: yaml.DoubleQuotedStyle})
	}
	add("title", title)
	if v, ok := storyMeta["title"]; ok {
		add("story_title", v)
	}
	if v, ok := storyMeta["author"]; ok {
		add("story_author", v)
	}
	keys := make([]string, 0, len(knotMeta))
	for k := range knotMeta {
		if k != "title" {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	for _, k := range keys {
		add(k, knotMeta[k])
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", err
	}
	return "---\n" + string(out) + "---\n", nil
}
