// Package scaffold creates new sites and pages.
package scaffold

import (
	"bytes"
	"io/fs"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"gopkg.in/yaml.v3"

	"tinyssg/internal/config"
	ssgerr "tinyssg/internal/errors"
	"tinyssg/internal/fileio"
	"tinyssg/internal/util"
)

// ArchetypePath is the optional page archetype, relative to the site root.
const ArchetypePath = "archetypes/default.md"

// DefaultConfig is the configuration written into a new site.
var DefaultConfig = config.SiteConfig{
	RawPath:      "raw",
	OutputPath:   "public_html",
	TemplateFile: "template.html",
	Verbose:      false,
	StaticPath:   "static",
}

// CreateNewSite lays out a buildable site under dir and returns the files
// it wrote. Existing files are left alone and reported as a WriteError.
func CreateNewSite(fsys *fileio.FS, dir string) ([]string, error) {
	files := []struct {
		path    string
		content string
	}{
		{"template.html", templateContent},
		{filepath.Join(DefaultConfig.RawPath, "index.md"), indexContent},
		{filepath.Join(DefaultConfig.StaticPath, "style.css"), styleContent},
		{ArchetypePath, archetypeContent},
	}

	cfgPath := filepath.Join(dir, config.DefaultFile)
	if err := refuseExisting(fsys, cfgPath); err != nil {
		return nil, err
	}
	for _, f := range files {
		if err := refuseExisting(fsys, filepath.Join(dir, f.path)); err != nil {
			return nil, err
		}
	}

	if err := fsys.EnsureDir(dir); err != nil {
		return nil, err
	}
	if err := config.Write(fsys, cfgPath, DefaultConfig); err != nil {
		return nil, err
	}
	written := []string{cfgPath}
	for _, f := range files {
		path := filepath.Join(dir, f.path)
		if err := fsys.EnsureDir(filepath.Dir(path)); err != nil {
			return written, err
		}
		if err := fsys.Write(path, f.content); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

// CreateNewPage writes a page titled title into cfg.RawPath and returns its
// path. The body comes from ArchetypePath when that file exists, otherwise
// from the built-in archetype.
func CreateNewPage(fsys *fileio.FS, cfg config.SiteConfig, title string, now time.Time) (string, error) {
	slug := util.Slugify(title)
	if slug == "" {
		return "", ssgerr.UsageError("page title must contain at least one letter or digit")
	}
	path := filepath.Join(cfg.RawPath, slug+".md")
	if err := refuseExisting(fsys, path); err != nil {
		return "", err
	}

	archetype := archetypeContent
	if fsys.Exists(ArchetypePath) {
		text, err := fsys.Read(ArchetypePath)
		if err != nil {
			return "", err
		}
		archetype = text
	}

	tmpl, err := template.New("archetype").Funcs(template.FuncMap{"yaml": yamlScalar}).Parse(archetype)
	if err != nil {
		return "", ssgerr.ReadError(ArchetypePath, err)
	}
	data := struct {
		Title string
		Slug  string
		Date  string
	}{
		Title: title,
		Slug:  slug,
		Date:  now.Format("2006-01-02"),
	}
	var out bytes.Buffer
	if err := tmpl.Execute(&out, data); err != nil {
		return "", ssgerr.WriteError(path, err)
	}

	if err := fsys.EnsureDir(cfg.RawPath); err != nil {
		return "", err
	}
	if err := fsys.Write(path, out.String()); err != nil {
		return "", err
	}
	return path, nil
}

func refuseExisting(fsys *fileio.FS, path string) error {
	if fsys.Exists(path) {
		return ssgerr.WriteError(path, fs.ErrExist)
	}
	return nil
}

// yamlScalar renders s as a YAML scalar, quoting it when needed.
func yamlScalar(s string) (string, error) {
	out, err := yaml.Marshal(s)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(string(out), "\n"), nil
}

const archetypeContent = `---
title: {{ yaml .Title }}
date: {{ .Date }}
---

Write something meaningful here.
`

const indexContent = `---
title: Home
---

# Welcome

This page was built by tinyssg. Edit ` + "`raw/index.md`" + ` and rebuild.
`

const templateContent = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.title}}</title>
  <link rel="stylesheet" href="style.css">
</head>
<body>
  <main>
{{.content}}
  </main>
</body>
</html>
`

const styleContent = `body {
  font-family: sans-serif;
  max-width: 700px;
  margin: 2em auto;
  padding: 0 1em;
  line-height: 1.6;
  color: #222;
  background: #fdfdfd;
}
main { margin-bottom: 3em; }
ul { margin-left: 1.2em; padding-left: 1.2em; list-style-type: disc; }
li { margin-bottom: 0.25em; }
hr { border: none; border-top: 1px solid #ccc; width: 33%; margin: 2em auto; }
`
