package util

import (
	"path/filepath"
	"regexp"
	"strings"
)

// ReplaceExtension swaps the oldExt suffix of name for newExt. Extensions may
// be given with or without the leading dot. When name does not end in oldExt
// the new extension is appended.
//
// ReplaceExtension("abcde.old", "old", "new") == "abcde.new"
func ReplaceExtension(name, oldExt, newExt string) string {
	oldExt = "." + NormalizeExt(oldExt)
	newExt = "." + NormalizeExt(newExt)
	return strings.TrimSuffix(name, oldExt) + newExt
}

// NormalizeExt strips leading dots from an extension.
func NormalizeExt(ext string) string {
	return strings.TrimLeft(ext, ".")
}

// DestinationPath computes where a rendered page is written: the basename
// of filename with its extension replaced by .html, placed directly under
// outputDir. Directory components of filename are discarded and trailing
// slashes on outputDir are ignored.
//
// DestinationPath("filename.md", "path/to/outputfolder/") == "path/to/outputfolder/filename.html"
func DestinationPath(filename, outputDir string) string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.TrimRight(outputDir, "/") + "/" + base + ".html"
}

var (
	slugInvalid = regexp.MustCompile(`[^\w- ]+`)
	slugDashes  = regexp.MustCompile(`-+`)
)

// Slugify lower-cases a title into a file name friendly slug.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugInvalid.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, " ", "-")
	s = slugDashes.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
