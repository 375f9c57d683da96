package builder

// Page is one input file on its way to the output directory.
type Page struct {
	Source      string
	Destination string
	Metadata    map[string]string
	// HTML is the rendered body, before template substitution.
	HTML string
}

// staticExts defines the file extensions copied from the static directory.
var staticExts = map[string]bool{
	".css": true, ".js": true, ".txt": true, ".svg": true,
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".ico": true, ".woff": true, ".woff2": true,
}

// SourceExt is the extension of markup files picked up from the raw directory.
const SourceExt = ".md"
