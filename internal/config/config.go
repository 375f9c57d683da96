package config

import (
	"bytes"
	"strconv"

	"gopkg.in/ini.v1"

	ssgerr "tinyssg/internal/errors"
	"tinyssg/internal/fileio"
)

// DefaultFile is the configuration file looked up when none is given.
const DefaultFile = "tinySSG.ini"

// Section is the INI section holding the site settings.
const Section = "CONFIG"

// Keys of the CONFIG section.
const (
	KeyRawPath      = "path_rawfiles"
	KeyOutputPath   = "path_output"
	KeyTemplateFile = "template_file"
	KeyVerbose      = "verbose"
	KeyStaticPath   = "path_static"
	KeyUnsafe       = "unsafe"
	KeyCleanEdits   = "clean_edits"
)

// SiteConfig holds the configuration from the tinySSG.ini file.
type SiteConfig struct {
	RawPath      string
	OutputPath   string
	TemplateFile string
	Verbose      bool

	// Optional settings.
	StaticPath string
	Unsafe     bool
	CleanEdits bool
}

// Load reads and validates the configuration at path. Every failure is a
// ConfigError: unreadable file, missing [CONFIG] section, missing or empty
// required key, or a boolean that does not parse.
func Load(fsys *fileio.FS, path string) (SiteConfig, error) {
	text, err := fsys.Read(path)
	if err != nil {
		return SiteConfig{}, ssgerr.Wrap(err, ssgerr.KindConfig, "could not read configuration file "+path).
			WithContext(ssgerr.CtxPath, path).Build()
	}
	return Parse([]byte(text), path)
}

// LoadSiteConfig loads path from the OS filesystem.
func LoadSiteConfig(path string) (SiteConfig, error) {
	return Load(fileio.NewOS(), path)
}

// Parse validates INI data. name is used in error messages.
func Parse(data []byte, name string) (SiteConfig, error) {
	// Values are taken verbatim: no inline comments, quotes kept.
	f, err := ini.LoadSources(ini.LoadOptions{
		InsensitiveKeys:         true,
		IgnoreInlineComment:     true,
		PreserveSurroundedQuote: true,
	}, data)
	if err != nil {
		return SiteConfig{}, configErr(name, "", "could not parse configuration file "+name, err)
	}
	sec, err := f.GetSection(Section)
	if err != nil {
		return SiteConfig{}, configErr(name, "", "no ["+Section+"] section in configuration file "+name, nil)
	}

	cfg := SiteConfig{}
	for _, req := range []struct {
		key string
		dst *string
	}{
		{KeyRawPath, &cfg.RawPath},
		{KeyOutputPath, &cfg.OutputPath},
		{KeyTemplateFile, &cfg.TemplateFile},
	} {
		if !sec.HasKey(req.key) {
			return SiteConfig{}, configErr(name, req.key, "missing key "+req.key+" in configuration file "+name, nil)
		}
		v := sec.Key(req.key).String()
		if v == "" {
			return SiteConfig{}, configErr(name, req.key, req.key+" is of zero length in configuration file "+name, nil)
		}
		*req.dst = v
	}

	if !sec.HasKey(KeyVerbose) {
		return SiteConfig{}, configErr(name, KeyVerbose, "missing key "+KeyVerbose+" in configuration file "+name, nil)
	}
	if cfg.Verbose, err = sec.Key(KeyVerbose).Bool(); err != nil {
		return SiteConfig{}, configErr(name, KeyVerbose, "could not parse boolean "+KeyVerbose+" in configuration file "+name, err)
	}

	cfg.StaticPath = sec.Key(KeyStaticPath).String()
	if cfg.Unsafe, err = optionalBool(sec, KeyUnsafe); err != nil {
		return SiteConfig{}, configErr(name, KeyUnsafe, "could not parse boolean "+KeyUnsafe+" in configuration file "+name, err)
	}
	if cfg.CleanEdits, err = optionalBool(sec, KeyCleanEdits); err != nil {
		return SiteConfig{}, configErr(name, KeyCleanEdits, "could not parse boolean "+KeyCleanEdits+" in configuration file "+name, err)
	}
	return cfg, nil
}

// Write stores cfg at path in the format Load reads.
func Write(fsys *fileio.FS, path string, cfg SiteConfig) error {
	f := ini.Empty()
	sec, err := f.NewSection(Section)
	if err != nil {
		return ssgerr.WriteError(path, err)
	}
	pairs := [][2]string{
		{KeyRawPath, cfg.RawPath},
		{KeyOutputPath, cfg.OutputPath},
		{KeyTemplateFile, cfg.TemplateFile},
		{KeyVerbose, strconv.FormatBool(cfg.Verbose)},
	}
	if cfg.StaticPath != "" {
		pairs = append(pairs, [2]string{KeyStaticPath, cfg.StaticPath})
	}
	if cfg.Unsafe {
		pairs = append(pairs, [2]string{KeyUnsafe, "true"})
	}
	if cfg.CleanEdits {
		pairs = append(pairs, [2]string{KeyCleanEdits, "true"})
	}
	for _, p := range pairs {
		if _, err := sec.NewKey(p[0], p[1]); err != nil {
			return ssgerr.WriteError(path, err)
		}
	}
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return ssgerr.WriteError(path, err)
	}
	return fsys.Write(path, buf.String())
}

func optionalBool(sec *ini.Section, key string) (bool, error) {
	if !sec.HasKey(key) {
		return false, nil
	}
	return sec.Key(key).Bool()
}

func configErr(path, key, msg string, cause error) error {
	b := ssgerr.New(ssgerr.KindConfig, msg).WithCause(cause).WithContext(ssgerr.CtxPath, path)
	if key != "" {
		b = b.WithContext(ssgerr.CtxKey, key)
	}
	return b.Build()
}
