package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/prometheus/client_golang/prometheus"

	"tinyssg/internal/builder"
	"tinyssg/internal/config"
	ssgerr "tinyssg/internal/errors"
	"tinyssg/internal/fileio"
	"tinyssg/internal/logfields"
	"tinyssg/internal/logging"
	"tinyssg/internal/macro"
	"tinyssg/internal/markup"
	"tinyssg/internal/metrics"
	"tinyssg/internal/scaffold"
	"tinyssg/internal/server"
	"tinyssg/internal/story"
)

// Global is shared with every command's Run method.
type Global struct {
	FS      *fileio.FS
	Logger  *slog.Logger
	Stdout  io.Writer
	Stderr  io.Writer
	Verbose bool
	// LevelSet is true when --log-level chose the level explicitly.
	LevelSet bool
}

// loadConfig reads the site configuration. A config asking for verbose
// output switches the run's logger to debug level unless --log-level was
// given.
func (g *Global) loadConfig(path string) (config.SiteConfig, error) {
	cfg, err := config.Load(g.FS, path)
	if err != nil {
		return cfg, err
	}
	if cfg.Verbose && !g.Verbose && !g.LevelSet {
		g.Verbose = true
		g.Logger = logging.New(g.Stderr, true)
	}
	return cfg, nil
}

// CLI is the command line of tinyssg.
type CLI struct {
	Config   string           `short:"c" help:"Configuration file path." default:"tinySSG.ini" env:"TINYSSG_CONFIG"`
	Verbose  bool             `short:"v" help:"Enable verbose logging."`
	LogLevel string           `name:"log-level" placeholder:"LEVEL" help:"Log level (debug, info, warn, error). Overrides --verbose." env:"TINYSSG_LOG_LEVEL"`
	Version  kong.VersionFlag `name:"version" help:"Show version and exit."`

	Build BuildCmd `cmd:"" default:"1" help:"Build the site described by the configuration file."`
	Macro MacroCmd `cmd:"" help:"Expand #include and #globaldefine directives."`
	Serve ServeCmd `cmd:"" help:"Build, serve and rebuild the site on changes."`
	New   NewCmd   `cmd:"" help:"Create a new site or page."`
	Story StoryCmd `cmd:"" help:"Import a biff story into the raw files directory."`
}

// BuildCmd implements the 'build' command.
type BuildCmd struct{}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := g.loadConfig(root.Config)
	if err != nil {
		return err
	}
	n, err := newBuilder(g, cfg, metrics.NoopRecorder{}).BuildSite(cfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(g.Stdout, "Generated %d pages in %s\n", n, cfg.OutputPath)
	return nil
}

func newBuilder(g *Global, cfg config.SiteConfig, rec metrics.Recorder) *builder.Builder {
	renderer := markup.NewGoldmark(markup.Options{Unsafe: cfg.Unsafe, CleanEdits: cfg.CleanEdits})
	return builder.New(g.FS, renderer, builder.WithLogger(g.Logger), builder.WithRecorder(rec))
}

// MacroCmd implements the 'macro' command.
type MacroCmd struct {
	File       bool     `xor:"mode" help:"Expand one file: <input> <output>."`
	Folder     bool     `xor:"mode" help:"Expand every <inExt> file in <dir> into an <outExt> sibling: <dir> <inExt> <outExt>."`
	IncludeDir string   `name:"include-dir" short:"I" help:"Directory #include paths are resolved against."`
	Args       []string `arg:"" name:"args" help:"Paths and extensions for the selected mode."`
}

func (m *MacroCmd) Run(g *Global) error {
	var opts []macro.Option
	if m.IncludeDir != "" {
		opts = append(opts, macro.WithBaseDir(m.IncludeDir))
	}
	e := macro.New(g.FS, append(opts, macro.WithLogger(g.Logger))...)

	switch {
	case m.File:
		if len(m.Args) != 2 {
			return ssgerr.UsageError("macro --file takes <input> <output>")
		}
		if err := e.ProcessFile(m.Args[0], m.Args[1]); err != nil {
			return err
		}
		fmt.Fprintf(g.Stdout, "Expanded %s into %s\n", m.Args[0], m.Args[1])
	case m.Folder:
		if len(m.Args) != 3 {
			return ssgerr.UsageError("macro --folder takes <dir> <inExt> <outExt>")
		}
		n, err := e.ProcessFolder(m.Args[0], m.Args[1], m.Args[2])
		if err != nil {
			return err
		}
		fmt.Fprintf(g.Stdout, "Expanded %d files in %s\n", n, m.Args[0])
	default:
		return ssgerr.UsageError("macro needs --file or --folder")
	}
	return nil
}

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Port int `short:"p" default:"1313" help:"Port for the preview server."`
}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return s.serve(ctx, g, root.Config)
}

func (s *ServeCmd) serve(ctx context.Context, g *Global, configPath string) error {
	cfg, err := g.loadConfig(configPath)
	if err != nil {
		return err
	}
	reg := prometheus.NewRegistry()
	b := newBuilder(g, cfg, metrics.NewPrometheusRecorder(reg))

	return server.Run(ctx, server.Options{
		Port:      s.Port,
		OutputDir: cfg.OutputPath,
		WatchPaths: []string{
			cfg.RawPath,
			cfg.TemplateFile,
			cfg.StaticPath,
			configPath,
		},
		Build: func() error {
			// The configuration itself is watched, so reload it each time.
			fresh, err := config.Load(g.FS, configPath)
			if err != nil {
				return err
			}
			_, err = b.BuildSite(fresh)
			return err
		},
		Logger:  g.Logger,
		Metrics: metrics.HTTPHandler(reg),
	})
}

// NewCmd groups the scaffolding commands.
type NewCmd struct {
	Site NewSiteCmd `cmd:"" help:"Create a new site in <dir>."`
	Page NewPageCmd `cmd:"" help:"Create a new page in the raw files directory."`
}

// NewSiteCmd implements 'new site'.
type NewSiteCmd struct {
	Dir string `arg:"" help:"Directory of the new site."`
}

func (n *NewSiteCmd) Run(g *Global) error {
	written, err := scaffold.CreateNewSite(g.FS, n.Dir)
	if err != nil {
		return err
	}
	for _, path := range written {
		g.Logger.Debug("Created file", logfields.Path(path))
	}
	fmt.Fprintf(g.Stdout, "Site scaffolded. You can now:\n  cd %s\n  tinyssg serve\n", n.Dir)
	return nil
}

// NewPageCmd implements 'new page'.
type NewPageCmd struct {
	Title string `arg:"" help:"Title of the new page."`
}

func (n *NewPageCmd) Run(g *Global, root *CLI) error {
	cfg, err := g.loadConfig(root.Config)
	if err != nil {
		return err
	}
	path, err := scaffold.CreateNewPage(g.FS, cfg, n.Title, time.Now())
	if err != nil {
		return err
	}
	fmt.Fprintf(g.Stdout, "Created %s\n", filepath.ToSlash(path))
	return nil
}

// StoryCmd implements the 'story' command.
type StoryCmd struct {
	File  string `arg:"" optional:"" default:"site.biff" help:"Story file to import."`
	Build bool   `help:"Build the site after importing."`
}

func (s *StoryCmd) Run(g *Global, root *CLI) error {
	cfg, err := g.loadConfig(root.Config)
	if err != nil {
		return err
	}
	n, err := story.NewImporter(g.FS, g.Logger).Import(s.File, cfg.RawPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(g.Stdout, "Imported %d story pages into %s\n", n, cfg.RawPath)
	if !s.Build {
		return nil
	}
	return (&BuildCmd{}).Run(g, root)
}
