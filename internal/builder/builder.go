package builder

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"tinyssg/internal/config"
	ssgerr "tinyssg/internal/errors"
	"tinyssg/internal/fileio"
	"tinyssg/internal/logfields"
	"tinyssg/internal/logging"
	"tinyssg/internal/markup"
	"tinyssg/internal/metrics"
	"tinyssg/internal/page"
	"tinyssg/internal/tags"
	"tinyssg/internal/util"
)

// Builder turns markup files into HTML pages through a single template.
type Builder struct {
	fs       *fileio.FS
	renderer markup.Renderer
	logger   *slog.Logger
	recorder metrics.Recorder
}

// Option configures a Builder.
type Option func(*Builder)

func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

func WithRecorder(r metrics.Recorder) Option {
	return func(b *Builder) { b.recorder = r }
}

// New creates a Builder.
func New(fsys *fileio.FS, renderer markup.Renderer, opts ...Option) *Builder {
	b := &Builder{
		fs:       fsys,
		renderer: renderer,
		logger:   logging.Discard(),
		recorder: metrics.NoopRecorder{},
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// BuildSite builds every *.md file under cfg.RawPath, in name order, into
// cfg.OutputPath and then copies static assets from cfg.StaticPath if set.
// It returns the number of pages written.
func (b *Builder) BuildSite(cfg config.SiteConfig) (n int, err error) {
	start := time.Now()
	log := b.logger.With(logfields.BuildID(uuid.NewString()), logfields.Pipeline(metrics.PipelineSite))
	defer func() {
		b.recorder.ObserveBuildDuration(metrics.PipelineSite, time.Since(start))
		b.recorder.IncBuildOutcome(metrics.PipelineSite, metrics.OutcomeOf(err))
		if err != nil {
			log.Debug("Build failed", logfields.Error(err))
		}
	}()

	inputs, err := b.fs.List(cfg.RawPath, SourceExt)
	if err != nil {
		return 0, err
	}
	n, err = b.assemble(log, cfg.TemplateFile, inputs, cfg.OutputPath)
	if err != nil {
		return n, err
	}

	if cfg.StaticPath != "" && b.fs.IsDir(cfg.StaticPath) {
		copied, err := b.fs.CopyTree(cfg.StaticPath, cfg.OutputPath, staticExts)
		if err != nil {
			return n, err
		}
		log.Debug("Copied static assets", logfields.Path(cfg.StaticPath), logfields.Count(copied))
	}

	log.Info("Site built",
		logfields.Output(cfg.OutputPath),
		logfields.Count(n),
		logfields.DurationMS(float64(time.Since(start).Microseconds())/1000))
	return n, nil
}

// AssembleSite renders inputs, in the given order, through the template at
// templatePath into outputDir. The template is validated before outputDir
// is recreated; the first failing page aborts the run.
func (b *Builder) AssembleSite(templatePath string, inputs []string, outputDir string) (int, error) {
	return b.assemble(b.logger, templatePath, inputs, outputDir)
}

func (b *Builder) assemble(log *slog.Logger, templatePath string, inputs []string, outputDir string) (int, error) {
	tmpl, err := b.fs.ReadNonEmpty(templatePath)
	if err != nil {
		return 0, err
	}
	if err := tags.ValidateTemplate(tmpl); err != nil {
		return 0, ssgerr.Annotate(err, ssgerr.CtxPath, templatePath)
	}
	log.Debug("Loaded template", logfields.Template(templatePath), logfields.Tags(tags.Names(tmpl)))

	if err := b.fs.Recreate(outputDir); err != nil {
		return 0, err
	}

	n := 0
	for _, in := range inputs {
		p, err := b.render(in, outputDir)
		if err != nil {
			return n, err
		}
		html, err := tags.Render(tmpl, p.HTML, p.Metadata)
		if err != nil {
			return n, ssgerr.Annotate(err, ssgerr.CtxPath, in)
		}
		if err := b.fs.Write(p.Destination, html); err != nil {
			return n, err
		}
		n++
		b.recorder.IncDocuments(metrics.PipelineSite)
		log.Debug("Wrote page", logfields.Path(in), logfields.Output(p.Destination))
	}
	return n, nil
}

func (b *Builder) render(path, outputDir string) (Page, error) {
	raw, err := b.fs.ReadNonEmpty(path)
	if err != nil {
		return Page{}, err
	}
	rec, err := page.Parse([]byte(raw))
	if err != nil {
		return Page{}, ssgerr.ReadError(path, err)
	}
	html, err := b.renderer.Render(rec.Body)
	if err != nil {
		if !ssgerr.HasKind(err, ssgerr.KindRender) {
			err = ssgerr.RenderError(err)
		}
		return Page{}, ssgerr.Annotate(err, ssgerr.CtxPath, path)
	}
	return Page{
		Source:      path,
		Destination: util.DestinationPath(path, outputDir),
		Metadata:    rec.Metadata,
		HTML:        html,
	}, nil
}
