package macro

import (
	"log/slog"
	"path/filepath"
	"time"

	ssgerr "tinyssg/internal/errors"
	"tinyssg/internal/fileio"
	"tinyssg/internal/logfields"
	"tinyssg/internal/logging"
	"tinyssg/internal/metrics"
	"tinyssg/internal/util"
)

// Expander runs the include and define passes over files.
type Expander struct {
	fs       *fileio.FS
	baseDir  string
	logger   *slog.Logger
	recorder metrics.Recorder
}

// Option configures an Expander.
type Option func(*Expander)

// WithBaseDir resolves #include paths against dir instead of using them
// verbatim.
func WithBaseDir(dir string) Option {
	return func(e *Expander) { e.baseDir = dir }
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Expander) { e.logger = l }
}

func WithRecorder(r metrics.Recorder) Option {
	return func(e *Expander) { e.recorder = r }
}

// New creates an Expander reading and writing through fsys.
func New(fsys *fileio.FS, opts ...Option) *Expander {
	e := &Expander{
		fs:       fsys,
		logger:   logging.Discard(),
		recorder: metrics.NoopRecorder{},
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Expand runs includes then defines over text.
func (e *Expander) Expand(text, source, baseDir string) (string, error) {
	expanded, err := ExpandIncludes(text, source, baseDir, e.fs.Read)
	if err != nil {
		return "", err
	}
	return ExpandDefines(expanded), nil
}

// ProcessFile expands inputPath and writes the result to outputPath. The
// output is untouched when reading or expanding fails.
func (e *Expander) ProcessFile(inputPath, outputPath string) (err error) {
	start := time.Now()
	defer func() { e.observe(start, err) }()

	return e.processFile(inputPath, outputPath, e.baseDir)
}

// ProcessFolder expands every file in dir with extension inExt into a
// sibling with extension outExt, in name order, and returns the number of
// files written. Equal extensions are rejected before any file is read.
// Without a configured base directory, includes resolve against dir.
func (e *Expander) ProcessFolder(dir, inExt, outExt string) (n int, err error) {
	if util.NormalizeExt(inExt) == util.NormalizeExt(outExt) {
		return 0, ssgerr.UsageError("input and output extensions must differ, both are " + util.NormalizeExt(inExt))
	}
	start := time.Now()
	defer func() { e.observe(start, err) }()

	files, err := e.fs.List(dir, inExt)
	if err != nil {
		return 0, err
	}
	baseDir := e.baseDir
	if baseDir == "" {
		baseDir = dir
	}
	for _, in := range files {
		out := util.ReplaceExtension(in, inExt, outExt)
		if err := e.processFile(in, out, baseDir); err != nil {
			return n, err
		}
		n++
	}
	e.logger.Info("Expanded folder", logfields.Pipeline(metrics.PipelineMacro), logfields.Path(dir), logfields.Count(n))
	return n, nil
}

func (e *Expander) processFile(inputPath, outputPath, baseDir string) error {
	text, err := e.fs.ReadNonEmpty(inputPath)
	if err != nil {
		return err
	}
	expanded, err := e.Expand(text, filepath.Base(inputPath), baseDir)
	if err != nil {
		return err
	}
	if err := e.fs.Write(outputPath, expanded); err != nil {
		return err
	}
	e.recorder.IncDocuments(metrics.PipelineMacro)
	e.logger.Debug("Expanded file", logfields.Pipeline(metrics.PipelineMacro), logfields.Path(inputPath), logfields.Output(outputPath))
	return nil
}

func (e *Expander) observe(start time.Time, err error) {
	e.recorder.ObserveBuildDuration(metrics.PipelineMacro, time.Since(start))
	e.recorder.IncBuildOutcome(metrics.PipelineMacro, metrics.OutcomeOf(err))
}
