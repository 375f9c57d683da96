// Command tinyssg builds a static site from Markdown pages and a single
// HTML template, and expands #include/#globaldefine macros in text files.
package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	ssgerr "tinyssg/internal/errors"
	"tinyssg/internal/fileio"
	"tinyssg/internal/logging"
)

var version = "dev"

func main() {
	// A missing .env is normal.
	_ = godotenv.Load()
	os.Exit(run(os.Args[1:], fileio.NewOS(), os.Stdout, os.Stderr, os.Exit))
}

// run parses args, executes the selected command and returns the exit
// code. exit is only used by kong for --help and --version.
func run(args []string, fsys *fileio.FS, stdout, stderr io.Writer, exit func(int)) int {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("tinyssg"),
		kong.Description("A tiny static site generator and macro expander."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{"version": version},
		kong.Writers(stdout, stderr),
		kong.Exit(exit),
	)
	if err != nil {
		return ssgerr.NewCLIAdapter(false, nil, stderr).Handle(err)
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		return ssgerr.NewCLIAdapter(false, nil, stderr).Handle(ssgerr.Wrap(err, ssgerr.KindUsage, "invalid command line").Build())
	}

	level := logging.Level(cli.Verbose)
	if cli.LogLevel != "" {
		level = logging.ParseLevel(cli.LogLevel)
	}
	g := &Global{
		FS:       fsys,
		Logger:   logging.NewAt(stderr, level),
		Stdout:   stdout,
		Stderr:   stderr,
		Verbose:  level <= slog.LevelDebug,
		LevelSet: cli.LogLevel != "",
	}
	err = kctx.Run(g, &cli)
	return ssgerr.NewCLIAdapter(g.Verbose, g.Logger, stderr).Handle(err)
}
