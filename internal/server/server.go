// Package server previews a built site: it serves the output directory,
// rebuilds when sources change and tells open browsers to reload.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"tinyssg/internal/logfields"
	"tinyssg/internal/logging"
)

const (
	debounceDuration = 500 * time.Millisecond
	settleDelay      = 100 * time.Millisecond
	shutdownTimeout  = 5 * time.Second
)

// Options configure Run.
type Options struct {
	Port      int
	OutputDir string
	// WatchPaths are files or directories whose changes trigger a rebuild.
	// Directories are watched recursively, files through their parent.
	// Missing paths are skipped.
	WatchPaths []string
	// Build regenerates the site into OutputDir.
	Build  func() error
	Logger *slog.Logger
	// Metrics, when set, is mounted at /metrics.
	Metrics http.Handler
}

// Run builds once, then serves OutputDir until ctx is cancelled. A failed
// initial build is returned; failed rebuilds are logged and the previous
// output keeps being served.
func Run(ctx context.Context, opts Options) error {
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	if err := opts.Build(); err != nil {
		return err
	}

	hub := newHub(log)
	defer hub.closeAll()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("could not create file watcher: %w", err)
	}
	defer watcher.Close()

	dirs, err := watchDirs(opts.WatchPaths)
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			log.Warn("Could not watch directory", logfields.Path(dir), logfields.Error(err))
			continue
		}
		log.Debug("Watching directory", logfields.Path(dir))
	}

	go watchForChanges(ctx, watcher, hub, opts.Build, log)

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(opts.Port),
		Handler:           newMux(hub, opts.OutputDir, opts.Metrics),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	log.Info("Serving site", slog.String("url", "http://localhost"+srv.Addr), logfields.Output(opts.OutputDir))

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	hub.closeAll()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("Server stopped")
	return nil
}

func newMux(hub *Hub, outputDir string, metrics http.Handler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.serveWs)
	if metrics != nil {
		mux.Handle("/metrics", metrics)
	}
	mux.Handle("/", liveReloadWrapper(http.FileServer(http.Dir(outputDir))))
	return mux
}

// watchDirs expands paths into the set of directories to watch. Editors
// that save through a swap file replace the watched file, so single files
// are watched through their parent directory.
func watchDirs(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var dirs []string
	add := func(dir string) {
		dir = filepath.Clean(dir)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}

	for _, path := range paths {
		if path == "" {
			continue
		}
		info, err := os.Stat(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("could not stat path %s: %w", path, err)
		}
		if !info.IsDir() {
			add(filepath.Dir(path))
			continue
		}
		err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to watch directory %s: %w", path, err)
		}
	}
	return dirs, nil
}

func watchForChanges(ctx context.Context, watcher *fsnotify.Watcher, hub *Hub, build func() error, log *slog.Logger) {
	var lastBuild time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if time.Since(lastBuild) <= debounceDuration {
				continue
			}
			time.Sleep(settleDelay)

			log.Info("Change detected, rebuilding", logfields.Path(event.Name))
			if err := build(); err != nil {
				log.Error("Rebuild failed", logfields.Error(err))
			} else {
				hub.broadcast([]byte(reloadMessage))
			}
			lastBuild = time.Now()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Warn("Watcher error", logfields.Error(err))
		}
	}
}

// liveReloadWrapper disables caching and injects the reload script before
// </body> in successful HTML responses.
func liveReloadWrapper(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")

		isHTML := strings.HasSuffix(r.URL.Path, ".html") || strings.HasSuffix(r.URL.Path, "/")
		if !isHTML {
			next.ServeHTTP(w, r)
			return
		}

		iw := newInterceptingWriter()
		next.ServeHTTP(iw, r)
		for key, values := range iw.header {
			for _, value := range values {
				w.Header().Add(key, value)
			}
		}

		body := iw.body.Bytes()
		if iw.statusCode != http.StatusOK {
			w.WriteHeader(iw.statusCode)
			w.Write(body)
			return
		}

		body = bytes.Replace(body, []byte("</body>"), []byte(liveReloadScript+"</body>"), 1)
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.WriteHeader(iw.statusCode)
		w.Write(body)
	})
}

// interceptingWriter buffers a response so it can be rewritten.
type interceptingWriter struct {
	body       *bytes.Buffer
	statusCode int
	header     http.Header
}

func newInterceptingWriter() *interceptingWriter {
	return &interceptingWriter{
		body:       new(bytes.Buffer),
		header:     make(http.Header),
		statusCode: http.StatusOK,
	}
}

func (iw *interceptingWriter) Header() http.Header { return iw.header }

func (iw *interceptingWriter) Write(b []byte) (int, error) { return iw.body.Write(b) }

func (iw *interceptingWriter) WriteHeader(statusCode int) { iw.statusCode = statusCode }

const liveReloadScript = `
<script>
  (function() {
    let socket = new WebSocket("ws://" + window.location.host + "/ws");
    socket.onmessage = function(event) {
      if (event.data === "reload") {
        window.location.reload();
      }
    };
    socket.onerror = function() {
      console.error("Live reload connection error. Please restart 'tinyssg serve'.");
    };
  })();
</script>
`
