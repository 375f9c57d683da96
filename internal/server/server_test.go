package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tinyssg/internal/logging"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestLiveReloadWrapper_InjectsScriptIntoHTML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "page.html"), "<html><body>hi</body></html>")
	writeFile(t, filepath.Join(dir, "style.css"), "body{}</body>")

	srv := httptest.NewServer(liveReloadWrapper(http.FileServer(http.Dir(dir))))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/page.html")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "new WebSocket")
	assert.True(t, strings.HasSuffix(string(body), "</script>\n</body></html>"))
	assert.Equal(t, "no-cache, no-store, must-revalidate", resp.Header.Get("Cache-Control"))

	resp, err = http.Get(srv.URL + "/style.css")
	require.NoError(t, err)
	body, err = io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, "body{}</body>", string(body))
}

func TestLiveReloadWrapper_PassesErrorsThrough(t *testing.T) {
	srv := httptest.NewServer(liveReloadWrapper(http.FileServer(http.Dir(t.TempDir()))))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/missing.html")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.NotContains(t, string(body), "WebSocket")
}

func TestNewMux_MountsMetrics(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "tinyssg_up 1\n")
	})
	srv := httptest.NewServer(newMux(newHub(logging.Discard()), t.TempDir(), metrics))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "tinyssg_up 1\n", string(body))
}

func TestHub_BroadcastReachesClients(t *testing.T) {
	hub := newHub(logging.Discard())
	srv := httptest.NewServer(http.HandlerFunc(hub.serveWs))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.count() == 1 }, time.Second, 10*time.Millisecond)

	hub.broadcast([]byte(reloadMessage))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, reloadMessage, string(msg))

	hub.closeAll()
	assert.Zero(t, hub.count())
}

func TestWatchDirs(t *testing.T) {
	root := t.TempDir()
	raw := filepath.Join(root, "raw")
	writeFile(t, filepath.Join(raw, "a.md"), "a")
	writeFile(t, filepath.Join(raw, "sub", "b.md"), "b")
	tmpl := filepath.Join(root, "template.html")
	writeFile(t, tmpl, "{{.content}}")

	dirs, err := watchDirs([]string{raw, tmpl, filepath.Join(root, "missing"), "", raw})
	require.NoError(t, err)
	assert.Equal(t, []string{raw, filepath.Join(raw, "sub"), root}, dirs)
}
