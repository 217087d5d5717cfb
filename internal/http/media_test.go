package httpapi

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kna-archive-backend-go/internal/config"
)

func testFileServer(t *testing.T) (*Server, string) {
	t.Helper()
	resourcesDir := t.TempDir()
	return &Server{Config: config.Config{ResourcesPath: resourcesDir}}, resourcesDir
}

func TestServeResource(t *testing.T) {
	server, resourcesDir := testFileServer(t)
	dir := filepath.Join(resourcesDir, "1999-hamlet", "foto")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "thumbnails"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scene-een.jpg"), []byte("image"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "thumbnails", "scene-een.jpg"), []byte("thumb"), 0o644))

	t.Run("serves the file", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest("GET", "/api/media/files/x", nil)
		server.serveResource(recorder, request, "1999-hamlet/foto/scene-een.jpg", false)
		assert.Equal(t, 200, recorder.Code)
		assert.Equal(t, "image", recorder.Body.String())
	})

	t.Run("serves the thumbnail", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest("GET", "/api/media/thumbnails/x", nil)
		server.serveResource(recorder, request, "1999-hamlet/foto/scene-een.jpg", true)
		assert.Equal(t, 200, recorder.Code)
		assert.Equal(t, "thumb", recorder.Body.String())
	})

	t.Run("falls back to the file without thumbnail", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "scene-twee.jpg"), []byte("image2"), 0o644))
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest("GET", "/api/media/thumbnails/x", nil)
		server.serveResource(recorder, request, "1999-hamlet/foto/scene-twee.jpg", true)
		assert.Equal(t, 200, recorder.Code)
		assert.Equal(t, "image2", recorder.Body.String())
	})

	t.Run("missing file is 404", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest("GET", "/api/media/files/x", nil)
		server.serveResource(recorder, request, "1999-hamlet/foto/bestaat-niet.jpg", false)
		assert.Equal(t, 404, recorder.Code)
	})

	t.Run("path traversal is rejected", func(t *testing.T) {
		for _, path := range []string{"../secrets.txt", "..", "/etc/passwd", "foto/../../secrets.txt"} {
			recorder := httptest.NewRecorder()
			request := httptest.NewRequest("GET", "/api/media/files/x", nil)
			server.serveResource(recorder, request, path, false)
			assert.Equal(t, 400, recorder.Code, "path %q", path)
		}
	})
}
