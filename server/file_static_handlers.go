package server

import (
	"embed"
	"fmt"
	"io/fs"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
)

//go:embed static/*
var staticFiles embed.FS

// staticAssets is the static directory, resolved once.
var staticAssets = sync.OnceValues(func() (fs.FS, error) {
	return fs.Sub(staticFiles, "static")
})

// StaticHandler serves GET /static/{file} from the embedded assets.
func (s *Server) StaticHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := StreamFile(w, r, r.PathValue("file")); err != nil {
			requestLogger(r).Debug().Err(err).Msg("Static file not served")
			http.NotFound(w, r)
		}
	}
}

func StreamFile(w http.ResponseWriter, _ *http.Request, fileName string) error {
	if !fs.ValidPath(fileName) {
		return fmt.Errorf("invalid file name %q", fileName)
	}
	fsys, err := staticAssets()
	if err != nil {
		return err
	}
	data, err := fs.ReadFile(fsys, fileName)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", fileName, err)
	}

	ctype := mime.TypeByExtension(strings.ToLower(filepath.Ext(fileName)))
	if ctype == "" {
		ctype = http.DetectContentType(data)
	}
	if strings.HasPrefix(ctype, "text/") && !strings.Contains(strings.ToLower(ctype), "charset=") {
		ctype += "; charset=utf-8"
	}
	w.Header().Set("Content-Type", ctype)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write %s content: %w", fileName, err)
	}
	return nil
}
