package web

import (
	"bytes"
	"io/fs"
	"net/http"
	"time"
)

// AssetServer returns a handler that serves files from subdir of fsys,
// stripping urlPrefix from the request path.
func AssetServer(fsys fs.FS, subdir, urlPrefix string) (http.HandlerFunc, error) {
	sub, err := fs.Sub(fsys, subdir)
	if err != nil {
		return nil, err
	}
	server := http.StripPrefix(urlPrefix, http.FileServer(http.FS(sub)))
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		server.ServeHTTP(w, r)
	}, nil
}

// ServeBlob writes data with the given content type. Range and conditional
// requests are handled by http.ServeContent.
func ServeBlob(w http.ResponseWriter, r *http.Request, name, contentType string, data []byte) {
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.Header().Set("Cache-Control", "no-store")
	http.ServeContent(w, r, name, time.Time{}, bytes.NewReader(data))
}
