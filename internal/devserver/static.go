package devserver

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"syscall"
)

const fallbackContentType = "application/octet-stream"

var contentTypes = map[string]string{
	".html":  "text/html; charset=utf-8",
	".css":   "text/css; charset=utf-8",
	".js":    "text/javascript; charset=utf-8",
	".json":  "application/json; charset=utf-8",
	".md":    "text/markdown; charset=utf-8",
	".svg":   "image/svg+xml",
	".png":   "image/png",
	".jpg":   "image/jpeg",
	".jpeg":  "image/jpeg",
	".gif":   "image/gif",
	".webp":  "image/webp",
	".woff2": "font/woff2",
	".woff":  "font/woff",
	".ttf":   "font/ttf",
	".otf":   "font/otf",
}

// ContentType returns the response content type for a file name.
func ContentType(name string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}
	return fallbackContentType
}

// resolve maps a request path onto a relative slash path inside the root.
// It reports false when the path tries to escape the root.
func resolve(urlPath string) (string, bool) {
	p := strings.ReplaceAll(urlPath, "\\", "/")
	if strings.IndexByte(p, 0) >= 0 {
		return "", false
	}
	for seg := range strings.SplitSeq(p, "/") {
		if seg == ".." {
			return "", false
		}
	}
	p = strings.TrimPrefix(path.Clean("/"+p), "/")
	if p == "" || p == "." {
		return "index.html", true
	}
	return p, true
}

type staticHandler struct {
	root string
}

func (h staticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		plain(w, http.StatusMethodNotAllowed, "405 Method Not Allowed")
		return
	}

	rel, ok := resolve(r.URL.Path)
	if !ok {
		plain(w, http.StatusForbidden, "403 Forbidden")
		return
	}
	abs := filepath.Join(h.root, filepath.FromSlash(rel))

	fi, err := os.Stat(abs)
	if err != nil {
		if isNotFound(err) {
			plain(w, http.StatusNotFound, "404 Not Found")
			return
		}
		plain(w, http.StatusInternalServerError, "500 Server Error")
		return
	}

	if fi.IsDir() {
		abs = filepath.Join(abs, "index.html")
		fi, err = os.Stat(abs)
		if err != nil || !fi.Mode().IsRegular() {
			plain(w, http.StatusForbidden, "403 Forbidden")
			return
		}
	}

	f, err := os.Open(abs) // #nosec G304 -- abs is confined to the site root by resolve
	if err != nil {
		plain(w, http.StatusInternalServerError, "500 Server Error")
		return
	}
	defer func() { _ = f.Close() }()

	w.Header().Set("Content-Type", ContentType(abs))
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeContent(w, r, fi.Name(), fi.ModTime(), f)
}

func isNotFound(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}

func plain(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
