package handlers

import (
	_ "embed"
	stderrors "errors"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/mdwiki/internal/foundation/errors"
)

// DefaultContentType is used for files whose extension has no registered type.
const DefaultContentType = "text/html; charset=utf-8"

var (
	//go:embed assets/404.html
	notFoundPage []byte
	//go:embed assets/500.html
	errorPage []byte
)

// FileHandler serves files below an output root. Directories resolve to
// their index file.
type FileHandler struct {
	root         string
	indexName    string
	errorAdapter *errors.HTTPErrorAdapter
}

// NewFileHandler creates a FileHandler for root. indexName defaults to "index.html".
func NewFileHandler(root, indexName string, logger *slog.Logger) *FileHandler {
	if indexName == "" {
		indexName = "index.html"
	}
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return &FileHandler{
		root:         root,
		indexName:    indexName,
		errorAdapter: errors.NewHTTPErrorAdapter(logger),
	}
}

// Root returns the absolute output root.
func (h *FileHandler) Root() string { return h.root }

func (h *FileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		h.writeError(w, r, errors.Wrap(nil, ErrMethodNotAllowed).WithContext("method", r.Method).Build())
		return
	}

	full, err := h.resolve(r.URL.Path)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	f, err := os.Open(full)
	if err != nil {
		h.writeError(w, r, classifyOpen(err, r.URL.Path))
		return
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil || !info.Mode().IsRegular() {
		h.writeError(w, r, errors.Wrap(err, ErrNotFound).WithContext("path", r.URL.Path).Build())
		return
	}

	w.Header().Set("Content-Type", contentType(full))
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

// resolve maps a URL path onto a file below the root.
func (h *FileHandler) resolve(urlPath string) (string, error) {
	for _, seg := range strings.Split(urlPath, "/") {
		if seg == ".." || strings.ContainsRune(seg, '\\') || strings.ContainsRune(seg, 0) {
			return "", errors.Wrap(nil, ErrNotFound).WithContext("path", urlPath).Build()
		}
	}

	rel := strings.TrimPrefix(path.Clean("/"+urlPath), "/")
	full := filepath.Join(h.root, filepath.FromSlash(rel))

	info, err := os.Stat(full)
	if err != nil {
		return "", classifyOpen(err, urlPath)
	}
	if info.IsDir() {
		full = filepath.Join(full, h.indexName)
	}

	// Symlinks inside the tree must not lead out of it. The root may not
	// exist until the first build, so it is resolved per request.
	root, err := filepath.EvalSymlinks(h.root)
	if err != nil {
		return "", classifyOpen(err, urlPath)
	}
	resolved, err := filepath.EvalSymlinks(full)
	if err != nil {
		return "", classifyOpen(err, urlPath)
	}
	if resolved != root && !strings.HasPrefix(resolved, root+string(filepath.Separator)) {
		return "", errors.Wrap(nil, ErrNotFound).WithContext("path", urlPath).Build()
	}
	return resolved, nil
}

func (h *FileHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	h.errorAdapter.LogRequestError(r, err)
	status := h.errorAdapter.StatusCodeFor(err)
	if stderrors.Is(err, ErrMethodNotAllowed) {
		status = http.StatusMethodNotAllowed
	}

	page := errorPage
	if status == http.StatusNotFound {
		page = notFoundPage
	}
	w.Header().Set("Content-Type", DefaultContentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	if r.Method != http.MethodHead {
		_, _ = w.Write(page)
	}
}

func classifyOpen(err error, urlPath string) error {
	if os.IsNotExist(err) {
		return errors.Wrap(err, ErrNotFound).WithContext("path", urlPath).Build()
	}
	return errors.Wrap(err, ErrReadFailed).WithContext("path", urlPath).Build()
}

func contentType(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return DefaultContentType
}
