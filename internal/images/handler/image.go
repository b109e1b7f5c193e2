package handler

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	apperrors "coursework/pkg/errors"
	httputil "coursework/pkg/http"
	"coursework/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type ImageHandler struct {
	root string
	log  *logger.Logger
}

func NewImageHandler(root string, log *logger.Logger) *ImageHandler {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return &ImageHandler{
		root: root,
		log:  log,
	}
}

// Serve writes one file from the image root. Paths that could leave the
// root are refused before the filesystem is touched.
func (h *ImageHandler) Serve(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requested := ps.ByName("filepath")

	path, ok := h.resolve(requested)
	if !ok {
		h.log.Warn("Rejected image path", "path", requested, "remote_addr", r.RemoteAddr)
		h.writeError(w, apperrors.Forbidden("Access denied"))
		return
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			h.writeError(w, apperrors.NotFound("Image"))
			return
		}
		h.log.Error("Failed to open image", "path", path, "error", err)
		h.writeError(w, apperrors.Internal("Failed to serve image", err))
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		h.log.Error("Failed to stat image", "path", path, "error", err)
		h.writeError(w, apperrors.Internal("Failed to serve image", err))
		return
	}
	if info.IsDir() {
		h.writeError(w, apperrors.NotFound("Image"))
		return
	}

	http.ServeContent(w, r, info.Name(), info.ModTime(), file)
}

func (h *ImageHandler) resolve(requested string) (string, bool) {
	if strings.ContainsRune(requested, '\\') || strings.ContainsRune(requested, 0) {
		return "", false
	}
	for _, segment := range strings.Split(requested, "/") {
		if segment == ".." {
			return "", false
		}
	}

	path := filepath.Join(h.root, filepath.FromSlash(strings.TrimPrefix(requested, "/")))
	rel, err := filepath.Rel(h.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return path, true
}

func (h *ImageHandler) writeError(w http.ResponseWriter, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", "Serve", "operation", "WriteError", "error", writeErr)
	}
}

func (h *ImageHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/images/*filepath", h.Serve)
	router.HEAD("/images/*filepath", h.Serve)
}
