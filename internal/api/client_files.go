package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/oriongle/portal-server/internal/access"
	"github.com/oriongle/portal-server/internal/middleware"
)

// ClientListFiles returns the folders and files visible to the logged-in
// client: their private tree plus whatever shared folders they are granted,
// descendants included.
func (s *Server) ClientListFiles(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	if session == nil || session.UserID == "" {
		// Break-glass sessions have no directory record and thus no files.
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "folders": []any{}, "files": []any{}})
		return
	}

	folders, err := s.dir.LoadFolders(r.Context())
	if err != nil {
		s.log.Error("client list files: load folders", "error", err)
		writeError(w, http.StatusInternalServerError, "Unable to load files")
		return
	}
	files, err := s.dir.LoadFiles(r.Context())
	if err != nil {
		s.log.Error("client list files: load files", "error", err)
		writeError(w, http.StatusInternalServerError, "Unable to load files")
		return
	}

	scope := access.VisibleScope(session.UserID, folders, files)
	fileViews := make([]fileView, 0, len(scope.Files))
	for _, f := range scope.Files {
		fileViews = append(fileViews, sanitizeFile(f))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"folders": scope.Folders,
		"files":   fileViews,
	})
}

// ClientDownloadFile streams a file, but only if it is inside the client's
// visible scope. Files outside the scope are reported as not found, never as
// forbidden.
func (s *Server) ClientDownloadFile(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	if session == nil || session.UserID == "" {
		writeError(w, http.StatusNotFound, "File not found")
		return
	}

	folders, err := s.dir.LoadFolders(r.Context())
	if err != nil {
		s.log.Error("client download: load folders", "error", err)
		writeError(w, http.StatusInternalServerError, "Unable to load file")
		return
	}
	files, err := s.dir.LoadFiles(r.Context())
	if err != nil {
		s.log.Error("client download: load files", "error", err)
		writeError(w, http.StatusInternalServerError, "Unable to load file")
		return
	}

	scope := access.VisibleScope(session.UserID, folders, files)
	file := scope.CanSeeFile(chi.URLParam(r, "id"))
	if file == nil {
		writeError(w, http.StatusNotFound, "File not found")
		return
	}
	serveFile(w, r, file)
}
