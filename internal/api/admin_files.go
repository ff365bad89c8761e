package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/oriongle/portal-server/internal/access"
	"github.com/oriongle/portal-server/internal/auth"
	"github.com/oriongle/portal-server/internal/directory"
	"github.com/oriongle/portal-server/internal/middleware"
)

// fileView is a file record without its payload; listings stay small even
// when the collection holds megabytes of base64.
type fileView struct {
	ID         string `json:"id"`
	Title      string `json:"title,omitempty"`
	FileName   string `json:"fileName"`
	MimeType   string `json:"mimeType,omitempty"`
	Size       int64  `json:"size"`
	Notes      string `json:"notes,omitempty"`
	FolderID   string `json:"folderId,omitempty"`
	OwnerID    string `json:"userId,omitempty"`
	CreatedAt  string `json:"createdAt,omitempty"`
	UploadedBy string `json:"uploadedBy,omitempty"`
}

func sanitizeFile(f *directory.File) fileView {
	return fileView{
		ID:         f.ID,
		Title:      f.Title,
		FileName:   f.FileName,
		MimeType:   f.MimeType,
		Size:       f.Size,
		Notes:      f.Notes,
		FolderID:   f.FolderID,
		OwnerID:    f.OwnerID,
		CreatedAt:  f.CreatedAt,
		UploadedBy: f.UploadedBy,
	}
}

// AdminListFiles lists folders and files in one owner scope: the shared tree
// by default, or a single user's private tree when userId is given. An
// optional folderId narrows the file list to one folder.
func (s *Server) AdminListFiles(w http.ResponseWriter, r *http.Request) {
	ownerID := strings.TrimSpace(r.URL.Query().Get("userId"))
	folderID := strings.TrimSpace(r.URL.Query().Get("folderId"))

	folders, err := s.dir.LoadFolders(r.Context())
	if err != nil {
		s.log.Error("admin list files: load folders", "error", err)
		writeError(w, http.StatusInternalServerError, "Unable to load files")
		return
	}
	files, err := s.dir.LoadFiles(r.Context())
	if err != nil {
		s.log.Error("admin list files: load files", "error", err)
		writeError(w, http.StatusInternalServerError, "Unable to load files")
		return
	}

	scopedFolders := directory.ScopedFolders(folders, ownerID)
	folderViews := make([]*directory.Folder, 0, len(scopedFolders))
	folderViews = append(folderViews, scopedFolders...)

	fileViews := make([]fileView, 0, len(files))
	for _, f := range files {
		if f.OwnerID != ownerID {
			continue
		}
		if folderID != "" && f.FolderID != folderID {
			continue
		}
		fileViews = append(fileViews, sanitizeFile(f))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"folders": folderViews,
		"files":   fileViews,
	})
}

type uploadFileRequest struct {
	Title         string `json:"title"`
	FileName      string `json:"fileName"`
	MimeType      string `json:"mimeType"`
	Notes         string `json:"notes"`
	FolderID      string `json:"folderId"`
	OwnerID       string `json:"userId"`
	ContentBase64 string `json:"contentBase64"`
}

// AdminUploadFile stores a new file in the shared tree or a user's private
// tree. The payload is validated and size-capped before anything is written.
func (s *Server) AdminUploadFile(w http.ResponseWriter, r *http.Request) {
	var req uploadFileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBodyError(w, err)
		return
	}
	if strings.TrimSpace(req.FileName) == "" {
		writeError(w, http.StatusBadRequest, "File name is required")
		return
	}

	content, err := directory.DecodeContent(req.ContentBase64)
	if err != nil {
		if err == directory.ErrFileTooLarge {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File exceeds the %d MB limit", directory.MaxFileBytes>>20))
			return
		}
		writeError(w, http.StatusBadRequest, "File content is invalid")
		return
	}

	folders, err := s.dir.LoadFolders(r.Context())
	if err != nil {
		s.log.Error("admin upload: load folders", "error", err)
		writeError(w, http.StatusInternalServerError, "Unable to upload file")
		return
	}
	files, err := s.dir.LoadFiles(r.Context())
	if err != nil {
		s.log.Error("admin upload: load files", "error", err)
		writeError(w, http.StatusInternalServerError, "Unable to upload file")
		return
	}

	ownerID := strings.TrimSpace(req.OwnerID)
	scoped := directory.ScopedFolders(folders, ownerID)

	uploadedBy := ""
	if session := middleware.SessionFromContext(r.Context()); session != nil {
		uploadedBy = session.Email
	}

	file := &directory.File{
		ID:            directory.NewFileID(),
		Title:         strings.TrimSpace(req.Title),
		FileName:      strings.TrimSpace(req.FileName),
		MimeType:      strings.TrimSpace(req.MimeType),
		Size:          int64(len(content)),
		Notes:         req.Notes,
		FolderID:      directory.ResolveParentID(scoped, strings.TrimSpace(req.FolderID)),
		OwnerID:       ownerID,
		ContentBase64: req.ContentBase64,
		CreatedAt:     auth.FormatTime(s.now()),
		UploadedBy:    uploadedBy,
	}
	files = append(files, file)

	if err := s.dir.SaveFiles(r.Context(), files); err != nil {
		s.log.Error("admin upload: persist", "error", err)
		writeError(w, http.StatusInternalServerError, "Unable to upload file")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"ok": true, "file": sanitizeFile(file)})
}

// AdminDownloadFile streams a stored file. ?inline=1 asks the browser to
// render rather than download.
func (s *Server) AdminDownloadFile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	files, err := s.dir.LoadFiles(r.Context())
	if err != nil {
		s.log.Error("admin download: load files", "error", err)
		writeError(w, http.StatusInternalServerError, "Unable to load file")
		return
	}
	for _, f := range files {
		if f.ID == id {
			serveFile(w, r, f)
			return
		}
	}
	writeError(w, http.StatusNotFound, "File not found")
}

func serveFile(w http.ResponseWriter, r *http.Request, f *directory.File) {
	content, err := f.Content()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Stored file content is invalid")
		return
	}

	mimeType := f.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	disposition := "attachment"
	if r.URL.Query().Get("inline") == "1" {
		disposition = "inline"
	}
	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`%s; filename="%s"`, disposition, strings.ReplaceAll(f.FileName, `"`, "")))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(content)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}

type updateFileRequest struct {
	Title    *string `json:"title"`
	FileName *string `json:"fileName"`
	Notes    *string `json:"notes"`
	FolderID *string `json:"folderId"`
}

// AdminUpdateFile edits a file's metadata or moves it to another folder
// within the same owner scope. The payload itself is immutable; replacing
// content means uploading a new file.
func (s *Server) AdminUpdateFile(w http.ResponseWriter, r *http.Request) {
	var req updateFileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBodyError(w, err)
		return
	}

	files, err := s.dir.LoadFiles(r.Context())
	if err != nil {
		s.log.Error("admin update file: load files", "error", err)
		writeError(w, http.StatusInternalServerError, "Unable to update file")
		return
	}

	var file *directory.File
	for _, f := range files {
		if f.ID == chi.URLParam(r, "id") {
			file = f
			break
		}
	}
	if file == nil {
		writeError(w, http.StatusNotFound, "File not found")
		return
	}

	if req.Title != nil {
		file.Title = strings.TrimSpace(*req.Title)
	}
	if req.FileName != nil {
		name := strings.TrimSpace(*req.FileName)
		if name == "" {
			writeError(w, http.StatusBadRequest, "File name is required")
			return
		}
		file.FileName = name
	}
	if req.Notes != nil {
		file.Notes = *req.Notes
	}
	if req.FolderID != nil {
		folders, err := s.dir.LoadFolders(r.Context())
		if err != nil {
			s.log.Error("admin update file: load folders", "error", err)
			writeError(w, http.StatusInternalServerError, "Unable to update file")
			return
		}
		scoped := directory.ScopedFolders(folders, file.OwnerID)
		file.FolderID = directory.ResolveParentID(scoped, strings.TrimSpace(*req.FolderID))
	}

	if err := s.dir.SaveFiles(r.Context(), files); err != nil {
		s.log.Error("admin update file: persist", "error", err)
		writeError(w, http.StatusInternalServerError, "Unable to update file")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "file": sanitizeFile(file)})
}

// AdminDeleteFile removes a file. The caller must name the scope it believes
// the file lives in; a mismatch is treated as not found so a stale console
// cannot delete across scopes.
func (s *Server) AdminDeleteFile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ownerID := strings.TrimSpace(r.URL.Query().Get("userId"))

	files, err := s.dir.LoadFiles(r.Context())
	if err != nil {
		s.log.Error("admin delete file: load files", "error", err)
		writeError(w, http.StatusInternalServerError, "Unable to delete file")
		return
	}

	found := false
	remaining := make([]*directory.File, 0, len(files))
	for _, f := range files {
		if f.ID == id && f.OwnerID == ownerID {
			found = true
			continue
		}
		remaining = append(remaining, f)
	}
	if !found {
		writeError(w, http.StatusNotFound, "File not found")
		return
	}

	if err := s.dir.SaveFiles(r.Context(), remaining); err != nil {
		s.log.Error("admin delete file: persist", "error", err)
		writeError(w, http.StatusInternalServerError, "Unable to delete file")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

type createFolderRequest struct {
	Name     string `json:"name"`
	ParentID string `json:"parentId"`
	OwnerID  string `json:"userId"`
}

// AdminCreateFolder creates a folder in the shared tree or a user's private
// tree. Names must be unique (case-insensitively) among siblings.
func (s *Server) AdminCreateFolder(w http.ResponseWriter, r *http.Request) {
	var req createFolderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBodyError(w, err)
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "Folder name is required")
		return
	}

	folders, err := s.dir.LoadFolders(r.Context())
	if err != nil {
		s.log.Error("admin create folder: load folders", "error", err)
		writeError(w, http.StatusInternalServerError, "Unable to create folder")
		return
	}

	ownerID := strings.TrimSpace(req.OwnerID)
	scoped := directory.ScopedFolders(folders, ownerID)
	parentID := directory.ResolveParentID(scoped, strings.TrimSpace(req.ParentID))
	if directory.FolderNameTaken(scoped, parentID, name) {
		writeError(w, http.StatusConflict, "A folder with that name already exists here")
		return
	}

	createdBy := ""
	if session := middleware.SessionFromContext(r.Context()); session != nil {
		createdBy = session.Email
	}

	folder := &directory.Folder{
		ID:        directory.NewFolderID(),
		Name:      name,
		OwnerID:   ownerID,
		ParentID:  parentID,
		CreatedAt: auth.FormatTime(s.now()),
		CreatedBy: createdBy,
	}
	folders = append(folders, folder)

	if err := s.dir.SaveFolders(r.Context(), folders); err != nil {
		s.log.Error("admin create folder: persist", "error", err)
		writeError(w, http.StatusInternalServerError, "Unable to create folder")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"ok": true, "folder": folder})
}

type updateFolderRequest struct {
	Name           *string   `json:"name"`
	AllowedUserIDs *[]string `json:"allowedUserIds"`
}

// AdminUpdateFolder renames a folder and/or replaces its access grants.
// Grants apply only to shared folders; a grant on a private folder is
// meaningless and rejected.
func (s *Server) AdminUpdateFolder(w http.ResponseWriter, r *http.Request) {
	var req updateFolderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBodyError(w, err)
		return
	}

	folders, err := s.dir.LoadFolders(r.Context())
	if err != nil {
		s.log.Error("admin update folder: load folders", "error", err)
		writeError(w, http.StatusInternalServerError, "Unable to update folder")
		return
	}

	var folder *directory.Folder
	for _, f := range folders {
		if f.ID == chi.URLParam(r, "id") {
			folder = f
			break
		}
	}
	if folder == nil {
		writeError(w, http.StatusNotFound, "Folder not found")
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			writeError(w, http.StatusBadRequest, "Folder name is required")
			return
		}
		scoped := directory.ScopedFolders(folders, folder.OwnerID)
		siblings := make([]*directory.Folder, 0, len(scoped))
		for _, f := range scoped {
			if f.ID != folder.ID {
				siblings = append(siblings, f)
			}
		}
		if directory.FolderNameTaken(siblings, folder.ParentID, name) {
			writeError(w, http.StatusConflict, "A folder with that name already exists here")
			return
		}
		folder.Name = name
	}

	if req.AllowedUserIDs != nil {
		if !folder.Shared() {
			writeError(w, http.StatusBadRequest, "Access grants apply to shared folders only")
			return
		}
		var allowed []string
		for _, id := range *req.AllowedUserIDs {
			if id = strings.TrimSpace(id); id != "" {
				allowed = append(allowed, id)
			}
		}
		folder.AllowedUserIDs = allowed
	}

	if err := s.dir.SaveFolders(r.Context(), folders); err != nil {
		s.log.Error("admin update folder: persist", "error", err)
		writeError(w, http.StatusInternalServerError, "Unable to update folder")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "folder": folder})
}

// AdminDeleteFolder removes a folder and its entire subtree within the same
// owner scope. Files filed in the removed folders survive as unfiled so no
// payload is silently destroyed by a folder cleanup.
func (s *Server) AdminDeleteFolder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	folders, err := s.dir.LoadFolders(r.Context())
	if err != nil {
		s.log.Error("admin delete folder: load folders", "error", err)
		writeError(w, http.StatusInternalServerError, "Unable to delete folder")
		return
	}

	var folder *directory.Folder
	for _, f := range folders {
		if f.ID == id {
			folder = f
			break
		}
	}
	if folder == nil {
		writeError(w, http.StatusNotFound, "Folder not found")
		return
	}

	scoped := directory.ScopedFolders(folders, folder.OwnerID)
	doomed := access.Subtree(scoped, folder.ID)

	remaining := make([]*directory.Folder, 0, len(folders))
	for _, f := range folders {
		if f.OwnerID == folder.OwnerID && doomed[f.ID] {
			continue
		}
		remaining = append(remaining, f)
	}
	if err := s.dir.SaveFolders(r.Context(), remaining); err != nil {
		s.log.Error("admin delete folder: persist folders", "error", err)
		writeError(w, http.StatusInternalServerError, "Unable to delete folder")
		return
	}

	files, err := s.dir.LoadFiles(r.Context())
	if err != nil {
		s.log.Error("admin delete folder: load files", "error", err)
		writeError(w, http.StatusInternalServerError, "Unable to delete folder")
		return
	}
	changed := false
	for _, f := range files {
		if f.OwnerID == folder.OwnerID && doomed[f.FolderID] {
			f.FolderID = ""
			changed = true
		}
	}
	if changed {
		if err := s.dir.SaveFiles(r.Context(), files); err != nil {
			s.log.Error("admin delete folder: unfile files", "error", err)
			writeError(w, http.StatusInternalServerError, "Unable to delete folder")
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
