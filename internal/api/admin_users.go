package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/oriongle/portal-server/internal/auth"
	"github.com/oriongle/portal-server/internal/directory"
	"github.com/oriongle/portal-server/internal/middleware"
)

// userView is the admin-facing projection of a user record. Password hashes
// and reset token material never leave the server.
type userView struct {
	ID                        string                `json:"id"`
	FullName                  string                `json:"fullName,omitempty"`
	Company                   string                `json:"company,omitempty"`
	Phone                     string                `json:"phone,omitempty"`
	Project                   string                `json:"project,omitempty"`
	Notes                     string                `json:"notes,omitempty"`
	PortalTitle               string                `json:"portalTitle,omitempty"`
	PortalMessage             string                `json:"portalMessage,omitempty"`
	PortalDownloads           []auth.PortalDownload `json:"portalDownloads,omitempty"`
	Email                     string                `json:"email"`
	Role                      string                `json:"role"`
	Active                    bool                  `json:"active"`
	CreatedAt                 string                `json:"createdAt,omitempty"`
	LastLoginAt               string                `json:"lastLoginAt,omitempty"`
	LastPasswordResetAt       string                `json:"lastPasswordResetAt,omitempty"`
	InactivityResetRequiredAt string                `json:"inactivityResetRequiredAt,omitempty"`
	Source                    string                `json:"source,omitempty"`
}

func sanitizeUser(u *auth.User) userView {
	return userView{
		ID:                        u.ID,
		FullName:                  u.FullName,
		Company:                   u.Company,
		Phone:                     u.Phone,
		Project:                   u.Project,
		Notes:                     u.Notes,
		PortalTitle:               u.PortalTitle,
		PortalMessage:             u.PortalMessage,
		PortalDownloads:           u.PortalDownloads,
		Email:                     u.Email,
		Role:                      u.Role,
		Active:                    u.IsActive(),
		CreatedAt:                 u.CreatedAt,
		LastLoginAt:               u.LastLoginAt,
		LastPasswordResetAt:       u.LastPasswordResetAt,
		InactivityResetRequiredAt: u.InactivityResetRequiredAt,
		Source:                    u.Source,
	}
}

// ListUsers returns every directory user plus, when configured, a synthetic
// entry for the environment break-glass admin so the console shows the full
// set of accounts that can log in.
func (s *Server) ListUsers(w http.ResponseWriter, r *http.Request) {
	set, err := s.dir.LoadUsers(r.Context())
	if err != nil {
		s.log.Error("list users", "error", err)
		writeError(w, http.StatusInternalServerError, "Unable to load users")
		return
	}

	views := make([]userView, 0, len(set.Users)+1)
	if s.cfg.AdminEmail != "" && s.cfg.AdminPassword != "" {
		views = append(views, userView{
			ID:     "env-admin",
			Email:  s.cfg.AdminEmail,
			Role:   auth.RoleAdmin,
			Active: true,
			Source: "env",
		})
	}
	for _, u := range set.Users {
		views = append(views, sanitizeUser(u))
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "enabled": set.Enabled, "users": views})
}

type createUserRequest struct {
	FullName        string                `json:"fullName"`
	Company         string                `json:"company"`
	Phone           string                `json:"phone"`
	Project         string                `json:"project"`
	Notes           string                `json:"notes"`
	PortalTitle     string                `json:"portalTitle"`
	PortalMessage   string                `json:"portalMessage"`
	PortalDownloads []auth.PortalDownload `json:"portalDownloads"`
	Email           string                `json:"email"`
	Password        string                `json:"password"`
	Role            string                `json:"role"`
}

// CreateUser adds a directory user. New client accounts with a project get a
// shared project folder created and granted automatically.
func (s *Server) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBodyError(w, err)
		return
	}

	email := directory.NormalizeEmail(req.Email)
	if email == "" {
		writeError(w, http.StatusBadRequest, "Email is required")
		return
	}
	if len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role == "" {
		role = auth.RoleClient
	}
	if !auth.ValidRole(role) {
		writeError(w, http.StatusBadRequest, "Role must be admin or client")
		return
	}

	set, err := s.dir.LoadUsers(r.Context())
	if err != nil {
		s.log.Error("create user: load users", "error", err)
		writeError(w, http.StatusInternalServerError, "Unable to load users")
		return
	}
	if !set.Enabled {
		writeError(w, http.StatusServiceUnavailable, "User directory is not configured")
		return
	}
	if set.EmailInUse(email, "") {
		writeError(w, http.StatusConflict, "A user with that email already exists")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.log.Error("create user: hash password", "error", err)
		writeError(w, http.StatusInternalServerError, "Unable to create user")
		return
	}

	user := &auth.User{
		ID:              directory.NewUserID(),
		FullName:        strings.TrimSpace(req.FullName),
		Company:         strings.TrimSpace(req.Company),
		Phone:           strings.TrimSpace(req.Phone),
		Project:         strings.TrimSpace(req.Project),
		Notes:           req.Notes,
		PortalTitle:     req.PortalTitle,
		PortalMessage:   req.PortalMessage,
		PortalDownloads: req.PortalDownloads,
		Email:           email,
		Role:            role,
		PasswordHash:    hash,
		CreatedAt:       auth.FormatTime(s.now()),
	}
	user.SetActive(true)
	set.Users = append(set.Users, user)

	if err := s.dir.SaveUsers(r.Context(), set.Users); err != nil {
		s.log.Error("create user: persist", "error", err)
		writeError(w, http.StatusInternalServerError, "Unable to create user")
		return
	}

	if role == auth.RoleClient && user.Project != "" {
		if err := s.ensureProjectFolder(r, user); err != nil {
			s.log.Error("create user: project folder", "error", err, "userId", user.ID)
			writeError(w, http.StatusInternalServerError, "Unable to create project folder automatically")
			return
		}
	}

	writeJSON(w, http.StatusCreated, map[string]any{"ok": true, "user": sanitizeUser(user)})
}

// ensureProjectFolder creates (or reuses) a shared root folder named after
// the client's project and grants the client access to it.
func (s *Server) ensureProjectFolder(r *http.Request, user *auth.User) error {
	folders, err := s.dir.LoadFolders(r.Context())
	if err != nil {
		return err
	}

	shared := directory.ScopedFolders(folders, "")
	var folder *directory.Folder
	for _, f := range shared {
		if f.ParentID == "" && strings.EqualFold(f.Name, user.Project) {
			folder = f
			break
		}
	}
	if folder == nil {
		folder = &directory.Folder{
			ID:        directory.NewFolderID(),
			Name:      user.Project,
			CreatedAt: auth.FormatTime(s.now()),
			CreatedBy: "admin",
		}
		folders = append(folders, folder)
	}
	if !folder.Grants(user.ID) {
		folder.AllowedUserIDs = append(folder.AllowedUserIDs, user.ID)
	}
	return s.dir.SaveFolders(r.Context(), folders)
}

type updateUserRequest struct {
	FullName        *string                `json:"fullName"`
	Company         *string                `json:"company"`
	Phone           *string                `json:"phone"`
	Project         *string                `json:"project"`
	Notes           *string                `json:"notes"`
	PortalTitle     *string                `json:"portalTitle"`
	PortalMessage   *string                `json:"portalMessage"`
	PortalDownloads *[]auth.PortalDownload `json:"portalDownloads"`
	Email           *string                `json:"email"`
	Password        *string                `json:"password"`
	Role            *string                `json:"role"`
	Active          *bool                  `json:"active"`
}

// UpdateUser applies a partial update. A password change is recorded as an
// admin reset in the user's audit trail and lifts any pending inactivity
// block.
func (s *Server) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBodyError(w, err)
		return
	}

	set, err := s.dir.LoadUsers(r.Context())
	if err != nil {
		s.log.Error("update user: load users", "error", err)
		writeError(w, http.StatusInternalServerError, "Unable to load users")
		return
	}
	user := set.FindByID(chi.URLParam(r, "id"))
	if user == nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	if req.Email != nil {
		email := directory.NormalizeEmail(*req.Email)
		if email == "" {
			writeError(w, http.StatusBadRequest, "Email is required")
			return
		}
		if set.EmailInUse(email, user.ID) {
			writeError(w, http.StatusConflict, "A user with that email already exists")
			return
		}
		user.Email = email
	}
	if req.Role != nil {
		role := strings.ToLower(strings.TrimSpace(*req.Role))
		if !auth.ValidRole(role) {
			writeError(w, http.StatusBadRequest, "Role must be admin or client")
			return
		}
		user.Role = role
	}
	if req.Password != nil {
		if len(*req.Password) < 8 {
			writeError(w, http.StatusBadRequest, "Password must be at least 8 characters")
			return
		}
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			s.log.Error("update user: hash password", "error", err)
			writeError(w, http.StatusInternalServerError, "Unable to update user")
			return
		}
		now := s.now()
		user.PasswordHash = hash
		user.ResetTokenHash = ""
		user.ResetTokenExpiresAt = ""
		user.InactivityResetRequiredAt = ""
		user.LastPasswordResetAt = auth.FormatTime(now)
		entry := auth.NewAuditEntry(now, auth.AuditActionAdminReset)
		if session := middleware.SessionFromContext(r.Context()); session != nil {
			entry.By = session.Email
		}
		auth.AppendResetAudit(user, entry)
	}

	if req.FullName != nil {
		user.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Company != nil {
		user.Company = strings.TrimSpace(*req.Company)
	}
	if req.Phone != nil {
		user.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Project != nil {
		user.Project = strings.TrimSpace(*req.Project)
	}
	if req.Notes != nil {
		user.Notes = *req.Notes
	}
	if req.PortalTitle != nil {
		user.PortalTitle = *req.PortalTitle
	}
	if req.PortalMessage != nil {
		user.PortalMessage = *req.PortalMessage
	}
	if req.PortalDownloads != nil {
		user.PortalDownloads = *req.PortalDownloads
	}
	if req.Active != nil {
		user.SetActive(*req.Active)
	}

	if err := s.dir.SaveUsers(r.Context(), set.Users); err != nil {
		s.log.Error("update user: persist", "error", err)
		writeError(w, http.StatusInternalServerError, "Unable to update user")
		return
	}

	if user.Role == auth.RoleClient && req.Project != nil && user.Project != "" {
		if err := s.ensureProjectFolder(r, user); err != nil {
			s.log.Error("update user: project folder", "error", err, "userId", user.ID)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "user": sanitizeUser(user)})
}

// DeleteUser removes a directory user and strips their grants from shared
// folders. Their private files and folders remain until deleted explicitly.
func (s *Server) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	set, err := s.dir.LoadUsers(r.Context())
	if err != nil {
		s.log.Error("delete user: load users", "error", err)
		writeError(w, http.StatusInternalServerError, "Unable to load users")
		return
	}
	user := set.FindByID(id)
	if user == nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	remaining := make([]*auth.User, 0, len(set.Users)-1)
	for _, u := range set.Users {
		if u.ID != id {
			remaining = append(remaining, u)
		}
	}
	if err := s.dir.SaveUsers(r.Context(), remaining); err != nil {
		s.log.Error("delete user: persist", "error", err)
		writeError(w, http.StatusInternalServerError, "Unable to delete user")
		return
	}

	if folders, err := s.dir.LoadFolders(r.Context()); err == nil {
		changed := false
		for _, f := range folders {
			if !f.Shared() || !f.Grants(id) {
				continue
			}
			kept := f.AllowedUserIDs[:0]
			for _, uid := range f.AllowedUserIDs {
				if uid != id {
					kept = append(kept, uid)
				}
			}
			f.AllowedUserIDs = kept
			changed = true
		}
		if changed {
			if err := s.dir.SaveFolders(r.Context(), folders); err != nil {
				s.log.Error("delete user: strip grants", "error", err)
			}
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
