package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/oriongle/portal-server/internal/store"
)

// Folder groups files either inside one user's private tree (OwnerID set) or
// in the shared/global tree (OwnerID empty). AllowedUserIDs is meaningful
// only for shared folders; a grant covers the folder and every descendant.
// A ParentID pointing at a folder that no longer exists is treated as root.
type Folder struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	OwnerID        string   `json:"userId,omitempty"`
	ParentID       string   `json:"parentId,omitempty"`
	AllowedUserIDs []string `json:"allowedUserIds"`
	CreatedAt      string   `json:"createdAt,omitempty"`
	CreatedBy      string   `json:"createdBy,omitempty"`
}

// Shared reports whether the folder lives in the shared/global tree.
func (f *Folder) Shared() bool {
	return f.OwnerID == ""
}

// Grants reports whether the folder directly lists userID.
func (f *Folder) Grants(userID string) bool {
	for _, id := range f.AllowedUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// LoadFolders fetches and decodes the folder collection. Entries missing an
// id or name are dropped; allowed-user lists are cleaned of empty ids.
func (d *Directory) LoadFolders(ctx context.Context) ([]*Folder, error) {
	if !d.Enabled() {
		return nil, store.ErrNotConfigured
	}
	raw, err := d.kv.Get(ctx, foldersKey)
	if err != nil {
		return nil, fmt.Errorf("load folders: %w", err)
	}
	if raw == "" {
		return nil, nil
	}

	var parsed []*Folder
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, nil
	}
	var folders []*Folder
	for _, f := range parsed {
		if f == nil || f.ID == "" || f.Name == "" {
			continue
		}
		var allowed []string
		for _, id := range f.AllowedUserIDs {
			if id != "" {
				allowed = append(allowed, id)
			}
		}
		f.AllowedUserIDs = allowed
		folders = append(folders, f)
	}
	return folders, nil
}

// SaveFolders overwrites the entire folder collection.
func (d *Directory) SaveFolders(ctx context.Context, folders []*Folder) error {
	if !d.Enabled() {
		return store.ErrNotConfigured
	}
	encoded, err := json.Marshal(folders)
	if err != nil {
		return fmt.Errorf("encode folders: %w", err)
	}
	if err := d.kv.Set(ctx, foldersKey, string(encoded)); err != nil {
		return fmt.Errorf("save folders: %w", err)
	}
	return nil
}

// NewFolderID mints an opaque folder id.
func NewFolderID() string {
	return uuid.NewString()
}

// ScopedFolders filters folders to one owner scope: a user's private tree,
// or the shared tree when ownerID is empty.
func ScopedFolders(folders []*Folder, ownerID string) []*Folder {
	var scoped []*Folder
	for _, f := range folders {
		if f.OwnerID == ownerID {
			scoped = append(scoped, f)
		}
	}
	return scoped
}

// FolderNameTaken reports whether a folder with the same name (compared
// case-insensitively) already exists under the same parent in the scope.
func FolderNameTaken(scoped []*Folder, parentID, name string) bool {
	for _, f := range scoped {
		if f.ParentID == parentID && strings.EqualFold(f.Name, name) {
			return true
		}
	}
	return false
}

// ResolveParentID validates a requested parent folder id against the scope;
// unknown ids collapse to root.
func ResolveParentID(scoped []*Folder, parentID string) string {
	if parentID == "" {
		return ""
	}
	for _, f := range scoped {
		if f.ID == parentID {
			return parentID
		}
	}
	return ""
}
