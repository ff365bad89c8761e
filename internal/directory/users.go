// Package directory persists the portal collections (users, folders and
// files) as JSON arrays in the key-value store. Each collection is loaded
// whole, mutated in memory and saved whole; there is no merge or optimistic
// concurrency, concurrent writers race under last-writer-wins.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/oriongle/portal-server/internal/auth"
	"github.com/oriongle/portal-server/internal/store"
)

// Collection keys. Versioned so a future format change can migrate by
// writing under a new key.
const (
	usersKey   = "portal_users_v1"
	foldersKey = "portal_file_folders_v1"
	filesKey   = "portal_files_v1"
)

// Directory reads and writes the portal collections. A nil store means the
// portal runs without a configured backend: loads return empty enabled=false
// sets and saves fail with store.ErrNotConfigured.
type Directory struct {
	kv store.Store
}

// New builds a Directory over the given store, which may be nil.
func New(kv store.Store) *Directory {
	return &Directory{kv: kv}
}

// Enabled reports whether a backing store is configured.
func (d *Directory) Enabled() bool {
	return d.kv != nil
}

// UserSet is the loaded user collection plus whether the store backing it is
// configured at all.
type UserSet struct {
	Enabled bool
	Users   []*auth.User
}

// FindByID returns the user with the given id, or nil.
func (s *UserSet) FindByID(id string) *auth.User {
	for _, u := range s.Users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

// FindActiveByEmail returns the first active user matching the email
// case-insensitively, or nil.
func (s *UserSet) FindActiveByEmail(email string) *auth.User {
	for _, u := range s.Users {
		if u.IsActive() && u.EmailMatches(email) {
			return u
		}
	}
	return nil
}

// EmailInUse reports whether any user other than excludeID already uses the
// email, compared case-insensitively.
func (s *UserSet) EmailInUse(email, excludeID string) bool {
	for _, u := range s.Users {
		if u.ID != excludeID && u.EmailMatches(email) {
			return true
		}
	}
	return false
}

// LoadUsers fetches and decodes the user collection. Entries missing an id,
// email or role are silently dropped; the order of the remaining entries is
// preserved. A corrupt payload yields an empty collection rather than an
// error, matching the store's treatment of data it cannot interpret.
func (d *Directory) LoadUsers(ctx context.Context) (*UserSet, error) {
	if !d.Enabled() {
		return &UserSet{Enabled: false}, nil
	}
	raw, err := d.kv.Get(ctx, usersKey)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	set := &UserSet{Enabled: true}
	if raw == "" {
		return set, nil
	}

	var parsed []*auth.User
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return set, nil
	}
	for _, u := range parsed {
		if u == nil || u.ID == "" || u.Email == "" || u.Role == "" {
			continue
		}
		set.Users = append(set.Users, u)
	}
	return set, nil
}

// SaveUsers overwrites the entire user collection.
func (d *Directory) SaveUsers(ctx context.Context, users []*auth.User) error {
	if !d.Enabled() {
		return store.ErrNotConfigured
	}
	encoded, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}
	if err := d.kv.Set(ctx, usersKey, string(encoded)); err != nil {
		return fmt.Errorf("save users: %w", err)
	}
	return nil
}

// NewUserID mints an opaque user id.
func NewUserID() string {
	return uuid.NewString()
}

// NormalizeEmail lowercases and trims an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
