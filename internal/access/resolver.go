// Package access computes which folders and files a portal user may see.
// The result is derived from the collections on every request; grants can
// change between requests, so nothing here is cached.
package access

import (
	"github.com/oriongle/portal-server/internal/directory"
)

// Scope is the set of folders and files visible to one user.
type Scope struct {
	Folders []*directory.Folder
	Files   []*directory.File
}

// VisibleScope resolves visibility for userID. The private scope (owner ==
// userID) is unconditionally visible. Shared folders (empty owner) become
// visible through descendant-inclusive grant propagation: a folder listing
// the user in allowedUserIds grants the folder and its entire shared
// subtree. Shared files are visible only when filed in a visible shared
// folder; unfiled shared files stay hidden.
func VisibleScope(userID string, folders []*directory.Folder, files []*directory.File) *Scope {
	scope := &Scope{}

	shared := directory.ScopedFolders(folders, "")
	visibleShared := make(map[string]bool)
	for _, f := range shared {
		if f.Grants(userID) {
			for id := range Subtree(shared, f.ID) {
				visibleShared[id] = true
			}
		}
	}

	for _, f := range folders {
		if f.OwnerID == userID || (f.Shared() && visibleShared[f.ID]) {
			scope.Folders = append(scope.Folders, f)
		}
	}

	for _, f := range files {
		switch {
		case f.OwnerID == userID:
			scope.Files = append(scope.Files, f)
		case f.OwnerID == "" && f.FolderID != "" && visibleShared[f.FolderID]:
			scope.Files = append(scope.Files, f)
		}
	}

	return scope
}

// CanSeeFile reports whether the file is inside the scope.
func (s *Scope) CanSeeFile(id string) *directory.File {
	for _, f := range s.Files {
		if f.ID == id {
			return f
		}
	}
	return nil
}

// Subtree returns the ids of rootID and every folder reachable from it via
// parent links, restricted to the folders given (callers pre-filter to one
// owner scope). The walk keeps a visited set: parent links come from stored
// data that does not guarantee acyclicity, and an unexpected cycle must not
// hang the request.
func Subtree(scoped []*directory.Folder, rootID string) map[string]bool {
	children := make(map[string][]*directory.Folder, len(scoped))
	for _, f := range scoped {
		children[f.ParentID] = append(children[f.ParentID], f)
	}

	visited := map[string]bool{rootID: true}
	queue := []string{rootID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, child := range children[id] {
			if visited[child.ID] {
				continue
			}
			visited[child.ID] = true
			queue = append(queue, child.ID)
		}
	}
	return visited
}
