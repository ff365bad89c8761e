package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oriongle/portal-server/internal/directory"
)

func folderIDs(fs []*directory.Folder) []string {
	ids := make([]string, 0, len(fs))
	for _, f := range fs {
		ids = append(ids, f.ID)
	}
	return ids
}

func fileIDs(fs []*directory.File) []string {
	ids := make([]string, 0, len(fs))
	for _, f := range fs {
		ids = append(ids, f.ID)
	}
	return ids
}

func TestVisibleScopeGrantPropagatesToDescendants(t *testing.T) {
	folders := []*directory.Folder{
		{ID: "a", Name: "A", AllowedUserIDs: []string{"u1"}},
		{ID: "b", Name: "B", ParentID: "a"},
		{ID: "c", Name: "C", ParentID: "b"},
		{ID: "x", Name: "X"}, // ungranted shared root
	}
	files := []*directory.File{
		{ID: "f-a", FileName: "a.pdf", FolderID: "a", ContentBase64: "eA=="},
		{ID: "f-c", FileName: "c.pdf", FolderID: "c", ContentBase64: "eA=="},
		{ID: "f-x", FileName: "x.pdf", FolderID: "x", ContentBase64: "eA=="},
	}

	scope := VisibleScope("u1", folders, files)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, folderIDs(scope.Folders))
	assert.ElementsMatch(t, []string{"f-a", "f-c"}, fileIDs(scope.Files))

	// A user without the grant sees nothing in the shared tree.
	other := VisibleScope("u2", folders, files)
	assert.Empty(t, other.Folders)
	assert.Empty(t, other.Files)
}

func TestVisibleScopeMidTreeGrant(t *testing.T) {
	folders := []*directory.Folder{
		{ID: "root", Name: "Root"},
		{ID: "mid", Name: "Mid", ParentID: "root", AllowedUserIDs: []string{"u1"}},
		{ID: "leaf", Name: "Leaf", ParentID: "mid"},
	}

	scope := VisibleScope("u1", folders, nil)
	// The grant covers the folder and its subtree, never its ancestors.
	assert.ElementsMatch(t, []string{"mid", "leaf"}, folderIDs(scope.Folders))
}

func TestVisibleScopePrivateAlwaysVisible(t *testing.T) {
	folders := []*directory.Folder{
		{ID: "mine", Name: "Mine", OwnerID: "u1"},
		{ID: "theirs", Name: "Theirs", OwnerID: "u2"},
	}
	files := []*directory.File{
		{ID: "f-mine", FileName: "m.pdf", OwnerID: "u1", ContentBase64: "eA=="},
		{ID: "f-mine-unfiled", FileName: "n.pdf", OwnerID: "u1", ContentBase64: "eA=="},
		{ID: "f-theirs", FileName: "t.pdf", OwnerID: "u2", ContentBase64: "eA=="},
	}

	scope := VisibleScope("u1", folders, files)
	assert.ElementsMatch(t, []string{"mine"}, folderIDs(scope.Folders))
	assert.ElementsMatch(t, []string{"f-mine", "f-mine-unfiled"}, fileIDs(scope.Files))
}

func TestVisibleScopeUnfiledSharedFileHidden(t *testing.T) {
	folders := []*directory.Folder{
		{ID: "a", Name: "A", AllowedUserIDs: []string{"u1"}},
	}
	files := []*directory.File{
		{ID: "f-unfiled", FileName: "u.pdf", ContentBase64: "eA=="},
	}

	scope := VisibleScope("u1", folders, files)
	assert.Empty(t, fileIDs(scope.Files))
}

func TestVisibleScopeCycleTerminates(t *testing.T) {
	folders := []*directory.Folder{
		{ID: "a", Name: "A", ParentID: "b", AllowedUserIDs: []string{"u1"}},
		{ID: "b", Name: "B", ParentID: "a"},
	}

	scope := VisibleScope("u1", folders, nil)
	assert.ElementsMatch(t, []string{"a", "b"}, folderIDs(scope.Folders))
}

func TestCanSeeFile(t *testing.T) {
	files := []*directory.File{
		{ID: "f1", FileName: "one.pdf", OwnerID: "u1", ContentBase64: "eA=="},
	}
	scope := VisibleScope("u1", nil, files)

	require.NotNil(t, scope.CanSeeFile("f1"))
	assert.Nil(t, scope.CanSeeFile("f2"))
}

func TestSubtree(t *testing.T) {
	folders := []*directory.Folder{
		{ID: "a", Name: "A"},
		{ID: "b", Name: "B", ParentID: "a"},
		{ID: "c", Name: "C", ParentID: "b"},
		{ID: "d", Name: "D"},
	}

	got := Subtree(folders, "a")
	assert.Equal(t, map[string]bool{"a": true, "b": true, "c": true}, got)

	leaf := Subtree(folders, "c")
	assert.Equal(t, map[string]bool{"c": true}, leaf)
}
