//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"sort"
	"testing"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/git-import-commit/internal/domain/entities"
	"github.com/rios0rios0/git-import-commit/internal/domain/repositories"
)

// StoreFixture populates an ObjectStore with small trees for tests. Every
// helper fails the test on a store error.
type StoreFixture struct {
	t     testing.TB
	store repositories.ObjectStore
}

// NewStoreFixture creates a fixture writing into store.
func NewStoreFixture(t testing.TB, store repositories.ObjectStore) *StoreFixture {
	t.Helper()
	return &StoreFixture{t: t, store: store}
}

// File writes a regular-file blob and returns its tree entry.
func (f *StoreFixture) File(name, content string) entities.TreeEntry {
	f.t.Helper()
	return entities.TreeEntry{Name: name, Mode: filemode.Regular, Hash: f.Blob(content), Kind: entities.KindBlob}
}

// Symlink writes a symlink blob pointing at target and returns its tree entry.
func (f *StoreFixture) Symlink(name, target string) entities.TreeEntry {
	f.t.Helper()
	return entities.TreeEntry{Name: name, Mode: filemode.Symlink, Hash: f.Blob(target), Kind: entities.KindBlob}
}

// Dir writes a tree made of entries and returns its tree entry.
func (f *StoreFixture) Dir(name string, entries ...entities.TreeEntry) entities.TreeEntry {
	f.t.Helper()
	return entities.TreeEntry{Name: name, Mode: filemode.Dir, Hash: f.Tree(entries...).Hash, Kind: entities.KindTree}
}

// Gitlink returns a submodule entry. Nothing is written.
func (f *StoreFixture) Gitlink(name string, commit entities.Hash) entities.TreeEntry {
	return entities.TreeEntry{Name: name, Mode: filemode.Submodule, Hash: commit, Kind: entities.KindCommit}
}

// Blob writes content and returns its hash.
func (f *StoreFixture) Blob(content string) entities.Hash {
	f.t.Helper()
	hash, err := f.store.WriteBlob(context.Background(), []byte(content))
	require.NoError(f.t, err)
	return hash
}

// Tree writes the entries in git order and returns the stored tree.
func (f *StoreFixture) Tree(entries ...entities.TreeEntry) *entities.Tree {
	f.t.Helper()
	sorted := make([]entities.TreeEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sortKey(sorted[i]) < sortKey(sorted[j])
	})

	hash, err := f.store.WriteTree(context.Background(), sorted)
	require.NoError(f.t, err)

	obj, err := f.store.Lookup(context.Background(), hash, entities.KindTree)
	require.NoError(f.t, err)
	return obj.Tree
}

// Commit writes a commit and returns it as read back from the store.
func (f *StoreFixture) Commit(input entities.CommitInput) *entities.Commit {
	f.t.Helper()
	hash, err := f.store.WriteCommit(context.Background(), input)
	require.NoError(f.t, err)

	obj, err := f.store.Lookup(context.Background(), hash, entities.KindCommit)
	require.NoError(f.t, err)
	return obj.Commit
}

// Branch points refName at hash unconditionally.
func (f *StoreFixture) Branch(refName string, hash entities.Hash) {
	f.t.Helper()
	require.NoError(f.t, f.store.UpdateReference(context.Background(), refName, hash, entities.ZeroHash))
}

// WriteRawCommit stores content verbatim as a commit object, bypassing any
// re-encoding, and returns its hash.
func WriteRawCommit(t testing.TB, s storer.EncodedObjectStorer, content string) entities.Hash {
	t.Helper()
	obj := s.NewEncodedObject()
	obj.SetType(plumbing.CommitObject)
	obj.SetSize(int64(len(content)))
	w, err := obj.Writer()
	require.NoError(t, err)
	_, err = w.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	hash, err := s.SetEncodedObject(obj)
	require.NoError(t, err)
	return hash
}

// git orders directories as if their name ended with a slash
func sortKey(entry entities.TreeEntry) string {
	if entry.Mode == filemode.Dir {
		return entry.Name + "/"
	}
	return entry.Name
}
