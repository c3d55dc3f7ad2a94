//go:build unit

package gitstore_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/git-import-commit/internal/domain/entities"
	"github.com/rios0rios0/git-import-commit/internal/infrastructure/repositories/gitstore"
	"github.com/rios0rios0/git-import-commit/test/domain/entitybuilders"
	"github.com/rios0rios0/git-import-commit/test/infrastructure/repositorydoubles"
)

func TestGitObjectStore_Objects(t *testing.T) {
	t.Parallel()

	t.Run("should store a blob under its git content hash", func(t *testing.T) {
		t.Parallel()

		// given
		store := gitstore.NewMemoryObjectStore()
		data := []byte("hello world\n")

		// when
		hash, err := store.WriteBlob(context.Background(), data)

		// then
		require.NoError(t, err)
		assert.Equal(t, plumbing.ComputeHash(plumbing.BlobObject, data), hash)
		obj, err := store.Lookup(context.Background(), hash, entities.KindBlob)
		require.NoError(t, err)
		assert.Equal(t, entities.KindBlob, obj.Kind)
		assert.Equal(t, data, obj.Blob.Data)
	})

	t.Run("should read back tree entries in stored order with their kinds", func(t *testing.T) {
		t.Parallel()

		// given
		store := gitstore.NewMemoryObjectStore()
		fx := repositorydoubles.NewStoreFixture(t, store)
		link := plumbing.NewHash("4444444444444444444444444444444444444444")

		// when
		tree := fx.Tree(
			fx.File("b.txt", "b\n"),
			fx.Dir("a", fx.File("x", "x\n")),
			fx.Symlink("c", "b.txt"),
			fx.Gitlink("d", link),
		)

		// then
		require.Len(t, tree.Entries, 4)
		names := []string{}
		kinds := []entities.ObjectKind{}
		for _, entry := range tree.Entries {
			names = append(names, entry.Name)
			kinds = append(kinds, entry.Kind)
		}
		assert.Equal(t, []string{"a", "b.txt", "c", "d"}, names)
		assert.Equal(t, []entities.ObjectKind{
			entities.KindTree, entities.KindBlob, entities.KindBlob, entities.KindCommit,
		}, kinds)
		assert.Equal(t, filemode.Symlink, tree.Entries[2].Mode)
		assert.Equal(t, link, tree.Entries[3].Hash)
	})

	t.Run("should report not found for a missing object or a kind mismatch", func(t *testing.T) {
		t.Parallel()

		// given
		store := gitstore.NewMemoryObjectStore()
		blob, err := store.WriteBlob(context.Background(), []byte("only a blob\n"))
		require.NoError(t, err)
		missing := plumbing.NewHash("5555555555555555555555555555555555555555")

		// when
		_, missingErr := store.Lookup(context.Background(), missing, entities.KindBlob)
		_, mismatchErr := store.Lookup(context.Background(), blob, entities.KindTree)
		present, containsErr := store.Contains(context.Background(), missing, entities.KindBlob)

		// then
		require.ErrorIs(t, missingErr, entities.ErrNotFound)
		require.ErrorIs(t, mismatchErr, entities.ErrNotFound)
		require.NoError(t, containsErr)
		assert.False(t, present)
	})

	t.Run("should round trip commit metadata", func(t *testing.T) {
		t.Parallel()

		// given
		store := gitstore.NewMemoryObjectStore()
		fx := repositorydoubles.NewStoreFixture(t, store)
		tree := fx.Tree(fx.File("f", "f\n"))
		parent := plumbing.NewHash("6666666666666666666666666666666666666666")
		input := entitybuilders.NewCommitInputBuilder().
			WithTree(tree.Hash).
			WithParents(parent).
			WithMessage("subject\n\nbody\n").
			WithEncoding("ISO-8859-1").
			BuildCommitInput()

		// when
		commit := fx.Commit(input)

		// then
		assert.Equal(t, input.Message, commit.Message)
		assert.Equal(t, "ISO-8859-1", commit.Encoding)
		assert.Equal(t, input.Author.Name, commit.Author.Name)
		assert.Equal(t, input.Author.Email, commit.Author.Email)
		assert.True(t, input.Author.When.Equal(commit.Author.When))
		assert.Equal(t, tree.Hash, commit.TreeHash)
		assert.Equal(t, []entities.Hash{parent}, commit.ParentHashes)
	})

	t.Run("should fail on an invalid object kind", func(t *testing.T) {
		t.Parallel()

		// given
		store := gitstore.NewMemoryObjectStore()

		// when
		_, err := store.Contains(context.Background(), entities.ZeroHash, entities.KindInvalid)

		// then
		require.Error(t, err)
	})
}

const (
	rawCommitHeader = "tree 4b825dc642cb6eb9a060e54bf8d69288fbee4904\n" +
		"author Ada Author <ada@example.com> 1700000000 +0200\n" +
		"committer Carl Committer <carl@example.com> 1700000060 +0200\n"
	rawCommitMessage = "\nsubject\n\nbody\n"
)

func TestGitObjectStore_CommitEncoding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		header   string
		encoding string
	}{
		{name: "no encoding header", header: "", encoding: ""},
		{name: "explicit UTF-8 header", header: "encoding UTF-8\n", encoding: "UTF-8"},
		{name: "latin-1 header", header: "encoding ISO-8859-1\n", encoding: "ISO-8859-1"},
	}

	for _, tt := range tests {
		t.Run("should round trip a commit with "+tt.name, func(t *testing.T) {
			t.Parallel()

			// given
			storage := memory.NewStorage()
			store := gitstore.NewGitObjectStore(storage)
			source := repositorydoubles.WriteRawCommit(t, storage, rawCommitHeader+tt.header+rawCommitMessage)

			// when
			found, err := store.LookupCommitByPrefix(context.Background(), source.String()[:8])
			require.NoError(t, err)
			rewritten, writeErr := store.WriteCommit(context.Background(), entities.CommitInput{
				Author:       found.Author,
				Committer:    found.Committer,
				Message:      found.Message,
				Encoding:     found.Encoding,
				TreeHash:     found.TreeHash,
				ParentHashes: found.ParentHashes,
			})

			// then
			require.NoError(t, writeErr)
			assert.Equal(t, tt.encoding, found.Encoding)
			assert.Equal(t, source, rewritten)
		})
	}
}

func TestGitObjectStore_LookupCommitByPrefix(t *testing.T) {
	t.Parallel()

	newCommit := func(t *testing.T, fx *repositorydoubles.StoreFixture, message string) *entities.Commit {
		t.Helper()
		return fx.Commit(entitybuilders.NewCommitInputBuilder().
			WithTree(fx.Tree(fx.File("f", "f\n")).Hash).
			WithMessage(message).
			BuildCommitInput())
	}

	t.Run("should find a commit by a short or full case-insensitive id", func(t *testing.T) {
		t.Parallel()

		// given
		store := gitstore.NewMemoryObjectStore()
		commit := newCommit(t, repositorydoubles.NewStoreFixture(t, store), "only\n")
		id := commit.Hash.String()

		for _, prefix := range []string{id[:4], id[:8], id, fmt.Sprintf("%X", commit.Hash[:4])} {
			// when
			found, err := store.LookupCommitByPrefix(context.Background(), prefix)

			// then
			require.NoError(t, err, prefix)
			assert.Equal(t, commit.Hash, found.Hash, prefix)
		}
	})

	t.Run("should reject ids that are too short or not hexadecimal", func(t *testing.T) {
		t.Parallel()

		// given
		store := gitstore.NewMemoryObjectStore()

		for _, prefix := range []string{"abc", "xyz123", "", "0123456789012345678901234567890123456789ab"} {
			// when
			_, err := store.LookupCommitByPrefix(context.Background(), prefix)

			// then
			require.Error(t, err, prefix)
			assert.NotErrorIs(t, err, entities.ErrNotFound, prefix)
		}
	})

	t.Run("should report not found when nothing matches", func(t *testing.T) {
		t.Parallel()

		// given
		store := gitstore.NewMemoryObjectStore()
		commit := newCommit(t, repositorydoubles.NewStoreFixture(t, store), "only\n")
		prefix := "0000"
		if commit.Hash.String()[:4] == prefix {
			prefix = "ffff"
		}

		// when
		_, err := store.LookupCommitByPrefix(context.Background(), prefix)

		// then
		require.ErrorIs(t, err, entities.ErrNotFound)
	})

	t.Run("should report an ambiguous prefix", func(t *testing.T) {
		t.Parallel()

		// given
		store := gitstore.NewMemoryObjectStore()
		fx := repositorydoubles.NewStoreFixture(t, store)
		seen := map[string]bool{}
		shared := ""
		for i := 0; shared == "" && i < 20000; i++ {
			prefix := newCommit(t, fx, fmt.Sprintf("commit %d\n", i)).Hash.String()[:4]
			if seen[prefix] {
				shared = prefix
			}
			seen[prefix] = true
		}
		require.NotEmpty(t, shared)

		// when
		_, err := store.LookupCommitByPrefix(context.Background(), shared)

		// then
		require.ErrorIs(t, err, entities.ErrAmbiguous)
	})
}

func TestGitObjectStore_References(t *testing.T) {
	t.Parallel()

	setup := func(t *testing.T) (*memory.Storage, *gitstore.GitObjectStore, entities.Hash, entities.Hash) {
		t.Helper()
		storage := memory.NewStorage()
		store := gitstore.NewGitObjectStore(storage)
		fx := repositorydoubles.NewStoreFixture(t, store)
		tree := fx.Tree(fx.File("f", "f\n"))
		first := fx.Commit(entitybuilders.NewCommitInputBuilder().WithTree(tree.Hash).WithMessage("one\n").BuildCommitInput())
		second := fx.Commit(entitybuilders.NewCommitInputBuilder().WithTree(tree.Hash).WithMessage("two\n").BuildCommitInput())
		require.NoError(t, storage.SetReference(plumbing.NewHashReference("refs/heads/main", first.Hash)))
		require.NoError(t, storage.SetReference(plumbing.NewSymbolicReference(plumbing.HEAD, "refs/heads/main")))
		return storage, store, first.Hash, second.Hash
	}

	t.Run("should follow symbolic references and bare branch names", func(t *testing.T) {
		t.Parallel()

		// given
		_, store, first, _ := setup(t)

		for _, name := range []string{"HEAD", "refs/heads/main", "main"} {
			// when
			hash, err := store.ResolveReference(context.Background(), name)

			// then
			require.NoError(t, err, name)
			assert.Equal(t, first, hash, name)
		}
	})

	t.Run("should report a missing reference as not found", func(t *testing.T) {
		t.Parallel()

		// given
		_, store, _, _ := setup(t)

		// when
		_, err := store.ResolveReference(context.Background(), "refs/heads/nope")

		// then
		require.ErrorIs(t, err, entities.ErrNotFound)
	})

	t.Run("should move the branch behind a symbolic reference", func(t *testing.T) {
		t.Parallel()

		// given
		storage, store, first, second := setup(t)

		// when
		err := store.UpdateReference(context.Background(), "HEAD", second, first)

		// then
		require.NoError(t, err)
		head, err := storage.Reference(plumbing.HEAD)
		require.NoError(t, err)
		assert.Equal(t, plumbing.SymbolicReference, head.Type())
		main, err := storage.Reference("refs/heads/main")
		require.NoError(t, err)
		assert.Equal(t, second, main.Hash())
	})

	t.Run("should refuse to move a reference that changed", func(t *testing.T) {
		t.Parallel()

		// given
		_, store, first, second := setup(t)
		require.NoError(t, store.UpdateReference(context.Background(), "refs/heads/main", second, first))

		// when
		err := store.UpdateReference(context.Background(), "refs/heads/main", first, first)

		// then
		require.ErrorIs(t, err, entities.ErrRefMoved)
		hash, resolveErr := store.ResolveReference(context.Background(), "main")
		require.NoError(t, resolveErr)
		assert.Equal(t, second, hash)
	})

	t.Run("should create a reference that does not exist yet", func(t *testing.T) {
		t.Parallel()

		// given
		_, store, first, _ := setup(t)

		// when
		err := store.UpdateReference(context.Background(), "refs/heads/new", first, entities.ZeroHash)

		// then
		require.NoError(t, err)
		hash, resolveErr := store.ResolveReference(context.Background(), "new")
		require.NoError(t, resolveErr)
		assert.Equal(t, first, hash)
	})

	t.Run("should stop on a symbolic reference cycle", func(t *testing.T) {
		t.Parallel()

		// given
		storage, store, _, _ := setup(t)
		require.NoError(t, storage.SetReference(plumbing.NewSymbolicReference("refs/heads/loop", "refs/heads/loop")))

		// when
		_, err := store.ResolveReference(context.Background(), "refs/heads/loop")

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "too many levels")
	})
}
