//go:build unit

package gitstore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/git-import-commit/internal/domain/entities"
	"github.com/rios0rios0/git-import-commit/internal/infrastructure/repositories/gitstore"
)

func TestGitRepositoryOpener_Open(t *testing.T) {
	t.Parallel()

	t.Run("should open a work tree and persist written objects", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		_, err := git.PlainInit(dir, false)
		require.NoError(t, err)
		opener := gitstore.NewGitRepositoryOpener()

		store, err := opener.Open(context.Background(), dir)
		require.NoError(t, err)
		hash, err := store.WriteBlob(context.Background(), []byte("persisted\n"))
		require.NoError(t, err)
		require.NoError(t, store.Close())

		// when
		reopened, err := opener.Open(context.Background(), filepath.Join(dir, ".git"))

		// then
		require.NoError(t, err)
		defer reopened.Close()
		present, err := reopened.Contains(context.Background(), hash, entities.KindBlob)
		require.NoError(t, err)
		assert.True(t, present)
	})

	t.Run("should open a bare repository directory", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		_, err := git.PlainInit(dir, true)
		require.NoError(t, err)

		// when
		store, err := gitstore.NewGitRepositoryOpener().Open(context.Background(), dir)

		// then
		require.NoError(t, err)
		defer store.Close()
		_, err = store.ResolveReference(context.Background(), "refs/heads/master")
		require.ErrorIs(t, err, entities.ErrNotFound)
	})

	t.Run("should open a repository from a nested work tree directory", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()
		_, err := git.PlainInit(dir, false)
		require.NoError(t, err)
		nested := filepath.Join(dir, "sub", "dir")
		require.NoError(t, os.MkdirAll(nested, 0o755))

		// when
		store, err := gitstore.NewGitRepositoryOpener().Open(context.Background(), nested)

		// then
		require.NoError(t, err)
		assert.NoError(t, store.Close())
	})

	t.Run("should fail outside of a repository", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()

		// when
		_, err := gitstore.NewGitRepositoryOpener().Open(context.Background(), dir)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open git repository")
	})
}
