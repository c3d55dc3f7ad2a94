package gitstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/storage/filesystem"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/git-import-commit/internal/domain/repositories"
)

// GitRepositoryOpener opens repositories from disk. It accepts a git
// directory (bare repository or a ".git" folder) as well as a work tree.
type GitRepositoryOpener struct{}

var _ repositories.RepositoryOpener = (*GitRepositoryOpener)(nil)

// NewGitRepositoryOpener creates a new GitRepositoryOpener.
func NewGitRepositoryOpener() *GitRepositoryOpener {
	return &GitRepositoryOpener{}
}

// Open returns an ObjectStore for the repository at path.
func (it *GitRepositoryOpener) Open(ctx context.Context, path string) (repositories.ObjectStore, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if isGitDir(path) {
		logger.Debugf("Opening git directory %s", path)
		storage := filesystem.NewStorage(osfs.New(path), cache.NewObjectLRUDefault())
		return NewGitObjectStore(storage), nil
	}

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository: %w", err)
	}
	logger.Debugf("Opened work tree repository %s", path)

	return NewGitObjectStore(repo.Storer), nil
}

// isGitDir reports whether path itself holds HEAD and an objects directory.
func isGitDir(path string) bool {
	if info, err := os.Stat(filepath.Join(path, "HEAD")); err != nil || info.IsDir() {
		return false
	}
	info, err := os.Stat(filepath.Join(path, "objects"))
	return err == nil && info.IsDir()
}
