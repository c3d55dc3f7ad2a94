package repositories

import (
	"go.uber.org/dig"

	domainRepos "github.com/rios0rios0/git-import-commit/internal/domain/repositories"
	"github.com/rios0rios0/git-import-commit/internal/infrastructure/repositories/gitstore"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	if err := container.Provide(gitstore.NewGitRepositoryOpener); err != nil {
		return err
	}

	// Bind interfaces to implementations
	if err := container.Provide(func(impl *gitstore.GitRepositoryOpener) domainRepos.RepositoryOpener {
		return impl
	}); err != nil {
		return err
	}

	return nil
}
