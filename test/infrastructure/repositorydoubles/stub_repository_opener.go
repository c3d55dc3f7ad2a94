//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"fmt"

	"github.com/rios0rios0/git-import-commit/internal/domain/repositories"
)

// StubRepositoryOpener implements repositories.RepositoryOpener with a fixed
// path to store mapping.
type StubRepositoryOpener struct {
	Stores  map[string]repositories.ObjectStore
	OpenErr error
	// spy: paths requested, in call order
	OpenedPaths []string
}

var _ repositories.RepositoryOpener = (*StubRepositoryOpener)(nil)

func (s *StubRepositoryOpener) Open(_ context.Context, path string) (repositories.ObjectStore, error) {
	s.OpenedPaths = append(s.OpenedPaths, path)
	if s.OpenErr != nil {
		return nil, s.OpenErr
	}
	store, ok := s.Stores[path]
	if !ok {
		return nil, fmt.Errorf("repository not found: %s", path)
	}
	return store, nil
}
