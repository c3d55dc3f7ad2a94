package repositories

import "context"

// RepositoryOpener opens an ObjectStore from a filesystem path.
type RepositoryOpener interface {
	Open(ctx context.Context, path string) (ObjectStore, error)
}
