package repositories

import (
	"context"

	"github.com/rios0rios0/git-import-commit/internal/domain/entities"
)

// ObjectStore abstracts one content-addressed repository: its object database
// and its named references. Objects are write-once and keyed by content hash,
// so writing an object that already exists is harmless.
type ObjectStore interface {
	// Lookup returns the object stored under hash with the expected kind.
	// A missing object yields an error wrapping entities.ErrNotFound.
	Lookup(ctx context.Context, hash entities.Hash, kind entities.ObjectKind) (*entities.Object, error)

	// Contains reports whether an object of the given kind exists. Not-found
	// is absorbed; any other failure is returned.
	Contains(ctx context.Context, hash entities.Hash, kind entities.ObjectKind) (bool, error)

	WriteTree(ctx context.Context, entries []entities.TreeEntry) (entities.Hash, error)
	WriteBlob(ctx context.Context, data []byte) (entities.Hash, error)
	WriteCommit(ctx context.Context, input entities.CommitInput) (entities.Hash, error)

	// ResolveReference follows symbolic references down to a commit hash.
	ResolveReference(ctx context.Context, name string) (entities.Hash, error)

	// UpdateReference points name at newHash. When oldHash is not zero the
	// update only succeeds if the reference still points at oldHash.
	UpdateReference(ctx context.Context, name string, newHash, oldHash entities.Hash) error

	// LookupCommitByPrefix finds the single commit whose hash starts with the
	// given hex prefix. It fails with ErrNotFound or ErrAmbiguous.
	LookupCommitByPrefix(ctx context.Context, hexPrefix string) (*entities.Commit, error)

	Close() error
}
