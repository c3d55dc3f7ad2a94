//go:build integration || unit || test

// Package repositorydoubles provides test doubles (spies, stubs, dummies) for
// repository interfaces. These are hand-crafted implementations, no mock frameworks.
package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"sync"

	"github.com/rios0rios0/git-import-commit/internal/domain/entities"
	"github.com/rios0rios0/git-import-commit/internal/domain/repositories"
)

// SpyObjectStore implements repositories.ObjectStore by forwarding to a real
// store while recording writes. Setting one of the *Err fields makes the
// matching method fail without reaching the delegate.
type SpyObjectStore struct {
	Delegate repositories.ObjectStore

	// --- Contains ---
	ContainsErr error

	// --- Lookup ---
	LookupErr error

	// --- WriteTree / WriteBlob / WriteCommit ---
	WriteTreeErr   error
	WriteBlobErr   error
	WriteCommitErr error
	// FailBlobAfter lets that many blob writes succeed before WriteBlobErr
	// is returned. Zero fails the first write.
	FailBlobAfter int

	// --- UpdateReference ---
	UpdateRefErr error

	// --- Close ---
	CloseErr error

	mu sync.Mutex
	// spy: hashes written, in call order
	WrittenTrees   []entities.Hash
	WrittenBlobs   []entities.Hash
	WrittenCommits []entities.Hash
	// spy: reference updates received
	RefUpdates []RefUpdate
	CloseCalls int
}

// RefUpdate records a single invocation of UpdateReference.
type RefUpdate struct {
	Name    string
	NewHash entities.Hash
	OldHash entities.Hash
}

var _ repositories.ObjectStore = (*SpyObjectStore)(nil)

// NewSpyObjectStore wraps delegate.
func NewSpyObjectStore(delegate repositories.ObjectStore) *SpyObjectStore {
	return &SpyObjectStore{Delegate: delegate}
}

// Writes returns the total number of objects written so far.
func (s *SpyObjectStore) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.WrittenTrees) + len(s.WrittenBlobs) + len(s.WrittenCommits)
}

// BlobWrites returns how many times each blob hash was written.
func (s *SpyObjectStore) BlobWrites() map[entities.Hash]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[entities.Hash]int, len(s.WrittenBlobs))
	for _, hash := range s.WrittenBlobs {
		counts[hash]++
	}
	return counts
}

func (s *SpyObjectStore) Lookup(
	ctx context.Context,
	hash entities.Hash,
	kind entities.ObjectKind,
) (*entities.Object, error) {
	if s.LookupErr != nil {
		return nil, s.LookupErr
	}
	return s.Delegate.Lookup(ctx, hash, kind)
}

func (s *SpyObjectStore) Contains(
	ctx context.Context,
	hash entities.Hash,
	kind entities.ObjectKind,
) (bool, error) {
	if s.ContainsErr != nil {
		return false, s.ContainsErr
	}
	return s.Delegate.Contains(ctx, hash, kind)
}

func (s *SpyObjectStore) WriteTree(ctx context.Context, entries []entities.TreeEntry) (entities.Hash, error) {
	if s.WriteTreeErr != nil {
		return entities.ZeroHash, s.WriteTreeErr
	}
	hash, err := s.Delegate.WriteTree(ctx, entries)
	if err == nil {
		s.mu.Lock()
		s.WrittenTrees = append(s.WrittenTrees, hash)
		s.mu.Unlock()
	}
	return hash, err
}

func (s *SpyObjectStore) WriteBlob(ctx context.Context, data []byte) (entities.Hash, error) {
	s.mu.Lock()
	if s.WriteBlobErr != nil && len(s.WrittenBlobs) >= s.FailBlobAfter {
		s.mu.Unlock()
		return entities.ZeroHash, s.WriteBlobErr
	}
	s.mu.Unlock()

	hash, err := s.Delegate.WriteBlob(ctx, data)
	if err == nil {
		s.mu.Lock()
		s.WrittenBlobs = append(s.WrittenBlobs, hash)
		s.mu.Unlock()
	}
	return hash, err
}

func (s *SpyObjectStore) WriteCommit(ctx context.Context, input entities.CommitInput) (entities.Hash, error) {
	if s.WriteCommitErr != nil {
		return entities.ZeroHash, s.WriteCommitErr
	}
	hash, err := s.Delegate.WriteCommit(ctx, input)
	if err == nil {
		s.mu.Lock()
		s.WrittenCommits = append(s.WrittenCommits, hash)
		s.mu.Unlock()
	}
	return hash, err
}

func (s *SpyObjectStore) ResolveReference(ctx context.Context, name string) (entities.Hash, error) {
	return s.Delegate.ResolveReference(ctx, name)
}

func (s *SpyObjectStore) UpdateReference(
	ctx context.Context,
	name string,
	newHash, oldHash entities.Hash,
) error {
	s.mu.Lock()
	s.RefUpdates = append(s.RefUpdates, RefUpdate{Name: name, NewHash: newHash, OldHash: oldHash})
	s.mu.Unlock()
	if s.UpdateRefErr != nil {
		return s.UpdateRefErr
	}
	return s.Delegate.UpdateReference(ctx, name, newHash, oldHash)
}

func (s *SpyObjectStore) LookupCommitByPrefix(ctx context.Context, hexPrefix string) (*entities.Commit, error) {
	return s.Delegate.LookupCommitByPrefix(ctx, hexPrefix)
}

func (s *SpyObjectStore) Close() error {
	s.mu.Lock()
	s.CloseCalls++
	s.mu.Unlock()
	if s.CloseErr != nil {
		return s.CloseErr
	}
	return s.Delegate.Close()
}
