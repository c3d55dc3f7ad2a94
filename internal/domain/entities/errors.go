package entities

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a store holds no object or reference
	// under the requested key. It drives the copy/skip decision.
	ErrNotFound = errors.New("not found")

	// ErrAmbiguous is returned when a hash prefix matches more than one commit.
	ErrAmbiguous = errors.New("ambiguous hash prefix")

	// ErrRefMoved is returned when a reference no longer points at the
	// expected commit while being updated.
	ErrRefMoved = errors.New("reference moved concurrently")
)

// StoreError wraps an I/O or corruption failure from an object store.
type StoreError struct {
	Op   string
	Hash Hash
	Err  error
}

func (e *StoreError) Error() string {
	if e.Hash.IsZero() {
		return fmt.Sprintf("store %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Hash, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// UnsupportedEntryKindError aborts a copy when a tree entry is neither a
// tree nor a blob.
type UnsupportedEntryKindError struct {
	Name string
	Hash Hash
	Mode FileMode
}

func (e *UnsupportedEntryKindError) Error() string {
	return fmt.Sprintf("unsupported tree entry %q (%s) with mode %o", e.Name, e.Hash, uint32(e.Mode))
}

// HashMismatchError reports a write whose resulting hash differs from the
// hash of the source object.
type HashMismatchError struct {
	Kind     ObjectKind
	Expected Hash
	Actual   Hash
}

func (e *HashMismatchError) Error() string {
	return fmt.Sprintf("%s written as %s, expected %s", e.Kind, e.Actual, e.Expected)
}
