package gitstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/go-git/go-git/v5/storage"
	"github.com/go-git/go-git/v5/storage/memory"

	"github.com/rios0rios0/git-import-commit/internal/domain/entities"
	"github.com/rios0rios0/git-import-commit/internal/domain/repositories"
)

const (
	minPrefixLength     = 4
	maxSymbolicRefDepth = 10
)

// objectStorer is the part of a go-git storage the adapter needs.
type objectStorer interface {
	storer.EncodedObjectStorer
	storer.ReferenceStorer
}

// GitObjectStore adapts a go-git storage to repositories.ObjectStore.
// go-git storages are not safe for concurrent use, so every call is
// serialized.
type GitObjectStore struct {
	mu     sync.Mutex
	storer objectStorer
}

var _ repositories.ObjectStore = (*GitObjectStore)(nil)

// NewGitObjectStore wraps a go-git storage.
func NewGitObjectStore(s objectStorer) *GitObjectStore {
	return &GitObjectStore{storer: s}
}

// NewMemoryObjectStore returns a store backed by an empty in-memory storage.
func NewMemoryObjectStore() *GitObjectStore {
	return NewGitObjectStore(memory.NewStorage())
}

func (it *GitObjectStore) Lookup(
	ctx context.Context,
	hash entities.Hash,
	kind entities.ObjectKind,
) (*entities.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	objectType, err := toObjectType(kind)
	if err != nil {
		return nil, err
	}

	it.mu.Lock()
	defer it.mu.Unlock()

	encoded, err := it.storer.EncodedObject(objectType, hash)
	if err != nil {
		return nil, translateObjectError("lookup", kind, hash, err)
	}

	switch kind {
	case entities.KindTree:
		tree, decodeErr := object.DecodeTree(it.storer, encoded)
		if decodeErr != nil {
			return nil, &entities.StoreError{Op: "decode tree", Hash: hash, Err: decodeErr}
		}
		return &entities.Object{Kind: kind, Hash: hash, Tree: fromGitTree(tree)}, nil
	case entities.KindBlob:
		data, readErr := readContent(encoded)
		if readErr != nil {
			return nil, &entities.StoreError{Op: "read blob", Hash: hash, Err: readErr}
		}
		return &entities.Object{Kind: kind, Hash: hash, Blob: &entities.Blob{Hash: hash, Data: data}}, nil
	default:
		commit, decodeErr := object.DecodeCommit(it.storer, encoded)
		if decodeErr != nil {
			return nil, &entities.StoreError{Op: "decode commit", Hash: hash, Err: decodeErr}
		}
		// go-git reports UTF-8 for a commit without an encoding header
		raw, readErr := readContent(encoded)
		if readErr != nil {
			return nil, &entities.StoreError{Op: "read commit", Hash: hash, Err: readErr}
		}
		result := fromGitCommit(commit)
		result.Encoding, _ = headerEncoding(raw)
		return &entities.Object{Kind: kind, Hash: hash, Commit: result}, nil
	}
}

func (it *GitObjectStore) Contains(
	ctx context.Context,
	hash entities.Hash,
	kind entities.ObjectKind,
) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	objectType, err := toObjectType(kind)
	if err != nil {
		return false, err
	}

	it.mu.Lock()
	defer it.mu.Unlock()

	_, err = it.storer.EncodedObject(objectType, hash)
	if errors.Is(err, plumbing.ErrObjectNotFound) {
		return false, nil
	}
	if err != nil {
		return false, &entities.StoreError{Op: "lookup " + kind.String(), Hash: hash, Err: err}
	}

	return true, nil
}

func (it *GitObjectStore) WriteTree(ctx context.Context, entries []entities.TreeEntry) (entities.Hash, error) {
	if err := ctx.Err(); err != nil {
		return entities.ZeroHash, err
	}

	tree := &object.Tree{Entries: make([]object.TreeEntry, 0, len(entries))}
	for _, entry := range entries {
		tree.Entries = append(tree.Entries, object.TreeEntry{Name: entry.Name, Mode: entry.Mode, Hash: entry.Hash})
	}

	it.mu.Lock()
	defer it.mu.Unlock()

	obj := it.storer.NewEncodedObject()
	obj.SetType(plumbing.TreeObject)
	if err := tree.Encode(obj); err != nil {
		return entities.ZeroHash, &entities.StoreError{Op: "encode tree", Err: err}
	}

	hash, err := it.storer.SetEncodedObject(obj)
	if err != nil {
		return entities.ZeroHash, &entities.StoreError{Op: "write tree", Hash: obj.Hash(), Err: err}
	}

	return hash, nil
}

func (it *GitObjectStore) WriteBlob(ctx context.Context, data []byte) (entities.Hash, error) {
	if err := ctx.Err(); err != nil {
		return entities.ZeroHash, err
	}

	it.mu.Lock()
	defer it.mu.Unlock()

	obj := it.storer.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)
	if err := writeContent(obj, data); err != nil {
		return entities.ZeroHash, &entities.StoreError{Op: "write blob content", Err: err}
	}

	hash, err := it.storer.SetEncodedObject(obj)
	if err != nil {
		return entities.ZeroHash, &entities.StoreError{Op: "write blob", Hash: obj.Hash(), Err: err}
	}

	return hash, nil
}

func (it *GitObjectStore) WriteCommit(ctx context.Context, input entities.CommitInput) (entities.Hash, error) {
	if err := ctx.Err(); err != nil {
		return entities.ZeroHash, err
	}

	commit := &object.Commit{
		Author:       input.Author,
		Committer:    input.Committer,
		Message:      input.Message,
		Encoding:     object.MessageEncoding(input.Encoding),
		TreeHash:     input.TreeHash,
		ParentHashes: input.ParentHashes,
	}

	encoded := &plumbing.MemoryObject{}
	if err := commit.Encode(encoded); err != nil {
		return entities.ZeroHash, &entities.StoreError{Op: "encode commit", Err: err}
	}
	raw, err := readContent(encoded)
	if err != nil {
		return entities.ZeroHash, &entities.StoreError{Op: "encode commit", Err: err}
	}
	// go-git omits an explicit "encoding UTF-8" header
	if _, found := headerEncoding(raw); !found && input.Encoding != "" {
		raw = spliceEncoding(raw, input.Encoding)
	}

	it.mu.Lock()
	defer it.mu.Unlock()

	obj := it.storer.NewEncodedObject()
	obj.SetType(plumbing.CommitObject)
	if err = writeContent(obj, raw); err != nil {
		return entities.ZeroHash, &entities.StoreError{Op: "encode commit", Err: err}
	}

	hash, err := it.storer.SetEncodedObject(obj)
	if err != nil {
		return entities.ZeroHash, &entities.StoreError{Op: "write commit", Hash: obj.Hash(), Err: err}
	}

	return hash, nil
}

func (it *GitObjectStore) ResolveReference(ctx context.Context, name string) (entities.Hash, error) {
	if err := ctx.Err(); err != nil {
		return entities.ZeroHash, err
	}

	it.mu.Lock()
	defer it.mu.Unlock()

	ref, err := it.resolve(name)
	if err != nil {
		return entities.ZeroHash, err
	}

	return ref.Hash(), nil
}

func (it *GitObjectStore) UpdateReference(
	ctx context.Context,
	name string,
	newHash, oldHash entities.Hash,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	it.mu.Lock()
	defer it.mu.Unlock()

	// a symbolic name such as HEAD moves the branch it points at
	target := plumbing.ReferenceName(name)
	current, err := it.resolve(name)
	switch {
	case err == nil:
		target = current.Name()
	case !errors.Is(err, entities.ErrNotFound):
		return err
	}

	var old *plumbing.Reference
	if !oldHash.IsZero() {
		old = plumbing.NewHashReference(target, oldHash)
	}

	err = it.storer.CheckAndSetReference(plumbing.NewHashReference(target, newHash), old)
	if errors.Is(err, storage.ErrReferenceHasChanged) {
		return fmt.Errorf("%w: %s", entities.ErrRefMoved, target)
	}
	if err != nil {
		return &entities.StoreError{Op: "update reference " + target.String(), Hash: newHash, Err: err}
	}

	return nil
}

func (it *GitObjectStore) LookupCommitByPrefix(ctx context.Context, hexPrefix string) (*entities.Commit, error) {
	prefix := strings.ToLower(strings.TrimSpace(hexPrefix))
	if err := validatePrefix(prefix); err != nil {
		return nil, err
	}

	if len(prefix) == 2*len(entities.ZeroHash) {
		obj, err := it.Lookup(ctx, plumbing.NewHash(prefix), entities.KindCommit)
		if err != nil {
			return nil, err
		}
		return obj.Commit, nil
	}

	hash, err := it.findCommitPrefix(ctx, prefix)
	if err != nil {
		return nil, err
	}

	obj, err := it.Lookup(ctx, hash, entities.KindCommit)
	if err != nil {
		return nil, err
	}

	return obj.Commit, nil
}

func (it *GitObjectStore) findCommitPrefix(ctx context.Context, prefix string) (entities.Hash, error) {
	it.mu.Lock()
	defer it.mu.Unlock()

	iter, err := it.storer.IterEncodedObjects(plumbing.CommitObject)
	if err != nil {
		return entities.ZeroHash, &entities.StoreError{Op: "iterate commits", Err: err}
	}
	defer iter.Close()

	var matches []entities.Hash
	err = iter.ForEach(func(obj plumbing.EncodedObject) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if strings.HasPrefix(obj.Hash().String(), prefix) {
			matches = append(matches, obj.Hash())
			if len(matches) > 1 {
				return storer.ErrStop
			}
		}
		return nil
	})
	if err != nil {
		return entities.ZeroHash, &entities.StoreError{Op: "iterate commits", Err: err}
	}

	switch len(matches) {
	case 0:
		return entities.ZeroHash, fmt.Errorf("%w: commit with prefix %s", entities.ErrNotFound, prefix)
	case 1:
		return matches[0], nil
	default:
		return entities.ZeroHash, fmt.Errorf("%w: %s matches %s and %s", entities.ErrAmbiguous, prefix, matches[0], matches[1])
	}
}

// Close releases pack files held by filesystem storages.
func (it *GitObjectStore) Close() error {
	it.mu.Lock()
	defer it.mu.Unlock()

	if closer, ok := it.storer.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// resolve follows symbolic references. Plain branch names fall back to
// refs/heads/<name>. Callers hold the lock.
func (it *GitObjectStore) resolve(name string) (*plumbing.Reference, error) {
	refName := plumbing.ReferenceName(name)
	ref, err := it.storer.Reference(refName)
	if errors.Is(err, plumbing.ErrReferenceNotFound) && !strings.HasPrefix(name, "refs/") && refName != plumbing.HEAD {
		refName = plumbing.NewBranchReferenceName(name)
		ref, err = it.storer.Reference(refName)
	}

	for depth := 0; err == nil && ref.Type() == plumbing.SymbolicReference; depth++ {
		if depth >= maxSymbolicRefDepth {
			return nil, fmt.Errorf("reference %s: too many levels of symbolic references", name)
		}
		ref, err = it.storer.Reference(ref.Target())
	}

	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return nil, fmt.Errorf("%w: reference %s", entities.ErrNotFound, name)
	}
	if err != nil {
		return nil, &entities.StoreError{Op: "resolve reference " + name, Err: err}
	}

	return ref, nil
}

func validatePrefix(prefix string) error {
	if len(prefix) < minPrefixLength || len(prefix) > 2*len(entities.ZeroHash) {
		return fmt.Errorf("commit id %q must have between %d and %d hex digits", prefix, minPrefixLength, 2*len(entities.ZeroHash))
	}
	for _, c := range prefix {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return fmt.Errorf("commit id %q is not hexadecimal", prefix)
		}
	}
	return nil
}

func toObjectType(kind entities.ObjectKind) (plumbing.ObjectType, error) {
	switch kind {
	case entities.KindBlob:
		return plumbing.BlobObject, nil
	case entities.KindTree:
		return plumbing.TreeObject, nil
	case entities.KindCommit:
		return plumbing.CommitObject, nil
	default:
		return plumbing.InvalidObject, fmt.Errorf("invalid object kind %d", kind)
	}
}

func translateObjectError(op string, kind entities.ObjectKind, hash entities.Hash, err error) error {
	if errors.Is(err, plumbing.ErrObjectNotFound) {
		return fmt.Errorf("%w: %s %s", entities.ErrNotFound, kind, hash)
	}
	return &entities.StoreError{Op: op + " " + kind.String(), Hash: hash, Err: err}
}

func readContent(obj plumbing.EncodedObject) ([]byte, error) {
	r, err := obj.Reader()
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return io.ReadAll(r)
}

func writeContent(obj plumbing.EncodedObject, data []byte) error {
	obj.SetSize(int64(len(data)))
	w, err := obj.Writer()
	if err != nil {
		return err
	}
	if _, err = w.Write(data); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

// headerEncoding returns the value of the "encoding" header of a raw commit.
// Continuation lines (a leading space, as in gpgsig) are skipped.
func headerEncoding(raw []byte) (string, bool) {
	for len(raw) > 0 {
		line := raw
		next := []byte(nil)
		if i := bytes.IndexByte(raw, '\n'); i >= 0 {
			line, next = raw[:i], raw[i+1:]
		}
		if len(line) == 0 {
			break
		}
		if value, ok := bytes.CutPrefix(line, []byte("encoding ")); ok {
			return string(value), true
		}
		raw = next
	}
	return "", false
}

// spliceEncoding inserts an encoding header at the end of the header block.
func spliceEncoding(raw []byte, encoding string) []byte {
	end := bytes.Index(raw, []byte("\n\n"))
	if end < 0 {
		end = len(raw) - 1
	}
	header := "encoding " + encoding + "\n"
	out := make([]byte, 0, len(raw)+len(header))
	out = append(out, raw[:end+1]...)
	out = append(out, header...)
	return append(out, raw[end+1:]...)
}

func fromGitTree(tree *object.Tree) *entities.Tree {
	entries := make([]entities.TreeEntry, 0, len(tree.Entries))
	for _, entry := range tree.Entries {
		entries = append(entries, entities.TreeEntry{
			Name: entry.Name,
			Mode: entry.Mode,
			Hash: entry.Hash,
			Kind: entities.KindFromMode(entry.Mode),
		})
	}
	return &entities.Tree{Hash: tree.Hash, Entries: entries}
}

func fromGitCommit(commit *object.Commit) *entities.Commit {
	return &entities.Commit{
		Hash:         commit.Hash,
		Author:       commit.Author,
		Committer:    commit.Committer,
		Message:      commit.Message,
		Encoding:     string(commit.Encoding),
		TreeHash:     commit.TreeHash,
		ParentHashes: commit.ParentHashes,
	}
}
