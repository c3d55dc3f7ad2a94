package entities

import (
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Hash is re-exported from go-git. It is the SHA-1 content hash of an object.
type Hash = plumbing.Hash

// FileMode is re-exported from go-git.
type FileMode = filemode.FileMode

// Signature is re-exported from go-git (name, email and time with zone).
type Signature = object.Signature

// ZeroHash is the empty hash.
var ZeroHash = plumbing.ZeroHash //nolint:gochecknoglobals // re-export

// ObjectKind identifies the variant of an object held by a store.
type ObjectKind int

const (
	KindInvalid ObjectKind = iota
	KindBlob
	KindTree
	KindCommit
)

func (k ObjectKind) String() string {
	switch k {
	case KindBlob:
		return "blob"
	case KindTree:
		return "tree"
	case KindCommit:
		return "commit"
	default:
		return "invalid"
	}
}

const (
	modeTypeMask    = 0o170000
	modeRegularType = 0o100000
)

// KindFromMode derives the kind of object a tree entry points at.
// Symlinks are blobs in git and pass through as opaque content, as do regular
// files with non-canonical permission bits such as 100600 written by old tools.
func KindFromMode(mode FileMode) ObjectKind {
	switch mode {
	case filemode.Dir:
		return KindTree
	case filemode.Submodule:
		return KindCommit
	case filemode.Regular, filemode.Executable, filemode.Deprecated, filemode.Symlink:
		return KindBlob
	default:
		if mode&modeTypeMask == modeRegularType {
			return KindBlob
		}
		return KindInvalid
	}
}

// TreeEntry is one named child of a tree.
type TreeEntry struct {
	Name string
	Mode FileMode
	Hash Hash
	Kind ObjectKind
}

// Tree is an ordered-by-name list of entries. Entries keep the order in which
// the store holds them.
type Tree struct {
	Hash    Hash
	Entries []TreeEntry
}

// Blob is raw file content.
type Blob struct {
	Hash Hash
	Data []byte
}

// Commit is a snapshot record.
type Commit struct {
	Hash         Hash
	Author       Signature
	Committer    Signature
	Message      string
	Encoding     string // empty means UTF-8 assumed
	TreeHash     Hash
	ParentHashes []Hash
}

// CommitInput carries everything needed to write a new commit.
type CommitInput struct {
	Author       Signature
	Committer    Signature
	Message      string
	Encoding     string
	TreeHash     Hash
	ParentHashes []Hash
}

// Object is a tagged variant: exactly one of Tree, Blob or Commit is set,
// matching Kind.
type Object struct {
	Kind   ObjectKind
	Hash   Hash
	Tree   *Tree
	Blob   *Blob
	Commit *Commit
}
