package entities

// CopyAction records what the copy engine did with one object.
type CopyAction int

const (
	ActionSkipped CopyAction = iota // already present in the destination
	ActionCopied                    // written to the destination
	ActionLinked                    // gitlink recorded in the tree, nothing copied
)

// Symbol is the one-character trace prefix for the action.
func (a CopyAction) Symbol() string {
	switch a {
	case ActionCopied:
		return "+"
	case ActionLinked:
		return "@"
	default:
		return "="
	}
}

// CopyNode is one entry of the copy trace. Children follow the source tree's
// entry order.
type CopyNode struct {
	Name     string
	Hash     Hash
	Kind     ObjectKind
	Action   CopyAction
	Depth    int
	Children []*CopyNode
}

// CopyStats counts the decisions taken during one copy.
type CopyStats struct {
	TreesCopied  int64
	TreesSkipped int64
	BlobsCopied  int64
	BlobsSkipped int64
	Linked       int64
}

// Writes is the number of objects written (or that would be written in a dry run).
func (s CopyStats) Writes() int64 {
	return s.TreesCopied + s.BlobsCopied
}

// CopyResult is the outcome of copying one root tree.
type CopyResult struct {
	// Tree is the destination tree matching the source root hash. It is nil
	// in a dry run when the root tree was absent.
	Tree  *Tree
	Root  *CopyNode
	Stats CopyStats
}

// CopyOptions tune the copy engine.
type CopyOptions struct {
	Parallelism       int
	PruneExisting     bool
	AllowSubmodules   bool
	DryRun            bool
	PresenceCacheSize int
}
