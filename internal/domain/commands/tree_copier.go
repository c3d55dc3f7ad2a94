package commands

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	logger "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/rios0rios0/git-import-commit/internal/domain/entities"
	"github.com/rios0rios0/git-import-commit/internal/domain/repositories"
)

// RootTreeName is the trace name of a commit's root tree.
const RootTreeName = "<commit tree>"

// TreeCopier copies a source tree into a destination store, writing only the
// trees and blobs the destination does not already hold.
type TreeCopier struct {
	options entities.CopyOptions
}

// NewTreeCopier creates a TreeCopier. A parallelism below one is treated as one.
func NewTreeCopier(options entities.CopyOptions) *TreeCopier {
	if options.Parallelism < 1 {
		options.Parallelism = 1
	}
	return &TreeCopier{options: options}
}

type copyCounters struct {
	treesCopied  atomic.Int64
	treesSkipped atomic.Int64
	blobsCopied  atomic.Int64
	blobsSkipped atomic.Int64
	linked       atomic.Int64
}

func (c *copyCounters) snapshot() entities.CopyStats {
	return entities.CopyStats{
		TreesCopied:  c.treesCopied.Load(),
		TreesSkipped: c.treesSkipped.Load(),
		BlobsCopied:  c.blobsCopied.Load(),
		BlobsSkipped: c.blobsSkipped.Load(),
		Linked:       c.linked.Load(),
	}
}

// copyRun is the state shared by every node of one CopyTree call.
type copyRun struct {
	src      repositories.ObjectStore
	dst      repositories.ObjectStore
	presence *presenceIndex
	workers  *semaphore.Weighted // nil when sequential
	counters copyCounters
}

// CopyTree walks tree depth-first, parent decision before children, and
// returns the destination handle for the tree together with the trace of
// every decision taken. Any error other than not-found aborts the whole walk;
// objects written before the failure stay in the destination as harmless
// orphans. On failure the result still carries the trace of the decisions
// taken so far, with a nil Root when the root itself could not be decided.
func (it *TreeCopier) CopyTree(
	ctx context.Context,
	src, dst repositories.ObjectStore,
	tree *entities.Tree,
	name string,
) (*entities.CopyResult, error) {
	presence, err := newPresenceIndex(it.options.PresenceCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create presence index: %w", err)
	}

	run := &copyRun{src: src, dst: dst, presence: presence}
	if it.options.Parallelism > 1 {
		run.workers = semaphore.NewWeighted(int64(it.options.Parallelism - 1))
	}

	root, err := it.copyTree(ctx, run, tree, name, 0)
	result := &entities.CopyResult{Root: root, Stats: run.counters.snapshot()}
	if err != nil {
		return result, err
	}

	if it.options.DryRun && root.Action == entities.ActionCopied {
		return result, nil
	}

	obj, err := dst.Lookup(ctx, tree.Hash, entities.KindTree)
	if err != nil {
		return result, fmt.Errorf("failed to look up destination tree %s: %w", tree.Hash, err)
	}
	result.Tree = obj.Tree

	return result, nil
}

func (it *TreeCopier) copyTree(
	ctx context.Context,
	run *copyRun,
	tree *entities.Tree,
	name string,
	depth int,
) (*entities.CopyNode, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	node := &entities.CopyNode{Name: name, Hash: tree.Hash, Kind: entities.KindTree, Depth: depth}

	present, err := it.isPresent(ctx, run, tree.Hash, entities.KindTree)
	if err != nil {
		return nil, fmt.Errorf("failed to check tree %q: %w", name, err)
	}

	if present {
		node.Action = entities.ActionSkipped
		run.counters.treesSkipped.Add(1)
		if it.options.PruneExisting {
			return node, nil
		}
	} else {
		// The entries keep their source hashes: content addressing makes them
		// valid references in the destination once the children are copied.
		if err = it.writeTree(ctx, run, tree); err != nil {
			return nil, fmt.Errorf("failed to copy tree %q: %w", name, err)
		}
		node.Action = entities.ActionCopied
		run.counters.treesCopied.Add(1)
	}

	children, err := it.copyEntries(ctx, run, tree, depth+1)
	node.Children = children

	return node, err
}

func (it *TreeCopier) writeTree(ctx context.Context, run *copyRun, tree *entities.Tree) error {
	if it.options.DryRun {
		run.presence.add(tree.Hash, entities.KindTree)
		logger.Debugf("[dry-run] Would write tree %s", tree.Hash)
		return nil
	}

	written, err := run.dst.WriteTree(ctx, tree.Entries)
	if err != nil {
		return err
	}
	if written != tree.Hash {
		return &entities.HashMismatchError{Kind: entities.KindTree, Expected: tree.Hash, Actual: written}
	}
	run.presence.add(tree.Hash, entities.KindTree)

	logger.Debugf("Wrote tree %s (%d entries)", tree.Hash, len(tree.Entries))
	return nil
}

// copyEntries handles the entries of one tree in stored order. Entries are
// handed to spare workers when parallelism allows it; a node's children are
// placed by index so the trace order never depends on scheduling. On failure
// the children decided so far are returned with the error and the others are
// left nil.
func (it *TreeCopier) copyEntries(
	ctx context.Context,
	run *copyRun,
	tree *entities.Tree,
	depth int,
) ([]*entities.CopyNode, error) {
	children := make([]*entities.CopyNode, len(tree.Entries))
	if len(tree.Entries) == 0 {
		return children, nil
	}

	cancelCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	group, groupCtx := errgroup.WithContext(cancelCtx)

	for i, entry := range tree.Entries {
		if run.workers != nil && run.workers.TryAcquire(1) {
			group.Go(func() error {
				defer run.workers.Release(1)
				node, err := it.copyEntry(groupCtx, run, entry, depth)
				children[i] = node
				return err
			})
			continue
		}

		node, err := it.copyEntry(groupCtx, run, entry, depth)
		children[i] = node
		if err != nil {
			cancel()
			// a failed worker cancels groupCtx, so the inline error may only
			// be the echo of that failure
			waitErr := group.Wait()
			if waitErr != nil && errors.Is(err, context.Canceled) && !errors.Is(waitErr, context.Canceled) {
				return children, waitErr
			}
			return children, err
		}
	}

	if err := group.Wait(); err != nil {
		return children, err
	}

	return children, nil
}

func (it *TreeCopier) copyEntry(
	ctx context.Context,
	run *copyRun,
	entry entities.TreeEntry,
	depth int,
) (*entities.CopyNode, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	switch entry.Kind {
	case entities.KindTree:
		obj, err := run.src.Lookup(ctx, entry.Hash, entities.KindTree)
		if err != nil {
			return nil, fmt.Errorf("failed to load source tree %q: %w", entry.Name, err)
		}
		return it.copyTree(ctx, run, obj.Tree, entry.Name, depth)
	case entities.KindBlob:
		return it.copyBlob(ctx, run, entry, depth)
	case entities.KindCommit:
		if it.options.AllowSubmodules {
			run.counters.linked.Add(1)
			return &entities.CopyNode{
				Name:   entry.Name,
				Hash:   entry.Hash,
				Kind:   entities.KindCommit,
				Action: entities.ActionLinked,
				Depth:  depth,
			}, nil
		}
	}

	return nil, &entities.UnsupportedEntryKindError{Name: entry.Name, Hash: entry.Hash, Mode: entry.Mode}
}

func (it *TreeCopier) copyBlob(
	ctx context.Context,
	run *copyRun,
	entry entities.TreeEntry,
	depth int,
) (*entities.CopyNode, error) {
	node := &entities.CopyNode{Name: entry.Name, Hash: entry.Hash, Kind: entities.KindBlob, Depth: depth}

	present, err := it.isPresent(ctx, run, entry.Hash, entities.KindBlob)
	if err != nil {
		return nil, fmt.Errorf("failed to check blob %q: %w", entry.Name, err)
	}
	if present {
		node.Action = entities.ActionSkipped
		run.counters.blobsSkipped.Add(1)
		return node, nil
	}

	if err = it.writeBlob(ctx, run, entry); err != nil {
		return nil, fmt.Errorf("failed to copy blob %q: %w", entry.Name, err)
	}
	node.Action = entities.ActionCopied
	run.counters.blobsCopied.Add(1)

	return node, nil
}

func (it *TreeCopier) writeBlob(ctx context.Context, run *copyRun, entry entities.TreeEntry) error {
	if it.options.DryRun {
		run.presence.add(entry.Hash, entities.KindBlob)
		logger.Debugf("[dry-run] Would write blob %s", entry.Hash)
		return nil
	}

	obj, err := run.src.Lookup(ctx, entry.Hash, entities.KindBlob)
	if err != nil {
		return fmt.Errorf("failed to read source blob: %w", err)
	}

	written, err := run.dst.WriteBlob(ctx, obj.Blob.Data)
	if err != nil {
		return err
	}
	if written != entry.Hash {
		return &entities.HashMismatchError{Kind: entities.KindBlob, Expected: entry.Hash, Actual: written}
	}
	run.presence.add(entry.Hash, entities.KindBlob)

	logger.Debugf("Wrote blob %s (%d bytes)", entry.Hash, len(obj.Blob.Data))
	return nil
}

// isPresent is the presence check. Not-found never reaches this level: the
// store absorbs it into a false result.
func (it *TreeCopier) isPresent(
	ctx context.Context,
	run *copyRun,
	hash entities.Hash,
	kind entities.ObjectKind,
) (bool, error) {
	if run.presence.contains(hash, kind) {
		return true, nil
	}

	present, err := run.dst.Contains(ctx, hash, kind)
	if err != nil {
		return false, err
	}
	if present {
		run.presence.add(hash, kind)
	}

	return present, nil
}
