package commands

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/git-import-commit/internal/domain/entities"
	"github.com/rios0rios0/git-import-commit/internal/domain/repositories"
)

// ImportCommit is the interface for the import command.
type ImportCommit interface {
	Execute(ctx context.Context, opts entities.ImportOptions) (*entities.ImportResult, error)
}

// ImportCommitCommand copies one source commit on top of a destination ref.
type ImportCommitCommand struct {
	opener repositories.RepositoryOpener
}

// NewImportCommitCommand creates a new ImportCommitCommand.
func NewImportCommitCommand(opener repositories.RepositoryOpener) *ImportCommitCommand {
	return &ImportCommitCommand{opener: opener}
}

// Execute opens both repositories and imports the commit.
func (it *ImportCommitCommand) Execute(
	ctx context.Context,
	opts entities.ImportOptions,
) (*entities.ImportResult, error) {
	dst, err := it.opener.Open(ctx, opts.DestinationPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open destination repository %q: %w", opts.DestinationPath, err)
	}
	defer closeStore(dst, opts.DestinationPath)

	src, err := it.opener.Open(ctx, opts.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open source repository %q: %w", opts.SourcePath, err)
	}
	defer closeStore(src, opts.SourcePath)

	return ImportIntoStore(ctx, src, dst, opts)
}

// ImportIntoStore runs the import against already opened stores. The
// destination reference is only moved after the new commit is fully written.
func ImportIntoStore(
	ctx context.Context,
	src, dst repositories.ObjectStore,
	opts entities.ImportOptions,
) (*entities.ImportResult, error) {
	reporter := opts.Reporter
	if reporter == nil {
		reporter = nopReporter{}
	}

	parentHash, err := dst.ResolveReference(ctx, opts.DestinationRef)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve destination ref %q: %w", opts.DestinationRef, err)
	}
	if _, err = dst.Lookup(ctx, parentHash, entities.KindCommit); err != nil {
		return nil, fmt.Errorf("destination ref %q does not point at a commit: %w", opts.DestinationRef, err)
	}
	reporter.ReportParent(opts.DestinationRef, parentHash)

	srcCommit, err := src.LookupCommitByPrefix(ctx, opts.SourceCommit)
	if err != nil {
		return nil, fmt.Errorf("failed to find source commit %q: %w", opts.SourceCommit, err)
	}
	reporter.ReportCommit(srcCommit)

	rootObj, err := src.Lookup(ctx, srcCommit.TreeHash, entities.KindTree)
	if err != nil {
		return nil, fmt.Errorf("failed to load root tree of %s: %w", srcCommit.Hash, err)
	}

	logger.Infof("Importing commit %s into %s (parent %s)", srcCommit.Hash, opts.DestinationRef, parentHash)

	copyResult, err := NewTreeCopier(opts.Copy).CopyTree(ctx, src, dst, rootObj.Tree, RootTreeName)
	if copyResult != nil {
		// a failed copy still shows how far it got
		reporter.ReportTree(copyResult.Root)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to copy tree %s: %w", srcCommit.TreeHash, err)
	}

	stats := copyResult.Stats
	logger.Infof(
		"Trees: %d copied, %d skipped; blobs: %d copied, %d skipped",
		stats.TreesCopied, stats.TreesSkipped, stats.BlobsCopied, stats.BlobsSkipped,
	)

	result := &entities.ImportResult{
		ParentHash: parentHash,
		TreeHash:   srcCommit.TreeHash,
		RefName:    opts.DestinationRef,
		Copy:       copyResult,
	}

	if opts.Copy.DryRun {
		logger.Infof("[DRY RUN] Would create a commit on %s with parent %s", opts.DestinationRef, parentHash)
		return result, nil
	}

	commitHash, err := dst.WriteCommit(ctx, entities.CommitInput{
		Author:       srcCommit.Author,
		Committer:    srcCommit.Committer,
		Message:      srcCommit.Message,
		Encoding:     srcCommit.Encoding,
		TreeHash:     copyResult.Tree.Hash,
		ParentHashes: []entities.Hash{parentHash},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to write commit: %w", err)
	}

	if err = dst.UpdateReference(ctx, opts.DestinationRef, commitHash, parentHash); err != nil {
		return nil, fmt.Errorf("failed to update ref %q to %s: %w", opts.DestinationRef, commitHash, err)
	}

	logger.Infof("Created commit %s on %s", commitHash, opts.DestinationRef)
	result.CommitHash = commitHash

	return result, nil
}

func closeStore(store repositories.ObjectStore, path string) {
	if err := store.Close(); err != nil {
		logger.Warnf("Failed to close repository %q: %v", path, err)
	}
}

// nopReporter stands in when the caller asked for a quiet run.
type nopReporter struct{}

func (nopReporter) ReportParent(string, entities.Hash) {}
func (nopReporter) ReportCommit(*entities.Commit)      {}
func (nopReporter) ReportTree(*entities.CopyNode)      {}
