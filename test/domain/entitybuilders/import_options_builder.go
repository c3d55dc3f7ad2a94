//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/rios0rios0/git-import-commit/internal/domain/entities"
)

// ImportOptionsBuilder helps create import options with a fluent interface.
type ImportOptionsBuilder struct {
	*testkit.BaseBuilder
	dstPath  string
	dstRef   string
	srcPath  string
	srcID    string
	copyOpts entities.CopyOptions
	reporter entities.ProgressReporter
}

// NewImportOptionsBuilder creates a new import options builder with sensible defaults.
func NewImportOptionsBuilder() *ImportOptionsBuilder {
	b := &ImportOptionsBuilder{BaseBuilder: testkit.NewBaseBuilder()}
	b.setDefaults()
	return b
}

func (b *ImportOptionsBuilder) setDefaults() {
	b.dstPath = "dst.git"
	b.dstRef = "refs/heads/master"
	b.srcPath = "src.git"
	b.srcID = ""
	b.copyOpts = entities.CopyOptions{
		Parallelism:       entities.DefaultParallelism,
		PresenceCacheSize: entities.DefaultPresenceCacheSize,
	}
	b.reporter = nil
}

// WithDestination sets the destination repository path and ref.
func (b *ImportOptionsBuilder) WithDestination(path, ref string) *ImportOptionsBuilder {
	b.dstPath = path
	b.dstRef = ref
	return b
}

// WithSource sets the source repository path and commit id.
func (b *ImportOptionsBuilder) WithSource(path, commitID string) *ImportOptionsBuilder {
	b.srcPath = path
	b.srcID = commitID
	return b
}

// WithSourceCommit sets only the source commit id.
func (b *ImportOptionsBuilder) WithSourceCommit(commitID string) *ImportOptionsBuilder {
	b.srcID = commitID
	return b
}

// WithCopyOptions sets the engine options.
func (b *ImportOptionsBuilder) WithCopyOptions(opts entities.CopyOptions) *ImportOptionsBuilder {
	b.copyOpts = opts
	return b
}

// WithDryRun toggles dry-run mode.
func (b *ImportOptionsBuilder) WithDryRun(dryRun bool) *ImportOptionsBuilder {
	b.copyOpts.DryRun = dryRun
	return b
}

// WithReporter sets the progress reporter.
func (b *ImportOptionsBuilder) WithReporter(reporter entities.ProgressReporter) *ImportOptionsBuilder {
	b.reporter = reporter
	return b
}

// Build creates the import options (satisfies testkit.Builder interface).
func (b *ImportOptionsBuilder) Build() interface{} {
	return b.BuildImportOptions()
}

// BuildImportOptions creates the import options with a concrete return type.
func (b *ImportOptionsBuilder) BuildImportOptions() entities.ImportOptions {
	return entities.ImportOptions{
		DestinationPath: b.dstPath,
		DestinationRef:  b.dstRef,
		SourcePath:      b.srcPath,
		SourceCommit:    b.srcID,
		Copy:            b.copyOpts,
		Reporter:        b.reporter,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *ImportOptionsBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.setDefaults()
	return b
}

// Clone creates a copy of the ImportOptionsBuilder.
func (b *ImportOptionsBuilder) Clone() testkit.Builder {
	return &ImportOptionsBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		dstPath:     b.dstPath,
		dstRef:      b.dstRef,
		srcPath:     b.srcPath,
		srcID:       b.srcID,
		copyOpts:    b.copyOpts,
		reporter:    b.reporter,
	}
}
