//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"time"

	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/rios0rios0/git-import-commit/internal/domain/entities"
)

const (
	defaultMessage = "initial import\n"
	defaultUnix    = 1700000000
)

// CommitInputBuilder helps create commit inputs with a fluent interface.
type CommitInputBuilder struct {
	*testkit.BaseBuilder
	author    entities.Signature
	committer entities.Signature
	message   string
	encoding  string
	treeHash  entities.Hash
	parents   []entities.Hash
}

// NewCommitInputBuilder creates a new commit input builder with sensible defaults.
func NewCommitInputBuilder() *CommitInputBuilder {
	b := &CommitInputBuilder{BaseBuilder: testkit.NewBaseBuilder()}
	b.setDefaults()
	return b
}

func (b *CommitInputBuilder) setDefaults() {
	zone := time.FixedZone("", 2*60*60) //nolint:mnd // +0200
	b.author = entities.Signature{
		Name:  "Ada Author",
		Email: "ada@example.com",
		When:  time.Unix(defaultUnix, 0).In(zone),
	}
	b.committer = entities.Signature{
		Name:  "Carl Committer",
		Email: "carl@example.com",
		When:  time.Unix(defaultUnix+60, 0).In(zone), //nolint:mnd // one minute later
	}
	b.message = defaultMessage
	b.encoding = ""
	b.treeHash = entities.ZeroHash
	b.parents = nil
}

// WithAuthor sets the author signature.
func (b *CommitInputBuilder) WithAuthor(name, email string, when time.Time) *CommitInputBuilder {
	b.author = entities.Signature{Name: name, Email: email, When: when}
	return b
}

// WithCommitter sets the committer signature.
func (b *CommitInputBuilder) WithCommitter(name, email string, when time.Time) *CommitInputBuilder {
	b.committer = entities.Signature{Name: name, Email: email, When: when}
	return b
}

// WithMessage sets the commit message.
func (b *CommitInputBuilder) WithMessage(message string) *CommitInputBuilder {
	b.message = message
	return b
}

// WithEncoding sets the message encoding header.
func (b *CommitInputBuilder) WithEncoding(encoding string) *CommitInputBuilder {
	b.encoding = encoding
	return b
}

// WithTree sets the root tree hash.
func (b *CommitInputBuilder) WithTree(hash entities.Hash) *CommitInputBuilder {
	b.treeHash = hash
	return b
}

// WithParents sets the parent hashes.
func (b *CommitInputBuilder) WithParents(parents ...entities.Hash) *CommitInputBuilder {
	b.parents = parents
	return b
}

// Build creates the commit input (satisfies testkit.Builder interface).
func (b *CommitInputBuilder) Build() interface{} {
	return b.BuildCommitInput()
}

// BuildCommitInput creates the commit input with a concrete return type.
func (b *CommitInputBuilder) BuildCommitInput() entities.CommitInput {
	parents := make([]entities.Hash, len(b.parents))
	copy(parents, b.parents)
	return entities.CommitInput{
		Author:       b.author,
		Committer:    b.committer,
		Message:      b.message,
		Encoding:     b.encoding,
		TreeHash:     b.treeHash,
		ParentHashes: parents,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *CommitInputBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.setDefaults()
	return b
}

// Clone creates a deep copy of the CommitInputBuilder.
func (b *CommitInputBuilder) Clone() testkit.Builder {
	parents := make([]entities.Hash, len(b.parents))
	copy(parents, b.parents)
	return &CommitInputBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		author:      b.author,
		committer:   b.committer,
		message:     b.message,
		encoding:    b.encoding,
		treeHash:    b.treeHash,
		parents:     parents,
	}
}
