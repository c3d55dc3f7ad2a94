//go:build unit

package reporters_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/git-import-commit/internal/domain/entities"
	"github.com/rios0rios0/git-import-commit/internal/infrastructure/reporters"
	"github.com/rios0rios0/git-import-commit/internal/infrastructure/repositories/gitstore"
	"github.com/rios0rios0/git-import-commit/test/infrastructure/repositorydoubles"
)

func TestTextReporter(t *testing.T) {
	t.Parallel()

	t.Run("should print the parent ref line", func(t *testing.T) {
		t.Parallel()

		// given
		var out bytes.Buffer
		reporter := reporters.NewTextReporter(&out)
		hash := plumbing.NewHash("7777777777777777777777777777777777777777")

		// when
		reporter.ReportParent("refs/heads/master", hash)

		// then
		assert.Equal(t,
			"\nusing destination ref refs/heads/master (7777777777777777777777777777777777777777) for parent commit\n",
			out.String())
	})

	t.Run("should print commit metadata with the assumed encoding", func(t *testing.T) {
		t.Parallel()

		// given
		var out bytes.Buffer
		reporter := reporters.NewTextReporter(&out)
		zone := time.FixedZone("", 90*60)
		commit := &entities.Commit{
			Author:       entities.Signature{Name: "Ann", Email: "ann@example.com", When: time.Unix(100, 0).In(zone)},
			Committer:    entities.Signature{Name: "Bob", Email: "bob@example.com", When: time.Unix(200, 0).In(zone)},
			Message:      "fix things\n",
			ParentHashes: []entities.Hash{plumbing.ZeroHash},
		}

		// when
		reporter.ReportCommit(commit)

		// then
		assert.Equal(t, "encoding: NULL (UTF-8 assumed)\n"+
			"message: fix things\n\n"+
			"time: 200\n"+
			"offset: 90\n"+
			"committer: Bob bob@example.com 200 90\n"+
			"author: Ann ann@example.com 100 90\n"+
			"parent count: 1\n", out.String())
	})

	t.Run("should report a stored commit without encoding header as UTF-8 assumed", func(t *testing.T) {
		t.Parallel()

		// given
		storage := memory.NewStorage()
		store := gitstore.NewGitObjectStore(storage)
		hash := repositorydoubles.WriteRawCommit(t, storage,
			"tree 4b825dc642cb6eb9a060e54bf8d69288fbee4904\n"+
				"author Ann <ann@example.com> 100 +0000\n"+
				"committer Bob <bob@example.com> 200 +0000\n"+
				"\nplain message\n")
		commit, err := store.LookupCommitByPrefix(context.Background(), hash.String())
		require.NoError(t, err)
		var out bytes.Buffer
		reporter := reporters.NewTextReporter(&out)

		// when
		reporter.ReportCommit(commit)

		// then
		lines := strings.Split(out.String(), "\n")
		assert.Equal(t, "encoding: NULL (UTF-8 assumed)", lines[0])
		assert.Equal(t, "committer: Bob bob@example.com 200 0", lines[5])
		assert.Equal(t, "parent count: 0", lines[7])
	})

	t.Run("should report an explicit encoding header of a stored commit", func(t *testing.T) {
		t.Parallel()

		// given
		storage := memory.NewStorage()
		store := gitstore.NewGitObjectStore(storage)
		hash := repositorydoubles.WriteRawCommit(t, storage,
			"tree 4b825dc642cb6eb9a060e54bf8d69288fbee4904\n"+
				"author Ann <ann@example.com> 100 +0000\n"+
				"committer Bob <bob@example.com> 200 +0000\n"+
				"encoding UTF-8\n"+
				"\nplain message\n")
		commit, err := store.LookupCommitByPrefix(context.Background(), hash.String())
		require.NoError(t, err)
		var out bytes.Buffer

		// when
		reporters.NewTextReporter(&out).ReportCommit(commit)

		// then
		assert.True(t, strings.HasPrefix(out.String(), "encoding: UTF-8\n"))
	})

	t.Run("should render the copy trace indented by depth", func(t *testing.T) {
		t.Parallel()

		// given
		var out bytes.Buffer
		reporter := reporters.NewTextReporter(&out)
		root := &entities.CopyNode{
			Name: "<commit tree>", Kind: entities.KindTree, Action: entities.ActionCopied,
			Children: []*entities.CopyNode{
				{Name: "file.txt", Kind: entities.KindBlob, Action: entities.ActionCopied, Depth: 1},
				{
					Name: "lib", Kind: entities.KindTree, Action: entities.ActionSkipped, Depth: 1,
					Children: []*entities.CopyNode{
						{Name: "a.txt", Kind: entities.KindBlob, Action: entities.ActionSkipped, Depth: 2},
					},
				},
				{Name: "vendor", Kind: entities.KindCommit, Action: entities.ActionLinked, Depth: 1},
			},
		}

		// when
		reporter.ReportTree(root)

		// then
		assert.Equal(t, "+<commit tree>:\n"+
			"+    file.txt\n"+
			"=    lib:\n"+
			"=        a.txt\n"+
			"@    vendor\n", out.String())
	})

	t.Run("should render only the decided entries of a failed copy", func(t *testing.T) {
		t.Parallel()

		// given
		var out bytes.Buffer
		reporter := reporters.NewTextReporter(&out)
		root := &entities.CopyNode{
			Name: "<commit tree>", Kind: entities.KindTree, Action: entities.ActionCopied,
			Children: []*entities.CopyNode{
				{Name: "a.txt", Kind: entities.KindBlob, Action: entities.ActionCopied, Depth: 1},
				nil,
				nil,
			},
		}

		// when
		reporter.ReportTree(root)

		// then
		assert.Equal(t, "+<commit tree>:\n+    a.txt\n", out.String())
	})
}
