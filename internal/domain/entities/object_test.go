//go:build unit

package entities_test

import (
	"errors"
	"testing"

	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/stretchr/testify/assert"

	"github.com/rios0rios0/git-import-commit/internal/domain/entities"
)

func TestKindFromMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		mode entities.FileMode
		want entities.ObjectKind
	}{
		{name: "directory", mode: filemode.Dir, want: entities.KindTree},
		{name: "regular file", mode: filemode.Regular, want: entities.KindBlob},
		{name: "executable", mode: filemode.Executable, want: entities.KindBlob},
		{name: "symlink", mode: filemode.Symlink, want: entities.KindBlob},
		{name: "submodule", mode: filemode.Submodule, want: entities.KindCommit},
		{name: "empty", mode: filemode.Empty, want: entities.KindInvalid},
		{name: "non-canonical regular file", mode: 0o100600, want: entities.KindBlob},
		{name: "group-writable regular file", mode: 0o100775, want: entities.KindBlob},
		{name: "block device", mode: 0o060644, want: entities.KindInvalid},
	}

	for _, tt := range tests {
		t.Run("should map "+tt.name, func(t *testing.T) {
			t.Parallel()

			// when
			got := entities.KindFromMode(tt.mode)

			// then
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCopyAction_Symbol(t *testing.T) {
	t.Parallel()

	t.Run("should use one character per action", func(t *testing.T) {
		t.Parallel()

		// when / then
		assert.Equal(t, "+", entities.ActionCopied.Symbol())
		assert.Equal(t, "=", entities.ActionSkipped.Symbol())
		assert.Equal(t, "@", entities.ActionLinked.Symbol())
	})
}

func TestStoreError(t *testing.T) {
	t.Parallel()

	t.Run("should unwrap to the underlying failure", func(t *testing.T) {
		t.Parallel()

		// given
		cause := errors.New("bad pack")
		err := error(&entities.StoreError{Op: "lookup blob", Err: cause})

		// when
		matches := errors.Is(err, cause)

		// then
		assert.True(t, matches)
		assert.Equal(t, "store lookup blob: bad pack", err.Error())
	})
}
