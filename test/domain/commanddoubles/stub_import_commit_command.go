//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/git-import-commit/internal/domain/commands"
	"github.com/rios0rios0/git-import-commit/internal/domain/entities"
)

// StubImportCommitCommand is a stub implementation of commands.ImportCommit.
type StubImportCommitCommand struct {
	ExecuteCallCount int
	ExecuteErr       error
	Result           *entities.ImportResult
	LastOpts         entities.ImportOptions
}

var _ commands.ImportCommit = (*StubImportCommitCommand)(nil)

func (s *StubImportCommitCommand) Execute(
	_ context.Context,
	opts entities.ImportOptions,
) (*entities.ImportResult, error) {
	s.ExecuteCallCount++
	s.LastOpts = opts
	if s.ExecuteErr != nil {
		return nil, s.ExecuteErr
	}
	if s.Result != nil {
		return s.Result, nil
	}
	return &entities.ImportResult{RefName: opts.DestinationRef}, nil
}
