package entities

// ImportOptions holds everything needed to import one commit.
type ImportOptions struct {
	DestinationPath string
	DestinationRef  string
	SourcePath      string
	SourceCommit    string // full hash or unique hex prefix
	Copy            CopyOptions
	Reporter        ProgressReporter
}

// ImportResult describes a finished import.
type ImportResult struct {
	CommitHash Hash // zero in a dry run
	ParentHash Hash
	TreeHash   Hash
	RefName    string
	Copy       *CopyResult
}
