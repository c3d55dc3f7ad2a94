package entities

// ProgressReporter receives the human-readable trace of an import.
type ProgressReporter interface {
	ReportParent(refName string, hash Hash)
	ReportCommit(commit *Commit)
	ReportTree(root *CopyNode)
}
