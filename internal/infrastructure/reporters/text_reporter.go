package reporters

import (
	"fmt"
	"io"
	"strings"

	"github.com/rios0rios0/git-import-commit/internal/domain/entities"
)

const indentUnit = "    "

// TextReporter prints the import trace: the parent ref, the source commit
// metadata and one line per tree entry, prefixed "+" (copied), "=" (skipped)
// or "@" (gitlink), indented four spaces per level.
type TextReporter struct {
	out io.Writer
}

var _ entities.ProgressReporter = (*TextReporter)(nil)

// NewTextReporter creates a TextReporter writing to out.
func NewTextReporter(out io.Writer) *TextReporter {
	return &TextReporter{out: out}
}

func (it *TextReporter) ReportParent(refName string, hash entities.Hash) {
	fmt.Fprintf(it.out, "\nusing destination ref %s (%s) for parent commit\n", refName, hash)
}

func (it *TextReporter) ReportCommit(commit *entities.Commit) {
	encoding := commit.Encoding
	if encoding == "" {
		encoding = "NULL (UTF-8 assumed)"
	}

	fmt.Fprintf(it.out, "encoding: %s\n", encoding)
	fmt.Fprintf(it.out, "message: %s\n", commit.Message)
	fmt.Fprintf(it.out, "time: %d\n", commit.Committer.When.Unix())
	fmt.Fprintf(it.out, "offset: %d\n", offsetMinutes(commit.Committer))
	fmt.Fprintf(it.out, "committer: %s\n", formatSignature(commit.Committer))
	fmt.Fprintf(it.out, "author: %s\n", formatSignature(commit.Author))
	fmt.Fprintf(it.out, "parent count: %d\n", len(commit.ParentHashes))
}

func (it *TextReporter) ReportTree(root *entities.CopyNode) {
	if root == nil {
		return
	}

	var sb strings.Builder
	writeNode(&sb, root)
	_, _ = io.WriteString(it.out, sb.String())
}

func writeNode(sb *strings.Builder, node *entities.CopyNode) {
	sb.WriteString(node.Action.Symbol())
	sb.WriteString(strings.Repeat(indentUnit, node.Depth))
	sb.WriteString(node.Name)
	if node.Kind == entities.KindTree {
		sb.WriteString(":")
	}
	sb.WriteString("\n")

	// entries left undecided by a failed copy are nil
	for _, child := range node.Children {
		if child != nil {
			writeNode(sb, child)
		}
	}
}

func formatSignature(sig entities.Signature) string {
	return fmt.Sprintf("%s %s %d %d", sig.Name, sig.Email, sig.When.Unix(), offsetMinutes(sig))
}

func offsetMinutes(sig entities.Signature) int {
	_, seconds := sig.When.Zone()
	return seconds / 60 //nolint:mnd // seconds per minute
}
