package controllers

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/git-import-commit/internal/domain/commands"
	"github.com/rios0rios0/git-import-commit/internal/domain/entities"
	"github.com/rios0rios0/git-import-commit/internal/infrastructure/reporters"
)

const importArgCount = 4

// ImportController binds the root command: four positional arguments and the
// copy tuning flags.
type ImportController struct {
	command  commands.ImportCommit
	defaults *entities.Settings
}

// NewImportController creates a new ImportController. defaults apply when no
// config file is found.
func NewImportController(command commands.ImportCommit, defaults *entities.Settings) *ImportController {
	return &ImportController{command: command, defaults: defaults}
}

// GetBind returns the Cobra command metadata for the import controller.
func (it *ImportController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "git-import-commit <dst-repo-path> <dst-ref-name> <src-repo-path> <src-commit>",
		Short: "Copy a commit's tree from one git repository onto a branch of another",
		Long: `Copy the full tree of a single commit from a source repository into a
destination repository and create a new commit on top of the destination ref.

Trees and blobs already present in the destination (by content hash) are not
written again. The new commit keeps the author, committer, message and
encoding of the source commit; its only parent is the current tip of the
destination ref, which is moved to the new commit once everything is written.

Example:
  git-import-commit path/to/dst/.git refs/heads/master path/to/src/.git d76a55fa`,
	}
}

// AddFlags adds the import-specific flags to the given Cobra command.
func (it *ImportController) AddFlags(cmd *cobra.Command) {
	cmd.Args = cobra.ExactArgs(importArgCount)
	cmd.Flags().BoolP("quiet", "q", false,
		"Suppress the commit metadata, the copy trace and informational logs")
	cmd.Flags().IntP("parallelism", "j", entities.DefaultParallelism,
		"Number of workers copying sibling entries")
	cmd.Flags().Bool("prune-existing", false,
		"Do not descend into trees that already exist in the destination")
	cmd.Flags().Bool("allow-submodules", false,
		"Keep submodule (gitlink) entries instead of failing on them")
}

// Execute runs the import and returns any fatal error to the caller.
func (it *ImportController) Execute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	settings, err := it.loadSettings(cmd)
	if err != nil {
		return err
	}
	applyFlagOverrides(cmd, settings)
	if err = settings.Validate(); err != nil {
		return err
	}
	// quiet keeps warnings and errors only, unless --verbose asked for more
	if settings.Quiet && !verbose {
		logger.SetLevel(logger.WarnLevel)
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")

	var reporter entities.ProgressReporter
	if !settings.Quiet {
		reporter = reporters.NewTextReporter(cmd.OutOrStdout())
	}

	result, err := it.command.Execute(ctx, entities.ImportOptions{
		DestinationPath: args[0],
		DestinationRef:  args[1],
		SourcePath:      args[2],
		SourceCommit:    args[3],
		Copy:            settings.CopyOptions(dryRun),
		Reporter:        reporter,
	})
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	if !result.CommitHash.IsZero() {
		logger.Infof("%s now points at %s", result.RefName, result.CommitHash)
	}
	return nil
}

// loadSettings reads the --config file, or the first file found in the
// default locations. Without any file the defaults apply.
func (it *ImportController) loadSettings(cmd *cobra.Command) (*entities.Settings, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	if cfgPath == "" {
		found, err := entities.FindConfigFile()
		if err != nil {
			logger.Debugf("No config file found, using defaults: %v", err)
			settings := *it.defaults
			return &settings, nil
		}
		cfgPath = found
	}

	logger.Debugf("Using config file: %s", cfgPath)

	settings, err := entities.NewSettings(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return settings, nil
}

// applyFlagOverrides lets explicitly set flags win over the config file.
func applyFlagOverrides(cmd *cobra.Command, settings *entities.Settings) {
	flags := cmd.Flags()
	if flags.Changed("quiet") {
		settings.Quiet, _ = flags.GetBool("quiet")
	}
	if flags.Changed("parallelism") {
		settings.Parallelism, _ = flags.GetInt("parallelism")
	}
	if flags.Changed("prune-existing") {
		settings.PruneExisting, _ = flags.GetBool("prune-existing")
	}
	if flags.Changed("allow-submodules") {
		settings.AllowSubmodules, _ = flags.GetBool("allow-submodules")
	}
}
