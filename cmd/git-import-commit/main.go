package main

import (
	"os"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/git-import-commit/internal/domain/entities"
)

func buildRootCommand(rootController entities.Controller) *cobra.Command {
	bind := rootController.GetBind()
	//nolint:exhaustruct // Minimal Command initialization with required fields only
	cmd := &cobra.Command{
		Use:           bind.Use,
		Short:         bind.Short,
		Long:          bind.Long,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          rootController.Execute,
	}

	// Global persistent flags
	cmd.PersistentFlags().StringP("config", "c", "",
		"Path to config file (default: auto-detect)")
	cmd.PersistentFlags().Bool("dry-run", false,
		"Show what would be copied without writing objects or moving the ref")
	cmd.PersistentFlags().BoolP("verbose", "v", false,
		"Enable verbose output")

	// Controller-specific flags and positional argument rules
	rootController.AddFlags(cmd)

	return cmd
}

func main() {
	//nolint:exhaustruct // Minimal TextFormatter initialization with required fields only
	logger.SetFormatter(&logger.TextFormatter{
		ForceColors:   true,
		FullTimestamp: true,
	})
	if os.Getenv("DEBUG") == "true" {
		logger.SetLevel(logger.DebugLevel)
	}

	// Inject controllers via DIG
	appContext := injectAppContext()
	cobraRoot := buildRootCommand(appContext.GetRootController())

	if err := cobraRoot.Execute(); err != nil {
		logger.Fatalf("Error executing 'git-import-commit': %s", err)
	}
}
