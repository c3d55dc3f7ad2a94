package internal

import (
	"github.com/rios0rios0/git-import-commit/internal/domain/entities"
	"github.com/rios0rios0/git-import-commit/internal/infrastructure/controllers"
)

// AppInternal holds the controller resolved by the DIG container.
type AppInternal struct {
	importController *controllers.ImportController
}

// NewAppInternal creates the application context.
func NewAppInternal(importController *controllers.ImportController) *AppInternal {
	return &AppInternal{importController: importController}
}

// GetRootController returns the controller bound to the root command.
func (it *AppInternal) GetRootController() entities.Controller {
	return it.importController
}
