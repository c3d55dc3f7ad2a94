package entities

import (
	"go.uber.org/dig"
)

// RegisterProviders registers all entity providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Defaults only: a config file is located after flags are parsed
	return container.Provide(NewDefaultSettings)
}
