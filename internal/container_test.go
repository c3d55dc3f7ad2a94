//go:build unit

package internal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/dig"

	"github.com/rios0rios0/git-import-commit/internal"
	"github.com/rios0rios0/git-import-commit/internal/infrastructure/controllers"
)

func TestRegisterProviders(t *testing.T) {
	t.Parallel()

	t.Run("should resolve the application with its root controller", func(t *testing.T) {
		t.Parallel()

		// given
		container := dig.New()
		require.NoError(t, internal.RegisterProviders(container))

		// when
		var app *internal.AppInternal
		err := container.Invoke(func(ai *internal.AppInternal) { app = ai })

		// then
		require.NoError(t, err)
		require.NotNil(t, app.GetRootController())
		assert.IsType(t, &controllers.ImportController{}, app.GetRootController())
		assert.Contains(t, app.GetRootController().GetBind().Use, "git-import-commit")
	})
}
