// pkg/ui/styles/styles_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test embedded style loading and lookups

package styles_test

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/slim/pkg/ui/styles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStyleRegistry(t *testing.T) {
	require.NoError(t, styles.LoadStyles(filepath.Join(".", "styles.yaml")))

	for _, name := range []string{
		"Header", "Success", "Error", "Dangling", "Warning",
		"Muted", "FilePath", "Size", "Suggested",
	} {
		t.Run(name, func(t *testing.T) {
			_, exists := styles.StyleRegistry[name]
			assert.True(t, exists, "style %s should exist", name)
		})
	}

	assert.True(t, styles.GetStyle("Dangling").GetBold())
	assert.True(t, styles.GetStyle("Dangling").GetUnderline())
}

func TestGetStyle_Unknown(t *testing.T) {
	style := styles.GetStyle("NoSuchStyle")
	assert.Equal(t, "plain", style.Render("plain"))
}

func TestLoadStylesFromData_Invalid(t *testing.T) {
	err := styles.LoadStylesFromData([]byte("colors: [unterminated"))
	assert.Error(t, err)

	require.NoError(t, styles.LoadStyles("styles.yaml"))
}

func TestLoadStyles_MissingFile(t *testing.T) {
	err := styles.LoadStyles(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
