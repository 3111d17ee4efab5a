package sat

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	directory := t.TempDir()

	t.Run("JSON keeps defaults of missing keys", func(t *testing.T) {
		//** Arrange
		path := filepath.Join(directory, "config.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"kissatPath": "/opt/kissat/bin/kissat"}`), 0o644))

		//** Act
		config, err := LoadConfig(path)

		//** Assert
		require.NoError(t, err)
		assert.Equal(t, "/opt/kissat/bin/kissat", config.KissatPath)
		assert.Equal(t, DefaultConfig().CadicalPath, config.CadicalPath)
	})

	t.Run("YAML", func(t *testing.T) {
		//** Arrange
		path := filepath.Join(directory, "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("cadicalPath: /usr/local/bin/cadical\nslimePath: ./slime\n"), 0o644))

		//** Act
		config, err := LoadConfig(path)

		//** Assert
		require.NoError(t, err)
		assert.Equal(t, "/usr/local/bin/cadical", config.CadicalPath)
		assert.Equal(t, "./slime", config.SlimePath)
		assert.Equal(t, DefaultConfig().KissatPath, config.KissatPath)
	})

	t.Run("Malformed file", func(t *testing.T) {
		//** Arrange
		path := filepath.Join(directory, "broken.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"kissatPath": `), 0o644))

		//** Act
		_, err := LoadConfig(path)

		//** Assert
		assert.ErrorContains(t, err, "broken.json")
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(directory, "none.json"))

		assert.Error(t, err)
	})
}
