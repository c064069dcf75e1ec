package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setFlags overrides the package-level flag variables for one test.
func setFlags(t *testing.T, config, root string) {
	t.Helper()
	oldCfg, oldRoot := cfgPath, rootDir
	cfgPath, rootDir = config, root
	t.Cleanup(func() { cfgPath, rootDir = oldCfg, oldRoot })
}

func TestLoadConfig(t *testing.T) {
	t.Run("defaults when nothing is given", func(t *testing.T) {
		setFlags(t, "", "")
		cfg, err := loadConfig()
		require.NoError(t, err)
		assert.Equal(t, ".", cfg.Root)
		assert.Equal(t, []string{"diets", "allergens", "ingredients", "cuisines"}, cfg.Categories)
	})

	t.Run("config file merged over defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "larder.hcl")
		require.NoError(t, os.WriteFile(path, []byte("root = \"/srv/data\"\n"), 0o644))
		setFlags(t, path, "")

		cfg, err := loadConfig()
		require.NoError(t, err)
		assert.Equal(t, "/srv/data", cfg.Root)
		assert.Equal(t, []string{"diets", "allergens", "ingredients", "cuisines"}, cfg.Categories,
			"unset fields fall back to defaults")
	})

	t.Run("root flag wins over config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "larder.hcl")
		require.NoError(t, os.WriteFile(path,
			[]byte("root = \"/srv/data\"\ncategories = [\"diets\"]\n"), 0o644))
		setFlags(t, path, "/elsewhere")

		cfg, err := loadConfig()
		require.NoError(t, err)
		assert.Equal(t, "/elsewhere", cfg.Root)
		assert.Equal(t, []string{"diets"}, cfg.Categories)
	})

	t.Run("broken config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "larder.hcl")
		require.NoError(t, os.WriteFile(path, []byte("root = {\n"), 0o644))
		setFlags(t, path, "")

		_, err := loadConfig()
		assert.Error(t, err)
	})
}
