package tests

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/culinary-data/larder/api"
	"github.com/culinary-data/larder/catalog"
	"github.com/culinary-data/larder/internal/index"
	"github.com/culinary-data/larder/migrate"
)

// fixture is a complete on-disk data root exercising every access
// pattern: a flat category, a nested category with parent records, and a
// migration log.
type fixture struct {
	root string
	cat  *catalog.Catalog
	log  *migrate.Log
}

func setup(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()

	files := map[string]string{
		"diets/vegan.toml":      "name = \"Vegan\"\nexcludes = [\"meat\", \"dairy\", \"eggs\"]\n",
		"diets/vegetarian.toml": "name = \"Vegetarian\"\nexcludes = [\"meat\"]\n",

		"ingredients/fruits.toml":              "name = \"Fruits\"\nperishable = true\n",
		"ingredients/fruits/apple.toml":        "name = \"Apple\"\n",
		"ingredients/fruits/citrus.toml":       "name = \"Citrus\"\nacidic = true\n",
		"ingredients/fruits/citrus/lemon.toml": "name = \"Lemon\"\n",
		"ingredients/tomato.toml":              "name = \"Tomato\"\n",

		"ingredients/__migrations__/1700000000.yml": "" +
			"- A: \"ingredients/tomato\"\n" +
			"- A: \"ingredients/fruits/apple\"\n",
		"ingredients/__migrations__/1700000500.yml": "" +
			"- U: \"ingredients/tomato\"\n" +
			"- M: \"ingredients/pome/apple ingredients/fruits/apple\"\n" +
			"- D: \"ingredients/quince\"\n",
	}
	for p, content := range files {
		full := filepath.Join(root, p)
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}

	return &fixture{
		root: root,
		cat:  catalog.Open(root),
		log:  migrate.Open(root),
	}
}

func TestAggregateEndToEnd(t *testing.T) {
	f := setup(t)

	diets, err := f.cat.Aggregate("diets")
	require.NoError(t, err)
	require.Contains(t, diets, "vegan")
	vegan := diets["vegan"].(map[string]any)[api.InfoKey].(map[string]any)
	assert.Equal(t, "Vegan", vegan["name"])

	ingredients, err := f.cat.Aggregate("ingredients")
	require.NoError(t, err)
	fruits := ingredients["fruits"].(map[string]any)
	assert.Contains(t, fruits, api.InfoKey, "parent record merged with its children")
	assert.Contains(t, fruits, "apple")
	citrus := fruits["citrus"].(map[string]any)
	assert.Contains(t, citrus, "lemon")

	// The migration log lives beside the data but is not part of the tree.
	assert.NotContains(t, ingredients, migrate.LogDir)
}

func TestFoldEndToEnd(t *testing.T) {
	f := setup(t)

	type seen struct {
		name    string
		parents []string
	}
	visits, err := catalog.Fold(f.cat, "ingredients", []seen(nil),
		func(info api.Info, ancestors []api.ContextEntry, acc []seen) ([]seen, error) {
			s := seen{name: info["name"].(string)}
			for _, a := range ancestors {
				s.parents = append(s.parents, a.Name)
			}
			return append(acc, s), nil
		})
	require.NoError(t, err)

	require.Equal(t, []seen{
		{name: "Fruits"},
		{name: "Apple", parents: []string{"fruits"}},
		{name: "Citrus", parents: []string{"fruits"}},
		{name: "Lemon", parents: []string{"citrus", "fruits"}},
		{name: "Tomato"},
	}, visits)
}

func TestMigrationsEndToEnd(t *testing.T) {
	f := setup(t)

	t.Run("full log", func(t *testing.T) {
		ms, err := f.log.Migrations("ingredients", migrate.Start)
		require.NoError(t, err)
		require.Len(t, ms, 2)
		assert.Equal(t, "1700000000", ms[0].Timestamp)
		assert.Equal(t, []string{"ingredients/tomato", "ingredients/fruits/apple"}, ms[0].Add)
		assert.Equal(t, []api.Move{
			{From: "ingredients/pome/apple", To: "ingredients/fruits/apple"},
		}, ms[1].Move)
	})

	t.Run("after checkpoint", func(t *testing.T) {
		ms, err := f.log.Migrations("ingredients", 1700000000)
		require.NoError(t, err)
		require.Len(t, ms, 1)
		assert.Equal(t, "1700000500", ms[0].Timestamp)
	})

	t.Run("category without a log", func(t *testing.T) {
		ms, err := f.log.Migrations("diets", migrate.Start)
		require.NoError(t, err)
		assert.Empty(t, ms)
	})
}

func TestIndexEndToEnd(t *testing.T) {
	f := setup(t)
	out := filepath.Join(t.TempDir(), "larder.db")

	w, err := index.NewWriter(out)
	require.NoError(t, err)
	for _, category := range []string{"diets", "ingredients"} {
		require.NoError(t, w.WriteCategory(f.cat, category))
		require.NoError(t, w.WriteMigrations(f.log, category))
	}
	require.NoError(t, w.Close())

	db, err := sql.Open("sqlite", out)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	var records int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM records`).Scan(&records))
	assert.Equal(t, 7, records)

	var moves int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM migrations WHERE kind = 'move'`).Scan(&moves))
	assert.Equal(t, 1, moves)
}
