package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/culinary-data/larder/catalog"
	"github.com/culinary-data/larder/internal/index"
	"github.com/culinary-data/larder/migrate"
)

var indexCmd = &cobra.Command{
	Use:   "index [output.db]",
	Short: "Build a SQLite index of the catalog and its migration logs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		output := args[0]

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		_ = os.Remove(output) // Overwrite
		w, err := index.NewWriter(output)
		if err != nil {
			return err
		}

		c := catalog.Open(cfg.Root)
		l := migrate.Open(cfg.Root)

		start := time.Now()
		fmt.Printf("Indexing %s into %s...\n", cfg.Root, output)
		for _, category := range cfg.Categories {
			if err := w.WriteCategory(c, category); err != nil {
				_ = w.Close()
				return err
			}
			if err := w.WriteMigrations(l, category); err != nil {
				_ = w.Close()
				return err
			}
		}
		if err := w.Close(); err != nil {
			return err
		}
		fmt.Printf("Done in %v.\n", time.Since(start))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(indexCmd)
}
