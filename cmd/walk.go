package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/culinary-data/larder/api"
	"github.com/culinary-data/larder/catalog"
)

var walkCmd = &cobra.Command{
	Use:   "walk [category]",
	Short: "Stream a category in traversal order, showing each record's ancestor chain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		c := catalog.Open(cfg.Root)
		total, err := catalog.Fold(c, args[0], 0,
			func(info api.Info, ancestors []api.ContextEntry, n int) (int, error) {
				label := "(unnamed)"
				if name, ok := info["name"].(string); ok {
					label = name
				}
				names := make([]string, len(ancestors))
				for i, a := range ancestors {
					names[i] = a.Name
				}
				fmt.Printf("%-32s < %s\n", label, strings.Join(names, " < "))
				return n + 1, nil
			})
		if err != nil {
			return err
		}
		fmt.Printf("%d records.\n", total)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(walkCmd)
}
