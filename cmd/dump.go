package cmd

import (
	"fmt"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"

	"github.com/culinary-data/larder/catalog"
)

var dumpPath string

var dumpCmd = &cobra.Command{
	Use:   "dump [category]",
	Short: "Materialize a category into one nested JSON document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		c := catalog.Open(cfg.Root)
		tree, err := c.Aggregate(args[0])
		if err != nil {
			return err
		}

		var out any = tree
		if dumpPath != "" {
			expr, err := jp.ParseString(dumpPath)
			if err != nil {
				return fmt.Errorf("parse path %q: %w", dumpPath, err)
			}
			matches := expr.Get(tree)
			switch len(matches) {
			case 0:
				out = nil
			case 1:
				out = matches[0]
			default:
				out = matches
			}
		}

		fmt.Println(oj.JSON(out, 2))
		return nil
	},
}

func init() {
	dumpCmd.Flags().StringVarP(&dumpPath, "path", "p", "", "JSONPath filter applied to the materialized tree")
	rootCmd.AddCommand(dumpCmd)
}
