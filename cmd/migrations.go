package cmd

import (
	"fmt"

	"github.com/ohler55/ojg/oj"
	"github.com/spf13/cobra"

	"github.com/culinary-data/larder/migrate"
)

var (
	migrationsSince int64
	migrationsJSON  bool
)

var migrationsCmd = &cobra.Command{
	Use:   "migrations [category]",
	Short: "Replay a category's migration log after a checkpoint",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		l := migrate.Open(cfg.Root)
		ms, err := l.Migrations(args[0], migrationsSince)
		if err != nil {
			return err
		}

		if migrationsJSON {
			fmt.Println(oj.JSON(ms, 2))
			return nil
		}
		for _, m := range ms {
			fmt.Printf("%s:\n", m.Timestamp)
			for _, ref := range m.Add {
				fmt.Printf("  A %s\n", ref)
			}
			for _, ref := range m.Update {
				fmt.Printf("  U %s\n", ref)
			}
			for _, ref := range m.Delete {
				fmt.Printf("  D %s\n", ref)
			}
			for _, mv := range m.Move {
				fmt.Printf("  M %s -> %s\n", mv.From, mv.To)
			}
		}
		return nil
	},
}

func init() {
	migrationsCmd.Flags().Int64Var(&migrationsSince, "since", migrate.Start, "Only replay migrations strictly after this timestamp")
	migrationsCmd.Flags().BoolVar(&migrationsJSON, "json", false, "Emit the change-sets as JSON")
	rootCmd.AddCommand(migrationsCmd)
}
