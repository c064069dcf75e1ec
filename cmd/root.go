package cmd

import (
	"os"

	"github.com/containerd/log"
	"github.com/spf13/cobra"
)

var (
	cfgPath string
	rootDir string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:          "larder",
	Short:        "Larder: culinary data catalog tooling",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			return log.SetLevel("debug")
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "Path to a larder.hcl config file")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "root", "r", "", "Path to the data root (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "debug", false, "Enable debug logging")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
