package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "lazyfilter",
	Short: "Filter database tables with compact query strings",
	Long: `lazyfilter compiles filter strings such as "age=gt_30&name=lk_*jo*"
into SQL conditions and runs them against PostgreSQL or SQLite tables.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default: search the user config dir, . and ./config)")
	rootCmd.AddCommand(explainCmd, queryCmd, serveCmd, consoleCmd, historyCmd, passwordCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
