package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "djangolens",
	Short: "Structural scanner for Django projects",
	Long: `djangolens statically recovers structure from Django source trees
without executing any Python: model classes with their fields, URL route
tables (including nested includes), admin registrations, and settings keys.

Every extracted entity carries a 0-based line number so editors and agents
can jump straight to the declaration.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
