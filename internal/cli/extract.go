package cli

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/djangolens/djangolens/internal/scanner"
)

// One-shot extractor commands. Each reads a single file and prints the
// extracted entities as JSON, mirroring the engine's per-file contract.

var urlPrefixFlag string

var modelsCmd = &cobra.Command{
	Use:   "models <file>",
	Short: "Extract model classes and fields from one file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printJSON(scanner.ExtractModels(args[0]))
	},
}

var urlsCmd = &cobra.Command{
	Use:   "urls <file>",
	Short: "Extract URL patterns from one file, expanding includes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printJSON(scanner.ExtractURLs(args[0], urlPrefixFlag))
	},
}

var adminCmd = &cobra.Command{
	Use:   "admin <file>",
	Short: "Extract admin registrations from one file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printJSON(scanner.ExtractAdmins(args[0]))
	},
}

var settingsCmd = &cobra.Command{
	Use:   "settings <file>",
	Short: "Extract top-level settings keys from one file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printJSON(scanner.ExtractSettings(args[0]))
	},
}

func init() {
	urlsCmd.Flags().StringVar(&urlPrefixFlag, "prefix", "", "Prefix prepended to every extracted pattern")
	rootCmd.AddCommand(modelsCmd, urlsCmd, adminCmd, settingsCmd)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
