package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the zbd-mcp application
var rootCmd = &cobra.Command{
	Use:   "zbd-mcp",
	Short: "MCP server for ZBD Bitcoin Lightning payments",
	Long: `zbd-mcp exposes the ZBD payments API as Model Context Protocol tools,
so AI assistants can send and request Bitcoin Lightning payments.

It serves over stdio (default) or the streamable HTTP transport.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "zbd-mcp version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
}
