package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "versalles",
	Short: "Versalles is a tabletop RPG community platform",
	Long: `The Versalles platform server: campaigns, forums, guilds, the
community workshop, and the storefront, behind a cookie-sessioned REST API.`,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
