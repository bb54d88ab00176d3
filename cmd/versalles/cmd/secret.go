package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/versalles/versalles/internal/util"
)

var secretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Generate a session secret",
	Long: `Generates a random secret suitable for SESSION_SECRET. Rotating the
secret invalidates every session cookie in circulation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := util.RandomBytes(util.AESKeySize)
		if err != nil {
			return fmt.Errorf("generating secret: %w", err)
		}
		fmt.Println(util.Base64URLEncode(raw))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(secretCmd)
}
