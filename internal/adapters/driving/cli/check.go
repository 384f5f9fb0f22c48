package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the AI providers are reachable",
	Long: `Pings the configured embedding and LLM providers with the stored
credentials. Exits non-zero when either cannot be reached.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	if checkProviders == nil {
		return errors.New("provider check not configured")
	}

	printWarnings(cmd)
	if err := checkProviders(cmd.Context()); err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	cmd.Println("AI providers are reachable.")
	return nil
}
