package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var resetAPIKey string

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every stored item",
	Long: `Deletes all items and chunks. Requires the admin key configured as
admin.api_key or ADMIN_API_KEY. Without --api-key the key is read from the
terminal without echo.`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

func init() {
	resetCmd.Flags().StringVar(&resetAPIKey, "api-key", "", "admin API key")
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, _ []string) error {
	if adminService == nil {
		return errAdminNotConfigured
	}

	key := resetAPIKey
	if key == "" {
		cmd.Print("Admin API key: ")
		key = readPassword(cmd.InOrStdin())
		cmd.Println()
	}
	if key == "" {
		return errors.New("admin API key is required")
	}

	if err := adminService.Reset(cmd.Context(), key); err != nil {
		return fmt.Errorf("reset failed: %w", err)
	}

	cmd.Println("All data has been reset.")
	return nil
}

// readPassword reads a line without echo when in is a terminal.
//
//nolint:errcheck // CLI helper, error ignored for UX
func readPassword(in io.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(in)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}
