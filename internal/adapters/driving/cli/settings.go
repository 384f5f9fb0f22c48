package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/recall/internal/core/services"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and change settings stored in config.toml.

Environment variables (JINA_API_KEY, GROQ_API_KEY, OPENAI_API_KEY,
ADMIN_API_KEY, RECALL_LISTEN) override stored values.`,
	Annotations: map[string]string{annotationSettingsOnly: "true"},
	RunE:        runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Store a setting",
	Long: `Stores a single setting in config.toml.

Run 'recall settings keys' to list recognised keys.`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List recognised setting keys",
	Args:  cobra.NoArgs,
	RunE:  runSettingsKeys,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Embedding]")
	cmd.Printf("  Provider: %s\n", settings.Embedding.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.Embedding.Model)
	printOptional(cmd, "Base URL", settings.Embedding.BaseURL)
	cmd.Printf("  API Key: %s\n", maskedOrUnset("embedding.api_key", settings.Embedding.APIKey))
	cmd.Printf("  Dimensions: %d\n", settings.Embedding.Dimensions)
	cmd.Printf("  Batch Size: %d\n", settings.Embedding.BatchSize)
	cmd.Printf("  Timeout: %s\n", settings.Embedding.Timeout)
	cmd.Printf("  Status: %s\n", configuredLabel(settings.Embedding.IsConfigured()))
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.LLM.Model)
	printOptional(cmd, "Base URL", settings.LLM.BaseURL)
	cmd.Printf("  API Key: %s\n", maskedOrUnset("llm.api_key", settings.LLM.APIKey))
	cmd.Printf("  Timeout: %s\n", settings.LLM.Timeout)
	cmd.Printf("  Status: %s\n", configuredLabel(settings.LLM.IsConfigured()))
	cmd.Println()

	cmd.Println("[Extractor]")
	cmd.Printf("  Reader URL: %s\n", settings.Extractor.ReaderURL)
	cmd.Printf("  API Key: %s\n", maskedOrUnset("extractor.api_key", settings.Extractor.APIKey))
	cmd.Printf("  Timeout: %s\n", settings.Extractor.Timeout)
	cmd.Println()

	cmd.Println("[Ingest]")
	cmd.Printf("  Chunk Size: %d\n", settings.Ingest.ChunkSize)
	cmd.Printf("  Chunk Overlap: %d\n", settings.Ingest.ChunkOverlap)
	cmd.Printf("  Max Chunks: %d\n", settings.Ingest.MaxChunks)
	cmd.Printf("  Min Length: %d\n", settings.Ingest.MinLength)
	cmd.Println()

	cmd.Println("[Query]")
	cmd.Printf("  Top K: %d\n", settings.Query.TopK)
	cmd.Println()

	cmd.Println("[Server]")
	cmd.Printf("  Listen: %s\n", settings.Server.Listen)
	cmd.Printf("  Admin Key: %s\n", maskedOrUnset("admin.api_key", settings.Admin.APIKey))

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	key, value := strings.TrimSpace(args[0]), strings.TrimSpace(args[1])
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("%s = %s\n", key, services.MaskSecret(key, value))
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errSettingsNotConfigured
	}

	keys := settingsService.Keys()
	if len(keys) == 0 {
		return errors.New("no setting keys available")
	}
	for _, k := range keys {
		cmd.Println(k)
	}
	return nil
}

func printOptional(cmd *cobra.Command, label, value string) {
	if value != "" {
		cmd.Printf("  %s: %s\n", label, value)
	}
}

func maskedOrUnset(key, value string) string {
	if value == "" {
		return "(not set)"
	}
	return services.MaskSecret(key, value)
}

func configuredLabel(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}
