package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/recall/internal/core/domain"
)

// sourceExcerptRunes bounds each source line printed under an answer.
const sourceExcerptRunes = 200

var queryJSON bool

var queryCmd = &cobra.Command{
	Use:   "query <question>",
	Short: "Answer a question from stored knowledge",
	Long: `Answers a question using the stored chunks most similar to it.
The chunks used are listed under the answer with their similarity scores.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if queryService == nil {
		return errQueryNotConfigured
	}

	answer, err := queryService.Query(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	if answer.Sources == nil {
		answer.Sources = []domain.Source{}
	}

	if queryJSON {
		return printJSON(cmd, answer)
	}

	cmd.Println(answer.Answer)
	if len(answer.Sources) == 0 {
		return nil
	}

	cmd.Println()
	cmd.Println("Sources:")
	for i, src := range answer.Sources {
		cmd.Printf("  [%d] %.3f  %s\n", i+1, src.Score, truncate(src.Text, sourceExcerptRunes))
	}
	return nil
}

// truncate flattens whitespace and cuts text to n runes.
func truncate(text string, n int) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n-3]) + "..."
}
