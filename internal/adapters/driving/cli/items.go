package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/recall/internal/core/domain"
)

var itemsJSON bool

var itemsCmd = &cobra.Command{
	Use:   "items [id]",
	Short: "List stored items",
	Long: `Lists stored items, newest first.
With an id, prints that item's full text.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runItems,
}

func init() {
	itemsCmd.Flags().BoolVar(&itemsJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(itemsCmd)
}

// itemJSON is the JSON form of an item.
type itemJSON struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Origin    string    `json:"origin,omitempty"`
	Chunks    int       `json:"chunks"`
	CreatedAt time.Time `json:"created_at"`
	Content   string    `json:"content,omitempty"`
}

func toItemJSON(item *domain.ItemSummary, withContent bool) itemJSON {
	out := itemJSON{
		ID:        item.ID,
		Source:    item.Source.String(),
		Origin:    item.Origin,
		Chunks:    item.Chunks,
		CreatedAt: item.CreatedAt.UTC(),
	}
	if withContent {
		out.Content = item.Content
	}
	return out
}

func runItems(cmd *cobra.Command, args []string) error {
	if itemService == nil {
		return errItemsNotConfigured
	}

	if len(args) == 1 {
		return showItem(cmd, args[0])
	}

	items, err := itemService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list items: %w", err)
	}

	if itemsJSON {
		out := make([]itemJSON, len(items))
		for i := range items {
			out[i] = toItemJSON(&items[i], false)
		}
		return printJSON(cmd, out)
	}

	if len(items) == 0 {
		cmd.Println("No items stored.")
		return nil
	}

	for i := range items {
		item := &items[i]
		label := item.Origin
		if label == "" {
			label = truncate(item.Content, 60)
		}
		cmd.Printf("%s  %-4s  %3d chunks  %s  %s\n",
			item.ID, item.Source, item.Chunks,
			item.CreatedAt.Local().Format("2006-01-02 15:04"), label)
	}
	return nil
}

func showItem(cmd *cobra.Command, id string) error {
	item, err := itemService.Get(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to get item: %w", err)
	}

	if itemsJSON {
		return printJSON(cmd, toItemJSON(item, true))
	}

	cmd.Printf("ID:      %s\n", item.ID)
	cmd.Printf("Source:  %s\n", item.Source)
	if item.Origin != "" {
		cmd.Printf("Origin:  %s\n", item.Origin)
	}
	cmd.Printf("Chunks:  %d\n", item.Chunks)
	cmd.Printf("Created: %s\n", item.CreatedAt.Local().Format(time.RFC3339))
	cmd.Println()
	cmd.Println(item.Content)
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
