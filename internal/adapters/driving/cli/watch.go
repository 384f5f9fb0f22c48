package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/recall/internal/adapters/driving/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Ingest files as they change in a directory",
	Long: `Watches a directory and ingests supported files (.txt, .md, .html,
.pdf and similar) when they are created or written. Each file becomes a note
whose origin is its path. Subdirectories are not watched.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errIngestNotConfigured
	}
	if fileReader == nil {
		return errors.New("file reader not configured")
	}

	w, err := watch.New(watch.Config{
		Dir: args[0],
		OnResult: func(r watch.Result) {
			if r.Err != nil {
				cmd.PrintErrf("skipped %s: %v\n", r.Path, r.Err)
				return
			}
			cmd.Printf("ingested %s as %s (%d chunks)\n", r.Path, r.Ingest.ItemID, r.Ingest.Chunks)
		},
	}, ingestService, fileReader)
	if err != nil {
		return err
	}

	printWarnings(cmd)
	cmd.Printf("Watching %s (ctrl+c to stop)\n", args[0])
	return w.Run(cmd.Context())
}
