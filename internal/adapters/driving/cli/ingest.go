package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/recall/internal/core/domain"
)

var (
	ingestURL  string
	ingestFile string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [text]",
	Short: "Add a note, file or web page",
	Long: `Adds content to the knowledge base.

Exactly one source is used:
  recall ingest "some text"          store a note
  recall ingest --url https://...    fetch a page and store its readable text
  recall ingest --file notes.pdf     read a .txt, .md, .html or .pdf file
  echo "text" | recall ingest        read a note from stdin`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestURL, "url", "", "web page to ingest")
	ingestCmd.Flags().StringVarP(&ingestFile, "file", "f", "", "file to ingest")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errIngestNotConfigured
	}

	content, err := ingestContent(cmd, args)
	if err != nil {
		return err
	}

	result, err := ingestService.Ingest(cmd.Context(), content)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	cmd.Printf("Ingested %s item %s (%d chunks)\n", result.Source, result.ItemID, result.Chunks)
	if result.Dropped > 0 {
		cmd.Printf("Warning: %d chunks beyond the per-item limit were dropped\n", result.Dropped)
	}
	return nil
}

// ingestContent picks the single content source named by the flags and args.
func ingestContent(cmd *cobra.Command, args []string) (domain.Content, error) {
	sources := 0
	for _, set := range []bool{len(args) > 0, ingestURL != "", ingestFile != ""} {
		if set {
			sources++
		}
	}
	if sources > 1 {
		return nil, errors.New("provide only one of text, --url or --file")
	}

	switch {
	case ingestURL != "":
		return domain.URLRef{URL: ingestURL}, nil

	case ingestFile != "":
		if fileReader == nil {
			return nil, errors.New("file reader not configured")
		}
		text, err := fileReader.ReadFile(ingestFile)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", ingestFile, err)
		}
		return domain.Note{Text: text, Origin: ingestFile}, nil

	case len(args) > 0:
		return domain.Note{Text: strings.Join(args, " ")}, nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return nil, errors.New("provide text, --url or --file")
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("reading stdin: %w", err)
	}
	return domain.Note{Text: string(data)}, nil
}
