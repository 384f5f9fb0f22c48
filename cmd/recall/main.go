// Command recall stores notes and web pages and answers questions about them.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/recall/internal/adapters/driving/cli"
	"github.com/custodia-labs/recall/internal/app"
)

func main() {
	// A .env in the working directory is optional.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: loading .env: %v\n", err)
	}

	cli.SetBootstrap(bootstrap)

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func bootstrap(f cli.Flags) (*cli.Runtime, error) {
	a, err := app.New(app.Options{
		ConfigDir:    f.ConfigDir,
		DataDir:      f.DataDir,
		Ephemeral:    f.Ephemeral,
		SettingsOnly: f.SettingsOnly,
	})
	if err != nil {
		return nil, err
	}

	rt := &cli.Runtime{
		Settings: a.SettingsService,
		Close:    a.Close,
	}
	if f.SettingsOnly {
		return rt, nil
	}

	rt.Ingest = a.IngestService
	rt.Query = a.QueryService
	rt.Items = a.ItemService
	rt.Admin = a.AdminService
	rt.Files = a.Files
	rt.Metrics = a.Metrics.Handler()
	rt.Check = a.Check
	rt.Listen = a.Settings.Server.Listen
	rt.Warnings = a.Warnings
	return rt, nil
}
