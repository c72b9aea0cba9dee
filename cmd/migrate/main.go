// Command migrate applies db/schema.sql to the configured database with the
// atlas CLI, computing the diff against the live schema.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"service-booking/internal/pkg/config"

	"ariga.io/atlas-go-sdk/atlasexec"
)

func main() {
	var (
		schema = flag.String("schema", "db/schema.sql", "desired-state schema file")
		devURL = flag.String("dev-url", "docker://postgres/17/dev", "atlas dev database used for diffing")
		dryRun = flag.Bool("dry-run", false, "print planned statements without applying them")
	)
	flag.Parse()

	if err := run(*schema, *devURL, *dryRun); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}
}

func run(schema, devURL string, dryRun bool) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	abs, err := filepath.Abs(schema)
	if err != nil {
		return err
	}

	client, err := atlasexec.NewClient(".", "atlas")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	res, err := client.SchemaApply(ctx, &atlasexec.SchemaApplyParams{
		URL:         cfg.DB.BuildDSN(),
		To:          "file://" + abs,
		DevURL:      devURL,
		DryRun:      dryRun,
		AutoApprove: true,
	})
	if err != nil {
		return err
	}

	for _, stmt := range res.Changes.Applied {
		slog.Info("applied", "statement", stmt)
	}
	for _, stmt := range res.Changes.Pending {
		slog.Info("pending", "statement", stmt)
	}
	slog.Info("schema is up to date", "applied", len(res.Changes.Applied), "dry_run", dryRun)
	return nil
}
