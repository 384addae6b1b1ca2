package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"itemfinder/internal/config"
	"itemfinder/internal/ingest"
	"itemfinder/internal/source"
)

var indexFull bool

func indexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Store the catalog in the configured database",
		RunE:  runIndex,
	}
	cmd.Flags().BoolVar(&indexFull, "full", false, "Rewrite the stored catalog even if unchanged")
	return cmd
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.LoadProjectConfig(configPath)
	if err != nil {
		return err
	}
	if cfg.Source.Kind == config.SourceDatabase {
		return fmt.Errorf("index needs a records or consolidated source")
	}

	src, err := source.New(cfg, newLogger())
	if err != nil {
		return err
	}

	db, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	result, err := ingest.Run(ctx, src, db, ingest.Options{Full: indexFull})
	if err != nil {
		return err
	}

	if result.Skipped {
		fmt.Fprintln(os.Stdout, "Catalog unchanged, nothing to index.")
	} else {
		fmt.Fprintln(os.Stdout, "Indexing complete.")
	}
	fmt.Fprintf(os.Stdout, "  Templates:  %d\n", result.Templates)
	fmt.Fprintf(os.Stdout, "  Placements: %d\n", result.Placements)
	fmt.Fprintf(os.Stdout, "  Digest:     %s\n", result.Digest)

	if len(result.Warnings) > 0 {
		fmt.Fprintf(os.Stdout, "\nWarnings (%d):\n", len(result.Warnings))
		for _, w := range result.Warnings {
			fmt.Fprintf(os.Stdout, "  - %s: %s (%s)\n", w.Subject, w.Message, w.Kind)
		}
	}
	return nil
}
