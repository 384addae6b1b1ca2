package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"itemfinder/internal/search"
)

func searchCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Count occurrences of an item by location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, cat, err := loadProject(ctx)
			if err != nil {
				return err
			}
			rs, err := search.Search(ctx, args[0], cat)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(os.Stdout, rs)
			}
			writeResults(os.Stdout, args[0], rs)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result set as JSON")
	return cmd
}

func writeResults(out io.Writer, term string, rs *search.ResultSet) {
	for _, w := range rs.Warnings {
		fmt.Fprintf(out, "warning: %s %s: %s\n", w.Kind, w.Subject, w.Message)
	}
	if rs.Empty() {
		fmt.Fprintf(out, "The item '%s' was not found in any location.\n", term)
		return
	}

	fmt.Fprintf(out, "Count by location for '%s':\n", term)
	for _, entry := range search.Order(rs) {
		fmt.Fprintf(out, "%s - count: %d\n", entry.Location, entry.Result.TotalCount)
		if entry.Result.StaticCount > 0 {
			fmt.Fprintf(out, "\tplaced: %d\n", entry.Result.StaticCount)
		}
		for _, src := range entry.Sources() {
			if src.Instances > 0 {
				fmt.Fprintf(out, "\t%s: %d (%d placed)\n", src.Name, src.Count, src.Instances)
				continue
			}
			fmt.Fprintf(out, "\t%s: %d\n", src.Name, src.Count)
		}
	}
	fmt.Fprintf(out, "\nTotal occurrences: %d\n", rs.TotalCount)
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
