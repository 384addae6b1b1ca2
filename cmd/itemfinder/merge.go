package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"itemfinder/internal/source"
)

func mergeCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Write the loaded catalog as one consolidated document",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cat, err := loadProject(cmd.Context())
			if err != nil {
				return err
			}
			if err := source.WriteFile(out, cat); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "Wrote %d templates and %d placements to %s.\n", cat.Len(), cat.PlacementCount(), out)
			if n := len(cat.Warnings()); n > 0 {
				fmt.Fprintf(os.Stdout, "  %d records could not be read.\n", n)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "alldata.json", "Output file")
	return cmd
}
