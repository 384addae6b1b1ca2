package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"itemfinder/internal/catalog"
)

func locateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "locate <template>",
		Short: "List where a template is placed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cat, err := loadProject(cmd.Context())
			if err != nil {
				return err
			}
			name := args[0]
			loc := catalog.NewLocator(cat)
			if !loc.Placed(name) {
				fmt.Fprintf(os.Stdout, "%s is not placed anywhere.\n", name)
				return nil
			}
			loc.Each(name, func(location string, instances int) {
				if region := cat.Region(location); region != "" {
					fmt.Fprintf(os.Stdout, "%s [%s]: %d\n", location, region, instances)
					return
				}
				fmt.Fprintf(os.Stdout, "%s: %d\n", location, instances)
			})
			return nil
		},
	}
}
