package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"itemfinder/internal/config"
)

func initCmd() *cobra.Command {
	var projectName string
	var dataDir string
	var dsn string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a new itemfinder project config",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(projectName) == "" {
				return fmt.Errorf("--name is required")
			}
			return runInit(configPath, projectName, dataDir, dsn)
		},
	}
	cmd.Flags().StringVar(&projectName, "name", "", "Project name")
	cmd.Flags().StringVar(&dataDir, "data", "./data", "Directory holding the record dataset")
	cmd.Flags().StringVar(&dsn, "dsn", "sqlite://itemfinder.db", "Database DSN used by index")
	return cmd
}

func runInit(path, projectName, dataDir, dsn string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if _, err := config.DatabaseDriver(dsn); err != nil {
		return err
	}

	layout := config.DefaultLayout()
	contents := fmt.Sprintf(`project: %s
version: 1

source:
  kind: records
  dir: %s
  concurrency: 16
  timeout: 5s

database:
  dsn: %s

locations:
  normalize: true

records:
  cells: {dir: %s, list: %s}
  containers: {dir: %s, list: %s}
  npcs: {dir: %s, list: %s}
`, projectName, dataDir, dsn,
		layout.Cells.Dir, layout.Cells.List,
		layout.Containers.Dir, layout.Containers.List,
		layout.NPCs.Dir, layout.NPCs.List)

	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
