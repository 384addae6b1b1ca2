package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"itemfinder/internal/search"
)

func interactiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "interactive",
		Short: "Search terms read line by line from stdin",
		Long: "Each line is a search term. A new line supersedes a search still in progress.\n" +
			"`:reload` reloads the catalog and `:quit` exits.",
		Args: cobra.NoArgs,
		RunE: runInteractive,
	}
}

func runInteractive(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, cat, err := loadProject(ctx)
	if err != nil {
		return err
	}

	cache := search.NewCache(cat)
	session := search.NewSession(cache)
	defer session.Close()

	var mu sync.Mutex
	out := os.Stdout
	printf := func(format string, a ...any) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(out, format, a...)
	}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case ":quit":
			session.Wait()
			return nil
		case ":reload":
			reloaded, err := loadCatalog(ctx, cfg, newLogger())
			if err != nil {
				printf("reload failed: %v\n", err)
				continue
			}
			cache.Reload(reloaded)
			printf("Reloaded %d templates.\n", reloaded.Len())
			continue
		}

		term := line
		session.Submit(ctx, term, func(rs *search.ResultSet, err error) {
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				fmt.Fprintf(out, "search failed: %v\n", err)
				return
			}
			writeResults(out, term, rs)
			fmt.Fprintln(out)
		})
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading terms: %w", err)
	}
	session.Wait()
	return nil
}
