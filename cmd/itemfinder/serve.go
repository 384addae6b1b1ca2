package main

import (
	"github.com/spf13/cobra"

	"itemfinder/internal/mcp"
	"itemfinder/internal/search"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server over stdio",
		RunE:  runServe,
	}
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	_, cat, err := loadProject(ctx)
	if err != nil {
		return err
	}

	server := mcp.NewServer(search.NewCache(cat), version)
	return server.Run(ctx, &sdk.StdioTransport{})
}
