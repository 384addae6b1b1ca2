package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"itemfinder/internal/catalog"
	"itemfinder/internal/search"
)

// Finder answers item queries against a loaded catalog. *search.Cache
// implements it.
type Finder interface {
	Search(ctx context.Context, term string) (*search.ResultSet, error)
	Catalog() *catalog.Catalog
}

type Server struct {
	finder Finder
	mcp    *sdk.Server
}

func NewServer(finder Finder, version string) *Server {
	s := &Server{
		finder: finder,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "itemfinder",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return s.mcp.Run(ctx, transport)
}
