package mcp

import (
	"context"
	"fmt"
	"strings"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"itemfinder/internal/catalog"
	"itemfinder/internal/search"
	"itemfinder/internal/validate"
)

type FindItemInput struct {
	Term  string `json:"term" jsonschema:"item name or name fragment, matched on whole words; an empty term matches nothing"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of locations to return"`
}

type LocateTemplateInput struct {
	Name string `json:"name" jsonschema:"exact template name"`
}

type ListTemplatesInput struct {
	Kind   string `json:"kind" jsonschema:"item, container, or npc"`
	Prefix string `json:"prefix,omitempty" jsonschema:"case-insensitive name prefix"`
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum number of names to return"`
}

type ValidateCatalogInput struct{}

type SourceOutput struct {
	Kind      string `json:"kind"`
	Name      string `json:"name"`
	Count     int    `json:"count"`
	Instances int    `json:"instances,omitempty"`
}

type LocationOutput struct {
	Location    string         `json:"location"`
	Region      string         `json:"region,omitempty"`
	TotalCount  int            `json:"total_count"`
	StaticCount int            `json:"static_count"`
	Sources     []SourceOutput `json:"sources"`
}

type FindItemOutput struct {
	Term       string            `json:"term"`
	TotalCount int               `json:"total_count"`
	Locations  []LocationOutput  `json:"locations"`
	Truncated  bool              `json:"truncated,omitempty"`
	Warnings   []catalog.Warning `json:"warnings,omitempty"`
}

type PlacementOutput struct {
	Location  string `json:"location"`
	Region    string `json:"region,omitempty"`
	Instances int    `json:"instances"`
}

type LocateTemplateOutput struct {
	Name       string            `json:"name"`
	Kind       string            `json:"kind,omitempty"`
	Items      []catalog.ItemRef `json:"items,omitempty"`
	Placements []PlacementOutput `json:"placements"`
}

type ListTemplatesOutput struct {
	Names     []string `json:"names"`
	Truncated bool     `json:"truncated,omitempty"`
}

type ValidateCatalogOutput struct {
	Errors   int              `json:"errors"`
	Warnings int              `json:"warnings"`
	Issues   []validate.Issue `json:"issues"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "find_item",
		Description: "Count where an item can be found, by location, across placements, containers and NPC inventories",
	}, s.handleFindItem)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "locate_template",
		Description: "List the locations where a template is placed and the instance count in each",
	}, s.handleLocateTemplate)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_templates",
		Description: "List template names of one kind",
	}, s.handleListTemplates)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "validate_catalog",
		Description: "Check the loaded catalog for dangling references and placements",
	}, s.handleValidateCatalog)
}

func (s *Server) handleFindItem(ctx context.Context, req *sdk.CallToolRequest, input FindItemInput) (*sdk.CallToolResult, FindItemOutput, error) {
	if input.Limit < 0 {
		return nil, FindItemOutput{}, fmt.Errorf("limit must not be negative")
	}
	rs, err := s.finder.Search(ctx, input.Term)
	if err != nil {
		return nil, FindItemOutput{}, err
	}

	cat := s.finder.Catalog()
	entries := search.Order(rs)
	output := FindItemOutput{
		Term:       strings.TrimSpace(input.Term),
		TotalCount: rs.TotalCount,
		Locations:  make([]LocationOutput, 0, len(entries)),
		Warnings:   rs.Warnings,
	}
	if input.Limit > 0 && len(entries) > input.Limit {
		entries = entries[:input.Limit]
		output.Truncated = true
	}
	for _, entry := range entries {
		output.Locations = append(output.Locations, locationOutputFromEntry(entry, cat.Region(entry.Location)))
	}
	return nil, output, nil
}

func (s *Server) handleLocateTemplate(ctx context.Context, req *sdk.CallToolRequest, input LocateTemplateInput) (*sdk.CallToolResult, LocateTemplateOutput, error) {
	if input.Name == "" {
		return nil, LocateTemplateOutput{}, fmt.Errorf("name is required")
	}
	cat := s.finder.Catalog()
	tmpl, known := cat.Template(input.Name)
	loc := catalog.NewLocator(cat)
	if !known && !loc.Placed(input.Name) {
		return nil, LocateTemplateOutput{}, fmt.Errorf("template not found")
	}

	output := LocateTemplateOutput{
		Name:       input.Name,
		Kind:       string(tmpl.Kind),
		Items:      tmpl.Items,
		Placements: make([]PlacementOutput, 0),
	}
	loc.Each(input.Name, func(location string, instances int) {
		output.Placements = append(output.Placements, PlacementOutput{
			Location:  location,
			Region:    cat.Region(location),
			Instances: instances,
		})
	})
	return nil, output, nil
}

func (s *Server) handleListTemplates(ctx context.Context, req *sdk.CallToolRequest, input ListTemplatesInput) (*sdk.CallToolResult, ListTemplatesOutput, error) {
	kind, err := catalog.ParseKind(input.Kind)
	if err != nil {
		return nil, ListTemplatesOutput{}, err
	}
	prefix := strings.ToLower(input.Prefix)

	output := ListTemplatesOutput{Names: make([]string, 0)}
	s.finder.Catalog().EachTemplate(kind, func(name string, _ []catalog.ItemRef) bool {
		if !strings.HasPrefix(strings.ToLower(name), prefix) {
			return true
		}
		if input.Limit > 0 && len(output.Names) == input.Limit {
			output.Truncated = true
			return false
		}
		output.Names = append(output.Names, name)
		return true
	})
	return nil, output, nil
}

func (s *Server) handleValidateCatalog(ctx context.Context, req *sdk.CallToolRequest, input ValidateCatalogInput) (*sdk.CallToolResult, ValidateCatalogOutput, error) {
	report, err := validate.Run(s.finder.Catalog())
	if err != nil {
		return nil, ValidateCatalogOutput{}, err
	}
	return nil, ValidateCatalogOutput{
		Errors:   report.Count(validate.SeverityError),
		Warnings: report.Count(validate.SeverityWarn),
		Issues:   report.Issues,
	}, nil
}

func locationOutputFromEntry(entry search.Entry, region string) LocationOutput {
	sources := entry.Sources()
	out := LocationOutput{
		Location:    entry.Location,
		Region:      region,
		TotalCount:  entry.Result.TotalCount,
		StaticCount: entry.Result.StaticCount,
		Sources:     make([]SourceOutput, 0, len(sources)),
	}
	for _, src := range sources {
		out.Sources = append(out.Sources, SourceOutput{
			Kind:      string(src.Kind),
			Name:      src.Name,
			Count:     src.Count,
			Instances: src.Instances,
		})
	}
	return out
}
