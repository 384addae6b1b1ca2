package validate

import (
	"fmt"
	"sort"
	"strings"

	"itemfinder/internal/catalog"
)

type Severity string

const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warning"
)

const (
	codeUnknownItemReference = "unknown_item_reference"
	codeUnplacedTemplate     = "unplaced_template"
	codeDanglingPlacement    = "dangling_placement"
	codeInvalidInstanceCount = "invalid_instance_count"
	codeDuplicateName        = "duplicate_name"
	codeMissingRecord        = "missing_record"
)

type Issue struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Template string   `json:"template,omitempty"`
	Location string   `json:"location,omitempty"`
}

type Report struct {
	Issues []Issue `json:"issues"`
}

func (r *Report) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

func (r *Report) Count(severity Severity) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == severity {
			n++
		}
	}
	return n
}

// Run checks a catalog for references and placements the search phases
// cannot account for. Issues are ordered by template, then location.
func Run(cat *catalog.Catalog) (*Report, error) {
	if cat == nil {
		return nil, fmt.Errorf("catalog is required")
	}

	issues := make([]Issue, 0)
	issues = append(issues, validateReferences(cat)...)
	issues = append(issues, validatePlacements(cat)...)
	issues = append(issues, validateNames(cat)...)

	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Template != issues[j].Template {
			return issues[i].Template < issues[j].Template
		}
		return issues[i].Location < issues[j].Location
	})

	for _, w := range cat.Warnings() {
		if w.Kind != catalog.WarnMissingRecord {
			continue
		}
		issues = append(issues, Issue{
			Severity: SeverityWarn,
			Code:     codeMissingRecord,
			Message:  fmt.Sprintf("record %s unreadable: %s", w.Subject, w.Message),
		})
	}

	return &Report{Issues: issues}, nil
}

func validateReferences(cat *catalog.Catalog) []Issue {
	loc := catalog.NewLocator(cat)

	var issues []Issue
	for _, kind := range []catalog.Kind{catalog.KindContainer, catalog.KindNPC} {
		cat.EachTemplate(kind, func(name string, items []catalog.ItemRef) bool {
			seen := make(map[string]bool)
			for _, item := range items {
				if cat.IsItem(item.Name) || seen[item.Name] {
					continue
				}
				seen[item.Name] = true
				issues = append(issues, Issue{
					Severity: SeverityWarn,
					Code:     codeUnknownItemReference,
					Message:  fmt.Sprintf("%s %s lists %q which is not an item template", kind, name, item.Name),
					Template: name,
				})
			}
			if !loc.Placed(name) {
				issues = append(issues, Issue{
					Severity: SeverityWarn,
					Code:     codeUnplacedTemplate,
					Message:  fmt.Sprintf("%s %s is never placed", kind, name),
					Template: name,
				})
			}
			return true
		})
	}
	return issues
}

func validatePlacements(cat *catalog.Catalog) []Issue {
	loc := catalog.NewLocator(cat)

	var issues []Issue
	for _, name := range cat.PlacedTemplates() {
		if _, ok := cat.Template(name); !ok {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Code:     codeDanglingPlacement,
				Message:  fmt.Sprintf("placement of unknown template %s", name),
				Template: name,
			})
		}
		loc.Each(name, func(location string, instances int) {
			if instances < 1 {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Code:     codeInvalidInstanceCount,
					Message:  fmt.Sprintf("%s placed %d times in %s", name, instances, location),
					Template: name,
					Location: location,
				})
			}
		})
	}
	return issues
}

// validateNames reports templates whose names differ only by case; cell
// references to either resolve ambiguously.
func validateNames(cat *catalog.Catalog) []Issue {
	byLower := make(map[string][]string)
	for _, kind := range []catalog.Kind{catalog.KindItem, catalog.KindContainer, catalog.KindNPC} {
		for _, tmpl := range cat.Templates(kind) {
			key := strings.ToLower(tmpl.Name)
			byLower[key] = append(byLower[key], tmpl.Name)
		}
	}

	var issues []Issue
	for _, names := range byLower {
		if len(names) < 2 {
			continue
		}
		sort.Strings(names)
		for _, name := range names[1:] {
			issues = append(issues, Issue{
				Severity: SeverityWarn,
				Code:     codeDuplicateName,
				Message:  fmt.Sprintf("template %s differs from %s only by case", name, names[0]),
				Template: name,
			})
		}
	}
	return issues
}
