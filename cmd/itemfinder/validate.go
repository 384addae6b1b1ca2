package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"itemfinder/internal/validate"
)

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Run consistency checks against the catalog",
		RunE:  runValidate,
	}
	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	_, cat, err := loadProject(cmd.Context())
	if err != nil {
		return err
	}

	report, err := validate.Run(cat)
	if err != nil {
		return err
	}

	var errorIssues []validate.Issue
	var warnIssues []validate.Issue
	for _, issue := range report.Issues {
		switch issue.Severity {
		case validate.SeverityError:
			errorIssues = append(errorIssues, issue)
		case validate.SeverityWarn:
			warnIssues = append(warnIssues, issue)
		}
	}

	if len(errorIssues) == 0 && len(warnIssues) == 0 {
		fmt.Fprintln(os.Stdout, "No issues found.")
		return nil
	}

	if len(errorIssues) > 0 {
		fmt.Fprintf(os.Stdout, "Errors (%d):\n", len(errorIssues))
		printIssues(os.Stdout, errorIssues)
	}
	if len(warnIssues) > 0 {
		if len(errorIssues) > 0 {
			fmt.Fprintln(os.Stdout, "")
		}
		fmt.Fprintf(os.Stdout, "Warnings (%d):\n", len(warnIssues))
		printIssues(os.Stdout, warnIssues)
	}

	if report.HasErrors() {
		return fmt.Errorf("validation found errors")
	}
	return nil
}

func printIssues(out io.Writer, issues []validate.Issue) {
	for _, issue := range issues {
		subject := issue.Template
		if issue.Location != "" {
			subject = fmt.Sprintf("%s [%s]", issue.Template, issue.Location)
		}
		if subject == "" {
			fmt.Fprintf(out, "  - %s (%s)\n", issue.Message, issue.Code)
			continue
		}
		fmt.Fprintf(out, "  - %s: %s (%s)\n", subject, issue.Message, issue.Code)
	}
}
