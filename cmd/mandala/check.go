package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Crazzygamerr/zen-mandala/pkg/mandala"
)

var (
	accent  = lipgloss.Color("#FF0000")
	warning = lipgloss.Color("#FFAA00")
	muted   = lipgloss.Color("#666666")
	success = lipgloss.Color("#00CC66")
	white   = lipgloss.Color("#FFFFFF")
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(white)
	errorStyle   = lipgloss.NewStyle().Foreground(accent).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(warning)
	mutedStyle   = lipgloss.NewStyle().Foreground(muted)
	successStyle = lipgloss.NewStyle().Foreground(success).Bold(true)
)

func (c *cli) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <input>",
		Short: "Load and validate a composition",
		Long: `Load a document or script and report its problems: nodes that could not
be read, graphics commands that do not replay, empty or hidden layers.
Exits with status 1 when any error is found; warnings alone pass.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.check(cmd.Context(), args[0])
		},
	}
}

func (c *cli) check(ctx context.Context, path string) error {
	comp, err := load(ctx, path, c.cfg)
	var le *mandala.LoadError
	var loadProblems []error
	switch {
	case errors.As(err, &le):
		loadProblems = le.Errs
	case err != nil:
		var se *ScriptError
		if errors.As(err, &se) {
			fmt.Fprintln(c.out, titleStyle.Render(path))
			for _, e := range se.Errors {
				fmt.Fprintf(c.out, "  %s %s\n", errorStyle.Render("error"), e.Error())
			}
			return errCheckFailed
		}
		return err
	}

	issues := mandala.Validate(comp)
	fmt.Fprintf(c.out, "%s %s\n", titleStyle.Render(path),
		mutedStyle.Render(fmt.Sprintf("%d layers, %dx%d", comp.Len(), comp.Options().Width, comp.Options().Height)))

	failed := len(loadProblems) > 0
	for _, e := range loadProblems {
		fmt.Fprintf(c.out, "  %s %s\n", errorStyle.Render("error"), e)
	}
	for _, v := range issues {
		label := warningStyle.Render("warn ")
		if v.Severity == mandala.SeverityError {
			label = errorStyle.Render("error")
			failed = true
		}
		fmt.Fprintf(c.out, "  %s %s\n", label, issueText(v))
	}

	if failed {
		return errCheckFailed
	}
	if len(issues) == 0 {
		fmt.Fprintln(c.out, "  "+successStyle.Render("ok"))
	}
	return nil
}

// issueText is v without its severity prefix.
func issueText(v mandala.ValidationIssue) string {
	switch {
	case v.Layer == "":
		return v.Message
	case v.Path == "":
		return fmt.Sprintf("layer %q: %s", v.Layer, v.Message)
	default:
		return fmt.Sprintf("layer %q %s: %s", v.Layer, v.Path, v.Message)
	}
}
