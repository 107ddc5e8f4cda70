package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lessonkit/inversetrig"
	"github.com/lessonkit/inversetrig/pkg/publish"
	"github.com/lessonkit/inversetrig/pkg/server"
)

func renderCmd() *cobra.Command {
	var (
		output string
		dir    string
		format string
		sets   []string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the lesson as static HTML or Markdown",
		Long: `Render the lesson without a live connection.

The page is rendered with the default variables, or with the values
given by --set. With --dir the full static site is written: index.html,
lesson.css and lesson.md.

Examples:
  lesson render > lesson.html
  lesson render --format=md --set sineValue=0.5
  lesson render --dir=site`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			artifacts, err := snapshot(sets)
			if err != nil {
				return err
			}

			if dir != "" {
				if err := writeArtifacts(dir, artifacts); err != nil {
					return err
				}
				success(cmd, "Wrote %d files to %s", len(artifacts), dir)
				return nil
			}

			name := "index.html"
			if format == "md" || format == "markdown" {
				name = "lesson.md"
			}
			body := artifactBody(artifacts, name)

			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(body)
				return err
			}
			return os.WriteFile(output, body, 0o644)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Write the whole static site to this directory")
	cmd.Flags().StringVarP(&format, "format", "f", "html", "Output format: html or md")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Set a variable (name=value), repeatable")

	return cmd
}

// snapshot renders the lesson with the --set values.
func snapshot(sets []string) ([]publish.Artifact, error) {
	values, err := inversetrig.ParseAssignments(sets)
	if err != nil {
		return nil, err
	}
	p, err := inversetrig.NewPage(values)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	return publish.Snapshot(p, server.Stylesheet())
}

func writeArtifacts(dir string, artifacts []publish.Artifact) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, a := range artifacts {
		if err := os.WriteFile(filepath.Join(dir, a.Name), a.Body, 0o644); err != nil {
			return err
		}
	}
	return nil
}

func artifactBody(artifacts []publish.Artifact, name string) []byte {
	for _, a := range artifacts {
		if a.Name == name {
			return a.Body
		}
	}
	return nil
}
