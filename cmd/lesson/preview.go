package main

import (
	"github.com/spf13/cobra"

	"github.com/lessonkit/inversetrig"
	"github.com/lessonkit/inversetrig/internal/preview"
)

func previewCmd() *cobra.Command {
	var (
		width   int
		style   string
		noColor bool
		sets    []string
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Print the lesson in the terminal",
		Long: `Print the lesson as styled text, with the current value of every
variable and a one-line description of each widget.

Examples:
  lesson preview
  lesson preview --set angleValue=2.5 --width=100
  lesson preview --no-color | less`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := inversetrig.ParseAssignments(sets)
			if err != nil {
				return err
			}
			p, err := inversetrig.NewPage(values)
			if err != nil {
				return err
			}
			defer p.Close()

			opts := preview.Options{Width: width, Style: style}
			if noColor {
				off := false
				opts.Color = &off
			}
			return preview.Render(cmd.OutOrStdout(), p, opts)
		},
	}

	cmd.Flags().IntVarP(&width, "width", "w", 80, "Wrap text at this many columns")
	cmd.Flags().StringVar(&style, "style", "", "Glamour style: dark, light, notty or auto")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colors")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Set a variable (name=value), repeatable")

	return cmd
}
