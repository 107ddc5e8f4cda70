package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/lessonkit/inversetrig"
)

func versionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print version, commit, and build information for the lesson CLI.`,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			v := version
			if v == "dev" {
				v = inversetrig.Version
			}
			if short {
				fmt.Fprintln(out, v)
				return
			}

			fmt.Fprintf(out, "  Version:    %s\n", v)
			fmt.Fprintf(out, "  Commit:     %s\n", commit)
			fmt.Fprintf(out, "  Built:      %s\n", date)
			fmt.Fprintf(out, "  Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only version number")

	return cmd
}
