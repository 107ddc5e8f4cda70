package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lessonkit/inversetrig/internal/config"
	lerrors "github.com/lessonkit/inversetrig/internal/errors"
	"github.com/lessonkit/inversetrig/internal/preview"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if !preview.IsTerminal(os.Stderr) {
		lerrors.DisableColors()
	}

	if err := newRootCmd().Execute(); err != nil {
		lerrors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

// rootOptions holds the flags shared by every command.
type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "lesson",
		Short: "Serve the inverse trigonometry lesson",
		Long: `lesson serves an interactive inverse trigonometry lesson.

Readers drag an angle around a unit circle and pick a sine value to see
both angles that produce it. The page is rendered on the server and kept
live over a WebSocket.

Configuration is read from lesson.yaml, lesson.yml or lesson.json in the
working directory, then from LESSON_* environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Configuration file (default: lesson.yaml in the working directory)")

	rootCmd.AddCommand(
		serveCmd(opts),
		renderCmd(),
		previewCmd(),
		publishCmd(opts),
		versionCmd(),
	)

	return rootCmd
}

// loadConfig loads the --config file, or the one found in the working
// directory.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	path := o.configPath
	if path == "" {
		path = config.Find(".")
	}
	return config.Load(path)
}

// success prints a success message.
func success(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s\n", fmt.Sprintf(format, args...))
}
