package preview

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/lessonkit/inversetrig/pkg/page"
	"github.com/lessonkit/inversetrig/pkg/store"
	"github.com/lessonkit/inversetrig/pkg/widget"
)

// Options configures a preview.
type Options struct {
	// Width wraps the text at this many columns (default: 80).
	Width int

	// Style is a glamour style name ("dark", "light", "notty") or "auto".
	// Default: "auto" on a terminal, "notty" otherwise.
	Style string

	// Color forces colors on or off. Nil detects a terminal.
	Color *bool
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Render writes a terminal rendition of p: a banner with the current
// variable values followed by the page as styled Markdown.
func Render(w io.Writer, p *page.Page, opts Options) error {
	color := IsTerminal(w)
	if opts.Color != nil {
		color = *opts.Color
	}
	if opts.Width == 0 {
		opts.Width = 80
	}

	styleOpt := glamour.WithStandardStyle("notty")
	switch {
	case opts.Style == "auto" || (opts.Style == "" && color):
		styleOpt = glamour.WithAutoStyle()
	case opts.Style != "":
		styleOpt = glamour.WithStandardStyle(opts.Style)
	}

	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(opts.Width))
	if err != nil {
		return err
	}
	out, err := r.Render(p.Markdown())
	if err != nil {
		return err
	}

	if _, err := io.WriteString(w, Banner(p, color)); err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// Banner formats the page title and the store values, colored with the
// diagram colors when color is set.
func Banner(p *page.Page, color bool) string {
	profile := termenv.Ascii
	if color {
		profile = termenv.ColorProfile()
	}
	paint := func(s, hex string) string {
		return profile.String(s).Foreground(profile.Color(hex)).String()
	}

	st := p.Env().Store
	angle := st.Float(store.AngleValue)
	sine := st.Float(store.SineValue)
	a1, a2 := widget.InverseAngles(sine)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(profile.String("  " + p.Title()).Bold().String())
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "  %s  %s\n",
		paint(fmt.Sprintf("θ = %.2f rad (%s)", angle, widget.FormatDegrees(angle)), widget.ColorAngle),
		paint(fmt.Sprintf("sin(θ) = %.3f", sine), widget.ColorSine))
	fmt.Fprintf(&b, "  %s  %s\n",
		paint("θ₁ ≈ "+widget.FormatDegrees(a1), widget.ColorAngle),
		paint("θ₂ ≈ "+widget.FormatDegrees(a2), widget.ColorSecond))
	return b.String()
}
