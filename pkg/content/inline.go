package content

import "strings"

// Inline is a run of text inside a heading or paragraph.
type Inline interface {
	isInline()
}

// Text is plain text.
type Text struct {
	Value string
}

// Formula is a LaTeX formula. ColorMap highlights sub-expressions and may
// be empty.
type Formula struct {
	Latex    string
	Color    string
	ColorMap map[string]string
}

// Spot is text highlighted in a color.
type Spot struct {
	Color string
	Text  string
}

// Strong is bold text.
type Strong struct {
	Text string
}

// ScrubberRef is an inline number bound to a store variable.
type ScrubberRef struct {
	Var string
}

func (Text) isInline()        {}
func (Formula) isInline()     {}
func (Spot) isInline()        {}
func (Strong) isInline()      {}
func (ScrubberRef) isInline() {}

// T returns a Text inline.
func T(s string) Text { return Text{Value: s} }

// F returns an uncolored Formula with an empty color map.
func F(latex string) Formula { return Formula{Latex: latex, ColorMap: map[string]string{}} }

var latexPlain = strings.NewReplacer(
	`\arcsin`, "arcsin",
	`\arccos`, "arccos",
	`\arctan`, "arctan",
	`\sin`, "sin",
	`\cos`, "cos",
	`\tan`, "tan",
	`\theta`, "θ",
	`\pi`, "π",
	`\cdot`, "·",
	`\to`, "→",
	`\{`, "{",
	`\}`, "}",
	`{`, "",
	`}`, "",
)

// Plain returns a Unicode rendition of the formula for clients without a
// math renderer.
func (f Formula) Plain() string {
	return latexPlain.Replace(f.Latex)
}
