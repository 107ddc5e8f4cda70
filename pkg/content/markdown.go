package content

import (
	"strings"
)

// Resolver supplies the live parts of a Markdown export.
type Resolver interface {
	// ScrubberText returns the formatted current value of a variable.
	ScrubberText(name string) string

	// WidgetText describes the current state of a widget in one line.
	WidgetText(name string) string
}

// Markdown renders the document as Markdown. Split panes are flattened
// left then right; widgets become block quotes describing their state.
func Markdown(d *Document, r Resolver) string {
	var b strings.Builder
	_ = d.Walk(func(_ Section, block Block) error {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		switch body := block.Body.(type) {
		case Heading:
			b.WriteString(strings.Repeat("#", body.Level))
			b.WriteString(" ")
			b.WriteString(inlineMarkdown(body.Inlines, r))
			b.WriteString("\n")
		case Paragraph:
			b.WriteString(inlineMarkdown(body.Inlines, r))
			b.WriteString("\n")
		case Rule:
			b.WriteString("---\n")
		case WidgetRef:
			b.WriteString("> ")
			b.WriteString(r.WidgetText(body.Name))
			b.WriteString("\n")
		}
		return nil
	})
	return b.String()
}

func inlineMarkdown(inlines []Inline, r Resolver) string {
	var b strings.Builder
	for _, in := range inlines {
		switch v := in.(type) {
		case Text:
			b.WriteString(v.Value)
		case Formula:
			b.WriteString("$" + v.Latex + "$")
		case Spot:
			b.WriteString("*" + v.Text + "*")
		case Strong:
			b.WriteString("**" + v.Text + "**")
		case ScrubberRef:
			b.WriteString("`" + r.ScrubberText(v.Var) + "`")
		}
	}
	return b.String()
}

// PlainText returns the text of a run of inlines with formulas in their
// Unicode form and scrubbers rendered through r.
func PlainText(inlines []Inline, r Resolver) string {
	var b strings.Builder
	for _, in := range inlines {
		switch v := in.(type) {
		case Text:
			b.WriteString(v.Value)
		case Formula:
			b.WriteString(v.Plain())
		case Spot:
			b.WriteString(v.Text)
		case Strong:
			b.WriteString(v.Text)
		case ScrubberRef:
			if r != nil {
				b.WriteString(r.ScrubberText(v.Var))
			}
		}
	}
	return b.String()
}
