package page

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/lessonkit/inversetrig/pkg/content"
	. "github.com/lessonkit/inversetrig/pkg/vdom"
)

// gridColumns converts a "2:1" ratio to CSS grid columns. Malformed
// ratios fall back to equal panes.
func gridColumns(ratio string) string {
	parts := strings.Split(ratio, ":")
	if len(parts) != 2 {
		return "1fr 1fr"
	}
	cols := make([]string, 2)
	for i, p := range parts {
		n, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || n <= 0 {
			return "1fr 1fr"
		}
		cols[i] = FormatNumber(n) + "fr"
	}
	return strings.Join(cols, " ")
}

func (p *Page) section(s content.Section) *VNode {
	switch v := s.(type) {
	case content.Stack:
		return Div(Class("layout-stack", sizeClass("max-w", v.MaxWidth)), Data("layout", v.Key),
			Range(v.Items, func(b content.Block, _ int) *VNode { return p.block(b) }),
		)
	case content.Split:
		return Div(Class("layout-split", sizeClass("gap", v.Gap)), Data("layout", v.Key),
			StyleAttr("grid-template-columns: "+gridColumns(v.Ratio)),
			Div(Class("split-pane"), Range(v.Left, func(b content.Block, _ int) *VNode { return p.block(b) })),
			Div(Class("split-pane"), Range(v.Right, func(b content.Block, _ int) *VNode { return p.block(b) })),
		)
	default:
		return nil
	}
}

func sizeClass(prefix, size string) string {
	if size == "" {
		return ""
	}
	return prefix + "-" + size
}

func (p *Page) block(b content.Block) *VNode {
	return Div(ID(b.ID), Class("block", sizeClass("pad", b.Padding)), p.body(b))
}

func (p *Page) body(b content.Block) *VNode {
	switch v := b.Body.(type) {
	case content.Heading:
		tag := "h1"
		if v.Level == 2 {
			tag = "h2"
		}
		return El(tag, ID(v.ID), Data("block-id", b.ID), p.inlines(v.Inlines))
	case content.Paragraph:
		return P(ID(v.ID), Data("block-id", b.ID), p.inlines(v.Inlines))
	case content.Rule:
		return Hr(Class("divider"))
	case content.WidgetRef:
		if r := p.nextRegion(); r != nil {
			return p.renderRegion(r)
		}
	}
	return nil
}

func (p *Page) inlines(in []content.Inline) []*VNode {
	out := make([]*VNode, 0, len(in))
	for _, i := range in {
		out = append(out, p.inline(i))
	}
	return out
}

func (p *Page) inline(i content.Inline) *VNode {
	switch v := i.(type) {
	case content.Text:
		return Text(v.Value)
	case content.Formula:
		return formula(v)
	case content.Spot:
		return Span(Class("spot"), StyleAttr("color: "+v.Color), v.Text)
	case content.Strong:
		return Strong(v.Text)
	case content.ScrubberRef:
		if r := p.nextRegion(); r != nil {
			return p.renderRegion(r)
		}
	}
	return nil
}

// formula renders the LaTeX source as a data attribute for a client-side
// math renderer, with a Unicode fallback as text.
func formula(f content.Formula) *VNode {
	attrs := []Attr{Class("formula"), Data("latex", f.Latex)}
	if f.Color != "" {
		attrs = append(attrs, StyleAttr("color: "+f.Color))
	}
	if len(f.ColorMap) > 0 {
		if b, err := json.Marshal(f.ColorMap); err == nil {
			attrs = append(attrs, Data("color-map", string(b)))
		}
	}
	return Span(attrs, f.Plain())
}
