package render

import "github.com/lessonkit/inversetrig/pkg/vdom"

// inlineElements don't get newlines in pretty-printed output. SVG text
// is inline so labels keep their exact content.
var inlineElements = map[string]bool{
	"a":      true,
	"b":      true,
	"code":   true,
	"em":     true,
	"i":      true,
	"span":   true,
	"strong": true,
	"sub":    true,
	"sup":    true,
	"text":   true,
	"title":  true,
}

func isInlineElement(tag string) bool {
	return inlineElements[tag]
}

// booleanAttrs are rendered as a bare attribute name when true and
// omitted when false.
var booleanAttrs = map[string]bool{
	"async":    true,
	"checked":  true,
	"defer":    true,
	"disabled": true,
	"hidden":   true,
	"readonly": true,
	"required": true,
	"selected": true,
}

func isBooleanAttr(name string) bool {
	return booleanAttrs[name]
}

// selfClosingSVG are SVG leaves rendered as <tag/> when they have no children.
var selfClosingSVG = map[string]bool{
	"circle": true,
	"line":   true,
	"path":   true,
	"rect":   true,
}

func isVoidElement(tag string) bool {
	return vdom.IsVoidElement(tag)
}
