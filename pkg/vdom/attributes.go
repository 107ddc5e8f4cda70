package vdom

import "strings"

// attr creates an Attr with the given key and value.
func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// A creates an arbitrary attribute.
func A(key string, value any) Attr { return attr(key, value) }

// Identity attributes

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attr {
	nonEmpty := classes[:0:0]
	for _, c := range classes {
		if c != "" {
			nonEmpty = append(nonEmpty, c)
		}
	}
	return attr("class", strings.Join(nonEmpty, " "))
}

// StyleAttr sets the style attribute (named to avoid conflict with Style element).
func StyleAttr(style string) Attr { return attr("style", style) }

// Data creates a data-* attribute.
// Example: Data("block-id", "block-s1-title") → data-block-id="block-s1-title"
func Data(key, value string) Attr { return attr("data-"+key, value) }

// Key sets the reconciliation key.
func Key(key string) Attr { return attr("key", key) }

// Accessibility attributes

// Role sets the role attribute.
func Role(role string) Attr { return attr("role", role) }

// AriaLabel sets the aria-label attribute.
func AriaLabel(label string) Attr { return attr("aria-label", label) }

// AriaValueNow sets the aria-valuenow attribute.
func AriaValueNow(value float64) Attr { return attr("aria-valuenow", value) }

// AriaValueMin sets the aria-valuemin attribute.
func AriaValueMin(value float64) Attr { return attr("aria-valuemin", value) }

// AriaValueMax sets the aria-valuemax attribute.
func AriaValueMax(value float64) Attr { return attr("aria-valuemax", value) }

// TabIndex sets the tabindex attribute.
func TabIndex(index int) Attr { return attr("tabindex", index) }

// Form attributes

// Type sets the type attribute.
func Type(t string) Attr { return attr("type", t) }

// Name sets the name attribute.
func Name(name string) Attr { return attr("name", name) }

// Value sets the value attribute.
func Value(value any) Attr { return attr("value", value) }

// Min sets the min attribute.
func Min(value any) Attr { return attr("min", value) }

// Max sets the max attribute.
func Max(value any) Attr { return attr("max", value) }

// Step sets the step attribute.
func Step(value any) Attr { return attr("step", value) }

// For sets the for attribute on a label.
func For(id string) Attr { return attr("for", id) }

// SVG presentation attributes

// Width sets the width attribute.
func Width(v any) Attr { return attr("width", v) }

// Height sets the height attribute.
func Height(v any) Attr { return attr("height", v) }

// ViewBox sets the viewBox attribute.
func ViewBox(minX, minY, width, height float64) Attr {
	return attr("viewBox", joinNumbers(minX, minY, width, height))
}

// X sets the x attribute.
func X(v float64) Attr { return attr("x", v) }

// Y sets the y attribute.
func Y(v float64) Attr { return attr("y", v) }

// X1 sets the x1 attribute.
func X1(v float64) Attr { return attr("x1", v) }

// Y1 sets the y1 attribute.
func Y1(v float64) Attr { return attr("y1", v) }

// X2 sets the x2 attribute.
func X2(v float64) Attr { return attr("x2", v) }

// Y2 sets the y2 attribute.
func Y2(v float64) Attr { return attr("y2", v) }

// Cx sets the cx attribute.
func Cx(v float64) Attr { return attr("cx", v) }

// Cy sets the cy attribute.
func Cy(v float64) Attr { return attr("cy", v) }

// R sets the r attribute.
func R(v float64) Attr { return attr("r", v) }

// D sets the path data attribute.
func D(path string) Attr { return attr("d", path) }

// Fill sets the fill attribute.
func Fill(color string) Attr { return attr("fill", color) }

// Stroke sets the stroke attribute.
func Stroke(color string) Attr { return attr("stroke", color) }

// StrokeWidth sets the stroke-width attribute.
func StrokeWidth(v float64) Attr { return attr("stroke-width", v) }

// StrokeDasharray sets the stroke-dasharray attribute.
func StrokeDasharray(pattern string) Attr { return attr("stroke-dasharray", pattern) }

// Opacity sets the opacity attribute.
func Opacity(v float64) Attr { return attr("opacity", v) }

// FontSize sets the font-size attribute.
func FontSize(v float64) Attr { return attr("font-size", v) }

// FontWeight sets the font-weight attribute.
func FontWeight(weight string) Attr { return attr("font-weight", weight) }

// PatternUnits sets the patternUnits attribute.
func PatternUnits(units string) Attr { return attr("patternUnits", units) }

// Cursor sets the cursor style on an SVG element.
func Cursor(cursor string) Attr { return attr("style", "cursor: "+cursor) }

func joinNumbers(values ...float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = FormatNumber(v)
	}
	return strings.Join(parts, " ")
}
