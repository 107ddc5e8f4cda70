// Package vdom provides the virtual DOM used to describe lesson pages.
//
// Widgets and layout blocks build VNode trees with variadic factory
// functions. HTML and SVG share the same node type:
//
//	Svg(Width(300), Height(300), ViewBox(-150, -150, 300, 300),
//	    Circle(Cx(0), Cy(0), R(100), Fill("none"), Stroke("#ccc")),
//	    Circle(Cx(x), Cy(y), R(6), OnMouseDown(handler)),
//	)
//
// # Hydration
//
// AssignHIDs walks the tree and assigns hydration IDs to interactive
// elements (those with event handlers). CollectHandlers then builds the
// registry the live session uses to route client events back to Go
// handlers.
package vdom
