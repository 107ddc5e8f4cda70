// Package render provides server-side rendering of VNode trees to HTML.
//
// Elements are written with sorted, escaped attributes. SVG leaves
// (circle, line, path, rect) without children are self-closed. Elements
// that carry a hydration ID get a data-hid attribute plus one
// data-on-<event> marker per handler so the thin client knows which DOM
// listeners to bind.
//
// # Basic Usage
//
//	renderer := render.NewRenderer(render.RendererConfig{})
//	html, err := renderer.RenderToString(node)
//
// # Full Page Rendering
//
//	renderer := render.NewRenderer(render.RendererConfig{
//	    ClientScript:  "/_lesson/client.js",
//	    WebSocketPath: "/_lesson/ws",
//	})
//	err := renderer.RenderPage(w, render.PageData{Title: "Lesson", Body: body})
package render
