// Package page renders a content document for one visitor.
//
// Widget blocks and inline scrubbers become regions: wrapper elements
// marked with data-region that subscribe to the store keys their widget
// reads. After an event handler writes to the store, Flush re-renders the
// dirty regions and returns one HTML patch per region.
//
//	p, err := page.New(content.InverseTrigSection1(), widget.LessonRegistry(), env)
//	body := p.Render()                  // full tree for SSR
//	err = p.Dispatch("h2", "input", raw) // handler writes the store
//	patches, err := p.Flush()           // regions that changed
package page
