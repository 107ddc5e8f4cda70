package widget

import (
	"sync"
	"sync/atomic"
)

// DragSession is the interval between a pointer-down and the matching
// pointer-up. It holds the document's mousemove and mouseup listeners and
// releases both exactly once, whichever way the session ends: pointer-up,
// a move with no button held, an explicit End, a newer session replacing
// it, or the document closing.
type DragSession struct {
	active atomic.Bool
	once   sync.Once

	release     func()
	cancelClose func()
}

// BeginDrag starts a drag session on doc. onMove is called for every
// document mousemove until the session ends.
func BeginDrag(doc *Document, onMove func(PointerEvent)) *DragSession {
	s := &DragSession{}
	s.active.Store(true)

	s.release = doc.ListenAll(map[string]func(PointerEvent){
		EventMouseMove: func(ev PointerEvent) {
			if !s.active.Load() {
				return
			}
			if ev.Released() {
				s.End()
				return
			}
			onMove(ev)
		},
		EventMouseUp: func(PointerEvent) {
			s.End()
		},
	})
	s.cancelClose = doc.onClose(s.End)

	if doc.Closed() {
		s.End()
	}
	return s
}

// Active reports whether the session is still receiving moves.
func (s *DragSession) Active() bool {
	return s != nil && s.active.Load()
}

// End releases the session's listeners. It is safe to call more than once.
func (s *DragSession) End() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		s.active.Store(false)
		s.release()
		s.cancelClose()
	})
}
