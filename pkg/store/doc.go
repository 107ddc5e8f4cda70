// Package store implements the reactive variable store that drives the
// lesson widgets.
//
// Variables are declared up front in a Schema. Each Definition carries a
// default, a range with a coercion mode (clamp or wrap) and display
// metadata used by controls bound to the variable:
//
//	st := store.New(store.LessonSchema())
//	angle := st.MustVar(store.AngleValue)
//	angle.Get()             // π/4 until set
//	angle.Set(-math.Pi / 2) // stored as 3π/2
//
// Listeners subscribe to the keys they read and are marked dirty after a
// write changes one of them:
//
//	unsubscribe := st.Subscribe(region, store.AngleValue)
//	defer unsubscribe()
package store
