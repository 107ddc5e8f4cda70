package middleware

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type ctxKey struct{}

func TestRunOrder(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return MiddlewareFunc(func(ev *Event, next func() error) error {
			order = append(order, name+">")
			err := next()
			order = append(order, "<"+name)
			return err
		})
	}

	ev := NewEvent(context.Background(), "s", "h1", "input")
	err := Run(ev, func() error {
		order = append(order, "handler")
		return nil
	}, mw("a"), nil, mw("b"))
	if err != nil {
		t.Fatal(err)
	}

	want := "a> b> handler <b <a"
	if got := strings.Join(order, " "); got != want {
		t.Errorf("order = %q, want %q", got, want)
	}
}

func TestRunPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	ev := NewEvent(nil, "s", "h1", "input")
	if err := Run(ev, func() error { return boom }); !errors.Is(err, boom) {
		t.Errorf("got %v", err)
	}
	if ev.Context() == nil {
		t.Error("nil context should default to Background")
	}
}

func TestEventState(t *testing.T) {
	ev := NewEvent(context.Background(), "s", "h1", "mousedown")
	ev.AddPatches(2)
	ev.AddPatches(1)
	if ev.Patches() != 3 {
		t.Errorf("Patches() = %d", ev.Patches())
	}

	if ev.Value("k") != nil {
		t.Error("unset value should be nil")
	}
	ev.SetValue("k", 7)
	if ev.Value("k") != 7 {
		t.Errorf("Value(k) = %v", ev.Value("k"))
	}

	ctx := context.WithValue(context.Background(), ctxKey{}, "v")
	ev.WithContext(ctx)
	ev.WithContext(nil)
	if ev.Context().Value(ctxKey{}) != "v" {
		t.Error("WithContext(nil) replaced the context")
	}
}
