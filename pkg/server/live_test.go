package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/lessonkit/inversetrig/pkg/middleware"
	"github.com/lessonkit/inversetrig/pkg/protocol"
	"github.com/lessonkit/inversetrig/pkg/session"
	"github.com/lessonkit/inversetrig/pkg/store"
)

type liveClient struct {
	conn *websocket.Conn
}

func wsURL(ts *httptest.Server) string {
	return "ws" + strings.TrimPrefix(ts.URL, "http") + "/_lesson/ws"
}

func dialRaw(t *testing.T, ts *httptest.Server) *liveClient {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(ts), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return &liveClient{conn: conn}
}

func dialLive(t *testing.T, ts *httptest.Server, id string) *liveClient {
	t.Helper()
	c := dialRaw(t, ts)
	c.write(t, protocol.FrameHello, protocol.Hello{Version: protocol.Version, Session: id})
	return c
}

func (c *liveClient) write(t *testing.T, ft protocol.FrameType, v any) {
	t.Helper()
	f, err := protocol.Encode(ft, v)
	if err != nil {
		t.Fatal(err)
	}
	data, err := f.Encode()
	if err != nil {
		t.Fatal(err)
	}
	if err := c.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		t.Fatal(err)
	}
}

func (c *liveClient) send(t *testing.T, seq uint64, hid, eventType string, document bool, data string) {
	t.Helper()
	ev := protocol.Event{Seq: seq, HID: hid, Type: eventType, Document: document}
	if data != "" {
		ev.Data = json.RawMessage(data)
	}
	c.write(t, protocol.FrameEvent, ev)
}

func (c *liveClient) read(t *testing.T) *protocol.Frame {
	t.Helper()
	c.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := c.conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	f, err := protocol.DecodeFrame(msg)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

// readPatches reads frames up to the final patches frame and returns the
// patches.
func (c *liveClient) readPatches(t *testing.T) protocol.Patches {
	t.Helper()
	var out protocol.Patches
	for {
		f := c.read(t)
		switch f.Type {
		case protocol.FramePatches:
			var batch protocol.Patches
			if err := protocol.Decode(f, protocol.FramePatches, &batch); err != nil {
				t.Fatal(err)
			}
			out.Seq = batch.Seq
			out.Patches = append(out.Patches, batch.Patches...)
			if f.Flags.Has(protocol.FlagFinal) {
				return out
			}
		case protocol.FrameError:
			var msg protocol.ErrorMessage
			_ = protocol.Decode(f, protocol.FrameError, &msg)
			t.Fatalf("unexpected error frame: %+v", msg)
		}
	}
}

// readCapture reads frames up to the next capture control and returns its
// event types.
func (c *liveClient) readCapture(t *testing.T) []string {
	t.Helper()
	for {
		f := c.read(t)
		if f.Type != protocol.FrameControl {
			continue
		}
		var ctl protocol.Control
		if err := protocol.Decode(f, protocol.FrameControl, &ctl); err != nil {
			t.Fatal(err)
		}
		if ctl.Op == protocol.OpCapture {
			return ctl.Events
		}
	}
}

func (c *liveClient) readError(t *testing.T) protocol.ErrorMessage {
	t.Helper()
	for {
		f := c.read(t)
		if f.Type != protocol.FrameError {
			continue
		}
		var msg protocol.ErrorMessage
		if err := protocol.Decode(f, protocol.FrameError, &msg); err != nil {
			t.Fatal(err)
		}
		return msg
	}
}

func findHID(t *testing.T, batch protocol.Patches, pattern string) string {
	t.Helper()
	re := regexp.MustCompile(pattern)
	for _, p := range batch.Patches {
		if m := re.FindStringSubmatch(p.HTML); m != nil {
			return m[1]
		}
	}
	t.Fatalf("no element matching %s", pattern)
	return ""
}

func patchFor(t *testing.T, batch protocol.Patches, region string) string {
	t.Helper()
	for _, p := range batch.Patches {
		if p.Region == region {
			return p.HTML
		}
	}
	t.Fatalf("no patch for region %s in %+v", region, batch.Patches)
	return ""
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestLiveInitialSync(t *testing.T) {
	_, ts, _ := newTestServer(t)
	c := dialLive(t, ts, session.NewID())

	batch := c.readPatches(t)
	if batch.Seq != 0 {
		t.Errorf("initial seq = %d", batch.Seq)
	}
	var regions []string
	for _, p := range batch.Patches {
		regions = append(regions, p.Region)
	}
	if diff := cmp.Diff([]string{"r1", "r2", "r3"}, regions); diff != "" {
		t.Errorf("initial regions (-want +got):\n%s", diff)
	}
}

func TestLiveSliderInput(t *testing.T) {
	_, ts, _ := newTestServer(t)
	c := dialLive(t, ts, session.NewID())
	hid := findHID(t, c.readPatches(t), `<input[^>]*data-hid="(h\d+)"`)

	c.send(t, 7, hid, "input", false, `{"value":"0.5"}`)
	batch := c.readPatches(t)
	if batch.Seq != 7 {
		t.Errorf("seq = %d, want 7", batch.Seq)
	}
	html := patchFor(t, batch, "r3")
	for _, want := range []string{"Given: sin(θ) = 0.500", "θ₁ ≈ 30.0°", "θ₂ ≈ 150.0°"} {
		if !strings.Contains(html, want) {
			t.Errorf("patch missing %q", want)
		}
	}
	if len(batch.Patches) != 1 {
		t.Errorf("only the inverse lookup depends on sineValue, got %d patches", len(batch.Patches))
	}
}

func TestLiveDragAnnouncesCapture(t *testing.T) {
	_, ts, _ := newTestServer(t)
	c := dialLive(t, ts, session.NewID())
	hid := findHID(t, c.readPatches(t), `class="angle-handle"[^>]*data-hid="(h\d+)"`)

	down := `{"clientX":300,"clientY":150,"frame":{"left":0,"top":0,"width":300,"height":300}}`
	c.send(t, 1, hid, "mousedown", false, down)
	if diff := cmp.Diff([]string{"mousemove", "mouseup"}, c.readCapture(t)); diff != "" {
		t.Errorf("capture after mousedown (-want +got):\n%s", diff)
	}

	c.send(t, 2, "", "mousemove", true, `{"clientX":150,"clientY":0,"buttons":1}`)
	batch := c.readPatches(t)
	if !strings.Contains(patchFor(t, batch, "r1"), ">1.57<") {
		t.Errorf("scrubber does not show π/2: %s", patchFor(t, batch, "r1"))
	}
	patchFor(t, batch, "r2")

	c.send(t, 3, "", "mouseup", true, `{"clientX":150,"clientY":0}`)
	if got := c.readCapture(t); len(got) != 0 {
		t.Errorf("capture after mouseup = %v, want none", got)
	}
}

func TestLiveDragEndsOnReleasedMove(t *testing.T) {
	_, ts, _ := newTestServer(t)
	c := dialLive(t, ts, session.NewID())
	initial := c.readPatches(t)
	handle := findHID(t, initial, `class="angle-handle"[^>]*data-hid="(h\d+)"`)
	slider := findHID(t, initial, `<input[^>]*data-hid="(h\d+)"`)

	down := `{"clientX":300,"clientY":150,"frame":{"left":0,"top":0,"width":300,"height":300}}`
	c.send(t, 1, handle, "mousedown", false, down)
	c.readCapture(t)

	// The mouseup never arrived; the next move reports no button held.
	c.send(t, 2, "", "mousemove", true, `{"clientX":150,"clientY":0,"buttons":0}`)
	if got := c.readCapture(t); len(got) != 0 {
		t.Errorf("capture after released move = %v, want none", got)
	}

	c.send(t, 3, "", "mousemove", true, `{"clientX":150,"clientY":0,"buttons":1}`)
	c.send(t, 4, slider, "input", false, `{"value":"0.25"}`)
	batch := c.readPatches(t)
	if batch.Seq != 4 || len(batch.Patches) != 1 {
		t.Errorf("a move after the drag ended changed the page: seq %d, %d patches", batch.Seq, len(batch.Patches))
	}
}

func TestLiveUnknownHandler(t *testing.T) {
	_, ts, _ := newTestServer(t)
	c := dialLive(t, ts, session.NewID())
	c.readPatches(t)

	c.send(t, 4, "h999", "input", false, `{"value":"0.1"}`)
	msg := c.readError(t)
	if msg.Seq != 4 || msg.Code != "L022" || msg.Fatal {
		t.Errorf("error = %+v", msg)
	}

	// The connection survives a malformed event payload.
	data, _ := protocol.NewFrame(protocol.FrameEvent, []byte("{bad")).Encode()
	if err := c.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		t.Fatal(err)
	}
	if msg := c.readError(t); msg.Code != "L021" {
		t.Errorf("error = %+v", msg)
	}
}

func TestLiveMalformedFrame(t *testing.T) {
	_, ts, _ := newTestServer(t)
	c := dialLive(t, ts, session.NewID())
	c.readPatches(t)

	if err := c.conn.WriteMessage(websocket.BinaryMessage, []byte{0x42}); err != nil {
		t.Fatal(err)
	}
	if msg := c.readError(t); msg.Code != "L020" || msg.Fatal {
		t.Errorf("error = %+v", msg)
	}
}

func TestLiveHandshakeRejected(t *testing.T) {
	tests := []struct {
		name  string
		hello protocol.Hello
	}{
		{"bad version", protocol.Hello{Version: 99, Session: session.NewID()}},
		{"bad session", protocol.Hello{Version: protocol.Version, Session: "nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ts, _ := newTestServer(t)
			c := dialRaw(t, ts)
			c.write(t, protocol.FrameHello, tt.hello)

			msg := c.readError(t)
			if msg.Code != "L020" || !msg.Fatal {
				t.Errorf("error = %+v", msg)
			}
			c.conn.SetReadDeadline(time.Now().Add(2 * time.Second))
			if _, _, err := c.conn.ReadMessage(); err == nil {
				t.Error("connection should be closed")
			}
		})
	}
}

func TestLivePersistsOnClose(t *testing.T) {
	s, ts, snaps := newTestServer(t)
	id := session.NewID()
	c := dialLive(t, ts, id)
	hid := findHID(t, c.readPatches(t), `<input[^>]*data-hid="(h\d+)"`)

	c.send(t, 1, hid, "input", false, `{"value":"-0.25"}`)
	c.readPatches(t)
	c.conn.Close()
	waitFor(t, func() bool { return s.LiveSessions() == 0 })

	values, err := snaps.Load(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	if got := values[store.SineValue]; math.Abs(got+0.25) > 1e-9 {
		t.Errorf("saved sine = %v, want -0.25", got)
	}

	// A new connection for the same visitor starts from the saved state.
	c2 := dialLive(t, ts, id)
	html := patchFor(t, c2.readPatches(t), "r3")
	if !strings.Contains(html, "sin(θ) = -0.250") {
		t.Error("restored session does not show the saved value")
	}
}

func TestLivePersistsPeriodically(t *testing.T) {
	_, ts, snaps := newTestServer(t)
	id := session.NewID()
	c := dialLive(t, ts, id)
	hid := findHID(t, c.readPatches(t), `<input[^>]*data-hid="(h\d+)"`)

	c.send(t, 1, hid, "input", false, `{"value":"0.9"}`)
	c.readPatches(t)

	waitFor(t, func() bool {
		values, _ := snaps.Load(context.Background(), id)
		return values[store.SineValue] == 0.9
	})
}

func TestLiveMiddlewareAndMetrics(t *testing.T) {
	m := middleware.NewMetrics(middleware.WithRegistry(prometheus.NewRegistry()))
	var seen []string
	trace := middleware.MiddlewareFunc(func(ev *middleware.Event, next func() error) error {
		err := next()
		seen = append(seen, fmt.Sprintf("%s:%d", ev.Type, ev.Patches()))
		return err
	})
	s, ts, _ := newTestServer(t, WithMetrics(m), WithMiddleware(trace))

	c := dialLive(t, ts, session.NewID())
	hid := findHID(t, c.readPatches(t), `<input[^>]*data-hid="(h\d+)"`)
	c.send(t, 1, hid, "input", false, `{"value":"0.3"}`)
	c.readPatches(t)
	c.conn.Close()
	waitFor(t, func() bool { return s.LiveSessions() == 0 })

	if diff := cmp.Diff([]string{"input:1"}, seen); diff != "" {
		t.Errorf("middleware saw (-want +got):\n%s", diff)
	}

	if n, err := testutil.GatherAndCount(m.Registry(), "lesson_events_total"); err != nil || n != 1 {
		t.Errorf("events series = %d, %v", n, err)
	}
	if n, err := testutil.GatherAndCount(m.Registry(), "lesson_variable_writes_total"); err != nil || n != 1 {
		t.Errorf("variable write series = %d, %v", n, err)
	}
}

func TestErrorMessage(t *testing.T) {
	plain := errorMessage(3, errors.New("boom"), false)
	if plain.Code != "" || plain.Message != "boom" || plain.Seq != 3 {
		t.Errorf("plain = %+v", plain)
	}
}
