package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	lerrors "github.com/lessonkit/inversetrig/internal/errors"
	"github.com/lessonkit/inversetrig/pkg/middleware"
	"github.com/lessonkit/inversetrig/pkg/page"
	"github.com/lessonkit/inversetrig/pkg/protocol"
	"github.com/lessonkit/inversetrig/pkg/session"
)

// liveSession is one WebSocket connection driving one page. A single
// goroutine reads frames and handles each event to completion before
// reading the next; the heartbeat goroutine only sends control frames and
// saves snapshots.
type liveSession struct {
	id     string
	server *Server
	conn   *websocket.Conn
	page   *page.Page
	logger *slog.Logger

	writeMu sync.Mutex
	changed atomic.Bool
	closed  atomic.Bool
	done    chan struct{}
	once    sync.Once
}

// handleWebSocket upgrades the connection, performs the Hello handshake and
// runs the session until the client goes away.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		s.recordWSError("upgrade")
		return
	}
	conn.SetReadLimit(s.config.MaxMessageSize)

	hello, err := s.readHello(conn)
	if err != nil {
		s.logger.Warn("handshake failed", "error", err)
		s.recordWSError("handshake")
		writeFatal(conn, err, s.config.WriteTimeout)
		conn.Close()
		return
	}

	logger := s.logger.With("session_id", hello.Session)
	p, err := s.openPage(r.Context(), hello.Session, logger)
	if err != nil {
		logger.Error("page build failed", "error", err)
		writeFatal(conn, err, s.config.WriteTimeout)
		conn.Close()
		return
	}

	ls := &liveSession{
		id:     hello.Session,
		server: s,
		conn:   conn,
		page:   p,
		logger: logger,
		done:   make(chan struct{}),
	}

	s.wg.Add(1)
	defer s.wg.Done()
	s.track(ls)
	defer s.untrack(ls)

	ls.run()
}

// readHello waits for the client's Hello frame.
func (s *Server) readHello(conn *websocket.Conn) (*protocol.Hello, error) {
	conn.SetReadDeadline(time.Now().Add(s.config.HandshakeTimeout))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return nil, err
	}

	frame, err := protocol.DecodeFrame(msg)
	if err != nil {
		return nil, lerrors.New("L020").Wrap(err)
	}
	var hello protocol.Hello
	if err := protocol.Decode(frame, protocol.FrameHello, &hello); err != nil {
		return nil, lerrors.New("L020").Wrap(err)
	}
	if hello.Version != protocol.Version {
		return nil, lerrors.New("L020").WithDetailf("protocol version %d, want %d", hello.Version, protocol.Version)
	}
	if !session.ValidID(hello.Session) {
		return nil, lerrors.New("L020").WithDetail("invalid session ID")
	}
	return &hello, nil
}

func (s *Server) recordWSError(kind string) {
	if s.metrics != nil {
		s.metrics.RecordWebSocketError(kind)
	}
}

// run sends the initial state and processes events until the connection
// closes. Variables are persisted on exit.
func (ls *liveSession) run() {
	s := ls.server
	st := ls.page.Env().Store
	st.OnWrite(func(string, float64) { ls.changed.Store(true) })
	if s.metrics != nil {
		s.metrics.ObserveStore(st)
	}
	ls.page.Env().Document.OnChange(ls.sendCapture)

	defer ls.finish()

	ls.logger.Info("session started")

	// The client's server-rendered HIDs came from an identical Render, but
	// the session state may have moved on since; resend every region.
	ls.page.Render()
	patches, err := ls.page.Sync()
	if err != nil {
		ls.logger.Error("initial sync failed", "error", err)
		return
	}
	if err := ls.sendPatches(0, patches); err != nil {
		return
	}
	if s.metrics != nil {
		s.metrics.RecordPatches(len(patches))
	}

	ls.conn.SetPongHandler(func(string) error {
		return ls.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
	})
	go ls.heartbeat()

	ls.readLoop()
}

// readLoop reads frames until the connection fails or closes.
func (ls *liveSession) readLoop() {
	for {
		ls.conn.SetReadDeadline(time.Now().Add(ls.server.config.ReadTimeout))
		_, msg, err := ls.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) && !ls.closed.Load() {
				ls.logger.Warn("read error", "error", err)
				ls.server.recordWSError("read")
			}
			return
		}

		frame, err := protocol.DecodeFrame(msg)
		if err != nil {
			ls.logger.Warn("frame decode error", "error", err)
			ls.sendError(0, lerrors.New("L020").Wrap(err))
			continue
		}

		switch frame.Type {
		case protocol.FrameEvent:
			var ev protocol.Event
			if err := protocol.Decode(frame, protocol.FrameEvent, &ev); err != nil {
				ls.sendError(0, lerrors.New("L021").Wrap(err))
				continue
			}
			ls.handleEvent(&ev)
		default:
			ls.logger.Warn("unexpected frame type", "type", frame.Type)
		}
	}
}

// handleEvent dispatches one event through the middleware chain, flushes
// dirty regions and sends their patches.
func (ls *liveSession) handleEvent(ev *protocol.Event) {
	mev := middleware.NewEvent(context.Background(), ls.id, ev.HID, ev.Type)

	var patches []page.Patch
	err := middleware.Run(mev, func() error {
		if err := ls.dispatch(ev); err != nil {
			return err
		}
		var err error
		patches, err = ls.page.Flush()
		mev.AddPatches(len(patches))
		return err
	}, ls.server.middleware...)

	if err != nil {
		ls.logger.Debug("event failed", "hid", ev.HID, "type", ev.Type, "error", err)
		ls.sendError(ev.Seq, err)
	}
	if len(patches) > 0 {
		_ = ls.sendPatches(ev.Seq, patches)
	}
}

// dispatch routes ev to its element handler or to document listeners.
// Handler panics are recovered and reported as errors.
func (ls *liveSession) dispatch(ev *protocol.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			ls.logger.Error("handler panic", "panic", r, "stack", string(debug.Stack()))
			err = lerrors.Newf(lerrors.CategoryProtocol, "handler panic: %v", r)
		}
	}()

	if ev.Document {
		_, err := ls.page.DispatchDocument(ev.Type, ev.Data)
		return err
	}
	return ls.page.Dispatch(ev.HID, ev.Type, ev.Data)
}

// heartbeat pings the client and saves changed variables periodically.
func (ls *liveSession) heartbeat() {
	cfg := ls.server.config
	ping := time.NewTicker(cfg.HeartbeatInterval)
	defer ping.Stop()
	persist := time.NewTicker(cfg.PersistInterval)
	defer persist.Stop()

	for {
		select {
		case <-ping.C:
			err := ls.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(cfg.WriteTimeout))
			if err != nil {
				ls.close()
				return
			}
		case <-persist.C:
			ls.persist()
		case <-ls.done:
			return
		}
	}
}

// persist saves the store when it changed since the last save.
func (ls *liveSession) persist() {
	if !ls.changed.Swap(false) {
		return
	}
	values := ls.page.Env().Store.Snapshot()
	ctx, cancel := context.WithTimeout(context.Background(), ls.server.config.WriteTimeout)
	defer cancel()
	if err := ls.server.snapshots.Save(ctx, ls.id, values); err != nil {
		ls.changed.Store(true)
		ls.logger.Warn("snapshot save failed", "error", err)
	}
}

// finish ends the session: it stops the heartbeat, releases document
// listeners and saves the variables.
func (ls *liveSession) finish() {
	ls.close()
	ls.page.Close()
	ls.persist()
	ls.logger.Info("session closed")
}

// close shuts the connection down. Safe to call from any goroutine.
func (ls *liveSession) close() {
	ls.once.Do(func() {
		ls.closed.Store(true)
		close(ls.done)
		ls.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		ls.conn.Close()
	})
}

func (ls *liveSession) write(f *protocol.Frame) error {
	data, err := f.Encode()
	if err != nil {
		return err
	}
	ls.writeMu.Lock()
	defer ls.writeMu.Unlock()
	ls.conn.SetWriteDeadline(time.Now().Add(ls.server.config.WriteTimeout))
	if err := ls.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		if !ls.closed.Load() {
			ls.logger.Warn("write error", "error", err)
			ls.server.recordWSError("write")
		}
		return err
	}
	return nil
}

func (ls *liveSession) sendPatches(seq uint64, patches []page.Patch) error {
	wire := make([]protocol.Patch, len(patches))
	for i, p := range patches {
		wire[i] = protocol.Patch{Region: p.Region, HTML: p.HTML}
	}
	frames, err := protocol.EncodePatches(seq, wire)
	if err != nil {
		ls.logger.Error("patch encode failed", "error", err)
		return err
	}
	for _, f := range frames {
		if err := ls.write(f); err != nil {
			return err
		}
	}
	return nil
}

// sendCapture tells the client which document events to forward.
func (ls *liveSession) sendCapture(active []string) {
	if ls.closed.Load() {
		return
	}
	f, err := protocol.Encode(protocol.FrameControl, protocol.Control{Op: protocol.OpCapture, Events: active})
	if err != nil {
		return
	}
	_ = ls.write(f)
}

func (ls *liveSession) sendError(seq uint64, err error) {
	if ls.closed.Load() {
		return
	}
	f, encErr := protocol.Encode(protocol.FrameError, errorMessage(seq, err, false))
	if encErr != nil {
		return
	}
	_ = ls.write(f)
}

// writeFatal sends a fatal error frame before the connection is dropped.
func writeFatal(conn *websocket.Conn, err error, timeout time.Duration) {
	f, encErr := protocol.Encode(protocol.FrameError, errorMessage(0, err, true))
	if encErr != nil {
		return
	}
	data, encErr := f.Encode()
	if encErr != nil {
		return
	}
	conn.SetWriteDeadline(time.Now().Add(timeout))
	_ = conn.WriteMessage(websocket.BinaryMessage, data)
}

func errorMessage(seq uint64, err error, fatal bool) protocol.ErrorMessage {
	msg := protocol.ErrorMessage{Seq: seq, Code: lerrors.Code(err), Message: err.Error(), Fatal: fatal}
	var le *lerrors.LessonError
	if errors.As(err, &le) {
		msg.Message = le.Message
		if le.Detail != "" {
			msg.Message += ": " + le.Detail
		}
	}
	return msg
}
