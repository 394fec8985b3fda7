package site

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/docview/internal/app"
	"github.com/ziadkadry99/docview/internal/view"
)

// CallTimeout bounds how long a session waits for the page to finish
// typesetting math or drawing diagrams.
const CallTimeout = 10 * time.Second

// eventQueueSize bounds the events a session holds while a previous event
// or the initial load is in progress.
const eventQueueSize = 64

var errSessionClosed = errors.New("session closed")

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Operation names sent to the page.
const (
	opHTML         = "html"
	opProgress     = "progress"
	opHideProgress = "hide_progress"
	opMath         = "math"
	opDiagrams     = "diagrams"
	opScroll       = "scroll"
	opLayout       = "layout"
	opError        = "error"
)

// op is one DOM operation for the page.
type op struct {
	Op       string         `json:"op"`
	Seq      uint64         `json:"seq,omitempty"`
	Target   view.Target    `json:"target,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Text     string         `json:"text,omitempty"`
	Percent  int            `json:"percent,omitempty"`
	Diagrams []view.Diagram `json:"diagrams,omitempty"`
	ID       string         `json:"id,omitempty"`
	Margin   int            `json:"margin,omitempty"`
	Delay    int64          `json:"delay,omitempty"` // milliseconds
	Layout   *view.Layout   `json:"layout,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// ackType is the message type the page uses to complete a math or diagram
// operation.
const ackType = "ack"

// message is one message from the page: an app event, or an ack carrying
// the sequence number of the operation it completes.
type message struct {
	app.Event
	Seq   uint64 `json:"seq,omitempty"`
	Error string `json:"error,omitempty"`
}

// session is one connected reader. It is the view.Surface of its app.
type session struct {
	id     string
	conn   *websocket.Conn
	logger *slog.Logger
	app    *app.App

	ctx     context.Context
	started chan struct{}
	events  chan app.Event

	writeMu sync.Mutex

	seq       atomic.Uint64
	pendingMu sync.Mutex
	pending   map[uint64]chan string
}

var _ view.Surface = (*session)(nil)

func (s *Site) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sess := &session{
		id:      uuid.NewString(),
		conn:    conn,
		ctx:     ctx,
		started: make(chan struct{}),
		events:  make(chan app.Event, eventQueueSize),
		pending: make(map[uint64]chan string),
	}
	sess.logger = s.logger.With("session", sess.id)
	sess.app = s.newApp(sess, sess.logger)

	s.hub.add(sess)
	defer s.hub.remove(sess)
	sess.logger.Info("session opened", "remote", r.RemoteAddr)

	go func() {
		defer close(sess.started)
		if err := sess.app.Start(ctx); err != nil {
			sess.logger.Warn("session start failed", "error", err)
			sess.send(op{Op: opError, Error: err.Error()})
		}
	}()
	go sess.eventLoop()

	sess.readLoop()
	sess.logger.Info("session closed")
}

// readLoop reads page messages until the connection closes. Acks complete
// pending calls; events are queued in arrival order.
func (s *session) readLoop() {
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("websocket read failed", "error", err)
			}
			return
		}

		var msg message
		if err := json.Unmarshal(data, &msg); err != nil {
			s.send(op{Op: opError, Error: "invalid message format"})
			continue
		}

		if msg.Type == ackType {
			s.complete(msg.Seq, msg.Error)
			continue
		}
		s.enqueue(msg.Event)
	}
}

// enqueue hands ev to the event loop without blocking the read loop, which
// must stay free to deliver acks.
func (s *session) enqueue(ev app.Event) {
	select {
	case s.events <- ev:
	default:
		s.logger.Warn("event queue full, dropping event", "type", ev.Type)
	}
}

// eventLoop applies events one at a time, in arrival order, once the app
// has started. The content load an event issues runs on its own goroutine
// so a later event can supersede it while it waits for the page.
func (s *session) eventLoop() {
	select {
	case <-s.started:
	case <-s.ctx.Done():
		return
	}
	for {
		select {
		case ev := <-s.events:
			l, err := s.app.Apply(s.ctx, ev)
			if err != nil {
				s.logger.Warn("handling event failed", "type", ev.Type, "error", err)
				s.send(op{Op: opError, Error: err.Error()})
			}
			if l != nil {
				go l.Run(s.ctx)
			}
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *session) send(o op) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteJSON(o); err != nil {
		s.logger.Debug("websocket write failed", "op", o.Op, "error", err)
	}
}

// call sends o and waits for the page to acknowledge it.
func (s *session) call(ctx context.Context, o op) error {
	o.Seq = s.seq.Add(1)
	done := make(chan string, 1)

	s.pendingMu.Lock()
	s.pending[o.Seq] = done
	s.pendingMu.Unlock()
	defer func() {
		s.pendingMu.Lock()
		delete(s.pending, o.Seq)
		s.pendingMu.Unlock()
	}()

	s.send(o)

	timer := time.NewTimer(CallTimeout)
	defer timer.Stop()

	select {
	case msg := <-done:
		if msg != "" {
			return errors.New(msg)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-s.ctx.Done():
		return errSessionClosed
	case <-timer.C:
		return fmt.Errorf("%s: no answer from page after %s", o.Op, CallTimeout)
	}
}

func (s *session) complete(seq uint64, errMsg string) {
	s.pendingMu.Lock()
	done, ok := s.pending[seq]
	s.pendingMu.Unlock()
	if !ok {
		return
	}
	select {
	case done <- errMsg:
	default:
	}
}

func (s *session) SetHTML(target view.Target, html string) {
	s.send(op{Op: opHTML, Target: target, HTML: html})
}

func (s *session) ShowProgress(text string, percent int) {
	s.send(op{Op: opProgress, Text: text, Percent: percent})
}

func (s *session) HideProgress() {
	s.send(op{Op: opHideProgress})
}

func (s *session) RenderMath(ctx context.Context) error {
	return s.call(ctx, op{Op: opMath})
}

func (s *session) RenderDiagrams(ctx context.Context, diagrams []view.Diagram) error {
	if len(diagrams) == 0 {
		return nil
	}
	return s.call(ctx, op{Op: opDiagrams, Diagrams: diagrams})
}

func (s *session) Scroll(sc view.Scroll) {
	s.send(op{Op: opScroll, ID: sc.ID, Margin: sc.Margin, Delay: sc.Delay.Milliseconds()})
}

func (s *session) ApplyLayout(l view.Layout) {
	s.send(op{Op: opLayout, Layout: &l})
}
