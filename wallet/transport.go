package wallet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/edup2p/mwa/types"
	"github.com/edup2p/mwa/types/dial"
	"github.com/gorilla/websocket"
)

type eventKind int

const (
	eventOpen eventKind = iota
	eventMessage
	eventError
	eventClose
)

func (k eventKind) String() string {
	switch k {
	case eventOpen:
		return "open"
	case eventMessage:
		return "message"
	case eventError:
		return "error"
	case eventClose:
		return "close"
	default:
		return "unknown"
	}
}

// event is stamped with the generation of the attempt that produced it.
type event struct {
	gen  uint64
	kind eventKind

	data []byte
	err  error

	// close only
	code   int
	reason string
}

// clean reports whether the close handshake completed, whatever its code.
func (e event) clean() bool {
	return e.code != websocket.CloseAbnormalClosure
}

var errNotOpen = errors.New("socket is not open")

// socket owns at most one live connection to the wallet, and retries opening it.
type socket struct {
	ctx    context.Context
	opts   dial.Opts
	dialer dial.Dialer
	events chan event
	log    *slog.Logger

	metrics *Metrics

	mu       sync.Mutex
	gen      uint64
	conn     dial.Conn
	cancel   context.CancelFunc
	timer    *time.Timer
	failures int
	disposed bool

	writeMu sync.Mutex
}

func newSocket(ctx context.Context, opts dial.Opts, dialer dial.Dialer, log *slog.Logger, metrics *Metrics) *socket {
	return &socket{
		ctx:     ctx,
		opts:    opts,
		dialer:  dialer,
		events:  make(chan event, 16),
		log:     log,
		metrics: metrics,
	}
}

func (s *socket) Events() <-chan event {
	return s.events
}

// current reports whether gen is the live attempt.
func (s *socket) current(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return !s.disposed && gen == s.gen
}

// open starts a new attempt.
func (s *socket) open() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed || types.IsContextDone(s.ctx) {
		return
	}

	s.timer = nil
	s.gen++
	gen := s.gen

	ctx, cancel := context.WithCancel(s.ctx)
	s.cancel = cancel

	s.metrics.attempt()

	go s.dial(ctx, gen)
}

func (s *socket) dial(ctx context.Context, gen uint64) {
	conn, err := s.dialer(ctx, s.opts)
	if err != nil {
		s.emit(event{gen: gen, kind: eventError, err: err})
		return
	}

	s.mu.Lock()
	if s.disposed || gen != s.gen {
		s.mu.Unlock()
		conn.Close()
		return
	}
	s.conn = conn
	s.mu.Unlock()

	s.emit(event{gen: gen, kind: eventOpen})

	s.read(gen, conn)
}

func (s *socket) read(gen uint64, conn dial.Conn) {
	for {
		mt, b, err := conn.ReadMessage()
		if err != nil {
			code, reason := closeInfo(err)
			s.emit(event{gen: gen, kind: eventClose, code: code, reason: reason, err: err})
			return
		}

		if mt != websocket.BinaryMessage {
			s.log.Warn("ignoring non-binary message from wallet", "type", mt)
			continue
		}

		s.log.Log(s.ctx, types.LevelTrace, "frame received", "len", len(b))

		s.emit(event{gen: gen, kind: eventMessage, data: b})
	}
}

func closeInfo(err error) (int, string) {
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		return ce.Code, ce.Text
	}
	return websocket.CloseAbnormalClosure, err.Error()
}

func (s *socket) emit(ev event) {
	select {
	case s.events <- ev:
	case <-s.ctx.Done():
	}
}

// detach drops the current attempt, events it still produces are stale.
//
// Assumes the caller holds mu.
func (s *socket) detach() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	if s.conn != nil {
		if err := s.conn.Close(); err != nil {
			s.log.Debug("error closing wallet connection", "err", err)
		}
		s.conn = nil
	}

	s.gen++
}

// retry handles a failed attempt, and returns an establishment error once attempts are exhausted.
func (s *socket) retry(cause error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return nil
	}

	s.detach()
	s.failures++

	if s.failures >= s.opts.MaxAttempts {
		return &Error{
			Code: ErrorSessionEstablishmentFailed,
			Port: s.opts.Port,
			Err:  fmt.Errorf("%d attempts: %w", s.failures, cause),
		}
	}

	s.log.Debug("connect attempt failed, retrying", "attempt", s.failures, "err", cause, "delay", s.opts.RetryDelay)

	s.timer = time.AfterFunc(s.opts.RetryDelay, s.open)

	return nil
}

func (s *socket) send(b []byte) error {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()

	if conn == nil {
		return errNotOpen
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	return conn.WriteMessage(websocket.BinaryMessage, b)
}

// dispose closes the connection and stops any retry, it is safe to call more than once.
func (s *socket) dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return
	}

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	s.detach()
	s.disposed = true
}

func (s *socket) attempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.failures
}
