// Package wallettest runs a wallet endpoint in-process, for testing sessions against.
package wallettest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"

	"github.com/edup2p/mwa/types/bin"
	"github.com/edup2p/mwa/types/dial"
	"github.com/edup2p/mwa/types/hello"
	"github.com/edup2p/mwa/types/key"
	"github.com/edup2p/mwa/types/msgrpc"
	"github.com/gorilla/websocket"
)

// Method answers one request, a non-nil *msgrpc.ResponseError is sent back as an error response.
type Method func(params json.RawMessage) (any, *msgrpc.ResponseError)

type Config struct {
	// If nil, uses key.P256()
	Suite key.Suite

	// Used when OnRequest is nil. Unknown methods get a method-not-found error.
	Methods map[string]Method

	// If set, is called for every request instead of Methods, and must answer by itself (or not).
	OnRequest func(s *Session, req Request)

	// Called once the handshake completes, before the first request is read.
	OnConnect func(s *Session)

	// If set, replaces the hello response that is sent.
	HelloResponse func(resp []byte) []byte

	// If nil, uses slog.Default()
	Logger *slog.Logger
}

type Request struct {
	ID      uint64          `json:"id"`
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
}

type Wallet struct {
	cfg Config
	srv *httptest.Server

	mu       sync.Mutex
	assoc    key.AssociationPublic
	accepted int
	requests []Request
}

func New(cfg Config) *Wallet {
	if cfg.Suite == nil {
		cfg.Suite = key.P256()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	w := &Wallet{cfg: cfg}
	w.srv = httptest.NewServer(dial.HTTPHandler(w, dial.DefaultSubprotocol))

	return w
}

func (w *Wallet) Close() {
	w.srv.CloseClientConnections()
	w.srv.Close()
}

func (w *Wallet) Port() uint16 {
	_, port, err := net.SplitHostPort(w.srv.Listener.Addr().String())
	if err != nil {
		panic(err)
	}
	p, err := strconv.Atoi(port)
	if err != nil {
		panic(err)
	}
	return uint16(p)
}

// Opts returns dial options that reach this wallet.
func (w *Wallet) Opts() dial.Opts {
	host, _, _ := net.SplitHostPort(w.srv.Listener.Addr().String())
	return dial.Opts{Host: host, Port: w.Port(), RetryDelay: time.Millisecond}
}

// Start implements assoc.Bootstrapper, it remembers the association key and hands out the server's port.
func (w *Wallet) Start(_ context.Context, pub key.AssociationPublic, _ string) (uint16, error) {
	w.mu.Lock()
	w.assoc = pub
	w.mu.Unlock()

	return w.Port(), nil
}

func (w *Wallet) Suite() key.Suite {
	return w.cfg.Suite
}

func (w *Wallet) Logger() *slog.Logger {
	return w.cfg.Logger
}

// Accepted is the amount of websocket connections that were upgraded.
func (w *Wallet) Accepted() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.accepted
}

// Requests returns every request received so far, in order.
func (w *Wallet) Requests() []Request {
	w.mu.Lock()
	defer w.mu.Unlock()

	return append([]Request(nil), w.requests...)
}

func (w *Wallet) Accept(_ context.Context, c *websocket.Conn) error {
	defer c.Close()

	w.mu.Lock()
	w.accepted++
	assoc := w.assoc
	w.mu.Unlock()

	_, b, err := c.ReadMessage()
	if err != nil {
		return fmt.Errorf("could not read hello request: %w", err)
	}

	clientEph, err := hello.ParseRequest(w.cfg.Suite, b, assoc)
	if err != nil {
		return err
	}

	eph, err := w.cfg.Suite.NewEphemeral()
	if err != nil {
		return err
	}

	shared, err := key.DeriveShared(eph, clientEph, assoc)
	if err != nil {
		return err
	}

	s := &Session{conn: c, shared: shared, log: w.cfg.Logger}

	resp := hello.CreateResponse(eph.Public())
	if w.cfg.HelloResponse != nil {
		resp = w.cfg.HelloResponse(resp)
	}
	if err := s.write(resp); err != nil {
		return fmt.Errorf("could not send hello response: %w", err)
	}

	if w.cfg.OnConnect != nil {
		w.cfg.OnConnect(s)
	}

	for {
		_, b, err := c.ReadMessage()
		if err != nil {
			return nil
		}

		req, err := s.open(b)
		if err != nil {
			return err
		}

		w.mu.Lock()
		w.requests = append(w.requests, req)
		w.mu.Unlock()

		if w.cfg.OnRequest != nil {
			w.cfg.OnRequest(s, req)
			continue
		}

		if err := w.dispatch(s, req); err != nil {
			return err
		}
	}
}

func (w *Wallet) dispatch(s *Session, req Request) error {
	m, ok := w.cfg.Methods[req.Method]
	if !ok {
		return s.RespondError(req.ID, -32601, "method not found: "+req.Method)
	}

	res, rerr := m(req.Params)
	if rerr != nil {
		return s.RespondError(req.ID, rerr.Code, rerr.Message)
	}

	return s.Respond(req.ID, res)
}

var ErrBadSequence = errors.New("client sent a non-increasing sequence number")

// Session is the wallet side of one connection.
type Session struct {
	conn   *websocket.Conn
	shared key.SessionShared
	log    *slog.Logger

	writeMu sync.Mutex
	outSeq  uint32

	inSeq uint32
}

func (s *Session) write(b []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	return s.conn.WriteMessage(websocket.BinaryMessage, b)
}

func (s *Session) seal(seq uint32, plaintext []byte) []byte {
	header := bin.PutUint32(seq)
	return append(header, s.shared.Seal(header, plaintext)...)
}

func (s *Session) open(frame []byte) (Request, error) {
	var req Request

	header, body, err := bin.SplitFrame(frame)
	if err != nil {
		return req, err
	}

	seq, _ := bin.SequenceNumber(header)
	if seq <= s.inSeq {
		return req, fmt.Errorf("%w: %d after %d", ErrBadSequence, seq, s.inSeq)
	}
	s.inSeq = seq

	plaintext, ok := s.shared.Open(header, body)
	if !ok {
		return req, errors.New("could not decrypt client frame")
	}

	if err := json.Unmarshal(plaintext, &req); err != nil {
		return req, fmt.Errorf("bad client request: %w", err)
	}

	return req, nil
}

// SendFrame encrypts plaintext under seq, without touching the session's own counter.
func (s *Session) SendFrame(seq uint32, plaintext []byte) error {
	return s.write(s.seal(seq, plaintext))
}

// Send encrypts plaintext under the next sequence number.
func (s *Session) Send(plaintext []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.outSeq++
	return s.conn.WriteMessage(websocket.BinaryMessage, s.seal(s.outSeq, plaintext))
}

func (s *Session) Respond(id uint64, result any) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return err
	}

	b, err := json.Marshal(msgrpc.Response{ID: id, JSONRPC: msgrpc.Version, Result: raw})
	if err != nil {
		return err
	}

	return s.Send(b)
}

func (s *Session) RespondError(id uint64, code int, message string) error {
	b, err := json.Marshal(msgrpc.Response{
		ID:      id,
		JSONRPC: msgrpc.Version,
		Error:   &msgrpc.ResponseError{Code: code, Message: message},
	})
	if err != nil {
		return err
	}

	return s.Send(b)
}

// Close sends a close frame with code and reason.
func (s *Session) Close(code int, reason string) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	return s.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), time.Now().Add(time.Second))
}

// Drop closes the connection without a close frame.
func (s *Session) Drop() error {
	return s.conn.Close()
}
