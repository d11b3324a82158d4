package stream

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-stomp/stomp/v3"
	"github.com/gorilla/websocket"
)

// FrameHandler receives the body of one frame delivered on the subscribed
// topic. Frames are delivered serially from a single goroutine; the handler
// must return before the next frame is processed.
type FrameHandler func(body []byte)

// TransportConfig configures one logical broker subscription.
type TransportConfig struct {
	// URL is the broker endpoint. ws:// and wss:// dial a WebSocket and
	// run STOMP over it; tcp:// dials the broker's native STOMP port.
	URL   string
	Topic string

	// ReconnectDelay is the fixed wait between attempts after the
	// connection drops for any reason. Retries never stop.
	ReconnectDelay time.Duration

	DialTimeout time.Duration
}

// Transport owns a single logical persistent connection to the broker and
// one subscription over a fixed topic. Connection failures are never
// surfaced to callers as errors; they only flip the Connected flag while
// the reconnect loop keeps trying.
type Transport struct {
	cfg     TransportConfig
	handler FrameHandler
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	connected atomic.Bool
	started   bool
	closeOnce sync.Once
	done      chan struct{}
}

func NewTransport(cfg TransportConfig, handler FrameHandler, logger *slog.Logger) *Transport {
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = 5 * time.Second
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Transport{
		cfg:     cfg,
		handler: handler,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
}

// Start begins connection establishment and returns immediately. The
// connect/subscribe/reconnect loop runs until Close.
func (t *Transport) Start() {
	if t.started {
		return
	}
	t.started = true
	go t.run()
}

// Connected reports whether a broker session is currently established.
func (t *Transport) Connected() bool {
	return t.connected.Load()
}

// Close tears the subscription down exactly once and releases the
// underlying socket. Safe to call regardless of connection state.
func (t *Transport) Close() {
	t.closeOnce.Do(func() {
		t.cancel()
		if t.started {
			<-t.done
		} else {
			close(t.done)
		}
	})
}

func (t *Transport) run() {
	defer close(t.done)

	for {
		sess, err := t.connect()
		if err != nil {
			t.logger.Warn("broker connect failed", "url", t.cfg.URL, "err", err)
		} else {
			t.connected.Store(true)
			t.logger.Info("broker connected", "url", t.cfg.URL, "topic", t.cfg.Topic)

			t.consume(sess.sub)

			t.connected.Store(false)
			sess.close()
			t.logger.Info("broker disconnected", "url", t.cfg.URL)
		}

		select {
		case <-t.ctx.Done():
			return
		case <-time.After(t.cfg.ReconnectDelay):
		}
	}
}

type session struct {
	raw  io.ReadWriteCloser
	conn *stomp.Conn
	sub  *stomp.Subscription
}

func (s *session) close() {
	if s.sub != nil && s.sub.Active() {
		_ = s.sub.Unsubscribe()
	}
	if s.conn != nil {
		_ = s.conn.Disconnect()
	}
	_ = s.raw.Close()
}

func (t *Transport) connect() (*session, error) {
	raw, host, err := t.dial()
	if err != nil {
		return nil, err
	}

	conn, err := stomp.Connect(raw, stomp.ConnOpt.Host(host))
	if err != nil {
		_ = raw.Close()
		return nil, fmt.Errorf("stomp connect: %w", err)
	}

	sub, err := conn.Subscribe(t.cfg.Topic, stomp.AckAuto)
	if err != nil {
		_ = conn.Disconnect()
		_ = raw.Close()
		return nil, fmt.Errorf("subscribe %s: %w", t.cfg.Topic, err)
	}

	return &session{raw: raw, conn: conn, sub: sub}, nil
}

func (t *Transport) dial() (io.ReadWriteCloser, string, error) {
	u, err := url.Parse(t.cfg.URL)
	if err != nil {
		return nil, "", fmt.Errorf("broker url: %w", err)
	}

	switch u.Scheme {
	case "ws", "wss":
		dialer := websocket.Dialer{HandshakeTimeout: t.cfg.DialTimeout}
		ws, _, err := dialer.DialContext(t.ctx, t.cfg.URL, nil)
		if err != nil {
			return nil, "", err
		}
		return &wsStream{ws: ws}, u.Hostname(), nil
	case "tcp":
		d := net.Dialer{Timeout: t.cfg.DialTimeout}
		conn, err := d.DialContext(t.ctx, "tcp", u.Host)
		if err != nil {
			return nil, "", err
		}
		return conn, u.Hostname(), nil
	default:
		return nil, "", fmt.Errorf("unsupported broker scheme %q", u.Scheme)
	}
}

// consume drains the subscription until it closes, the broker reports an
// error, or the transport is shut down. Any exit path means the session is
// over; the run loop decides whether to reconnect.
func (t *Transport) consume(sub *stomp.Subscription) {
	for {
		select {
		case <-t.ctx.Done():
			return
		case msg, ok := <-sub.C:
			if !ok {
				return
			}
			if msg.Err != nil {
				t.logger.Warn("broker subscription error", "err", msg.Err)
				return
			}
			t.handler(msg.Body)
		}
	}
}

// wsStream adapts a message-oriented WebSocket to the byte stream the
// STOMP codec expects. Each outbound Write becomes one text message, which
// is how STOMP-over-WebSocket brokers frame the protocol.
type wsStream struct {
	ws *websocket.Conn
	r  io.Reader
}

func (s *wsStream) Read(p []byte) (int, error) {
	for {
		if s.r == nil {
			_, r, err := s.ws.NextReader()
			if err != nil {
				return 0, err
			}
			s.r = r
		}
		n, err := s.r.Read(p)
		if err == io.EOF {
			s.r = nil
			if n > 0 {
				return n, nil
			}
			continue
		}
		return n, err
	}
}

func (s *wsStream) Write(p []byte) (int, error) {
	if err := s.ws.WriteMessage(websocket.TextMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (s *wsStream) Close() error {
	return s.ws.Close()
}
