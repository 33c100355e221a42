package channel

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/zishang520/engine.io-client-go/engine"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-go-parser/v2/parser"
)

var (
	ErrClosed         = errors.New("channel: closed")
	ErrConnectRefused = errors.New("channel: namespace connect refused")
)

// reason reported by the engine when Close was called locally
const forcedClose = "forced close"

type EventType int

const (
	// Connected is the namespace connect acknowledgment.
	Connected EventType = iota
	// Message is an event emitted by the server.
	Message
	// Disconnected is always the last event; Err holds the cause, nil on a clean close.
	Disconnected
)

func (t EventType) String() string {
	switch t {
	case Connected:
		return "connected"
	case Message:
		return "message"
	case Disconnected:
		return "disconnected"
	}
	return "unknown"
}

type Event struct {
	Type EventType
	Name string
	Data json.RawMessage
	Err  error
}

type Options struct {
	Namespace string
	Header    http.Header
	TLSConfig *tls.Config
	Logger    zerolog.Logger
}

// Conn is a Socket.IO client bound to one namespace. The Engine.IO session
// and the packet codec come from the zishang520 libraries; Conn drives them
// directly so events keep the order the transport read them in.
type Conn struct {
	sock      engine.Socket
	encoder   parser.Encoder
	decoder   parser.Decoder
	namespace string
	log       zerolog.Logger

	opened   chan struct{}
	failed   chan error
	openOnce sync.Once

	events    chan Event
	done      chan struct{}
	closeOnce sync.Once

	mu       sync.Mutex
	finished bool
}

// Dial opens the websocket transport, waits for the Engine.IO handshake and
// requests the namespace. The namespace acknowledgment arrives later as a
// Connected event.
func Dial(ctx context.Context, baseURL string, opts Options) (*Conn, error) {
	uri, path, err := socketURL(baseURL)
	if err != nil {
		return nil, err
	}

	p := parser.NewParser()
	c := &Conn{
		sock:      engine.MakeSocket(),
		encoder:   p.NewEncoder(),
		decoder:   p.NewDecoder(),
		namespace: opts.Namespace,
		log:       opts.Logger,
		opened:    make(chan struct{}),
		failed:    make(chan error, 1),
		events:    make(chan Event, 16),
		done:      make(chan struct{}),
	}
	if c.namespace == "" {
		c.namespace = "/"
	}

	// listeners go in before Construct: it dials right away
	_ = c.sock.On("open", c.onOpen)
	_ = c.sock.On("data", c.onData)
	_ = c.sock.On("close", c.onClose)
	_ = c.decoder.On("decoded", c.onDecoded)

	go c.sock.Construct(uri, engineOptions(path, opts))

	select {
	case <-c.opened:
		return c, nil
	case err = <-c.failed:
		return nil, fmt.Errorf("channel: dial %s: %w", uri, err)
	case <-ctx.Done():
		c.sock.Close()
		return nil, ctx.Err()
	}
}

func engineOptions(path string, opts Options) *engine.SocketOptions {
	o := engine.DefaultSocketOptions()
	o.SetPath(path)
	o.SetTransports(types.NewSet[engine.TransportCtor](transports.WebSocket))
	o.SetUpgrade(false)
	if opts.Header != nil {
		o.SetExtraHeaders(opts.Header)
	}
	if opts.TLSConfig != nil {
		o.SetTLSClientConfig(opts.TLSConfig)
	}
	return o
}

// socketURL splits http(s)://host/prefix into the engine origin and the
// /prefix/socket.io path.
func socketURL(baseURL string) (uri, path string, err error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", "", fmt.Errorf("channel: base url: %w", err)
	}

	switch u.Scheme {
	case "http", "https", "ws", "wss":
	default:
		return "", "", fmt.Errorf("channel: unsupported scheme %q", u.Scheme)
	}

	scheme := "http"
	if u.Scheme == "https" || u.Scheme == "wss" {
		scheme = "https"
	}
	path = strings.TrimRight(u.Path, "/") + "/socket.io"
	return scheme + "://" + u.Host, path, nil
}

// Events delivers Connected, Message and finally Disconnected, in the order
// the server sent them. The channel is closed after Disconnected.
func (c *Conn) Events() <-chan Event {
	return c.events
}

// Emit sends one event with a single JSON argument.
func (c *Conn) Emit(event string, payload any) error {
	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	return c.write(&parser.Packet{Type: parser.EVENT, Nsp: c.namespace, Data: []any{event, payload}})
}

// Close leaves the namespace and shuts the transport down. Safe to call more
// than once.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.write(&parser.Packet{Type: parser.DISCONNECT, Nsp: c.namespace})
		c.sock.Close()
	})
	return nil
}

func (c *Conn) write(p *parser.Packet) error {
	if c.sock.ReadyState() != engine.SocketStateOpen {
		return ErrClosed
	}
	for _, buf := range c.encoder.Encode(p) {
		c.sock.Write(buf, nil, nil)
	}
	return nil
}

func (c *Conn) onOpen(...any) {
	c.openOnce.Do(func() {
		c.log.Debug().Str("sid", c.sock.Id()).Str("namespace", c.namespace).Msg("[channel] open")
		_ = c.write(&parser.Packet{Type: parser.CONNECT, Nsp: c.namespace})
		close(c.opened)
	})
}

func (c *Conn) onData(args ...any) {
	if len(args) == 0 {
		return
	}
	if err := c.decoder.Add(args[0]); err != nil {
		c.log.Warn().Err(err).Msg("[channel] decode")
	}
}

func (c *Conn) onClose(args ...any) {
	var reason string
	var cause error
	if len(args) > 0 {
		reason, _ = args[0].(string)
	}
	if len(args) > 1 {
		cause, _ = args[1].(error)
	}

	var err error
	switch {
	case reason == forcedClose:
	case cause != nil:
		err = fmt.Errorf("channel: %s: %w", reason, cause)
	default:
		err = fmt.Errorf("channel: %s", reason)
	}

	select {
	case <-c.opened:
	default:
		if err == nil {
			err = ErrClosed
		}
		c.failed <- err
	}

	c.log.Debug().Str("reason", reason).Msg("[channel] close")
	c.finish(err)
}

func (c *Conn) onDecoded(args ...any) {
	if len(args) == 0 {
		return
	}
	p, ok := args[0].(*parser.Packet)
	if !ok {
		return
	}
	if p.Nsp != c.namespace {
		c.log.Trace().Str("namespace", p.Nsp).Msg("[channel] foreign namespace")
		return
	}

	switch p.Type {
	case parser.CONNECT:
		c.deliver(Event{Type: Connected})
	case parser.EVENT, parser.BINARY_EVENT:
		ev, err := messageEvent(p.Data)
		if err != nil {
			c.log.Warn().Err(err).Msg("[channel] event")
			return
		}
		c.deliver(ev)
	case parser.DISCONNECT:
		c.finish(nil)
		c.sock.Close()
	case parser.CONNECT_ERROR:
		c.finish(connectError(p.Data))
		c.sock.Close()
	}
}

// messageEvent turns ["name", arg] into a Message. Only the first argument is
// kept; the camera events carry exactly one.
func messageEvent(data any) (Event, error) {
	args, ok := data.([]any)
	if !ok || len(args) == 0 {
		return Event{}, fmt.Errorf("malformed event payload %v", data)
	}
	name, ok := args[0].(string)
	if !ok {
		return Event{}, fmt.Errorf("event name %v is not a string", args[0])
	}

	ev := Event{Type: Message, Name: name}
	if len(args) > 1 {
		raw, err := json.Marshal(args[1])
		if err != nil {
			return Event{}, err
		}
		ev.Data = raw
	}
	return ev, nil
}

func connectError(data any) error {
	if m, ok := data.(map[string]any); ok {
		if msg, ok := m["message"].(string); ok && msg != "" {
			return fmt.Errorf("%w: %s", ErrConnectRefused, msg)
		}
	}
	return ErrConnectRefused
}

// deliver blocks until the reader takes ev or the Conn is closed locally.
func (c *Conn) deliver(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.finished {
		return
	}
	select {
	case c.events <- ev:
	case <-c.done:
	}
}

// finish sends Disconnected once and closes the events channel.
func (c *Conn) finish(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.finished {
		return
	}
	c.finished = true

	select {
	case c.events <- Event{Type: Disconnected, Err: err}:
	case <-c.done:
	}
	close(c.events)
}
