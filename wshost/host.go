// Package wshost drives a canvas backend through a websocket thin client.
//
// The client reports its canvas size in pixels, forwards key presses and
// draws the frames it receives. Every message is a JSON envelope:
//
//	client -> server  {"type":"size","width":960,"height":480,"cellWidth":12,"cellHeight":24}
//	                  {"type":"key","key":"a"}
//	server -> client  {"type":"frame","frame":{"width":80,"height":20,"data":[...]}}
//	                  {"type":"title","title":"demo"}
//
// The first client message must be a size message; cellWidth and
// cellHeight are optional. Sizes above MaxSurfacePixels or cells above
// MaxCellPixels fail the handshake.
package wshost

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	canvasbackend "github.com/danielgatis/go-canvas-backend"
)

// Message types.
const (
	MessageSize  = "size"
	MessageKey   = "key"
	MessageFrame = "frame"
	MessageTitle = "title"
)

// DefaultHandshakeTimeout bounds the wait for the client's size message.
const DefaultHandshakeTimeout = 10 * time.Second

// Bounds on client-reported geometry, in pixels.
const (
	MaxSurfacePixels = 1 << 15
	MaxCellPixels    = 1 << 10
)

// ErrHandshake is returned when the client does not open with a valid
// size message.
var ErrHandshake = errors.New("wshost: handshake failed")

// Message is the wire envelope in both directions.
type Message struct {
	Type       string          `json:"type"`
	Width      int             `json:"width,omitempty"`
	Height     int             `json:"height,omitempty"`
	CellWidth  int             `json:"cellWidth,omitempty"`
	CellHeight int             `json:"cellHeight,omitempty"`
	Key        string          `json:"key,omitempty"`
	Title      string          `json:"title,omitempty"`
	Frame      json.RawMessage `json:"frame,omitempty"`
}

type config struct {
	id          string
	logger      *slog.Logger
	timeout     time.Duration
	checkOrigin func(*http.Request) bool
}

// Option configures Accept and NewHost.
type Option func(*config)

// WithSurfaceID registers the surface under id instead of the default.
func WithSurfaceID(id string) Option {
	return func(c *config) {
		if id != "" {
			c.id = id
		}
	}
}

// WithLogger sets the logger for connection warnings.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithHandshakeTimeout overrides DefaultHandshakeTimeout.
func WithHandshakeTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithCheckOrigin sets the upgrader origin check. The gorilla default
// rejects cross-origin requests.
func WithCheckOrigin(fn func(*http.Request) bool) Option {
	return func(c *config) {
		c.checkOrigin = fn
	}
}

func newConfig(opts []Option) *config {
	c := &config{
		id:      canvasbackend.DefaultSurfaceID,
		logger:  canvasbackend.NopLogger(),
		timeout: DefaultHandshakeTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Accept upgrades the request and waits for the client's size message.
func Accept(w http.ResponseWriter, r *http.Request, opts ...Option) (*Host, error) {
	cfg := newConfig(opts)
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     cfg.checkOrigin,
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, fmt.Errorf("wshost: upgrade: %w", err)
	}
	return newHost(conn, cfg)
}

// NewHost performs the size handshake on an established connection.
// The connection is closed if the handshake fails.
func NewHost(conn *websocket.Conn, opts ...Option) (*Host, error) {
	return newHost(conn, newConfig(opts))
}

func newHost(conn *websocket.Conn, cfg *config) (*Host, error) {
	if err := conn.SetReadDeadline(time.Now().Add(cfg.timeout)); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: %w", ErrHandshake, err)
	}

	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: %w", ErrHandshake, err)
	}
	if msg.Type != MessageSize {
		conn.Close()
		return nil, fmt.Errorf("%w: expected size message, got %q", ErrHandshake, msg.Type)
	}
	if err := checkSize(msg); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: %w", ErrHandshake, err)
	}
	if err := conn.SetReadDeadline(time.Time{}); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: %w", ErrHandshake, err)
	}

	cfg.logger.Debug("client connected",
		"remote", conn.RemoteAddr().String(),
		"pixels", [2]int{msg.Width, msg.Height},
	)

	return &Host{
		id: cfg.id,
		surface: &Surface{
			conn:       conn,
			logger:     cfg.logger,
			width:      msg.Width,
			height:     msg.Height,
			cellWidth:  msg.CellWidth,
			cellHeight: msg.CellHeight,
			done:       make(chan struct{}),
		},
	}, nil
}

func checkSize(msg Message) error {
	if msg.Width < 0 || msg.Width > MaxSurfacePixels || msg.Height < 0 || msg.Height > MaxSurfacePixels {
		return fmt.Errorf("surface %dx%d out of range", msg.Width, msg.Height)
	}
	if msg.CellWidth < 0 || msg.CellWidth > MaxCellPixels || msg.CellHeight < 0 || msg.CellHeight > MaxCellPixels {
		return fmt.Errorf("cell %dx%d out of range", msg.CellWidth, msg.CellHeight)
	}
	return nil
}

// Host is a single-surface document backed by one websocket client.
type Host struct {
	id      string
	surface *Surface
}

// Document implements canvasbackend.Host.
func (h *Host) Document() (canvasbackend.Document, error) {
	return h, nil
}

// ElementByID implements canvasbackend.Document.
func (h *Host) ElementByID(id string) (canvasbackend.Element, bool) {
	if id != h.id {
		return nil, false
	}
	return h.surface, true
}

// Surface returns the remote surface.
func (h *Host) Surface() *Surface {
	return h.surface
}

// Close closes the connection.
func (h *Host) Close() error {
	return h.surface.conn.Close()
}

// Surface is the client's canvas as seen from the server.
type Surface struct {
	conn   *websocket.Conn
	logger *slog.Logger

	// wmu serializes writers; gorilla allows one concurrent writer.
	wmu sync.Mutex

	mu         sync.Mutex
	width      int
	height     int
	cellWidth  int
	cellHeight int
	listener   func(canvasbackend.KeyEvent)
	reading    bool
	done       chan struct{}
}

var (
	_ canvasbackend.Host      = (*Host)(nil)
	_ canvasbackend.Surface   = (*Surface)(nil)
	_ canvasbackend.Painter   = (*Surface)(nil)
	_ canvasbackend.CellSizer = (*Surface)(nil)
)

// Width returns the client canvas width in pixels.
func (s *Surface) Width() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width
}

// Height returns the client canvas height in pixels.
func (s *Surface) Height() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.height
}

// CellSize returns the cell geometry the client asked for. Zero values let
// the backend fall back to its defaults.
func (s *Surface) CellSize() (width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cellWidth, s.cellHeight
}

// SetTitle sends a title message.
func (s *Surface) SetTitle(title string) {
	s.write(Message{Type: MessageTitle, Title: title})
}

// Paint sends frame as a frame message.
func (s *Surface) Paint(frame *canvasbackend.Frame) {
	data, err := json.Marshal(frame)
	if err != nil {
		s.logger.Warn("encode frame", "error", err)
		return
	}
	s.write(Message{Type: MessageFrame, Frame: data})
}

// OnKeyDown registers fn for key messages. The connection has a single
// reader, started on first registration; release only detaches fn.
func (s *Surface) OnKeyDown(fn func(canvasbackend.KeyEvent)) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return nil, canvasbackend.ErrListenerBusy
	}
	s.listener = fn
	if !s.reading {
		s.reading = true
		go s.read()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.listener = nil
			s.mu.Unlock()
		})
	}, nil
}

// Done is closed once the client connection stops delivering messages.
// It only fires after a key listener has been registered.
func (s *Surface) Done() <-chan struct{} {
	return s.done
}

func (s *Surface) read() {
	defer close(s.done)
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn("read client message", "error", err)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			s.logger.Warn("decode client message", "error", err)
			continue
		}

		switch msg.Type {
		case MessageKey:
			s.mu.Lock()
			fn := s.listener
			s.mu.Unlock()
			if fn != nil {
				fn(canvasbackend.KeyEvent{Key: msg.Key})
			}
		case MessageSize:
			// The grid is fixed at init; later sizes are recorded only.
			if err := checkSize(msg); err != nil {
				s.logger.Warn("ignore client size", "error", err)
				continue
			}
			s.mu.Lock()
			s.width, s.height = msg.Width, msg.Height
			s.mu.Unlock()
		default:
			s.logger.Debug("ignore client message", "type", msg.Type)
		}
	}
}

func (s *Surface) write(msg Message) {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	if err := s.conn.WriteJSON(msg); err != nil {
		s.logger.Warn("write client message", "type", msg.Type, "error", err)
	}
}
