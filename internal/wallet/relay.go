package wallet

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	symKeyLen  = 32
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
)

// relay message types
const (
	msgSessionApprove = "session_approve"
	msgSessionReject  = "session_reject"
	msgSessionDelete  = "session_delete"
	msgRequest        = "request"
	msgResponse       = "response"
)

var (
	// ErrUnknownTopic is returned for a pairing topic that was never opened or already closed
	ErrUnknownTopic = errors.New("unknown pairing topic")
	// ErrAlreadyPaired is returned when a second wallet tries to join a topic
	ErrAlreadyPaired = errors.New("pairing topic already has a wallet attached")
	// ErrWalletDisconnected is returned when the remote wallet drops the socket
	ErrWalletDisconnected = errors.New("remote wallet disconnected")
)

// relayMessage is the envelope exchanged with the remote wallet over the socket
type relayMessage struct {
	Type     string          `json:"type"`
	ID       uint64          `json:"id,omitempty"`
	SymKey   string          `json:"symKey,omitempty"`
	Accounts []string        `json:"accounts,omitempty"`
	ChainID  int64           `json:"chainId,omitempty"`
	Method   string          `json:"method,omitempty"`
	Params   json.RawMessage `json:"params,omitempty"`
	Result   json.RawMessage `json:"result,omitempty"`
	Error    *relayError     `json:"error,omitempty"`
}

type relayError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type approval struct {
	accounts []string
	chainID  int64
	err      error
}

// Relay hosts pairing topics that remote wallets join over a websocket
type Relay struct {
	mu       sync.Mutex
	pairings map[string]*pairing
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewRelay creates an empty relay
func NewRelay(logger *zap.Logger) *Relay {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Relay{
		pairings: make(map[string]*pairing),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Wallet apps connect from anywhere; the pairing key authenticates them
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// open registers a new pairing topic with a fresh symmetric key
func (r *Relay) open() (*pairing, error) {
	key := make([]byte, symKeyLen)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("failed to generate pairing key: %w", err)
	}

	p := &pairing{
		topic:    uuid.NewString(),
		symKey:   key,
		approved: make(chan approval, 1),
		pending:  make(map[uint64]chan relayMessage),
		done:     make(chan struct{}),
		logger:   r.logger,
	}

	r.mu.Lock()
	r.pairings[p.topic] = p
	r.mu.Unlock()

	return p, nil
}

// remove forgets the topic and closes its socket
func (r *Relay) remove(p *pairing) {
	r.mu.Lock()
	if r.pairings[p.topic] == p {
		delete(r.pairings, p.topic)
	}
	r.mu.Unlock()
	p.close()
}

func (r *Relay) lookup(topic string) *pairing {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pairings[topic]
}

// ServeWS upgrades the request and binds the socket to the pairing topic.
// It blocks until the wallet disconnects.
func (r *Relay) ServeWS(w http.ResponseWriter, req *http.Request, topic string) {
	p := r.lookup(topic)
	if p == nil {
		http.Error(w, ErrUnknownTopic.Error(), http.StatusNotFound)
		return
	}
	if p.attached() {
		http.Error(w, ErrAlreadyPaired.Error(), http.StatusConflict)
		return
	}

	conn, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		r.logger.Warn("pairing upgrade failed", zap.String("topic", topic), zap.Error(err))
		return
	}

	if err := p.attach(conn); err != nil {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()),
			time.Now().Add(writeWait))
		conn.Close()
		return
	}

	r.logger.Info("remote wallet attached", zap.String("topic", topic))
	defer r.remove(p)
	p.readLoop(conn)
}

// pairing is one topic and, once joined, its wallet socket
type pairing struct {
	topic    string
	symKey   []byte
	approved chan approval

	mu      sync.Mutex // guards conn, pending, nextID and socket writes
	conn    *websocket.Conn
	pending map[uint64]chan relayMessage
	nextID  uint64

	done      chan struct{}
	closeOnce sync.Once
	logger    *zap.Logger
}

func (p *pairing) attached() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conn != nil
}

func (p *pairing) attach(conn *websocket.Conn) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	select {
	case <-p.done:
		return ErrUnknownTopic
	default:
	}
	if p.conn != nil {
		return ErrAlreadyPaired
	}
	p.conn = conn
	return nil
}

func (p *pairing) keyHex() string {
	return hex.EncodeToString(p.symKey)
}

func (p *pairing) checkKey(candidate string) bool {
	raw, err := hex.DecodeString(candidate)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(raw, p.symKey) == 1
}

// resolve delivers the first approval or rejection; later ones are dropped
func (p *pairing) resolve(a approval) {
	select {
	case p.approved <- a:
	default:
	}
}

func (p *pairing) readLoop(conn *websocket.Conn) {
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	go p.pingLoop(conn)

	for {
		var msg relayMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				p.logger.Warn("remote wallet socket error", zap.String("topic", p.topic), zap.Error(err))
			}
			return
		}

		switch msg.Type {
		case msgSessionApprove:
			if !p.checkKey(msg.SymKey) {
				p.resolve(approval{err: errors.New("pairing key mismatch")})
				return
			}
			p.resolve(approval{accounts: msg.Accounts, chainID: msg.ChainID})
		case msgSessionReject:
			reason := "session rejected"
			if msg.Error != nil && msg.Error.Message != "" {
				reason = msg.Error.Message
			}
			p.resolve(approval{err: errors.New(reason)})
		case msgResponse:
			p.deliver(msg)
		case msgSessionDelete:
			return
		default:
			p.logger.Debug("ignoring relay message", zap.String("type", msg.Type))
		}
	}
}

func (p *pairing) pingLoop(conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-p.done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func (p *pairing) deliver(msg relayMessage) {
	p.mu.Lock()
	ch, ok := p.pending[msg.ID]
	delete(p.pending, msg.ID)
	p.mu.Unlock()

	if !ok {
		p.logger.Debug("response for unknown request", zap.Uint64("id", msg.ID))
		return
	}
	ch <- msg
}

// waitApproval blocks until the wallet approves or rejects, disconnects, or ctx ends
func (p *pairing) waitApproval(ctx context.Context) (approval, error) {
	select {
	case a := <-p.approved:
		if a.err != nil {
			return a, a.err
		}
		return a, nil
	case <-p.done:
		return approval{}, ErrWalletDisconnected
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return approval{}, errors.New("pairing timed out")
		}
		return approval{}, ctx.Err()
	}
}

// request sends a JSON-RPC style request to the wallet and waits for its answer
func (p *pairing) request(ctx context.Context, method string, params interface{}) (json.RawMessage, error) {
	rawParams, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s params: %w", method, err)
	}

	p.mu.Lock()
	if p.conn == nil {
		p.mu.Unlock()
		return nil, ErrWalletDisconnected
	}
	p.nextID++
	id := p.nextID
	ch := make(chan relayMessage, 1)
	p.pending[id] = ch

	p.conn.SetWriteDeadline(time.Now().Add(writeWait))
	err = p.conn.WriteJSON(relayMessage{Type: msgRequest, ID: id, Method: method, Params: rawParams})
	if err != nil {
		delete(p.pending, id)
	}
	p.mu.Unlock()

	if err != nil {
		return nil, fmt.Errorf("failed to send %s to wallet: %w", method, err)
	}

	select {
	case resp := <-ch:
		if resp.Error != nil {
			return nil, errors.New(resp.Error.Message)
		}
		return resp.Result, nil
	case <-p.done:
		return nil, ErrWalletDisconnected
	case <-ctx.Done():
		p.mu.Lock()
		delete(p.pending, id)
		p.mu.Unlock()
		return nil, ctx.Err()
	}
}

// close tells the wallet the session is over and drops the socket
func (p *pairing) close() {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		conn := p.conn
		if conn != nil {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			conn.WriteJSON(relayMessage{Type: msgSessionDelete})
		}
		p.conn = nil
		close(p.done)
		p.mu.Unlock()

		if conn != nil {
			conn.Close()
		}
	})
}
