package policy

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Message types on the trainer socket.
const (
	MessageStep   = "step"
	MessageAction = "action"
)

type stepMessage struct {
	Type        string      `json:"type"`
	Observation Observation `json:"observation"`
}

type actionMessage struct {
	Type   string    `json:"type"`
	Action []float64 `json:"action"`
	Error  string    `json:"error,omitempty"`
}

// RemotePolicy forwards observations to an external trainer and blocks for
// its reply. One request is in flight at a time.
type RemotePolicy struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func DialRemote(ctx context.Context, url string) (*RemotePolicy, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("policy: dial %s: %w", url, err)
	}
	return &RemotePolicy{conn: conn}, nil
}

func (p *RemotePolicy) Decide(ctx context.Context, obs Observation) ([]float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Time{}
	}
	if err := p.conn.SetWriteDeadline(deadline); err != nil {
		return nil, err
	}
	if err := p.conn.WriteJSON(stepMessage{Type: MessageStep, Observation: obs}); err != nil {
		return nil, fmt.Errorf("policy: send observation: %w", err)
	}

	if err := p.conn.SetReadDeadline(deadline); err != nil {
		return nil, err
	}
	var reply actionMessage
	if err := p.conn.ReadJSON(&reply); err != nil {
		return nil, fmt.Errorf("policy: read action: %w", err)
	}
	if reply.Error != "" {
		return nil, fmt.Errorf("policy: trainer: %s", reply.Error)
	}
	if reply.Type != MessageAction {
		return nil, fmt.Errorf("policy: unexpected message %q", reply.Type)
	}
	if len(reply.Action) == 0 {
		return nil, ErrNoAction
	}
	return reply.Action, nil
}

func (p *RemotePolicy) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_ = p.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	return p.conn.Close()
}
