package peer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"go.uber.org/zap"

	pnet "github.com/peterkuimelis/pantheon/internal/net"
)

const writeTimeout = 10 * time.Second

// Client is a WebSocket connection to the relay.
type Client struct {
	conn   *websocket.Conn
	ctx    context.Context
	logger *zap.Logger
	mu     sync.Mutex // serializes writes
}

// Dial connects to the relay's /ws endpoint.
func Dial(ctx context.Context, url string, logger *zap.Logger) (*Client, error) {
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	conn.SetReadLimit(1 << 20)
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{conn: conn, ctx: ctx, logger: logger}, nil
}

// Send writes one message to the relay.
func (c *Client) Send(msg pnet.ClientMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	ctx, cancel := context.WithTimeout(c.ctx, writeTimeout)
	defer cancel()
	if err := wsjson.Write(ctx, c.conn, msg); err != nil {
		return fmt.Errorf("write %s: %w", msg.Type, err)
	}
	return nil
}

// Run reads messages until the connection closes or ctx is done, passing
// each one to handle. A normal closure returns nil.
func (c *Client) Run(ctx context.Context, handle func(pnet.ServerMessage) error) error {
	for {
		var msg pnet.ServerMessage
		if err := wsjson.Read(ctx, c.conn, &msg); err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure || errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("read message: %w", err)
		}
		if err := handle(msg); err != nil {
			c.logger.Warn("handle message", zap.String("type", msg.Type), zap.Error(err))
		}
	}
}

// Close closes the connection normally.
func (c *Client) Close() error {
	return c.conn.Close(websocket.StatusNormalClosure, "")
}
