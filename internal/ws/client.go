// Package ws is the websocket transport to the game server.
package ws

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/DoyleJ11/connect4-client/internal/types"
)

// Router consumes raw inbound frames.
type Router interface {
	Route(data []byte)
}

type Options struct {
	WriteTimeout time.Duration
	DialTimeout  time.Duration
	SendBuffer   int
}

func DefaultOptions() Options {
	return Options{WriteTimeout: 3 * time.Second, DialTimeout: 10 * time.Second, SendBuffer: 32}
}

// Client owns one server connection. Send may be called from any goroutine.
type Client struct {
	conn *websocket.Conn
	opts Options
	out  chan []byte
	log  *zap.Logger
	// write sends one text frame; tests replace it.
	write func(ctx context.Context, payload []byte) error

	closeOnce sync.Once
	closed    chan struct{}
}

func Dial(ctx context.Context, url string, opts Options, log *zap.Logger) (*Client, error) {
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = 32
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = DefaultOptions().WriteTimeout
	}
	dialCtx := ctx
	if opts.DialTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, opts.DialTimeout)
		defer cancel()
	}
	conn, _, err := websocket.Dial(dialCtx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	c := &Client{
		conn:   conn,
		opts:   opts,
		out:    make(chan []byte, opts.SendBuffer),
		log:    log.Named("ws").With(zap.String("url", url)),
		closed: make(chan struct{}),
	}
	c.write = func(ctx context.Context, payload []byte) error {
		return c.conn.Write(ctx, websocket.MessageText, payload)
	}
	return c, nil
}

// Send encodes i and queues it. It never blocks: when the queue is full or the
// connection is gone the intent is dropped and logged.
func (c *Client) Send(i types.Intent) {
	payload, err := types.Encode(i)
	if err != nil {
		c.log.Error("encode intent", zap.Error(err))
		return
	}
	select {
	case <-c.closed:
		c.log.Warn("connection closed, intent dropped")
		return
	default:
	}
	select {
	case c.out <- payload:
	default:
		c.log.Warn("send queue full, intent dropped")
	}
}

// Run pumps frames until ctx ends or the connection closes. Every text frame is
// handed to r on the calling goroutine, in arrival order. A normal close is not an
// error.
func (c *Client) Run(ctx context.Context, r Router) error {
	ctx, cancel := context.WithCancel(ctx)

	// Writer goroutine
	writerDone := make(chan struct{})
	writeErr := make(chan error, 1)
	go func() {
		defer close(writerDone)
		for {
			select {
			case <-ctx.Done():
				return
			case <-c.closed:
				return
			case payload := <-c.out:
				wctx, wcancel := context.WithTimeout(ctx, c.opts.WriteTimeout)
				err := c.write(wctx, payload)
				wcancel()
				if err != nil {
					c.log.Warn("write failed", zap.Error(err))
					writeErr <- fmt.Errorf("write: %w", err)
					cancel()
					return
				}
			}
		}
	}()
	defer func() {
		cancel()
		<-writerDone
	}()

	// Reader loop
	for {
		typ, data, err := c.conn.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				c.log.Info("server closed the connection")
				return nil
			}
			stopped := ctx.Err() != nil
			// a failed write closes the connection under the reader
			cancel()
			<-writerDone
			select {
			case werr := <-writeErr:
				return werr
			default:
			}
			if stopped {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}
		if typ != websocket.MessageText {
			c.log.Debug("non-text frame ignored")
			continue
		}
		r.Route(data)
	}
}

func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closed)
		err = c.conn.Close(websocket.StatusNormalClosure, "bye")
	})
	return err
}
