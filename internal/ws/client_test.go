package ws

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DoyleJ11/connect4-client/internal/types"
)

type chanRouter chan string

func (c chanRouter) Route(data []byte) { c <- string(data) }

// echoServer sends greeting on connect, then forwards every frame it reads to got.
func echoServer(t *testing.T, greeting string, got chan<- string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		if greeting != "" {
			if err := conn.Write(r.Context(), websocket.MessageText, []byte(greeting)); err != nil {
				return
			}
		}
		for {
			_, data, err := conn.Read(r.Context())
			if err != nil {
				return
			}
			got <- string(data)
			if strings.Contains(string(data), "bye-please") {
				conn.Close(websocket.StatusNormalClosure, "done")
				return
			}
		}
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func recv(t *testing.T, ch <-chan string, within time.Duration) string {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(within):
		t.Fatalf("timed out waiting for frame")
		return ""
	}
}

func TestClient_RoutesInboundAndWritesIntents(t *testing.T) {
	got := make(chan string, 8)
	url := echoServer(t, `{"type":"clients","list":["Bob"]}`, got)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c, err := Dial(ctx, url, DefaultOptions(), zap.NewNop())
	require.NoError(t, err)
	defer c.Close()

	routed := make(chanRouter, 8)
	runErr := make(chan error, 1)
	go func() { runErr <- c.Run(ctx, routed) }()

	assert.JSONEq(t, `{"type":"clients","list":["Bob"]}`, recv(t, routed, time.Second))

	c.Send(types.RequestRoster{})
	assert.JSONEq(t, `{"type":"getClients"}`, recv(t, got, time.Second))

	c.Send(types.SubmitMove{Column: 4})
	assert.JSONEq(t, `{"type":"clientPlay","value":{"column":4}}`, recv(t, got, time.Second))

	cancel()
	select {
	case err := <-runErr:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}

func TestClient_NormalCloseEndsRunWithoutError(t *testing.T) {
	got := make(chan string, 8)
	url := echoServer(t, "", got)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c, err := Dial(ctx, url, DefaultOptions(), zap.NewNop())
	require.NoError(t, err)
	defer c.Close()

	runErr := make(chan error, 1)
	go func() { runErr <- c.Run(ctx, make(chanRouter, 1)) }()

	c.Send(types.SendInvite{Destination: "bye-please"})
	select {
	case err := <-runErr:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after server close")
	}
}

func TestClient_SendAfterCloseIsDropped(t *testing.T) {
	got := make(chan string, 8)
	url := echoServer(t, "", got)

	c, err := Dial(context.Background(), url, DefaultOptions(), zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, c.Close())

	c.Send(types.RequestRoster{})
	assert.Len(t, c.out, 0)
}

func TestDial_Unreachable(t *testing.T) {
	opts := DefaultOptions()
	opts.DialTimeout = 200 * time.Millisecond
	_, err := Dial(context.Background(), "ws://127.0.0.1:1", opts, zap.NewNop())
	assert.Error(t, err)
}

func TestClient_WriteFailureIsReturnedFromRun(t *testing.T) {
	got := make(chan string, 8)
	url := echoServer(t, "", got)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c, err := Dial(ctx, url, DefaultOptions(), zap.NewNop())
	require.NoError(t, err)
	defer c.Close()

	broken := errors.New("broken pipe")
	c.write = func(context.Context, []byte) error { return broken }

	runErr := make(chan error, 1)
	go func() { runErr <- c.Run(ctx, make(chanRouter, 1)) }()

	c.Send(types.RequestRoster{})
	select {
	case err := <-runErr:
		assert.ErrorIs(t, err, broken)
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after a failed write")
	}
}
