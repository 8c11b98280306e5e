package transport

import (
	"context"
	"net"
	"net/http"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	fx "github.com/robotalks/servo.go/pkg/framework"
)

// DefaultWebsocketPath is the HTTP path accepting websocket connections.
const DefaultWebsocketPath = "/cmd"

// WebsocketServer accepts command lines over websocket connections.
// Each message carries one or more lines, a missing trailing newline
// is implied.
type WebsocketServer struct {
	Addr       string
	Path       string
	Handler    LineHandler
	MaxLineLen int

	// Listening is called with the bound address once the server listens.
	Listening func(net.Addr)
}

// Name implements Named.
func (s *WebsocketServer) Name() string {
	return "websocket"
}

// Run implements Runnable.
func (s *WebsocketServer) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	path := s.Path
	if path == "" {
		path = DefaultWebsocketPath
	}
	mux := http.NewServeMux()
	mux.Handle(path, websocket.Server{
		Handler: func(conn *websocket.Conn) { s.serve(ctx, conn) },
	})
	server := &http.Server{Handler: mux}
	glog.Infof("websocket listening on %s%s", ln.Addr(), path)
	if s.Listening != nil {
		s.Listening(ln.Addr())
	}
	return fx.RunWithContextCloser(ctx, server, func() error {
		if err := server.Serve(ln); err != http.ErrServerClosed {
			return err
		}
		return nil
	})
}

func (s *WebsocketServer) serve(ctx context.Context, conn *websocket.Conn) {
	doneCh := make(chan struct{})
	defer close(doneCh)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-doneCh:
		}
	}()

	remote := conn.Request().RemoteAddr
	glog.V(1).Infof("websocket %s connected", remote)
	lines := NewLineBuffer(s.MaxLineLen)
	handle := func(line []byte) error {
		return s.Handler.HandleLine(ctx, line)
	}
	for {
		var msg []byte
		if err := websocket.Message.Receive(conn, &msg); err != nil {
			glog.V(1).Infof("websocket %s disconnected: %v", remote, err)
			return
		}
		if len(msg) == 0 || msg[len(msg)-1] != '\n' {
			msg = append(msg, '\n')
		}
		if err := lines.Feed(msg, handle); err != nil {
			glog.Errorf("websocket %s: %v", remote, err)
			return
		}
	}
}
