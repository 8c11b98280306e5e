// Package transport receives command lines from the host and hands
// them to a LineHandler.
package transport

import (
	"context"
	"io"
	"os"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// readChunkSize matches the USB full-speed packet size.
const readChunkSize = 64

// ErrSessionClosed is returned when the session ends without error.
var ErrSessionClosed = errors.New("session closed")

// LineHandler is called with every complete line received.
// A returned error ends the transport task.
type LineHandler interface {
	HandleLine(context.Context, []byte) error
}

// HandleLineFunc is func type of LineHandler.
type HandleLineFunc func(context.Context, []byte) error

// HandleLine implements LineHandler.
func (f HandleLineFunc) HandleLine(ctx context.Context, line []byte) error {
	return f(ctx, line)
}

// Session is the housekeeping of the underlying device (e.g. the USB
// connection state). Run returns when the device is gone.
type Session interface {
	Run(context.Context) error
}

// IdleSession is a Session without housekeeping.
type IdleSession struct{}

// Run implements Session.
func (IdleSession) Run(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

// Task reads lines from Reader while the Session is alive.
type Task struct {
	Reader      io.Reader
	Session     Session
	Handler     LineHandler
	ReadTimeout bool // set to true if Reader already supports timeout with Read
	MaxLineLen  int
}

// NewTask creates a Task.
func NewTask(r io.Reader, s Session, h LineHandler) *Task {
	return &Task{Reader: r, Session: s, Handler: h, MaxLineLen: DefaultMaxLineLen}
}

// Name implements Named.
func (t *Task) Name() string {
	return "transport"
}

// Run runs the session and the read loop, when either ends both end.
func (t *Task) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	if t.Session != nil {
		g.Go(func() error {
			if err := t.Session.Run(ctx); err != nil {
				return err
			}
			return ErrSessionClosed
		})
	}
	g.Go(func() error {
		return t.readLines(ctx)
	})
	return g.Wait()
}

func (t *Task) readLines(ctx context.Context) error {
	lines := NewLineBuffer(t.MaxLineLen)
	handle := func(line []byte) error {
		glog.V(3).Infof("line: %q", line)
		return t.Handler.HandleLine(ctx, line)
	}

	if t.ReadTimeout {
		buf := make([]byte, readChunkSize)
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				n, err := t.Reader.Read(buf)
				if err != nil {
					if os.IsTimeout(err) {
						continue
					}
					return err
				}
				if err = lines.Feed(buf[:n], handle); err != nil {
					return err
				}
			}
		}
	}

	chunkCh, errCh := make(chan []byte), make(chan error, 1)
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go t.readLoop(subCtx, chunkCh, errCh)
	for {
		select {
		case chunk := <-chunkCh:
			if err := lines.Feed(chunk, handle); err != nil {
				return err
			}
		case err := <-errCh:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (t *Task) readLoop(ctx context.Context, chunkCh chan []byte, errCh chan error) {
	for {
		buf := make([]byte, readChunkSize)
		n, err := t.Reader.Read(buf)
		if n > 0 {
			select {
			case chunkCh <- buf[:n]:
			case <-ctx.Done():
				return
			}
		}
		if err != nil {
			errCh <- err
			return
		}
	}
}
