package firmware

import (
	"context"
	"io"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/robotalks/servo.go/pkg/command"
	"github.com/robotalks/servo.go/pkg/transport"
)

// OpenFunc opens the transport, closer is called after the task ends.
type OpenFunc func(ctx context.Context) (task *transport.Task, closer io.Closer, err error)

// Supervisor keeps a transport task running and reopens it after failures.
type Supervisor struct {
	Open  OpenFunc
	Delay time.Duration
	Clock clock.Clock
	// Once disables reopening, for sources like stdin.
	Once bool
}

// Name implements Named.
func (s *Supervisor) Name() string {
	return "transport"
}

// Run implements Runnable.
// It returns command.ErrReset after a reset, io.EOF when a Once
// source ends.
func (s *Supervisor) Run(ctx context.Context) error {
	clk := s.Clock
	if clk == nil {
		clk = clock.New()
	}
	for {
		err := s.runOnce(ctx)
		switch {
		case errors.Is(err, command.ErrReset):
			return err
		case ctx.Err() != nil:
			return ctx.Err()
		case s.Once:
			if err == nil {
				err = io.EOF
			}
			return err
		}
		glog.Warningf("transport stopped: %v, reopen in %v", err, s.Delay)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-clk.After(s.Delay):
		}
	}
}

func (s *Supervisor) runOnce(ctx context.Context) error {
	task, closer, err := s.Open(ctx)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}
	return task.Run(ctx)
}
