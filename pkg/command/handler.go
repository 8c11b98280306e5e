package command

import (
	"context"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// ErrReset is returned by Handler once the reset has been triggered.
var ErrReset = errors.New("reset to bootloader")

// Sender enqueues move requests, blocking while the queue is full.
type Sender interface {
	Send(context.Context, MoveRequest) error
}

// Resetter reboots the device into programming mode.
// On hardware Reset never returns.
type Resetter interface {
	Reset()
}

// ResetFunc is the func form of Resetter.
type ResetFunc func()

// Reset implements Resetter.
func (f ResetFunc) Reset() {
	f()
}

// Handler parses lines and acts on the resulting commands.
type Handler struct {
	Parser   *Parser
	Sender   Sender
	Resetter Resetter
}

// NewHandler creates a Handler with DefaultParser.
func NewHandler(sender Sender, resetter Resetter) *Handler {
	return &Handler{Parser: DefaultParser, Sender: sender, Resetter: resetter}
}

// HandleLine handles one complete line.
// Invalid lines are ignored. ErrReset is returned after a reset.
func (h *Handler) HandleLine(ctx context.Context, line []byte) error {
	parser := h.Parser
	if parser == nil {
		parser = DefaultParser
	}
	switch cmd := parser.Parse(line).(type) {
	case MoveRequest:
		glog.V(1).Infof("serial received: %q", cmd.String())
		return h.Sender.Send(ctx, cmd)
	case ResetRequest:
		glog.Info("reset to bootloader requested")
		glog.Flush()
		if h.Resetter != nil {
			h.Resetter.Reset()
		}
		return ErrReset
	}
	return nil
}
