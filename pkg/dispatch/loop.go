package dispatch

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/robotalks/servo.go/pkg/command"
	"github.com/robotalks/servo.go/pkg/servo"
)

// DefaultInterval is the minimum delay between two actuations.
const DefaultInterval = 10 * time.Millisecond

// Actuation describes a request applied to a servo.
type Actuation struct {
	Request command.MoveRequest
	Time    time.Time
	Err     error
}

// ActuationHandler is notified after each actuation.
// It is called from the dispatch loop and must not block.
type ActuationHandler interface {
	HandleActuation(context.Context, Actuation)
}

// HandleActuationFunc is func type of ActuationHandler.
type HandleActuationFunc func(context.Context, Actuation)

// HandleActuation implements ActuationHandler.
func (f HandleActuationFunc) HandleActuation(ctx context.Context, a Actuation) {
	f(ctx, a)
}

// Loop is the single consumer of a Channel. It owns the actuators.
type Loop struct {
	Channel   *Channel
	Actuators map[servo.Identity]servo.Actuator
	Interval  time.Duration
	Clock     clock.Clock
	Handler   ActuationHandler

	// Started is called once all actuators are started.
	Started func()
}

// NewLoop creates a Loop consuming the channel.
func NewLoop(ch *Channel) *Loop {
	return &Loop{
		Channel:   ch,
		Actuators: make(map[servo.Identity]servo.Actuator),
		Interval:  DefaultInterval,
		Clock:     clock.New(),
	}
}

// Attach assigns the actuator of a servo.
func (l *Loop) Attach(id servo.Identity, a servo.Actuator) *Loop {
	l.Actuators[id] = a
	return l
}

// Name implements Named.
func (l *Loop) Name() string {
	return "dispatch"
}

// Run implements Runnable.
// Actuators are started before the first request and stopped on return.
func (l *Loop) Run(ctx context.Context) error {
	clk := l.Clock
	if clk == nil {
		clk = clock.New()
	}
	if err := l.startAll(); err != nil {
		return err
	}
	defer l.stopAll()
	if l.Started != nil {
		l.Started()
	}

	for {
		req, err := l.Channel.Receive(ctx)
		if err != nil {
			return err
		}
		l.actuate(ctx, req, clk.Now())
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-clk.After(l.Interval):
		}
	}
}

func (l *Loop) actuate(ctx context.Context, req command.MoveRequest, now time.Time) {
	a := l.Actuators[req.Target]
	if a == nil {
		glog.Warningf("no actuator for %s, drop %q", req.Target, req.String())
		return
	}
	err := a.Rotate(req.Degrees)
	if err != nil {
		glog.Errorf("rotate %s error: %v", req.Target, err)
	}
	if h := l.Handler; h != nil {
		h.HandleActuation(ctx, Actuation{Request: req, Time: now, Err: err})
	}
}

func (l *Loop) startAll() error {
	for _, id := range servo.Identities() {
		if a := l.Actuators[id]; a != nil {
			if err := a.Start(); err != nil {
				return errors.Wrapf(err, "start %s", id)
			}
		}
	}
	return nil
}

func (l *Loop) stopAll() {
	for _, id := range servo.Identities() {
		if a := l.Actuators[id]; a != nil {
			if err := a.Stop(); err != nil {
				glog.Errorf("stop %s error: %v", id, err)
			}
		}
	}
}
