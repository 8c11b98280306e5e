// Package dispatch queues move requests and routes them to the servos.
package dispatch

import (
	"context"

	"github.com/golang/glog"

	"github.com/robotalks/servo.go/pkg/command"
)

// DefaultCapacity is the default number of queued requests.
const DefaultCapacity = 64

// Channel is a bounded FIFO of move requests.
// It is safe for multiple producers and a single consumer.
type Channel struct {
	ch chan command.MoveRequest
}

// NewChannel creates a Channel, DefaultCapacity is used if capacity
// is not positive.
func NewChannel(capacity int) *Channel {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Channel{ch: make(chan command.MoveRequest, capacity)}
}

// Send implements command.Sender.
// It blocks while the channel is full. A request is either enqueued
// or ctx.Err() is returned, it is never dropped.
func (c *Channel) Send(ctx context.Context, req command.MoveRequest) error {
	select {
	case c.ch <- req:
		return nil
	default:
	}
	glog.V(2).Infof("request channel full (%d), waiting", cap(c.ch))
	select {
	case c.ch <- req:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Receive dequeues the oldest request, blocking while the channel is empty.
func (c *Channel) Receive(ctx context.Context) (command.MoveRequest, error) {
	select {
	case req := <-c.ch:
		return req, nil
	case <-ctx.Done():
		return command.MoveRequest{}, ctx.Err()
	}
}

// Len returns the number of queued requests.
func (c *Channel) Len() int {
	return len(c.ch)
}

// Cap returns the capacity.
func (c *Channel) Cap() int {
	return cap(c.ch)
}
