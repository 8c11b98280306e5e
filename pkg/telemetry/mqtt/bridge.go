package mqtt

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/golang/glog"

	"github.com/robotalks/servo.go/pkg/dispatch"
	"github.com/robotalks/servo.go/pkg/msgs"
	"github.com/robotalks/servo.go/pkg/transport"
)

// Topics relative to the queue prefix.
const (
	TopicStatus  = "status"
	TopicEvents  = "events"
	TopicCommand = "cmd"
)

// DefaultRetryDelay is the wait before reconnecting a broker which
// refused the initial connection.
const DefaultRetryDelay = 5 * time.Second

const (
	// publishTimeout bounds the wait for the last messages to be sent.
	publishTimeout = 500 * time.Millisecond
	// commandBacklog is the number of command payloads buffered between
	// the client and the Handler.
	commandBacklog = 16
)

// Bridge connects the controller to a broker.
// It keeps a retained DeviceStatus (with an offline will), publishes
// actuation events and feeds command lines to Handler.
// A broker failure never stops Run, the bridge keeps reconnecting.
type Bridge struct {
	Queue      *Queue
	Status     msgs.DeviceStatus
	Handler    transport.LineHandler
	RetryDelay time.Duration
	Clock      clock.Clock

	seq uint64
}

// NewBridge creates a Bridge from a broker URL.
func NewBridge(brokerURL string, status msgs.DeviceStatus, h transport.LineHandler) (*Bridge, error) {
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	b := &Bridge{Status: status, Handler: h, RetryDelay: DefaultRetryDelay}
	will, err := b.statusPayload(false)
	if err != nil {
		return nil, err
	}
	opts.SetBinaryWill(topicPrefix+b.Topic(TopicStatus), will, 1, true)
	if opts.ClientID == "" {
		opts.SetClientID("servo:" + status.DeviceID)
	}
	b.Queue = NewQueue(opts, topicPrefix)
	b.Queue.OnConnect = func(*Queue) { b.publishStatus(true) }
	return b, nil
}

// Topic returns the device topic relative to the queue prefix.
func (b *Bridge) Topic(name string) string {
	return b.Status.DeviceID + "/" + name
}

// Name implements Named.
func (b *Bridge) Name() string {
	return "mqtt"
}

// Run implements Runnable.
// It only returns when ctx is done.
func (b *Bridge) Run(ctx context.Context) error {
	if !b.connect(ctx) {
		return ctx.Err()
	}
	sub := b.Subscribe(ctx)
	<-ctx.Done()
	sub.Close()
	if token := b.publishStatus(false); token != nil {
		token.WaitTimeout(publishTimeout)
	}
	b.Queue.Close()
	return ctx.Err()
}

func (b *Bridge) connect(ctx context.Context) bool {
	clk := b.Clock
	if clk == nil {
		clk = clock.New()
	}
	delay := b.RetryDelay
	if delay <= 0 {
		delay = DefaultRetryDelay
	}
	for {
		err := b.Queue.Connect(ctx)
		if err == nil {
			return true
		}
		if ctx.Err() != nil {
			return false
		}
		glog.Warningf("mqtt connect error: %v, retry in %v", err, delay)
		select {
		case <-ctx.Done():
			return false
		case <-clk.After(delay):
		}
	}
}

// Subscribe starts accepting command lines on the command topic.
// Payloads are handled on a separate goroutine until ctx is done, the
// client only blocks when the backlog is full.
func (b *Bridge) Subscribe(ctx context.Context) *Subscription {
	payloads := make(chan []byte, commandBacklog)
	go b.handleCommands(ctx, payloads)
	return b.Queue.Sub(b.Topic(TopicCommand), func(topic string, payload []byte) {
		if b.Handler == nil {
			return
		}
		select {
		case payloads <- append([]byte(nil), payload...):
		case <-ctx.Done():
		}
	})
}

func (b *Bridge) handleCommands(ctx context.Context, payloads <-chan []byte) {
	for {
		select {
		case <-ctx.Done():
			return
		case payload := <-payloads:
			if len(payload) == 0 || payload[len(payload)-1] != '\n' {
				payload = append(payload, '\n')
			}
			lines := transport.NewLineBuffer(0)
			err := lines.Feed(payload, func(line []byte) error {
				return b.Handler.HandleLine(ctx, line)
			})
			if err != nil {
				glog.Errorf("mqtt command: %v", err)
			}
		}
	}
}

// HandleActuation implements dispatch.ActuationHandler.
func (b *Bridge) HandleActuation(ctx context.Context, a dispatch.Actuation) {
	msg := &msgs.ServoMoved{
		Servo:     a.Request.Target.String(),
		Degrees:   uint32(a.Request.Degrees),
		Timestamp: a.Time.UnixNano(),
	}
	if a.Err != nil {
		msg.Error = a.Err.Error()
	}
	b.publish(msg)
}

// NotifyReset publishes ResetRequested and waits briefly for delivery.
func (b *Bridge) NotifyReset() {
	msg := &msgs.ResetRequested{Timestamp: time.Now().UnixNano()}
	if token := b.publish(msg); token != nil {
		token.WaitTimeout(publishTimeout)
	}
}

func (b *Bridge) publish(msg msgs.Message) paho.Token {
	data, err := msgs.Encode(msg, atomic.AddUint64(&b.seq, 1))
	if err != nil {
		glog.Errorf("encode %s error: %v", msg, err)
		return nil
	}
	return b.Queue.Pub(b.Topic(TopicEvents), data)
}

func (b *Bridge) statusPayload(online bool) ([]byte, error) {
	status := b.Status
	status.Online = online
	return msgs.Encode(&status, 0)
}

func (b *Bridge) publishStatus(online bool) paho.Token {
	data, err := b.statusPayload(online)
	if err != nil {
		glog.Errorf("encode status error: %v", err)
		return nil
	}
	return b.Queue.PubWith(b.Topic(TopicStatus), data, 1, true)
}
