// Package firmware assembles the servo controller: transport sources,
// request channel, dispatch loop and servos.
package firmware

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/robotalks/servo.go/pkg/command"
	"github.com/robotalks/servo.go/pkg/dispatch"
	fx "github.com/robotalks/servo.go/pkg/framework"
	"github.com/robotalks/servo.go/pkg/msgs"
	"github.com/robotalks/servo.go/pkg/servo"
	"github.com/robotalks/servo.go/pkg/telemetry/mqtt"
	"github.com/robotalks/servo.go/pkg/transport"
)

// ResetExitCode is the exit code after a reset request.
const ResetExitCode = 3

// ErrNoDevice indicates no serial port matches the device identity.
var ErrNoDevice = errors.New("device not found")

// Indicator is the status LED.
type Indicator interface {
	Set(on bool) error
}

// LogIndicator is a simulated LED.
type LogIndicator struct {
	On bool
}

// Set implements Indicator.
func (i *LogIndicator) Set(on bool) error {
	i.On = on
	glog.V(1).Infof("LED %v", on)
	return nil
}

// ExitResetter simulates the reboot into programming mode by exiting.
type ExitResetter struct {
	Code int
	// Before is called before exit, e.g. to notify the reset.
	Before func()
}

var exit = os.Exit

// Reset implements command.Resetter.
func (r *ExitResetter) Reset() {
	if r.Before != nil {
		r.Before()
	}
	glog.Flush()
	exit(r.Code)
}

// PWMFactory creates the PWM output on a pin.
type PWMFactory func(id servo.Identity, pin int) servo.PWM

// LogPWMs creates simulated PWM outputs.
func LogPWMs(id servo.Identity, pin int) servo.PWM {
	return servo.NewLogPWM(fmt.Sprintf("%s/gpio%d", id, pin))
}

// Firmware is the assembled controller.
type Firmware struct {
	Config     *Config
	Channel    *dispatch.Channel
	Loop       *dispatch.Loop
	Servos     map[servo.Identity]*servo.Servo
	Handler    *command.Handler
	Indicator  Indicator
	Supervisor *Supervisor
	Bridge     *mqtt.Bridge
	Websocket  *transport.WebsocketServer
}

// NewFirmware creates the firmware, PWM outputs are created by pwms.
func (c *Config) NewFirmware(pwms PWMFactory) (*Firmware, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if pwms == nil {
		pwms = LogPWMs
	}
	f := &Firmware{
		Config:    c,
		Channel:   dispatch.NewChannel(c.Capacity),
		Servos:    make(map[servo.Identity]*servo.Servo),
		Indicator: &LogIndicator{},
	}
	f.Loop = dispatch.NewLoop(f.Channel)
	f.Loop.Interval = c.Interval
	f.Loop.Started = f.started
	for _, id := range servo.Identities() {
		s, err := servo.New(pwms(id, Pins[id]), c.Servo)
		if err != nil {
			return nil, errors.Wrapf(err, "servo %s", id)
		}
		f.Servos[id] = s
		f.Loop.Attach(id, s)
	}

	resetter := &ExitResetter{Code: ResetExitCode}
	f.Handler = command.NewHandler(f.Channel, resetter)
	f.Handler.Parser = &command.Parser{PrefixMatch: c.PrefixMatch}

	if c.MQTTBrokerURL != "" {
		status := msgs.DeviceStatus{
			DeviceID:     c.ID(),
			Manufacturer: transport.Device.Manufacturer,
			Product:      transport.Device.Product,
			SerialNumber: transport.Device.SerialNumber,
		}
		for _, id := range servo.Identities() {
			status.Servos = append(status.Servos, id.String())
		}
		bridge, err := mqtt.NewBridge(c.MQTTBrokerURL, status, f.Handler)
		if err != nil {
			return nil, errors.Wrap(err, "mqtt")
		}
		f.Bridge = bridge
		f.Loop.Handler = bridge
		resetter.Before = bridge.NotifyReset
	}
	if c.WebsocketAddr != "" {
		f.Websocket = &transport.WebsocketServer{
			Addr:       c.WebsocketAddr,
			Handler:    f.Handler,
			MaxLineLen: c.MaxLineLen,
		}
	}

	f.Supervisor = &Supervisor{
		Open:  c.openTransport(f.Handler),
		Delay: c.ReconnectDelay,
		Once:  c.Port == PortStdin,
	}
	return f, nil
}

func (c *Config) openTransport(h transport.LineHandler) OpenFunc {
	return func(ctx context.Context) (*transport.Task, io.Closer, error) {
		if c.Port == PortStdin {
			task := transport.NewTask(os.Stdin, transport.IdleSession{}, h)
			task.MaxLineLen = c.MaxLineLen
			return task, nil, nil
		}
		name := c.Port
		if name == PortAuto {
			names, err := transport.FindPorts(transport.Device)
			if err != nil {
				return nil, nil, err
			}
			if len(names) == 0 {
				return nil, nil, ErrNoDevice
			}
			name = names[0]
		}
		port, err := transport.OpenSerialPort(name, c.BaudRate)
		if err != nil {
			return nil, nil, err
		}
		task := port.Task(h)
		task.MaxLineLen = c.MaxLineLen
		return task, port, nil
	}
}

func (f *Firmware) started() {
	if err := f.Indicator.Set(true); err != nil {
		glog.Warningf("LED error: %v", err)
	}
	glog.Info("Getting started")
}

// Run runs all components until ctx is done, a reset is requested,
// or the stdin source ends and the queue is drained.
func (f *Firmware) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	runner := fx.NewRunnerWith(ctx).Go(
		f.Loop,
		fx.NamedRun(f.Supervisor.Name(), fx.RunFunc(func(ctx context.Context) error {
			err := f.Supervisor.Run(ctx)
			if err == io.EOF {
				f.drain(ctx)
				cancel()
				return nil
			}
			return err
		})),
	)
	if f.Bridge != nil {
		runner.Go(f.Bridge)
	}
	if f.Websocket != nil {
		runner.Go(f.Websocket)
	}
	err := runner.Wait()
	f.Indicator.Set(false)
	return err
}

// drain waits until all queued requests are actuated.
func (f *Firmware) drain(ctx context.Context) {
	clk := f.Loop.Clock
	for f.Channel.Len() > 0 {
		select {
		case <-ctx.Done():
			return
		case <-clk.After(f.Loop.Interval):
		}
	}
	select {
	case <-ctx.Done():
	case <-clk.After(f.Loop.Interval):
	}
}
