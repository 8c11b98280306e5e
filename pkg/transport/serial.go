package transport

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"go.bug.st/serial"
)

// Serial port defaults.
const (
	DefaultBaudRate     = 115200
	DefaultReadTimeout  = 100 * time.Millisecond
	DefaultPollInterval = 500 * time.Millisecond
)

// OpenPort opens a serial device. It's a variable in case you need to
// override it during tests.
var OpenPort = func(name string, mode *serial.Mode) (serial.Port, error) {
	return serial.Open(name, mode)
}

// SerialPort is a serial device used as both Reader and Session.
// The session polls the modem status bits, it ends when the device
// disappears.
type SerialPort struct {
	serial.Port
	Name         string
	PollInterval time.Duration
	Clock        clock.Clock
}

// OpenSerialPort opens the named port with read timeout enabled.
func OpenSerialPort(name string, baudRate int) (*SerialPort, error) {
	if baudRate <= 0 {
		baudRate = DefaultBaudRate
	}
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := OpenPort(name, mode)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", name)
	}
	if err = port.SetReadTimeout(DefaultReadTimeout); err != nil {
		port.Close()
		return nil, errors.Wrapf(err, "set read timeout %s", name)
	}
	glog.Infof("serial port %s opened at %d baud", name, baudRate)
	return &SerialPort{Port: port, Name: name, PollInterval: DefaultPollInterval}, nil
}

// Run implements Session.
func (p *SerialPort) Run(ctx context.Context) error {
	if p.PollInterval <= 0 {
		return IdleSession{}.Run(ctx)
	}
	clk := p.Clock
	if clk == nil {
		clk = clock.New()
	}
	ticker := clk.Ticker(p.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			bits, err := p.GetModemStatusBits()
			if err != nil {
				return errors.Wrapf(err, "serial port %s lost", p.Name)
			}
			glog.V(5).Infof("%s modem status %+v", p.Name, *bits)
		}
	}
}

// Task creates a transport Task reading from the port.
func (p *SerialPort) Task(h LineHandler) *Task {
	t := NewTask(p, p, h)
	t.ReadTimeout = true
	return t
}
