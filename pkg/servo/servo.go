package servo

import (
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// PWM is the pulse generator driving a servo signal pin.
type PWM interface {
	// SetPeriod sets the signal period.
	SetPeriod(time.Duration) error
	// Write sets the high phase duration of each period.
	Write(width time.Duration) error
	// Start enables the output.
	Start() error
	// Stop disables the output.
	Stop() error
}

// Actuator is a servo commanded in degrees.
type Actuator interface {
	Start() error
	Stop() error
	Rotate(degrees uint8) error
}

// Servo implements Actuator over a PWM.
// It is not safe for concurrent use.
type Servo struct {
	pwm     PWM
	config  Config
	running bool
	degrees uint8
	width   time.Duration
}

// New creates a Servo after validating the config.
func New(pwm PWM, config Config) (*Servo, error) {
	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid servo config")
	}
	if err := pwm.SetPeriod(config.Period); err != nil {
		return nil, errors.Wrap(err, "set PWM period")
	}
	return &Servo{pwm: pwm, config: config}, nil
}

// Config returns the servo configuration.
func (s *Servo) Config() Config {
	return s.config
}

// Running indicates the output is enabled.
func (s *Servo) Running() bool {
	return s.running
}

// Position returns the last commanded degrees and pulse width.
func (s *Servo) Position() (uint8, time.Duration) {
	return s.degrees, s.width
}

// Start implements Actuator.
func (s *Servo) Start() error {
	if err := s.pwm.Start(); err != nil {
		return errors.Wrap(err, "start PWM")
	}
	s.running = true
	return nil
}

// Stop implements Actuator.
func (s *Servo) Stop() error {
	if err := s.pwm.Stop(); err != nil {
		return errors.Wrap(err, "stop PWM")
	}
	s.running = false
	return nil
}

// Rotate implements Actuator.
func (s *Servo) Rotate(degrees uint8) error {
	width := s.config.PulseWidth(degrees)
	if err := s.pwm.Write(width); err != nil {
		return errors.Wrapf(err, "write pulse width %v", width)
	}
	s.degrees, s.width = degrees, width
	glog.V(3).Infof("rotate %d -> %v", degrees, width)
	return nil
}
