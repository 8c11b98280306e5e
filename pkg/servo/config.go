package servo

import (
	"time"

	"github.com/pkg/errors"
)

// Defaults
const (
	DefaultPeriod            = 20 * time.Millisecond
	DefaultMinPulseWidth     = 1000 * time.Microsecond
	DefaultMaxPulseWidth     = 2000 * time.Microsecond
	DefaultMaxDegreeRotation = 180
)

// Config defines the pulse characteristics of a servo.
type Config struct {
	// Period is the PWM signal period.
	Period time.Duration
	// MinPulseWidth is the pulse width commanding 0 degree.
	MinPulseWidth time.Duration
	// MaxPulseWidth is the widest pulse ever written.
	MaxPulseWidth time.Duration
	// MaxDegreeRotation is the degree reached at MaxPulseWidth.
	MaxDegreeRotation uint
}

// DefaultConfig returns the configuration of a standard 180 degree servo.
func DefaultConfig() Config {
	return Config{
		Period:            DefaultPeriod,
		MinPulseWidth:     DefaultMinPulseWidth,
		MaxPulseWidth:     DefaultMaxPulseWidth,
		MaxDegreeRotation: DefaultMaxDegreeRotation,
	}
}

// Validate checks the pulse widths fit in the period.
func (c Config) Validate() error {
	if c.Period <= 0 {
		return errors.Errorf("period must be positive, got %v", c.Period)
	}
	if c.MinPulseWidth <= 0 {
		return errors.Errorf("min pulse width must be positive, got %v", c.MinPulseWidth)
	}
	if c.MinPulseWidth >= c.MaxPulseWidth {
		return errors.Errorf("min pulse width %v must be less than max pulse width %v", c.MinPulseWidth, c.MaxPulseWidth)
	}
	if c.MaxPulseWidth >= c.Period {
		return errors.Errorf("max pulse width %v must be less than period %v", c.MaxPulseWidth, c.Period)
	}
	if c.MaxDegreeRotation == 0 {
		return errors.New("max degree rotation must be positive")
	}
	return nil
}

// PulseWidth maps degrees linearly onto [MinPulseWidth, MaxPulseWidth].
// Degrees beyond MaxDegreeRotation produce MaxPulseWidth.
func (c Config) PulseWidth(degrees uint8) time.Duration {
	perDegree := (c.MaxPulseWidth - c.MinPulseWidth) / time.Duration(c.MaxDegreeRotation)
	width := c.MinPulseWidth + time.Duration(degrees)*perDegree
	if width > c.MaxPulseWidth {
		width = c.MaxPulseWidth
	}
	return width
}
