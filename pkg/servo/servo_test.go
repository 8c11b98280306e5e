package servo

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakePWM struct {
	period  time.Duration
	writes  []time.Duration
	enabled bool
	err     error
}

func (p *fakePWM) SetPeriod(d time.Duration) error { p.period = d; return p.err }
func (p *fakePWM) Write(w time.Duration) error {
	if p.err != nil {
		return p.err
	}
	p.writes = append(p.writes, w)
	return nil
}
func (p *fakePWM) Start() error { p.enabled = true; return nil }
func (p *fakePWM) Stop() error  { p.enabled = false; return nil }

func TestIdentity(t *testing.T) {
	require.Equal(t, "thumb", Thumb.String())
	require.Equal(t, "arm", Arm.String())
	require.Equal(t, "fingers", Fingers.String())
	require.Equal(t, "Identity(7)", Identity(7).String())
	require.False(t, Identity(-1).IsValid())
	for _, id := range Identities() {
		parsed, ok := ParseIdentity(id.String())
		require.True(t, ok)
		require.Equal(t, id, parsed)
	}
	_, ok := ParseIdentity("Arm")
	require.False(t, ok)
}

func TestConfigValidate(t *testing.T) {
	testCases := []struct {
		name   string
		config Config
		valid  bool
	}{
		{"default", DefaultConfig(), true},
		{"firmware", Config{Period: 20 * time.Millisecond, MinPulseWidth: 500 * time.Microsecond, MaxPulseWidth: 2500 * time.Microsecond, MaxDegreeRotation: 100}, true},
		{"min equals max", Config{Period: 20 * time.Millisecond, MinPulseWidth: time.Millisecond, MaxPulseWidth: time.Millisecond, MaxDegreeRotation: 180}, false},
		{"min above max", Config{Period: 20 * time.Millisecond, MinPulseWidth: 2 * time.Millisecond, MaxPulseWidth: time.Millisecond, MaxDegreeRotation: 180}, false},
		{"max beyond period", Config{Period: time.Millisecond, MinPulseWidth: 500 * time.Microsecond, MaxPulseWidth: 2 * time.Millisecond, MaxDegreeRotation: 180}, false},
		{"zero rotation", Config{Period: 20 * time.Millisecond, MinPulseWidth: time.Millisecond, MaxPulseWidth: 2 * time.Millisecond}, false},
		{"zero min", Config{Period: 20 * time.Millisecond, MaxPulseWidth: 2 * time.Millisecond, MaxDegreeRotation: 180}, false},
		{"zero period", Config{MinPulseWidth: time.Millisecond, MaxPulseWidth: 2 * time.Millisecond, MaxDegreeRotation: 180}, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.config.Validate()
			if tc.valid {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}

func TestPulseWidth(t *testing.T) {
	conf := Config{
		Period:            20 * time.Millisecond,
		MinPulseWidth:     500 * time.Microsecond,
		MaxPulseWidth:     2500 * time.Microsecond,
		MaxDegreeRotation: 100,
	}
	require.Equal(t, 500*time.Microsecond, conf.PulseWidth(0))
	require.Equal(t, 1500*time.Microsecond, conf.PulseWidth(50))
	require.Equal(t, 2300*time.Microsecond, conf.PulseWidth(90))
	require.Equal(t, 2500*time.Microsecond, conf.PulseWidth(100))
	require.Equal(t, 2500*time.Microsecond, conf.PulseWidth(101))
	require.Equal(t, 2500*time.Microsecond, conf.PulseWidth(255))

	def := DefaultConfig()
	for d := 0; d <= 255; d++ {
		w := def.PulseWidth(uint8(d))
		require.True(t, w >= def.MinPulseWidth && w <= def.MaxPulseWidth, "degrees %d -> %v", d, w)
	}
}

func TestServo(t *testing.T) {
	pwm := &fakePWM{}
	s, err := New(pwm, DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, DefaultPeriod, pwm.period)
	require.False(t, s.Running())

	require.NoError(t, s.Start())
	require.True(t, s.Running())
	require.True(t, pwm.enabled)

	require.NoError(t, s.Rotate(90))
	deg, width := s.Position()
	require.Equal(t, uint8(90), deg)
	require.Equal(t, DefaultConfig().PulseWidth(90), width)
	require.Equal(t, []time.Duration{width}, pwm.writes)

	require.NoError(t, s.Stop())
	require.False(t, s.Running())
	require.False(t, pwm.enabled)
}

func TestServoErrors(t *testing.T) {
	_, err := New(&fakePWM{}, Config{})
	require.Error(t, err)

	pwm := &fakePWM{}
	s, err := New(pwm, DefaultConfig())
	require.NoError(t, err)
	pwm.err = errors.New("broken")
	require.Error(t, s.Rotate(10))
	deg, _ := s.Position()
	require.Equal(t, uint8(0), deg)
}
