package servo

import (
	"time"

	"github.com/golang/glog"
)

// LogPWM is a simulated PWM output which logs the signal it would generate.
type LogPWM struct {
	Name    string
	Period  time.Duration
	Width   time.Duration
	Enabled bool
}

// NewLogPWM creates a LogPWM.
func NewLogPWM(name string) *LogPWM {
	return &LogPWM{Name: name}
}

// SetPeriod implements PWM.
func (p *LogPWM) SetPeriod(period time.Duration) error {
	p.Period = period
	glog.V(2).Infof("PWM[%s] period %v", p.Name, period)
	return nil
}

// Write implements PWM.
func (p *LogPWM) Write(width time.Duration) error {
	p.Width = width
	var duty float64
	if p.Period > 0 {
		duty = float64(width) / float64(p.Period) * 100
	}
	glog.Infof("PWM[%s] pulse %v (%.2f%%)", p.Name, width, duty)
	return nil
}

// Start implements PWM.
func (p *LogPWM) Start() error {
	p.Enabled = true
	glog.V(2).Infof("PWM[%s] enabled", p.Name)
	return nil
}

// Stop implements PWM.
func (p *LogPWM) Stop() error {
	p.Enabled = false
	glog.V(2).Infof("PWM[%s] disabled", p.Name)
	return nil
}
