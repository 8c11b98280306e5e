package firmware

import (
	"flag"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/robotalks/servo.go/pkg/dispatch"
	"github.com/robotalks/servo.go/pkg/env"
	"github.com/robotalks/servo.go/pkg/servo"
	"github.com/robotalks/servo.go/pkg/transport"
)

// Special values of Config.Port.
const (
	PortStdin = "-"
	PortAuto  = "auto"
)

// Firmware pulse settings of the hand servos.
const (
	MinPulseWidth     = 500 * time.Microsecond
	MaxPulseWidth     = 2500 * time.Microsecond
	MaxDegreeRotation = 100
)

// DefaultReconnectDelay is the delay before reopening a failed transport.
const DefaultReconnectDelay = time.Second

// Pins are the GPIO numbers driving the servos.
var Pins = map[servo.Identity]int{
	servo.Thumb:   2,
	servo.Fingers: 3,
	servo.Arm:     4,
}

// Config defines the configurations of the firmware.
type Config struct {
	// Port is the serial device, PortStdin reads commands from stdin,
	// PortAuto looks up the device by its USB identity.
	Port     string
	BaudRate int

	Servo          servo.Config
	Interval       time.Duration
	Capacity       int
	MaxLineLen     int
	PrefixMatch    bool
	ReconnectDelay time.Duration

	// MQTTBrokerURL enables telemetry, e.g. mqtt://host:port/topic-prefix
	MQTTBrokerURL string
	WebsocketAddr string
	DeviceID      string
}

var defaultConfig = Config{
	Port:     PortStdin,
	BaudRate: transport.DefaultBaudRate,
	Servo: servo.Config{
		Period:            servo.DefaultPeriod,
		MinPulseWidth:     MinPulseWidth,
		MaxPulseWidth:     MaxPulseWidth,
		MaxDegreeRotation: MaxDegreeRotation,
	},
	Interval:       dispatch.DefaultInterval,
	Capacity:       dispatch.DefaultCapacity,
	MaxLineLen:     transport.DefaultMaxLineLen,
	ReconnectDelay: DefaultReconnectDelay,
}

func init() {
	if val := os.Getenv("SERVO_PORT"); val != "" {
		defaultConfig.Port = val
	}
	if val := os.Getenv("SERVO_MQTT_URL"); val != "" {
		defaultConfig.MQTTBrokerURL = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Port, "port", defaultConfig.Port, "Serial port, - for stdin, auto to detect the device.")
	flag.IntVar(&defaultConfig.BaudRate, "baud", defaultConfig.BaudRate, "Serial baud rate.")
	flag.DurationVar(&defaultConfig.Servo.Period, "pwm-period", defaultConfig.Servo.Period, "PWM period.")
	flag.DurationVar(&defaultConfig.Servo.MinPulseWidth, "min-pulse", defaultConfig.Servo.MinPulseWidth, "Pulse width at 0 degree.")
	flag.DurationVar(&defaultConfig.Servo.MaxPulseWidth, "max-pulse", defaultConfig.Servo.MaxPulseWidth, "Maximum pulse width.")
	flag.UintVar(&defaultConfig.Servo.MaxDegreeRotation, "rotation", defaultConfig.Servo.MaxDegreeRotation, "Degrees covered by the pulse range.")
	flag.DurationVar(&defaultConfig.Interval, "interval", defaultConfig.Interval, "Minimum delay between two actuations.")
	flag.IntVar(&defaultConfig.Capacity, "queue", defaultConfig.Capacity, "Request queue capacity.")
	flag.IntVar(&defaultConfig.MaxLineLen, "max-line", defaultConfig.MaxLineLen, "Maximum command line length.")
	flag.BoolVar(&defaultConfig.PrefixMatch, "prefix-match", defaultConfig.PrefixMatch, "Accept servo keywords as prefix of the first word.")
	flag.DurationVar(&defaultConfig.ReconnectDelay, "reconnect", defaultConfig.ReconnectDelay, "Delay before reopening the serial port.")
	flag.StringVar(&defaultConfig.MQTTBrokerURL, "mqtt", defaultConfig.MQTTBrokerURL, "MQTT broker URL, telemetry disabled if empty.")
	flag.StringVar(&defaultConfig.WebsocketAddr, "ws", defaultConfig.WebsocketAddr, "Websocket listen address, disabled if empty.")
	flag.StringVar(&defaultConfig.DeviceID, "id", defaultConfig.DeviceID, "Device ID, machine ID if empty.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := c.Servo.Validate(); err != nil {
		return err
	}
	if c.Port == "" {
		return errors.New("port must be specified")
	}
	if c.Interval < 0 {
		return errors.Errorf("invalid interval %v", c.Interval)
	}
	if c.Capacity <= 0 {
		return errors.Errorf("invalid queue capacity %d", c.Capacity)
	}
	return nil
}

// ID returns DeviceID or the machine ID.
func (c *Config) ID() string {
	if c.DeviceID != "" {
		return c.DeviceID
	}
	return env.MachineID(transport.Device.SerialNumber)
}
