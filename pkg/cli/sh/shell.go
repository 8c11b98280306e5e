package sh

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abiosoft/ishell"
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/robotalks/servo.go/pkg/transport"
)

// Config defines the serial connection of the shell.
type Config struct {
	Port     string
	BaudRate int
}

var defaultConfig = Config{
	BaudRate: transport.DefaultBaudRate,
}

func init() {
	if val := os.Getenv("SERVO_PORT"); val != "" {
		defaultConfig.Port = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Port, "port", defaultConfig.Port, "Serial port, detected if empty.")
	flag.IntVar(&defaultConfig.BaudRate, "baud", defaultConfig.BaudRate, "Serial baud rate.")
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// ErrNotConnected indicates no device is connected.
var ErrNotConnected = errors.New("not connected")

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	AutoConnect bool

	Shell  *ishell.Shell
	Config *Config

	// Port is the connected device.
	Port     io.WriteCloser
	PortName string
}

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "
)

var (
	evalOnly bool

	commands = []*ishell.Cmd{
		&PortsCmd,
		&ConnectCmd,
		&DisconnectCmd,
	}

	// OpenPort opens the serial device, replaceable in tests.
	OpenPort = func(name string, baudRate int) (io.WriteCloser, error) {
		return transport.OpenSerialPort(name, baudRate)
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		Shell:       ishell.New(),
		Config:      conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeConnected wraps command func requires a connection.
// With AutoConnect, the configured or detected device is connected first.
func MustBeConnected(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if err := ShellFrom(c).EnsureConnected(); err != nil {
			c.Err(err)
			return
		}
		fn(c)
	}
}

// EnsureConnected connects the device if AutoConnect is enabled.
func (s *Shell) EnsureConnected() error {
	if s.Port != nil {
		return nil
	}
	if !s.AutoConnect {
		return ErrNotConnected
	}
	return s.Connect(s.Config.Port)
}

// WithAutoConnect sets AutoConnect.
func (s *Shell) WithAutoConnect(en bool) *Shell {
	s.AutoConnect = en
	return s
}

// SendLine writes a command line to the device.
// The device never replies.
func (s *Shell) SendLine(line string) error {
	if s.Port == nil {
		return ErrNotConnected
	}
	line = strings.TrimRight(line, "\r\n")
	if strings.ContainsAny(line, "\r\n") {
		return errors.Errorf("multiple lines in %q", line)
	}
	glog.V(1).Infof("send %q", line)
	_, err := io.WriteString(s.Port, line+"\n")
	return err
}

// SelectPort finds the device ports and asks for a choice.
func (s *Shell) SelectPort() (string, error) {
	names, err := transport.FindPorts(transport.Device)
	if err != nil {
		return "", err
	}
	switch {
	case len(names) == 0:
		return "", errors.Errorf("%s not found", transport.Device)
	case len(names) == 1:
		return names[0], nil
	case !s.Interactive:
		return "", errors.New("more than 1 devices found in non-interactive mode")
	}
	return names[s.Shell.MultiChoice(names, "Which one to connect?")], nil
}

// Connect opens the named port, or the detected device if name is empty.
func (s *Shell) Connect(name string) error {
	if name == "" {
		var err error
		if name, err = s.SelectPort(); err != nil {
			return err
		}
	}
	port, err := OpenPort(name, s.Config.BaudRate)
	if err != nil {
		return err
	}
	s.Disconnect()
	s.Port, s.PortName = port, name
	if s.Shell != nil {
		s.Shell.SetPrompt(fmt.Sprintf("%s > ", name))
	}
	glog.V(1).Infof("connected %s", name)
	return nil
}

// Disconnect closes current port.
func (s *Shell) Disconnect() {
	if s.Port != nil {
		s.Port.Close()
		s.Port, s.PortName = nil, ""
		if s.Shell != nil {
			s.Shell.SetPrompt(unconnectedPrompt)
		}
	}
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	defer s.Disconnect()

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			glog.Exit(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	glog.Exit("command expected")
}

// FormatPort prints a port into friendly string for display.
func FormatPort(name, serialNumber, vid, pid string, isDevice bool) string {
	var sb strings.Builder
	sb.WriteString(name)
	if vid != "" || pid != "" {
		fmt.Fprintf(&sb, " [%s:%s]", strings.ToLower(vid), strings.ToLower(pid))
	}
	if serialNumber != "" {
		fmt.Fprintf(&sb, " %s", serialNumber)
	}
	if isDevice {
		sb.WriteString(" *")
	}
	return sb.String()
}

var (
	// PortsCmd lists the serial ports, the device ports are marked.
	PortsCmd = ishell.Cmd{
		Name:    "ports",
		Aliases: []string{"list", "l"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ports, err := transport.ListPorts()
			if err != nil {
				c.Err(err)
				return
			}
			if len(ports) == 0 {
				c.Println("No serial ports found")
				return
			}
			for _, port := range ports {
				c.Println(FormatPort(port.Name, port.SerialNumber, port.VID, port.PID, transport.Device.Matches(port)))
			}
		},
	}

	// ConnectCmd connects the device.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"c"},
		Help:    "[PORT]",
		Func: func(c *ishell.Context) {
			var name string
			if len(c.Args) > 0 {
				name = c.Args[0]
			}
			if err := ShellFrom(c).Connect(name); err != nil {
				c.Err(err)
			}
		},
	}

	// DisconnectCmd disconnects current device.
	DisconnectCmd = ishell.Cmd{
		Name:    "disconnect",
		Aliases: []string{"d"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Disconnect()
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New(NewConfig()).WithAutoConnect(true).Run(flag.Args()...)
}
