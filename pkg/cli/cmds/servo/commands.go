package servo

import (
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"
	"github.com/pkg/errors"

	"github.com/robotalks/servo.go/pkg/cli/sh"
	"github.com/robotalks/servo.go/pkg/command"
	"github.com/robotalks/servo.go/pkg/servo"
)

// MoveLine formats the move command of a servo.
func MoveLine(id servo.Identity, arg string) (string, error) {
	val, err := strconv.ParseUint(arg, 10, 8)
	if err != nil {
		return "", errors.Errorf("invalid DEGREES %q: 0-255 expected", arg)
	}
	return command.MoveRequest{Target: id, Degrees: uint8(val)}.String(), nil
}

func moveCmd(id servo.Identity) *ishell.Cmd {
	return &ishell.Cmd{
		Name: id.String(),
		Help: "DEGREES",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(errors.New("DEGREES required"))
				return
			}
			line, err := MoveLine(id, c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			if err = sh.ShellFrom(c).SendLine(line); err != nil {
				c.Err(err)
			}
		}),
	}
}

var (
	// ResetCmd reboots the device into programming mode.
	ResetCmd = ishell.Cmd{
		Name: "reset",
		Help: "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			s := sh.ShellFrom(c)
			if err := s.SendLine("q"); err != nil {
				c.Err(err)
				return
			}
			// the device is gone after reset.
			s.Disconnect()
		}),
	}

	// RawCmd sends the arguments as a command line.
	RawCmd = ishell.Cmd{
		Name: "raw",
		Help: "LINE",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			if err := sh.ShellFrom(c).SendLine(strings.Join(c.Args, " ")); err != nil {
				c.Err(err)
			}
		}),
	}
)

func init() {
	for _, id := range servo.Identities() {
		sh.AddCmds(moveCmd(id))
	}
	sh.AddCmds(&ResetCmd, &RawCmd)
}
