package command

import (
	"strconv"

	"github.com/robotalks/servo.go/pkg/servo"
)

// Command is the result of parsing a line: MoveRequest or ResetRequest.
type Command interface {
	isCommand()
}

// MoveRequest asks the dispatcher to rotate a servo.
type MoveRequest struct {
	Target  servo.Identity
	Degrees uint8
}

func (MoveRequest) isCommand() {}

// String formats the request as its serial command.
func (r MoveRequest) String() string {
	return r.Target.String() + " " + strconv.Itoa(int(r.Degrees))
}

// ResetRequest asks the device to reboot into programming mode.
type ResetRequest struct{}

func (ResetRequest) isCommand() {}
