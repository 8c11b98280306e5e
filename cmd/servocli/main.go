package main

import (
	"github.com/robotalks/servo.go/pkg/cli/sh"

	_ "github.com/robotalks/servo.go/pkg/cli/cmds/servo"
)

func init() {
	sh.SetupFlags()
}

func main() {
	sh.Main()
}
