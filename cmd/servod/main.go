package main

import (
	"flag"

	"github.com/golang/glog"

	"github.com/robotalks/servo.go/pkg/firmware"
	fx "github.com/robotalks/servo.go/pkg/framework"
)

func init() {
	firmware.SetupFlags()
}

func main() {
	flag.Parse()
	defer glog.Flush()

	fw, err := firmware.NewConfig().NewFirmware(firmware.LogPWMs)
	if err != nil {
		glog.Exit(err)
	}
	fx.NewRunner().HandleSignals().Go(fw).WaitOrFail()
}
