// Package env provides host environment information.
package env

import (
	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

// appID keeps the device ID from exposing the raw machine ID.
const appID = "servo.go"

// MachineID retrieves the unique ID identifying the machine, or fallback
// if it is unavailable (e.g. in containers without /etc/machine-id).
func MachineID(fallback string) string {
	id, err := machineid.ProtectedID(appID)
	if err != nil {
		glog.Warningf("machine id unavailable: %v", err)
		return fallback
	}
	if len(id) > 12 {
		id = id[:12]
	}
	return id
}
