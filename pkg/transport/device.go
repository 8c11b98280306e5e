package transport

import (
	"fmt"
	"strings"

	"go.bug.st/serial/enumerator"
)

// DeviceInfo is the USB identity presented by the device.
type DeviceInfo struct {
	VendorID      uint16
	ProductID     uint16
	Manufacturer  string
	Product       string
	SerialNumber  string
	MaxPower      int // mA
	MaxPacketSize uint8
	DeviceClass   uint8
	SubClass      uint8
	Protocol      uint8
}

// Device is the identity of the servo controller board.
var Device = DeviceInfo{
	VendorID:      0xc0de,
	ProductID:     0xcafe,
	Manufacturer:  "Devils Prosthetics",
	Product:       "DevilMechTester",
	SerialNumber:  "DEVIL",
	MaxPower:      500,
	MaxPacketSize: 64,
	// Miscellaneous / Interface Association Descriptor
	DeviceClass: 0xef,
	SubClass:    0x02,
	Protocol:    0x01,
}

func (d DeviceInfo) String() string {
	return fmt.Sprintf("%s %s (%04x:%04x)", d.Manufacturer, d.Product, d.VendorID, d.ProductID)
}

// Matches tells if a port enumerated on the host belongs to the device.
// The serial number is checked first, then the USB vendor and product IDs.
func (d DeviceInfo) Matches(port *enumerator.PortDetails) bool {
	if port == nil || !port.IsUSB {
		return false
	}
	if d.SerialNumber != "" && strings.EqualFold(port.SerialNumber, d.SerialNumber) {
		return true
	}
	return strings.EqualFold(port.VID, fmt.Sprintf("%04x", d.VendorID)) &&
		strings.EqualFold(port.PID, fmt.Sprintf("%04x", d.ProductID))
}

// ListPorts enumerates the serial ports on the host.
// It is a variable so tests can replace it.
var ListPorts = enumerator.GetDetailedPortsList

// FindPorts returns the names of the serial ports belonging to the device.
func FindPorts(d DeviceInfo) ([]string, error) {
	ports, err := ListPorts()
	if err != nil {
		return nil, err
	}
	var names []string
	for _, port := range ports {
		if d.Matches(port) {
			names = append(names, port.Name)
		}
	}
	return names, nil
}
