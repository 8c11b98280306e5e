package msgs

import (
	"time"

	"github.com/golang/protobuf/proto"
)

// GroupServo is the group of servo controller messages.
const GroupServo uint32 = 0x00010000

// TypeIDs
const (
	DeviceStatusTypeID   uint32 = GroupServo | TypeIDKindEvent | 0x0000
	ServoMovedTypeID     uint32 = GroupServo | TypeIDKindEvent | 0x0001
	ResetRequestedTypeID uint32 = GroupServo | TypeIDKindEvent | 0x0002
)

// DeviceStatus describes the controller, published retained.
type DeviceStatus struct {
	DeviceID     string   `protobuf:"bytes,1,opt,name=device_id,proto3" json:"device_id,omitempty"`
	Manufacturer string   `protobuf:"bytes,2,opt,name=manufacturer,proto3" json:"manufacturer,omitempty"`
	Product      string   `protobuf:"bytes,3,opt,name=product,proto3" json:"product,omitempty"`
	SerialNumber string   `protobuf:"bytes,4,opt,name=serial_number,proto3" json:"serial_number,omitempty"`
	Servos       []string `protobuf:"bytes,5,rep,name=servos,proto3" json:"servos,omitempty"`
	Online       bool     `protobuf:"varint,6,opt,name=online,proto3" json:"online,omitempty"`
}

// NewMessage implements Message.
func (m *DeviceStatus) NewMessage() Message { return &DeviceStatus{} }

// TypeID implements Message.
func (m *DeviceStatus) TypeID() uint32 { return DeviceStatusTypeID }

// ProtoMessage implements proto.Message.
func (m *DeviceStatus) ProtoMessage() {}

// Reset implements proto.Message.
func (m *DeviceStatus) Reset() { *m = DeviceStatus{} }

// String implements proto.Message.
func (m *DeviceStatus) String() string { return proto.CompactTextString(m) }

// ServoMoved is emitted after a servo is rotated.
type ServoMoved struct {
	Servo     string `protobuf:"bytes,1,opt,name=servo,proto3" json:"servo,omitempty"`
	Degrees   uint32 `protobuf:"varint,2,opt,name=degrees,proto3" json:"degrees,omitempty"`
	Timestamp int64  `protobuf:"varint,3,opt,name=timestamp,proto3" json:"timestamp,omitempty"`
	Error     string `protobuf:"bytes,4,opt,name=error,proto3" json:"error,omitempty"`
}

// NewMessage implements Message.
func (m *ServoMoved) NewMessage() Message { return &ServoMoved{} }

// TypeID implements Message.
func (m *ServoMoved) TypeID() uint32 { return ServoMovedTypeID }

// ProtoMessage implements proto.Message.
func (m *ServoMoved) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ServoMoved) Reset() { *m = ServoMoved{} }

// String implements proto.Message.
func (m *ServoMoved) String() string { return proto.CompactTextString(m) }

// Time returns Timestamp as time.Time.
func (m *ServoMoved) Time() time.Time {
	return time.Unix(0, m.Timestamp)
}

// ResetRequested is emitted right before the controller reboots into
// programming mode.
type ResetRequested struct {
	Timestamp int64 `protobuf:"varint,1,opt,name=timestamp,proto3" json:"timestamp,omitempty"`
}

// NewMessage implements Message.
func (m *ResetRequested) NewMessage() Message { return &ResetRequested{} }

// TypeID implements Message.
func (m *ResetRequested) TypeID() uint32 { return ResetRequestedTypeID }

// ProtoMessage implements proto.Message.
func (m *ResetRequested) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ResetRequested) Reset() { *m = ResetRequested{} }

// String implements proto.Message.
func (m *ResetRequested) String() string { return proto.CompactTextString(m) }
