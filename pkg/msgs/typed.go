package msgs

import (
	"fmt"

	"github.com/golang/protobuf/proto"
	"github.com/pkg/errors"
)

// TypeID masks
const (
	TypeIDMaskKind  uint32 = 0x80000000
	TypeIDMaskGroup uint32 = 0x7fff0000
	TypeIDMaskID    uint32 = 0x0000ffff
)

// Message Kinds
const (
	TypeIDKindCommand uint32 = 0x00000000
	TypeIDKindEvent   uint32 = 0x80000000
)

// Message can be serialized over the wire.
type Message interface {
	proto.Message
	NewMessage() Message
	TypeID() uint32
}

// ErrUnknownType indicates unknown type id.
type ErrUnknownType struct {
	TypeID uint32
}

// Error implements error.
func (e *ErrUnknownType) Error() string {
	return fmt.Sprintf("unknown type: %x", e.TypeID)
}

// Typed wraps a message with type information.
type Typed struct {
	TypeID   uint32 `protobuf:"varint,1,opt,name=type_id,proto3" json:"type_id,omitempty"`
	Sequence uint64 `protobuf:"varint,2,opt,name=sequence,proto3" json:"sequence,omitempty"`
	Message  []byte `protobuf:"bytes,3,opt,name=message,proto3" json:"message,omitempty"`
}

// ProtoMessage implements proto.Message.
func (p *Typed) ProtoMessage() {}

// Reset implements proto.Message.
func (p *Typed) Reset() { *p = Typed{} }

// String implements proto.Message.
func (p *Typed) String() string { return proto.CompactTextString(p) }

// MessageTypes are predefined mapping of type ID to messages.
var MessageTypes = map[uint32]Message{
	DeviceStatusTypeID:   (*DeviceStatus)(nil),
	ServoMovedTypeID:     (*ServoMoved)(nil),
	ResetRequestedTypeID: (*ResetRequested)(nil),
}

// TypedFrom creates a Typed from a message.
func TypedFrom(msg Message, seq uint64) (*Typed, error) {
	data, err := proto.Marshal(msg)
	if err != nil {
		return nil, errors.Wrapf(err, "marshal %x", msg.TypeID())
	}
	return &Typed{TypeID: msg.TypeID(), Sequence: seq, Message: data}, nil
}

// Decode decodes the envelope into actual message.
func (p *Typed) Decode() (Message, error) {
	msgType, ok := MessageTypes[p.TypeID]
	if !ok {
		return nil, &ErrUnknownType{TypeID: p.TypeID}
	}
	msg := msgType.NewMessage()
	if err := proto.Unmarshal(p.Message, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// Encode encodes the Typed to bytes.
func (p *Typed) Encode() ([]byte, error) {
	return proto.Marshal(p)
}

// Kind gets message kind from type ID.
func (p *Typed) Kind() uint32 {
	return p.TypeID & TypeIDMaskKind
}

// IsEvent determines if the message is an event.
func (p *Typed) IsEvent() bool {
	return p.Kind() == TypeIDKindEvent
}

// DecodeTyped decodes bytes into Typed.
func DecodeTyped(data []byte) (*Typed, error) {
	var typed Typed
	if err := proto.Unmarshal(data, &typed); err != nil {
		return nil, err
	}
	return &typed, nil
}

// Encode wraps and encodes a message.
func Encode(msg Message, seq uint64) ([]byte, error) {
	typed, err := TypedFrom(msg, seq)
	if err != nil {
		return nil, err
	}
	return typed.Encode()
}

// Decode decodes bytes into the envelope and the message.
func Decode(data []byte) (*Typed, Message, error) {
	typed, err := DecodeTyped(data)
	if err != nil {
		return nil, nil, err
	}
	msg, err := typed.Decode()
	return typed, msg, err
}
