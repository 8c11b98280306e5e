// Package servo drives hobby servos through a pulse-width modulated output.
package servo

import "strconv"

// Identity identifies one of the servos of the hand.
type Identity int

// Servos of the hand.
const (
	Thumb Identity = iota
	Arm
	Fingers
)

var identityNames = [...]string{
	Thumb:   "thumb",
	Arm:     "arm",
	Fingers: "fingers",
}

// Identities returns all servo identities.
func Identities() []Identity {
	return []Identity{Thumb, Arm, Fingers}
}

// IsValid indicates the identity is one of the known servos.
func (id Identity) IsValid() bool {
	return id >= Thumb && id <= Fingers
}

// String returns the command keyword of the servo.
func (id Identity) String() string {
	if id.IsValid() {
		return identityNames[id]
	}
	return "Identity(" + strconv.Itoa(int(id)) + ")"
}

// ParseIdentity looks up the identity by its exact command keyword.
func ParseIdentity(name string) (Identity, bool) {
	for id, n := range identityNames {
		if n == name {
			return Identity(id), true
		}
	}
	return 0, false
}
