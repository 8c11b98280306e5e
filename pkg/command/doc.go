// Package command parses the text commands received over the serial link.
package command

// The serial protocol carries one command per newline-terminated line:
//
//   q | elf2uf2-term        reset into programming mode (case-insensitive)
//   <servo> <degrees>       move a servo, servo is arm, thumb or fingers,
//                           degrees is a decimal 0-255
//
// Malformed lines are dropped silently and nothing is ever replied.
//
// Producer: host tool (servocli, desktop app)
// Consumer: firmware dispatch loop
