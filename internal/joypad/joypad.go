// Package joypad implements the single 8-bit button latch and the
// 0xFF00 select-register semantics of spec.md §4.6.
package joypad

import "github.com/budach/gameboy/internal/interrupts"

// Bit positions within the latch: 1 = released, 0 = pressed.
const (
	Right = 1 << 0
	Left  = 1 << 1
	Up    = 1 << 2
	Down  = 1 << 3
	A     = 1 << 4
	B     = 1 << 5
	Select = 1 << 6
	Start  = 1 << 7
)

type Controller struct {
	latch  byte // live button state, 1 = released
	selectBits byte // software-written select bits at positions 4-5 (active low)

	irq *interrupts.Controller
}

func New(irq *interrupts.Controller) *Controller {
	return &Controller{latch: 0xFF, selectBits: 0x30, irq: irq}
}

// SetButtons replaces the live latch with a new 8-bit state (bit
// layout above) and requests the Joypad interrupt for every button
// that transitions 1->0 (pressed) while its group is selected
// (spec.md §4.6).
func (j *Controller) SetButtons(newState byte) {
	pressedNow := j.latch &^ newState // bits that were 1 (released), now 0 (pressed)
	if pressedNow != 0 {
		directionsSelected := j.selectBits&0x10 == 0
		buttonsSelected := j.selectBits&0x20 == 0
		if (directionsSelected && pressedNow&0x0F != 0) || (buttonsSelected && pressedNow&0xF0 != 0) {
			j.irq.Request(interrupts.Joypad)
		}
	}
	j.latch = newState
}

// Read returns the 0xFF00 register value: bits 6-7 fixed high, bits
// 4-5 the select state, bits 0-3 the selected group(s)' button state.
// When both groups are selected the two nibbles combine by AND, which
// is what the shared output lines do on real hardware (a line reads
// low if either connected group has its button pressed).
func (j *Controller) Read() byte {
	nibble := byte(0x0F)
	if j.selectBits&0x10 == 0 { // directions selected
		nibble &= j.latch & 0x0F
	}
	if j.selectBits&0x20 == 0 { // buttons selected
		nibble &= (j.latch >> 4) & 0x0F
	}
	return byte(0xC0) | j.selectBits | nibble
}

// Write stores the software-writable select bits 4-5, preserving all
// other bits (spec.md §4.1).
func (j *Controller) Write(v byte) {
	j.selectBits = v & 0x30
}
