// Package timer implements the DIV/TIMA/TMA/TAC subsystem of
// spec.md §4.4: a 16-bit divider accumulator whose high byte is the
// visible DIV register, and a countdown-driven TIMA that reloads from
// TMA and requests the Timer interrupt on overflow. This is an
// instruction-step-granularity model (spec.md §1 excludes
// sub-instruction/T-state bus timing), not the T-cycle bit-edge model
// a cycle-accurate core would use.
package timer

import "github.com/budach/gameboy/internal/interrupts"

// periods maps TAC's 2-bit frequency select to the countdown length in
// master-clock cycles (spec.md §4.4: 1024/16/64/256 for select 00-11).
var periods = [4]int{1024, 16, 64, 256}

type Controller struct {
	divAcc int // 16-bit divider accumulator; DIV is its high byte

	tima byte
	tma  byte
	tac  byte // bit2 enable, bits0-1 frequency select

	countdown int

	irq *interrupts.Controller
}

func New(irq *interrupts.Controller) *Controller {
	return &Controller{irq: irq, countdown: periods[0]}
}

// Advance steps the timer by c master-clock cycles, the third phase of
// the per-step ordering in spec.md §5.
func (t *Controller) Advance(c int) {
	t.divAcc = (t.divAcc + c) & 0xFFFF

	if t.tac&0x04 == 0 {
		return
	}
	t.countdown -= c
	for t.countdown <= 0 {
		period := periods[t.tac&0x03]
		t.countdown += period
		t.incTIMA()
	}
}

func (t *Controller) incTIMA() {
	if t.tima == 0xFF {
		t.tima = t.tma
		t.irq.Request(interrupts.Timer)
	} else {
		t.tima++
	}
}

// DIV is the visible divider register (the accumulator's high byte).
func (t *Controller) DIV() byte { return byte(t.divAcc >> 8) }

// WriteDIV resets the accumulator to 0 (spec.md invariant v).
func (t *Controller) WriteDIV() { t.divAcc = 0 }

// SeedDIV sets the visible high byte directly, used once at machine
// construction to reach the post-boot-ROM divider value (spec.md §6).
func (t *Controller) SeedDIV(high byte) { t.divAcc = int(high) << 8 }

func (t *Controller) TIMA() byte     { return t.tima }
func (t *Controller) WriteTIMA(v byte) { t.tima = v }

func (t *Controller) TMA() byte     { return t.tma }
func (t *Controller) WriteTMA(v byte) { t.tma = v }

// TAC returns the control register with its unused bits 3-7 read high.
func (t *Controller) TAC() byte { return t.tac | 0xF8 }

// WriteTAC stores the control register. If the frequency field
// changes, the countdown reloads to the new period immediately
// (spec.md §4.1/§4.4).
func (t *Controller) WriteTAC(v byte) {
	v &= 0x07
	if v&0x03 != t.tac&0x03 {
		t.countdown = periods[v&0x03]
	}
	t.tac = v
}
