package timer

import (
	"testing"

	"github.com/budach/gameboy/internal/interrupts"
)

func TestController_DIVIncrementsWithoutTACEnable(t *testing.T) {
	tc := New(&interrupts.Controller{})
	tc.Advance(256)
	if tc.DIV() != 1 {
		t.Fatalf("DIV() = %d, want 1 after 256 cycles", tc.DIV())
	}
}

func TestController_WriteDIVResetsAccumulator(t *testing.T) {
	tc := New(&interrupts.Controller{})
	tc.Advance(512)
	tc.WriteDIV()
	if tc.DIV() != 0 {
		t.Fatalf("DIV() = %d, want 0 after WriteDIV", tc.DIV())
	}
}

func TestController_TIMAOverflowReloadsAndRequestsTimer(t *testing.T) {
	irq := &interrupts.Controller{}
	tc := New(irq)
	tc.WriteTAC(0x05) // enabled, frequency select 01 -> period 16
	tc.WriteTMA(0x40)
	tc.WriteTIMA(0xFF)

	tc.Advance(16) // exactly one period: TIMA overflows once

	if tc.TIMA() != 0x40 {
		t.Fatalf("TIMA() = %#02x, want %#02x (reloaded from TMA)", tc.TIMA(), byte(0x40))
	}
	if irq.IF&interrupts.Timer == 0 {
		t.Fatalf("Timer interrupt not requested on TIMA overflow")
	}
}

func TestController_MultipleIncrementsAcrossOverflowInOneAdvance(t *testing.T) {
	irq := &interrupts.Controller{}
	tc := New(irq)
	tc.WriteTAC(0x05) // period 16
	tc.WriteTIMA(0xFE)

	tc.Advance(16 * 3) // three period boundaries crossed in one call

	if tc.TIMA() != 1 {
		t.Fatalf("TIMA() = %d, want 1 after three periods of cycles (0xFE->0xFF->TMA 0->1) in one Advance", tc.TIMA())
	}
}

func TestController_FrequencyChangeReloadsCountdown(t *testing.T) {
	tc := New(&interrupts.Controller{})
	tc.WriteTAC(0x04) // enabled, frequency 00 -> period 1024
	tc.WriteTAC(0x05) // switch to frequency 01 -> period 16; countdown reloads immediately
	tc.WriteTIMA(0xFE)
	tc.Advance(16)
	if tc.TIMA() != 0xFF {
		t.Fatalf("TIMA() = %#02x, want 0xFF: frequency switch should reload the 16-cycle period", tc.TIMA())
	}
}

func TestController_TACReadsUnusedBitsHigh(t *testing.T) {
	tc := New(&interrupts.Controller{})
	tc.WriteTAC(0x00)
	if got := tc.TAC(); got != 0xF8 {
		t.Fatalf("TAC() = %#02x, want 0xF8", got)
	}
}
