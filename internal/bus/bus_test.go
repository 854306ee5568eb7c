package bus

import (
	"testing"

	"github.com/budach/gameboy/internal/cart"
	"github.com/budach/gameboy/internal/interrupts"
	"github.com/budach/gameboy/internal/joypad"
	"github.com/budach/gameboy/internal/ppu"
	"github.com/budach/gameboy/internal/timer"
)

func newTestBus(t *testing.T) *Bus {
	t.Helper()
	rom := make([]byte, 0x8000)
	rom[0x0147] = 0x00 // ROM only
	c, _, err := cart.New(rom)
	if err != nil {
		t.Fatalf("cart.New: %v", err)
	}
	irq := &interrupts.Controller{}
	return New(c, ppu.New(irq), irq, timer.New(irq), joypad.New(irq))
}

func TestBus_WRAMEchoMirror(t *testing.T) {
	b := newTestBus(t)
	b.Write(0xC100, 0x42)
	if got := b.Read(0xE100); got != 0x42 {
		t.Fatalf("Read(0xE100) = %#02x, want 0x42 mirrored from 0xC100", got)
	}
	b.Write(0xE200, 0x7A)
	if got := b.Read(0xC200); got != 0x7A {
		t.Fatalf("Read(0xC200) = %#02x, want 0x7A mirrored from 0xE200", got)
	}
}

func TestBus_UnusableRegionReadsFF(t *testing.T) {
	b := newTestBus(t)
	if got := b.Read(0xFEA0); got != 0xFF {
		t.Fatalf("Read(0xFEA0) = %#02x, want 0xFF", got)
	}
}

func TestBus_HRAMRoundTrip(t *testing.T) {
	b := newTestBus(t)
	b.Write(0xFF90, 0x99)
	if got := b.Read(0xFF90); got != 0x99 {
		t.Fatalf("Read(0xFF90) = %#02x, want 0x99", got)
	}
}

func TestBus_IORegisterUnusedBitsReadHigh(t *testing.T) {
	b := newTestBus(t)
	b.Write(0xFF02, 0x00)
	if got := b.Read(0xFF02); got&0x7E != 0x7E {
		t.Fatalf("Read(0xFF02) = %#02x, want bits 1-6 forced high", got)
	}
}

func TestBus_Read16Write16AreLittleEndian(t *testing.T) {
	b := newTestBus(t)
	b.Write16(0xC000, 0xBEEF)
	if lo, hi := b.Read(0xC000), b.Read(0xC001); lo != 0xEF || hi != 0xBE {
		t.Fatalf("Write16 stored lo=%#02x hi=%#02x, want lo=0xEF hi=0xBE", lo, hi)
	}
	if got := b.Read16(0xC000); got != 0xBEEF {
		t.Fatalf("Read16(0xC000) = %#04x, want 0xBEEF", got)
	}
}

func TestBus_OAMDMACopiesFromSourceRegion(t *testing.T) {
	b := newTestBus(t)
	for i := 0; i < 160; i++ {
		b.Write(0xC000+uint16(i), byte(i))
	}
	b.Write(0xFF46, 0xC0) // DMA source = 0xC000
	for i := 0; i < 160; i++ {
		if got := b.Read(0xFE00 + uint16(i)); got != byte(i) {
			t.Fatalf("OAM[%d] = %#02x, want %#02x after DMA from 0xC000", i, got, byte(i))
		}
	}
}

func TestBus_DMARegisterReadsBackLastWrittenSource(t *testing.T) {
	b := newTestBus(t)
	b.Write(0xFF46, 0xC3)
	if got := b.Read(0xFF46); got != 0xC3 {
		t.Fatalf("Read(0xFF46) = %#02x, want 0xC3 (last-written DMA source)", got)
	}
}

func TestBus_SignalsFlushOnRAMDisableAfterMutation(t *testing.T) {
	rom := make([]byte, 0x10000)
	rom[0x0147] = 0x03 // MBC1+RAM+BATTERY
	rom[0x0148] = 0x02
	rom[0x0149] = 0x02 // 8 KiB RAM
	c, _, err := cart.New(rom)
	if err != nil {
		t.Fatalf("cart.New: %v", err)
	}
	irq := &interrupts.Controller{}
	b := New(c, ppu.New(irq), irq, timer.New(irq), joypad.New(irq))

	// Like Machine's hook, a successful flush leaves the RAM clean.
	flushed := 0
	b.OnFlushNeeded = func() {
		flushed++
		c.(cart.BatteryBacked).ClearDirty()
	}

	b.Write(0x0000, 0x0A) // enable
	b.Write(0xA000, 0x42) // dirty
	if flushed != 0 {
		t.Fatalf("OnFlushNeeded fired %d times before any disable, want 0", flushed)
	}
	b.Write(0x0000, 0x00) // disable while dirty
	if flushed != 1 {
		t.Fatalf("OnFlushNeeded fired %d times after disabling dirty RAM, want 1", flushed)
	}
	b.Write(0x0000, 0x0A)
	b.Write(0x0000, 0x00) // disable again, but clean
	if flushed != 1 {
		t.Fatalf("OnFlushNeeded fired %d times after disabling clean RAM, want still 1", flushed)
	}
}

func TestBus_InterruptRegistersRouteToController(t *testing.T) {
	b := newTestBus(t)
	b.Write(0xFFFF, 0x1F)
	b.Write(0xFF0F, 0x01)
	if b.IRQ.Pending() != interrupts.VBlank {
		t.Fatalf("Pending() = %#02x, want VBlank routed through the bus writes", b.IRQ.Pending())
	}
}
