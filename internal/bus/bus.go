// Package bus implements the address decoding and I/O register mask
// rules of spec.md §3/§4.1: it dispatches 16-bit CPU addresses to the
// cartridge, VRAM/OAM/PPU registers, work RAM (with its echo mirror),
// high RAM, the timer, the interrupt registers, the joypad, and OAM
// DMA.
package bus

import (
	"github.com/budach/gameboy/internal/cart"
	"github.com/budach/gameboy/internal/interrupts"
	"github.com/budach/gameboy/internal/joypad"
	"github.com/budach/gameboy/internal/ppu"
	"github.com/budach/gameboy/internal/timer"
)

type Bus struct {
	Cart cart.Cartridge
	PPU  *ppu.PPU
	IRQ  *interrupts.Controller
	Timer *timer.Controller
	Joy   *joypad.Controller

	wram [0x2000]byte // 0xC000-0xDFFF, mirrored at 0xE000-0xFDFF
	hram [0x7F]byte   // 0xFF80-0xFFFE

	io     [0x80]byte // generic I/O register storage, 0xFF00-0xFF7F
	ioMask [0x80]byte // per-address always-one mask (spec.md §6)

	dmaSource byte // last byte written to 0xFF46, read back as-is

	// OnFlushNeeded is called whenever the cartridge signals the
	// RAM-disable-after-mutation save-flush edge (spec.md §4.2/§6). The
	// Machine sets this to persist battery RAM immediately rather than
	// waiting for Close.
	OnFlushNeeded func()
}

func New(c cart.Cartridge, p *ppu.PPU, irq *interrupts.Controller, t *timer.Controller, j *joypad.Controller) *Bus {
	b := &Bus{Cart: c, PPU: p, IRQ: irq, Timer: t, Joy: j}
	b.initIOMasks()
	return b
}

func (b *Bus) initIOMasks() {
	set := func(addr uint16, mask byte) { b.ioMask[addr-0xFF00] = mask }
	setRange := func(lo, hi uint16, mask byte) {
		for a := lo; a <= hi; a++ {
			set(a, mask)
		}
	}
	set(0xFF02, 0x7E) // SC bits 1-6
	set(0xFF10, 0x80) // NR10 bit 7
	set(0xFF1A, 0x7F) // NR30 bits 0-6
	set(0xFF1C, 0x9F) // NR32 bits 0-4,7
	set(0xFF20, 0xC0) // NR41 bits 6-7
	set(0xFF23, 0x3F) // NR44 bits 0-5
	set(0xFF26, 0x70) // NR52 bits 4-6

	set(0xFF03, 0xFF)
	setRange(0xFF08, 0xFF0E, 0xFF)
	set(0xFF15, 0xFF)
	set(0xFF1F, 0xFF)
	setRange(0xFF27, 0xFF2F, 0xFF)
	setRange(0xFF4C, 0xFF7F, 0xFF)
}

func (b *Bus) Read(addr uint16) byte {
	switch {
	case addr < 0x8000, addr >= 0xA000 && addr < 0xC000:
		return b.Cart.Read(addr)
	case addr >= 0x8000 && addr < 0xA000:
		return b.PPU.Read(addr)
	case addr >= 0xC000 && addr < 0xE000:
		return b.wram[addr-0xC000]
	case addr >= 0xE000 && addr < 0xFE00:
		return b.wram[addr-0xE000]
	case addr >= 0xFE00 && addr < 0xFEA0:
		return b.PPU.Read(addr)
	case addr >= 0xFEA0 && addr < 0xFF00:
		return 0xFF
	case addr == 0xFF00:
		return b.Joy.Read()
	case addr == 0xFF04:
		return b.Timer.DIV()
	case addr == 0xFF05:
		return b.Timer.TIMA()
	case addr == 0xFF06:
		return b.Timer.TMA()
	case addr == 0xFF07:
		return b.Timer.TAC()
	case addr == 0xFF0F:
		return b.IRQ.ReadIF()
	case addr == 0xFF46:
		return b.dmaSource
	case addr >= 0xFF40 && addr <= 0xFF4B:
		return b.PPU.Read(addr)
	case addr >= 0xFF00 && addr < 0xFF80:
		return b.io[addr-0xFF00] | b.ioMask[addr-0xFF00]
	case addr >= 0xFF80 && addr < 0xFFFF:
		return b.hram[addr-0xFF80]
	case addr == 0xFFFF:
		return b.IRQ.ReadIE()
	default:
		return 0xFF
	}
}

func (b *Bus) Write(addr uint16, v byte) {
	switch {
	case addr < 0x8000, addr >= 0xA000 && addr < 0xC000:
		b.Cart.Write(addr, v)
		if fs, ok := b.Cart.(cart.FlushSignaler); ok && fs.NeedsFlush() {
			fs.FlushAcknowledged()
			if b.OnFlushNeeded != nil {
				b.OnFlushNeeded()
			}
		}
	case addr >= 0x8000 && addr < 0xA000:
		b.PPU.Write(addr, v)
	case addr >= 0xC000 && addr < 0xE000:
		b.wram[addr-0xC000] = v
	case addr >= 0xE000 && addr < 0xFE00:
		b.wram[addr-0xE000] = v
	case addr >= 0xFE00 && addr < 0xFEA0:
		b.PPU.Write(addr, v)
	case addr >= 0xFEA0 && addr < 0xFF00:
		// unusable region: writes dropped
	case addr == 0xFF00:
		b.Joy.Write(v)
	case addr == 0xFF04:
		b.Timer.WriteDIV()
	case addr == 0xFF05:
		b.Timer.WriteTIMA(v)
	case addr == 0xFF06:
		b.Timer.WriteTMA(v)
	case addr == 0xFF07:
		b.Timer.WriteTAC(v)
	case addr == 0xFF0F:
		b.IRQ.WriteIF(v)
	case addr == 0xFF46:
		b.dmaSource = v
		b.dmaTransfer(v)
	case addr >= 0xFF40 && addr <= 0xFF4B:
		b.PPU.Write(addr, v)
	case addr >= 0xFF00 && addr < 0xFF80:
		b.io[addr-0xFF00] = v
	case addr >= 0xFF80 && addr < 0xFFFF:
		b.hram[addr-0xFF80] = v
	case addr == 0xFFFF:
		b.IRQ.WriteIE(v)
	}
}

func (b *Bus) Read16(addr uint16) uint16 {
	lo := uint16(b.Read(addr))
	hi := uint16(b.Read(addr + 1))
	return lo | hi<<8
}

func (b *Bus) Write16(addr uint16, v uint16) {
	b.Write(addr, byte(v))
	b.Write(addr+1, byte(v>>8))
}

// dmaTransfer copies 160 bytes from value<<8 into OAM (spec.md §4.1).
func (b *Bus) dmaTransfer(value byte) {
	src := uint16(value) << 8
	for i := 0; i < 160; i++ {
		b.PPU.WriteOAMByte(i, b.Read(src+uint16(i)))
	}
}
