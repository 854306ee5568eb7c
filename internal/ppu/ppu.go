// Package ppu implements the scanline-accurate pixel processing unit
// of spec.md §4.5: the mode 0/1/2/3 state machine, STAT/LYC
// coincidence interrupts, and the background/window/sprite rasterizer.
package ppu

import "github.com/budach/gameboy/internal/interrupts"

const (
	ModeHBlank  = 0
	ModeVBlank  = 1
	ModeOAMScan = 2
	ModePixelTransfer = 3

	cyclesPerLine = 456
	oamEnd        = 80
	transferEnd   = 252

	Width  = 160
	Height = 144
)

// Sprite is a scanline-selected OAM entry, carrying the index within
// OAM so overlapping sprites can be resolved in OAM order (spec.md
// §4.5 "Sprite priority" / §9's documented choice).
type Sprite struct {
	X, Y, Tile, Attr byte
	OAMIndex         byte
}

type PPU struct {
	vram [0x2000]byte
	oam  [0xA0]byte

	lcdc, stat             byte
	scy, scx, ly, lyc       byte
	bgp, obp0, obp1         byte
	wy, wx                  byte

	mode int
	dot  int // cycles elapsed within the current scanline, [0,456)

	lastCoincidence bool
	windowLine      byte

	sprites []Sprite

	bgPalette, obp0Palette, obp1Palette [4]Color

	back, front [Width * Height]Color

	irq *interrupts.Controller
}

func New(irq *interrupts.Controller) *PPU {
	p := &PPU{irq: irq}
	p.bgPalette = decodePalette(0)
	p.obp0Palette = decodePalette(0)
	p.obp1Palette = decodePalette(0)
	return p
}

// Advance steps the PPU by c master-clock cycles, the fourth phase of
// the per-step ordering in spec.md §5.
func (p *PPU) Advance(c int) {
	for i := 0; i < c; i++ {
		p.tick()
	}
}

func (p *PPU) tick() {
	if p.lcdc&0x80 == 0 {
		// LCD off: LY frozen at 0, mode held at 0 (spec.md invariant vi).
		return
	}

	// Mode 2 at a line start is entered by advanceLine (or by the LCD-on
	// write); the in-line transitions happen once dot reaches them.
	p.dot++
	if p.dot >= cyclesPerLine {
		p.dot = 0
		p.advanceLine()
	} else if p.ly < 144 {
		switch p.dot {
		case oamEnd:
			p.enterMode(ModePixelTransfer)
		case transferEnd:
			p.enterMode(ModeHBlank)
		}
	}

	p.updateCoincidence()
}

func (p *PPU) advanceLine() {
	p.ly++
	switch {
	case p.ly == 144:
		p.enterMode(ModeVBlank)
	case p.ly > 153:
		p.ly = 0
		p.windowLine = 0
		p.enterMode(ModeOAMScan)
	case p.ly < 144:
		p.enterMode(ModeOAMScan)
	}
}

func (p *PPU) enterMode(mode int) {
	p.mode = mode
	switch mode {
	case ModeOAMScan:
		p.evaluateSprites()
		if p.stat&0x20 != 0 {
			p.irq.Request(interrupts.STAT)
		}
	case ModePixelTransfer:
		p.renderScanline()
	case ModeHBlank:
		if p.stat&0x08 != 0 {
			p.irq.Request(interrupts.STAT)
		}
	case ModeVBlank:
		p.irq.Request(interrupts.VBlank)
		if p.stat&0x10 != 0 {
			p.irq.Request(interrupts.STAT)
		}
		p.front = p.back
	}
}

func (p *PPU) updateCoincidence() {
	coincident := p.ly == p.lyc
	if coincident && !p.lastCoincidence && p.stat&0x40 != 0 {
		p.irq.Request(interrupts.STAT)
	}
	p.lastCoincidence = coincident
}

// FrontBuffer returns the last completed frame as packed RGBA bytes,
// 160x144x4 long (spec.md §6 "snapshot the 160x144 RGBA front buffer").
func (p *PPU) FrontBuffer() []byte {
	out := make([]byte, Width*Height*4)
	for i, c := range p.front {
		out[i*4+0] = c.R
		out[i*4+1] = c.G
		out[i*4+2] = c.B
		out[i*4+3] = c.A
	}
	return out
}

// Mode reports the current PPU mode (0-3), mainly for tests.
func (p *PPU) Mode() int { return p.mode }

// LY reports the current scanline, mainly for tests.
func (p *PPU) LY() byte { return p.ly }

func (p *PPU) Read(addr uint16) byte {
	switch {
	case addr >= 0x8000 && addr < 0xA000:
		return p.vram[addr-0x8000]
	case addr >= 0xFE00 && addr < 0xFEA0:
		return p.oam[addr-0xFE00]
	case addr == 0xFF40:
		return p.lcdc
	case addr == 0xFF41:
		return 0x80 | (p.stat & 0x7F) | byte(p.mode)&0x03 | p.coincidenceBit()
	case addr == 0xFF42:
		return p.scy
	case addr == 0xFF43:
		return p.scx
	case addr == 0xFF44:
		return p.ly
	case addr == 0xFF45:
		return p.lyc
	case addr == 0xFF47:
		return p.bgp
	case addr == 0xFF48:
		return p.obp0
	case addr == 0xFF49:
		return p.obp1
	case addr == 0xFF4A:
		return p.wy
	case addr == 0xFF4B:
		return p.wx
	default:
		return 0xFF
	}
}

func (p *PPU) coincidenceBit() byte {
	if p.ly == p.lyc {
		return 0x04
	}
	return 0
}

func (p *PPU) Write(addr uint16, v byte) {
	switch {
	case addr >= 0x8000 && addr < 0xA000:
		p.vram[addr-0x8000] = v
	case addr >= 0xFE00 && addr < 0xFEA0:
		p.oam[addr-0xFE00] = v
	case addr == 0xFF40:
		wasOn := p.lcdc&0x80 != 0
		p.lcdc = v
		isOn := p.lcdc&0x80 != 0
		if wasOn && !isOn {
			p.mode = ModeHBlank
			p.ly = 0
			p.dot = 0
		} else if !wasOn && isOn {
			p.ly = 0
			p.dot = 0
			p.windowLine = 0
			p.enterMode(ModeOAMScan)
		}
	case addr == 0xFF41:
		// Only the interrupt-select bits 3-6 are software-writable; mode
		// bits, coincidence, and the fixed-high bit 7 are derived.
		p.stat = v & 0x78
	case addr == 0xFF42:
		p.scy = v
	case addr == 0xFF43:
		p.scx = v
	case addr == 0xFF44:
		// LY is read-only; any write resets it (spec.md invariant iv).
		p.ly = 0
		p.dot = 0
	case addr == 0xFF45:
		p.lyc = v
	case addr == 0xFF47:
		p.bgp = v
		p.bgPalette = decodePalette(v)
	case addr == 0xFF48:
		p.obp0 = v
		p.obp0Palette = decodePalette(v)
	case addr == 0xFF49:
		p.obp1 = v
		p.obp1Palette = decodePalette(v)
	case addr == 0xFF4A:
		p.wy = v
	case addr == 0xFF4B:
		p.wx = v
	}
}

// WriteOAMByte is used by the bus's OAM DMA (spec.md §4.1, writes to
// 0xFF46) to place bytes directly into OAM without going through the
// 0xFE00-0xFE9F address decode path above.
func (p *PPU) WriteOAMByte(i int, v byte) {
	p.oam[i] = v
}

// ResetPostBoot sets LCDC/BGP and the derived STAT mode bits to the
// standard DMG post-boot-ROM values (spec.md §6 "Post-boot register
// state": 0xFF40=0x91, 0xFF41=0x85, 0xFF47=0xFC). It sets lcdc and
// mode directly rather than going through Write's off->on LCD
// transition handling, which would force mode into OAM scan instead
// of the real boot ROM's VBlank artifact.
func (p *PPU) ResetPostBoot() {
	p.lcdc = 0x91
	p.ly = 0
	p.lyc = 0
	p.dot = 0
	p.mode = ModeVBlank
	p.lastCoincidence = true
	p.bgp = 0xFC
	p.bgPalette = decodePalette(p.bgp)
}
