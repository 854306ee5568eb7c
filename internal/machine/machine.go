// Package machine wires the bus, CPU, PPU, timer, interrupts, joypad,
// and cartridge packages into the single run_one_frame/framebuffer/
// input surface spec.md §6 exposes to a host (cmd/dmgdesktop,
// cmd/dmgweb, cmd/dmgheadless).
package machine

import (
	"log"
	"os"

	"github.com/pkg/errors"

	"github.com/budach/gameboy/internal/bus"
	"github.com/budach/gameboy/internal/cart"
	"github.com/budach/gameboy/internal/cpu"
	"github.com/budach/gameboy/internal/interrupts"
	"github.com/budach/gameboy/internal/joypad"
	"github.com/budach/gameboy/internal/ppu"
	"github.com/budach/gameboy/internal/timer"
)

// cyclesPerFrame is the master-clock budget of one emulated frame
// (spec.md §1/§5): 70,224 cycles at 4,194,304 Hz, ~59.7 Hz refresh.
const cyclesPerFrame = 70224

// Machine is the aggregate root: everything a host needs to drive one
// ROM (spec.md §6 "Host-facing surface").
type Machine struct {
	cfg Config

	bus  *bus.Bus
	cpu  *cpu.CPU
	ppu  *ppu.PPU
	irq  *interrupts.Controller
	tim  *timer.Controller
	joy  *joypad.Controller
	cart cart.Cartridge

	header   *cart.Header
	savePath string
}

// NewFromFile constructs a Machine from a ROM path: it loads the ROM,
// parses the header to pick a cartridge mapper, loads any
// battery-backed save, and initializes every register to the
// post-boot-ROM state of spec.md §6.
func NewFromFile(romPath string, cfg Config) (*Machine, error) {
	rom, err := os.ReadFile(romPath)
	if err != nil {
		return nil, errors.Wrapf(err, "machine: read ROM %q", romPath)
	}

	cartridge, header, err := cart.New(rom)
	if err != nil {
		return nil, errors.Wrapf(err, "machine: load cartridge %q", romPath)
	}

	irq := &interrupts.Controller{}
	p := ppu.New(irq)
	t := timer.New(irq)
	j := joypad.New(irq)
	b := bus.New(cartridge, p, irq, t, j)
	c := cpu.New(b, irq)

	m := &Machine{
		cfg: cfg, bus: b, cpu: c, ppu: p, irq: irq, tim: t, joy: j, cart: cartridge,
		header: header, savePath: cart.SavePath(romPath),
	}
	b.OnFlushNeeded = m.flushSave
	m.resetPostBoot()

	if err := cart.LoadSave(cartridge, m.savePath); err != nil {
		// Save-file I/O failure is non-fatal (spec.md §7): log and run
		// with fresh/zeroed external RAM.
		log.Printf("machine: could not load save %q: %v", m.savePath, err)
	}

	return m, nil
}

// resetPostBoot sets the CPU and the I/O registers that are not owned
// by a subsystem's own reset to the standard DMG post-boot-ROM values
// (spec.md §6 "Post-boot register state").
func (m *Machine) resetPostBoot() {
	m.cpu.ResetPostBoot()
	m.ppu.ResetPostBoot() // LCDC=0x91, STAT mode=VBlank (0x85), BGP=0xFC
	m.irq.WriteIF(0xE1)
	m.tim.SeedDIV(0xAB)
}

// RunFrame advances CPU, interrupts, timer, and PPU together until at
// least 70,224 master-clock cycles have elapsed, following the fixed
// per-step ordering of spec.md §5.
func (m *Machine) RunFrame() {
	accumulated := 0
	for accumulated < cyclesPerFrame {
		pc := m.cpu.PC
		c := m.cpu.Step()
		if m.cfg.Trace {
			log.Printf("pc=%04X cycles=%d", pc, c)
		}
		if extra, serviced := m.cpu.ServiceInterrupt(); serviced {
			c += extra
		}
		m.tim.Advance(c)
		m.ppu.Advance(c)
		accumulated += c
	}
}

// Framebuffer returns the last completed frame as packed RGBA bytes.
func (m *Machine) Framebuffer() []byte { return m.ppu.FrontBuffer() }

// SetInput forwards a host-sampled 8-bit joypad latch (spec.md §4.6
// bit layout) into the joypad controller.
func (m *Machine) SetInput(state byte) { m.joy.SetButtons(state) }

// Header exposes the parsed cartridge header for host diagnostics
// (title, window bar, logging).
func (m *Machine) Header() *cart.Header { return m.header }

// Close flushes dirty battery-backed save RAM to disk, mirroring the
// destructor behavior spec.md §4.2/§6 requires at shutdown.
func (m *Machine) Close() error {
	if err := cart.FlushSave(m.cart, m.savePath); err != nil {
		return errors.Wrapf(err, "machine: flush save %q", m.savePath)
	}
	return nil
}

// flushSave is the bus's RAM-disable-edge hook (spec.md §4.2/§6's
// other canonical flush trigger, besides destruction). Save-file I/O
// failure here is non-fatal, same as the Close path: log and keep
// running.
func (m *Machine) flushSave() {
	if err := cart.FlushSave(m.cart, m.savePath); err != nil {
		log.Printf("machine: could not flush save %q: %v", m.savePath, err)
	}
}
