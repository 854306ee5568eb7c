// Package cart implements the cartridge header, the ROM-only and
// MBC1/MBC2/MBC3 memory bank controllers, and battery-backed save RAM
// persistence described in spec.md §3/§4.2/§6.
package cart

import "github.com/pkg/errors"

// Cartridge is the interface the Bus uses to route ROM reads and MBC
// command writes. Addresses are CPU addresses in [0x0000,0x8000) for
// ROM/MBC-command space and [0xA000,0xC000) for external RAM (or, on
// MBC3, the RTC register window).
type Cartridge interface {
	Read(addr uint16) byte
	Write(addr uint16, value byte)

	// Title returns the decoded cartridge title for diagnostics.
	Title() string
}

// BatteryBacked is implemented by cartridges carrying persistent
// external RAM. SaveRAM/LoadRAM operate on the canonical-size byte
// slice in bank-index order (spec.md §6 "Save file").
type BatteryBacked interface {
	HasBattery() bool
	Dirty() bool
	SaveRAM() []byte
	LoadRAM(data []byte)
	ClearDirty()
}

// FlushSignaler is implemented by BatteryBacked cartridges that can
// tell the bus a save flush is due right now, not just at shutdown:
// the RAM-disable-after-mutation edge spec.md §4.2/§6 names as the
// other canonical flush trigger.
type FlushSignaler interface {
	NeedsFlush() bool
	FlushAcknowledged()
}

// New builds the Cartridge implementation selected by the ROM header.
func New(rom []byte) (Cartridge, *Header, error) {
	h, err := ParseHeader(rom)
	if err != nil {
		return nil, nil, errors.Wrap(err, "cart: new")
	}
	switch h.Variant {
	case MBCNone:
		return newROMOnly(rom, h), h, nil
	case MBC1:
		return newMBC1(rom, h), h, nil
	case MBC2:
		return newMBC2(rom, h), h, nil
	case MBC3:
		return newMBC3(rom, h), h, nil
	default:
		return nil, nil, errors.Errorf("cart: unhandled variant %v", h.Variant)
	}
}

// romBankCount derives the effective number of 16 KiB ROM banks from
// the raw ROM length, independent of the header's (often-cosmetic)
// size byte, so oddly-sized homebrew/test ROMs still bank correctly.
// Header.ROMBanksDeclared carries what 0x0148 actually claims, for
// diagnostics that want to flag a mismatch.
func romBankCount(rom []byte) int {
	banks := len(rom) / 0x4000
	if banks < 1 {
		banks = 1
	}
	return banks
}

func romRead(rom []byte, addr int) byte {
	if addr >= 0 && addr < len(rom) {
		return rom[addr]
	}
	return 0xFF
}
