package cart

import (
	"strings"

	"github.com/pkg/errors"
)

const (
	headerTitleStart  = 0x0134
	headerTitleEnd    = 0x0144
	headerCartType    = 0x0147
	headerROMSize     = 0x0148
	headerRAMSize     = 0x0149
	headerChecksum    = 0x014D
	headerMinimumSize = 0x0150
)

// MBC identifies the memory bank controller family a cartridge uses.
type MBC int

const (
	MBCNone MBC = iota
	MBC1
	MBC2
	MBC3
)

// Header holds the fields of the cartridge header the core consults,
// plus a few decoded convenience values useful for diagnostics.
type Header struct {
	Title       string
	CartType    byte // 0x0147
	ROMSizeCode byte // 0x0148
	RAMCode     byte // 0x0149

	Variant      MBC
	HasRAM       bool
	HasBattery   bool
	HasTimer     bool
	RAMSizeBytes int

	// ROMBanksDeclared is the bank count the 0x0148 byte claims, for
	// diagnostics only: the core's actual addressing uses
	// romBankCount's length-derived count instead, since homebrew/test
	// ROMs frequently leave this byte cosmetic.
	ROMBanksDeclared int

	// LogoOK reports whether the cartridge's 0x0104-0x0133 bitmap
	// matches the real boot ROM's Nintendo logo check. Diagnostic only;
	// this core does not refuse to run a ROM that fails it.
	LogoOK bool
}

// ParseHeader reads the cartridge header out of rom. It returns an
// error (wrapped with call-site context) if the ROM is too small to
// contain a header or the cartridge-type byte is not one this core
// supports (ROM-only, MBC1, MBC2, or MBC3 families).
func ParseHeader(rom []byte) (*Header, error) {
	if len(rom) < headerMinimumSize {
		return nil, errors.Errorf("cart: ROM too small (%d bytes) to contain a header", len(rom))
	}

	title := strings.TrimRight(string(rom[headerTitleStart:headerTitleEnd]), "\x00")
	cartType := rom[headerCartType]
	romCode := rom[headerROMSize]
	ramCode := rom[headerRAMSize]

	h := &Header{
		Title:            title,
		CartType:         cartType,
		ROMSizeCode:      romCode,
		RAMCode:          ramCode,
		ROMBanksDeclared: romSizeCodeToBanks(romCode),
		LogoOK:           NintendoLogoOK(rom),
	}

	variant, hasRAM, hasBattery, hasTimer, err := decodeCartType(cartType)
	if err != nil {
		return nil, errors.Wrapf(err, "cart: parse header")
	}
	h.Variant = variant
	h.HasRAM = hasRAM
	h.HasBattery = hasBattery
	h.HasTimer = hasTimer
	h.RAMSizeBytes = decodeRAMSize(ramCode)

	// MBC2 always carries its own 512x4-bit RAM regardless of the
	// header's RAM-size byte.
	if variant == MBC2 {
		h.HasRAM = true
		h.RAMSizeBytes = 512
	}

	return h, nil
}

// decodeCartType maps the 0x0147 byte per spec.md §6.
func decodeCartType(b byte) (variant MBC, hasRAM, hasBattery, hasTimer bool, err error) {
	switch b {
	case 0x00:
		return MBCNone, false, false, false, nil
	case 0x01:
		return MBC1, false, false, false, nil
	case 0x02:
		return MBC1, true, false, false, nil
	case 0x03:
		return MBC1, true, true, false, nil
	case 0x05:
		return MBC2, true, false, false, nil
	case 0x06:
		return MBC2, true, true, false, nil
	case 0x0F:
		return MBC3, false, true, true, nil
	case 0x10:
		return MBC3, true, true, true, nil
	case 0x11:
		return MBC3, false, false, false, nil
	case 0x12:
		return MBC3, true, false, false, nil
	case 0x13:
		return MBC3, true, true, false, nil
	default:
		return MBCNone, false, false, false, errors.Errorf("unsupported cartridge type byte 0x%02X", b)
	}
}

func decodeRAMSize(code byte) int {
	switch code {
	case 0x00:
		return 0
	case 0x01:
		return 2 * 1024
	case 0x02:
		return 8 * 1024
	case 0x03:
		return 4 * 8 * 1024
	case 0x04:
		return 16 * 8 * 1024
	case 0x05:
		return 8 * 8 * 1024
	default:
		return 0
	}
}

// String renders a short diagnostic line, e.g. for a host window title.
func (h *Header) String() string {
	variant := "ROM ONLY"
	switch h.Variant {
	case MBC1:
		variant = "MBC1"
	case MBC2:
		variant = "MBC2"
	case MBC3:
		variant = "MBC3"
	}
	if h.HasRAM {
		variant += "+RAM"
	}
	if h.HasBattery {
		variant += "+BATTERY"
	}
	if h.HasTimer {
		variant += "+TIMER"
	}
	return h.Title + " (" + variant + ")"
}

// HeaderChecksumOK verifies the 0x014D checksum byte over 0x0134-0x014C.
func HeaderChecksumOK(rom []byte) bool {
	if len(rom) <= headerChecksum {
		return false
	}
	var sum byte
	for addr := headerTitleStart; addr < headerChecksum; addr++ {
		sum = sum - rom[addr] - 1
	}
	return sum == rom[headerChecksum]
}

// headerLogoStart is where the boot ROM's Nintendo-logo comparison
// begins; the bitmap runs 48 bytes to headerTitleStart.
const headerLogoStart = 0x0104

// nintendoLogo is the 48-byte bitmap the real boot ROM compares
// against 0x0104-0x0133 before handing off to the cartridge.
var nintendoLogo = [48]byte{
	0xCE, 0xED, 0x66, 0x66, 0xCC, 0x0D, 0x00, 0x0B,
	0x03, 0x73, 0x00, 0x83, 0x00, 0x0C, 0x00, 0x0D,
	0x00, 0x08, 0x11, 0x1F, 0x88, 0x89, 0x00, 0x0E,
	0xDC, 0xCC, 0x6E, 0xE6, 0xDD, 0xDD, 0xD9, 0x99,
	0xBB, 0xBB, 0x67, 0x63, 0x6E, 0x0E, 0xEC, 0xCC,
	0xDD, 0xDC, 0x99, 0x9F, 0xBB, 0xB9, 0x33, 0x3E,
}

// NintendoLogoOK reports whether rom's 0x0104-0x0133 bitmap matches
// the one the boot ROM checks. This core's boot-ROM execution is a
// Non-goal, so nothing refuses to run a ROM that fails this; it is
// exposed as a diagnostic, parallel to HeaderChecksumOK.
func NintendoLogoOK(rom []byte) bool {
	if len(rom) < headerLogoStart+len(nintendoLogo) {
		return false
	}
	for i, b := range nintendoLogo {
		if rom[headerLogoStart+i] != b {
			return false
		}
	}
	return true
}

// romSizeCodeToBanks maps the 0x0148 header byte to the bank count it
// declares. It is diagnostic only: romBankCount (cart.go) derives the
// count the core actually uses for addressing from the ROM's real
// length instead, since homebrew/test ROMs often leave this byte
// cosmetic.
func romSizeCodeToBanks(code byte) int {
	if code > 0x08 {
		return 0
	}
	return 2 << code
}
