package cart

// mbc2 implements the MBC2 banking scheme of spec.md §4.2. MBC2 always
// carries its own internal 512x4-bit RAM: only the low nibble of each
// stored byte is meaningful, and reads force the high nibble to 1
// (spec.md §4.2 "MBC2 always provides...").
type mbc2 struct {
	rom []byte
	ram [512]byte
	h   *Header

	banks      int
	romBank    byte // 1..15, 0 promoted to 1
	ramEnabled bool

	dirty      bool
	needsFlush bool
}

// setRAMEnabled flips the RAM-enable latch. Disabling RAM that carries
// unsaved writes is the other canonical save-flush trigger besides
// destruction (spec.md §4.2/§6); NeedsFlush reports the edge so the
// bus can act on it.
func (m *mbc2) setRAMEnabled(on bool) {
	if m.ramEnabled && !on && m.dirty {
		m.needsFlush = true
	}
	m.ramEnabled = on
}

func newMBC2(rom []byte, h *Header) *mbc2 {
	return &mbc2{rom: rom, h: h, banks: romBankCount(rom), romBank: 1}
}

func (m *mbc2) Title() string { return m.h.Title }

func (m *mbc2) effectiveBank() int {
	bank := int(m.romBank) % m.banks
	if bank == 0 {
		bank = 1 % m.banks
	}
	return bank
}

func (m *mbc2) Read(addr uint16) byte {
	switch {
	case addr < 0x4000:
		return romRead(m.rom, int(addr))
	case addr < 0x8000:
		return romRead(m.rom, m.effectiveBank()*0x4000+int(addr-0x4000))
	case addr >= 0xA000 && addr < 0xC000:
		if !m.ramEnabled {
			return 0xFF
		}
		// The 512-entry RAM is addressed by the low 9 bits and mirrored
		// across the rest of the A000-BFFF window.
		idx := int(addr-0xA000) & 0x1FF
		return m.ram[idx] | 0xF0
	default:
		return 0xFF
	}
}

func (m *mbc2) Write(addr uint16, value byte) {
	switch {
	case addr < 0x2000:
		// Only addresses with bit 8 clear take effect (spec.md §4.2).
		if addr&0x0100 == 0 {
			m.setRAMEnabled((value & 0x0F) == 0x0A)
		}
	case addr < 0x4000:
		if addr&0x0100 == 0 {
			return
		}
		v := value & 0x0F
		if v == 0 {
			v = 1
		}
		m.romBank = v
	case addr >= 0xA000 && addr < 0xC000:
		if !m.ramEnabled {
			return
		}
		idx := int(addr-0xA000) & 0x1FF
		nibble := value & 0x0F
		if m.ram[idx] != nibble {
			m.ram[idx] = nibble
			m.dirty = true
		}
	}
}

func (m *mbc2) HasBattery() bool   { return m.h.HasBattery }
func (m *mbc2) Dirty() bool        { return m.dirty }
func (m *mbc2) ClearDirty()        { m.dirty = false }
func (m *mbc2) NeedsFlush() bool   { return m.needsFlush }
func (m *mbc2) FlushAcknowledged() { m.needsFlush = false }

func (m *mbc2) SaveRAM() []byte {
	out := make([]byte, len(m.ram))
	copy(out, m.ram[:])
	return out
}

func (m *mbc2) LoadRAM(data []byte) {
	n := copy(m.ram[:], data)
	for i := n; i < len(m.ram); i++ {
		m.ram[i] = 0
	}
	m.dirty = true
}
