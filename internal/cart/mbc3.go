package cart

// mbc3 implements MBC1-style ROM/RAM banking plus the MBC3 real-time
// clock register window described in spec.md §4.2. The RTC does not
// advance from wall-clock time (spec.md §9 "the minimum conforming
// implementation keeps the live registers stable"); writes and the
// latch sequence round-trip faithfully, which is all §8's MBC
// round-trip property requires.
type mbc3 struct {
	rom []byte
	ram []byte
	h   *Header

	banks int

	romBank    byte // 1..127, 0 promoted to 1
	ramBank    byte // 0..3 when RAM is selected
	ramEnabled bool

	// RTC registers: index 0 seconds, 1 minutes, 2 hours, 3 day-low,
	// 4 day-high (bit 0 day-high bit8, bit 6 halt, bit 7 carry).
	rtc            [5]byte
	rtcLatched     [5]byte
	rtcLatchActive bool
	rtcSelect      byte // 0-4 selects an RTC register, 0xFF selects none
	latchPrev      byte

	dirty      bool
	needsFlush bool
}

// setRAMEnabled flips the RAM-enable latch and clears any pending RTC
// register selection, as on real MBC3. Disabling RAM that carries
// unsaved writes is the other canonical save-flush trigger besides
// destruction (spec.md §4.2/§6); NeedsFlush reports the edge so the
// bus can act on it.
func (m *mbc3) setRAMEnabled(on bool) {
	if !on {
		m.rtcSelect = 0xFF
	}
	if m.ramEnabled && !on && m.dirty {
		m.needsFlush = true
	}
	m.ramEnabled = on
}

func newMBC3(rom []byte, h *Header) *mbc3 {
	m := &mbc3{rom: rom, h: h, banks: romBankCount(rom), romBank: 1, rtcSelect: 0xFF, latchPrev: 0xFF}
	if h.RAMSizeBytes > 0 {
		m.ram = make([]byte, h.RAMSizeBytes)
	}
	return m
}

func (m *mbc3) Title() string { return m.h.Title }

func (m *mbc3) effectiveROMBank() int {
	bank := int(m.romBank) % m.banks
	if bank == 0 {
		bank = 1 % m.banks
	}
	return bank
}

func (m *mbc3) Read(addr uint16) byte {
	switch {
	case addr < 0x4000:
		return romRead(m.rom, int(addr))
	case addr < 0x8000:
		return romRead(m.rom, m.effectiveROMBank()*0x4000+int(addr-0x4000))
	case addr >= 0xA000 && addr < 0xC000:
		if !m.ramEnabled {
			return 0xFF
		}
		if m.rtcSelect <= 0x04 {
			if m.rtcLatchActive {
				return m.rtcLatched[m.rtcSelect]
			}
			return m.rtc[m.rtcSelect]
		}
		if len(m.ram) == 0 {
			return 0xFF
		}
		off := int(m.ramBank&0x03)*0x2000 + int(addr-0xA000)
		if off < 0 || off >= len(m.ram) {
			return 0xFF
		}
		return m.ram[off]
	default:
		return 0xFF
	}
}

func (m *mbc3) Write(addr uint16, value byte) {
	switch {
	case addr < 0x2000:
		m.setRAMEnabled((value & 0x0F) == 0x0A)
	case addr < 0x4000:
		v := value & 0x7F
		if v == 0 {
			v = 1
		}
		m.romBank = v
	case addr < 0x6000:
		if value <= 0x03 {
			m.ramBank = value
			m.rtcSelect = 0xFF
		} else if value >= 0x08 && value <= 0x0C {
			m.rtcSelect = value - 0x08
		}
	case addr < 0x8000:
		// Latch trigger: a 0 then 1 write copies live RTC into the
		// latched snapshot.
		if m.latchPrev == 0x00 && value == 0x01 {
			m.rtcLatched = m.rtc
			m.rtcLatchActive = true
		}
		m.latchPrev = value
	case addr >= 0xA000 && addr < 0xC000:
		if !m.ramEnabled {
			return
		}
		if m.rtcSelect <= 0x04 {
			if m.rtc[m.rtcSelect] != value {
				m.rtc[m.rtcSelect] = value
				m.dirty = true
			}
			return
		}
		if len(m.ram) == 0 {
			return
		}
		off := int(m.ramBank&0x03)*0x2000 + int(addr-0xA000)
		if off < 0 || off >= len(m.ram) {
			return
		}
		if m.ram[off] != value {
			m.ram[off] = value
			m.dirty = true
		}
	}
}

func (m *mbc3) HasBattery() bool   { return m.h.HasBattery }
func (m *mbc3) Dirty() bool        { return m.dirty }
func (m *mbc3) ClearDirty()        { m.dirty = false }
func (m *mbc3) NeedsFlush() bool   { return m.needsFlush }
func (m *mbc3) FlushAcknowledged() { m.needsFlush = false }

// SaveRAM appends the five RTC bytes after the external RAM bytes so a
// reload can restore both from one file.
func (m *mbc3) SaveRAM() []byte {
	out := make([]byte, len(m.ram)+5)
	copy(out, m.ram)
	copy(out[len(m.ram):], m.rtc[:])
	return out
}

func (m *mbc3) LoadRAM(data []byte) {
	n := copy(m.ram, data)
	for i := n; i < len(m.ram); i++ {
		m.ram[i] = 0
	}
	if len(data) > len(m.ram) {
		copy(m.rtc[:], data[len(m.ram):])
	}
	m.dirty = true
}
