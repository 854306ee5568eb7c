package cart

import "testing"

func newTestMBC2(banks int) *mbc2 {
	rom := make([]byte, banks*0x4000)
	for b := 0; b < banks; b++ {
		rom[b*0x4000] = byte(b)
	}
	return newMBC2(rom, &Header{})
}

func TestMBC2_ROMBankSwitchUsesLowNibble(t *testing.T) {
	m := newTestMBC2(16)
	m.Write(0x2100, 0x05) // bit8 set: bank-select write takes effect
	if got := m.Read(0x4000); got != 5 {
		t.Fatalf("Read(0x4000) = %d, want 5", got)
	}
}

func TestMBC2_ROMBankWriteIgnoredWithoutBit8(t *testing.T) {
	m := newTestMBC2(16)
	m.Write(0x2000, 0x05) // bit8 clear: ignored
	if got := m.Read(0x4000); got != 1 {
		t.Fatalf("Read(0x4000) = %d, want 1 (default bank, write ignored)", got)
	}
}

func TestMBC2_RAMEnableRequiresBit8Clear(t *testing.T) {
	m := newTestMBC2(2)
	m.Write(0x0100, 0x0A) // bit8 set: ignored
	if got := m.Read(0xA000); got != 0xFF {
		t.Fatalf("Read(0xA000) = %#02x, want 0xFF: enable write with bit8 set must be ignored", got)
	}
	m.Write(0x0000, 0x0A) // bit8 clear: takes effect
	m.Write(0xA000, 0xAB)
	if got := m.Read(0xA000); got != 0xAB|0xF0 {
		t.Fatalf("Read(0xA000) = %#02x, want high nibble forced to 1", got)
	}
}

func TestMBC2_RAMIsOnlyFourBitsWide(t *testing.T) {
	m := newTestMBC2(2)
	m.Write(0x0000, 0x0A)
	m.Write(0xA000, 0xFF)
	if got := m.Read(0xA000); got != 0xFF {
		t.Fatalf("Read(0xA000) = %#02x, want 0xFF (low nibble 0xF | forced high nibble)", got)
	}
	if m.ram[0] != 0x0F {
		t.Fatalf("stored nibble = %#02x, want 0x0F (only low 4 bits stored)", m.ram[0])
	}
}

func TestMBC2_DisablingDirtyRAMSignalsFlush(t *testing.T) {
	m := newTestMBC2(2)
	m.Write(0x0000, 0x0A)
	m.Write(0xA000, 0x03)
	m.Write(0x0000, 0x00)
	if !m.NeedsFlush() {
		t.Fatalf("NeedsFlush() = false after disabling dirty RAM")
	}
	m.FlushAcknowledged()
	if m.NeedsFlush() {
		t.Fatalf("NeedsFlush() = true after FlushAcknowledged")
	}
}

func TestMBC2_RAMMirrorsAcrossWindow(t *testing.T) {
	m := newTestMBC2(2)
	m.Write(0x0000, 0x0A)
	m.Write(0xA000, 0x03)
	if got := m.Read(0xA200); got != 0x03|0xF0 {
		t.Fatalf("Read(0xA200) = %#02x, want the same entry mirrored from 0xA000", got)
	}
}
