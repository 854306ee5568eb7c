package cart

import "testing"

func newTestMBC1(banks int, ramBytes int) *mbc1 {
	rom := make([]byte, banks*0x4000)
	for b := 0; b < banks; b++ {
		rom[b*0x4000] = byte(b) // tag byte 0 of each bank for Read assertions
	}
	h := &Header{RAMSizeBytes: ramBytes}
	return newMBC1(rom, h)
}

func TestMBC1_ROMBankSwitch(t *testing.T) {
	m := newTestMBC1(4, 0)
	m.Write(0x2000, 0x02) // select ROM bank 2
	if got := m.Read(0x4000); got != 2 {
		t.Fatalf("Read(0x4000) = %d, want 2", got)
	}
}

func TestMBC1_Bank0WritePromotedToBank1(t *testing.T) {
	m := newTestMBC1(4, 0)
	m.Write(0x2000, 0x00)
	if got := m.Read(0x4000); got != 1 {
		t.Fatalf("Read(0x4000) = %d, want 1 (bank 0 select promotes to 1)", got)
	}
}

func TestMBC1_RAMRequiresEnable(t *testing.T) {
	m := newTestMBC1(2, 0x2000)
	m.Write(0xA000, 0x42)
	if got := m.Read(0xA000); got != 0xFF {
		t.Fatalf("Read(0xA000) = %#02x, want 0xFF while RAM disabled", got)
	}
	m.Write(0x0000, 0x0A) // enable
	m.Write(0xA000, 0x42)
	if got := m.Read(0xA000); got != 0x42 {
		t.Fatalf("Read(0xA000) = %#02x, want 0x42 once enabled", got)
	}
	if !m.Dirty() {
		t.Fatalf("Dirty() = false after an external RAM write")
	}
}

func TestMBC1_RAMBankingModeSelectsRAMBank(t *testing.T) {
	m := newTestMBC1(2, 4*0x2000)
	m.Write(0x0000, 0x0A) // enable RAM
	m.Write(0x6000, 0x01) // RAM banking mode
	m.Write(0x4000, 0x03) // RAM bank 3
	m.Write(0xA000, 0x7A)
	m.Write(0x4000, 0x00) // switch to RAM bank 0
	if got := m.Read(0xA000); got == 0x7A {
		t.Fatalf("RAM bank 0 unexpectedly sees bank 3's byte")
	}
	m.Write(0x4000, 0x03)
	if got := m.Read(0xA000); got != 0x7A {
		t.Fatalf("Read(0xA000) on RAM bank 3 = %#02x, want 0x7A", got)
	}
}

func TestMBC1_DisablingDirtyRAMSignalsFlush(t *testing.T) {
	m := newTestMBC1(2, 0x2000)
	m.Write(0x0000, 0x0A) // enable
	if m.NeedsFlush() {
		t.Fatalf("NeedsFlush() = true before any RAM write")
	}
	m.Write(0xA000, 0x42)
	m.Write(0x0000, 0x00) // disable while dirty
	if !m.NeedsFlush() {
		t.Fatalf("NeedsFlush() = false after disabling dirty RAM")
	}
	m.FlushAcknowledged()
	if m.NeedsFlush() {
		t.Fatalf("NeedsFlush() = true after FlushAcknowledged")
	}
}

func TestMBC1_DisablingCleanRAMDoesNotSignalFlush(t *testing.T) {
	m := newTestMBC1(2, 0x2000)
	m.Write(0x0000, 0x0A)
	m.Write(0x0000, 0x00) // disable without ever writing RAM
	if m.NeedsFlush() {
		t.Fatalf("NeedsFlush() = true for RAM that was never written")
	}
}

func TestMBC1_SaveLoadRAMRoundTrip(t *testing.T) {
	m := newTestMBC1(2, 0x2000)
	m.Write(0x0000, 0x0A)
	m.Write(0xA000, 0x55)
	saved := m.SaveRAM()

	n := newTestMBC1(2, 0x2000)
	n.LoadRAM(saved)
	n.Write(0x0000, 0x0A)
	if got := n.Read(0xA000); got != 0x55 {
		t.Fatalf("Read(0xA000) after LoadRAM = %#02x, want 0x55", got)
	}
	if !n.Dirty() {
		t.Fatalf("LoadRAM should mark the cartridge dirty")
	}
}
