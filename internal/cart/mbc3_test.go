package cart

import "testing"

func newTestMBC3(banks int, ramBytes int) *mbc3 {
	rom := make([]byte, banks*0x4000)
	for b := 0; b < banks; b++ {
		rom[b*0x4000] = byte(b)
	}
	return newMBC3(rom, &Header{RAMSizeBytes: ramBytes})
}

func TestMBC3_ROMBankSwitchUses7Bits(t *testing.T) {
	m := newTestMBC3(4, 0)
	m.Write(0x2000, 0x03)
	if got := m.Read(0x4000); got != 3 {
		t.Fatalf("Read(0x4000) = %d, want 3", got)
	}
}

func TestMBC3_RAMBankSelection(t *testing.T) {
	m := newTestMBC3(2, 4*0x2000)
	m.Write(0x0000, 0x0A)
	m.Write(0x4000, 0x01) // RAM bank 1
	m.Write(0xA000, 0x99)
	m.Write(0x4000, 0x00) // RAM bank 0
	if got := m.Read(0xA000); got == 0x99 {
		t.Fatalf("RAM bank 0 unexpectedly aliases bank 1")
	}
	m.Write(0x4000, 0x01)
	if got := m.Read(0xA000); got != 0x99 {
		t.Fatalf("Read(0xA000) on RAM bank 1 = %#02x, want 0x99", got)
	}
}

func TestMBC3_RTCRegisterSelectAndLatch(t *testing.T) {
	m := newTestMBC3(2, 0)
	m.Write(0x0000, 0x0A) // enable RAM/RTC access
	m.Write(0x4000, 0x08) // select RTC seconds register
	m.Write(0xA000, 42)   // write live seconds
	if got := m.Read(0xA000); got != 42 {
		t.Fatalf("Read(0xA000) (live seconds) = %d, want 42", got)
	}

	m.Write(0x6000, 0x00) // latch sequence: 0 then 1
	m.Write(0x6000, 0x01)
	m.rtc[0] = 7 // mutate live seconds after latching
	if got := m.Read(0xA000); got != 42 {
		t.Fatalf("Read(0xA000) after latch = %d, want 42 (latched snapshot), live=%d", got, m.rtc[0])
	}
}

func TestMBC3_RAMBankAndRTCShareSelectWindow(t *testing.T) {
	m := newTestMBC3(2, 0x2000)
	m.Write(0x0000, 0x0A)
	m.Write(0x4000, 0x08) // select RTC seconds
	m.Write(0x4000, 0x01) // re-select RAM bank 1: clears the RTC selection
	m.Write(0xA000, 0x10)
	if m.rtcSelect != 0xFF {
		t.Fatalf("rtcSelect = %#02x, want 0xFF once a RAM-bank value is written", m.rtcSelect)
	}
}

func TestMBC3_DisablingDirtyRAMSignalsFlush(t *testing.T) {
	m := newTestMBC3(2, 0x2000)
	m.Write(0x0000, 0x0A)
	m.Write(0xA000, 0x11)
	m.Write(0x0000, 0x00)
	if !m.NeedsFlush() {
		t.Fatalf("NeedsFlush() = false after disabling dirty RAM")
	}
	m.FlushAcknowledged()
	if m.NeedsFlush() {
		t.Fatalf("NeedsFlush() = true after FlushAcknowledged")
	}
}

func TestMBC3_SaveLoadIncludesRTC(t *testing.T) {
	m := newTestMBC3(2, 0x2000)
	m.Write(0x0000, 0x0A)
	m.Write(0xA000, 0x11) // RAM bank 0 byte
	m.Write(0x4000, 0x08)
	m.Write(0xA000, 77) // RTC seconds

	saved := m.SaveRAM()
	if len(saved) != 0x2000+5 {
		t.Fatalf("SaveRAM() length = %d, want %d (RAM + 5 RTC bytes)", len(saved), 0x2000+5)
	}

	n := newTestMBC3(2, 0x2000)
	n.LoadRAM(saved)
	if n.rtc[0] != 77 {
		t.Fatalf("loaded RTC seconds = %d, want 77", n.rtc[0])
	}
}
