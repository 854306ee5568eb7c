package cart

import (
	"os"

	"github.com/pkg/errors"
)

// SavePath derives the battery-backed save path for a ROM path per
// spec.md §6: same stem, extension ".sav".
func SavePath(romPath string) string {
	for i := len(romPath) - 1; i >= 0; i-- {
		if romPath[i] == '.' {
			return romPath[:i] + ".sav"
		}
		if romPath[i] == '/' || romPath[i] == '\\' {
			break
		}
	}
	return romPath + ".sav"
}

// LoadSave reads a battery save file into c if c is battery-backed. A
// missing file is not an error (spec.md §7: save-file I/O error is
// non-fatal). Size mismatches are tolerated per spec.md §6.
func LoadSave(c Cartridge, path string) error {
	bb, ok := c.(BatteryBacked)
	if !ok || !bb.HasBattery() {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "cart: load save %q", path)
	}
	bb.LoadRAM(data)
	return nil
}

// FlushSave writes the cartridge's external RAM to path if it is
// battery-backed and dirty, clearing the dirty flag on success.
// Callers (Machine.Close, or a periodic flush) decide when to call
// this; spec.md §4.2 names destruction and RAM-disable-after-mutation
// as the two canonical triggers.
func FlushSave(c Cartridge, path string) error {
	bb, ok := c.(BatteryBacked)
	if !ok || !bb.HasBattery() || !bb.Dirty() {
		return nil
	}
	data := bb.SaveRAM()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "cart: flush save %q", path)
	}
	bb.ClearDirty()
	return nil
}
