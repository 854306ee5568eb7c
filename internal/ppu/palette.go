package ppu

// Color is an RGBA pixel using the fixed DMG 4-shade table of
// spec.md §4.5 "Palette application", lightest to darkest.
type Color struct {
	R, G, B, A byte
}

var shades = [4]Color{
	{224, 248, 208, 255},
	{136, 192, 112, 255},
	{52, 104, 86, 255},
	{8, 24, 32, 255},
}

// decodePalette expands a packed palette byte (four 2-bit shade
// indices) into four concrete colors, cached whenever BGP/OBP0/OBP1
// is written (spec.md §4.1).
func decodePalette(reg byte) [4]Color {
	var out [4]Color
	for i := 0; i < 4; i++ {
		idx := (reg >> (i * 2)) & 0x03
		out[i] = shades[idx]
	}
	return out
}
