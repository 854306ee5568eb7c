// Command dmgdesktop is an ebiten-backed desktop host: it owns the
// window, polls the keyboard for the eight joypad buttons, and drives
// one Machine.RunFrame per Update, grounded on the teacher's
// cmd/gbemu + internal/ui/ebitenapp.go.
package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/budach/gameboy/internal/machine"
	"github.com/budach/gameboy/internal/ppu"
)

type app struct {
	m   *machine.Machine
	tex *ebiten.Image
}

func (a *app) Update() error {
	a.m.SetInput(pollJoypad())
	a.m.RunFrame()
	return nil
}

func (a *app) Draw(screen *ebiten.Image) {
	if a.tex == nil {
		a.tex = ebiten.NewImage(ppu.Width, ppu.Height)
	}
	a.tex.WritePixels(a.m.Framebuffer())
	screen.DrawImage(a.tex, nil)
}

func (a *app) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ppu.Width, ppu.Height
}

// pollJoypad samples the keyboard into the 8-bit latch spec.md §4.6
// expects: 1 = released, 0 = pressed.
func pollJoypad() byte {
	state := byte(0xFF)
	press := func(key ebiten.Key, bit byte) {
		if ebiten.IsKeyPressed(key) {
			state &^= bit
		}
	}
	press(ebiten.KeyArrowRight, 1<<0)
	press(ebiten.KeyArrowLeft, 1<<1)
	press(ebiten.KeyArrowUp, 1<<2)
	press(ebiten.KeyArrowDown, 1<<3)
	press(ebiten.KeyZ, 1<<4)
	press(ebiten.KeyX, 1<<5)
	press(ebiten.KeyBackspace, 1<<6)
	press(ebiten.KeyEnter, 1<<7)
	return state
}

func main() {
	romPath := flag.String("rom", "", "path to ROM (.gb)")
	scale := flag.Int("scale", 3, "window scale")
	trace := flag.Bool("trace", false, "log PC and cycle count of every CPU step")
	flag.Parse()

	if *romPath == "" {
		log.Fatal("dmgdesktop: -rom is required")
	}

	m, err := machine.NewFromFile(*romPath, machine.Config{Trace: *trace})
	if err != nil {
		log.Fatalf("dmgdesktop: %v", err)
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Printf("dmgdesktop: %v", err)
		}
	}()

	title := *romPath
	if h := m.Header(); h != nil {
		title = h.String()
	}
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(ppu.Width*(*scale), ppu.Height*(*scale))

	if err := ebiten.RunGame(&app{m: m}); err != nil {
		log.Fatalf("dmgdesktop: %v", err)
	}
}
