// Command dmgheadless runs a ROM for a fixed number of frames with no
// window, optionally writing the final framebuffer as a PNG and
// asserting its CRC32 — the acceptance-test harness for spec.md §8's
// frame and MBC properties, grounded on the teacher's -headless/
// -outpng/-expect flags in cmd/gbemu.
package main

import (
	"flag"
	"fmt"
	"hash/crc32"
	"image"
	"image/png"
	"log"
	"os"
	"strings"
	"time"

	"github.com/budach/gameboy/internal/machine"
	"github.com/budach/gameboy/internal/ppu"
)

func main() {
	romPath := flag.String("rom", "", "path to ROM (.gb)")
	frames := flag.Int("frames", 300, "frames to run")
	outPNG := flag.String("outpng", "", "write final framebuffer to PNG at path")
	expectCRC := flag.String("expect", "", "assert framebuffer CRC32 (hex)")
	trace := flag.Bool("trace", false, "log PC and cycle count of every CPU step")
	flag.Parse()

	if *romPath == "" {
		log.Fatal("dmgheadless: -rom is required")
	}
	if *frames <= 0 {
		*frames = 1
	}

	m, err := machine.NewFromFile(*romPath, machine.Config{Trace: *trace})
	if err != nil {
		log.Fatalf("dmgheadless: %v", err)
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Printf("dmgheadless: %v", err)
		}
	}()

	start := time.Now()
	for i := 0; i < *frames; i++ {
		m.RunFrame()
	}
	elapsed := time.Since(start)

	fb := m.Framebuffer()
	crc := crc32.ChecksumIEEE(fb)
	fps := float64(*frames) / elapsed.Seconds()
	log.Printf("headless: frames=%d elapsed=%s fps=%.2f fb_crc32=%08x",
		*frames, elapsed.Truncate(time.Millisecond), fps, crc)

	if *outPNG != "" {
		if err := writePNG(fb, *outPNG); err != nil {
			log.Fatalf("dmgheadless: write PNG: %v", err)
		}
		log.Printf("wrote %s", *outPNG)
	}

	if *expectCRC != "" {
		want := strings.TrimPrefix(strings.ToLower(*expectCRC), "0x")
		got := fmt.Sprintf("%08x", crc)
		if got != want {
			log.Fatalf("dmgheadless: checksum mismatch: got %s, want %s", got, want)
		}
	}
}

func writePNG(rgba []byte, path string) error {
	img := &image.RGBA{
		Pix:    rgba,
		Stride: 4 * ppu.Width,
		Rect:   image.Rect(0, 0, ppu.Width, ppu.Height),
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
