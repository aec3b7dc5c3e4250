package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Screen is the display snapshot consumed by the renderer. It is implemented
// by the emulation engine.
type Screen interface {
	Size() (cols, rows int)
	// Cell returns the character at (x, y) and its foreground color as an
	// ANSI index 0-7, or a negative value for the default foreground.
	Cell(x, y int) (ch rune, fg int)
	Cursor() (x, y int)
}

// Cell geometry and colors match a typical dark terminal theme.
const (
	fontSize   = 14
	charWidth  = 8
	charHeight = 16
	padding    = 10
)

var (
	background    = color.RGBA{30, 30, 30, 255}
	foreground    = color.RGBA{220, 220, 220, 255}
	cursorOutline = color.RGBA{100, 100, 200, 255}

	// Basic ANSI foreground palette, indexed 0-7.
	palette = [8]color.RGBA{
		{0, 0, 0, 255},       // black
		{205, 49, 49, 255},   // red
		{13, 188, 121, 255},  // green
		{229, 229, 16, 255},  // yellow
		{36, 114, 200, 255},  // blue
		{188, 63, 188, 255},  // magenta
		{17, 168, 205, 255},  // cyan
		{229, 229, 229, 255}, // white
	}
)

// fontSearchPaths lists common monospace TTF locations, tried in order.
var fontSearchPaths = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSansMono.ttf",
	"/usr/share/fonts/TTF/DejaVuSansMono.ttf",
	"/usr/share/fonts/dejavu/DejaVuSansMono.ttf",
	"/Library/Fonts/Andale Mono.ttf",
	"/System/Library/Fonts/Supplemental/Courier New.ttf",
}

// Renderer draws screen snapshots to PNG files. It is stateless apart from
// the loaded font face and safe to share between sessions.
type Renderer struct {
	face   font.Face
	ascent int
}

// New creates a renderer, searching system paths for a monospace font and
// falling back to the built-in bitmap face.
func New() *Renderer {
	face := loadFace()
	return &Renderer{
		face:   face,
		ascent: face.Metrics().Ascent.Ceil(),
	}
}

func loadFace() font.Face {
	for _, path := range fontSearchPaths {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		parsed, err := opentype.Parse(data)
		if err != nil {
			continue
		}
		face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
			Size:    fontSize,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			continue
		}
		return face
	}
	return basicfont.Face7x13
}

// Render draws the screen to a PNG at path, creating the parent directory
// if absent. The file is written via a temporary name and renamed into
// place so an existing artifact is never left half-written.
func (r *Renderer) Render(screen Screen, path string) error {
	cols, rows := screen.Size()

	width := cols*charWidth + padding*2
	height := rows*charHeight + padding*2
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	fill(img, background)

	drawer := &font.Drawer{
		Dst:  img,
		Face: r.face,
	}
	for y := 0; y < rows; y++ {
		baseline := padding + y*charHeight + r.ascent
		for x := 0; x < cols; x++ {
			ch, fg := screen.Cell(x, y)
			if ch == ' ' || ch == 0 {
				continue
			}
			col := foreground
			if fg >= 0 && fg < len(palette) {
				col = palette[fg]
			}
			drawer.Src = image.NewUniform(col)
			drawer.Dot = fixed.P(padding+x*charWidth, baseline)
			drawer.DrawString(string(ch))
		}
	}

	cx, cy := screen.Cursor()
	outlineRect(img,
		padding+cx*charWidth, padding+cy*charHeight,
		padding+(cx+1)*charWidth, padding+(cy+1)*charHeight,
		cursorOutline)

	return writeAtomic(img, path)
}

func fill(img *image.RGBA, c color.RGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

// outlineRect draws a 1px rectangle border from (x0, y0) to (x1, y1).
func outlineRect(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	for x := x0; x <= x1; x++ {
		img.SetRGBA(x, y0, c)
		img.SetRGBA(x, y1, c)
	}
	for y := y0; y <= y1; y++ {
		img.SetRGBA(x0, y, c)
		img.SetRGBA(x1, y, c)
	}
}

func writeAtomic(img image.Image, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".render-*.png")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("publish artifact: %w", err)
	}
	return nil
}
