package imageload

import (
	"fmt"
	"image"
	"image/color"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/disintegration/imaging"
)

// halfBlock draws two vertical pixels per cell: the top one as foreground,
// the bottom one as background.
const halfBlock = "▀"

// Render draws img into a width x height cell grid using half blocks. The
// image keeps its aspect ratio and is centered. When dim is set every pixel
// is drawn at half intensity, used while a newer image is loading.
func Render(img image.Image, width, height int, dim bool) string {
	if img == nil || width <= 0 || height <= 0 {
		return ""
	}
	fitted := fitCells(img, width, height*2)
	b := fitted.Bounds()
	cols := b.Dx()
	rows := (b.Dy() + 1) / 2

	padLeft := (width - cols) / 2
	padTop := (height - rows) / 2
	blankLine := strings.Repeat(" ", width)

	lines := make([]string, 0, height)
	for i := 0; i < padTop; i++ {
		lines = append(lines, blankLine)
	}
	for row := 0; row < rows; row++ {
		var line strings.Builder
		line.WriteString(strings.Repeat(" ", padLeft))
		for col := 0; col < cols; col++ {
			x := b.Min.X + col
			y := b.Min.Y + row*2
			top := fitted.At(x, y)
			bottom := top
			if y+1 < b.Max.Y {
				bottom = fitted.At(x, y+1)
			}
			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(hexColor(top, dim))).
				Background(lipgloss.Color(hexColor(bottom, dim)))
			line.WriteString(style.Render(halfBlock))
		}
		line.WriteString(strings.Repeat(" ", max(width-cols-padLeft, 0)))
		lines = append(lines, line.String())
	}
	for len(lines) < height {
		lines = append(lines, blankLine)
	}
	return strings.Join(lines, "\n")
}

// fitCells scales img up or down to the largest size that fits w x h.
func fitCells(img image.Image, w, h int) *image.NRGBA {
	src := img.Bounds()
	if src.Dx() == 0 || src.Dy() == 0 {
		return imaging.New(1, 1, color.Black)
	}
	scale := min(float64(w)/float64(src.Dx()), float64(h)/float64(src.Dy()))
	tw := max(int(float64(src.Dx())*scale), 1)
	th := max(int(float64(src.Dy())*scale), 1)
	return imaging.Resize(img, tw, th, imaging.Box)
}

func hexColor(c color.Color, dim bool) string {
	// RGBA is alpha-premultiplied, which composites over black.
	r, g, b, _ := c.RGBA()
	r8, g8, b8 := uint8(r>>8), uint8(g>>8), uint8(b>>8)
	if dim {
		r8, g8, b8 = r8/2, g8/2, b8/2
	}
	return fmt.Sprintf("#%02x%02x%02x", r8, g8, b8)
}

var builtinPlaceholder = sync.OnceValue(func() image.Image {
	const w, h = 64, 48
	bg := color.NRGBA{R: 0x3a, G: 0x3f, B: 0x4b, A: 0xff}
	fg := color.NRGBA{R: 0x6b, G: 0x72, B: 0x80, A: 0xff}
	img := imaging.New(w, h, bg)
	// Frame plus a diagonal cross, the usual "no image" mark.
	for x := 0; x < w; x++ {
		img.SetNRGBA(x, 0, fg)
		img.SetNRGBA(x, h-1, fg)
		y := x * (h - 1) / (w - 1)
		img.SetNRGBA(x, y, fg)
		img.SetNRGBA(x, h-1-y, fg)
	}
	for y := 0; y < h; y++ {
		img.SetNRGBA(0, y, fg)
		img.SetNRGBA(w-1, y, fg)
	}
	return img
})

// Placeholder returns the built-in graphic shown when an image fails.
func Placeholder() image.Image {
	return builtinPlaceholder()
}

// LoadPlaceholder decodes a custom placeholder from path. An empty path
// returns the built-in graphic.
func LoadPlaceholder(path string) (image.Image, error) {
	if strings.TrimSpace(path) == "" {
		return Placeholder(), nil
	}
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("open placeholder image: %w", err)
	}
	return imaging.Fit(img, defaultMaxDimension, defaultMaxDimension, imaging.Lanczos), nil
}
