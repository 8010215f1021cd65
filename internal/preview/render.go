// Package preview draws palettes as PNG swatch strips and derives BlurHash
// placeholders from them.
package preview

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	imgcolor "image/color"
	"image/draw"
	"image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/coloredin/coloredin-server/internal/color"
)

// ContentType is the MIME type of encoded previews.
const ContentType = "image/png"

// Size limits for rendered previews.
const (
	DefaultWidth  = 500
	DefaultHeight = 120
	MinWidth      = 50
	MaxWidth      = 2000
	MinHeight     = 20
	MaxHeight     = 1000

	labelBand    = 20 // height of the caption band
	labelPadding = 6
)

// ErrNoColors is returned when there is nothing to draw.
var ErrNoColors = errors.New("palette has no colors")

// Options controls rendering.
type Options struct {
	Width  int
	Height int
	Label  string // drawn in a band along the bottom when non-empty
}

// normalized clamps the size into the allowed range, substituting defaults
// for zero values.
func (o Options) normalized() Options {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	o.Width = min(max(o.Width, MinWidth), MaxWidth)
	o.Height = min(max(o.Height, MinHeight), MaxHeight)
	return o
}

// Render draws colors as equal-width vertical stripes.
func Render(colors []string, opts Options) (*image.RGBA, error) {
	if len(colors) == 0 {
		return nil, ErrNoColors
	}
	opts = opts.normalized()

	fills := make([]imgcolor.RGBA, len(colors))
	var lumaSum float64
	for i, c := range colors {
		r, g, b, err := color.RGB(c)
		if err != nil {
			return nil, fmt.Errorf("color %d: %w", i, err)
		}
		fills[i] = imgcolor.RGBA{R: r, G: g, B: b, A: 0xff}
		lumaSum += color.Luma(c)
	}

	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	for i, fill := range fills {
		x0 := i * opts.Width / len(fills)
		x1 := (i + 1) * opts.Width / len(fills)
		draw.Draw(img, image.Rect(x0, 0, x1, opts.Height), image.NewUniform(fill), image.Point{}, draw.Src)
	}

	if opts.Label != "" && opts.Height > labelBand*2 {
		drawLabel(img, opts.Label, lumaSum/float64(len(fills)))
	}

	return img, nil
}

// drawLabel writes text over a translucent band, choosing the ink by the
// palette's mean luma.
func drawLabel(img *image.RGBA, text string, meanLuma float64) {
	b := img.Bounds()
	band := image.Rect(b.Min.X, b.Max.Y-labelBand, b.Max.X, b.Max.Y)

	ink, shade := image.Black, imgcolor.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xb0}
	if meanLuma < 0.5 {
		ink, shade = image.White, imgcolor.NRGBA{A: 0xb0}
	}
	draw.Draw(img, band, image.NewUniform(shade), image.Point{}, draw.Over)

	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  ink,
		Face: face,
	}

	// Truncate to the band width; basicfont is monospaced.
	maxRunes := (b.Dx() - 2*labelPadding) / face.Advance
	runes := []rune(text)
	if maxRunes > 1 && len(runes) > maxRunes {
		runes = append(runes[:maxRunes-1], '~')
	}

	baseline := band.Max.Y - (labelBand-face.Ascent)/2
	d.Dot = fixed.P(band.Min.X+labelPadding, baseline)
	d.DrawString(string(runes))
}

// EncodePNG renders colors and encodes the result as PNG.
func EncodePNG(colors []string, opts Options) ([]byte, error) {
	img, err := Render(colors, opts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
