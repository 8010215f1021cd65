package preview

import (
	"fmt"
	"image"

	"github.com/bbrks/go-blurhash"
	xdraw "golang.org/x/image/draw"
)

// blurHashSize is the target size for BlurHash computation. A small thumbnail
// gives nearly identical hashes in a fraction of the time.
const blurHashSize = 64

// BlurHash computes a 5x3 component BlurHash for colors. Five horizontal
// components resolve one stripe each.
func BlurHash(colors []string) (string, error) {
	img, err := Render(colors, Options{Width: DefaultWidth, Height: DefaultHeight})
	if err != nil {
		return "", err
	}

	hash, err := blurhash.Encode(5, 3, thumbnail(img))
	if err != nil {
		return "", fmt.Errorf("encode blurhash: %w", err)
	}
	return hash, nil
}

// thumbnail scales img so its longer side is blurHashSize.
func thumbnail(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= blurHashSize && h <= blurHashSize {
		return img
	}

	if w >= h {
		h = max(h*blurHashSize/w, 1)
		w = blurHashSize
	} else {
		w = max(w*blurHashSize/h, 1)
		h = blurHashSize
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}
