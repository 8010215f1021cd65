package palette

import (
	"math"

	"github.com/coloredin/coloredin-server/internal/color"
)

// ColorsPerPalette is the fixed length of every generated palette.
const ColorsPerPalette = 5

// Scheme names a color harmony heuristic.
type Scheme string

// Available schemes.
const (
	SchemeGradient           Scheme = "gradient"
	SchemeAnalogous          Scheme = "analogous"
	SchemeMonochromatic      Scheme = "monochromatic"
	SchemeWarmGradient       Scheme = "warm-gradient"
	SchemeCoolGradient       Scheme = "cool-gradient"
	SchemeEarthTones         Scheme = "earth-tones"
	SchemePastelRainbow      Scheme = "pastel-rainbow"
	SchemeSunset             Scheme = "sunset"
	SchemeOcean              Scheme = "ocean"
	SchemeForest             Scheme = "forest"
	SchemeBerry              Scheme = "berry"
	SchemeSplitComplementary Scheme = "split-complementary"

	// SchemeFallback is never drawn by ChooseScheme except through floating
	// point edge cases; it also serves unknown scheme names.
	SchemeFallback Scheme = "fallback"
)

// SchemeWeight is one entry of the weighted selection table.
type SchemeWeight struct {
	Scheme Scheme
	Weight int
}

// SchemeWeights is the ordered selection table. Order matters: ChooseScheme
// walks it front to back.
var SchemeWeights = []SchemeWeight{
	{SchemeGradient, 3},
	{SchemeAnalogous, 2},
	{SchemeMonochromatic, 2},
	{SchemeWarmGradient, 2},
	{SchemeCoolGradient, 2},
	{SchemeEarthTones, 1},
	{SchemePastelRainbow, 1},
	{SchemeSunset, 2},
	{SchemeOcean, 1},
	{SchemeForest, 1},
	{SchemeBerry, 1},
	{SchemeSplitComplementary, 1},
}

// TotalSchemeWeight sums SchemeWeights.
func TotalSchemeWeight() int {
	total := 0
	for _, w := range SchemeWeights {
		total += w.Weight
	}
	return total
}

// ChooseScheme draws one scheme from SchemeWeights.
func ChooseScheme(r *Random) Scheme {
	x := r.Next() * float64(TotalSchemeWeight())
	for _, w := range SchemeWeights {
		if x < float64(w.Weight) {
			return w.Scheme
		}
		x -= float64(w.Weight)
	}
	return SchemeFallback
}

// Hue anchors for the anchored schemes.
var (
	earthAnchors  = []float64{25, 35, 45, 80, 15}
	sunsetAnchors = []float64{350, 15, 35, 50, 280}
	oceanAnchors  = []float64{180, 195, 210, 225, 240}
	forestAnchors = []float64{90, 110, 130, 150, 70}
	berryAnchors  = []float64{320, 340, 300, 350, 280}

	splitOffsets = []float64{0, 30, 150, 180, 210}
)

// GenerateColors returns the 5 colors derived from seed.
func GenerateColors(seed int64) []string {
	_, colors := generateColors(seed)
	return colors
}

func generateColors(seed int64) (Scheme, []string) {
	r := NewRandom(seed)
	scheme := ChooseScheme(r)
	return scheme, GenerateSchemeColors(scheme, r)
}

// GenerateSchemeColors runs one scheme heuristic with r. Saturation and
// lightness are clamped into per-scheme bounds before conversion.
func GenerateSchemeColors(scheme Scheme, r *Random) []string {
	colors := make([]string, ColorsPerPalette)

	switch scheme {
	case SchemeGradient:
		base := r.Next() * 360
		arc := r.Between(60, 180)
		sat := r.Between(55, 85)
		for i := range colors {
			h := base + arc*float64(i)/4
			s := clamp(sat+r.Jitter(10), 30, 90)
			l := clamp(25+12*float64(i)+r.Next()*8, 20, 85)
			colors[i] = color.HSLToHex(h, s, l)
		}

	case SchemeAnalogous:
		base := r.Next() * 360
		for i := range colors {
			h := base + float64(i-2)*15
			s := clamp(r.Between(50, 85), 25, 90)
			l := clamp(30+10*float64(i)+r.Next()*10, 20, 85)
			colors[i] = color.HSLToHex(h, s, l)
		}

	case SchemeMonochromatic:
		h := r.Next() * 360
		for i := range colors {
			s := clamp(r.Between(40, 80), 20, 90)
			l := 20 + 15*float64(i)
			colors[i] = color.HSLToHex(h, s, l)
		}

	case SchemeWarmGradient:
		start := r.Next() * 40
		end := math.Min(start+r.Between(40, 60), 100)
		for i := range colors {
			h := start + (end-start)*float64(i)/4
			s := clamp(r.Between(65, 90), 40, 95)
			l := clamp(35+10*float64(i)+r.Next()*5, 25, 85)
			colors[i] = color.HSLToHex(h, s, l)
		}

	case SchemeCoolGradient:
		start := 180 + r.Next()*40
		end := math.Min(start+r.Between(30, 50), 260)
		for i := range colors {
			h := start + (end-start)*float64(i)/4
			s := clamp(r.Between(45, 80), 35, 90)
			l := clamp(30+11*float64(i)+r.Next()*5, 25, 85)
			colors[i] = color.HSLToHex(h, s, l)
		}

	case SchemeEarthTones:
		anchored(colors, r, earthAnchors, bounds{25, 55, 20, 60}, bounds{25, 65, 20, 70})

	case SchemeSunset:
		anchors := append([]float64(nil), sunsetAnchors...)
		Shuffle(r, anchors)
		anchored(colors, r, anchors, bounds{70, 95, 60, 95}, bounds{45, 65, 35, 70})

	case SchemeOcean:
		anchored(colors, r, oceanAnchors, bounds{50, 85, 40, 90}, bounds{25, 75, 20, 80})

	case SchemeForest:
		anchored(colors, r, forestAnchors, bounds{30, 65, 25, 70}, bounds{20, 55, 15, 60})

	case SchemeBerry:
		anchored(colors, r, berryAnchors, bounds{50, 85, 40, 90}, bounds{30, 60, 25, 65})

	case SchemePastelRainbow:
		base := r.Next() * 360
		for i := range colors {
			h := base + 50*float64(i)
			s := clamp(r.Between(60, 85), 50, 85)
			l := r.Between(75, 90)
			colors[i] = color.HSLToHex(h, s, l)
		}

	case SchemeSplitComplementary:
		base := r.Next() * 360
		for i := range colors {
			h := base + splitOffsets[i] + r.Jitter(10)
			s := clamp(r.Between(55, 85), 40, 90)
			l := clamp(r.Between(40, 65), 30, 75)
			colors[i] = color.HSLToHex(h, s, l)
		}

	default:
		h := r.Next() * 360
		for i := range colors {
			colors[i] = color.HSLToHex(h, 60, 20+14*float64(i))
		}
	}

	return colors
}

// bounds is a draw range [lo,hi) followed by a clamp range [min,max].
type bounds struct {
	lo, hi   float64
	min, max float64
}

func anchored(colors []string, r *Random, anchors []float64, sat, light bounds) {
	for i := range colors {
		h := anchors[i] + r.Jitter(10)
		s := clamp(r.Between(sat.lo, sat.hi), sat.min, sat.max)
		l := clamp(r.Between(light.lo, light.hi), light.min, light.max)
		colors[i] = color.HSLToHex(h, s, l)
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
