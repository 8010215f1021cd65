package palette

import (
	"slices"
	"strings"

	"github.com/coloredin/coloredin-server/internal/color"
)

const (
	prefixProbability = 0.7
	suffixProbability = 0.8
	extraTagChance    = 0.5
	maxTags           = 4
)

var (
	namePrefixes = []string{
		"Soft", "Deep", "Bright", "Muted", "Golden", "Misty", "Electric", "Dusty",
		"Velvet", "Wild", "Quiet", "Vivid", "Faded", "Frosted", "Midnight",
		"Morning", "Urban", "Cosmic", "Gentle", "Silent", "Warm", "Cool",
	}
	nameMiddles = []string{
		"Coral", "Ocean", "Forest", "Sunset", "Ember", "Lagoon", "Meadow", "Berry",
		"Canyon", "Harbor", "Orchid", "Sage", "Citrus", "Glacier", "Dune", "Plum",
		"Amber", "Willow", "Slate", "Lotus", "Cedar", "Aurora", "Saffron", "Indigo",
		"Peach", "Moss", "Lavender", "Copper", "Mint", "Rose",
	}
	nameSuffixes = []string{
		"Bliss", "Dream", "Glow", "Haze", "Breeze", "Whisper", "Echo", "Fade",
		"Mist", "Wave", "Bloom", "Drift", "Spark", "Tide", "Dusk", "Dawn",
		"Garden", "Nights", "Fields", "Story",
	}

	extraTags = []string{
		"vibrant", "muted", "retro", "modern", "elegant", "playful",
		"calm", "bold", "minimal", "vintage", "earthy", "dreamy",
	}
)

// GenerateName composes "prefix middle suffix" from seed. The middle word is
// always present.
func GenerateName(seed int64) string {
	r := NewRandom(seed)
	parts := make([]string, 0, 3)

	if r.Next() < prefixProbability {
		parts = append(parts, Pick(r, namePrefixes))
	}
	parts = append(parts, Pick(r, nameMiddles))
	if r.Next() < suffixProbability {
		parts = append(parts, Pick(r, nameSuffixes))
	}

	return strings.Join(parts, " ")
}

// GenerateTags derives up to 4 lowercase tags from the average hue and
// perceptual lightness of colors, plus an optional extra tag drawn from seed.
//
// The hue average is a plain arithmetic mean of angles, so 350 and 10 average
// to 180. Tag choice depends on that behaviour.
func GenerateTags(colors []string, seed int64) []string {
	if len(colors) == 0 {
		return []string{"balanced"}
	}

	var hueSum, lumaSum float64
	for _, c := range colors {
		hueSum += color.Hue(c)
		lumaSum += color.Luma(c)
	}
	n := float64(len(colors))

	tags := make([]string, 0, 5)
	tags = append(tags, hueTags(hueSum/n)...)
	tags = append(tags, lightnessTags(lumaSum/n)...)

	r := NewRandom(seed)
	if r.Next() < extraTagChance {
		tags = append(tags, Pick(r, extraTags))
	}

	return normalizeTags(tags)
}

func hueTags(h float64) []string {
	switch {
	case h < 15 || h >= 345:
		return []string{"red", "bold"}
	case h < 45:
		return []string{"orange", "warm"}
	case h < 70:
		return []string{"yellow", "sunny"}
	case h < 160:
		return []string{"green", "natural"}
	case h < 200:
		return []string{"cyan", "fresh"}
	case h < 260:
		return []string{"blue", "cool"}
	default:
		return []string{"purple", "pink"}
	}
}

// HueFamily names the hue bucket h falls in: red, orange, yellow, green,
// cyan, blue or purple.
func HueFamily(h float64) string {
	return hueTags(h)[0]
}

func lightnessTags(l float64) []string {
	switch {
	case l < 0.35:
		return []string{"dark", "deep"}
	case l > 0.7:
		return []string{"light", "pastel"}
	default:
		return []string{"balanced"}
	}
}

// normalizeTags lowercases, drops duplicates and keeps the first maxTags.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, maxTags)
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || slices.Contains(out, t) {
			continue
		}
		out = append(out, t)
		if len(out) == maxTags {
			break
		}
	}
	return out
}
