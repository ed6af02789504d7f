package domain

// DefaultColorTag is the theme color assigned when none is chosen.
const DefaultColorTag = "bright-blue"

// ColorPalette lists the theme colors a profile may carry.
var ColorPalette = []string{
	"bright-blue",
	"hot-pink",
	"emerald-green",
	"royal-purple",
	"sunset-orange",
}

// legacyColorTags maps pre-rename short color names onto the current palette.
var legacyColorTags = map[string]string{
	"blue":   "bright-blue",
	"pink":   "hot-pink",
	"green":  "emerald-green",
	"purple": "royal-purple",
	"orange": "sunset-orange",
}

// CanonicalColorTag resolves a stored color tag: empty tags default,
// legacy short names are remapped, unknown tags fall back to the default.
func CanonicalColorTag(tag string) string {
	if tag == "" {
		return DefaultColorTag
	}
	if mapped, ok := legacyColorTags[tag]; ok {
		return mapped
	}
	for _, c := range ColorPalette {
		if c == tag {
			return tag
		}
	}
	return DefaultColorTag
}
