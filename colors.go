package canvasbackend

import (
	"fmt"
	"image/color"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// BaseColor names one of the 8 base colors. Combined with an intensity
// (Dark or Light) it selects one of the 16 named palette entries.
type BaseColor uint8

const (
	Black BaseColor = iota
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
)

var baseColorNames = [...]string{"black", "red", "green", "yellow", "blue", "magenta", "cyan", "white"}

func (b BaseColor) String() string {
	if int(b) < len(baseColorNames) {
		return baseColorNames[b]
	}
	return fmt.Sprintf("BaseColor(%d)", uint8(b))
}

// ColorKind tags the variant held by a Color.
type ColorKind uint8

const (
	// ColorTerminalDefault is the zero value: the terminal's default color.
	ColorTerminalDefault ColorKind = iota
	ColorDark
	ColorLight
	ColorRGB
	ColorLowRes
)

// Color is the abstract color a UI framework hands to the backend.
// Use Dark, Light, RGB, LowRes or TerminalDefault to build one.
type Color struct {
	Kind    ColorKind
	Base    BaseColor
	R, G, B uint8
}

// TerminalDefault is the terminal-default sentinel color.
var TerminalDefault = Color{Kind: ColorTerminalDefault}

// Dark returns the muted intensity of a base color.
func Dark(b BaseColor) Color {
	return Color{Kind: ColorDark, Base: b}
}

// Light returns the bright intensity of a base color.
func Light(b BaseColor) Color {
	return Color{Kind: ColorLight, Base: b}
}

// RGB returns a direct 24-bit color.
func RGB(r, g, b uint8) Color {
	return Color{Kind: ColorRGB, R: r, G: g, B: b}
}

// LowRes returns a low-resolution color with 4-bit channels (0-15).
func LowRes(r, g, b uint8) Color {
	return Color{Kind: ColorLowRes, R: r, G: g, B: b}
}

// Pair is the foreground/background pair in the framework's color model.
type Pair struct {
	Front Color
	Back  Color
}

// PixelColor is a color in the render surface's native form: a "#rrggbb" or
// "#rgb" hex string. Only Translate produces PixelColor values.
type PixelColor string

// ColorPair is the translated foreground/background pair stored in cells and
// in the current color register.
type ColorPair struct {
	Front PixelColor `json:"front"`
	Back  PixelColor `json:"back"`
}

// DefaultPixelColor is what TerminalDefault translates to.
const DefaultPixelColor PixelColor = "#00ff00"

// darkPalette holds the muted tier of the 16 named colors.
var darkPalette = [8]PixelColor{
	"#000000", // Black
	"#800000", // Red
	"#008000", // Green
	"#808000", // Yellow
	"#000080", // Blue
	"#800080", // Magenta
	"#008080", // Cyan
	"#c0c0c0", // White
}

// lightPalette holds the bright tier of the 16 named colors.
var lightPalette = [8]PixelColor{
	"#808080", // Black
	"#ff0000", // Red
	"#00ff00", // Green
	"#ffff00", // Yellow
	"#0000ff", // Blue
	"#ff00ff", // Magenta
	"#00ffff", // Cyan
	"#ffffff", // White
}

// Translate converts an abstract color to its pixel form. It is total: every
// Color, including malformed ones, maps to some PixelColor.
func Translate(c Color) PixelColor {
	switch c.Kind {
	case ColorDark:
		return paletteEntry(&darkPalette, c.Base)
	case ColorLight:
		return paletteEntry(&lightPalette, c.Base)
	case ColorRGB:
		return PixelColor(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
	case ColorLowRes:
		return PixelColor(fmt.Sprintf("#%01x%01x%01x", nibble(c.R), nibble(c.G), nibble(c.B)))
	default:
		return DefaultPixelColor
	}
}

// TranslatePair converts both halves of a framework pair.
func TranslatePair(p Pair) ColorPair {
	return ColorPair{
		Front: Translate(p.Front),
		Back:  Translate(p.Back),
	}
}

func paletteEntry(palette *[8]PixelColor, b BaseColor) PixelColor {
	if int(b) < len(palette) {
		return palette[b]
	}
	return DefaultPixelColor
}

// nibble clamps a low-resolution channel to its 4-bit domain.
func nibble(v uint8) uint8 {
	if v > 0x0f {
		return 0x0f
	}
	return v
}

// RGB255 decodes the hex string into 8-bit channels. Short "#rgb" forms are
// scaled to the full range. Unparseable values decode as black.
func (p PixelColor) RGB255() (r, g, b uint8) {
	c, err := colorful.Hex(string(p))
	if err != nil {
		return 0, 0, 0
	}
	return c.RGB255()
}

// RGBA implements color.Color so a PixelColor can be drawn directly.
func (p PixelColor) RGBA() (r, g, b, a uint32) {
	return p.NRGBA().RGBA()
}

// NRGBA returns the opaque image/color value of p.
func (p PixelColor) NRGBA() color.NRGBA {
	r, g, b := p.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

var _ color.Color = PixelColor("")

// String returns the color in the form ParseColor accepts.
func (c Color) String() string {
	switch c.Kind {
	case ColorDark:
		return "dark:" + c.Base.String()
	case ColorLight:
		return "light:" + c.Base.String()
	case ColorRGB, ColorLowRes:
		return string(Translate(c))
	default:
		return "default"
	}
}

// ParseColor reads a color written as "default", "dark:<base>",
// "light:<base>", "#rrggbb" (RGB) or "#rgb" (LowRes).
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "default" {
		return TerminalDefault, nil
	}

	if tier, name, ok := strings.Cut(s, ":"); ok {
		base, found := baseColorByName(name)
		if !found {
			return Color{}, fmt.Errorf("%w: unknown base color %q", ErrColorSyntax, name)
		}
		switch tier {
		case "dark":
			return Dark(base), nil
		case "light":
			return Light(base), nil
		}
		return Color{}, fmt.Errorf("%w: unknown intensity %q", ErrColorSyntax, tier)
	}

	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %w", ErrColorSyntax, err)
	}
	r, g, b := c.RGB255()
	if len(s) == 4 {
		return LowRes(r/17, g/17, b/17), nil
	}
	return RGB(r, g, b), nil
}

func baseColorByName(name string) (BaseColor, bool) {
	for i, n := range baseColorNames {
		if n == name {
			return BaseColor(i), true
		}
	}
	return 0, false
}
