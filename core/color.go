package core

import (
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is a named game color: one of the sort colors or a shade-suffixed palette entry ("red4", "gray5")
type Color string

// Sort colors, in catalog order; a level with k colors uses the first k
const (
	Red    Color = "red"
	Blue   Color = "blue"
	Green  Color = "green"
	Yellow Color = "yellow"
	Purple Color = "purple"
	Orange Color = "orange"
	Pink   Color = "pink"
	Cyan   Color = "cyan"
)

// SortColors lists the eight sort colors in catalog order
var SortColors = [...]Color{Red, Blue, Green, Yellow, Purple, Orange, Pink, Cyan}

// DefaultShade applies to palette names without a numeric suffix
const DefaultShade = 3

var palette = map[Color]string{
	// Sort colors
	Red:    "#EF4444",
	Blue:   "#3B82F6",
	Green:  "#22C55E",
	Yellow: "#EAB308",
	Purple: "#A855F7",
	Orange: "#F97316",
	Pink:   "#EC4899",
	Cyan:   "#06B6D4",

	// Pixel art palette
	"red1": "#CC0000", "red2": "#E62222", "red3": "#FF3333",
	"red4": "#FF4D4D", "red5": "#FF6666", "red6": "#FF8080",
	"orange1": "#E65C00", "orange2": "#FF6B00", "orange3": "#FF8533",
	"orange4": "#FF9F4D", "orange5": "#FFB366",
	"yellow1": "#E6B800", "yellow2": "#FFCC00", "yellow3": "#FFD633",
	"yellow4": "#FFE066", "yellow5": "#FFEB80",
	"green1": "#00B359", "green2": "#00CC66", "green3": "#00E673",
	"green4": "#33FF99", "green5": "#66FFAD",
	"blue1": "#0066CC", "blue2": "#0080FF", "blue3": "#3399FF",
	"blue4": "#66B2FF", "blue5": "#99CCFF",
	"purple1": "#7700CC", "purple2": "#9933FF", "purple3": "#AA55FF",
	"purple4": "#BB77FF", "purple5": "#CC99FF",
	"pink1": "#E6007A", "pink2": "#FF1493", "pink3": "#FF4DA6",
	"pink4": "#FF66B2", "pink5": "#FF99CC",
	"brown1": "#8B4513", "brown2": "#A0522D", "brown3": "#B8733D",
	"brown4": "#CC8844", "brown5": "#DDA066", "brown6": "#EEBB88",
	"skin1": "#D2691E", "skin2": "#E07830", "skin3": "#EB9950",
	"skin4": "#F5B070", "skin5": "#FFC890",
	"black": "#1A1A1A",
	"gray1": "#333333", "gray2": "#555555", "gray3": "#777777",
	"gray4": "#999999", "gray5": "#BBBBBB", "gray6": "#DDDDDD", "gray7": "#EEEEEE",
	"white": "#FFFFFF",
}

// Valid reports whether the color has a palette entry
func (c Color) Valid() bool {
	_, ok := palette[c]
	return ok
}

// Hex returns the palette hex string, empty for unknown colors
func (c Color) Hex() string {
	return palette[c]
}

// Value returns the display color, mid gray for unknown names
func (c Color) Value() colorful.Color {
	if hex, ok := palette[c]; ok {
		if v, err := colorful.Hex(hex); err == nil {
			return v
		}
	}
	return colorful.Color{R: 0.5, G: 0.5, B: 0.5}
}

// Dim blends the display color toward black by amount in [0,1]
func (c Color) Dim(amount float64) colorful.Color {
	return c.Value().BlendRgb(colorful.Color{}, amount).Clamped()
}

// Family strips the shade suffix: "blue4" -> "blue"
func (c Color) Family() string {
	s := string(c)
	i := strings.IndexFunc(s, func(r rune) bool { return r >= '0' && r <= '9' })
	if i < 0 {
		return s
	}
	return s[:i]
}

// Shade returns the numeric suffix, DefaultShade when absent
func (c Color) Shade() int {
	s := string(c)
	fam := c.Family()
	if len(fam) == len(s) {
		return DefaultShade
	}
	n, err := strconv.Atoi(s[len(fam):])
	if err != nil {
		return DefaultShade
	}
	return n
}

// SortIndex returns the catalog position of a sort color, -1 for others
func (c Color) SortIndex() int {
	for i, sc := range SortColors {
		if sc == c {
			return i
		}
	}
	return -1
}

func (c Color) String() string {
	return string(c)
}
