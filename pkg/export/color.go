package export

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
)

var named = map[string]string{
	"BLACK":     "#000000",
	"WHITE":     "#ffffff",
	"RED":       "#ff0000",
	"GREEN":     "#00ff00",
	"BLUE":      "#0000ff",
	"CYAN":      "#00ffff",
	"MAGENTA":   "#ff00ff",
	"YELLOW":    "#ffff00",
	"ORANGE":    "#ffa500",
	"BROWN":     "#a52a2a",
	"GOLD":      "#ffd700",
	"GOLDENROD": "#daa520",
	"DARKGREEN": "#006400",
	"SKYBLUE":   "#87ceeb",
	"SILVER":    "#c0c0c0",
	"GRAY":      "#808080",
	"GREY":      "#808080",
}

// Hex maps a color label to "#rrggbb". It understands hex codes, common
// names, and GRAYnn / GREYnn for nn percent gray. Any other label gets a
// stable color derived from its name.
func Hex(label string) string {
	l := strings.ToUpper(strings.TrimSpace(label))
	if strings.HasPrefix(l, "#") && len(l) == 7 {
		return strings.ToLower(l)
	}
	if h, ok := named[l]; ok {
		return h
	}
	for _, p := range []string{"GRAY", "GREY"} {
		if pct, err := strconv.Atoi(strings.TrimPrefix(l, p)); err == nil && strings.HasPrefix(l, p) && pct >= 0 && pct <= 100 {
			v := (pct*255 + 50) / 100
			return fmt.Sprintf("#%02x%02x%02x", v, v, v)
		}
	}
	if l == "" {
		return named["GRAY"]
	}
	h := fnv.New32a()
	h.Write([]byte(l))
	sum := h.Sum32()
	return fmt.Sprintf("#%02x%02x%02x", 64+byte(sum)%160, 64+byte(sum>>8)%160, 64+byte(sum>>16)%160)
}
