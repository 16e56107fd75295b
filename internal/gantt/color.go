package gantt

import (
	"fmt"
	"strconv"
	"strings"
)

// Progress bucket colors, matching the bootstrap palette used by the
// activity templates.
const (
	ColorCompleted  = "#5cb85c" // green
	ColorAlmostDone = "#5bc0de" // blue
	ColorInProgress = "#f0ad4e" // orange
	ColorNotStarted = "#d9534f" // red
)

// TaskColor maps a progress percentage to its display color.
func TaskColor(progress int) string {
	switch {
	case progress == 100:
		return ColorCompleted
	case progress >= 70:
		return ColorAlmostDone
	case progress >= 30:
		return ColorInProgress
	default:
		return ColorNotStarted
	}
}

// Lighten adds amount to each RGB channel, clamping to [0,255]. Malformed
// colors fall back to a light neutral.
func Lighten(color string, amount int) string {
	r, g, b, ok := parseHexColor(color)
	if !ok {
		return "#f8f8f8"
	}
	return formatHexColor(clampChannel(r+amount), clampChannel(g+amount), clampChannel(b+amount))
}

// Darken subtracts amount from each RGB channel, clamping to [0,255].
// Malformed colors fall back to a neutral border gray.
func Darken(color string, amount int) string {
	r, g, b, ok := parseHexColor(color)
	if !ok {
		return "#ddd"
	}
	return formatHexColor(clampChannel(r-amount), clampChannel(g-amount), clampChannel(b-amount))
}

func parseHexColor(color string) (r, g, b int, ok bool) {
	if !strings.HasPrefix(color, "#") || len(color) != 7 {
		return 0, 0, 0, false
	}
	num, err := strconv.ParseInt(color[1:], 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return int(num >> 16), int((num >> 8) & 0xff), int(num & 0xff), true
}

func formatHexColor(r, g, b int) string {
	return fmt.Sprintf("#%06x", r<<16|g<<8|b)
}

func clampChannel(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
