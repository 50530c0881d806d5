package models

import "strings"

// Window is a symbolic chart period selectable by the caller.
type Window string

const (
	Window24H Window = "24h"
	Window1W  Window = "1w"
	Window1M  Window = "1m"
	Window6M  Window = "6m"
	Window1Y  Window = "1y"
	Window3Y  Window = "3y"
	WindowMax Window = "max"
)

// DefaultWindow is applied whenever a caller supplies an unrecognized
// window value.
const DefaultWindow = Window24H

// Windows returns all supported windows in display order.
func Windows() []Window {
	return []Window{Window24H, Window1W, Window1M, Window6M, Window1Y, Window3Y, WindowMax}
}

// ParseWindow maps a raw window string onto a Window. Unrecognized values
// resolve to DefaultWindow rather than failing.
func ParseWindow(s string) Window {
	w := Window(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Windows() {
		if w == known {
			return w
		}
	}
	return DefaultWindow
}

// Range translates the window into the upstream {range, interval} pair.
// The 24h window samples at five-minute granularity; every other window
// uses the provider's native daily bars.
func (w Window) Range() (rng, interval string) {
	switch w {
	case Window24H:
		return "1d", "5m"
	case Window1W:
		return "7d", "1d"
	case Window1M:
		return "1mo", "1d"
	case Window6M:
		return "6mo", "1d"
	case Window1Y:
		return "1y", "1d"
	case Window3Y:
		return "3y", "1d"
	case WindowMax:
		return "max", "1d"
	default:
		return DefaultWindow.Range()
	}
}
