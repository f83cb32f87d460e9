package iot

import (
	"fmt"
	"strconv"
	"strings"
)

// Window is the aggregation period of field data, in seconds.
type Window int

// Windows accepted by the data endpoint.
const (
	WindowRaw            Window = 0
	WindowMinute         Window = 60
	WindowFifteenMinutes Window = 900
	WindowHour           Window = 3600
)

//nolint:gochecknoglobals // Lookup table.
var windowNames = map[string]Window{
	"raw":    WindowRaw,
	"minute": WindowMinute,
	"15min":  WindowFifteenMinutes,
	"hour":   WindowHour,
}

// ParseWindow accepts a window name (raw, minute, 15min, hour) or its
// length in seconds.
func ParseWindow(s string) (Window, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if w, ok := windowNames[s]; ok {
		return w, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		if w := Window(n); w.valid() {
			return w, nil
		}
	}
	return 0, fmt.Errorf("%w %q (expected raw, minute, 15min, hour or 0, 60, 900, 3600)", ErrUnknownWindow, s)
}

func (w Window) valid() bool {
	switch w {
	case WindowRaw, WindowMinute, WindowFifteenMinutes, WindowHour:
		return true
	default:
		return false
	}
}

// Seconds returns the window length as sent to the API.
func (w Window) Seconds() int { return int(w) }
