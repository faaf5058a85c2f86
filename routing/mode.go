// Package routing defines the travel modes and search profiles used to
// configure a route computation, together with their canonical names.
package routing

import (
	"fmt"
	"math"
)

// Mode is an atomic transportation modality
type Mode uint8

const (
	ModeFoot Mode = iota
	ModeWheelchair
	ModeBike
	ModeFlex
	ModeCar
)

// modeInvalid is returned for profiles outside the declared set
const modeInvalid Mode = math.MaxUint8

// Modes returns every mode in declaration order
func Modes() []Mode {
	return []Mode{ModeFoot, ModeWheelchair, ModeBike, ModeFlex, ModeCar}
}

// String returns the canonical name of the mode
func (m Mode) String() string {
	switch m {
	case ModeFoot:
		return "foot"
	case ModeWheelchair:
		return "wheelchair"
	case ModeBike:
		return "bike"
	case ModeFlex:
		return "flex"
	case ModeCar:
		return "car"
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// IsValid checks if the mode is one of the declared modes
func (m Mode) IsValid() bool {
	return m <= ModeCar
}

// ParseMode converts a canonical name back to a Mode. Matching is exact and
// case sensitive.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes() {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, &ErrUnrecognizedModeName{Name: s}
}

// MarshalText implements encoding.TextMarshaler
func (m Mode) MarshalText() ([]byte, error) {
	if !m.IsValid() {
		return nil, fmt.Errorf("cannot marshal %s", m)
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
