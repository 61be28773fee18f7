package urlregex

import (
	"fmt"
	"strings"
)

// Mode selects how a pattern is anchored and compiled.
type Mode int

const (
	// Validation anchors the pattern to the whole input.
	Validation Mode = iota
	// Parsing leaves the pattern unanchored to find URLs inside text.
	Parsing
	// JavaScript is a compact, single-line anchored variant for engines
	// without free-spacing syntax. It has no IPv6 support and no case folding.
	JavaScript
)

var modeNames = map[Mode]string{
	Validation: "validation",
	Parsing:    "parsing",
	JavaScript: "javascript",
}

func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

func (m Mode) valid() bool {
	_, ok := modeNames[m]
	return ok
}

// Modes returns every supported mode in declaration order.
func Modes() []Mode {
	return []Mode{Validation, Parsing, JavaScript}
}

// ParseMode returns the Mode with the given name. Names are matched
// case-insensitively.
func ParseMode(name string) (Mode, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for m, n := range modeNames {
		if n == normalized {
			return m, nil
		}
	}
	return 0, &InvalidModeError{Value: name}
}

// MarshalText encodes the mode by name.
func (m Mode) MarshalText() ([]byte, error) {
	if !m.valid() {
		return nil, &InvalidModeError{Value: m.String()}
	}
	return []byte(m.String()), nil
}

// UnmarshalText accepts the names ParseMode accepts.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
