// Package gate decides whether the current input may be submitted.
package gate

import (
	"fmt"
	"unicode/utf8"
)

type Style int

const (
	StyleDisabled Style = iota
	StyleEnabled
)

func (s Style) String() string {
	if s == StyleEnabled {
		return "enabled"
	}
	return "disabled"
}

// Range accepts lengths in [Min, Max).
type Range struct {
	Min int
	Max int
}

type State struct {
	Length  int
	Enabled bool
	Style   Style
}

func NewRange(min, max int) (Range, error) {
	r := Range{Min: min, Max: max}
	return r, r.Validate()
}

func (r Range) Validate() error {
	if r.Min < 0 {
		return fmt.Errorf("gate: min length %d is negative", r.Min)
	}
	if r.Max <= r.Min {
		return fmt.Errorf("gate: max length %d must exceed min length %d", r.Max, r.Min)
	}
	return nil
}

func (r Range) Allows(length int) bool {
	return length >= r.Min && length < r.Max
}

// Evaluate measures text in runes so multi-byte characters count once.
func (r Range) Evaluate(text string) State {
	n := utf8.RuneCountInString(text)
	if r.Allows(n) {
		return State{Length: n, Enabled: true, Style: StyleEnabled}
	}
	return State{Length: n, Enabled: false, Style: StyleDisabled}
}

func (r Range) String() string {
	return fmt.Sprintf("[%d, %d)", r.Min, r.Max)
}
