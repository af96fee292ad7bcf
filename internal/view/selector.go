package view

import (
	"errors"
	"fmt"
)

// ErrUnknownOption is returned when a value that is not one of the
// selector's options is picked.
var ErrUnknownOption = errors.New("unknown option")

// Option is a single dropdown entry.
type Option struct {
	Value string
	Label string
}

// Selector models the single-choice category dropdown.
type Selector struct {
	options   []Option
	value     string
	listeners []func(string)
}

func NewSelector() *Selector {
	return &Selector{}
}

func (s *Selector) AppendOption(value, label string) {
	s.options = append(s.options, Option{Value: value, Label: label})
}

func (s *Selector) Options() []Option {
	out := make([]Option, len(s.options))
	copy(out, s.options)
	return out
}

// Value is the option currently shown. With nothing set explicitly that is
// the first option, like a browser select element.
func (s *Selector) Value() string {
	if s.value == "" && len(s.options) > 0 {
		return s.options[0].Value
	}
	return s.value
}

// SetValue changes the shown option without notifying listeners.
func (s *Selector) SetValue(value string) bool {
	if !s.has(value) {
		return false
	}
	s.value = value
	return true
}

// OnChange registers fn to run whenever the user picks a different option.
func (s *Selector) OnChange(fn func(string)) {
	if fn == nil {
		return
	}
	s.listeners = append(s.listeners, fn)
}

// Select is a user pick. Listeners run only when the shown value changes.
func (s *Selector) Select(value string) error {
	if !s.has(value) {
		return fmt.Errorf("select %q: %w", value, ErrUnknownOption)
	}
	if value == s.Value() {
		return nil
	}
	s.value = value
	for _, fn := range s.listeners {
		fn(value)
	}
	return nil
}

func (s *Selector) has(value string) bool {
	for _, opt := range s.options {
		if opt.Value == value {
			return true
		}
	}
	return false
}
