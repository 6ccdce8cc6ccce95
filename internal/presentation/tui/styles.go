package tui

import (
	"github.com/muesli/termenv"
)

// Styles carries the output decorations the CLI applies. It resolves the
// terminal's color profile once, so piped output degrades to plain text.
type Styles struct {
	profile termenv.Profile
}

// NewStyles detects the terminal's capabilities.
func NewStyles() *Styles {
	return &Styles{profile: termenv.ColorProfile()}
}

// Heading decorates a section header.
func (s *Styles) Heading(text string) string {
	return termenv.String(text).Foreground(s.profile.Color("#a78bfa")).Bold().String()
}

// Success decorates a positive result line.
func (s *Styles) Success(text string) string {
	return termenv.String(text).Foreground(s.profile.Color("2")).String()
}

// Failure decorates a negative result line.
func (s *Styles) Failure(text string) string {
	return termenv.String(text).Foreground(s.profile.Color("1")).String()
}

// Dim decorates supporting detail.
func (s *Styles) Dim(text string) string {
	return termenv.String(text).Faint().String()
}
