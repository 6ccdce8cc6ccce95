package tui

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the styled startup banner with the running version.
func PrintBanner(version string) {
	p := termenv.ColorProfile()
	// Subtle gradient-like color scheme (Indigo/Violet)
	lines := []string{
		` ___    _    _____   ___  _  _  ___    _   __   __`,
		`| _ \  /_\  |_   _| / __|| || || _ )  /_\  \ \ / /`,
		`|  _/ / _ \   | |  | (__ | __ || _ \ / _ \  \ V / `,
		`|_|  /_/ \_\  |_|   \___||_||_||___//_/ \_\  |_|  `,
	}
	colors := []string{"#818cf8", "#a78bfa", "#c084fc", "#e879f9"}

	fmt.Println()
	for i, line := range lines {
		fmt.Println(termenv.String(line).Foreground(p.Color(colors[i])))
	}
	fmt.Println(termenv.String("  " + strings.TrimSpace(version)).Foreground(p.Color("#f472b6")).Italic())
	fmt.Println()
}
