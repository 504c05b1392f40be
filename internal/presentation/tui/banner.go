package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the ASCII banner followed by the version line.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"   ___         _           _     __  __         _    _", "#818cf8"},
		{"  / __|___ _ _| |_ ___ _ _| |_  |  \\/  |__ _ __| |_ (_)_ _  ___", "#a78bfa"},
		{" | (__/ _ \\ ' \\  _/ -_) ' \\  _| | |\\/| / _` / _| ' \\| | ' \\/ -_)", "#c084fc"},
		{"  \\___\\___/_||_\\__\\___|_||_\\__| |_|  |_\\__,_\\__|_||_|_|_||_\\___|", "#e879f9"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	if version != "" {
		fmt.Fprintln(w, termenv.String("  v"+version).Foreground(p.Color("#fb7185")))
	}
	fmt.Fprintln(w)
}
