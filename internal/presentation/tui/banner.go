package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the lcm banner to w. Colors are applied only when color is set.
func PrintBanner(w io.Writer, version string, color bool) {
	p := termenv.Ascii
	if color {
		p = termenv.ColorProfile()
	}
	lines := []struct {
		text string
		hex  string
	}{
		{" _", "#38bdf8"},
		{"| |   ___ _ __ ___", "#60a5fa"},
		{"| |  / __| '_ ` _ \\", "#818cf8"},
		{"| | | (__| | | | | |", "#a78bfa"},
		{"|_|  \\___|_| |_| |_|", "#c084fc"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.hex)))
	}
	fmt.Fprintln(w, p.String("  lifecycle management "+version).Foreground(p.Color("#94a3b8")).Faint())
	fmt.Fprintln(w)
}
