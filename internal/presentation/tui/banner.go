package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{"  ___ _____   _   _             ", "#34d399"},
	{" |_ _|_   _| | \\ | | __ ___   __", "#2dd4bf"},
	{"  | |  | |   |  \\| |/ _` \\ \\ / /", "#22d3ee"},
	{"  | |  | |   | |\\  | (_| |\\ V / ", "#38bdf8"},
	{" |___| |_|   |_| \\_|\\__,_| \\_/  ", "#60a5fa"},
}

// PrintBanner writes the ASCII art banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.EnvColorProfile()
	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}

// Highlight colors s for terminal output; plain when colors are disabled.
func Highlight(s, hex string) string {
	p := termenv.EnvColorProfile()
	return p.String(s).Foreground(p.Color(hex)).String()
}
