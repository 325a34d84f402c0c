package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner for Parley.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{`  ____            _            `, "#818cf8"},
		{` |  _ \ __ _ _ __| | ___ _   _ `, "#a78bfa"},
		{` | |_) / _' | '__| |/ _ \ | | |`, "#c084fc"},
		{` |  __/ (_| | |  | |  __/ |_| |`, "#e879f9"},
		{` |_|   \__,_|_|  |_|\___|\__, |`, "#f472b6"},
		{`                         |___/ `, "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
