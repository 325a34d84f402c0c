package tui

import (
	"hash/fnv"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

var palette = []string{"#818cf8", "#34d399", "#f472b6", "#fbbf24", "#60a5fa", "#fb7185"}

// SpeakerStyler colors speaker names. A name always gets the same color.
func SpeakerStyler(p termenv.Profile) func(string) string {
	return func(name string) string {
		h := fnv.New32a()
		h.Write([]byte(name))
		color := palette[h.Sum32()%uint32(len(palette))]
		return p.String(name).Foreground(p.Color(color)).Bold().String()
	}
}

// IsInteractive reports whether f is a terminal.
func IsInteractive(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
