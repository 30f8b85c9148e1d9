package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/lixenwraith/matrix-rain/charset"
	"github.com/lixenwraith/matrix-rain/config"
)

// sampleWidth is the cell budget for a character set preview
const sampleWidth = 32

func joinNames(names []string) string {
	return strings.Join(names, ", ")
}

// printList writes the available options
func printList(w io.Writer, table *charset.Table) error {
	var b strings.Builder

	b.WriteString("Available options:\n")
	fmt.Fprintf(&b, "\nColors: %s\n", joinNames(config.Themes()))

	b.WriteString("\nCharacter Sets:\n")
	names := table.Names()
	pad := 0
	for _, name := range names {
		pad = max(pad, len(name))
	}
	for _, name := range names {
		set, err := table.Lookup(name)
		if err != nil {
			return err
		}
		sample := runewidth.Truncate(string(set), sampleWidth, "…")
		fmt.Fprintf(&b, "  %-*s  %s\n", pad, name, sample)
	}

	fmt.Fprintf(&b, "\nSpeed: %.1f-%.1f (higher = faster)\n", config.MinSpeed, config.MaxSpeed)
	fmt.Fprintf(&b, "\nDensity: %.1f-%.1f (higher = more drops)\n", config.MinDensity, config.MaxDensity)
	b.WriteString("\nBackground Color: R,G,B (e.g., 255,255,255 for white, 0,0,0 for black), #hex, color name, or auto-detect\n")
	b.WriteString("\nColor Mode: auto, truecolor, 256\n")

	_, err := io.WriteString(w, b.String())
	return err
}
