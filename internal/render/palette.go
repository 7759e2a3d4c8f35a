package render

import "github.com/fatih/color"

type palette struct {
	added   *color.Color
	removed *color.Color
	header  *color.Color
	file    *color.Color
	faint   *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		added:   color.New(color.FgGreen),
		removed: color.New(color.FgRed),
		header:  color.New(color.FgCyan),
		file:    color.New(color.Bold),
		faint:   color.New(color.Faint),
	}
	if !enabled {
		for _, c := range []*color.Color{p.added, p.removed, p.header, p.file, p.faint} {
			c.DisableColor()
		}
	}
	return p
}
