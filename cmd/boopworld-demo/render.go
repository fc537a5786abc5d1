package main

import (
	"fmt"
	"io"

	"github.com/boopworld/boopworld/entity"
	"github.com/boopworld/boopworld/event"
	"github.com/boopworld/boopworld/viewmemory"
)

// renderView prints vr as a fixed character grid centered on its own
// center cell, padding double-width glyphs so the grid stays aligned.
func renderView(w io.Writer, vr event.ViewportReader) {
	if vr == nil {
		fmt.Fprintln(w, "(nothing seen yet)")
		return
	}
	center := vr.Center()
	radius := vr.Radius()
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			p := entity.Point{X: center.X + int16(dx), Y: center.Y + int16(dy)}
			glyph, _, ok := vr.At(p)
			if !ok || glyph == 0 {
				fmt.Fprint(w, " ")
				continue
			}
			fmt.Fprint(w, string(glyph))
			if viewmemory.CellWidth(glyph) == 2 {
				fmt.Fprint(w, " ")
			}
		}
		fmt.Fprintln(w)
	}
}
