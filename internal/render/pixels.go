package render

import "mad-puzzle/internal/core"

// FillRGBA converts slots into RGBA pixels in buf, one pixel per cell. buf
// must hold at least 4*len(cells) bytes.
func FillRGBA(buf []byte, cells []core.Slot, p Palette) {
	for i, s := range cells {
		col := Background
		if !s.IsEmpty() {
			col = p.Color(s.TypeID, s.Level)
		}
		base := i * 4
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}
