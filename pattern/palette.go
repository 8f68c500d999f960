package pattern

import "image/color"

// panelPalette is the fixed display palette. Colors are assigned by
// cluster index modulo the palette length, so a given segmentation always
// colors its panels the same way.
var panelPalette = []color.RGBA{
	{R: 0xE6, G: 0x4A, B: 0x4A, A: 0xFF}, // red
	{R: 0x4A, G: 0x90, B: 0xE6, A: 0xFF}, // blue
	{R: 0x50, G: 0xC8, B: 0x78, A: 0xFF}, // green
	{R: 0xF0, G: 0xB4, B: 0x3C, A: 0xFF}, // amber
	{R: 0x9B, G: 0x59, B: 0xD0, A: 0xFF}, // purple
	{R: 0x3C, G: 0xC8, B: 0xC8, A: 0xFF}, // teal
	{R: 0xE6, G: 0x7A, B: 0xB4, A: 0xFF}, // pink
	{R: 0xA0, G: 0x78, B: 0x50, A: 0xFF}, // brown
	{R: 0x8C, G: 0xB4, B: 0x3C, A: 0xFF}, // olive
	{R: 0x64, G: 0x6E, B: 0x82, A: 0xFF}, // slate
}

// panelColor returns the palette color for a cluster index.
func panelColor(cluster int) color.RGBA {
	return panelPalette[cluster%len(panelPalette)]
}
