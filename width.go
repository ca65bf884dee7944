package canvasbackend

import "github.com/unilibs/uniwidth"

// glyphSpan returns how many cells a glyph's ink may cover when rasterized:
// 2 for wide runes (CJK ideographs, fullwidth forms, emoji), 1 otherwise.
// The grid itself always advances one cell per scalar.
func glyphSpan(r rune) int {
	if uniwidth.RuneWidth(r) == 2 {
		return 2
	}
	return 1
}

// isZeroWidth returns true for runes with no advance (combining marks,
// control characters). They occupy a cell but draw nothing on their own.
func isZeroWidth(r rune) bool {
	return uniwidth.RuneWidth(r) == 0
}

// StringWidth returns the display width of s on a terminal (sum of rune
// widths). PrintAt does not use it: each scalar takes exactly one cell.
func StringWidth(s string) int {
	return uniwidth.StringWidth(s)
}
