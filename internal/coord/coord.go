// Package coord maps between byte offsets, character counts and wrapped
// screen rows of a UTF-8 edit buffer. All functions are pure.
//
// Every offset handed to this package must sit on a UTF-8 sequence start.
// Callers that violate this get a panic carrying an errors.KindInvariant
// error; it is a bug, never a user condition.
package coord

import (
	"unicode"
	"unicode/utf8"

	"github.com/zhubert/nrl/internal/errors"
)

// CharCount returns the number of codepoints in b.
func CharCount(b []byte) int {
	return utf8.RuneCount(b)
}

// seqLen returns the length of the UTF-8 sequence introduced by lead.
func seqLen(lead byte) int {
	switch {
	case lead < 0x80:
		return 1
	case lead < 0xc0:
		return 0
	case lead < 0xe0:
		return 2
	case lead < 0xf0:
		return 3
	case lead < 0xf8:
		return 4
	}
	return 0
}

// AdvanceByChars walks at most n codepoints forward from start and returns
// the resulting offset together with the number of codepoints actually
// walked. It stops early at the end of b.
func AdvanceByChars(b []byte, start, n int) (end, advanced int) {
	end = start
	for end < len(b) && advanced < n {
		l := seqLen(b[end])
		if l == 0 || end+l > len(b) {
			panic(errors.Invariant("coord.AdvanceByChars", "offset %d is not a sequence start", end))
		}
		end += l
		advanced++
	}
	return end, advanced
}

// IsBoundary reports whether off is a sequence start of b or its end.
func IsBoundary(b []byte, off int) bool {
	if off == len(b) {
		return true
	}
	if off < 0 || off > len(b) {
		return false
	}
	return b[off]&0xc0 != 0x80
}

// DecodeNext decodes the codepoint at off and returns it with the offset of
// the following boundary.
func DecodeNext(b []byte, off int) (rune, int) {
	if off < 0 || off >= len(b) || !IsBoundary(b, off) {
		panic(errors.Invariant("coord.DecodeNext", "offset %d is not a boundary of a %d byte buffer", off, len(b)))
	}
	r, size := utf8.DecodeRune(b[off:])
	if r == utf8.RuneError && size <= 1 {
		panic(errors.Invariant("coord.DecodeNext", "invalid sequence at offset %d", off))
	}
	return r, off + size
}

// DecodePrev decodes the codepoint ending at off and returns it with the
// offset where it starts.
func DecodePrev(b []byte, off int) (rune, int) {
	if off <= 0 || off > len(b) || !IsBoundary(b, off) {
		panic(errors.Invariant("coord.DecodePrev", "offset %d is not a boundary of a %d byte buffer", off, len(b)))
	}
	r, size := utf8.DecodeLastRune(b[:off])
	if r == utf8.RuneError && size <= 1 {
		panic(errors.Invariant("coord.DecodePrev", "invalid sequence before offset %d", off))
	}
	return r, off - size
}

// RecomputeWrap regenerates table from startRow on. Row startRow begins at
// startOffset; each row takes up to its quota of codepoints (firstCols for
// row 0, restCols for the others). A row filled exactly opens a new row, so
// a buffer ending on a row edge owns an empty last row. The returned slice
// reuses the storage of table.
func RecomputeWrap(b []byte, table []int, startRow, startOffset, firstCols, restCols int) []int {
	if startRow < 0 || startRow >= len(table) {
		panic(errors.Invariant("coord.RecomputeWrap", "row %d outside a %d row table", startRow, len(table)))
	}
	firstCols = max(firstCols, 1)
	restCols = max(restCols, 1)

	table = table[:startRow+1]
	table[startRow] = startOffset
	o := startOffset
	avail := restCols
	if startRow == 0 {
		avail = firstCols
	}
	for o < len(b) {
		next, n := AdvanceByChars(b, o, avail)
		if n < avail {
			break
		}
		table = append(table, next)
		o = next
		avail = restCols
	}
	return table
}

// RowOf returns the last row of table starting at or before offset.
func RowOf(table []int, offset int) int {
	row := 0
	for row+1 < len(table) && table[row+1] <= offset {
		row++
	}
	return row
}

// IsWord reports whether r belongs to the letter-or-number class used for
// word motion.
func IsWord(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}

// WordStart returns the nearest offset before off where a word starts: the
// codepoint there is a word character and the one before it is not. It
// returns 0 when no such offset exists.
func WordStart(b []byte, off int) int {
	if off <= 0 {
		return 0
	}
	r, p := DecodePrev(b, off)
	for p > 0 {
		prev, q := DecodePrev(b, p)
		if IsWord(r) && !IsWord(prev) {
			break
		}
		p, r = q, prev
	}
	return p
}

// WordEnd returns the nearest offset after off where a word ends: the
// codepoint before it is a word character and the one at it is not (or the
// buffer ends). It returns len(b) when no such offset exists.
func WordEnd(b []byte, off int) int {
	if off >= len(b) {
		return len(b)
	}
	r, p := DecodeNext(b, off)
	for p < len(b) {
		next, q := DecodeNext(b, p)
		if IsWord(r) && !IsWord(next) {
			break
		}
		p, r = q, next
	}
	return p
}
