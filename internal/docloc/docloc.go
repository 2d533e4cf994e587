// Package docloc maps byte offsets into a source document to line and
// column numbers for diagnostics.
package docloc

import "bytes"

// Map scans raw source text once and answers repeated offset queries
// against the cached newline positions.
type Map struct {
	text    []byte
	offsets []int // byte offset of each '\n', in ascending order
}

// New builds a Map over text. The text is not copied; callers must not
// mutate it for the lifetime of the Map.
func New(text []byte) *Map {
	m := &Map{text: text}
	start := 0
	for {
		idx := bytes.IndexByte(m.text[start:], '\n')
		if idx < 0 {
			break
		}
		m.offsets = append(m.offsets, start+idx)
		start += idx + 1
	}
	return m
}

// Locate converts a byte offset to a 1-based (line, column) pair. An
// offset beyond the end of the text, or a negative offset, reports ok=false
// so the caller can fall back to a bare byte-offset diagnostic.
func (m *Map) Locate(offset int) (line, column int, ok bool) {
	if m == nil || offset < 0 || offset > len(m.text) {
		return 0, 0, false
	}

	// line is the count of newlines strictly before offset, plus one.
	lo, hi := 0, len(m.offsets)
	for lo < hi {
		mid := (lo + hi) / 2
		if m.offsets[mid] < offset {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	line = lo + 1

	lineStart := 0
	if lo > 0 {
		lineStart = m.offsets[lo-1] + 1
	}
	column = offset - lineStart + 1
	return line, column, true
}
