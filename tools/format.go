// Package tools holds small presentation helpers built on top of the
// assembler/encoder pipeline; currently just the debug pretty-printer.
package tools

import (
	"strings"

	"github.com/lookbusy1344/sixbit-toolchain/encoder"
)

// FormatDebug renders a raw bit sequence (one byte per bit, value 0 or 1,
// as produced before packing) as a human-readable string: '0'/'1'
// characters with the delimiter table's spaces, commas, and newlines
// spliced in at the bit addresses recorded while encoding.
func FormatDebug(bits []byte, table encoder.DelimiterTable) string {
	var b strings.Builder
	entries := table.Entries()
	next := 0

	for addr, bit := range bits {
		if bit == 0 {
			b.WriteByte('0')
		} else {
			b.WriteByte('1')
		}
		for next < len(entries) && entries[next].Address == uint32(addr+1) {
			b.WriteString(entries[next].Symbol)
			next++
		}
	}
	for next < len(entries) {
		b.WriteString(entries[next].Symbol)
		next++
	}

	return b.String()
}
