package inventory

import (
	"fmt"
	"strconv"
	"strings"
)

// sequenceWidth is the minimum zero-padded width of generated serial
// numbers. Sequences past 9999 simply grow an extra digit.
const sequenceWidth = 4

// nextCode derives the serial code that follows lastCode within a
// category. An empty or unparseable lastCode restarts the sequence at 1;
// that is a defensive fallback for seeded or corrupted data, not a
// correctness guarantee.
func nextCode(categoria, lastCode string) string {
	seq := uint64(1)
	if suffix := strings.TrimPrefix(lastCode, categoria); suffix != lastCode {
		if n, err := strconv.ParseUint(suffix, 10, 64); err == nil {
			seq = n + 1
		}
	}
	return fmt.Sprintf("%s%0*d", categoria, sequenceWidth, seq)
}
