package buf

import (
	"fmt"
	"math"
)

// MulOverflowSafe multiplies a and b, returning ok = false when the result
// would overflow int64. Both operands must be non-negative.
func MulOverflowSafe(a, b int64) (int64, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > math.MaxInt64/b {
		return 0, false
	}
	return a * b, true
}

// ArraySize returns count*elemSize rounded up to a whole number of sectors.
// GPT entry arrays are always read and written in sector units.
//
//	n, err := buf.ArraySize(128, 128, 512) // 16384, nil
func ArraySize(count, elemSize, sectorSize int64) (int64, error) {
	if sectorSize <= 0 {
		return 0, fmt.Errorf("invalid sector size: %d", sectorSize)
	}
	total, ok := MulOverflowSafe(count, elemSize)
	if !ok {
		return 0, fmt.Errorf("overflow: count=%d * elemSize=%d", count, elemSize)
	}
	if rem := total % sectorSize; rem != 0 {
		total += sectorSize - rem
	}
	return total, nil
}

// Slice returns the sub-slice [off:off+n] if it fits within len(b).
func Slice(b []byte, off, n int) ([]byte, bool) {
	if off < 0 || n < 0 || off > len(b) || n > len(b)-off {
		return nil, false
	}
	return b[off : off+n], true
}
