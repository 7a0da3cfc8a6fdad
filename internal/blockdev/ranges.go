package blockdev

import "sort"

// Range is a byte range of the device.
type Range struct {
	Off int64
	Len int64
}

// coalesce aligns ranges to align-byte boundaries, sorts them and merges
// overlapping or adjacent ranges.
func coalesce(ranges []Range, align int64) []Range {
	if len(ranges) == 0 {
		return nil
	}

	aligned := make([]Range, len(ranges))
	for i, r := range ranges {
		start := (r.Off / align) * align
		end := r.Off + r.Len
		if end%align != 0 {
			end = (end/align + 1) * align
		}
		aligned[i] = Range{Off: start, Len: end - start}
	}

	sort.Slice(aligned, func(i, j int) bool {
		return aligned[i].Off < aligned[j].Off
	})

	merged := make([]Range, 0, len(aligned))
	current := aligned[0]
	for _, next := range aligned[1:] {
		if next.Off <= current.Off+current.Len {
			if end := next.Off + next.Len; end > current.Off+current.Len {
				current.Len = end - current.Off
			}
			continue
		}
		merged = append(merged, current)
		current = next
	}
	return append(merged, current)
}
