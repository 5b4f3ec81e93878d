package inventory

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// maxRangeSpan is the widest range a single entry may expand to.
const maxRangeSpan = 1000

// ParseLotRanges expands entries such as "12" or "1-8" into sorted, unique
// lot numbers.
func ParseLotRanges(entries []string) ([]int, error) {
	seen := make(map[int]struct{})
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		from, to := entry, entry
		if i := strings.Index(entry, "-"); i > 0 {
			from, to = entry[:i], entry[i+1:]
		}

		start, err := strconv.Atoi(strings.TrimSpace(from))
		if err != nil {
			return nil, fmt.Errorf("invalid lot range %q: %w", entry, err)
		}
		end, err := strconv.Atoi(strings.TrimSpace(to))
		if err != nil {
			return nil, fmt.Errorf("invalid lot range %q: %w", entry, err)
		}
		if end < start {
			return nil, fmt.Errorf("invalid lot range %q: end before start", entry)
		}
		if end-start >= maxRangeSpan {
			return nil, fmt.Errorf("invalid lot range %q: spans more than %d lots", entry, maxRangeSpan)
		}

		for n := start; n <= end; n++ {
			seen[n] = struct{}{}
		}
	}

	numbers := make([]int, 0, len(seen))
	for n := range seen {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	return numbers, nil
}
