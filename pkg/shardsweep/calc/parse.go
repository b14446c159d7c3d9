package calc

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidShardList is returned when a shard size list cannot be parsed.
var ErrInvalidShardList = errors.New("invalid shard size list")

// maxRangeLen bounds the number of sizes a single range may expand to.
const maxRangeLen = 4096

// ParseShardSizes parses a comma-separated list of shard sizes.
// Each element is either a single integer ("8") or an inclusive range with an
// optional step ("2-16", "2-16:2").
//
// Examples:
//
//	ParseShardSizes("2,4,6,8,10,16") // [2 4 6 8 10 16]
//	ParseShardSizes("2-8:2")         // [2 4 6 8]
//	ParseShardSizes("2-4,16")        // [2 3 4 16]
func ParseShardSizes(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidShardList)
	}

	var sizes []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		expanded, err := parseElement(part)
		if err != nil {
			return nil, err
		}
		sizes = append(sizes, expanded...)
	}

	if len(sizes) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidShardList, s)
	}
	return sizes, nil
}

// parseElement parses a single integer or range element.
func parseElement(part string) ([]int, error) {
	if strings.HasPrefix(part, "-") {
		if n, err := strconv.Atoi(part); err == nil {
			return nil, fmt.Errorf("%w: %d", ErrInvalidShardSize, n)
		}
		return nil, fmt.Errorf("%w: %q has no range start", ErrInvalidShardList, part)
	}

	lo, rest, isRange := strings.Cut(part, "-")
	if !isRange {
		n, err := parsePositive(part)
		if err != nil {
			return nil, err
		}
		return []int{n}, nil
	}

	hi, stepStr, hasStep := strings.Cut(rest, ":")
	start, err := parsePositive(lo)
	if err != nil {
		return nil, err
	}
	end, err := parsePositive(hi)
	if err != nil {
		return nil, err
	}

	step := 1
	if hasStep {
		step, err = parsePositive(stepStr)
		if err != nil {
			return nil, err
		}
	}

	if end < start {
		return nil, fmt.Errorf("%w: range %q is descending", ErrInvalidShardList, part)
	}
	count := (end-start)/step + 1
	if count > maxRangeLen {
		return nil, fmt.Errorf("%w: range %q expands to more than %d sizes", ErrInvalidShardList, part, maxRangeLen)
	}

	// start+i*step never passes end, so ranges ending near MaxInt cannot wrap.
	sizes := make([]int, 0, count)
	for i := 0; i < count; i++ {
		sizes = append(sizes, start+i*step)
	}
	return sizes, nil
}

func parsePositive(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidShardList, s)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidShardSize, n)
	}
	return n, nil
}
