package item

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// ErrMalformedDuration is returned for codes that are not PT[hH][mM][sS].
var ErrMalformedDuration = errors.New("malformed duration code")

// DurationParser converts compact duration codes such as "PT1H35M7S"
// into whole seconds.
type DurationParser struct {
	pattern *regexp.Regexp
}

// NewDurationParser compiles the duration pattern once.
func NewDurationParser() *DurationParser {
	return &DurationParser{
		pattern: regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`),
	}
}

// Parse returns the total number of seconds in code. Missing fields count
// as zero, so "PT" is 0.
func (p *DurationParser) Parse(code string) (uint64, error) {
	groups := p.pattern.FindStringSubmatch(code)
	if groups == nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedDuration, code)
	}

	var total uint64
	for i, unit := range []uint64{3600, 60, 1} {
		field := groups[i+1]
		if field == "" {
			continue
		}
		n, err := strconv.ParseUint(field, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q: %v", ErrMalformedDuration, code, err)
		}
		if n > (math.MaxUint64-total)/unit {
			return 0, fmt.Errorf("%w: %q overflows", ErrMalformedDuration, code)
		}
		total += n * unit
	}

	return total, nil
}
