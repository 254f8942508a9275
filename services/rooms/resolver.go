package rooms

import (
	"fmt"
	"strings"
)

// UnknownRoomTypeError reports a room description that matched nothing in
// the canonical table. Valid carries every accepted pattern so the caller
// can tell the guest what the hotel actually offers.
type UnknownRoomTypeError struct {
	Code  string
	Input string
	Valid []string
}

func (e *UnknownRoomTypeError) Error() string {
	return fmt.Sprintf("%s: unknown room type %q, valid options: %s",
		e.Code, e.Input, strings.Join(e.Valid, ", "))
}

// rule maps a lowercase room label or alias to its reservation-system id.
type rule struct {
	pattern string
	id      int
}

// roomTypeRules is the canonical room-type table captured from the
// reservation system. It is an ordered list, not a map: when fuzzy matching
// falls through to the substring scan, the FIRST rule in this order wins.
// "deluxe sea view" therefore resolves to 2 ("deluxe"), not 5, exactly as
// the table has always behaved.
var roomTypeRules = []rule{
	{"premium suite", 1},
	{"deluxe room", 2},
	{"deluxe", 2},
	{"executive room", 3},
	{"executive", 3},
	{"family suite", 4},
	{"family", 4},
	{"deluxe sea view room", 5},
	{"sea view", 5},
	{"presidential suite", 6},
	{"presidential", 6},
}

// Resolver maps free-text room descriptions to canonical room-type ids.
type Resolver struct {
	rules []rule
}

func NewResolver() *Resolver {
	return &Resolver{rules: roomTypeRules}
}

// Resolve normalizes the input and tries an exact lookup first, then a
// substring scan in both directions (pattern inside input, input inside
// pattern), first match wins.
func (r *Resolver) Resolve(roomType string) (int, error) {
	normalized := strings.ToLower(strings.TrimSpace(roomType))

	for _, rl := range r.rules {
		if rl.pattern == normalized {
			return rl.id, nil
		}
	}

	if normalized != "" {
		for _, rl := range r.rules {
			if strings.Contains(normalized, rl.pattern) || strings.Contains(rl.pattern, normalized) {
				return rl.id, nil
			}
		}
	}

	return 0, &UnknownRoomTypeError{
		Code:  "unknownRoomType",
		Input: roomType,
		Valid: r.Patterns(),
	}
}

// Patterns returns every accepted label and alias in table order.
func (r *Resolver) Patterns() []string {
	patterns := make([]string, 0, len(r.rules))
	for _, rl := range r.rules {
		patterns = append(patterns, rl.pattern)
	}
	return patterns
}
