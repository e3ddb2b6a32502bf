package pagination

import "fmt"

// Direction tags which way a page request walks the ordered set.
// Forward follows the canonical order (newest first), backward walks
// against it.
type Direction string

const (
	DirectionForward  Direction = "forward"
	DirectionBackward Direction = "backward"
)

func (d Direction) Valid() bool {
	return d == DirectionForward || d == DirectionBackward
}

// ParseDirection maps the wire value to a Direction. The empty string
// means forward.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case "":
		return DirectionForward, nil
	case DirectionForward:
		return DirectionForward, nil
	case DirectionBackward:
		return DirectionBackward, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
	}
}

// order is the sort applied when fetching a page in this direction.
// Forward pages are fetched in canonical descending order; backward
// pages are fetched ascending and normalized afterwards.
func (d Direction) order() string {
	if d == DirectionBackward {
		return "ASC"
	}
	return "DESC"
}

// operator is the comparison binding the cursor as an exclusive bound.
func (d Direction) operator() string {
	if d == DirectionBackward {
		return ">"
	}
	return "<"
}
