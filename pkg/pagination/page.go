package pagination

import "errors"

var (
	// ErrInvalidCursor marks a cursor token that failed to decode,
	// failed authentication, or carried a non-key payload. Callers
	// must treat it as a bad request, never as "no cursor".
	ErrInvalidCursor = errors.New("invalid cursor")

	// ErrInvalidLimit marks a non-positive page size.
	ErrInvalidLimit = errors.New("page size must be positive")

	// ErrInvalidDirection marks a direction value that is neither
	// forward nor backward.
	ErrInvalidDirection = errors.New("invalid pagination direction")
)

// Page is one window of an ordered result set together with the opaque
// cursors pointing at the neighbouring windows. A nil cursor means
// there is no further page in that direction.
type Page[T any] struct {
	Items          []T     `json:"items"`
	PreviousCursor *string `json:"previousCursor,omitempty"`
	NextCursor     *string `json:"nextCursor,omitempty"`
}
