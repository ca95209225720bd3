package convert

import "errors"

// ErrPrecondition marks a caller bug: an input whose shape contradicts the
// dimensions the caller declared. Conversions fail with this error before any
// output bytes are produced, so a half-filled buffer is never published.
// Match with errors.Is.
var ErrPrecondition = errors.New("conversion precondition violated")
