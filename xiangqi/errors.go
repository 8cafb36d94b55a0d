package xiangqi

import "errors"

// ErrInvalidFEN is wrapped by Position.Set when the input does not parse or
// violates a basic piece-count constraint (SPEC_FULL §7).
var ErrInvalidFEN = errors.New("xiangqi: invalid FEN")
