package cart

import "errors"

// ErrPayloadOverflow is returned by Insert when a payload's reserved high
// bit is set. It is the only error any exported operation can return on
// well-formed input.
var ErrPayloadOverflow = errors.New("cart: payload exceeds node.MaxPayload")
