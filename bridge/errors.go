package bridge

import "errors"

// ErrRequestPending is returned by Request when another human-input request
// is already outstanding. The single-outstanding invariant fails fast rather
// than silently overwriting the earlier prompt.
var ErrRequestPending = errors.New("human-input request already pending")
