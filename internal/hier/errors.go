package hier

import (
	"errors"
	"fmt"
)

// ErrUnknownTopCell marks a top-cell override that names no defined subckt.
// It surfaces at construction and again from any operation that re-derives
// the flattening root.
var ErrUnknownTopCell = errors.New("unknown top cell")

// DepthError reports a hierarchy nested past the configured limit, which in
// practice means a subckt instantiates itself directly or through a cycle.
type DepthError struct {
	// Path is the instance path at which the limit was crossed.
	Path string
	// Limit is the depth bound that was in effect.
	Limit int
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("hierarchy exceeds %d levels at %q: subckt instantiation is likely cyclic", e.Limit, e.Path)
}
