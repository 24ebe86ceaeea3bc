package willow3d

import (
	"errors"
	"fmt"
)

// ErrDecalNotAdded is returned by Decal.Resize before the decal exists.
var ErrDecalNotAdded = errors.New("willow3d: decal has not been added")

// MissingTargetError reports that the render target could not be found.
type MissingTargetError struct {
	Selector string
}

func (e *MissingTargetError) Error() string {
	if e.Selector == "" {
		return "willow3d: render target not found"
	}
	return fmt.Sprintf("willow3d: render target %q not found", e.Selector)
}

// InvalidRangeError reports a float control whose Min is not below its Max,
// or whose bounds are not finite.
type InvalidRangeError struct {
	Label    string
	Min, Max float64
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("willow3d: control %q: invalid range [%g, %g]", e.Label, e.Min, e.Max)
}
