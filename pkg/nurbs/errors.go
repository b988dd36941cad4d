package nurbs

import "errors"

// ErrInvalidArgument is returned for a negative parametric point, an unsupported
// dimension or generator tag, a malformed parameter set, or a span polynomial whose
// degree exceeds the closed-form antiderivative tables. Callers match it with errors.Is.
var ErrInvalidArgument = errors.New("nurbs: invalid argument")
