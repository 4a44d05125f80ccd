package core

import (
	"errors"
	"fmt"
)

// ErrIllegalArgument is the only error kind reported by invokable. Every validation failure wraps it.
var ErrIllegalArgument = errors.New("illegal argument")

var (
	ErrNotSingleOperation       = fmt.Errorf("%w: only 1 method interface is expected", ErrIllegalArgument)
	ErrUnsupportedTarget        = fmt.Errorf("%w: target must be a func or an interface type", ErrIllegalArgument)
	ErrInvalidAdapter           = fmt.Errorf("%w: invalid adapter", ErrIllegalArgument)
	ErrNoAnnotatedMethod        = fmt.Errorf("%w: annotated method on target is expected", ErrIllegalArgument)
	ErrAmbiguousAnnotatedMethod = fmt.Errorf("%w: exactly 1 annotated method on target is expected", ErrIllegalArgument)
	ErrInvalidTarget            = fmt.Errorf("%w: invalid target instance", ErrIllegalArgument)
	ErrInvalidArguments         = fmt.Errorf("%w: invalid arguments", ErrIllegalArgument)
	ErrInvalidConfig            = fmt.Errorf("%w: invalid config", ErrIllegalArgument)
	ErrInvalidAnnotation        = fmt.Errorf("%w: invalid annotation", ErrIllegalArgument)
	ErrUnknownMethod            = fmt.Errorf("%w: unknown method", ErrIllegalArgument)
	ErrSignatureMismatch        = fmt.Errorf("%w: signature mismatch", ErrIllegalArgument)
)
