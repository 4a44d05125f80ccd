package invokable

import (
	"github.com/zhulik/invokable/pkg/core"
)

// Error variables used throughout the package. All of them wrap ErrIllegalArgument, callers that only need to
// know that a precondition was violated can check for it with errors.Is.
var (
	// ErrIllegalArgument is the single kind of error reported by invokable.
	ErrIllegalArgument = core.ErrIllegalArgument

	// ErrNotSingleOperation is returned by To when the target interface has more or less than one method.
	ErrNotSingleOperation = core.ErrNotSingleOperation

	// ErrUnsupportedTarget is returned by To when the target type is neither a func nor an interface.
	ErrUnsupportedTarget = core.ErrUnsupportedTarget

	// ErrInvalidAdapter is returned by To when an interface target has no adapter or the adapter has a wrong type.
	ErrInvalidAdapter = core.ErrInvalidAdapter

	// ErrNoAnnotatedMethod is returned when the instance has no method annotated with the marker type.
	ErrNoAnnotatedMethod = core.ErrNoAnnotatedMethod

	// ErrAmbiguousAnnotatedMethod is returned when exactly one annotated method is required but there are more.
	ErrAmbiguousAnnotatedMethod = core.ErrAmbiguousAnnotatedMethod

	// ErrInvalidTarget is returned when the instance passed to an extraction is nil.
	ErrInvalidTarget = core.ErrInvalidTarget

	// ErrInvalidArguments is returned by Invoker.Invoke when the arguments do not fit the method.
	ErrInvalidArguments = core.ErrInvalidArguments

	// ErrInvalidConfig is returned by To when the options produce an invalid Config.
	ErrInvalidConfig = core.ErrInvalidConfig

	// ErrInvalidAnnotation is returned when an annotation payload is nil, invalid or duplicated.
	ErrInvalidAnnotation = core.ErrInvalidAnnotation

	// ErrUnknownMethod is returned when an annotation names a method the type does not have.
	ErrUnknownMethod = core.ErrUnknownMethod

	// ErrSignatureMismatch is returned when an annotated method cannot stand in for the target operation.
	ErrSignatureMismatch = core.ErrSignatureMismatch
)
