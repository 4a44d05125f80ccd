package invokable

import (
	"fmt"
	"reflect"

	"github.com/zhulik/invokable/pkg/locator"
	"github.com/zhulik/invokable/pkg/signature"
)

func newInvoker[M any, I any](t *target, instance reflect.Value, candidate locator.Candidate) (*Invoker[M, I], error) {
	annotation, ok := candidate.Payload.(M)
	if !ok {
		return nil, fmt.Errorf("%w: %s payload on %s is not a %s", ErrInvalidAnnotation,
			typeName(reflect.TypeOf(candidate.Payload)), candidate.Method.Name, typeName(elem[M]()))
	}

	if err := signature.Check(signature.OfMethod(candidate.Method), t.op); err != nil {
		return nil, err
	}

	return &Invoker[M, I]{
		annotation: annotation,
		target:     t,
		instance:   instance,
		method:     candidate.Method,
	}, nil
}
