package invokable

import (
	"fmt"
	"reflect"

	"github.com/zhulik/invokable/pkg/signature"
)

// target describes the single-operation type annotated methods are delegated to.
type target struct {
	typ reflect.Type
	op  signature.Descriptor

	// fn is the func type built with reflect.MakeFunc, it is the target itself for func targets and
	// the adapter argument for interface targets.
	fn      reflect.Type
	adapter reflect.Value
}

func newTarget[I any](adapter any) (*target, error) {
	typ := elem[I]()

	switch typ.Kind() {
	case reflect.Func:
		return &target{
			typ: typ,
			op:  signature.OfFunc(funcName(typ), typ),
			fn:  typ,
		}, nil

	case reflect.Interface:
		if n := typ.NumMethod(); n != 1 {
			return nil, fmt.Errorf("%w: %s has %d methods", ErrNotSingleOperation, typeName(typ), n)
		}

		method := typ.Method(0)

		av, err := validateAdapter(typ, method, adapter)
		if err != nil {
			return nil, err
		}

		return &target{
			typ:     typ,
			op:      signature.OfMethod(method),
			fn:      av.Type().In(0),
			adapter: av,
		}, nil

	default:
		return nil, fmt.Errorf("%w: got %s", ErrUnsupportedTarget, typeName(typ))
	}
}

func validateAdapter(typ reflect.Type, method reflect.Method, adapter any) (reflect.Value, error) {
	expected := fmt.Sprintf("func(%s) %s", typeName(method.Type), typeName(typ))

	if adapter == nil {
		return reflect.Value{}, fmt.Errorf("%w: interface target %s needs an adapter %s",
			ErrInvalidAdapter, typeName(typ), expected)
	}

	av := reflect.ValueOf(adapter)
	at := av.Type()

	if at.Kind() != reflect.Func || av.IsNil() ||
		at.NumIn() != 1 || at.NumOut() != 1 || at.IsVariadic() ||
		at.Out(0) != typ || at.In(0).Kind() != reflect.Func ||
		!sameSignature(at.In(0), method.Type) {
		return reflect.Value{}, fmt.Errorf("%w: expected %s, got %s", ErrInvalidAdapter, expected, typeName(at))
	}

	return av, nil
}

func sameSignature(a, b reflect.Type) bool {
	if a.NumIn() != b.NumIn() || a.NumOut() != b.NumOut() || a.IsVariadic() != b.IsVariadic() {
		return false
	}

	for i := range a.NumIn() {
		if a.In(i) != b.In(i) {
			return false
		}
	}

	for i := range a.NumOut() {
		if a.Out(i) != b.Out(i) {
			return false
		}
	}

	return true
}

func funcName(typ reflect.Type) string {
	if typ.Name() != "" {
		return typ.Name()
	}

	return "func"
}
