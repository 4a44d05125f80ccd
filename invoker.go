package invokable

import (
	"fmt"
	"reflect"
)

var errorType = elem[error]()

// Invoker binds an annotated method of an instance to the target type I. It is immutable and
// safe to share if the underlying instance is.
type Invoker[M any, I any] struct {
	annotation M
	target     *target
	instance   reflect.Value
	method     reflect.Method
}

// Annotation returns the payload the method is annotated with.
func (i *Invoker[M, I]) Annotation() M {
	return i.annotation
}

// Method returns the name of the wrapped method.
func (i *Invoker[M, I]) Method() string {
	return i.method.Name
}

// Target returns the instance the method is called on.
func (i *Invoker[M, I]) Target() any {
	return i.instance.Interface()
}

// AsInterface returns a value of the target type, calling its operation calls the wrapped method
// with the same arguments. It panics with ErrInvalidAdapter if the adapter returns nil.
func (i *Invoker[M, I]) AsInterface() I {
	return must(i.asInterface())
}

func (i *Invoker[M, I]) asInterface() (I, error) {
	fn := reflect.MakeFunc(i.target.fn, i.forward)

	if !i.target.adapter.IsValid() {
		return fn.Interface().(I), nil
	}

	adapted, ok := i.target.adapter.Call([]reflect.Value{fn})[0].Interface().(I)
	if !ok {
		return empty[I](), fmt.Errorf("%w: adapter returned nil %s for %s",
			ErrInvalidAdapter, typeName(i.target.typ), i.method.Name)
	}

	return adapted, nil
}

// Invoke calls the wrapped method with args and returns its results. If the last result of the method is a
// non-nil error, it is returned as is. Panics of the method are not recovered.
func (i *Invoker[M, I]) Invoke(args ...any) ([]any, error) {
	bound := i.instance.Method(i.method.Index)

	in, err := arguments(i.method.Name, bound.Type(), args)
	if err != nil {
		return nil, err
	}

	out := bound.Call(in)

	results := make([]any, len(out))
	for k, v := range out {
		results[k] = v.Interface()
	}

	if n := len(out); n > 0 && bound.Type().Out(n-1) == errorType && !out[n-1].IsNil() {
		return results, results[n-1].(error)
	}

	return results, nil
}

func (i *Invoker[M, I]) forward(args []reflect.Value) []reflect.Value {
	bound := i.instance.Method(i.method.Index)

	var out []reflect.Value
	if i.target.fn.IsVariadic() {
		out = bound.CallSlice(args)
	} else {
		out = bound.Call(args)
	}

	for k, v := range out {
		want := i.target.fn.Out(k)
		if v.Type() == want {
			continue
		}

		converted := reflect.New(want).Elem()
		converted.Set(v)
		out[k] = converted
	}

	return out
}

func arguments(method string, fn reflect.Type, args []any) ([]reflect.Value, error) {
	n := fn.NumIn()

	if (!fn.IsVariadic() && len(args) != n) || (fn.IsVariadic() && len(args) < n-1) {
		return nil, fmt.Errorf("%w: %s expects %d arguments, got %d", ErrInvalidArguments, method, n, len(args))
	}

	in := make([]reflect.Value, len(args))

	for k, arg := range args {
		param := fn.In(min(k, n-1))
		if fn.IsVariadic() && k >= n-1 {
			param = param.Elem()
		}

		if arg == nil {
			if !nillable(param.Kind()) {
				return nil, fmt.Errorf("%w: %s argument %d, nil is not assignable to %s",
					ErrInvalidArguments, method, k, typeName(param))
			}

			in[k] = reflect.Zero(param)
			continue
		}

		v := reflect.ValueOf(arg)
		if !v.Type().AssignableTo(param) {
			return nil, fmt.Errorf("%w: %s argument %d, %s is not assignable to %s",
				ErrInvalidArguments, method, k, typeName(v.Type()), typeName(param))
		}

		in[k] = v
	}

	return in, nil
}
