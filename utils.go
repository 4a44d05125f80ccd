package invokable

import (
	"reflect"

	typetostring "github.com/samber/go-type-to-string"
)

func empty[T any]() T {
	var t T
	return t
}

func elem[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func must[T any](value T, err error) T {
	if err != nil {
		panic(err)
	}
	return value
}

func typeName(typ reflect.Type) string {
	return typetostring.GetReflectType(typ)
}

func nillable(kind reflect.Kind) bool {
	switch kind {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice, reflect.UnsafePointer:
		return true
	default:
		return false
	}
}
