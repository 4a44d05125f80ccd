// Package signature decides whether an annotated method can stand in for the single operation of a target type.
package signature

import (
	"fmt"
	"reflect"

	typetostring "github.com/samber/go-type-to-string"

	"github.com/zhulik/invokable/pkg/core"
)

// Descriptor describes the shape of a callable: its ordered parameter and result types.
type Descriptor struct {
	Name     string
	In       []reflect.Type
	Out      []reflect.Type
	Variadic bool
}

// OfFunc describes a func type.
func OfFunc(name string, fn reflect.Type) Descriptor {
	d := Descriptor{
		Name:     name,
		In:       make([]reflect.Type, fn.NumIn()),
		Out:      make([]reflect.Type, fn.NumOut()),
		Variadic: fn.IsVariadic(),
	}

	for i := range d.In {
		d.In[i] = fn.In(i)
	}

	for i := range d.Out {
		d.Out[i] = fn.Out(i)
	}

	return d
}

// OfMethod describes a method. Methods taken from a concrete type carry their receiver as the first
// parameter, methods taken from an interface type do not; the receiver is never part of the descriptor.
func OfMethod(m reflect.Method) Descriptor {
	d := OfFunc(m.Name, m.Type)
	if m.Func.IsValid() && len(d.In) > 0 {
		d.In = d.In[1:]
	}

	return d
}

// String renders the descriptor like a Go func signature.
func (d Descriptor) String() string {
	return d.Name + typetostring.GetReflectType(d.funcType())[len("func"):]
}

func (d Descriptor) funcType() reflect.Type {
	return reflect.FuncOf(d.In, d.Out, d.Variadic)
}

// Aspect names the part of a signature that failed to match.
type Aspect int

const (
	ParameterCount Aspect = iota
	ReturnCount
	Variadic
	ReturnType
	ParameterType
)

// Mismatch is the first violation found by Compare.
type Mismatch struct {
	Aspect    Aspect
	Index     int
	Candidate reflect.Type
	Target    reflect.Type
}

// Compare returns nil if candidate can be substituted for target, otherwise the first violation.
// Results are covariant: every candidate result must be assignable to the target result at the same position.
// Parameters must line up one to one and every target parameter must be assignable to the candidate parameter.
func Compare(candidate, target Descriptor) *Mismatch {
	if len(candidate.In) != len(target.In) {
		return &Mismatch{Aspect: ParameterCount, Index: -1}
	}

	if len(candidate.Out) != len(target.Out) {
		return &Mismatch{Aspect: ReturnCount, Index: -1}
	}

	if candidate.Variadic != target.Variadic {
		return &Mismatch{Aspect: Variadic, Index: -1}
	}

	for i, out := range candidate.Out {
		if !out.AssignableTo(target.Out[i]) {
			return &Mismatch{Aspect: ReturnType, Index: i, Candidate: out, Target: target.Out[i]}
		}
	}

	for i, in := range candidate.In {
		if !target.In[i].AssignableTo(in) {
			return &Mismatch{Aspect: ParameterType, Index: i, Candidate: in, Target: target.In[i]}
		}
	}

	return nil
}

// Matches reports whether candidate can be substituted for target.
func Matches(candidate, target Descriptor) bool {
	return Compare(candidate, target) == nil
}

// Check is like Compare but reports the violation as an error wrapping core.ErrSignatureMismatch.
func Check(candidate, target Descriptor) error {
	m := Compare(candidate, target)
	if m == nil {
		return nil
	}

	return fmt.Errorf("%w: annotated method [%s] %s", core.ErrSignatureMismatch, candidate.Name, m.describe(target))
}

func (m *Mismatch) describe(target Descriptor) string {
	switch m.Aspect {
	case ReturnCount:
		return fmt.Sprintf("should have same number of return values to interface method %s", target)
	case ReturnType:
		return fmt.Sprintf("should have assignable return value to interface method %s: %s is not assignable to %s",
			target, typetostring.GetReflectType(m.Candidate), typetostring.GetReflectType(m.Target))
	case ParameterCount:
		return fmt.Sprintf("should have same size of parameter to interface method %s", target)
	case Variadic:
		return fmt.Sprintf("should be variadic exactly when interface method %s is", target)
	default:
		return fmt.Sprintf("should have same parameter type to interface method %s: parameter %d, %s is not assignable to %s",
			target, m.Index, typetostring.GetReflectType(m.Target), typetostring.GetReflectType(m.Candidate))
	}
}
