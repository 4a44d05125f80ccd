// Package locator finds the annotated methods of an instance.
package locator

import (
	"fmt"
	"reflect"

	typetostring "github.com/samber/go-type-to-string"

	"github.com/zhulik/invokable/pkg/annotations"
	"github.com/zhulik/invokable/pkg/core"
)

// Cardinality constrains the number of candidates Find returns.
type Cardinality int

const (
	// Any imposes no constraint.
	Any Cardinality = iota
	// NonEmpty requires at least one candidate.
	NonEmpty
	// Single requires exactly one candidate.
	Single
	// FirstOfMany requires at least one candidate and keeps only the first.
	FirstOfMany
)

func (c Cardinality) String() string {
	switch c {
	case NonEmpty:
		return "non-empty"
	case Single:
		return "single"
	case FirstOfMany:
		return "first-of-many"
	default:
		return "any"
	}
}

// Candidate is an annotated method of an instance.
type Candidate struct {
	Method  reflect.Method
	Payload any
}

// Find returns the methods of instance annotated with a payload of the marker type, in the order of the table.
func Find(instance reflect.Value, table *annotations.Table, marker reflect.Type, c Cardinality) ([]Candidate, error) {
	typ := instance.Type()
	if table.Type() != typ {
		return nil, fmt.Errorf("%w: annotation table of %s used for %s",
			core.ErrIllegalArgument, typetostring.GetReflectType(table.Type()), typetostring.GetReflectType(typ))
	}

	entries := table.Lookup(marker)
	candidates := make([]Candidate, 0, len(entries))

	for _, entry := range entries {
		method, ok := typ.MethodByName(entry.Method)
		if !ok {
			continue
		}

		candidates = append(candidates, Candidate{Method: method, Payload: entry.Payload})
	}

	switch c {
	case NonEmpty:
		if len(candidates) == 0 {
			return nil, noCandidates(typ, marker)
		}
	case Single:
		if len(candidates) == 0 {
			return nil, noCandidates(typ, marker)
		}
		if len(candidates) > 1 {
			return nil, fmt.Errorf("%w: %s has %d methods annotated with %s",
				core.ErrAmbiguousAnnotatedMethod, typetostring.GetReflectType(typ), len(candidates),
				typetostring.GetReflectType(marker))
		}
	case FirstOfMany:
		if len(candidates) == 0 {
			return nil, noCandidates(typ, marker)
		}
		candidates = candidates[:1]
	case Any:
	}

	return candidates, nil
}

func noCandidates(typ, marker reflect.Type) error {
	return fmt.Errorf("%w: %s has no methods annotated with %s",
		core.ErrNoAnnotatedMethod, typetostring.GetReflectType(typ), typetostring.GetReflectType(marker))
}
