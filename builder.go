package invokable

import (
	"fmt"
	"log/slog"
	"reflect"

	"github.com/zhulik/invokable/pkg/locator"
)

var errNilBuilder = fmt.Errorf("%w: marker type is expected", ErrIllegalArgument)

// AnnotationBuilder holds the marker type chosen with Delegate.
type AnnotationBuilder[M any] struct {
	marker reflect.Type
}

// Extractor finds the methods of an instance annotated with M and delegates I to them.
// It is immutable, every extraction can be repeated on any number of instances.
type Extractor[M any, I any] struct {
	marker reflect.Type
	target *target
	config *Config
	logger *slog.Logger
}

// ExtractAll returns an invoker for every method of instance annotated with M, in discovery order.
// Fails if there are none.
func (e *Extractor[M, I]) ExtractAll(instance any) ([]*Invoker[M, I], error) {
	return e.extract(instance, locator.NonEmpty)
}

// ExtractAllAsInterfaces is like ExtractAll but returns the target values.
func (e *Extractor[M, I]) ExtractAllAsInterfaces(instance any) ([]I, error) {
	invokers, err := e.ExtractAll(instance)
	if err != nil {
		return nil, err
	}

	results := make([]I, len(invokers))
	for i, invoker := range invokers {
		if results[i], err = invoker.asInterface(); err != nil {
			return nil, err
		}
	}

	return results, nil
}

// ExtractOneWithAnnotation returns an invoker for the annotated method of instance. When several methods are
// annotated, the first one is used unless the extractor is configured with SingleStrict.
func (e *Extractor[M, I]) ExtractOneWithAnnotation(instance any) (*Invoker[M, I], error) {
	cardinality := locator.FirstOfMany
	if e.config.SinglePolicy == SingleStrict {
		cardinality = locator.Single
	}

	invokers, err := e.extract(instance, cardinality)
	if err != nil {
		return nil, err
	}

	return invokers[0], nil
}

// ExtractOne is like ExtractOneWithAnnotation but returns the target value.
func (e *Extractor[M, I]) ExtractOne(instance any) (I, error) {
	invoker, err := e.ExtractOneWithAnnotation(instance)
	if err != nil {
		return empty[I](), err
	}

	return invoker.asInterface()
}

// MustExtractOne is like ExtractOne but panics if an error occurs.
func (e *Extractor[M, I]) MustExtractOne(instance any) I {
	return must(e.ExtractOne(instance))
}

// MustExtractAll is like ExtractAll but panics if an error occurs.
func (e *Extractor[M, I]) MustExtractAll(instance any) []*Invoker[M, I] {
	return must(e.ExtractAll(instance))
}

func (e *Extractor[M, I]) extract(instance any, cardinality locator.Cardinality) ([]*Invoker[M, I], error) {
	val := reflect.ValueOf(instance)
	if !val.IsValid() || (nillable(val.Kind()) && val.IsNil()) {
		return nil, fmt.Errorf("%w: non-nil instance is expected, got %T", ErrInvalidTarget, instance)
	}

	logger := e.logger.With("type", typeName(val.Type()), "cardinality", cardinality.String())
	logger.Debug("Locating annotated methods")

	table, err := e.config.Registry.Table(val.Type())
	if err != nil {
		return nil, err
	}

	candidates, err := locator.Find(val, table, e.marker, cardinality)
	if err != nil {
		logger.Debug("Locating failed", "error", err)
		return nil, err
	}

	invokers := make([]*Invoker[M, I], 0, len(candidates))

	for _, candidate := range candidates {
		invoker, err := newInvoker[M, I](e.target, val, candidate)
		if err != nil {
			logger.Warn("Annotated method rejected", "method", candidate.Method.Name, "error", err)
			return nil, err
		}

		invokers = append(invokers, invoker)
	}

	logger.Debug("Annotated methods extracted", "count", len(invokers))

	return invokers, nil
}
