package invokable

import (
	"github.com/zhulik/invokable/pkg/annotations"
)

var defaultRegistry = annotations.NewRegistry()

// DefaultRegistry returns the registry used by Annotate and by extractors configured without WithRegistry.
func DefaultRegistry() *annotations.Registry {
	return defaultRegistry
}

// Annotate attaches payloads to the method of T in the default registry. T may be the type or a pointer to it.
// Typically, it is called from an init function, next to the annotated type:
//
//	func init() {
//		invokable.MustAnnotate[*Runner]("Run", Handle{Value: "runner"})
//	}
func Annotate[T any](method string, payloads ...any) error {
	return defaultRegistry.Annotate(elem[T](), method, payloads...)
}

// MustAnnotate is like Annotate but panics if an error occurs.
func MustAnnotate[T any](method string, payloads ...any) {
	must("", Annotate[T](method, payloads...))
}

// Delegate starts the configuration of an Extractor. M is the marker type: methods annotated with a payload
// of type M (or implementing M if it is an interface) are candidates.
func Delegate[M any]() *AnnotationBuilder[M] {
	return &AnnotationBuilder[M]{marker: elem[M]()}
}

// To completes the configuration started by Delegate. I is the target type, either a func type or an interface
// with exactly one method. Interface targets need an adapter, see WithAdapter.
//
//	extractor, err := invokable.To[Executable](invokable.Delegate[Handle]())
func To[I any, M any](b *AnnotationBuilder[M], opts ...Option) (*Extractor[M, I], error) {
	if b == nil {
		return nil, errNilBuilder
	}

	config := newConfig(opts...)
	if err := config.Validate(); err != nil {
		return nil, err
	}

	t, err := newTarget[I](config.Adapter)
	if err != nil {
		return nil, err
	}

	return &Extractor[M, I]{
		marker: b.marker,
		target: t,
		config: config,
		logger: config.Logger.With("marker", typeName(b.marker), "target", typeName(t.typ)),
	}, nil
}

// MustTo is like To but panics if an error occurs.
func MustTo[I any, M any](b *AnnotationBuilder[M], opts ...Option) *Extractor[M, I] {
	return must(To[I](b, opts...))
}
