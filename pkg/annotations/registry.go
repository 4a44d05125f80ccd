// Package annotations stores method annotations. Go has no annotations on methods, so they are attached to
// a receiver type explicitly, either through a Registry or by the type itself implementing Declarer.
package annotations

import (
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"sync"

	"github.com/go-playground/validator/v10"
	typetostring "github.com/samber/go-type-to-string"
	"golang.org/x/sync/singleflight"

	"github.com/zhulik/invokable/pkg/core"
)

// Entry is a single annotation: a payload attached to a method of a type.
type Entry struct {
	Method  string
	Payload any
}

// Declarer is an optional interface that can be implemented by annotated types.
type Declarer interface {
	// DeclareAnnotations is called once per type on a zero value, it must not depend on the receiver state.
	DeclareAnnotations(d *Declaration)
}

// Declaration collects annotations declared by a Declarer.
type Declaration struct {
	entries []Entry
}

// Annotate attaches payloads to the named method.
func (d *Declaration) Annotate(method string, payloads ...any) *Declaration {
	for _, payload := range payloads {
		d.entries = append(d.entries, Entry{Method: method, Payload: payload})
	}

	return d
}

// Registry maps receiver types to their annotations and caches the resolved Table of every runtime type.
// It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	declared map[reflect.Type][]Entry
	// generation is bumped by every Annotate, tables built under an older generation are not cached.
	generation uint64

	tables sync.Map
	group  singleflight.Group

	validate *validator.Validate
	logger   *slog.Logger
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		declared: map[reflect.Type][]Entry{},
		validate: validator.New(),
		logger:   slog.New(slog.DiscardHandler),
	}
}

// SetLogger sets the logger used by the registry.
func (r *Registry) SetLogger(logger *slog.Logger) *Registry {
	r.logger = logger.With("component", "annotations")
	return r
}

// Annotate attaches payloads to the method of typ. Annotations of T and *T are stored together, the method
// may have either receiver. Struct payloads are validated with their `validate` tags.
func (r *Registry) Annotate(typ reflect.Type, method string, payloads ...any) error {
	if typ == nil {
		return fmt.Errorf("%w: receiver type is expected", core.ErrInvalidAnnotation)
	}

	base := baseType(typ)
	if base.Kind() == reflect.Interface {
		return fmt.Errorf("%w: %s is an interface, annotate its implementations", core.ErrInvalidAnnotation, name(base))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.declared[base]

	for _, payload := range payloads {
		entry := Entry{Method: method, Payload: payload}
		if err := r.check(base, entries, entry); err != nil {
			return err
		}

		entries = append(entries, entry)
	}

	r.declared[base] = entries
	r.generation++
	r.tables.Clear()

	r.logger.Debug("Annotated", "type", name(base), "method", method, "count", len(payloads))

	return nil
}

// Table returns the annotations visible on values of typ, in declaration order: entries registered for the
// type first, then entries from its Declarer, then entries of embedded fields in field order. Only methods in
// the method set of typ are kept.
func (r *Registry) Table(typ reflect.Type) (*Table, error) {
	if typ == nil {
		return nil, fmt.Errorf("%w: type is expected", core.ErrIllegalArgument)
	}

	if cached, ok := r.tables.Load(typ); ok {
		return cached.(*Table), nil
	}

	r.mu.RLock()
	generation := r.generation
	r.mu.RUnlock()

	key := fmt.Sprintf("%s@%p#%d", name(typ), typ, generation)

	table, err, _ := r.group.Do(key, func() (any, error) {
		table, err := r.build(typ)
		if err != nil {
			return nil, err
		}

		r.mu.RLock()
		defer r.mu.RUnlock()

		if r.generation == generation {
			r.tables.Store(typ, table)
		} else {
			r.logger.Debug("Annotations changed during the build, not caching", "type", name(typ))
		}

		return table, nil
	})
	if err != nil {
		return nil, err
	}

	return table.(*Table), nil
}

func (r *Registry) build(typ reflect.Type) (*Table, error) {
	logger := r.logger.With("type", name(typ))
	logger.Debug("Building annotation table")

	entries, err := r.collect(baseType(typ), map[reflect.Type]bool{})
	if err != nil {
		return nil, err
	}

	table := &Table{typ: typ, entries: make([]Entry, 0, len(entries))}

	for _, entry := range entries {
		if _, ok := typ.MethodByName(entry.Method); !ok {
			logger.Debug("Method is not in the method set, skipping", "method", entry.Method)
			continue
		}

		table.entries = append(table.entries, entry)
	}

	return table, nil
}

func (r *Registry) collect(base reflect.Type, visited map[reflect.Type]bool) ([]Entry, error) {
	if visited[base] {
		return nil, nil
	}
	visited[base] = true

	r.mu.RLock()
	entries := slices.Clone(r.declared[base])
	r.mu.RUnlock()

	if base.Kind() == reflect.Interface {
		return entries, nil
	}

	if declarer, ok := reflect.New(base).Interface().(Declarer); ok {
		d := &Declaration{}
		declarer.DeclareAnnotations(d)

		for _, entry := range d.entries {
			if err := r.check(base, entries, entry); err != nil {
				return nil, err
			}

			entries = append(entries, entry)
		}
	}

	if base.Kind() != reflect.Struct {
		return entries, nil
	}

	for i := range base.NumField() {
		field := base.Field(i)
		if !field.Anonymous {
			continue
		}

		embedded, err := r.collect(baseType(field.Type), visited)
		if err != nil {
			return nil, err
		}

		for _, entry := range embedded {
			if !contains(entries, entry) {
				entries = append(entries, entry)
			}
		}
	}

	return entries, nil
}

func (r *Registry) check(base reflect.Type, existing []Entry, entry Entry) error {
	if _, ok := reflect.PointerTo(base).MethodByName(entry.Method); !ok {
		return fmt.Errorf("%w: %s has no exported method %s", core.ErrUnknownMethod, name(base), entry.Method)
	}

	val := reflect.ValueOf(entry.Payload)
	if isNil(val) {
		return fmt.Errorf("%w: nil payload on %s.%s", core.ErrInvalidAnnotation, name(base), entry.Method)
	}

	if contains(existing, entry) {
		return fmt.Errorf("%w: %s.%s is already annotated with %s",
			core.ErrInvalidAnnotation, name(base), entry.Method, name(val.Type()))
	}

	if reflect.Indirect(val).Kind() == reflect.Struct {
		if err := r.validate.Struct(entry.Payload); err != nil {
			return fmt.Errorf("%w: %s payload on %s.%s: %w",
				core.ErrInvalidAnnotation, name(val.Type()), name(base), entry.Method, err)
		}
	}

	return nil
}

func contains(entries []Entry, entry Entry) bool {
	payloadType := reflect.TypeOf(entry.Payload)

	return slices.ContainsFunc(entries, func(e Entry) bool {
		return e.Method == entry.Method && reflect.TypeOf(e.Payload) == payloadType
	})
}

func isNil(val reflect.Value) bool {
	if !val.IsValid() {
		return true
	}

	switch val.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice, reflect.UnsafePointer:
		return val.IsNil()
	default:
		return false
	}
}

func baseType(typ reflect.Type) reflect.Type {
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}

	return typ
}

func name(typ reflect.Type) string {
	return typetostring.GetReflectType(typ)
}
