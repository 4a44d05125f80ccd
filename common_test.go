package invokable_test

import (
	"errors"
	"reflect"
	"strings"

	"github.com/stretchr/testify/mock"

	"github.com/zhulik/invokable"
)

var (
	errTest = errors.New("test error")
)

// Handle is the marker used by most tests.
type Handle struct {
	Value string `validate:"required"`
}

// Tagged is an interface marker.
type Tagged interface {
	Tag() string
}

// Label implements Tagged.
type Label string

func (l Label) Tag() string { return string(l) }

// Executable is a func target.
type Executable func(string) string

// ExecutableService is an interface target, ExecutableFunc adapts funcs to it.
type ExecutableService interface {
	Execute(name string) string
}

type ExecutableFunc func(string) string

func (f ExecutableFunc) Execute(name string) string { return f(name) }

func executableAdapter(f func(string) string) ExecutableService {
	return ExecutableFunc(f)
}

type ManyMethodInterface interface {
	Execute(name string) string
	Other(name string) string
}

type (
	AnyParameterExecutable           func(any) string
	AnyReturnExecutable              func(string) any
	DifferentReturnTypeExecutable    func(string) int
	DifferentSizeParameterExecutable func(string, string) string
	DifferentParameterExecutable     func(int) string
	FallibleExecutable               func(string) (string, error)
	JoinExecutable                   func(string, ...string) string
)

// Runner has one method annotated with Handle.
type Runner struct{}

func (*Runner) Run(name string) string { return "hello " + name }

func (*Runner) NotAnnotated(name string) string { return "not annotated " + name }

// MultipleAnnotatedMethodRunner has two methods annotated with Handle, Run is annotated first.
type MultipleAnnotatedMethodRunner struct{}

func (*MultipleAnnotatedMethodRunner) Run(name string) string { return "run " + name }

func (*MultipleAnnotatedMethodRunner) Go(name string) string { return "go " + name }

// NoAnnotatedMethodRunner has no annotations.
type NoAnnotatedMethodRunner struct{}

func (*NoAnnotatedMethodRunner) Run(name string) string { return "hello " + name }

// AnyRunner accepts any value.
type AnyRunner struct{}

func (*AnyRunner) Run(name any) string { return "any " + name.(string) }

// ValueRunner is annotated on a value receiver.
type ValueRunner struct {
	Greeting string
}

func (r ValueRunner) Run(name string) string { return r.Greeting + " " + name }

// DeclaringRunner declares its own annotations.
type DeclaringRunner struct{}

func (*DeclaringRunner) Run(name string) string { return "declared " + name }

func (*DeclaringRunner) Tagged(name string) string { return "tagged " + name }

func (*DeclaringRunner) DeclareAnnotations(d *invokable.Declaration) {
	d.Annotate("Run", Handle{Value: "declared"}).
		Annotate("Tagged", Label("tagged"))
}

// EmbeddingRunner gets its annotated method from Runner.
type EmbeddingRunner struct {
	*Runner
}

// JoinRunner has a variadic annotated method.
type JoinRunner struct{}

func (*JoinRunner) Join(sep string, parts ...string) string { return strings.Join(parts, sep) }

// PanickingRunner panics when called.
type PanickingRunner struct{}

func (*PanickingRunner) Run(name string) string { panic("panic " + name) }

// MockRunner records calls.
type MockRunner struct {
	mock.Mock
}

func (m *MockRunner) Run(name string) (string, error) {
	args := m.Called(name)
	return args.String(0), args.Error(1)
}

func (m *MockRunner) Pointer(value *string) bool {
	args := m.Called(value)
	return args.Bool(0)
}

func init() {
	invokable.MustAnnotate[*Runner]("Run", Handle{Value: "runner"})

	invokable.MustAnnotate[*MultipleAnnotatedMethodRunner]("Run", Handle{Value: "runner"})
	invokable.MustAnnotate[*MultipleAnnotatedMethodRunner]("Go", Handle{Value: "go"})

	invokable.MustAnnotate[*AnyRunner]("Run", Handle{Value: "any"})
	invokable.MustAnnotate[ValueRunner]("Run", Handle{Value: "value"}, Label("value"))
	invokable.MustAnnotate[*JoinRunner]("Join", Handle{Value: "join"})
	invokable.MustAnnotate[*PanickingRunner]("Run", Handle{Value: "panic"})
	invokable.MustAnnotate[*MockRunner]("Run", Handle{Value: "mock"})
	invokable.MustAnnotate[*MockRunner]("Pointer", Label("pointer"))
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
