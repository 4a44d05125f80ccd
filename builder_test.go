package invokable_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhulik/invokable"
	"github.com/zhulik/invokable/pkg/annotations"
)

func executables(t *testing.T, opts ...invokable.Option) *invokable.Extractor[Handle, Executable] {
	t.Helper()

	extractor, err := invokable.To[Executable](invokable.Delegate[Handle](), opts...)
	require.NoError(t, err)

	return extractor
}

// TestExtractor_ExtractAll tests the ExtractAll method
func TestExtractor_ExtractAll(t *testing.T) {
	t.Parallel()

	t.Run("delegates the annotated method to the target", func(t *testing.T) {
		t.Parallel()

		invokers, err := executables(t).ExtractAll(&Runner{})
		require.NoError(t, err)
		require.Len(t, invokers, 1)

		invoker := invokers[0]
		executable := invoker.AsInterface()

		assert.Equal(t, "hello dreamhead", executable("dreamhead"))
		assert.Equal(t, "runner", invoker.Annotation().Value)
		assert.Equal(t, "Run", invoker.Method())
	})

	t.Run("returns all annotated methods in discovery order", func(t *testing.T) {
		t.Parallel()

		invokers, err := executables(t).ExtractAll(&MultipleAnnotatedMethodRunner{})
		require.NoError(t, err)
		require.Len(t, invokers, 2)

		assert.Equal(t, "runner", invokers[0].Annotation().Value)
		assert.Equal(t, "go", invokers[1].Annotation().Value)
	})

	t.Run("fails on a different return type", func(t *testing.T) {
		t.Parallel()

		extractor := invokable.MustTo[DifferentReturnTypeExecutable](invokable.Delegate[Handle]())

		_, err := extractor.ExtractAll(&Runner{})

		assert.ErrorIs(t, err, invokable.ErrSignatureMismatch)
		assert.ErrorIs(t, err, invokable.ErrIllegalArgument)
		assert.Contains(t, err.Error(), "annotated method [Run] should have assignable return value")
	})

	t.Run("fails on a different size of parameters", func(t *testing.T) {
		t.Parallel()

		extractor := invokable.MustTo[DifferentSizeParameterExecutable](invokable.Delegate[Handle]())

		_, err := extractor.ExtractAll(&Runner{})

		assert.ErrorIs(t, err, invokable.ErrSignatureMismatch)
		assert.Contains(t, err.Error(), "should have same size of parameter")
	})

	t.Run("fails on a different parameter type", func(t *testing.T) {
		t.Parallel()

		extractor := invokable.MustTo[DifferentParameterExecutable](invokable.Delegate[Handle]())

		_, err := extractor.ExtractAll(&Runner{})

		assert.ErrorIs(t, err, invokable.ErrSignatureMismatch)
		assert.Contains(t, err.Error(), "should have same parameter type")
	})

	t.Run("fails when the target parameter is wider than the method parameter", func(t *testing.T) {
		t.Parallel()

		extractor := invokable.MustTo[AnyParameterExecutable](invokable.Delegate[Handle]())

		_, err := extractor.ExtractAll(&Runner{})

		assert.ErrorIs(t, err, invokable.ErrSignatureMismatch)
	})

	t.Run("works when the target parameter is assignable to the method parameter", func(t *testing.T) {
		t.Parallel()

		invokers, err := executables(t).ExtractAll(&AnyRunner{})
		require.NoError(t, err)

		assert.Equal(t, "any dreamhead", invokers[0].AsInterface()("dreamhead"))
	})

	t.Run("works when the return value is assignable to the target return value", func(t *testing.T) {
		t.Parallel()

		extractor := invokable.MustTo[AnyReturnExecutable](invokable.Delegate[Handle]())

		invokers, err := extractor.ExtractAll(&Runner{})
		require.NoError(t, err)

		assert.Equal(t, any("hello dreamhead"), invokers[0].AsInterface()("dreamhead"))
	})

	t.Run("fails when nothing is annotated", func(t *testing.T) {
		t.Parallel()

		_, err := executables(t).ExtractAll(&NoAnnotatedMethodRunner{})

		assert.ErrorIs(t, err, invokable.ErrNoAnnotatedMethod)
		assert.ErrorIs(t, err, invokable.ErrIllegalArgument)
	})

	t.Run("rejects nil instances", func(t *testing.T) {
		t.Parallel()

		_, err := executables(t).ExtractAll(nil)
		assert.ErrorIs(t, err, invokable.ErrInvalidTarget)

		_, err = executables(t).ExtractAll((*Runner)(nil))
		assert.ErrorIs(t, err, invokable.ErrInvalidTarget)
	})

	t.Run("is idempotent", func(t *testing.T) {
		t.Parallel()

		extractor := executables(t)
		runner := &MultipleAnnotatedMethodRunner{}

		first, err := extractor.ExtractAll(runner)
		require.NoError(t, err)

		second, err := extractor.ExtractAll(runner)
		require.NoError(t, err)

		require.Len(t, second, len(first))
		for i := range first {
			assert.Equal(t, first[i].Annotation(), second[i].Annotation())
			assert.Equal(t, first[i].Method(), second[i].Method())
			assert.Same(t, first[i].Target(), second[i].Target())
			assert.Equal(t, first[i].AsInterface()("dreamhead"), second[i].AsInterface()("dreamhead"))
		}
	})

	t.Run("uses the configured registry", func(t *testing.T) {
		t.Parallel()

		registry := annotations.NewRegistry()
		require.NoError(t, registry.Annotate(typeOf[*NoAnnotatedMethodRunner](), "Run", Handle{Value: "local"}))

		invokers, err := executables(t, invokable.WithRegistry(registry)).ExtractAll(&NoAnnotatedMethodRunner{})
		require.NoError(t, err)

		assert.Equal(t, "local", invokers[0].Annotation().Value)

		_, err = executables(t, invokable.WithRegistry(registry)).ExtractAll(&Runner{})
		assert.ErrorIs(t, err, invokable.ErrNoAnnotatedMethod)
	})

	t.Run("includes methods promoted from embedded fields", func(t *testing.T) {
		t.Parallel()

		invokers, err := executables(t).ExtractAll(&EmbeddingRunner{Runner: &Runner{}})
		require.NoError(t, err)

		assert.Equal(t, "hello dreamhead", invokers[0].AsInterface()("dreamhead"))
	})

	t.Run("includes declared annotations", func(t *testing.T) {
		t.Parallel()

		invokers, err := executables(t).ExtractAll(&DeclaringRunner{})
		require.NoError(t, err)
		require.Len(t, invokers, 1)

		assert.Equal(t, "declared", invokers[0].Annotation().Value)
		assert.Equal(t, "declared dreamhead", invokers[0].AsInterface()("dreamhead"))
	})

	t.Run("works with value receivers", func(t *testing.T) {
		t.Parallel()

		for _, instance := range []any{ValueRunner{Greeting: "hi"}, &ValueRunner{Greeting: "hi"}} {
			invokers, err := executables(t).ExtractAll(instance)
			require.NoError(t, err)

			assert.Equal(t, "hi dreamhead", invokers[0].AsInterface()("dreamhead"))
		}
	})
}

// TestExtractor_ExtractAllAsInterfaces tests the ExtractAllAsInterfaces method
func TestExtractor_ExtractAllAsInterfaces(t *testing.T) {
	t.Parallel()

	t.Run("returns all annotated methods", func(t *testing.T) {
		t.Parallel()

		results, err := executables(t).ExtractAllAsInterfaces(&MultipleAnnotatedMethodRunner{})
		require.NoError(t, err)
		require.Len(t, results, 2)

		assert.Equal(t, "run dreamhead", results[0]("dreamhead"))
		assert.Equal(t, "go dreamhead", results[1]("dreamhead"))
	})

	t.Run("fails when nothing is annotated", func(t *testing.T) {
		t.Parallel()

		_, err := executables(t).ExtractAllAsInterfaces(&NoAnnotatedMethodRunner{})

		assert.ErrorIs(t, err, invokable.ErrNoAnnotatedMethod)
	})

	t.Run("builds interface targets with the adapter", func(t *testing.T) {
		t.Parallel()

		extractor := invokable.MustTo[ExecutableService](invokable.Delegate[Handle](), invokable.WithAdapter(executableAdapter))

		results, err := extractor.ExtractAllAsInterfaces(&MultipleAnnotatedMethodRunner{})
		require.NoError(t, err)

		assert.Equal(t, "run dreamhead", results[0].Execute("dreamhead"))
		assert.Equal(t, "go dreamhead", results[1].Execute("dreamhead"))
	})
}

// TestExtractor_ExtractOne tests the ExtractOne method
func TestExtractor_ExtractOne(t *testing.T) {
	t.Parallel()

	t.Run("extracts the only annotated method", func(t *testing.T) {
		t.Parallel()

		executable, err := executables(t).ExtractOne(&Runner{})
		require.NoError(t, err)

		assert.Equal(t, "hello dreamhead", executable("dreamhead"))
	})

	t.Run("extracts the first of many annotated methods", func(t *testing.T) {
		t.Parallel()

		executable, err := executables(t).ExtractOne(&MultipleAnnotatedMethodRunner{})
		require.NoError(t, err)

		assert.Equal(t, "run dreamhead", executable("dreamhead"))
	})

	t.Run("fails on many annotated methods with the strict policy", func(t *testing.T) {
		t.Parallel()

		_, err := executables(t, invokable.WithSinglePolicy(invokable.SingleStrict)).ExtractOne(&MultipleAnnotatedMethodRunner{})

		assert.ErrorIs(t, err, invokable.ErrAmbiguousAnnotatedMethod)
		assert.ErrorIs(t, err, invokable.ErrIllegalArgument)
	})

	t.Run("fails when nothing is annotated", func(t *testing.T) {
		t.Parallel()

		executable, err := executables(t).ExtractOne(&NoAnnotatedMethodRunner{})

		assert.ErrorIs(t, err, invokable.ErrNoAnnotatedMethod)
		assert.Nil(t, executable)
	})

	t.Run("builds interface targets with the adapter", func(t *testing.T) {
		t.Parallel()

		extractor := invokable.MustTo[ExecutableService](invokable.Delegate[Handle](), invokable.WithAdapter(executableAdapter))

		service, err := extractor.ExtractOne(&Runner{})
		require.NoError(t, err)

		assert.Equal(t, "hello dreamhead", service.Execute("dreamhead"))
	})

	t.Run("fails when the adapter returns nil", func(t *testing.T) {
		t.Parallel()

		extractor := invokable.MustTo[ExecutableService](invokable.Delegate[Handle](),
			invokable.WithAdapter(func(func(string) string) ExecutableService { return nil }))

		service, err := extractor.ExtractOne(&Runner{})
		assert.ErrorIs(t, err, invokable.ErrInvalidAdapter)
		assert.Nil(t, service)

		_, err = extractor.ExtractAllAsInterfaces(&Runner{})
		assert.ErrorIs(t, err, invokable.ErrInvalidAdapter)

		invoker, err := extractor.ExtractOneWithAnnotation(&Runner{})
		require.NoError(t, err)

		func() {
			defer func() {
				err, ok := recover().(error)
				require.True(t, ok)
				assert.ErrorIs(t, err, invokable.ErrInvalidAdapter)
			}()

			invoker.AsInterface()
		}()
	})

	t.Run("MustExtractOne panics on error", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			executables(t).MustExtractOne(&NoAnnotatedMethodRunner{})
		})

		assert.Equal(t, "hello dreamhead", executables(t).MustExtractOne(&Runner{})("dreamhead"))
	})
}

// TestExtractor_ExtractOneWithAnnotation tests the ExtractOneWithAnnotation method
func TestExtractor_ExtractOneWithAnnotation(t *testing.T) {
	t.Parallel()

	t.Run("exposes the annotation", func(t *testing.T) {
		t.Parallel()

		invoker, err := executables(t).ExtractOneWithAnnotation(&Runner{})
		require.NoError(t, err)

		assert.Equal(t, "hello dreamhead", invoker.AsInterface()("dreamhead"))
		assert.Equal(t, Handle{Value: "runner"}, invoker.Annotation())
	})

	t.Run("fails when nothing is annotated", func(t *testing.T) {
		t.Parallel()

		_, err := executables(t).ExtractOneWithAnnotation(&NoAnnotatedMethodRunner{})

		assert.ErrorIs(t, err, invokable.ErrNoAnnotatedMethod)
	})

	t.Run("matches interface markers", func(t *testing.T) {
		t.Parallel()

		extractor := invokable.MustTo[Executable](invokable.Delegate[Tagged]())

		invoker, err := extractor.ExtractOneWithAnnotation(&DeclaringRunner{})
		require.NoError(t, err)

		assert.Equal(t, "tagged", invoker.Annotation().Tag())
		assert.Equal(t, "tagged dreamhead", invoker.AsInterface()("dreamhead"))
	})

	t.Run("MustExtractAll panics on error", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			executables(t).MustExtractAll(&NoAnnotatedMethodRunner{})
		})
	})
}
