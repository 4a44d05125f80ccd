package invokable

import (
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/zhulik/invokable/pkg/annotations"
)

var (
	configValidator = validator.New()
)

// SinglePolicy decides what single-method extractions do when several methods are annotated.
type SinglePolicy string

const (
	// SingleFirst takes the first annotated method in discovery order.
	SingleFirst SinglePolicy = "first"
	// SingleStrict fails with ErrAmbiguousAnnotatedMethod.
	SingleStrict SinglePolicy = "strict"
)

// Config is the configuration of an Extractor.
type Config struct {
	Registry     *annotations.Registry `validate:"required"`
	Logger       *slog.Logger          `validate:"required"`
	SinglePolicy SinglePolicy          `validate:"oneof=first strict"`

	// Adapter turns a func into the target interface, it is required for interface targets.
	// It must have the signature func(F) I, where F is a func type with the signature of the interface method.
	Adapter any
}

// Option configures an Extractor.
type Option func(*Config)

// WithRegistry makes the Extractor read annotations from r instead of the default registry.
func WithRegistry(r *annotations.Registry) Option {
	return func(c *Config) {
		c.Registry = r
	}
}

// WithLogger sets the logger used by the Extractor.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithAdapter sets the adapter used to build interface targets.
func WithAdapter(adapter any) Option {
	return func(c *Config) {
		c.Adapter = adapter
	}
}

// WithSinglePolicy sets the policy of single-method extractions.
func WithSinglePolicy(policy SinglePolicy) Option {
	return func(c *Config) {
		c.SinglePolicy = policy
	}
}

func newConfig(opts ...Option) *Config {
	c := &Config{
		Registry:     defaultRegistry,
		Logger:       slog.New(slog.DiscardHandler),
		SinglePolicy: SingleFirst,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := configValidator.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return nil
}
