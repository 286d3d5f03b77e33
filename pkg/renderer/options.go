package renderer

import "log/slog"

// DefaultComponentTag is the tag of the container element inserted for a
// child component.
const DefaultComponentTag = "blazor-component"

// MaxElementDepth limits the nesting depth of an inserted frame subtree.
const MaxElementDepth = 256

// Event is raised when a bound listener fires.
type Event struct {
	RendererID     int32
	EventHandlerID int32
	ComponentID    int32  // Component owning the handler
	EventType      string // "click", "input", ...
	Value          string
}

// Config configures a Renderer.
type Config struct {
	// Logger receives debug logs for every operation (default: slog.Default()).
	Logger *slog.Logger

	// ComponentTag is the container tag for child components.
	ComponentTag string

	// OnEvent is called when a bound listener fires. When nil, events are
	// logged and dropped.
	OnEvent func(Event)
}

// Option configures a Renderer.
type Option func(*Config)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithComponentTag sets the child component container tag.
func WithComponentTag(tag string) Option {
	return func(c *Config) {
		c.ComponentTag = tag
	}
}

// WithEventHandler sets the callback for fired listeners.
func WithEventHandler(fn func(Event)) Option {
	return func(c *Config) {
		c.OnEvent = fn
	}
}

func defaultConfig() Config {
	return Config{
		Logger:       slog.Default(),
		ComponentTag: DefaultComponentTag,
	}
}

func buildConfig(opts []Option) Config {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.ComponentTag == "" {
		config.ComponentTag = DefaultComponentTag
	}
	return config
}
