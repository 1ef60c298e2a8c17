package loaderplugin

import (
	"log/slog"
	"sort"
	"sync"
)

// SynthesizeFunc builds a handler for a loader name nothing was registered
// under. Returning nil means the name stays unknown. It runs with the
// registry locked and must not call back into the registry.
type SynthesizeFunc func(r *Registry, name string) Handler

// AutogenLoaders synthesizes an AutogenLoaderHandler for any loader name,
// sharing the registry's handler options.
func AutogenLoaders(r *Registry, name string) Handler {
	return &AutogenLoaderHandler{
		LoaderHandler: NewLoaderHandler(r, name, r.handlerOpts...),
	}
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithSynthesizer sets the fallback used by GetRecord on a miss.
func WithSynthesizer(fn SynthesizeFunc) RegistryOption {
	return func(r *Registry) {
		r.synthesize = fn
	}
}

// WithRegistryLogger sets the registry logger.
func WithRegistryLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithHandlerOptions sets the options applied to synthesized handlers.
func WithHandlerOptions(opts ...HandlerOption) RegistryOption {
	return func(r *Registry) {
		r.handlerOpts = opts
	}
}

// Registry maps loader names to handlers. Lookups that miss may be served by
// an injected synthesizer, whose results are cached.
type Registry struct {
	name string

	mu       sync.RWMutex
	handlers map[string]Handler

	synthesize  SynthesizeFunc
	handlerOpts []HandlerOption
	logger      *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(name string, opts ...RegistryOption) *Registry {
	r := &Registry{
		name:     name,
		handlers: make(map[string]Handler),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.New(slog.DiscardHandler)
	}
	return r
}

// Name returns the registry name.
func (r *Registry) Name() string {
	return r.name
}

// HandlerOptions returns the options configured for handlers of this registry.
func (r *Registry) HandlerOptions() []HandlerOption {
	return r.handlerOpts
}

// Register adds h under its name, replacing any previous handler.
func (r *Registry) Register(h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[h.Name()] = h
}

// Get returns the handler registered under name.
func (r *Registry) Get(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[name]
	return h, ok
}

// Names returns all registered handler names (sorted).
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered handlers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers)
}

// GetRecord returns the handler for the loader prefix of modname.
func (r *Registry) GetRecord(modname string) (Handler, error) {
	name := PluginName(modname)
	if h, ok := r.Get(name); ok {
		return h, nil
	}

	if h := r.synthesized(name); h != nil {
		return h, nil
	}
	return nil, r.unknown(name)
}

// Peek is GetRecord without side effects: a synthesized handler is returned
// but not cached in the registry.
func (r *Registry) Peek(modname string) (Handler, error) {
	name := PluginName(modname)
	if h, ok := r.Get(name); ok {
		return h, nil
	}
	if r.synthesize != nil {
		if h := r.synthesize(r, name); h != nil {
			return h, nil
		}
	}
	return nil, r.unknown(name)
}

func (r *Registry) unknown(name string) *UnknownHandlerError {
	return &UnknownHandlerError{
		Name:      name,
		Registry:  r.name,
		Available: r.Names(),
	}
}

func (r *Registry) synthesized(name string) Handler {
	if r.synthesize == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	// Another caller may have synthesized it while we waited.
	if h, ok := r.handlers[name]; ok {
		return h
	}
	h := r.synthesize(r, name)
	if h == nil {
		return nil
	}
	r.handlers[name] = h
	r.logger.Debug("generated loader handler",
		slog.String("registry", r.name),
		slog.String("loader", name))
	return h
}
