package registry

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/aretw0/cadence/pkg/adapters/csskeyframes"
	"github.com/aretw0/cadence/pkg/adapters/noop"
	"github.com/aretw0/cadence/pkg/adapters/webanim"
	"github.com/aretw0/cadence/pkg/ports"
	"github.com/aretw0/cadence/pkg/scheduler"
)

// Env is what a driver factory may build on. Document and Host may be nil
// for drivers that do not need a document.
type Env struct {
	Document  ports.Document
	Host      ports.StyleSheetHost
	Scheduler scheduler.Scheduler
	Logger    *slog.Logger
}

// DriverFactory builds a driver for env.
type DriverFactory func(env Env) (ports.Driver, error)

// Registry maps backend names to driver factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]DriverFactory
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]DriverFactory),
	}
}

// Default returns a registry holding the built-in backends: "noop",
// "css-keyframes" and "web-animations".
func Default() *Registry {
	r := NewRegistry()
	r.Register("noop", func(env Env) (ports.Driver, error) {
		opts := []noop.Option{noop.WithScheduler(env.Scheduler)}
		if env.Document != nil {
			opts = append(opts, noop.WithDocument(env.Document))
		}
		return noop.New(opts...), nil
	})
	r.Register(csskeyframes.Backend, func(env Env) (ports.Driver, error) {
		if err := env.requireDocument(csskeyframes.Backend); err != nil {
			return nil, err
		}
		return csskeyframes.New(env.Document, env.Host,
			csskeyframes.WithLogger(env.Logger),
			csskeyframes.WithScheduler(env.Scheduler),
		), nil
	})
	r.Register(webanim.Backend, func(env Env) (ports.Driver, error) {
		if err := env.requireDocument(webanim.Backend); err != nil {
			return nil, err
		}
		return webanim.New(env.Document, env.Host,
			webanim.WithLogger(env.Logger),
			webanim.WithScheduler(env.Scheduler),
			webanim.WithTimeline(webanim.NewTimeline()),
		), nil
	})
	return r
}

// Register adds a factory. An existing factory of the same name is
// overwritten.
func (r *Registry) Register(name string, fn DriverFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = fn
}

// Driver builds the driver registered as name.
func (r *Registry) Driver(name string, env Env) (ports.Driver, error) {
	r.mu.RLock()
	fn, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("driver not found: %s (available: %v)", name, r.Names())
	}
	if env.Scheduler == nil {
		env.Scheduler = scheduler.Immediate
	}
	return fn(env)
}

// Names lists the registered backends, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (env Env) requireDocument(name string) error {
	if env.Document == nil || env.Host == nil {
		return fmt.Errorf("driver %s needs a document", name)
	}
	return nil
}
