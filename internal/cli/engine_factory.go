package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/cadence"
	"github.com/aretw0/cadence/pkg/adapters/htmldom"
	"github.com/aretw0/cadence/pkg/adapters/redis"
	"github.com/aretw0/cadence/pkg/adapters/webanim"
	"github.com/aretw0/cadence/pkg/domain"
	"github.com/aretw0/cadence/pkg/observability"
	"github.com/aretw0/cadence/pkg/registry"
	"github.com/aretw0/cadence/pkg/scheduler"
)

// RedisPasswordEnv names the variable holding the password of Options.Redis.
const RedisPasswordEnv = "CADENCE_REDIS_PASSWORD"

const emptyDocument = `<!DOCTYPE html><html><head></head><body></body></html>`

// Session is an engine together with the document its elements live in.
type Session struct {
	Engine   *cadence.Engine
	Document *htmldom.Document
	Logger   *slog.Logger
}

// NewSession initializes an engine with standard CLI conventions: the
// driver comes from the default registry, completions queue on the engine
// and lifecycle events are logged.
func NewSession(opts Options, extra ...cadence.Option) (*Session, error) {
	logger, err := createLogger(opts.LogLevel)
	if err != nil {
		return nil, err
	}

	doc, err := loadDocument(opts.HTML)
	if err != nil {
		return nil, err
	}

	name := opts.Driver
	if name == "" {
		name = DefaultDriver
	}
	queue := scheduler.NewQueue()
	driver, err := registry.Default().Driver(name, registry.Env{
		Document:  doc,
		Host:      doc,
		Scheduler: queue,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}

	engineOpts := []cadence.Option{
		cadence.WithDriver(driver),
		cadence.WithQueue(queue),
		cadence.WithLogger(logger),
		cadence.WithLifecycleHooks(observability.Chain(observability.Logging(logger), opts.Hooks)),
	}
	if name == webanim.Backend {
		engineOpts = append(engineOpts, cadence.WithNormalizer(webanim.Normalizer{}))
	}
	if opts.Redis != "" {
		engineOpts = append(engineOpts, cadence.WithLoader(redis.New(opts.Redis, os.Getenv(RedisPasswordEnv), 0)))
	}

	engine, err := cadence.New(opts.Dir, append(engineOpts, extra...)...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return &Session{Engine: engine, Document: doc, Logger: logger}, nil
}

// Load registers every definition of the session's directory.
func (s *Session) Load(ctx context.Context) (int, error) {
	if s.Engine.Loader() == nil {
		return 0, nil
	}
	return s.Engine.LoadAll(ctx)
}

// Element resolves selector in the session document. An empty selector
// means the body.
func (s *Session) Element(selector string) (domain.Element, error) {
	if selector == "" {
		selector = "body"
	}
	el := s.Document.QuerySelector(selector)
	if el == nil {
		return nil, fmt.Errorf("no element matches %q", selector)
	}
	return el, nil
}

func loadDocument(path string) (*htmldom.Document, error) {
	if path == "" {
		return htmldom.ParseString(emptyDocument)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()
	return htmldom.Parse(f)
}
