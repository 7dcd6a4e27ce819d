package cadence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/cadence/internal/logging"
	"github.com/aretw0/cadence/internal/runtime"
	loamAdapter "github.com/aretw0/cadence/pkg/adapters/loam"
	"github.com/aretw0/cadence/pkg/adapters/noop"
	"github.com/aretw0/cadence/pkg/domain"
	"github.com/aretw0/cadence/pkg/dsl"
	"github.com/aretw0/cadence/pkg/observability"
	"github.com/aretw0/cadence/pkg/ports"
	"github.com/aretw0/cadence/pkg/scheduler"
	"github.com/aretw0/cadence/pkg/schema"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Engine is the high-level entry point for the Cadence library.
// It combines the timeline engine (animations registered by id) and the
// trigger engine (state-driven transitions) behind one driver and one
// deferred-callback queue. It is not safe for concurrent use.
type Engine struct {
	timelines *runtime.TimelineEngine
	triggers  *runtime.TriggerEngine
	driver    ports.Driver
	loader    ports.DefinitionLoader
	queue     *scheduler.Queue

	hooks      domain.LifecycleHooks
	logger     *slog.Logger
	tracer     trace.Tracer
	normalizer ports.StyleNormalizer
	enterClass string
	leaveClass string

	definitions map[string]*registration
	Name        string
}

type registration struct {
	kind     domain.DefinitionKind
	schema   schema.Schema
	defaults map[string]any
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithDriver sets the backend. The default is a noop driver queuing its
// completions on the engine queue.
func WithDriver(d ports.Driver) Option {
	return func(e *Engine) {
		e.driver = d
	}
}

// WithLoader injects a DefinitionLoader, bypassing the default Loam loader.
func WithLoader(l ports.DefinitionLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithTracer sets the tracer used for engine spans. The default comes from
// the global OpenTelemetry provider.
func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) {
		e.tracer = t
	}
}

// WithNormalizer sets the style normalizer applied to keyframes and state styles.
func WithNormalizer(n ports.StyleNormalizer) Option {
	return func(e *Engine) {
		e.normalizer = n
	}
}

// WithClassNames overrides the classes substituted for :enter and :leave.
func WithClassNames(enter, leave string) Option {
	return func(e *Engine) {
		e.enterClass = enter
		e.leaveClass = leave
	}
}

// WithQueue shares q with the engine. Players built by drivers configured
// with the same queue finish when the engine is flushed.
func WithQueue(q *scheduler.Queue) Option {
	return func(e *Engine) {
		e.queue = q
	}
}

// New initializes a Cadence Engine.
// When dir is set and no loader is provided, definitions are read from dir
// through a read-only Loam repository. With neither, definitions can only be
// registered programmatically.
func New(dir string, opts ...Option) (*Engine, error) {
	eng := &Engine{
		definitions: make(map[string]*registration),
		enterClass:  domain.EnterClassName,
		leaveClass:  domain.LeaveClassName,
	}

	for _, opt := range opts {
		opt(eng)
	}

	if eng.loader == nil && dir != "" {
		loader, err := loamAdapter.Open(dir)
		if err != nil {
			return nil, err
		}
		eng.loader = loader
	}
	if dir != "" {
		eng.Name = filepath.Base(filepath.Clean(dir))
	}

	if eng.queue == nil {
		eng.queue = scheduler.NewQueue()
	}
	if eng.driver == nil {
		eng.driver = noop.New(noop.WithScheduler(eng.queue))
	}
	if eng.tracer == nil {
		eng.tracer = observability.Tracer(nil)
	}
	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("engine", eng.Name)
	}

	runtimeOpts := []runtime.EngineOption{
		runtime.WithLogger(eng.logger),
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithNormalizer(eng.normalizer),
		runtime.WithScheduler(eng.queue),
		runtime.WithClassNames(eng.enterClass, eng.leaveClass),
	}
	eng.timelines = runtime.NewTimelineEngine(eng.driver, runtimeOpts...)
	eng.triggers = runtime.NewTriggerEngine(eng.driver, runtimeOpts...)
	return eng, nil
}

// Register compiles metadata and stores it as the animation id.
func (e *Engine) Register(ctx context.Context, id string, metadata domain.Metadata) error {
	ctx, end := observability.StartSpan(ctx, e.tracer, "register", attribute.String("cadence.id", id))
	err := e.timelines.Register(ctx, id, metadata)
	end(err)
	if err == nil {
		e.remember(id, &registration{kind: domain.KindAnimation})
	}
	return err
}

// RegisterTrigger compiles a trigger and makes it available to SetState.
func (e *Engine) RegisterTrigger(ctx context.Context, metadata *domain.TriggerMetadata) error {
	if metadata == nil {
		return fmt.Errorf("%w: nil trigger", domain.ErrInvalidDefinition)
	}
	ctx, end := observability.StartSpan(ctx, e.tracer, "register_trigger", attribute.String("cadence.trigger", metadata.Name))
	err := e.triggers.RegisterTrigger(ctx, metadata)
	end(err)
	if err == nil {
		e.remember(metadata.Name, &registration{kind: domain.KindTrigger})
	}
	return err
}

// RegisterDefinition validates the declared params of def, converts it and
// registers it as an animation or a trigger. The param defaults are applied
// by Create.
func (e *Engine) RegisterDefinition(ctx context.Context, def *domain.Definition) error {
	if def == nil || def.ID == "" {
		return fmt.Errorf("%w: definition without id", domain.ErrInvalidDefinition)
	}
	s, err := schema.FromParams(def.Params)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidDefinition, def.ID, err)
	}
	defaults := def.Defaults()
	if err := schema.ValidateFields(s, defaults, sortedKeys(defaults)...); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidDefinition, def.ID, err)
	}

	if def.EffectiveKind() == domain.KindTrigger {
		metadata, err := dsl.TriggerFromDefinition(def)
		if err != nil {
			return err
		}
		return e.RegisterTrigger(ctx, metadata)
	}

	metadata, err := dsl.FromDefinition(def)
	if err != nil {
		return err
	}
	if err := e.Register(ctx, def.ID, metadata); err != nil {
		return err
	}
	e.remember(def.ID, &registration{kind: domain.KindAnimation, schema: s, defaults: defaults})
	return nil
}

// Load reads the definition id from the loader and registers it.
func (e *Engine) Load(ctx context.Context, id string) error {
	if e.loader == nil {
		return fmt.Errorf("cannot load %s: engine has no loader", id)
	}
	def, err := e.loader.Load(ctx, id)
	if err != nil {
		return err
	}
	return e.RegisterDefinition(ctx, def)
}

// LoadAll registers every definition the loader lists. It keeps going past
// failures and reports them together.
func (e *Engine) LoadAll(ctx context.Context) (int, error) {
	if e.loader == nil {
		return 0, fmt.Errorf("engine has no loader")
	}
	ids, err := e.loader.List(ctx)
	if err != nil {
		return 0, err
	}
	var errs []string
	loaded := 0
	for _, id := range ids {
		if err := e.Load(ctx, id); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", id, err))
			continue
		}
		loaded++
	}
	e.logger.InfoContext(ctx, "definitions loaded", "loaded", loaded, "failed", len(errs))
	if len(errs) > 0 {
		return loaded, fmt.Errorf("found %d errors:\n- %s", len(errs), strings.Join(errs, "\n- "))
	}
	return loaded, nil
}

// Create builds the player for the animation id on el. Params declared by
// the animation's definition are filled from their defaults and validated.
func (e *Engine) Create(ctx context.Context, id string, el domain.Element, options *domain.Options) (ports.Player, error) {
	ctx, end := observability.StartSpan(ctx, e.tracer, "create", attribute.String("cadence.id", id))
	options, err := e.withDefaults(id, options)
	if err != nil {
		end(err)
		return nil, err
	}
	p, err := e.timelines.Create(ctx, id, el, options)
	end(err)
	return p, err
}

// Compile returns the timeline instructions Create would play for id on el
// without creating players.
func (e *Engine) Compile(ctx context.Context, id string, el domain.Element, options *domain.Options) ([]*domain.TimelineInstruction, error) {
	_, end := observability.StartSpan(ctx, e.tracer, "compile", attribute.String("cadence.id", id))
	options, err := e.withDefaults(id, options)
	if err != nil {
		end(err)
		return nil, err
	}
	instructions, err := e.timelines.Compile(id, el, options)
	end(err)
	return instructions, err
}

func (e *Engine) withDefaults(id string, options *domain.Options) (*domain.Options, error) {
	reg, ok := e.definitions[id]
	if !ok || len(reg.schema) == 0 {
		return options, nil
	}
	merged := &domain.Options{Params: make(map[string]any, len(reg.defaults))}
	if options != nil {
		*merged = *options
		merged.Params = make(map[string]any, len(reg.defaults)+len(options.Params))
	}
	for k, v := range reg.defaults {
		merged.Params[k] = v
	}
	if options != nil {
		for k, v := range options.Params {
			merged.Params[k] = v
		}
	}

	var declared []string
	for _, k := range sortedKeys(merged.Params) {
		if _, ok := reg.schema[k]; ok {
			declared = append(declared, k)
		}
	}
	if err := schema.ValidateFields(reg.schema, merged.Params, declared...); err != nil {
		return nil, domain.NewBuildError("create", []string{err.Error()})
	}
	return merged, nil
}

// Command dispatches a timeline command. "register" and "create" go through
// Register and Create so the definition is remembered and its defaults apply.
func (e *Engine) Command(ctx context.Context, id string, el domain.Element, command string, args ...any) error {
	if command == domain.CommandRegister {
		var metadata domain.Metadata
		if len(args) > 0 {
			metadata, _ = args[0].(domain.Metadata)
		}
		return e.Register(ctx, id, metadata)
	}
	if command == domain.CommandCreate {
		var options *domain.Options
		if len(args) > 0 {
			options, _ = args[0].(*domain.Options)
		}
		_, err := e.Create(ctx, id, el, options)
		return err
	}
	ctx, end := observability.StartSpan(ctx, e.tracer, "command",
		attribute.String("cadence.id", id),
		attribute.String("cadence.command", command),
	)
	err := e.timelines.Command(ctx, id, el, command, args...)
	end(err)
	return err
}

// Destroy destroys the player created for id.
func (e *Engine) Destroy(ctx context.Context, id string) error {
	return e.timelines.Destroy(ctx, id)
}

// Listen attaches callback to a phase of the player created for id.
func (e *Engine) Listen(id string, el domain.Element, phase string, callback func(domain.AnimationEvent)) error {
	return e.timelines.Listen(id, el, phase, callback)
}

// Player returns the live player created for id.
func (e *Engine) Player(id string) (ports.Player, error) {
	return e.timelines.Player(id)
}

// Players lists live timeline players in creation order.
func (e *Engine) Players() []ports.Player {
	return e.timelines.Players()
}

// SetState moves trigger on el to value and plays the matching transition.
// The returned player is nil when no transition matched.
func (e *Engine) SetState(ctx context.Context, el domain.Element, trigger string, value any, params map[string]any) (ports.Player, error) {
	ctx, end := observability.StartSpan(ctx, e.tracer, "set_state",
		attribute.String("cadence.trigger", trigger),
		attribute.String("cadence.state", domain.FormatValue(value)),
	)
	p, err := e.triggers.SetState(ctx, el, trigger, value, params)
	end(err)
	return p, err
}

// State returns the current state of trigger on el ("void" until set).
func (e *Engine) State(el domain.Element, trigger string) any {
	return e.triggers.State(el, trigger)
}

// Styles returns the styles of the current state of trigger on el.
func (e *Engine) Styles(el domain.Element, trigger string) (domain.StyleMap, error) {
	return e.triggers.Styles(el, trigger)
}

// ListenTrigger attaches callback to a phase of every transition of trigger on el.
func (e *Engine) ListenTrigger(el domain.Element, trigger, phase string, callback func(domain.AnimationEvent)) {
	e.triggers.Listen(el, trigger, phase, callback)
}

// TriggerPlayers lists the transition players running on el.
func (e *Engine) TriggerPlayers(el domain.Element) []ports.Player {
	return e.triggers.Players(el)
}

// Flush runs deferred player callbacks and returns how many ran. Hosts call
// it at the end of each turn.
func (e *Engine) Flush() int {
	return e.queue.Flush()
}

// Queue returns the deferred-callback queue drained by Flush.
func (e *Engine) Queue() *scheduler.Queue {
	return e.queue
}

// Definitions lists registered animation and trigger names, sorted.
func (e *Engine) Definitions() []string {
	return sortedKeys(e.definitions)
}

// Kind reports whether name is a registered animation or trigger.
func (e *Engine) Kind(name string) (domain.DefinitionKind, bool) {
	reg, ok := e.definitions[name]
	if !ok {
		return "", false
	}
	return reg.kind, true
}

// Params describes the params declared by the definition of an animation.
func (e *Engine) Params(id string) (schema.Schema, map[string]any, error) {
	reg, ok := e.definitions[id]
	if !ok {
		return nil, nil, fmt.Errorf("%s: %w", id, domain.ErrDefinitionNotFound)
	}
	return reg.schema, reg.defaults, nil
}

// Watch returns a channel emitting changed definition ids.
// Returns error if the loader does not support watching.
func (e *Engine) Watch(ctx context.Context) (<-chan string, error) {
	if w, ok := e.loader.(ports.Watchable); ok {
		return w.Watch(ctx)
	}
	return nil, errors.New("current loader does not support watching")
}

// Reload reloads the definition id, typically after Watch reported it.
func (e *Engine) Reload(ctx context.Context, id string) error {
	err := e.Load(ctx, id)
	if err != nil {
		e.logger.WarnContext(ctx, "reload failed", "id", id, "err", err)
	} else {
		e.logger.InfoContext(ctx, "definition reloaded", "id", id)
	}
	return err
}

// Driver returns the backend used by the engine.
func (e *Engine) Driver() ports.Driver {
	return e.driver
}

// Loader returns the DefinitionLoader used by the engine, if any.
func (e *Engine) Loader() ports.DefinitionLoader {
	return e.loader
}

func (e *Engine) remember(name string, reg *registration) {
	e.definitions[name] = reg
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
