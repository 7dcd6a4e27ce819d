package runtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/cadence/internal/compiler"
	"github.com/aretw0/cadence/pkg/domain"
	"github.com/aretw0/cadence/pkg/player"
	"github.com/aretw0/cadence/pkg/ports"
	"github.com/aretw0/cadence/pkg/scheduler"
)

const missingAnimation = "The requested animation doesn't exist or has already been destroyed"

// EngineOption configures the engines of this package.
type EngineOption func(*engineConfig)

type engineConfig struct {
	logger     *slog.Logger
	hooks      domain.LifecycleHooks
	normalizer ports.StyleNormalizer
	scheduler  scheduler.Scheduler
	enterClass string
	leaveClass string
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(c *engineConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(c *engineConfig) { c.hooks = hooks }
}

// WithNormalizer sets the style normalizer applied to keyframes and state styles.
func WithNormalizer(n ports.StyleNormalizer) EngineOption {
	return func(c *engineConfig) { c.normalizer = n }
}

// WithScheduler sets the queue used by group players to defer their finish.
func WithScheduler(s scheduler.Scheduler) EngineOption {
	return func(c *engineConfig) { c.scheduler = s }
}

// WithClassNames overrides the classes substituted for :enter and :leave.
func WithClassNames(enter, leave string) EngineOption {
	return func(c *engineConfig) {
		c.enterClass = enter
		c.leaveClass = leave
	}
}

func newEngineConfig(opts []EngineOption) engineConfig {
	c := engineConfig{
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		scheduler:  scheduler.Immediate,
		enterClass: domain.EnterClassName,
		leaveClass: domain.LeaveClassName,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// TimelineEngine registers reusable animations by id and plays them on
// elements. It is not safe for concurrent use.
type TimelineEngine struct {
	driver     ports.Driver
	cfg        engineConfig
	animations map[string]compiler.Ast
	byID       map[string]ports.Player
	players    []ports.Player
}

func NewTimelineEngine(driver ports.Driver, opts ...EngineOption) *TimelineEngine {
	return &TimelineEngine{
		driver:     driver,
		cfg:        newEngineConfig(opts),
		animations: make(map[string]compiler.Ast),
		byID:       make(map[string]ports.Player),
	}
}

// Register compiles metadata and stores it under id. A failed build leaves a
// previous registration in place.
func (e *TimelineEngine) Register(ctx context.Context, id string, metadata domain.Metadata) error {
	var errors []string
	var ast compiler.Ast
	if metadata == nil {
		errors = append(errors, "no animation metadata was provided")
	} else {
		ast = compiler.BuildAnimationAst(e.driver, metadata, &errors)
	}
	err := domain.NewBuildError("build", errors)
	if err == nil {
		e.animations[id] = ast
		e.cfg.logger.DebugContext(ctx, "animation registered", "id", id)
	} else {
		e.cfg.logger.WarnContext(ctx, "animation rejected", "id", id, "errors", len(errors))
	}
	if e.cfg.hooks.OnRegister != nil {
		e.cfg.hooks.OnRegister(ctx, &domain.RegisterEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventRegister},
			ID:        id,
			Kind:      domain.KindAnimation,
			Error:     err,
		})
	}
	return err
}

// IsRegistered reports whether id names a registered animation.
func (e *TimelineEngine) IsRegistered(id string) bool {
	_, ok := e.animations[id]
	return ok
}

// Create compiles the animation registered as id for el and returns one
// player driving every resulting timeline. Nothing is created on error.
func (e *TimelineEngine) Create(ctx context.Context, id string, el domain.Element, options *domain.Options) (ports.Player, error) {
	p, instructions, err := e.create(id, el, options)
	if e.cfg.hooks.OnCreate != nil {
		ev := &domain.PlayerEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventCreate},
			ID:        id,
			Players:   instructions,
			Error:     err,
		}
		if p != nil {
			ev.TotalTime = p.TotalTime()
		}
		e.cfg.hooks.OnCreate(ctx, ev)
	}
	if err != nil {
		e.cfg.logger.WarnContext(ctx, "animation not created", "id", id, "err", err)
		return nil, err
	}
	e.cfg.logger.DebugContext(ctx, "animation created", "id", id, "timelines", instructions, "total_time", p.TotalTime())
	return p, nil
}

// Compile returns the instructions the animation registered as id produces
// for el without creating any player.
func (e *TimelineEngine) Compile(id string, el domain.Element, options *domain.Options) ([]*domain.TimelineInstruction, error) {
	instructions, _, err := e.compile(id, el, options)
	return instructions, err
}

func (e *TimelineEngine) compile(id string, el domain.Element, options *domain.Options) ([]*domain.TimelineInstruction, map[string]domain.StyleMap, error) {
	var errors []string
	var instructions []*domain.TimelineInstruction
	autoStyles := map[string]domain.StyleMap{}

	ast, ok := e.animations[id]
	if ok {
		instructions = BuildAnimationTimelines(e.driver, el, ast, e.cfg.enterClass, e.cfg.leaveClass,
			domain.StyleMap{}, domain.StyleMap{}, options, nil, &errors)
		for _, inst := range instructions {
			styles, ok := autoStyles[inst.Element.ID()]
			if !ok {
				styles = domain.StyleMap{}
				autoStyles[inst.Element.ID()] = styles
			}
			for _, prop := range inst.PostStyleProps {
				if _, done := styles[prop]; !done {
					styles[prop] = e.driver.ComputeStyle(inst.Element, prop, domain.AutoStyle)
				}
			}
		}
	} else {
		errors = append(errors, missingAnimation)
	}
	if err := domain.NewBuildError("create", errors); err != nil {
		return nil, nil, err
	}
	return instructions, autoStyles, nil
}

func (e *TimelineEngine) create(id string, el domain.Element, options *domain.Options) (ports.Player, int, error) {
	instructions, autoStyles, err := e.compile(id, el, options)
	if err != nil {
		return nil, 0, err
	}

	// keyframes are normalized up front so a failure leaves no players behind
	normalized := make([][]domain.Keyframe, len(instructions))
	for i, inst := range instructions {
		kfs, err := NormalizeKeyframes(e.cfg.normalizer, inst.Keyframes, domain.StyleMap{}, autoStyles[inst.Element.ID()])
		if err != nil {
			return nil, 0, err
		}
		normalized[i] = kfs
	}

	players := make([]ports.Player, 0, len(instructions))
	for i, inst := range instructions {
		players = append(players, e.driver.Animate(inst.Element, normalized[i], inst.Duration, inst.Delay, inst.Easing, nil, true))
	}

	p := player.OptimizeGroupPlayer(players, player.WithScheduler(e.cfg.scheduler))
	e.byID[id] = p
	p.OnDestroy(func() { e.forget(id, p) })
	e.players = append(e.players, p)
	return p, len(instructions), nil
}

// Destroy destroys the player created for id and forgets it.
func (e *TimelineEngine) Destroy(ctx context.Context, id string) error {
	p, err := e.player(id)
	if err == nil {
		p.Destroy()
		e.forget(id, p)
	}
	if e.cfg.hooks.OnDestroy != nil {
		e.cfg.hooks.OnDestroy(ctx, &domain.PlayerEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventDestroy},
			ID:        id,
			Error:     err,
		})
	}
	return err
}

func (e *TimelineEngine) forget(id string, p ports.Player) {
	if current, ok := e.byID[id]; ok && current == p {
		delete(e.byID, id)
	}
	for i, candidate := range e.players {
		if candidate == p {
			e.players = append(e.players[:i], e.players[i+1:]...)
			break
		}
	}
}

func (e *TimelineEngine) player(id string) (ports.Player, error) {
	p, ok := e.byID[id]
	if !ok {
		return nil, fmt.Errorf("unable to find the timeline player referenced by %s: %w", id, domain.ErrPlayerNotFound)
	}
	return p, nil
}

// Player returns the live player created for id.
func (e *TimelineEngine) Player(id string) (ports.Player, error) { return e.player(id) }

// Players lists live players in creation order.
func (e *TimelineEngine) Players() []ports.Player { return append([]ports.Player(nil), e.players...) }

// Listen attaches callback to the start, done or destroy phase of the player
// created for id. Other phases are ignored.
func (e *TimelineEngine) Listen(id string, el domain.Element, phase string, callback func(domain.AnimationEvent)) error {
	p, err := e.player(id)
	if err != nil {
		return err
	}
	ListenOnPlayer(p, phase, domain.AnimationEvent{Element: el}, callback)
	return nil
}

// Command dispatches a textual timeline command. Unknown commands are
// ignored once a player exists for id.
func (e *TimelineEngine) Command(ctx context.Context, id string, el domain.Element, command string, args ...any) error {
	err := e.command(ctx, id, el, command, args)
	if e.cfg.hooks.OnCommand != nil {
		e.cfg.hooks.OnCommand(ctx, &domain.CommandEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventCommand},
			ID:        id,
			Command:   command,
			Error:     err,
		})
	}
	return err
}

func (e *TimelineEngine) command(ctx context.Context, id string, el domain.Element, command string, args []any) error {
	switch command {
	case domain.CommandRegister:
		var metadata domain.Metadata
		if len(args) > 0 {
			metadata, _ = args[0].(domain.Metadata)
		}
		return e.Register(ctx, id, metadata)
	case domain.CommandCreate:
		var options *domain.Options
		if len(args) > 0 {
			options, _ = args[0].(*domain.Options)
		}
		_, err := e.Create(ctx, id, el, options)
		return err
	}

	p, err := e.player(id)
	if err != nil {
		return err
	}
	switch command {
	case domain.CommandPlay:
		p.Play()
	case domain.CommandPause:
		p.Pause()
	case domain.CommandReset:
		p.Reset()
	case domain.CommandRestart:
		p.Restart()
	case domain.CommandFinish:
		p.Finish()
	case domain.CommandInit:
		p.Init()
	case domain.CommandSetPosition:
		var pos any
		if len(args) > 0 {
			pos = args[0]
		}
		p.SetPosition(domain.ParseFloat(pos))
	case domain.CommandDestroy:
		return e.Destroy(ctx, id)
	}
	return nil
}

// ListenOnPlayer forwards a player phase to callback with a copy of base
// carrying the phase name and the player's total time.
func ListenOnPlayer(p ports.Player, phase string, base domain.AnimationEvent, callback func(domain.AnimationEvent)) {
	fire := func() {
		ev := base
		ev.PhaseName = phase
		ev.TotalTime = p.TotalTime()
		callback(ev)
	}
	switch phase {
	case domain.PhaseStart:
		p.OnStart(fire)
	case domain.PhaseDone:
		p.OnDone(fire)
	case domain.PhaseDestroy:
		p.OnDestroy(fire)
	}
}
