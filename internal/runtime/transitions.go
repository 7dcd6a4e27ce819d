package runtime

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/aretw0/cadence/internal/compiler"
	"github.com/aretw0/cadence/pkg/domain"
	"github.com/aretw0/cadence/pkg/player"
	"github.com/aretw0/cadence/pkg/ports"
	"github.com/aretw0/cadence/pkg/styles"
)

type stateValue struct {
	value  any
	params map[string]any
}

type runningTransition struct {
	trigger string
	player  ports.Player
	players []ports.Player
}

type triggerListener struct {
	phase    string
	callback func(domain.AnimationEvent)
}

// TriggerEngine tracks the state of every trigger on every element and plays
// the matching transition when a state changes. It is not safe for
// concurrent use.
type TriggerEngine struct {
	driver    ports.Driver
	cfg       engineConfig
	triggers  map[string]*Trigger
	states    map[string]map[string]stateValue
	running   map[string][]*runningTransition
	listeners map[string]map[string][]triggerListener
}

func NewTriggerEngine(driver ports.Driver, opts ...EngineOption) *TriggerEngine {
	return &TriggerEngine{
		driver:    driver,
		cfg:       newEngineConfig(opts),
		triggers:  make(map[string]*Trigger),
		states:    make(map[string]map[string]stateValue),
		running:   make(map[string][]*runningTransition),
		listeners: make(map[string]map[string][]triggerListener),
	}
}

// RegisterTrigger compiles metadata and makes it available by name, replacing
// any trigger of the same name. A failed build keeps the previous one.
func (e *TriggerEngine) RegisterTrigger(ctx context.Context, metadata *domain.TriggerMetadata) error {
	var errors []string
	ast := compiler.BuildTriggerAst(e.driver, metadata, &errors)
	err := domain.NewBuildError("build", errors)
	if err == nil {
		e.triggers[ast.Name] = BuildTrigger(ast.Name, ast, e.cfg.normalizer)
		e.cfg.logger.DebugContext(ctx, "trigger registered", "trigger", ast.Name,
			"states", len(ast.States), "transitions", len(ast.Transitions))
	}
	if e.cfg.hooks.OnRegister != nil {
		name := ""
		if metadata != nil {
			name = metadata.Name
		}
		e.cfg.hooks.OnRegister(ctx, &domain.RegisterEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventRegister},
			ID:        name,
			Kind:      domain.KindTrigger,
			Error:     err,
		})
	}
	return err
}

// Trigger returns a registered trigger.
func (e *TriggerEngine) Trigger(name string) (*Trigger, bool) {
	t, ok := e.triggers[name]
	return t, ok
}

// State returns the current state of a trigger on el; void until first set.
func (e *TriggerEngine) State(el domain.Element, trigger string) any {
	if s, ok := e.states[el.ID()][trigger]; ok {
		return s.value
	}
	return domain.VoidState
}

// Styles resolves the styles of the current state of trigger on el.
func (e *TriggerEngine) Styles(el domain.Element, trigger string) (domain.StyleMap, error) {
	t, ok := e.triggers[trigger]
	if !ok {
		return nil, fmt.Errorf("trigger %q: %w", trigger, domain.ErrTriggerNotFound)
	}
	current := e.current(el, trigger)
	var errors []string
	out := t.MatchStyles(current.value, current.params, &errors)
	return out, domain.NewBuildError("animate", errors)
}

func (e *TriggerEngine) current(el domain.Element, trigger string) stateValue {
	if s, ok := e.states[el.ID()][trigger]; ok {
		return s
	}
	return stateValue{value: domain.VoidState}
}

// Listen registers callback for a phase of every transition trigger plays on el.
func (e *TriggerEngine) Listen(el domain.Element, trigger, phase string, callback func(domain.AnimationEvent)) {
	byTrigger, ok := e.listeners[el.ID()]
	if !ok {
		byTrigger = make(map[string][]triggerListener)
		e.listeners[el.ID()] = byTrigger
	}
	byTrigger[trigger] = append(byTrigger[trigger], triggerListener{phase: phase, callback: callback})
}

// Players lists the transitions still running on el.
func (e *TriggerEngine) Players(el domain.Element) []ports.Player {
	var out []ports.Player
	for _, r := range e.running[el.ID()] {
		out = append(out, r.player)
	}
	return out
}

// SetState moves trigger on el to value and plays the first transition that
// matches the change. It returns nil when no transition matches; the state is
// recorded either way.
func (e *TriggerEngine) SetState(ctx context.Context, el domain.Element, trigger string, value any, params map[string]any) (ports.Player, error) {
	t, ok := e.triggers[trigger]
	if !ok {
		return nil, fmt.Errorf("trigger %q: %w", trigger, domain.ErrTriggerNotFound)
	}
	from := e.current(el, trigger)
	to := stateValue{value: value, params: params}

	p, instr, err := e.transition(ctx, t, el, from, to)
	if e.cfg.hooks.OnTransition != nil {
		ev := &domain.TransitionEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventTransition},
			Trigger:   trigger,
			FromState: domain.FormatValue(from.value),
			ToState:   domain.FormatValue(value),
			Matched:   p != nil,
			Error:     err,
		}
		if instr != nil {
			ev.TotalTime = instr.TotalTime
		}
		e.cfg.hooks.OnTransition(ctx, ev)
	}
	return p, err
}

func (e *TriggerEngine) transition(ctx context.Context, t *Trigger, el domain.Element, from, to stateValue) (ports.Player, *TransitionInstruction, error) {
	styled, _ := el.(ports.Styled)

	if domain.FormatValue(from.value) == domain.FormatValue(to.value) {
		if !reflect.DeepEqual(from.params, to.params) && styled != nil {
			var errors []string
			fromStyles := t.MatchStyles(from.value, from.params, &errors)
			toStyles := t.MatchStyles(to.value, to.params, &errors)
			if len(errors) > 0 {
				e.cfg.logger.WarnContext(ctx, "state params not applied", "trigger", t.Name(), "errors", errors)
			} else {
				styles.EraseStyles(styled, fromStyles)
				styles.SetStyles(styled, toStyles, nil)
			}
		}
		e.record(el, t.Name(), to)
		return nil, nil, nil
	}

	factory := t.MatchTransition(from.value, to.value, el, to.params)
	e.record(el, t.Name(), to)
	if factory == nil {
		if styled != nil {
			var errors []string
			styles.SetStyles(styled, t.MatchStyles(to.value, to.params, &errors), nil)
		}
		e.cfg.logger.DebugContext(ctx, "no transition matched", "trigger", t.Name(),
			"from", domain.FormatValue(from.value), "to", domain.FormatValue(to.value))
		return nil, nil, nil
	}

	instr := factory.Build(e.driver, el, from.value, to.value, BuildOptions{
		EnterClassName: e.cfg.enterClass,
		LeaveClassName: e.cfg.leaveClass,
		CurrentOptions: &domain.Options{Params: from.params},
		NextOptions:    &domain.Options{Params: to.params},
	})
	if err := domain.NewBuildError("animate", instr.Errors); err != nil {
		return nil, instr, err
	}

	previous := e.interrupt(el, t.Name())

	keyframes := make([][]domain.Keyframe, len(instr.Timelines))
	for i, tl := range instr.Timelines {
		id := tl.Element.ID()
		pre := e.computeStyles(tl.Element, instr.PreStyleProps[id])
		post := e.computeStyles(tl.Element, instr.PostStyleProps[id])
		kfs, err := NormalizeKeyframes(e.cfg.normalizer, tl.Keyframes, pre, post)
		if err != nil {
			return nil, instr, err
		}
		keyframes[i] = kfs
	}

	players := make([]ports.Player, 0, len(instr.Timelines))
	for i, tl := range instr.Timelines {
		var prev []ports.Player
		if sameElement(tl.Element, el) {
			prev = previous
		}
		players = append(players, e.driver.Animate(tl.Element, keyframes[i], tl.Duration, tl.Delay, tl.Easing, prev, false))
	}
	for _, p := range previous {
		p.Destroy()
	}

	group := player.OptimizeGroupPlayer(players, player.WithScheduler(e.cfg.scheduler))
	run := &runningTransition{trigger: t.Name(), player: group, players: players}
	e.running[el.ID()] = append(e.running[el.ID()], run)

	if styled != nil {
		group.OnStart(func() { styles.EraseStyles(styled, instr.FromStyles) })
		group.OnDone(func() { styles.SetStyles(styled, instr.ToStyles, nil) })
	}
	group.OnDone(func() { e.finished(el, run) })
	group.OnDestroy(func() { e.finished(el, run) })

	base := domain.AnimationEvent{
		Element:     el,
		TriggerName: t.Name(),
		FromState:   instr.FromState,
		ToState:     instr.ToState,
	}
	for _, l := range e.listeners[el.ID()][t.Name()] {
		ListenOnPlayer(group, l.phase, base, l.callback)
	}

	e.cfg.logger.DebugContext(ctx, "transition started", "trigger", t.Name(),
		"from", instr.FromState, "to", instr.ToState, "timelines", len(instr.Timelines), "total_time", instr.TotalTime)
	group.Play()
	return group, instr, nil
}

func (e *TriggerEngine) record(el domain.Element, trigger string, s stateValue) {
	byTrigger, ok := e.states[el.ID()]
	if !ok {
		byTrigger = make(map[string]stateValue)
		e.states[el.ID()] = byTrigger
	}
	byTrigger[trigger] = s
}

// interrupt captures the styles of the players still running trigger on el
// and returns them so the follow-up animation can start where they stopped.
func (e *TriggerEngine) interrupt(el domain.Element, trigger string) []ports.Player {
	var previous []ports.Player
	for _, r := range e.running[el.ID()] {
		if r.trigger != trigger {
			continue
		}
		for _, p := range r.players {
			if i, ok := p.(ports.Interruptible); ok {
				i.BeforeDestroy()
			}
			previous = append(previous, p)
		}
	}
	return previous
}

func (e *TriggerEngine) finished(el domain.Element, run *runningTransition) {
	list := e.running[el.ID()]
	for i, r := range list {
		if r == run {
			list = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(e.running, el.ID())
	} else {
		e.running[el.ID()] = list
	}
}

func (e *TriggerEngine) computeStyles(el domain.Element, props map[string]bool) domain.StyleMap {
	out := domain.StyleMap{}
	for prop := range props {
		out[prop] = e.driver.ComputeStyle(el, prop, domain.AutoStyle)
	}
	return out
}
