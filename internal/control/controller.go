// Package control serializes access to a Cadence engine for transports that
// serve requests from several goroutines, and speaks in selectors and plain
// values instead of elements and players.
package control

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/aretw0/cadence"
	"github.com/aretw0/cadence/pkg/domain"
)

// ErrElementNotFound is returned when a selector designates no element.
var ErrElementNotFound = errors.New("element not found")

// Resolver finds the element a selector designates.
type Resolver func(selector string) (domain.Element, error)

// Controller wraps an engine with a mutex. Every method flushes the engine
// queue before returning, so a request observes the callbacks it caused.
type Controller struct {
	mu      sync.Mutex
	engine  *cadence.Engine
	resolve Resolver
}

// DefinitionInfo describes a registered animation or trigger.
type DefinitionInfo struct {
	ID     string   `json:"id"`
	Kind   string   `json:"kind"`
	Params []string `json:"params,omitempty"`
}

// PlayerInfo describes the player created for an animation.
type PlayerInfo struct {
	ID        string  `json:"id"`
	TotalTime float64 `json:"total_time"`
}

// StateInfo describes the state of a trigger on an element.
type StateInfo struct {
	Trigger   string          `json:"trigger"`
	Selector  string          `json:"selector"`
	State     string          `json:"state"`
	Previous  string          `json:"previous,omitempty"`
	Matched   bool            `json:"matched"`
	TotalTime float64         `json:"total_time"`
	Styles    domain.StyleMap `json:"styles,omitempty"`
}

// Instruction is the JSON form of a compiled timeline instruction.
type Instruction struct {
	Element   string            `json:"element"`
	Duration  float64           `json:"duration"`
	Delay     float64           `json:"delay"`
	TotalTime float64           `json:"total_time"`
	Easing    string            `json:"easing,omitempty"`
	Keyframes []domain.Keyframe `json:"keyframes"`
}

// Timeline is what an animation compiles to on one element.
type Timeline struct {
	ID           string        `json:"id"`
	Instructions []Instruction `json:"instructions"`
}

func New(engine *cadence.Engine, resolve Resolver) *Controller {
	return &Controller{engine: engine, resolve: resolve}
}

// Definitions lists every registered definition.
func (c *Controller) Definitions() []DefinitionInfo {
	c.mu.Lock()
	defer c.mu.Unlock()

	names := c.engine.Definitions()
	out := make([]DefinitionInfo, 0, len(names))
	for _, name := range names {
		kind, _ := c.engine.Kind(name)
		info := DefinitionInfo{ID: name, Kind: string(kind)}
		if s, _, err := c.engine.Params(name); err == nil && len(s) > 0 {
			info.Params = s.Describe()
		}
		out = append(out, info)
	}
	return out
}

// Reload registers the definition id again from the engine loader.
func (c *Controller) Reload(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine.Reload(ctx, id)
}

// Create creates the player for the animation id on the element selector
// designates. The player is not started; play it with Command.
func (c *Controller) Create(ctx context.Context, id, selector string, params map[string]any) (PlayerInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.engine.Flush()

	el, err := c.element(selector)
	if err != nil {
		return PlayerInfo{}, err
	}
	p, err := c.engine.Create(ctx, id, el, &domain.Options{Params: params})
	if err != nil {
		return PlayerInfo{}, err
	}
	return PlayerInfo{ID: id, TotalTime: p.TotalTime()}, nil
}

// Command forwards a timeline command to the player of id. position is read
// by setPosition only.
func (c *Controller) Command(ctx context.Context, id, command string, position float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.engine.Flush()

	switch command {
	case domain.CommandRegister, domain.CommandCreate:
		return fmt.Errorf("command %q is not available here", command)
	case domain.CommandSetPosition:
		return c.engine.Command(ctx, id, nil, command, position)
	}
	return c.engine.Command(ctx, id, nil, command)
}

// Destroy destroys the player of id.
func (c *Controller) Destroy(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.engine.Flush()
	return c.engine.Destroy(ctx, id)
}

// Compile returns the instructions the animation id produces on the element
// selector designates, without creating a player.
func (c *Controller) Compile(ctx context.Context, id, selector string, params map[string]any) (Timeline, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, err := c.element(selector)
	if err != nil {
		return Timeline{}, err
	}
	instructions, err := c.engine.Compile(ctx, id, el, &domain.Options{Params: params})
	if err != nil {
		return Timeline{}, err
	}
	out := Timeline{ID: id, Instructions: make([]Instruction, 0, len(instructions))}
	for _, inst := range instructions {
		out.Instructions = append(out.Instructions, Instruction{
			Element:   inst.Element.ID(),
			Duration:  inst.Duration,
			Delay:     inst.Delay,
			TotalTime: inst.TotalTime,
			Easing:    inst.Easing,
			Keyframes: inst.Keyframes,
		})
	}
	return out, nil
}

// SetState moves trigger to value on the element selector designates.
func (c *Controller) SetState(ctx context.Context, trigger, selector, value string, params map[string]any) (StateInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.engine.Flush()

	el, err := c.element(selector)
	if err != nil {
		return StateInfo{}, err
	}
	previous := domain.FormatValue(c.engine.State(el, trigger))
	p, err := c.engine.SetState(ctx, el, trigger, value, params)
	if err != nil {
		return StateInfo{}, err
	}
	info := StateInfo{Trigger: trigger, Selector: selector, State: value, Previous: previous, Matched: p != nil}
	if p != nil {
		info.TotalTime = p.TotalTime()
	}
	info.Styles, _ = c.engine.Styles(el, trigger)
	return info, nil
}

// State reports the current state of trigger on the element selector
// designates.
func (c *Controller) State(trigger, selector string) (StateInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, err := c.element(selector)
	if err != nil {
		return StateInfo{}, err
	}
	styles, err := c.engine.Styles(el, trigger)
	if err != nil {
		return StateInfo{}, err
	}
	return StateInfo{
		Trigger:  trigger,
		Selector: selector,
		State:    domain.FormatValue(c.engine.State(el, trigger)),
		Styles:   styles,
	}, nil
}

func (c *Controller) element(selector string) (domain.Element, error) {
	el, err := c.resolve(selector)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrElementNotFound, err)
	}
	return el, nil
}

// Flush runs pending player callbacks.
func (c *Controller) Flush() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine.Flush()
}
