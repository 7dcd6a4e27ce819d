package csskeyframes

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/cadence/pkg/domain"
	"github.com/aretw0/cadence/pkg/ports"
)

const (
	animationProp   = "animation"
	animationEnd    = "animationend"
	elapsedPlaces   = 3
	millisPerSecond = 1000
)

// styler drives one named keyframes animation through the element's
// animation shorthand, which may already hold other animations.
type styler struct {
	element  ports.Styled
	name     string
	duration float64
	delay    float64
	easing   string
	fillMode string
	onDone   func()
	now      func() time.Time

	finished  bool
	destroyed bool
	startTime time.Time
	position  float64
	unlisten  func()
}

func newStyler(el ports.Styled, name string, duration, delay float64, easing, fillMode string, now func() time.Time, onDone func()) *styler {
	if easing == "" {
		easing = "ease"
	}
	return &styler{
		element:  el,
		name:     name,
		duration: duration,
		delay:    delay,
		easing:   easing,
		fillMode: fillMode,
		onDone:   onDone,
		now:      now,
	}
}

func (s *styler) apply() {
	value := fmt.Sprintf("%sms %s %sms 1 normal %s %s",
		formatMillis(s.duration), s.easing, formatMillis(s.delay), s.fillMode, s.name)
	applyKeyframeAnimation(s.element, value)
	if target, ok := s.element.(ports.EventTarget); ok && s.unlisten == nil {
		s.unlisten = target.AddEventListener(animationEnd, s.handleEvent)
	}
	s.startTime = s.now()
}

func (s *styler) pause()  { s.playState("paused") }
func (s *styler) resume() { s.playState("running") }

func (s *styler) playState(status string) {
	index := findIndexForAnimation(s.element, s.name)
	setAnimationStyle(s.element, "-play-state", status, index)
}

// setPosition seeks by rewriting this animation's delay as a negative offset.
func (s *styler) setPosition(position float64) {
	index := findIndexForAnimation(s.element, s.name)
	s.position = position * s.duration
	setAnimationStyle(s.element, "-delay", "-"+formatMillis(s.position)+"ms", index)
}

func (s *styler) getPosition() float64 { return s.position }

func (s *styler) handleEvent(event domain.DOMEvent) {
	timestamp := event.Timestamp
	if timestamp.IsZero() {
		timestamp = s.now()
	}
	scale := math.Pow(10, elapsedPlaces)
	elapsed := math.Round(event.ElapsedTime*scale) / scale * millisPerSecond
	since := math.Max(float64(timestamp.Sub(s.startTime).Milliseconds()), 0)
	if event.AnimationName == s.name && since >= s.delay && elapsed >= s.duration {
		s.finish()
	}
}

func (s *styler) finish() {
	if s.finished {
		return
	}
	s.finished = true
	s.onDone()
	if s.unlisten != nil {
		s.unlisten()
		s.unlisten = nil
	}
}

func (s *styler) destroy() {
	if s.destroyed {
		return
	}
	s.destroyed = true
	s.finish()
	removeKeyframeAnimation(s.element, s.name)
}

func applyKeyframeAnimation(el ports.Styled, value string) int {
	anim := strings.TrimSpace(el.Style(animationProp))
	index := 0
	if anim != "" {
		index = strings.Count(anim, ",") + 1
		value = anim + ", " + value
	}
	el.SetStyle(animationProp, value)
	return index
}

func removeKeyframeAnimation(el ports.Styled, name string) {
	tokens := strings.Split(el.Style(animationProp), ",")
	index := findMatchingTokenIndex(tokens, name)
	if index < 0 {
		return
	}
	tokens = append(tokens[:index], tokens[index+1:]...)
	el.SetStyle(animationProp, strings.Join(tokens, ","))
}

func findIndexForAnimation(el ports.Styled, name string) int {
	return findMatchingTokenIndex(strings.Split(el.Style(animationProp), ","), name)
}

func findMatchingTokenIndex(tokens []string, search string) int {
	for i, token := range tokens {
		if strings.Contains(token, search) {
			return i
		}
	}
	return -1
}

// setAnimationStyle writes one longhand of the animation shorthand. With a
// non-negative index only that entry of a comma separated value is replaced.
func setAnimationStyle(el ports.Styled, suffix, value string, index int) {
	prop := animationProp + suffix
	if index >= 0 {
		if old := el.Style(prop); old != "" {
			tokens := strings.Split(old, ",")
			if index < len(tokens) {
				tokens[index] = value
				value = strings.Join(tokens, ",")
			}
		}
	}
	el.SetStyle(prop, value)
}

func formatMillis(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
