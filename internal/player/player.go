// Package player tracks the play state of a single listener's audio element.
//
// The state only ever follows native media events reported by the client.
// Asking to play moves the player to Starting; it becomes Playing once the
// element reports "play".
package player

import (
	"errors"
	"fmt"
)

type State string

const (
	Idle     State = "idle"
	Starting State = "starting"
	Playing  State = "playing"
	Stopping State = "stopping"
)

func (s State) Valid() bool {
	switch s {
	case Idle, Starting, Playing, Stopping:
		return true
	}
	return false
}

type MediaEvent string

const (
	EventPlay  MediaEvent = "play"
	EventPause MediaEvent = "pause"
	EventEnded MediaEvent = "ended"
	EventError MediaEvent = "error"
)

// Action tells the client what to do with its audio element.
type Action string

const (
	ActionNone   Action = "none"
	ActionLoad   Action = "load"
	ActionUnload Action = "unload"
)

const RetryPrompt = "Tap Listen Live again"

var ErrUnknownEvent = errors.New("unknown media event")

type Sources struct {
	Primary  string
	Fallback string
}

func (s Sources) hasFallback() bool {
	return s.Fallback != "" && s.Fallback != s.Primary
}

type Player struct {
	State        State  `json:"state"`
	Source       string `json:"source"`
	FallbackUsed bool   `json:"fallback_used"`
	Prompt       string `json:"prompt,omitempty"`
}

func New() Player {
	return Player{State: Idle}
}

// Transition is the outcome of feeding one input to a Player.
type Transition struct {
	From    State  `json:"from"`
	To      State  `json:"to"`
	Action  Action `json:"action"`
	Source  string `json:"source,omitempty"`
	Changed bool   `json:"-"`
}

func (p *Player) transition(from State, action Action) Transition {
	t := Transition{From: from, To: p.State, Action: action, Changed: from != p.State}
	if action == ActionLoad {
		t.Source = p.Source
	}
	if action != ActionNone {
		t.Changed = true
	}

	return t
}

// RequestPlay starts the primary stream unless the element is already
// starting or playing.
func (p *Player) RequestPlay(src Sources) Transition {
	from := p.State
	switch from {
	case Starting, Playing:
		return p.transition(from, ActionNone)
	}

	p.State = Starting
	p.Source = src.Primary
	p.Prompt = ""

	return p.transition(from, ActionLoad)
}

func (p *Player) RequestStop() Transition {
	from := p.State
	switch from {
	case Idle, Stopping:
		return p.transition(from, ActionNone)
	}

	p.State = Stopping

	return p.transition(from, ActionUnload)
}

// PlayBlocked records that the browser refused to start playback, usually
// because of an autoplay policy.
func (p *Player) PlayBlocked() Transition {
	from := p.State
	p.State = Idle
	p.Prompt = RetryPrompt

	t := p.transition(from, ActionNone)
	t.Changed = true
	return t
}

// HandleEvent applies a native media event. The first error while starting
// or playing swaps to the fallback source; any later error gives up and asks
// the listener to retry.
func (p *Player) HandleEvent(ev MediaEvent, src Sources) (Transition, error) {
	from := p.State

	switch ev {
	case EventPlay:
		p.State = Playing
		p.Prompt = ""
		return p.transition(from, ActionNone), nil

	case EventPause, EventEnded:
		p.State = Idle
		return p.transition(from, ActionNone), nil

	case EventError:
		if from != Starting && from != Playing {
			return p.transition(from, ActionNone), nil
		}

		if !p.FallbackUsed && src.hasFallback() {
			p.FallbackUsed = true
			p.State = Starting
			p.Source = src.Fallback
			return p.transition(from, ActionLoad), nil
		}

		p.State = Idle
		p.Prompt = RetryPrompt
		return p.transition(from, ActionUnload), nil
	}

	return p.transition(from, ActionNone), fmt.Errorf("%w: %q", ErrUnknownEvent, ev)
}

// Reattach resets a player picked up by a fresh audio element, which starts
// paused and without a source. FallbackUsed and the prompt survive.
func (p *Player) Reattach() Transition {
	from := p.State
	p.State = Idle
	p.Source = ""

	return p.transition(from, ActionNone)
}

func (p Player) IsPlaying() bool {
	return p.State == Playing
}
