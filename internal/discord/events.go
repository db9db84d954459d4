package discord

import (
	"errors"
	"fmt"
	"runtime/debug"
	"sort"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

// EventName is one of the gateway events the bot can subscribe to.
type EventName string

const (
	EventReady             EventName = "ready"
	EventInteractionCreate EventName = "interactionCreate"
	EventGuildCreate       EventName = "guildCreate"
)

var ErrUnknownEvent = errors.New("unknown event")

// EventBus is the subscription half of *discordgo.Session.
type EventBus interface {
	AddHandler(handler interface{}) func()
	AddHandlerOnce(handler interface{}) func()
}

type eventPayload interface {
	*discordgo.Ready | *discordgo.InteractionCreate | *discordgo.GuildCreate
}

// Event is a handler bound to one gateway event. Once events are delivered
// at most once per process; the others on every occurrence.
type Event struct {
	Name EventName
	Once bool

	// handler builds the discordgo handler, recovering panics into log.
	handler func(log zerolog.Logger) interface{}
}

// On subscribes fn to every occurrence of the event carried by T.
func On[T eventPayload](fn func(s *discordgo.Session, e T)) Event {
	return newEvent(fn, false)
}

// Once subscribes fn to the first occurrence of the event carried by T.
func Once[T eventPayload](fn func(s *discordgo.Session, e T)) Event {
	return newEvent(fn, true)
}

func newEvent[T eventPayload](fn func(s *discordgo.Session, e T), once bool) Event {
	name := eventNameOf[T]()
	return Event{
		Name: name,
		Once: once,
		handler: func(log zerolog.Logger) interface{} {
			return func(s *discordgo.Session, e T) {
				defer func() {
					if r := recover(); r != nil {
						log.Error().
							Str("event", string(name)).
							Interface("panic", r).
							Bytes("stack", debug.Stack()).
							Msg("event handler panicked")
					}
				}()
				fn(s, e)
			}
		},
	}
}

func eventNameOf[T eventPayload]() EventName {
	var zero T
	switch any(zero).(type) {
	case *discordgo.Ready:
		return EventReady
	case *discordgo.InteractionCreate:
		return EventInteractionCreate
	case *discordgo.GuildCreate:
		return EventGuildCreate
	}
	return ""
}

// EventTable maps event names to their handler. Registering a name twice
// keeps the later event.
type EventTable struct {
	mu     sync.RWMutex
	events map[EventName]Event
}

func NewEventTable() *EventTable {
	return &EventTable{events: make(map[EventName]Event)}
}

// Register adds e, replacing any event already stored under its name.
func (t *EventTable) Register(e Event) (replaced bool, err error) {
	switch e.Name {
	case EventReady, EventInteractionCreate, EventGuildCreate:
	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownEvent, e.Name)
	}
	if e.handler == nil {
		return false, fmt.Errorf("event %s: no handler", e.Name)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	_, replaced = t.events[e.Name]
	t.events[e.Name] = e
	return replaced, nil
}

func (t *EventTable) Get(name EventName) (Event, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.events[name]
	return e, ok
}

func (t *EventTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.events)
}

// Bind subscribes every event on bus and returns a func that removes them all.
func (t *EventTable) Bind(bus EventBus, log zerolog.Logger) func() {
	t.mu.RLock()
	names := make([]string, 0, len(t.events))
	for name := range t.events {
		names = append(names, string(name))
	}
	sort.Strings(names)

	removers := make([]func(), 0, len(names))
	for _, name := range names {
		e := t.events[EventName(name)]
		h := e.handler(log)
		if e.Once {
			removers = append(removers, bus.AddHandlerOnce(h))
		} else {
			removers = append(removers, bus.AddHandler(h))
		}
		log.Debug().Str("event", name).Bool("once", e.Once).Msg("event bound")
	}
	t.mu.RUnlock()

	return func() {
		for _, remove := range removers {
			remove()
		}
	}
}
