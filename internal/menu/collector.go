package menu

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/keshon/sandbox-bot/internal/command"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

// End reasons reported to OnEnd listeners. Stop may pass any other reason.
const (
	ReasonTime     = "time"
	ReasonShutdown = "shutdown"
	ReasonCancel   = "cancel"
	ReasonDestroy  = "destroy"
)

var ErrNoAnchor = errors.New("menu message could not be resolved")

type (
	CollectFunc func(ci *command.Interaction)
	EndFunc     func(collected []*command.Interaction, reason string)
)

// Collector gathers button presses on one anchor message until it is
// stopped, its time limit passes or its context ends.
type Collector struct {
	session command.Session
	source  *command.Interaction
	opts    Options
	anchor  *discordgo.Message
	log     zerolog.Logger

	mu        sync.Mutex
	collected []*command.Interaction
	onCollect []CollectFunc
	onEnd     []EndFunc
	ended     bool
	reason    string

	stopOnce sync.Once
	stop     chan string
	done     chan struct{}
	remove   func()
}

// Spawn sends d for the command in c and starts collecting presses on it.
func Spawn(ctx context.Context, c *command.Context, d Display, opts Options) (*Collector, error) {
	opts = opts.withDefaults(c.Interaction)

	anchor, err := send(c.Interaction, d, opts)
	if err != nil {
		return nil, err
	}

	col := &Collector{
		session: c.Session,
		source:  c.Interaction,
		opts:    opts,
		anchor:  anchor,
		log:     c.Log.With().Str("component", "menu").Str("anchor", anchor.ID).Logger(),
		stop:    make(chan string, 1),
		done:    make(chan struct{}),
	}
	col.remove = c.Session.AddHandler(col.handle)

	go col.run(ctx)
	return col, nil
}

func send(i *command.Interaction, d Display, opts Options) (*discordgo.Message, error) {
	var (
		msg *discordgo.Message
		err error
	)
	switch {
	case opts.SendAs == SendFollowUp:
		msg, err = i.FollowUp(d.webhookParams(opts.flags()))
	case i.Deferred():
		msg, err = i.EditReply(d.webhookEdit())
	default:
		if err = i.Reply(d.responseData(opts.flags())); err == nil {
			msg, err = i.FetchReply()
		}
	}
	if err != nil {
		return nil, fmt.Errorf("send menu: %w", err)
	}
	if msg == nil || msg.ID == "" {
		return nil, ErrNoAnchor
	}
	return msg, nil
}

// Anchor is the message the collector listens on.
func (c *Collector) Anchor() *discordgo.Message { return c.anchor }

// Source is the command interaction that spawned the collector.
func (c *Collector) Source() *command.Interaction { return c.source }

func (c *Collector) Session() command.Session { return c.session }

// OnCollect adds a listener for every accepted component interaction.
func (c *Collector) OnCollect(fn CollectFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onCollect = append(c.onCollect, fn)
}

// OnEnd adds a listener that runs once when the collector ends. Adding one
// after the end calls it right away.
func (c *Collector) OnEnd(fn EndFunc) {
	c.mu.Lock()
	if !c.ended {
		c.onEnd = append(c.onEnd, fn)
		c.mu.Unlock()
		return
	}
	collected, reason := c.snapshot(), c.reason
	c.mu.Unlock()
	c.callEnd(fn, collected, reason)
}

// Stop ends the collector with reason. Later calls do nothing.
func (c *Collector) Stop(reason string) {
	c.stopOnce.Do(func() { c.stop <- reason })
}

// Done is closed once the end listeners have run.
func (c *Collector) Done() <-chan struct{} { return c.done }

// Ended reports whether the collector has ended, and why.
func (c *Collector) Ended() (bool, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ended, c.reason
}

// Collected returns the interactions accepted so far.
func (c *Collector) Collected() []*command.Interaction {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

func (c *Collector) snapshot() []*command.Interaction {
	out := make([]*command.Interaction, len(c.collected))
	copy(out, c.collected)
	return out
}

func (c *Collector) handle(_ *discordgo.Session, e *discordgo.InteractionCreate) {
	if e == nil || e.Interaction == nil || e.Type != discordgo.InteractionMessageComponent {
		return
	}
	if e.Message == nil || e.Message.ID != c.anchor.ID {
		return
	}

	ci := command.NewInteraction(c.session, e)
	if !c.opts.Filter(ci) {
		if err := ci.ReplyEphemeral(notYoursMessage); err != nil {
			c.log.Debug().Err(err).Msg("failed to refuse foreign menu press")
		}
		return
	}

	c.mu.Lock()
	if c.ended {
		c.mu.Unlock()
		return
	}
	c.collected = append(c.collected, ci)
	listeners := append([]CollectFunc(nil), c.onCollect...)
	c.mu.Unlock()

	c.log.Debug().Str("custom_id", ci.MessageComponentData().CustomID).Msg("component collected")
	for _, fn := range listeners {
		c.callCollect(fn, ci)
	}
}

func (c *Collector) run(ctx context.Context) {
	timer := time.NewTimer(c.opts.TimeLimit)
	defer timer.Stop()

	var reason string
	select {
	case reason = <-c.stop:
	case <-timer.C:
		reason = ReasonTime
	case <-ctx.Done():
		reason = ReasonShutdown
	}
	c.finish(reason)
}

func (c *Collector) finish(reason string) {
	c.remove()

	c.mu.Lock()
	c.ended = true
	c.reason = reason
	collected := c.snapshot()
	listeners := c.onEnd
	c.onEnd = nil
	c.mu.Unlock()

	c.log.Debug().Str("reason", reason).Int("collected", len(collected)).Msg("collector ended")
	for _, fn := range listeners {
		c.callEnd(fn, collected, reason)
	}
	close(c.done)
}

func (c *Collector) callCollect(fn CollectFunc, ci *command.Interaction) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error().Interface("panic", r).Msg("menu collect listener panicked")
		}
	}()
	fn(ci)
}

func (c *Collector) callEnd(fn EndFunc, collected []*command.Interaction, reason string) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error().Interface("panic", r).Msg("menu end listener panicked")
		}
	}()
	fn(collected, reason)
}
