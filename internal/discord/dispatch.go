package discord

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/keshon/sandbox-bot/internal/command"
	"github.com/keshon/sandbox-bot/internal/metrics"
	"github.com/keshon/sandbox-bot/internal/storage"
	"github.com/keshon/sandbox-bot/pkg/cmd"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

const (
	genericErrorMessage   = "There was an error while executing this interaction!"
	unknownCommandMessage = "Unknown command. It may have been removed; try again once commands are redeployed."
)

// Outcome is what the dispatcher did with one interaction.
type Outcome int

const (
	// OutcomeIgnored: not a chat-input command.
	OutcomeIgnored Outcome = iota
	// OutcomeUnknown: no command with that name is loaded.
	OutcomeUnknown
	// OutcomeHandled: the handler returned without error.
	OutcomeHandled
	// OutcomeReplied: the handler failed and the user got an error reply.
	OutcomeReplied
	// OutcomeFollowedUp: the handler failed after deferring and the user got an error follow-up.
	OutcomeFollowedUp
	// OutcomeLogged: the handler failed and the error could only be logged.
	OutcomeLogged
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeUnknown:
		return "unknown"
	case OutcomeHandled:
		return "handled"
	case OutcomeReplied:
		return "replied"
	case OutcomeFollowedUp:
		return "followed_up"
	case OutcomeLogged:
		return "logged"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Dispatcher routes chat-input interactions to the command table.
type Dispatcher struct {
	commands *cmd.Registry
	store    *storage.Storage
	metrics  *metrics.Metrics
	log      zerolog.Logger
}

func NewDispatcher(commands *cmd.Registry, store *storage.Storage, m *metrics.Metrics, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		commands: commands,
		store:    store,
		metrics:  m,
		log:      log.With().Str("component", "dispatcher").Logger(),
	}
}

// Dispatch runs the command named by e. Handler errors and panics never
// escape: they become one error reply, one follow-up, or a log line.
func (d *Dispatcher) Dispatch(ctx context.Context, s command.Session, e *discordgo.InteractionCreate) Outcome {
	if e == nil || e.Interaction == nil || e.Type != discordgo.InteractionApplicationCommand {
		return OutcomeIgnored
	}
	data := e.ApplicationCommandData()
	if data.CommandType != discordgo.ChatApplicationCommand {
		return OutcomeIgnored
	}

	log := d.log.With().
		Str("command", data.Name).
		Str("interaction", e.ID).
		Str("guild", e.GuildID).
		Logger()
	i := command.NewInteraction(s, e)

	c, ok := d.commands.Get(data.Name)
	if !ok {
		log.Warn().Msg("no command matches interaction")
		if err := i.ReplyEphemeral(unknownCommandMessage); err != nil {
			log.Warn().Err(err).Msg("failed to send unknown command notice")
		}
		d.metrics.ObserveInteraction(data.Name, OutcomeUnknown.String())
		return OutcomeUnknown
	}

	inv := &cmd.Invocation{
		Args: optionNames(data.Options),
		Data: &command.Context{
			Session:     s,
			Interaction: i,
			Commands:    d.commands,
			Storage:     d.store,
			Log:         log,
		},
	}

	start := time.Now()
	err := run(ctx, c, inv)
	d.metrics.ObserveCommand(data.Name, time.Since(start))

	outcome := OutcomeHandled
	if err != nil {
		log.Error().Err(err).Msg("command failed")
		outcome = reportFailure(i, log)
	}
	d.metrics.ObserveInteraction(data.Name, outcome.String())
	return outcome
}

func run(ctx context.Context, c cmd.Command, inv *cmd.Invocation) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()
	return c.Run(ctx, inv)
}

func reportFailure(i *command.Interaction, log zerolog.Logger) Outcome {
	if !i.Repliable() {
		return OutcomeLogged
	}
	if i.Deferred() {
		if _, err := i.FollowUpEphemeral(genericErrorMessage); err != nil {
			log.Warn().Err(err).Msg("failed to send error follow-up")
			return OutcomeLogged
		}
		return OutcomeFollowedUp
	}
	if err := i.ReplyEphemeral(genericErrorMessage); err != nil {
		log.Warn().Err(err).Msg("failed to send error reply")
		return OutcomeLogged
	}
	return OutcomeReplied
}

func optionNames(opts []*discordgo.ApplicationCommandInteractionDataOption) []string {
	names := make([]string, 0, len(opts))
	for _, o := range opts {
		names = append(names, o.Name)
	}
	return names
}
