package discord

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/keshon/sandbox-bot/internal/command"
	"github.com/keshon/sandbox-bot/internal/command/definitions"
	"github.com/keshon/sandbox-bot/internal/config"
	"github.com/keshon/sandbox-bot/internal/metrics"
	"github.com/keshon/sandbox-bot/internal/storage"
	"github.com/keshon/sandbox-bot/pkg/cmd"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

// Bot owns the gateway session and the command and event tables for the
// life of the process.
type Bot struct {
	cfg     *config.Config
	store   *storage.Storage
	metrics *metrics.Metrics
	log     zerolog.Logger

	deploy   bool
	fsys     fs.FS
	root     string
	handlers map[string]command.HandlerFunc
	cooldown *command.Cooldown

	dg         *discordgo.Session
	commands   *cmd.Registry
	events     *EventTable
	dispatcher *Dispatcher
	publisher  *Publisher
}

type Option func(*Bot)

// WithDeploy publishes the commands to the development guild once ready.
func WithDeploy(deploy bool) Option {
	return func(b *Bot) { b.deploy = deploy }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(b *Bot) { b.metrics = m }
}

func WithCooldown(cd *command.Cooldown) Option {
	return func(b *Bot) { b.cooldown = cd }
}

// WithDefinitions loads command definitions from root in fsys instead of
// the embedded set.
func WithDefinitions(fsys fs.FS, root string) Option {
	return func(b *Bot) { b.fsys, b.root = fsys, root }
}

// WithHandlers replaces the handler catalog filled by command packages.
func WithHandlers(h map[string]command.HandlerFunc) Option {
	return func(b *Bot) { b.handlers = h }
}

func New(cfg *config.Config, store *storage.Storage, log zerolog.Logger, opts ...Option) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages

	b := &Bot{
		cfg:   cfg,
		store: store,
		log:   log.With().Str("component", "bot").Logger(),
		dg:    dg,
		fsys:  definitions.FS,
		root:  definitions.Root,
	}
	if cfg.CommandsDir != "" {
		b.fsys, b.root = os.DirFS(cfg.CommandsDir), "."
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.handlers == nil {
		b.handlers = command.Handlers()
	}
	return b, nil
}

// Commands returns the command table; nil before Load.
func (b *Bot) Commands() *cmd.Registry { return b.commands }

// Events returns the event table; nil before Load.
func (b *Bot) Events() *EventTable { return b.events }

// Load builds the command and event tables. ctx is handed to every command
// the bot dispatches.
func (b *Bot) Load(ctx context.Context) error {
	commands, err := command.Load(b.fsys, b.root, b.handlers, b.log,
		command.WithCommandLogger(b.store),
		command.WithCooldown(b.cooldown),
	)
	if err != nil {
		return fmt.Errorf("load commands: %w", err)
	}

	b.commands = commands
	b.dispatcher = NewDispatcher(commands, b.store, b.metrics, b.log)
	b.publisher = NewPublisher(b.dg, b.dg.State, commands, b.store, b.metrics, b.log)

	b.events = NewEventTable()
	for _, e := range []Event{
		Once(b.onReady(ctx)),
		On(b.onInteractionCreate(ctx)),
		On(b.onGuildCreate),
	} {
		if _, err := b.events.Register(e); err != nil {
			return err
		}
	}
	return nil
}

// Run loads the tables, opens the gateway and blocks until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.Load(ctx); err != nil {
		return err
	}

	unbind := b.events.Bind(b.dg, b.log)
	defer unbind()

	if err := b.dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer b.dg.Close()

	<-ctx.Done()
	b.log.Info().Msg("shutdown signal received, cleaning up")
	return nil
}

func (b *Bot) onReady(ctx context.Context) func(*discordgo.Session, *discordgo.Ready) {
	return func(_ *discordgo.Session, r *discordgo.Ready) {
		if b.deploy {
			appID := b.cfg.ApplicationID
			if appID == "" && r.User != nil {
				appID = r.User.ID
			}
			// Failures are logged by the publisher and never stop the bot.
			_, _ = b.publisher.Publish(ctx, appID, b.cfg.DevGuildID)
		}

		tag := "unknown"
		if r.User != nil {
			tag = r.User.String()
		}
		b.log.Info().Str("user", tag).Int("guilds", len(r.Guilds)).Msgf("Ready! Logged in as %s", tag)
	}
}

func (b *Bot) onInteractionCreate(ctx context.Context) func(*discordgo.Session, *discordgo.InteractionCreate) {
	return func(s *discordgo.Session, e *discordgo.InteractionCreate) {
		b.dispatcher.Dispatch(ctx, s, e)
	}
}

func (b *Bot) onGuildCreate(_ *discordgo.Session, g *discordgo.GuildCreate) {
	if g.Guild == nil {
		return
	}
	b.log.Info().Str("guild", g.ID).Str("name", g.Name).Msg("guild available")
}
