package discord

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/keshon/sandbox-bot/internal/command"
	"github.com/keshon/sandbox-bot/internal/metrics"
	"github.com/keshon/sandbox-bot/internal/storage"
	"github.com/keshon/sandbox-bot/pkg/cmd"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrNoApplication  = errors.New("no application id")
	ErrNoGuild        = errors.New("no target guild configured")
	ErrGuildNotCached = errors.New("target guild not in state cache")
)

// CommandPublisher replaces a guild's command set. *discordgo.Session implements it.
type CommandPublisher interface {
	ApplicationCommandBulkOverwrite(appID string, guildID string, commands []*discordgo.ApplicationCommand, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
}

// GuildCache looks guilds up locally. *discordgo.State implements it.
type GuildCache interface {
	Guild(guildID string) (*discordgo.Guild, error)
}

// Publisher pushes the command table to a single development guild.
type Publisher struct {
	api      CommandPublisher
	guilds   GuildCache
	commands *cmd.Registry
	store    *storage.Storage
	metrics  *metrics.Metrics
	log      zerolog.Logger
}

func NewPublisher(api CommandPublisher, guilds GuildCache, commands *cmd.Registry, store *storage.Storage, m *metrics.Metrics, log zerolog.Logger) *Publisher {
	return &Publisher{
		api:      api,
		guilds:   guilds,
		commands: commands,
		store:    store,
		metrics:  m,
		log:      log.With().Str("component", "deploy").Logger(),
	}
}

// Publish replaces every command in guildID with the loaded definitions and
// returns how many Discord accepted. Nothing is sent unless the application
// and guild are known and the guild is cached.
func (p *Publisher) Publish(ctx context.Context, appID, guildID string) (int, error) {
	if appID == "" {
		p.log.Error().Msg("no application, deploy aborted")
		return 0, ErrNoApplication
	}
	if guildID == "" {
		p.log.Error().Msg("no guild id, deploy aborted")
		return 0, ErrNoGuild
	}
	if g, err := p.guilds.Guild(guildID); err != nil || g == nil {
		p.log.Error().Str("guild", guildID).Msg("guild not cached, deploy aborted")
		return 0, fmt.Errorf("%w: %s", ErrGuildNotCached, guildID)
	}

	defs := command.Definitions(p.commands)
	hash := hashDefinitions(defs)

	log := p.log.With().Str("guild", guildID).Logger()
	log.Info().Int("count", len(defs)).Msg("refreshing commands")
	accepted, err := p.api.ApplicationCommandBulkOverwrite(appID, guildID, defs, discordgo.WithContext(ctx))
	if err != nil {
		return 0, fmt.Errorf("bulk overwrite guild %s: %w", guildID, err)
	}

	n := len(accepted)
	p.metrics.SetDeployed(n)
	log.Info().Int("count", n).Msg("commands deployed")

	if p.store != nil {
		rec := storage.DeploymentRecord{
			ID:         uuid.NewString(),
			Hash:       hash,
			Count:      n,
			DeployedAt: time.Now(),
		}
		if err := p.store.SetDeployment(guildID, rec); err != nil {
			log.Warn().Err(err).Msg("failed to record deployment")
		}
	}
	return n, nil
}
