package command

import (
	"context"
	"time"

	"github.com/keshon/sandbox-bot/internal/storage"
	"github.com/keshon/sandbox-bot/pkg/cmd"
)

const cooldownMessage = "You're using commands too quickly. Try again in a moment."

// WithCommandLogger records each run in the guild's command history.
func WithCommandLogger(store *storage.Storage) cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		if store == nil {
			return c
		}
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			err := c.Run(ctx, inv)

			dc, ok := ContextOf(inv)
			if !ok {
				return err
			}
			i := dc.Interaction
			rec := storage.CommandHistoryRecord{
				ChannelID: i.ChannelID,
				Command:   c.Name(),
				Failed:    err != nil,
				Datetime:  time.Now(),
			}
			if u := i.Invoker(); u != nil {
				rec.UserID, rec.Username = u.ID, u.Username
			}
			if e := store.AppendCommandToHistory(i.GuildID, rec); e != nil {
				dc.Log.Warn().Err(e).Str("command", c.Name()).Msg("failed to log command")
			}
			return err
		})
	}
}

// WithCooldown refuses runs from users who exhausted their cooldown bucket.
// The refused user gets an ephemeral notice and the command does not run.
func WithCooldown(cd *Cooldown) cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		if cd == nil {
			return c
		}
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			dc, ok := ContextOf(inv)
			if !ok {
				return c.Run(ctx, inv)
			}
			u := dc.Interaction.Invoker()
			if u == nil || cd.Allow(u.ID) {
				return c.Run(ctx, inv)
			}

			dc.Log.Debug().Str("command", c.Name()).Str("user", u.ID).Msg("command throttled")
			if err := dc.Interaction.ReplyEphemeral(cooldownMessage); err != nil {
				dc.Log.Warn().Err(err).Msg("failed to send cooldown notice")
			}
			return nil
		})
	}
}
