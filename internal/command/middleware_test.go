package command

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/keshon/sandbox-bot/internal/command/commandtest"
	"github.com/keshon/sandbox-bot/internal/storage"
	"github.com/keshon/sandbox-bot/pkg/cmd"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDescriptor(name string, h HandlerFunc) *Descriptor {
	return &Descriptor{
		Definition: &discordgo.ApplicationCommand{Name: name, Description: name},
		Handler:    h,
	}
}

func newInvocation(s Session, store *storage.Storage) *cmd.Invocation {
	return &cmd.Invocation{Data: &Context{
		Session:     s,
		Interaction: NewInteraction(s, commandtest.ChatInput("ping")),
		Storage:     store,
		Log:         zerolog.Nop(),
	}}
}

func TestWithCommandLoggerRecordsOutcome(t *testing.T) {
	store, err := storage.New(context.Background(), filepath.Join(t.TempDir(), "datastore.json"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ok := cmd.Apply(newDescriptor("ping", noop), WithCommandLogger(store))
	failing := cmd.Apply(newDescriptor("boom", func(context.Context, *Context) error {
		return errors.New("boom")
	}), WithCommandLogger(store))

	s := commandtest.NewSession()
	require.NoError(t, ok.Run(context.Background(), newInvocation(s, store)))
	require.Error(t, failing.Run(context.Background(), newInvocation(s, store)))

	history, err := store.FetchCommandHistory(commandtest.GuildID)
	require.NoError(t, err)
	require.Len(t, history, 2)

	assert.Equal(t, "ping", history[0].Command)
	assert.False(t, history[0].Failed)
	assert.Equal(t, commandtest.UserID, history[0].UserID)
	assert.Equal(t, commandtest.ChannelID, history[0].ChannelID)
	assert.WithinDuration(t, time.Now(), history[0].Datetime, time.Minute)

	assert.Equal(t, "boom", history[1].Command)
	assert.True(t, history[1].Failed)
}

func TestWithCommandLoggerNilStore(t *testing.T) {
	d := newDescriptor("ping", noop)
	assert.Same(t, cmd.Command(d), WithCommandLogger(nil)(d))
}

func TestWithCooldownThrottles(t *testing.T) {
	runs := 0
	c := cmd.Apply(newDescriptor("ping", func(context.Context, *Context) error {
		runs++
		return nil
	}), WithCooldown(NewCooldown(time.Hour, 1)))

	first := commandtest.NewSession()
	require.NoError(t, c.Run(context.Background(), newInvocation(first, nil)))
	second := commandtest.NewSession()
	require.NoError(t, c.Run(context.Background(), newInvocation(second, nil)))

	assert.Equal(t, 1, runs)
	assert.Empty(t, first.Calls)

	resp := second.Responses()
	require.Len(t, resp, 1)
	assert.Equal(t, cooldownMessage, resp[0].Data.Content)
	assert.Equal(t, discordgo.MessageFlagsEphemeral, resp[0].Data.Flags)
}
