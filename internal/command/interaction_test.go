package command

import (
	"errors"
	"testing"

	"github.com/keshon/sandbox-bot/internal/command/commandtest"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInteractionReplyOnce(t *testing.T) {
	s := commandtest.NewSession()
	i := NewInteraction(s, commandtest.ChatInput("ping"))

	require.True(t, i.Repliable())
	require.NoError(t, i.Reply(&discordgo.InteractionResponseData{Content: "Pinging..."}))

	assert.True(t, i.Replied())
	assert.False(t, i.Repliable())
	assert.ErrorIs(t, i.ReplyEphemeral("again"), ErrAlreadyReplied)
	assert.Len(t, s.Responses(), 1)
}

func TestInteractionDeferThenEdit(t *testing.T) {
	s := commandtest.NewSession()
	i := NewInteraction(s, commandtest.ChatInput("ping"))

	require.NoError(t, i.Defer(true))
	assert.True(t, i.Deferred())
	assert.True(t, i.Repliable())
	assert.Equal(t, discordgo.MessageFlagsEphemeral, s.Responses()[0].Data.Flags)

	content := "done"
	_, err := i.EditReply(&discordgo.WebhookEdit{Content: &content})
	require.NoError(t, err)
	assert.True(t, i.Replied())
	assert.False(t, i.Deferred())
}

func TestInteractionRequiresInitialResponse(t *testing.T) {
	s := commandtest.NewSession()
	i := NewInteraction(s, commandtest.ChatInput("ping"))

	_, err := i.EditReply(&discordgo.WebhookEdit{})
	assert.ErrorIs(t, err, ErrNotReplied)
	_, err = i.FetchReply()
	assert.ErrorIs(t, err, ErrNotReplied)
	_, err = i.FollowUpEphemeral("hi")
	assert.ErrorIs(t, err, ErrNotReplied)
	assert.Empty(t, s.Calls)
}

func TestInteractionFailedRespondKeepsState(t *testing.T) {
	s := commandtest.NewSession()
	s.RespondErr = errors.New("unknown interaction")
	i := NewInteraction(s, commandtest.ChatInput("ping"))

	assert.Error(t, i.ReplyEphemeral("x"))
	assert.False(t, i.Replied())
	assert.True(t, i.Repliable())
}

func TestInteractionFollowUp(t *testing.T) {
	s := commandtest.NewSession()
	i := NewInteraction(s, commandtest.ChatInput("ping"))
	require.NoError(t, i.ReplyEphemeral("first"))

	msg, err := i.FollowUpEphemeral("second")
	require.NoError(t, err)
	assert.Equal(t, "followup-1", msg.ID)

	fu := s.Followups()
	require.Len(t, fu, 1)
	assert.Equal(t, "second", fu[0].Content)
	assert.Equal(t, discordgo.MessageFlagsEphemeral, fu[0].Flags)
}

func TestInteractionComponentUpdate(t *testing.T) {
	s := commandtest.NewSession()
	i := NewInteraction(s, commandtest.Component("anchor-1", "next-page", commandtest.UserID))

	require.NoError(t, i.Update(&discordgo.InteractionResponseData{Content: "page 2"}))
	assert.Equal(t, discordgo.InteractionResponseUpdateMessage, s.Responses()[0].Type)
	assert.Empty(t, i.Options())
}

func TestInteractionAutocompleteNotRepliable(t *testing.T) {
	e := commandtest.ChatInput("ping")
	e.Type = discordgo.InteractionApplicationCommandAutocomplete
	i := NewInteraction(commandtest.NewSession(), e)
	assert.False(t, i.Repliable())
}

func TestInteractionInvokerAndOptions(t *testing.T) {
	e := commandtest.ChatInput("sandbox",
		commandtest.StringOption("sandbox_context", "basic pager"),
		commandtest.IntOption("number_arg_one", 3),
	)
	i := NewInteraction(commandtest.NewSession(), e)

	require.NotNil(t, i.Invoker())
	assert.Equal(t, commandtest.UserID, i.Invoker().ID)

	opts := i.Options()
	require.Contains(t, opts, "sandbox_context")
	assert.Equal(t, "basic pager", opts["sandbox_context"].StringValue())
	assert.Equal(t, int64(3), opts["number_arg_one"].IntValue())

	e.Member = nil
	e.User = &discordgo.User{ID: "dm-user"}
	assert.Equal(t, "dm-user", i.Invoker().ID)
}
