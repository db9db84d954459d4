package command

import (
	"errors"
	"sync"

	"github.com/bwmarrin/discordgo"
)

var (
	// ErrAlreadyReplied is returned when a second initial response is attempted.
	ErrAlreadyReplied = errors.New("interaction already acknowledged")
	// ErrNotReplied is returned when an edit or follow-up precedes the initial response.
	ErrNotReplied = errors.New("interaction not acknowledged yet")
)

type responseState int

const (
	stateNone responseState = iota
	stateDeferred
	stateReplied
)

// Interaction wraps an inbound interaction and tracks whether it has been
// deferred or replied to, which discordgo leaves to the caller.
type Interaction struct {
	*discordgo.InteractionCreate

	session Session

	mu    sync.Mutex
	state responseState
}

func NewInteraction(s Session, e *discordgo.InteractionCreate) *Interaction {
	return &Interaction{InteractionCreate: e, session: s}
}

// Invoker returns the user behind the interaction, in a guild or a DM.
func (i *Interaction) Invoker() *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// Options returns the top-level chat-input options keyed by name.
func (i *Interaction) Options() map[string]*discordgo.ApplicationCommandInteractionDataOption {
	out := make(map[string]*discordgo.ApplicationCommandInteractionDataOption)
	if i.Type != discordgo.InteractionApplicationCommand {
		return out
	}
	for _, opt := range i.ApplicationCommandData().Options {
		out[opt.Name] = opt
	}
	return out
}

func (i *Interaction) Deferred() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.state == stateDeferred
}

func (i *Interaction) Replied() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.state == stateReplied
}

// Repliable reports whether the interaction kind accepts responses and no
// terminal response has been sent yet.
func (i *Interaction) Repliable() bool {
	switch i.Type {
	case discordgo.InteractionPing, discordgo.InteractionApplicationCommandAutocomplete:
		return false
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.state != stateReplied
}

func (i *Interaction) respond(resp *discordgo.InteractionResponse, next responseState) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.state != stateNone {
		return ErrAlreadyReplied
	}
	if err := i.session.InteractionRespond(i.Interaction, resp); err != nil {
		return err
	}
	i.state = next
	return nil
}

// Reply sends the initial message response.
func (i *Interaction) Reply(data *discordgo.InteractionResponseData) error {
	return i.respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	}, stateReplied)
}

func (i *Interaction) ReplyEphemeral(content string) error {
	return i.Reply(&discordgo.InteractionResponseData{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
}

// Defer acknowledges a command now and promises a reply later.
func (i *Interaction) Defer(ephemeral bool) error {
	data := &discordgo.InteractionResponseData{}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	return i.respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: data,
	}, stateDeferred)
}

// DeferUpdate acknowledges a component interaction without changing its message.
func (i *Interaction) DeferUpdate() error {
	return i.respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	}, stateDeferred)
}

// Update replaces the message a component interaction belongs to.
func (i *Interaction) Update(data *discordgo.InteractionResponseData) error {
	return i.respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: data,
	}, stateReplied)
}

// EditReply edits the original response. Editing a deferred response completes it.
func (i *Interaction) EditReply(edit *discordgo.WebhookEdit) (*discordgo.Message, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.state == stateNone {
		return nil, ErrNotReplied
	}
	msg, err := i.session.InteractionResponseEdit(i.Interaction, edit)
	if err != nil {
		return nil, err
	}
	i.state = stateReplied
	return msg, nil
}

// FetchReply returns the message created by the original response.
func (i *Interaction) FetchReply() (*discordgo.Message, error) {
	i.mu.Lock()
	state := i.state
	i.mu.Unlock()
	if state == stateNone {
		return nil, ErrNotReplied
	}
	return i.session.InteractionResponse(i.Interaction)
}

// FollowUp sends an additional message after the initial response.
func (i *Interaction) FollowUp(params *discordgo.WebhookParams) (*discordgo.Message, error) {
	i.mu.Lock()
	state := i.state
	i.mu.Unlock()
	if state == stateNone {
		return nil, ErrNotReplied
	}
	return i.session.FollowupMessageCreate(i.Interaction, true, params)
}

func (i *Interaction) FollowUpEphemeral(content string) (*discordgo.Message, error) {
	return i.FollowUp(&discordgo.WebhookParams{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	})
}
