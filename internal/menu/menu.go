// Package menu builds interactive button menus on top of an interaction
// reply: a component collector, a paginator and a frame-stack menu manager.
package menu

import (
	"time"

	"github.com/keshon/sandbox-bot/internal/command"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

const (
	DefaultTimeLimit = 60 * time.Second

	CustomIDBack    = "menu-back"
	CustomIDCancel  = "menu-cancel"
	CustomIDConfirm = "menu-confirm"

	notYoursMessage = "This menu isn't for you."
)

// SendMode chooses how a display reaches the channel.
type SendMode int

const (
	// SendReply uses the initial response, or edits it when the command deferred.
	SendReply SendMode = iota
	// SendFollowUp posts a follow-up after the initial response.
	SendFollowUp
)

// Display is the visible content of one menu state.
type Display struct {
	Content    string
	Embeds     []*discordgo.MessageEmbed
	Components []discordgo.MessageComponent
}

func (d Display) responseData(flags discordgo.MessageFlags) *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		Content:    d.Content,
		Embeds:     d.Embeds,
		Components: d.componentsOrEmpty(),
		Flags:      flags,
	}
}

func (d Display) webhookParams(flags discordgo.MessageFlags) *discordgo.WebhookParams {
	return &discordgo.WebhookParams{
		Content:    d.Content,
		Embeds:     d.Embeds,
		Components: d.Components,
		Flags:      flags,
	}
}

func (d Display) webhookEdit() *discordgo.WebhookEdit {
	content := d.Content
	embeds := d.Embeds
	if embeds == nil {
		embeds = []*discordgo.MessageEmbed{}
	}
	components := d.componentsOrEmpty()
	return &discordgo.WebhookEdit{
		Content:    &content,
		Embeds:     &embeds,
		Components: &components,
	}
}

// An empty, non-nil slice clears the previous message's rows on update.
func (d Display) componentsOrEmpty() []discordgo.MessageComponent {
	if d.Components == nil {
		return []discordgo.MessageComponent{}
	}
	return d.Components
}

// Options tune a collector.
type Options struct {
	// TimeLimit ends the collector with ReasonTime. Zero means DefaultTimeLimit.
	TimeLimit time.Duration
	SendAs    SendMode
	Ephemeral bool
	// Filter decides which component interactions are collected. Nil accepts
	// only the user who ran the command; rejected users get an ephemeral notice.
	Filter func(i *command.Interaction) bool
}

func (o Options) withDefaults(source *command.Interaction) Options {
	if o.TimeLimit <= 0 {
		o.TimeLimit = DefaultTimeLimit
	}
	if o.Filter == nil {
		var owner string
		if u := source.Invoker(); u != nil {
			owner = u.ID
		}
		o.Filter = func(i *command.Interaction) bool {
			u := i.Invoker()
			return u != nil && u.ID == owner
		}
	}
	return o
}

func (o Options) flags() discordgo.MessageFlags {
	if o.Ephemeral {
		return discordgo.MessageFlagsEphemeral
	}
	return 0
}

// UserChoiceRow returns a confirm/cancel row. The confirm button carries label.
func UserChoiceRow(label string) discordgo.ActionsRow {
	if label == "" {
		label = "Confirm"
	}
	return discordgo.ActionsRow{Components: []discordgo.MessageComponent{
		discordgo.Button{CustomID: CustomIDConfirm, Label: label, Style: discordgo.SuccessButton},
		discordgo.Button{CustomID: CustomIDCancel, Label: "Cancel", Style: discordgo.DangerButton},
	}}
}

// BackButtonRow returns a row holding a single back button.
func BackButtonRow() discordgo.ActionsRow {
	return discordgo.ActionsRow{Components: []discordgo.MessageComponent{
		discordgo.Button{CustomID: CustomIDBack, Label: "Back", Style: discordgo.SecondaryButton},
	}}
}

// DeleteAnchor deletes a menu message. Failures are logged and reported as false.
func DeleteAnchor(s command.Session, msg *discordgo.Message, log zerolog.Logger) bool {
	if msg == nil {
		return false
	}
	if err := s.ChannelMessageDelete(msg.ChannelID, msg.ID); err != nil {
		log.Warn().Err(err).Str("message", msg.ID).Msg("failed to delete menu message")
		return false
	}
	return true
}

// Update replaces the message behind a component interaction with d.
func Update(ci *command.Interaction, d Display) error {
	return ci.Update(d.responseData(0))
}
