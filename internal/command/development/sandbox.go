// Package development holds commands for trying out bot features by hand.
package development

import (
	"context"
	"fmt"
	"time"

	"github.com/keshon/sandbox-bot/internal/command"
	"github.com/keshon/sandbox-bot/internal/menu"

	"github.com/bwmarrin/discordgo"
)

const (
	defaultFrames = 5
	// maxFrames bounds the frames a user can ask for; each one is built up front.
	maxFrames = 25
)

func init() {
	command.Register("sandbox", Sandbox)
}

type sandboxArgs struct {
	txt [3]string
	num [3]int
}

type sandboxContext func(ctx context.Context, c *command.Context, args sandboxArgs) error

var contexts = map[string]sandboxContext{
	"basic collector": basicCollector,
	"basic pager":     basicPager,
	"basic menu":      basicMenu,
}

// Sandbox runs the demo named by the sandbox_context option.
func Sandbox(ctx context.Context, c *command.Context) error {
	opts := c.Interaction.Options()

	var name string
	if o, ok := opts["sandbox_context"]; ok {
		name = o.StringValue()
	}

	var args sandboxArgs
	for n, key := range []string{"one", "two", "three"} {
		if o, ok := opts["string_arg_"+key]; ok {
			args.txt[n] = o.StringValue()
		}
		if o, ok := opts["number_arg_"+key]; ok {
			args.num[n] = int(o.IntValue())
		}
	}

	run, ok := contexts[name]
	if !ok {
		return c.Interaction.ReplyEphemeral(fmt.Sprintf("Invalid sandbox context: No context matching %s!", name))
	}
	return run(ctx, c, args)
}

// frameCount turns a requested size into 1..maxFrames, defaulting when unset.
func frameCount(n int) int {
	if n <= 0 {
		return defaultFrames
	}
	return min(n, maxFrames)
}

func endedQuietly(reason string) bool {
	return reason == "" || reason == menu.ReasonTime
}

func basicCollector(ctx context.Context, c *command.Context, args sandboxArgs) error {
	label := args.txt[0]
	if label == "" {
		label = "Example Text"
	}

	display := menu.Display{
		Embeds: []*discordgo.MessageEmbed{{
			Title:       "This is a simple User Choice Embed",
			Description: "Confirm or Cancel?",
		}},
		Components: []discordgo.MessageComponent{menu.UserChoiceRow(label)},
	}

	col, err := menu.Spawn(ctx, c, display, menu.Options{TimeLimit: 3 * time.Minute})
	if err != nil {
		return err
	}

	col.OnCollect(func(ci *command.Interaction) {
		if err := ci.DeferUpdate(); err != nil {
			c.Log.Warn().Err(err).Msg("failed to acknowledge button")
			return
		}
		id := ci.MessageComponentData().CustomID
		if _, err := ci.FollowUpEphemeral(fmt.Sprintf("Button Collected with customId: %s", id)); err != nil {
			c.Log.Warn().Err(err).Msg("failed to send follow-up")
		}
	})
	col.OnEnd(func(collected []*command.Interaction, reason string) {
		if endedQuietly(reason) {
			menu.DeleteAnchor(c.Session, col.Anchor(), c.Log)
		}
		c.Log.Info().Int("collected", len(collected)).Str("reason", reason).Msg("sandbox collector ended")
	})
	return nil
}

func basicPager(ctx context.Context, c *command.Context, args sandboxArgs) error {
	pages := make([]*discordgo.MessageEmbed, frameCount(args.num[0]))
	for i := range pages {
		pages[i] = &discordgo.MessageEmbed{
			Title:       fmt.Sprintf("Page #%d", i+1),
			Description: "This is a page, it is one of many",
		}
	}
	pager := menu.NewPaginator(pages)

	col, err := menu.Spawn(ctx, c, pager.Page(), menu.Options{TimeLimit: 3 * time.Minute})
	if err != nil {
		return err
	}

	col.OnCollect(func(ci *command.Interaction) {
		action, ok := menu.PageAction(ci.MessageComponentData().CustomID)
		var err error
		if ok {
			err = menu.Update(ci, pager.ChangePage(action))
		} else {
			err = ci.DeferUpdate()
		}
		if err != nil {
			c.Log.Warn().Err(err).Msg("failed to change page")
		}
	})
	col.OnEnd(func(_ []*command.Interaction, reason string) {
		if endedQuietly(reason) {
			menu.DeleteAnchor(c.Session, col.Anchor(), c.Log)
		}
	})
	return nil
}

func basicMenu(ctx context.Context, c *command.Context, args sandboxArgs) error {
	backRow := menu.BackButtonRow()
	frames := make([]menu.Display, frameCount(args.num[0]))
	for i := range frames {
		frames[i] = menu.Display{
			Embeds: []*discordgo.MessageEmbed{{
				Title:       fmt.Sprintf("Frame #%d", i+1),
				Description: "This is a frame in a menu, it is one of many!",
			}},
			Components: []discordgo.MessageComponent{backRow},
		}
		if i == len(frames)-1 {
			continue
		}
		frames[i].Components = []discordgo.MessageComponent{
			discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.Button{CustomID: fmt.Sprintf("frame-%d-main", i), Label: "Do something!", Style: discordgo.PrimaryButton},
				discordgo.Button{CustomID: fmt.Sprintf("frame-%d-alt", i), Label: "Do Something else!", Style: discordgo.SecondaryButton},
			}},
			backRow,
		}
	}

	m, err := menu.CreateAnchor(ctx, c, frames[0], menu.Options{TimeLimit: 5 * time.Minute})
	if err != nil {
		return err
	}

	m.OnCollect(func(ci *command.Interaction) {
		var err error
		switch m.AnalyzeAction(ci.MessageComponentData().CustomID) {
		case menu.ActionPage:
			err = ci.DeferUpdate()
		case menu.ActionNext:
			if pos := m.Position(); pos < len(frames) {
				err = m.FrameForward(ci, frames[pos])
			} else {
				err = m.FrameRefresh(ci)
			}
		case menu.ActionBack, menu.ActionCancel:
			err = m.FrameBackward(ci)
		default:
			err = m.FrameRefresh(ci)
		}
		if err != nil {
			c.Log.Warn().Err(err).Msg("failed to move menu")
		}
	})
	m.OnEnd(func(_ []*command.Interaction, reason string) {
		if endedQuietly(reason) {
			m.Destroy()
		}
	})
	return nil
}
