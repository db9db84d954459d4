package utility

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/keshon/sandbox-bot/internal/command"
	"github.com/keshon/sandbox-bot/internal/config"
	"github.com/keshon/sandbox-bot/internal/version"

	"github.com/bwmarrin/discordgo"
)

const embedColor = 0xb01e66

func init() {
	command.Register("help", Help)
}

// Help lists the loaded commands grouped by category.
func Help(_ context.Context, c *command.Context) error {
	embed := &discordgo.MessageEmbed{
		Title:       version.AppName + " Help",
		Description: buildHelpByCategory(c),
		Color:       embedColor,
		Footer:      &discordgo.MessageEmbedFooter{Text: "version " + version.String()},
	}

	return c.Interaction.Reply(&discordgo.InteractionResponseData{
		Embeds: []*discordgo.MessageEmbed{embed},
		Flags:  discordgo.MessageFlagsEphemeral,
	})
}

type helpEntry struct {
	name        string
	description string
}

func buildHelpByCategory(c *command.Context) string {
	if c.Commands == nil || c.Commands.Len() == 0 {
		return "No commands are loaded."
	}

	categoryMap := make(map[string][]helpEntry)
	for _, cmd := range c.Commands.GetAll() {
		cat := ""
		if d, ok := command.DescriptorOf(cmd); ok {
			cat = d.Category
		}
		categoryMap[cat] = append(categoryMap[cat], helpEntry{cmd.Name(), cmd.Description()})
	}

	cats := make([]string, 0, len(categoryMap))
	for cat := range categoryMap {
		cats = append(cats, cat)
	}
	sort.Slice(cats, func(i, j int) bool {
		wi, wj := config.CategoryWeight(cats[i]), config.CategoryWeight(cats[j])
		if wi != wj {
			return wi < wj
		}
		return cats[i] < cats[j]
	})

	var sb strings.Builder
	for _, cat := range cats {
		sb.WriteString(fmt.Sprintf("**%s**\n", config.CategoryTitle(cat)))
		// GetAll is sorted by name, so each category already is.
		for _, e := range categoryMap[cat] {
			sb.WriteString(fmt.Sprintf("`/%s` - %s\n", e.name, e.description))
		}
		sb.WriteString("\n")
	}
	return strings.TrimSuffix(sb.String(), "\n")
}
