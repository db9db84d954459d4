// Package utility holds everyday commands available in every guild.
package utility

import (
	"context"
	"fmt"

	"github.com/keshon/sandbox-bot/internal/command"

	"github.com/bwmarrin/discordgo"
)

func init() {
	command.Register("ping", Ping)
}

// Ping replies, then edits the reply with the time between the interaction
// and the reply as Discord recorded them.
func Ping(_ context.Context, c *command.Context) error {
	i := c.Interaction
	if err := i.Reply(&discordgo.InteractionResponseData{Content: "Pinging..."}); err != nil {
		return fmt.Errorf("reply: %w", err)
	}

	msg, err := i.FetchReply()
	if err != nil {
		return fmt.Errorf("fetch reply: %w", err)
	}

	sent, err := discordgo.SnowflakeTimestamp(i.ID)
	if err != nil {
		return fmt.Errorf("interaction timestamp: %w", err)
	}

	content := fmt.Sprintf("Roundtrip latency: %dms", msg.Timestamp.Sub(sent).Milliseconds())
	if _, err := i.EditReply(&discordgo.WebhookEdit{Content: &content}); err != nil {
		return fmt.Errorf("edit reply: %w", err)
	}
	return nil
}
