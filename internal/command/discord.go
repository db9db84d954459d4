package command

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/keshon/sandbox-bot/internal/storage"
	"github.com/keshon/sandbox-bot/pkg/cmd"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

// Session is the part of *discordgo.Session that command handlers and the
// dispatcher talk to.
type Session interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponse(interaction *discordgo.Interaction, options ...discordgo.RequestOption) (*discordgo.Message, error)
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
	AddHandler(handler interface{}) func()
}

// Context is what the runtime hands a command handler for one invocation.
type Context struct {
	Session     Session
	Interaction *Interaction
	Commands    *cmd.Registry
	Storage     *storage.Storage
	Log         zerolog.Logger
}

// HandlerFunc runs a chat-input command.
type HandlerFunc func(ctx context.Context, c *Context) error

// SlashProvider is implemented by commands that can be published to Discord.
type SlashProvider interface {
	SlashDefinition() *discordgo.ApplicationCommand
}

// Descriptor pairs a command definition with the handler that serves it.
// It adapts a Discord chat-input command to cmd.Command.
type Descriptor struct {
	Definition *discordgo.ApplicationCommand
	// Category is the folder the definition was loaded from; empty for loose files.
	Category string
	Source   string
	Handler  HandlerFunc
}

func (d *Descriptor) Name() string        { return d.Definition.Name }
func (d *Descriptor) Description() string { return d.Definition.Description }

func (d *Descriptor) SlashDefinition() *discordgo.ApplicationCommand {
	return d.Definition
}

func (d *Descriptor) Run(ctx context.Context, inv *cmd.Invocation) error {
	c, ok := ContextOf(inv)
	if !ok {
		return fmt.Errorf("command %s: unexpected invocation data %T", d.Name(), inv.Data)
	}
	return d.Handler(ctx, c)
}

// ContextOf extracts the Discord context from an invocation.
func ContextOf(inv *cmd.Invocation) (*Context, bool) {
	if inv == nil {
		return nil, false
	}
	c, ok := inv.Data.(*Context)
	return c, ok && c != nil
}

// DescriptorOf reaches the descriptor behind any middleware wrapping c.
func DescriptorOf(c cmd.Command) (*Descriptor, bool) {
	d, ok := cmd.Root(c).(*Descriptor)
	return d, ok
}

// Definitions returns the publishable definitions in table, sorted by name.
func Definitions(table *cmd.Registry) []*discordgo.ApplicationCommand {
	var defs []*discordgo.ApplicationCommand
	for _, c := range table.GetAll() {
		sp, ok := cmd.Root(c).(SlashProvider)
		if !ok {
			continue
		}
		if def := sp.SlashDefinition(); def != nil {
			defs = append(defs, def)
		}
	}
	return defs
}

var (
	handlersMu sync.Mutex
	handlers   = map[string]HandlerFunc{}
)

// Register makes a handler available to the loader under a command name.
// Usually called from init() in a command package.
func Register(name string, h HandlerFunc) {
	handlersMu.Lock()
	defer handlersMu.Unlock()
	handlers[name] = h
}

// Handlers returns a copy of every registered handler.
func Handlers() map[string]HandlerFunc {
	handlersMu.Lock()
	defer handlersMu.Unlock()
	out := make(map[string]HandlerFunc, len(handlers))
	for k, v := range handlers {
		out[k] = v
	}
	return out
}

// HandlerNames lists registered handler names, sorted.
func HandlerNames() []string {
	handlersMu.Lock()
	defer handlersMu.Unlock()
	names := make([]string, 0, len(handlers))
	for k := range handlers {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
