// Package commandtest provides an in-memory command.Session and interaction
// builders for tests.
package commandtest

import (
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
)

const (
	GuildID   = "100000000000000001"
	ChannelID = "100000000000000002"
	UserID    = "100000000000000003"
	// InteractionID encodes 2024-01-01T00:00:00Z as a snowflake timestamp.
	InteractionID = "1191168914227200000"
)

// Call is one recorded request.
type Call struct {
	Method    string
	Response  *discordgo.InteractionResponse
	Edit      *discordgo.WebhookEdit
	Params    *discordgo.WebhookParams
	ChannelID string
	MessageID string
}

// Session records every request and answers with canned values.
type Session struct {
	mu sync.Mutex

	Calls []Call

	RespondErr  error
	EditErr     error
	FollowupErr error
	DeleteErr   error

	// Original is returned by InteractionResponse and InteractionResponseEdit.
	Original *discordgo.Message

	handlers  map[int]interface{}
	nextID    int
	followups int
}

func NewSession() *Session {
	return &Session{
		Original: &discordgo.Message{
			ID:        "anchor-1",
			ChannelID: ChannelID,
			Timestamp: time.Date(2024, 1, 1, 0, 0, 0, int(150*time.Millisecond), time.UTC),
		},
		handlers: make(map[int]interface{}),
	}
}

func (s *Session) record(c Call) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, c)
}

func (s *Session) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	s.record(Call{Method: "InteractionRespond", Response: resp})
	return s.RespondErr
}

func (s *Session) InteractionResponse(_ *discordgo.Interaction, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	s.record(Call{Method: "InteractionResponse"})
	return s.Original, nil
}

func (s *Session) InteractionResponseEdit(_ *discordgo.Interaction, edit *discordgo.WebhookEdit, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	s.record(Call{Method: "InteractionResponseEdit", Edit: edit})
	if s.EditErr != nil {
		return nil, s.EditErr
	}
	return s.Original, nil
}

func (s *Session) FollowupMessageCreate(_ *discordgo.Interaction, _ bool, params *discordgo.WebhookParams, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	s.record(Call{Method: "FollowupMessageCreate", Params: params})
	if s.FollowupErr != nil {
		return nil, s.FollowupErr
	}
	s.mu.Lock()
	s.followups++
	id := fmt.Sprintf("followup-%d", s.followups)
	s.mu.Unlock()
	return &discordgo.Message{ID: id, ChannelID: ChannelID}, nil
}

func (s *Session) ChannelMessageDelete(channelID, messageID string, _ ...discordgo.RequestOption) error {
	s.record(Call{Method: "ChannelMessageDelete", ChannelID: channelID, MessageID: messageID})
	return s.DeleteErr
}

func (s *Session) AddHandler(handler interface{}) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.handlers[id] = handler
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.handlers, id)
	}
}

// HandlerCount returns how many handlers are subscribed.
func (s *Session) HandlerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handlers)
}

// Emit delivers e to every subscribed InteractionCreate handler.
func (s *Session) Emit(e *discordgo.InteractionCreate) {
	s.mu.Lock()
	var hs []func(*discordgo.Session, *discordgo.InteractionCreate)
	for _, h := range s.handlers {
		if fn, ok := h.(func(*discordgo.Session, *discordgo.InteractionCreate)); ok {
			hs = append(hs, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range hs {
		fn(nil, e)
	}
}

// Methods lists the recorded calls by method name.
func (s *Session) Methods() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.Calls))
	for i, c := range s.Calls {
		out[i] = c.Method
	}
	return out
}

// Responses lists the initial responses sent.
func (s *Session) Responses() []*discordgo.InteractionResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*discordgo.InteractionResponse
	for _, c := range s.Calls {
		if c.Response != nil {
			out = append(out, c.Response)
		}
	}
	return out
}

// Followups lists the follow-up messages sent.
func (s *Session) Followups() []*discordgo.WebhookParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*discordgo.WebhookParams
	for _, c := range s.Calls {
		if c.Params != nil {
			out = append(out, c.Params)
		}
	}
	return out
}

// ChatInput builds a chat-input command interaction sent from a guild.
func ChatInput(name string, opts ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		ID:        InteractionID,
		Type:      discordgo.InteractionApplicationCommand,
		GuildID:   GuildID,
		ChannelID: ChannelID,
		Member:    &discordgo.Member{User: &discordgo.User{ID: UserID, Username: "tester"}},
		Data: discordgo.ApplicationCommandInteractionData{
			ID:          "command-" + name,
			Name:        name,
			CommandType: discordgo.ChatApplicationCommand,
			Options:     opts,
		},
	}}
}

// StringOption builds a string chat-input option.
func StringOption(name, value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionString,
		Value: value,
	}
}

// IntOption builds an integer chat-input option. Values arrive from JSON as float64.
func IntOption(name string, value int) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionInteger,
		Value: float64(value),
	}
}

// Component builds a button press on messageID by userID.
func Component(messageID, customID, userID string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		ID:        "component-" + customID,
		Type:      discordgo.InteractionMessageComponent,
		GuildID:   GuildID,
		ChannelID: ChannelID,
		Member:    &discordgo.Member{User: &discordgo.User{ID: userID, Username: "tester"}},
		Message:   &discordgo.Message{ID: messageID, ChannelID: ChannelID},
		Data: discordgo.MessageComponentInteractionData{
			CustomID:      customID,
			ComponentType: discordgo.ButtonComponent,
		},
	}}
}
