package menu

import (
	"context"
	"strings"
	"sync"

	"github.com/keshon/sandbox-bot/internal/command"
)

// Action classifies a component press inside a managed menu.
type Action string

const (
	ActionPage    Action = "PAGE"
	ActionNext    Action = "NEXT"
	ActionBack    Action = "BACK"
	ActionCancel  Action = "CANCEL"
	ActionUnknown Action = "UNKNOWN"
)

// Manager keeps a stack of frames on one anchor message. Pressing through
// the menu pushes frames; back pops them.
type Manager struct {
	*Collector

	mu        sync.Mutex
	frames    []Display
	destroyed bool
}

// CreateAnchor sends root and starts a menu on it.
func CreateAnchor(ctx context.Context, c *command.Context, root Display, opts Options) (*Manager, error) {
	col, err := Spawn(ctx, c, root, opts)
	if err != nil {
		return nil, err
	}
	return &Manager{Collector: col, frames: []Display{root}}, nil
}

// AnalyzeAction classifies a custom ID. Paginator buttons are PAGE, the
// shared back and cancel buttons are BACK and CANCEL, and any other button
// moves the menu forward.
func (m *Manager) AnalyzeAction(customID string) Action {
	if _, ok := PageAction(customID); ok {
		return ActionPage
	}
	switch customID {
	case CustomIDBack:
		return ActionBack
	case CustomIDCancel:
		return ActionCancel
	case "":
		return ActionUnknown
	}
	if strings.HasPrefix(customID, "menu-") && customID != CustomIDConfirm {
		return ActionUnknown
	}
	return ActionNext
}

// Position is the number of frames on the stack, which is also the index of
// the next frame in a linear menu.
func (m *Manager) Position() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.frames)
}

// Current returns the frame on top of the stack.
func (m *Manager) Current() Display {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.frames[len(m.frames)-1]
}

// FrameForward pushes frame and shows it in response to ci.
func (m *Manager) FrameForward(ci *command.Interaction, frame Display) error {
	m.mu.Lock()
	m.frames = append(m.frames, frame)
	m.mu.Unlock()
	return Update(ci, frame)
}

// FrameBackward pops the top frame and shows the one below. At the root
// frame the menu is cancelled and its message deleted.
func (m *Manager) FrameBackward(ci *command.Interaction) error {
	m.mu.Lock()
	if len(m.frames) <= 1 {
		m.mu.Unlock()
		err := ci.DeferUpdate()
		m.Stop(ReasonCancel)
		m.deleteAnchor()
		return err
	}
	m.frames = m.frames[:len(m.frames)-1]
	frame := m.frames[len(m.frames)-1]
	m.mu.Unlock()
	return Update(ci, frame)
}

// FrameRefresh redraws the current frame in response to ci.
func (m *Manager) FrameRefresh(ci *command.Interaction) error {
	return Update(ci, m.Current())
}

// Destroy stops the menu and deletes its message.
func (m *Manager) Destroy() {
	m.Stop(ReasonDestroy)
	m.deleteAnchor()
}

func (m *Manager) deleteAnchor() {
	m.mu.Lock()
	if m.destroyed {
		m.mu.Unlock()
		return
	}
	m.destroyed = true
	m.mu.Unlock()
	DeleteAnchor(m.session, m.anchor, m.log)
}
