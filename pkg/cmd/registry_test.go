package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCommand struct {
	name string
	tag  string
	runs int
}

func (s *stubCommand) Name() string        { return s.name }
func (s *stubCommand) Description() string { return s.tag }
func (s *stubCommand) Run(context.Context, *Invocation) error {
	s.runs++
	return nil
}

func TestRegistryLastWriteWins(t *testing.T) {
	r := NewRegistry()

	assert.False(t, r.Register(&stubCommand{name: "a", tag: "file1"}))
	assert.True(t, r.Register(&stubCommand{name: "a", tag: "file2"}))

	require.Equal(t, 1, r.Len())
	c, ok := r.Get("a")
	require.True(t, ok)
	assert.Equal(t, "file2", c.Description())
}

func TestRegistryGetAllSorted(t *testing.T) {
	r := NewRegistry()
	for _, n := range []string{"sandbox", "help", "ping"} {
		r.Register(&stubCommand{name: n})
	}

	var names []string
	for _, c := range r.GetAll() {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{"help", "ping", "sandbox"}, names)

	_, ok := r.Get("missing")
	assert.False(t, ok)
}

func TestApplyAndRoot(t *testing.T) {
	inner := &stubCommand{name: "ping"}
	var order []string

	mw := func(tag string) Middleware {
		return func(c Command) Command {
			return Wrap(c, func(ctx context.Context, inv *Invocation) error {
				order = append(order, tag)
				return c.Run(ctx, inv)
			})
		}
	}

	c := Apply(inner, mw("first"), nil, mw("second"))
	require.NoError(t, c.Run(context.Background(), &Invocation{}))

	assert.Equal(t, []string{"second", "first"}, order)
	assert.Equal(t, 1, inner.runs)
	assert.Equal(t, "ping", c.Name())
	assert.Same(t, inner, Root(c))
}
