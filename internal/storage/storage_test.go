package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(context.Background(), filepath.Join(t.TempDir(), "datastore.json"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestCommandHistoryIsBounded(t *testing.T) {
	s := newTestStorage(t)

	for i := 0; i < commandHistoryLimit+5; i++ {
		require.NoError(t, s.AppendCommandToHistory("guild", CommandHistoryRecord{
			Command:  fmt.Sprintf("cmd-%d", i),
			Datetime: time.Now(),
		}))
	}

	history, err := s.FetchCommandHistory("guild")
	require.NoError(t, err)
	require.Len(t, history, commandHistoryLimit)
	assert.Equal(t, "cmd-5", history[0].Command)
	assert.Equal(t, fmt.Sprintf("cmd-%d", commandHistoryLimit+4), history[len(history)-1].Command)
}

func TestCommandHistoryDirectMessages(t *testing.T) {
	s := newTestStorage(t)

	require.NoError(t, s.AppendCommandToHistory("", CommandHistoryRecord{Command: "ping"}))

	history, err := s.FetchCommandHistory("")
	require.NoError(t, err)
	require.Len(t, history, 1)

	other, err := s.FetchCommandHistory("guild")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestDeploymentRecord(t *testing.T) {
	s := newTestStorage(t)

	dep, err := s.GetDeployment("guild")
	require.NoError(t, err)
	assert.Nil(t, dep)

	require.NoError(t, s.SetDeployment("guild", DeploymentRecord{ID: "id", Hash: "abc", Count: 3}))
	require.NoError(t, s.AppendCommandToHistory("guild", CommandHistoryRecord{Command: "ping"}))

	dep, err = s.GetDeployment("guild")
	require.NoError(t, err)
	require.NotNil(t, dep)
	assert.Equal(t, "abc", dep.Hash)
	assert.Equal(t, 3, dep.Count)
}

func TestRecordsSurviveReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "datastore.json")

	s, err := New(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, s.AppendCommandToHistory("guild", CommandHistoryRecord{Command: "ping", UserID: "u1"}))
	require.NoError(t, s.SetDeployment("guild", DeploymentRecord{ID: "id", Hash: "abc", Count: 2}))
	require.NoError(t, s.Close())

	reopened, err := New(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	history, err := reopened.FetchCommandHistory("guild")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "ping", history[0].Command)
	assert.Equal(t, "u1", history[0].UserID)

	dep, err := reopened.GetDeployment("guild")
	require.NoError(t, err)
	require.NotNil(t, dep)
	assert.Equal(t, "abc", dep.Hash)
}

func TestCloseReturnsWhileParentContextIsLive(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s, err := New(ctx, filepath.Join(t.TempDir(), "datastore.json"))
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- s.Close() }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Close blocked on a live context")
	}
}

func TestWritesAfterCloseFail(t *testing.T) {
	s, err := New(context.Background(), filepath.Join(t.TempDir(), "datastore.json"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	assert.Error(t, s.AppendCommandToHistory("guild", CommandHistoryRecord{Command: "ping"}))
}
