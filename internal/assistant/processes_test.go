//go:build !windows

package assistant

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/saathi/internal/core/action"
	"github.com/colonyops/saathi/internal/core/procs"
	"github.com/colonyops/saathi/pkg/executil"
)

func startAction(name, command string) action.Action {
	return action.Action{
		Type:    action.KindProcess,
		Action:  "start",
		Command: command,
		Options: action.Options{Name: name},
	}
}

func TestProcess_StartThenList(t *testing.T) {
	ts := newTestSession(t)

	_, err := ts.Execute(context.Background(), newPlan(startAction("bg", "sleep 1000")))
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	out, err := ts.Execute(context.Background(), newPlan(action.Action{Type: action.KindProcess, Action: "list"}))
	require.NoError(t, err)
	require.Len(t, out.Results, 1)

	list, ok := out.Results[0].Data.([]procs.Info)
	require.True(t, ok)
	require.Len(t, list, 1)
	assert.Equal(t, "bg", list[0].Name)
	assert.Equal(t, "sleep 1000", list[0].Command)
	assert.Positive(t, list[0].UptimeSeconds)
}

func TestProcess_DuplicateNameReplacesEntry(t *testing.T) {
	ts := newTestSession(t)

	for _, cmd := range []string{"sleep 1000", "sleep 2000", "sleep 3000"} {
		_, err := ts.ExecuteAction(context.Background(), startAction("svc", cmd))
		require.NoError(t, err)
	}

	entries := ts.Registry().Processes()
	require.Len(t, entries, 1)
	assert.Equal(t, "sleep 3000", entries[0].Command)
}

func TestProcess_StopAbsentName(t *testing.T) {
	ts := newTestSession(t)
	_, err := ts.ExecuteAction(context.Background(), startAction("keep", "sleep 1000"))
	require.NoError(t, err)

	res, err := ts.ExecuteAction(context.Background(), action.Action{
		Type:    action.KindProcess,
		Action:  "stop",
		Options: action.Options{Name: "ghost"},
	})
	require.ErrorIs(t, err, action.ErrNotFound)
	assert.False(t, res.Success)
	assert.Len(t, ts.Registry().Processes(), 1)
}

func TestProcess_ExitIsAppliedBySync(t *testing.T) {
	ts := newTestSession(t)

	_, err := ts.ExecuteAction(context.Background(), startAction("quick", "true"))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		ts.Sync(context.Background())
		return len(ts.Registry().Processes()) == 0
	}, 5*time.Second, 20*time.Millisecond)
}

func TestProcess_WaitForExitReturnsOutput(t *testing.T) {
	ts := newTestSession(t, func(o *Options) { o.Exec = &executil.RealExecutor{} })

	a := startAction("", "echo ready")
	a.Options.WaitForExit = true

	res, err := ts.ExecuteAction(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, "ready", res.Output)
	assert.Empty(t, ts.Registry().Processes())
}

func TestShutdown_DrainsEveryRegistry(t *testing.T) {
	ts := newTestSession(t)
	ts.client.closeErr = errBoom

	_, err := ts.Execute(context.Background(), newPlan(
		startAction("bg", "sleep 1000"),
		action.Action{Type: action.KindFile, Action: "watch", Path: "."},
		action.Action{
			Type:       action.KindDatabase,
			Action:     "create-collection",
			DBType:     "mongodb",
			Collection: "users",
		},
	))
	require.NoError(t, err)

	reg := ts.Registry()
	require.Len(t, reg.Processes(), 1)
	require.Len(t, reg.Watchers(), 1)
	require.Len(t, reg.Conns(), 1)

	var shutdownErr error
	require.NotPanics(t, func() {
		shutdownErr = ts.Shutdown(context.Background())
	})
	require.ErrorIs(t, shutdownErr, errBoom)

	assert.Empty(t, reg.Processes())
	assert.Empty(t, reg.Watchers())
	assert.Empty(t, reg.Conns())
	assert.True(t, ts.client.closed)
}
