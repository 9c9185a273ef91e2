package assistant

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/saathi/internal/core/action"
	"github.com/colonyops/saathi/internal/core/config"
	"github.com/colonyops/saathi/internal/core/plan"
	"github.com/colonyops/saathi/internal/core/planner"
)

func TestExecute_WriteThenRead(t *testing.T) {
	ts := newTestSession(t)

	p, err := plan.Parse(`{"type":"file-operation","actions":[
		{"type":"file-operation","action":"write","path":"a.txt","content":"hi"},
		{"type":"file-operation","action":"read","path":"a.txt"}
	]}`)
	require.NoError(t, err)

	out, err := ts.Execute(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, out.Results, 2)

	data, err := os.ReadFile(filepath.Join(ts.Cwd(), "a.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hi", string(data))

	assert.True(t, out.Results[1].Success)
	assert.Equal(t, "hi", out.Results[1].Content)
}

func TestExecute_FailureAbortsRemainingActions(t *testing.T) {
	ts := newTestSession(t)

	p := newPlan(
		action.Action{Type: action.KindFile, Action: "write", Path: "kept.txt", Content: "x"},
		action.Action{Type: action.KindFile, Action: "read", Path: "missing.txt"},
		action.Action{Type: action.KindFile, Action: "write", Path: "never.txt", Content: "y"},
	)

	out, err := ts.Execute(context.Background(), p)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	require.Len(t, out.Results, 2)
	assert.True(t, out.Results[0].Success)
	assert.False(t, out.Results[1].Success)

	assert.FileExists(t, filepath.Join(ts.Cwd(), "kept.txt"))
	assert.NoFileExists(t, filepath.Join(ts.Cwd(), "never.txt"))
	assert.Equal(t, StateIdle, ts.State())
}

func TestExecute_UnknownKinds(t *testing.T) {
	unknown := action.Action{Type: "teleport-operation", Action: "go"}
	write := action.Action{Type: action.KindFile, Action: "write", Path: "after.txt", Content: "z"}

	t.Run("skip", func(t *testing.T) {
		ts := newTestSession(t)

		out, err := ts.Execute(context.Background(), newPlan(unknown, write))
		require.NoError(t, err)
		assert.Equal(t, 1, out.Skipped)
		assert.FileExists(t, filepath.Join(ts.Cwd(), "after.txt"))
	})

	t.Run("fail", func(t *testing.T) {
		ts := newTestSession(t, func(o *Options) {
			o.Config.UnknownActions = config.UnknownFail
		})

		_, err := ts.Execute(context.Background(), newPlan(unknown, write))
		require.ErrorIs(t, err, action.ErrUnsupported)
		assert.NoFileExists(t, filepath.Join(ts.Cwd(), "after.txt"))
	})
}

func TestExecute_InvalidActionFails(t *testing.T) {
	ts := newTestSession(t)

	out, err := ts.Execute(context.Background(), newPlan(
		action.Action{Type: action.KindFile, Action: "shred", Path: "a.txt"},
	))
	require.ErrorIs(t, err, action.ErrUnsupported)
	require.Len(t, out.Results, 1)
	assert.False(t, out.Results[0].Success)
}

func TestExecute_CountsActionsByKind(t *testing.T) {
	ts := newTestSession(t)

	_, err := ts.Execute(context.Background(), newPlan(
		action.Action{Type: action.KindFile, Action: "write", Path: "a.txt"},
		action.Action{Type: action.KindFile, Action: "delete", Path: "nope.txt"},
	))
	require.Error(t, err)

	assert.Equal(t, int64(2), ts.counter("actions.executed+kind=file-operation"))
	assert.Equal(t, int64(1), ts.counter("actions.failed+kind=file-operation"))
}

func TestHandle_ParsesExecutesAndRecords(t *testing.T) {
	ts := newTestSession(t)
	ts.planner.reply = "Here is the plan:\n```json\n" + `{
		"type": "file-operation",
		"actions": [{"type": "file-operation", "action": "write", "path": "note.md", "content": "# hi"}],
		"context": {"description": "write a note"}
	}` + "\n```"

	out, err := ts.Handle(context.Background(), "ek note likho")
	require.NoError(t, err)
	require.NotNil(t, out.Plan)
	assert.Len(t, out.Results, 1)
	assert.FileExists(t, filepath.Join(ts.Cwd(), "note.md"))

	require.Len(t, ts.planner.reqs, 1)
	assert.Equal(t, ts.Cwd(), ts.planner.reqs[0].Cwd)
	assert.Equal(t, config.LanguageEnglish, ts.planner.reqs[0].Language)

	recent := ts.History().Recent(5)
	require.Len(t, recent, 1)
	assert.Equal(t, "ek note likho", recent[0].Command)
	assert.Equal(t, "write a note", recent[0].Description)
	assert.NotEmpty(t, recent[0].ID)

	assert.Equal(t, int64(1), ts.counter("plans.parsed+"))
}

func TestHandle_RecordsHistoryWhenExecutionFails(t *testing.T) {
	ts := newTestSession(t)
	ts.planner.reply = `{"type":"file-operation","actions":[{"type":"file-operation","action":"read","path":"missing"}]}`

	_, err := ts.Handle(context.Background(), "read it")
	require.Error(t, err)
	assert.Equal(t, 1, ts.History().Len())
}

func TestHandle_ParseFailureExecutesNothing(t *testing.T) {
	ts := newTestSession(t)
	ts.planner.reply = "sorry, I cannot help with that"

	out, err := ts.Handle(context.Background(), "do something")
	require.Error(t, err)

	var perr *plan.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Empty(t, out.Results)
	assert.Equal(t, 0, ts.History().Len())
	assert.Equal(t, int64(1), ts.counter("plans.failed+"))
	assert.Equal(t, StateIdle, ts.State())
}

func TestHandle_ModelError(t *testing.T) {
	ts := newTestSession(t)
	ts.planner.err = &planner.ModelRequestError{Model: "m", Err: errBoom}

	_, err := ts.Handle(context.Background(), "anything")
	require.ErrorIs(t, err, errBoom)
}

func TestHandle_NoPlanner(t *testing.T) {
	ts := newTestSession(t)
	ts.SetPlanner(nil)

	_, err := ts.Handle(context.Background(), "anything")
	require.True(t, errors.Is(err, planner.ErrNoAPIKey))
}

func TestMarkAwaitingInput(t *testing.T) {
	ts := newTestSession(t)
	assert.Equal(t, StateIdle, ts.State())

	ts.MarkAwaitingInput()
	assert.Equal(t, StateAwaitingInput, ts.State())
}
