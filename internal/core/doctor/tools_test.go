package doctor

import (
	"context"
	"fmt"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colonyops/saathi/pkg/executil"
)

func stubLookPath(t *testing.T, missing ...string) {
	t.Helper()
	orig := lookPathFunc
	t.Cleanup(func() { lookPathFunc = orig })

	lookPathFunc = func(file string) (string, error) {
		for _, m := range missing {
			if m == file {
				return "", &exec.Error{Name: file, Err: fmt.Errorf("not found")}
			}
		}
		return "/usr/bin/" + file, nil
	}
}

func TestToolsCheck_AllPresent(t *testing.T) {
	stubLookPath(t)

	result := NewToolsCheck(nil).Run(context.Background())

	assert.Equal(t, "Tools", result.Name)
	require.Len(t, result.Items, 4)
	for _, item := range result.Items {
		assert.Equal(t, StatusPass, item.Status, item.Label)
		assert.Equal(t, "/usr/bin/"+item.Label, item.Detail)
	}
}

func TestToolsCheck_GitMissingFails(t *testing.T) {
	stubLookPath(t, "git")

	result := NewToolsCheck(nil).Run(context.Background())

	require.Len(t, result.Items, 4)
	assert.Equal(t, "git", result.Items[0].Label)
	assert.Equal(t, StatusFail, result.Items[0].Status)
}

func TestToolsCheck_OptionalMissingWarns(t *testing.T) {
	stubLookPath(t, "pip", "node")

	result := NewToolsCheck(nil).Run(context.Background())

	passed, warned, failed := Summary([]Result{result})
	assert.Equal(t, 2, passed)
	assert.Equal(t, 2, warned)
	assert.Equal(t, 0, failed)
	assert.Contains(t, result.Items[3].Detail, "pip package actions")
}

func TestToolsCheck_ReportsVersions(t *testing.T) {
	stubLookPath(t, "pip")
	rec := &executil.RecordingExecutor{
		Outputs: map[string][]byte{
			"git":  []byte("git version 2.44.0\n"),
			"node": []byte("v20.11.1\n"),
		},
		Errors: map[string]error{
			"npm": fmt.Errorf("exit status 1"),
		},
	}

	result := NewToolsCheck(rec).Run(context.Background())

	require.Len(t, result.Items, 4)
	assert.Equal(t, "/usr/bin/git (git version 2.44.0)", result.Items[0].Detail)
	assert.Equal(t, "/usr/bin/node (v20.11.1)", result.Items[1].Detail)
	assert.Equal(t, "/usr/bin/npm", result.Items[2].Detail, "a failing version call keeps the path")
	assert.Equal(t, StatusWarn, result.Items[3].Status)

	assert.Equal(t, []string{"git --version", "node --version", "npm --version"}, rec.Lines())
}
