package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindIsValid(t *testing.T) {
	for _, k := range Kinds {
		assert.True(t, k.IsValid(), "%s should be valid", k)
	}
	assert.False(t, Kind("").IsValid())
	assert.False(t, Kind("shell-operation").IsValid())
	assert.False(t, Kind("FILE-OPERATION").IsValid())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		action  Action
		wantErr error
	}{
		{
			name:   "file write",
			action: Action{Type: KindFile, Action: "write", Path: "a.txt", Content: "hi"},
		},
		{
			name:    "file without path",
			action:  Action{Type: KindFile, Action: "read"},
			wantErr: ErrInvalid,
		},
		{
			name:    "rename without newPath",
			action:  Action{Type: KindFile, Action: "rename", Path: "a.txt"},
			wantErr: ErrInvalid,
		},
		{
			name:    "unknown file verb",
			action:  Action{Type: KindFile, Action: "chmod", Path: "a.txt"},
			wantErr: ErrUnsupported,
		},
		{
			name:    "unknown kind",
			action:  Action{Type: "shell-operation", Action: "run"},
			wantErr: ErrUnsupported,
		},
		{
			name:   "process start",
			action: Action{Type: KindProcess, Action: "start", Command: "sleep 1000", Options: Options{Name: "bg"}},
		},
		{
			name:    "process start without command",
			action:  Action{Type: KindProcess, Action: "start"},
			wantErr: ErrInvalid,
		},
		{
			name:   "process list",
			action: Action{Type: KindProcess, Action: "list"},
		},
		{
			name:   "database query",
			action: Action{Type: KindDatabase, Action: "query", DBType: "mysql"},
		},
		{
			name:   "stubbed database type accepts any verb",
			action: Action{Type: KindDatabase, Action: "select", DBType: "mysql"},
		},
		{
			name:    "mongodb rejects unknown verb",
			action:  Action{Type: KindDatabase, Action: "select", DBType: "mongodb"},
			wantErr: ErrUnsupported,
		},
		{
			name:    "database without type",
			action:  Action{Type: KindDatabase, Action: "query"},
			wantErr: ErrInvalid,
		},
		{
			name:    "git clone without repository",
			action:  Action{Type: KindGit, Action: "clone"},
			wantErr: ErrInvalid,
		},
		{
			name: "project setup with steps",
			action: Action{Type: KindProjectSetup, Name: "demo", Steps: []Action{
				{Type: StepMkdir, Path: "src"},
				{Type: StepWrite, Path: "src/index.js", Content: "console.log(1)"},
				{Type: StepInstall, Manager: "npm", Packages: []string{"express"}},
			}},
		},
		{
			name:    "project setup without name",
			action:  Action{Type: KindProjectSetup},
			wantErr: ErrInvalid,
		},
		{
			name: "project setup with deploy step",
			action: Action{Type: KindProjectSetup, Name: "demo", Steps: []Action{
				{Type: StepUpload, Path: "dist"},
			}},
			wantErr: ErrUnsupported,
		},
		{
			name: "deploy invoke without command",
			action: Action{Type: KindDeploy, Steps: []Action{
				{Type: StepInvoke},
			}},
			wantErr: ErrInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.action.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestProcessName(t *testing.T) {
	assert.Equal(t, "bg", Action{Command: "sleep 1", Name: "other", Options: Options{Name: "bg"}}.ProcessName())
	assert.Equal(t, "other", Action{Command: "sleep 1", Name: "other"}.ProcessName())
	assert.Equal(t, "sleep", Action{Command: "sleep 1"}.ProcessName())
	assert.Empty(t, Action{}.ProcessName())
}

func TestSummary(t *testing.T) {
	a := Action{Type: KindPackage, Action: "install", Packages: []string{"express", "cors"}}
	assert.Equal(t, "package-operation install express cors", a.Summary())

	p := Action{Type: KindProjectSetup, Path: "demo", Steps: []Action{{Type: StepMkdir, Path: "x"}}}
	assert.Equal(t, "project-setup demo (1 steps)", p.Summary())
}
