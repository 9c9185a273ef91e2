package planner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGemini_RequiresKey(t *testing.T) {
	_, err := NewGemini(context.Background(), "", "gemini-2.5-flash")
	require.ErrorIs(t, err, ErrNoAPIKey)
}

func TestModelRequestError(t *testing.T) {
	cause := errors.New("quota exceeded")
	var err error = &ModelRequestError{Model: "gemini-2.5-flash", Err: cause}

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "gemini-2.5-flash")

	var mre *ModelRequestError
	require.ErrorAs(t, err, &mre)
}

func TestSystemPrompt(t *testing.T) {
	tests := []struct {
		language string
		want     string
	}{
		{language: "en", want: "in English"},
		{language: "hi", want: "in Hindi"},
		{language: "hinglish", want: "in Hinglish"},
		{language: "", want: "in English"},
	}

	for _, tt := range tests {
		t.Run(tt.language, func(t *testing.T) {
			p := SystemPrompt(tt.language)
			assert.Contains(t, p, tt.want)
			assert.Contains(t, p, "mkdir|write|exec|install|start|git|database")
			assert.Contains(t, p, "create-collection|insert|query|drop-collection")
			assert.NotContains(t, p, "%!")
		})
	}
}

func TestUserPrompt(t *testing.T) {
	got := UserPrompt(Request{Instruction: "  ek express app banao ", Cwd: "/home/asha/code"})
	assert.Equal(t, "Current directory: /home/asha/code\nInstruction: ek express app banao", got)

	assert.Equal(t, "Instruction: ls", UserPrompt(Request{Instruction: "ls"}))
}
