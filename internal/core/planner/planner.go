// Package planner turns natural-language instructions into raw plan replies
// using the Gemini API.
package planner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// ErrNoAPIKey is returned when the planner is built without an API key.
var ErrNoAPIKey = errors.New("gemini API key is not set")

// Request is one instruction sent to the model.
type Request struct {
	Instruction string
	// Cwd is the session working directory, given to the model as context.
	Cwd      string
	Language string
}

// Planner returns the model's raw reply for a request. The reply is expected
// to contain a JSON plan, possibly wrapped in prose or code fences.
type Planner interface {
	Plan(ctx context.Context, req Request) (string, error)
}

// ModelRequestError reports a failed model call.
type ModelRequestError struct {
	Model string
	Err   error
}

func (e *ModelRequestError) Error() string {
	return fmt.Sprintf("model request to %s failed: %v", e.Model, e.Err)
}

func (e *ModelRequestError) Unwrap() error { return e.Err }

// Gemini implements Planner with google.golang.org/genai.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini planner.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Gemini{client: client, model: model}, nil
}

// Plan sends req with the plan system prompt. There is exactly one attempt.
func (g *Gemini) Plan(ctx context.Context, req Request) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(UserPrompt(req), genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemPrompt(req.Language), genai.RoleUser),
		ResponseMIMEType:  "application/json",
		Temperature:       genai.Ptr[float32](0.2),
	})
	if err != nil {
		return "", &ModelRequestError{Model: g.model, Err: err}
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", &ModelRequestError{Model: g.model, Err: errors.New("empty response")}
	}
	return text, nil
}
