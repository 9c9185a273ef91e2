// Package plan parses the execution plans returned by the model.
package plan

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/colonyops/saathi/internal/core/action"
)

// Plan is the structured reply of the model for a single instruction.
// It is immutable after Parse and consumed once by the dispatcher.
type Plan struct {
	ID      string          `json:"-" yaml:"-"`
	Type    string          `json:"type" yaml:"type"`
	Actions []action.Action `json:"actions" yaml:"actions"`
	Context Context         `json:"context" yaml:"context"`
}

// Context describes the plan for display.
type Context struct {
	Description     string `json:"description,omitempty" yaml:"description,omitempty"`
	NeedsMonitoring bool   `json:"needsMonitoring,omitempty" yaml:"needsMonitoring,omitempty"`
	EstimatedTime   string `json:"estimated_time,omitempty" yaml:"estimated_time,omitempty"`
}

// ParseError reports a model reply that did not contain a usable plan.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse plan: %s: %v", e.Reason, e.Err)
	}
	return "parse plan: " + e.Reason
}

func (e *ParseError) Unwrap() error { return e.Err }

// ErrNoObject is wrapped by ParseError when the reply holds no balanced
// JSON object.
var ErrNoObject = errors.New("no JSON object found")

// Parse extracts the first balanced JSON object from raw model output and
// decodes it. Markdown code fences and comment lines around or inside the
// object are tolerated.
func Parse(raw string) (*Plan, error) {
	body := ExtractObject(StripComments(StripFences(raw)))
	if body == "" {
		return nil, &ParseError{Reason: "model reply", Err: ErrNoObject}
	}

	var p Plan
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		return nil, &ParseError{Reason: "decode JSON", Err: err}
	}

	return finish(&p)
}

// LoadFile reads a plan from a JSON or YAML file. YAML is selected by the
// .yaml/.yml extension; anything else is treated as JSON.
func LoadFile(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan file: %w", err)
	}
	return Decode(data, filepath.Ext(path))
}

// Decode decodes a plan document. ext selects the format as in LoadFile.
func Decode(data []byte, ext string) (*Plan, error) {
	var p Plan
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, &ParseError{Reason: "decode YAML", Err: err}
		}
	default:
		return Parse(string(data))
	}
	return finish(&p)
}

func finish(p *Plan) (*Plan, error) {
	if p.Actions == nil {
		return nil, &ParseError{Reason: "plan has no actions field"}
	}
	p.ID = uuid.NewString()
	return p, nil
}

// Validate checks every action against its schema and returns the first
// failure, prefixed with the action index.
func (p *Plan) Validate() error {
	for i, a := range p.Actions {
		if err := a.Validate(); err != nil {
			return fmt.Errorf("action %d: %w", i, err)
		}
	}
	return nil
}
