// Package scenario reads adjudication scenarios: one phase of a game given
// as units, orders and, depending on the phase, retreat obligations or
// supply center ownership. Scenarios are YAML or JSON documents checked
// against an embedded JSON Schema before they are decoded.
package scenario

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a scenario document.
type Format int

const (
	YAML Format = iota
	JSON
)

func (f Format) String() string {
	if f == JSON {
		return "json"
	}
	return "yaml"
}

// FormatFromPath picks JSON for .json files and YAML for everything else.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return JSON
	}
	return YAML
}

// Document is one phase to adjudicate. Players are keyed by name; units and
// orders use the notation of diplomacy.ParseUnit and ParseOrder.
//
// For the retreat phase, Units lists the units that were not dislodged and
// Retreats lists each dislodged unit with its retreat options. For the
// adjustment phase, Ownership is the supply center ownership before the
// year-end update and Home overrides the standard home centers.
type Document struct {
	Phase     string                         `json:"phase" yaml:"phase"`
	Units     map[string][]string            `json:"units" yaml:"units"`
	Orders    map[string][]string            `json:"orders,omitempty" yaml:"orders,omitempty"`
	Retreats  map[string]map[string][]string `json:"retreats,omitempty" yaml:"retreats,omitempty"`
	Ownership map[string][]string            `json:"ownership,omitempty" yaml:"ownership,omitempty"`
	Home      map[string][]string            `json:"home,omitempty" yaml:"home,omitempty"`
	Strict    bool                           `json:"strict,omitempty" yaml:"strict,omitempty"`
}

// Error reports a problem with one part of a document. Path is a JSON
// pointer into the document, or "" for the document as a whole.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return "scenario: " + e.Err.Error()
	}
	return fmt.Sprintf("scenario %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

//go:embed scenario.schema.json
var schemaJSON []byte

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft7
		if err := c.AddResource("scenario.schema.json", bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add scenario schema: %w", err)
			return
		}
		schema, schemaErr = c.Compile("scenario.schema.json")
	})
	return schema, schemaErr
}

// Schema returns the JSON Schema scenario documents are validated against.
func Schema() []byte {
	return bytes.Clone(schemaJSON)
}

// Decode validates and decodes a scenario document.
func Decode(data []byte, format Format) (*Document, error) {
	raw := data
	if format == YAML {
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, &Error{Err: fmt.Errorf("parse yaml: %w", err)}
		}
		var err error
		if raw, err = json.Marshal(v); err != nil {
			return nil, &Error{Err: fmt.Errorf("convert yaml: %w", err)}
		}
	}

	if err := Validate(raw); err != nil {
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &Error{Err: fmt.Errorf("decode: %w", err)}
	}
	return &doc, nil
}

// Validate checks a JSON document against the scenario schema.
func Validate(data []byte) error {
	s, err := compiledSchema()
	if err != nil {
		return err
	}
	v, err := unmarshalJSON(data)
	if err != nil {
		return &Error{Err: fmt.Errorf("parse json: %w", err)}
	}
	if err := s.Validate(v); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			leaf := deepestCause(ve)
			return &Error{Path: leaf.InstanceLocation, Err: errors.New(leaf.Message)}
		}
		return &Error{Err: err}
	}
	return nil
}

// unmarshalJSON decodes an instance for jsonschema v5, which expects numbers
// as json.Number, and rejects trailing data after the top-level value.
func unmarshalJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("invalid character after top-level value")
	}
	return v, nil
}

func deepestCause(ve *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return ve
}

// Encode writes a document in the given format.
func Encode(doc *Document, format Format) ([]byte, error) {
	if format == JSON {
		return json.MarshalIndent(doc, "", "  ")
	}
	return yaml.Marshal(doc)
}
