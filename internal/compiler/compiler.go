// Package compiler turns dialogue documents into domain dialogues.
//
// A document goes through three steps: decoding (YAML or JSON bytes, or an
// already parsed map, into dto records), validation of the records, and
// conversion into the immutable domain graph. Custom hooks are resolved
// against a registry during conversion.
package compiler

import (
	"errors"
	"fmt"

	"github.com/aretw0/parley/internal/dto"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/registry"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DocumentError is a problem found in a document.
type DocumentError struct {
	Dialogue string
	Field    string
	Reason   string
}

func (e *DocumentError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("dialogue %q: %s", e.Dialogue, e.Reason)
	}
	return fmt.Sprintf("dialogue %q: %s: %s", e.Dialogue, e.Field, e.Reason)
}

// Compiler is safe for concurrent use once built.
type Compiler struct {
	registry *registry.Registry
	validate *validator.Validate
}

// Option configures the Compiler.
type Option func(*Compiler)

// WithRegistry sets the registry custom hooks are resolved from.
func WithRegistry(r *registry.Registry) Option {
	return func(c *Compiler) {
		c.registry = r
	}
}

// New creates a compiler. Without a registry, documents using hooks fail to compile.
func New(opts ...Option) *Compiler {
	c := &Compiler{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CompileBytes parses, validates and converts a YAML or JSON document.
func (c *Compiler) CompileBytes(data []byte) (*domain.Dialogue, error) {
	doc, err := c.Parse(data)
	if err != nil {
		return nil, err
	}
	return c.Compile(doc)
}

// Parse decodes and validates a YAML or JSON document.
func (c *Compiler) Parse(data []byte) (*dto.Document, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse dialogue document: %w", err)
	}
	if raw == nil {
		return nil, &DocumentError{Reason: "document is empty"}
	}
	return c.Decode(raw)
}

// Decode converts a parsed map into a validated document.
func (c *Compiler) Decode(raw map[string]any) (*dto.Document, error) {
	var doc dto.Document
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &doc,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		name, _ := raw["name"].(string)
		return nil, &DocumentError{Dialogue: name, Reason: err.Error()}
	}
	if err := c.Validate(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks the structural rules of a document. Every violation is
// reported as a DocumentError joined into the returned error.
func (c *Compiler) Validate(doc *dto.Document) error {
	err := c.validate.Struct(doc)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &DocumentError{Dialogue: doc.Name, Reason: err.Error()}
	}
	errs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		reason := "failed " + fe.Tag()
		if fe.Param() != "" {
			reason += "=" + fe.Param()
		}
		errs = append(errs, &DocumentError{Dialogue: doc.Name, Field: fe.Namespace(), Reason: reason})
	}
	return errors.Join(errs...)
}

// Compile converts a validated document into a dialogue.
func (c *Compiler) Compile(doc *dto.Document) (*domain.Dialogue, error) {
	b, err := newBuilder(doc, c.registry)
	if err != nil {
		return nil, err
	}

	start := domain.Node{Owner: doc.Start.Owner}
	start.Edges = b.edges("start.edges", doc.Start.Edges)

	nodes := make([]domain.Node, len(doc.Nodes))
	for i, n := range doc.Nodes {
		nodes[i] = b.node(fmt.Sprintf("nodes[%d]", i), n)
	}

	if err := errors.Join(b.errs...); err != nil {
		return nil, err
	}

	participants := make([]domain.ParticipantData, len(doc.Participants))
	for i, p := range doc.Participants {
		participants[i] = domain.ParticipantData{
			Name:        p.Name,
			DisplayName: p.DisplayName,
			Gender:      domain.Gender(p.Gender),
			Ints:        p.Ints,
			Floats:      p.Floats,
			Bools:       p.Bools,
			Names:       p.Names,
		}
	}

	d, err := domain.NewDialogue(doc.Name, b.guid, start, nodes, participants)
	if err != nil {
		return nil, &DocumentError{Dialogue: doc.Name, Reason: err.Error()}
	}
	if doc.Description != "" {
		d = d.WithDescription(doc.Description)
	}
	return d, nil
}
