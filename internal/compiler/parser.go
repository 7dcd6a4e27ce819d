package compiler

import (
	"fmt"

	"github.com/aretw0/cadence/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Parser is responsible for converting raw definition documents into Definitions.
type Parser struct {
	strict bool
}

// NewParser creates a new parser instance. Unknown fields are rejected.
func NewParser() *Parser {
	return &Parser{strict: true}
}

// Parse decodes a YAML or JSON document.
func (p *Parser) Parse(data []byte) (*domain.Definition, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse definition: %w", err)
	}
	return p.Decode(raw)
}

// Decode maps an already decoded document (for example loam front matter) onto a Definition.
func (p *Parser) Decode(raw map[string]any) (*domain.Definition, error) {
	var def domain.Definition
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &def,
		TagName:     "mapstructure",
		ErrorUnused: p.strict,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidDefinition, err)
	}
	if def.ID == "" {
		return nil, fmt.Errorf("%w: definition missing id", domain.ErrInvalidDefinition)
	}
	return &def, nil
}
